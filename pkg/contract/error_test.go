package contract_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prediction-registry/registry/pkg/contract"
)

func TestStatusCode(t *testing.T) {
	scenarios := []struct {
		code     contract.ErrorCode
		expected int
	}{
		{code: contract.RESOURCE_DOES_NOT_EXIST, expected: http.StatusNotFound},
		{code: contract.PERMISSION_DENIED, expected: http.StatusForbidden},
		{code: contract.INVALID_PARAMETER_VALUE, expected: http.StatusForbidden},
		{code: contract.RESOURCE_ALREADY_EXISTS, expected: http.StatusForbidden},
		{code: contract.UNAUTHENTICATED, expected: http.StatusUnauthorized},
		{code: contract.BAD_REQUEST, expected: http.StatusBadRequest},
		{code: contract.ENDPOINT_NOT_FOUND, expected: http.StatusNotFound},
		{code: contract.INTERNAL_ERROR, expected: http.StatusInternalServerError},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.code.String(), func(t *testing.T) {
			assert.Equal(t, scenario.expected, contract.NewError(scenario.code, "").StatusCode())
		})
	}
}

func TestErrorBodyOnlyCarriesMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := contract.NewErrorWith(contract.INTERNAL_ERROR, "failed to get model", cause)

	body, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)
	assert.JSONEq(t, `{"message": "failed to get model"}`, string(body))

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "[INTERNAL_ERROR] failed to get model: connection refused", err.Error())
}
