package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/entities"
)

var errNullPayload = errors.New("prediction must not be null")

// canonicalPayload re-encodes an arbitrary JSON value compactly with sorted
// object keys. Numbers go through float64.
func canonicalPayload(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, errNullPayload
	}

	var value structpb.Value
	if err := protojson.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("prediction is not valid JSON: %w", err)
	}

	if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, errNullPayload
	}

	canonical, err := json.Marshal(value.AsInterface())
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction: %w", err)
	}

	return canonical, nil
}

func normalizeDate(date string) (string, *contract.Error) {
	parsed, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		return "", contract.NewErrorWith(
			contract.INVALID_PARAMETER_VALUE,
			fmt.Sprintf("Invalid predict_date %q, expected YYYY-MM-DD", date),
			err,
		)
	}

	return parsed.Format(entities.DateLayout), nil
}
