package service

import (
	"fmt"

	"github.com/prediction-registry/registry/pkg/config"
	"github.com/prediction-registry/registry/pkg/contract"
	"github.com/prediction-registry/registry/pkg/contract/service"
	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/query/parser"
	"github.com/prediction-registry/registry/pkg/store"
	"github.com/prediction-registry/registry/pkg/utils"
)

type RegistryService struct {
	config *config.Config
	store  store.RegistryStore
}

var _ service.RegistryService = (*RegistryService)(nil)

func NewRegistryService(cfg *config.Config, registryStore store.RegistryStore) *RegistryService {
	return &RegistryService{config: cfg, store: registryStore}
}

// param is a typed list parameter, checked like a filter expression.
type param struct {
	key      string
	operator parser.OperatorKind
	value    parser.Value
}

func contains(key, value string) param {
	return param{key: key, operator: parser.ILike, value: parser.StringExpr{Value: "%" + utils.EscapeLike(value) + "%"}}
}

func equalsIgnoringCase(key, value string) param {
	return param{key: key, operator: parser.ILike, value: parser.StringExpr{Value: utils.EscapeLike(value)}}
}

func listConditions(schema query.Schema, filter string, params ...param) ([]*query.Condition, *contract.Error) {
	conditions, err := query.ParseFilter(filter, schema)
	if err != nil {
		return nil, contract.NewErrorWith(contract.BAD_REQUEST, fmt.Sprintf("Invalid filter: %v", err), err)
	}

	for _, p := range params {
		condition, err := query.NewCondition(schema, p.key, p.operator, p.value)
		if err != nil {
			return nil, contract.NewErrorWith(
				contract.BAD_REQUEST,
				fmt.Sprintf("Invalid value for parameter '%s': %v", p.key, err),
				err,
			)
		}

		conditions = append(conditions, condition)
	}

	return conditions, nil
}

// listOptions applies the configured page size defaults; oversized pages are
// capped rather than rejected.
func (r *RegistryService) listOptions(pagination service.Pagination, conditions []*query.Condition) *store.ListOptions {
	pageSize := pagination.PageSize
	if pageSize <= 0 {
		pageSize = r.config.DefaultPageSize
	}

	return &store.ListOptions{
		Conditions: conditions,
		Page:       max(pagination.Page, 1),
		PageSize:   min(pageSize, r.config.MaxPageSize),
	}
}

func invalidParameter(err error) *contract.Error {
	return contract.NewErrorWith(contract.INVALID_PARAMETER_VALUE, err.Error(), err)
}

func permissionDenied(action, resource string) *contract.Error {
	return contract.NewError(
		contract.PERMISSION_DENIED,
		fmt.Sprintf("You are not authorized to %s this %s", action, resource),
	)
}

func unauthenticated() *contract.Error {
	return contract.NewError(contract.UNAUTHENTICATED, "Authentication required")
}
