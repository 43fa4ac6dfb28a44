package query

import (
	"fmt"
	"time"

	"github.com/iancoleman/strcase"

	"github.com/prediction-registry/registry/pkg/query/lexer"
	"github.com/prediction-registry/registry/pkg/query/parser"
)

// Condition is a validated comparison ready to be applied to a store query.
// Value is a string, a float64, a time.Time (for dates) or a []string for
// set operators.
type Condition struct {
	Column   string
	Also     []string
	Kind     ValueKind
	Operator parser.OperatorKind
	Value    interface{}
}

type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(format string, a ...interface{}) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, a...)}
}

// ParseFilter turns "key op value [AND ...]" into conditions for the given
// resource. An empty filter yields no conditions.
func ParseFilter(input string, schema Schema) ([]*Condition, error) {
	if input == "" {
		return make([]*Condition, 0), nil
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("error while lexing %s: %w", input, err)
	}

	ast, err := parser.Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("error while parsing %s: %w", input, err)
	}

	conditions := make([]*Condition, 0, len(ast.Exprs))

	for _, expr := range ast.Exprs {
		condition, err := ValidateExpression(expr, schema)
		if err != nil {
			return nil, fmt.Errorf("error while validating %s: %w", input, err)
		}

		conditions = append(conditions, condition)
	}

	return conditions, nil
}

// NewCondition builds a condition from a typed query parameter, going through
// the same checks as a parsed filter.
func NewCondition(schema Schema, key string, operator parser.OperatorKind, value parser.Value) (*Condition, error) {
	return ValidateExpression(&parser.CompareExpr{
		Left:     parser.Identifier{Key: key},
		Operator: operator,
		Right:    value,
	}, schema)
}

// ValidateExpression type-checks a parsed comparison against the schema of a
// resource: the key must exist, and the value must fit the field kind.
func ValidateExpression(expr *parser.CompareExpr, schema Schema) (*Condition, error) {
	if !schema.acceptsIdentifier(expr.Left.Identifier) {
		return nil, NewValidationError(
			"invalid identifier %q for %s, allowed values are %v",
			expr.Left.Identifier, schema.Name, schema.Aliases,
		)
	}

	key := strcase.ToSnake(expr.Left.Key)

	field, ok := schema.Fields[key]
	if !ok {
		return nil, NewValidationError(
			"invalid %s filter key %q, allowed values are %v",
			schema.Name, expr.Left.Key, schema.keys(),
		)
	}

	value, err := validateValue(key, field, expr.Operator, expr.Right)
	if err != nil {
		return nil, err
	}

	return &Condition{
		Column:   field.Column,
		Also:     field.Also,
		Kind:     field.Kind,
		Operator: expr.Operator,
		Value:    value,
	}, nil
}

func validateValue(key string, field Field, operator parser.OperatorKind, value parser.Value) (interface{}, error) {
	if operator.IsSet() {
		if field.Kind != KindString {
			return nil, NewValidationError("%s does not support %s, only string keys do", key, operator)
		}

		if _, ok := value.(parser.StringListExpr); !ok {
			return nil, NewValidationError("expected a list of quoted strings for %s %s", key, operator)
		}

		return parser.Raw(value), nil
	}

	if operator.IsPattern() && field.Kind != KindString {
		return nil, NewValidationError("%s does not support %s, only string keys do", key, operator)
	}

	switch field.Kind {
	case KindNumber:
		if _, ok := value.(parser.NumberExpr); !ok {
			return nil, NewValidationError("expected numeric value for %s. Found %v", key, parser.Raw(value))
		}
	case KindString:
		if _, ok := value.(parser.StringExpr); !ok {
			return nil, NewValidationError("expected a quoted string value for %s. Found %v", key, parser.Raw(value))
		}
	case KindDate:
		str, ok := value.(parser.StringExpr)
		if !ok {
			return nil, NewValidationError("expected a quoted 'YYYY-MM-DD' date for %s. Found %v", key, parser.Raw(value))
		}

		date, err := time.Parse(time.DateOnly, str.Value)
		if err != nil {
			return nil, NewValidationError("expected a quoted 'YYYY-MM-DD' date for %s. Found %q", key, str.Value)
		}

		return date.UTC(), nil
	}

	return parser.Raw(value), nil
}
