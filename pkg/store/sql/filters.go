package sql

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/prediction-registry/registry/pkg/entities"
	"github.com/prediction-registry/registry/pkg/query"
	"github.com/prediction-registry/registry/pkg/query/parser"
	"github.com/prediction-registry/registry/pkg/store"
)

func applyConditions(transaction *gorm.DB, conditions []*query.Condition) *gorm.DB {
	dialect := transaction.Dialector.Name()

	for _, condition := range conditions {
		value := conditionValue(condition)
		columns := append([]string{condition.Column}, condition.Also...)

		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))

		for _, column := range columns {
			clauses = append(clauses, comparison(dialect, column, condition.Operator))
			args = append(args, value)
		}

		if len(clauses) == 1 {
			transaction = transaction.Where(clauses[0], args...)
		} else {
			transaction = transaction.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
	}

	return transaction
}

// comparison renders "column op ?". Patterns escape with a backslash, and
// ILIKE only exists on postgres so other dialects compare lowercased values.
func comparison(dialect, column string, operator parser.OperatorKind) string {
	escape := `'\'`
	if dialect == "mysql" {
		escape = `'\\'`
	}

	switch {
	case operator == parser.ILike && dialect != "postgres":
		return fmt.Sprintf("LOWER(%s) LIKE LOWER(?) ESCAPE %s", column, escape)
	case operator.IsPattern():
		return fmt.Sprintf("%s %s ? ESCAPE %s", column, operator, escape)
	default:
		return fmt.Sprintf("%s %s ?", column, operator)
	}
}

func conditionValue(condition *query.Condition) interface{} {
	switch value := condition.Value.(type) {
	case time.Time:
		return value.Format(entities.DateLayout)
	case float64:
		if value == math.Trunc(value) {
			return int64(value)
		}

		return value
	default:
		return value
	}
}

// paginate counts the matching rows, then narrows the query to the requested
// page. Callers must pass a query that is safe to reuse.
func paginate(transaction *gorm.DB, options *store.ListOptions) (*gorm.DB, int64, int, error) {
	var count int64
	if err := transaction.Count(&count).Error; err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count rows: %w", err)
	}

	pageSize := max(options.PageSize, 1)
	pages := int((count + int64(pageSize) - 1) / int64(pageSize))

	// Pages past the last one are empty; bounding page keeps the offset from
	// overflowing.
	page := min(max(options.Page, 1), pages+1)

	return transaction.Limit(pageSize).Offset((page - 1) * pageSize), count, pages, nil
}
