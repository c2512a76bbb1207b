package meta

import (
	"fmt"
	"strings"

	"dbdeck/internal/domain"
)

// buildWhere renders filters as a WHERE clause (without the keyword) joined
// with AND. Placeholders are numbered from next.
func buildWhere(d dialect, filters []domain.Filter, next int) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(filters))
	var args []any
	for _, f := range filters {
		if !f.Operator.Valid() {
			return "", nil, validationError(fmt.Sprintf("unknown filter operator %q", f.Operator))
		}
		col := quoteIdent(f.Column)
		switch f.Operator {
		case domain.OpIs:
			clause, err := isClause(col, f.Value)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, clause)
		case domain.OpIn:
			values := f.InValues()
			if len(values) == 0 {
				return "", nil, validationError(fmt.Sprintf("filter %q needs at least one value", f.Param()))
			}
			ph := make([]string, len(values))
			for i, v := range values {
				ph[i] = d.placeholder(next)
				next++
				args = append(args, v)
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", ")))
		default:
			clauses = append(clauses, fmt.Sprintf("%s %s %s", col, d.operator(f.Operator), d.placeholder(next)))
			next++
			args = append(args, d.filterArg(f.Operator, f.Value))
		}
	}
	return strings.Join(clauses, " AND "), args, nil
}

func isClause(col, value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "null":
		return col + " IS NULL", nil
	case "not null", "not.null":
		return col + " IS NOT NULL", nil
	case "true":
		return col + " IS TRUE", nil
	case "false":
		return col + " IS FALSE", nil
	default:
		return "", validationError(fmt.Sprintf("unsupported value %q for is filter", value))
	}
}

func buildOrderBy(sorts []domain.Sort) string {
	if len(sorts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		dir := "ASC"
		if !s.Ascending {
			dir = "DESC"
		}
		parts = append(parts, quoteIdent(s.Column)+" "+dir)
	}
	return strings.Join(parts, ", ")
}
