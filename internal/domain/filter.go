package domain

import "strings"

// Operator is a filter comparison as written in a filter param ("eq", "gt", ...).
type Operator string

const (
	OpEqual          Operator = "eq"
	OpNotEqual       Operator = "neq"
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpLike           Operator = "like"
	OpILike          Operator = "ilike"
	OpIn             Operator = "in"
	OpIs             Operator = "is"
)

var operatorSymbols = map[Operator]string{
	OpEqual:          "=",
	OpNotEqual:       "<>",
	OpGreaterThan:    ">",
	OpGreaterOrEqual: ">=",
	OpLessThan:       "<",
	OpLessOrEqual:    "<=",
	OpLike:           "~~",
	OpILike:          "~~*",
	OpIn:             "in",
	OpIs:             "is",
}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	_, ok := operatorSymbols[op]
	return ok
}

// Symbol returns the short display form of the operator.
func (op Operator) Symbol() string {
	return operatorSymbols[op]
}

// Filter narrows the rows of the selected table.
type Filter struct {
	Column   string
	Operator Operator
	Value    string
}

// Param renders the filter back to its "column:operator:value" form.
func (f Filter) Param() string {
	return f.Column + ":" + string(f.Operator) + ":" + f.Value
}

// InValues splits the value of an "in" filter on commas.
func (f Filter) InValues() []string {
	parts := strings.Split(f.Value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseFilter parses "column:operator:value". The value is everything after
// the second colon and may itself contain colons or be empty.
func ParseFilter(param string) (Filter, error) {
	parts := strings.SplitN(param, ":", 3)
	column := strings.TrimSpace(parts[0])
	if column == "" {
		return Filter{}, invalidFilterError(param, "missing column")
	}
	if len(parts) < 2 {
		return Filter{}, invalidFilterError(param, "missing operator")
	}
	op := Operator(strings.ToLower(strings.TrimSpace(parts[1])))
	if !op.Valid() {
		return Filter{}, invalidFilterError(param, "unknown operator "+string(op))
	}
	value := ""
	if len(parts) == 3 {
		value = parts[2]
	}
	return Filter{Column: column, Operator: op, Value: value}, nil
}

// FormatFilterParams converts URL filter params into filters, silently
// dropping entries that do not parse.
func FormatFilterParams(params []string) []Filter {
	filters := make([]Filter, 0, len(params))
	for _, p := range params {
		f, err := ParseFilter(p)
		if err != nil {
			continue
		}
		filters = append(filters, f)
	}
	return filters
}

// Sort orders the rows of the selected table by one column.
type Sort struct {
	Column    string
	Ascending bool
}

// Param renders the sort back to its "column:asc|desc" form.
func (s Sort) Param() string {
	if s.Ascending {
		return s.Column + ":asc"
	}
	return s.Column + ":desc"
}

// ParseSort parses "column:asc" or "column:desc". A bare column sorts ascending.
func ParseSort(param string) (Sort, error) {
	column, dir, _ := strings.Cut(param, ":")
	column = strings.TrimSpace(column)
	if column == "" {
		return Sort{}, invalidSortError(param)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return Sort{Column: column, Ascending: true}, nil
	case "desc":
		return Sort{Column: column}, nil
	default:
		return Sort{}, invalidSortError(param)
	}
}

// FormatSortParams converts URL sort params, dropping entries that do not parse.
func FormatSortParams(params []string) []Sort {
	sorts := make([]Sort, 0, len(params))
	for _, p := range params {
		s, err := ParseSort(p)
		if err != nil {
			continue
		}
		sorts = append(sorts, s)
	}
	return sorts
}

// ColumnOf returns the column a filter or sort param refers to: the text
// before the first colon.
func ColumnOf(param string) string {
	column, _, _ := strings.Cut(param, ":")
	return column
}

// WithoutColumn returns params that do not refer to column, preserving order.
func WithoutColumn(params []string, column string) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if ColumnOf(p) == column {
			continue
		}
		out = append(out, p)
	}
	return out
}
