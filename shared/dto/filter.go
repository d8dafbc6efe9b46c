package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorIn        = "in"
	FilterOperatorIsNull    = "is_null"
	FilterOperatorIsNotNull = "is_not_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Filter is a single predicate on one column, rendered as a named-parameter fragment for sqlx.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq not_eq in is_null is_not_null"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) arg() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	column, arg := f.column(), f.arg()

	switch f.Operator {
	case FilterOperatorEq:
		return fmt.Sprintf("%s = :%s", column, arg), map[string]any{arg: f.Value}
	case FilterOperatorNotEq:
		return fmt.Sprintf("%s != :%s", column, arg), map[string]any{arg: f.Value}
	case FilterOperatorIn:
		return f.inClause(column, arg)
	case FilterOperatorIsNull:
		return column + " IS NULL", map[string]any{}
	case FilterOperatorIsNotNull:
		return column + " IS NOT NULL", map[string]any{}
	default:
		return "", map[string]any{}
	}
}

// inClause expands a slice value into one named parameter per element.
// An empty slice matches nothing.
func (f *Filter) inClause(column, arg string) (string, map[string]any) {
	args := map[string]any{}

	val := reflect.ValueOf(f.Value)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		args[arg] = f.Value

		return fmt.Sprintf("%s = :%s", column, arg), args
	}

	if val.Len() == 0 {
		return "FALSE", args
	}

	named := make([]string, val.Len())

	for idx := range val.Len() {
		name := fmt.Sprintf("%s_%d", arg, idx)
		args[name] = val.Index(idx).Interface()
		named[idx] = ":" + name
	}

	return fmt.Sprintf("%s IN (%s)", column, strings.Join(named, ", ")), args
}

// FilterGroup joins Filters and nested FilterGroups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, item := range f.Filters {
		var (
			clause string
			arg    map[string]any
		)

		switch filter := item.(type) {
		case Filter:
			clause, arg = filter.GetWhereClause()
		case FilterGroup:
			clause, arg = filter.GetWhereClause()
		default:
			continue
		}

		if clause == "" {
			continue
		}

		clauses = append(clauses, clause)
		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
