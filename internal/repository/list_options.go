package repository

import (
	"sort"
	"strings"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
)

// ListOptions carries the sort and filter query parameters of the list
// endpoints. Zero values mean "no sort" / "no filter".
type ListOptions struct {
	SortBy       string
	Order        string
	Filter       string
	FilterValues []string
}

// orderBy validates sort_by against allowed and returns an ORDER BY clause.
// Column names never come from the request verbatim.
func orderBy(opts ListOptions, allowed map[string]string) (string, error) {
	if opts.SortBy == "" {
		return "", nil
	}
	col, ok := allowed[opts.SortBy]
	if !ok {
		return "", apperr.Validation("sort_by must be one of " + keys(allowed))
	}
	dir := "ASC"
	switch strings.ToUpper(opts.Order) {
	case "", "ASC":
	case "DESC":
		dir = "DESC"
	default:
		return "", apperr.Validation("order must be ASC or DESC")
	}
	return " ORDER BY " + col + " " + dir, nil
}

func keys(m map[string]string) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

func parseBoolValue(values []string) (bool, error) {
	if len(values) == 0 {
		return false, apperr.Validation("filter_values is required")
	}
	switch strings.ToLower(values[0]) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, apperr.Validation("is_favorite filter expects true or false")
}
