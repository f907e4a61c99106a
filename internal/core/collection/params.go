package collection

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/appshelf/appshelf/internal/core/validation"
)

// reservedParams are query-string keys that are not filters.
var reservedParams = []string{"search", "q", "sortBy", "sort", "page", "limit", "offset", "envelope"}

// ParseQuery turns query-string values into a Query for the described
// collection. Unknown filter names and malformed numbers are reported as
// validation errors.
func ParseQuery(values url.Values, desc Descriptor) (Query, error) {
	q := Query{
		Search: first(values, "search", "q"),
		SortBy: SortKey(first(values, "sortBy", "sort")),
	}

	var errs []validation.ValidationError
	number := func(name string) int {
		raw := values.Get(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validation.ValidationError{Field: name, Message: "must be an integer"})
		}
		return n
	}
	q.Page = number("page")
	q.Limit = number("limit")
	q.Offset = number("offset")

	for name, vals := range values {
		if slices.Contains(reservedParams, name) || len(vals) == 0 {
			continue
		}
		value := vals[0]

		switch {
		case slices.Contains(desc.Filters, name):
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[name] = value
		case slices.Contains(desc.Flags, name):
			b, err := strconv.ParseBool(value)
			if err != nil {
				errs = append(errs, validation.ValidationError{Field: name, Message: "must be a boolean"})
				continue
			}
			if q.Flags == nil {
				q.Flags = make(map[string]bool)
			}
			q.Flags[name] = b
		default:
			errs = append(errs, validation.ValidationError{
				Field:   name,
				Message: fmt.Sprintf("unknown filter for %s (allowed: %s)", desc.Name, strings.Join(append(slices.Clone(desc.Filters), desc.Flags...), ", ")),
			})
		}
	}

	if len(errs) > 0 {
		slices.SortFunc(errs, func(a, b validation.ValidationError) int { return strings.Compare(a.Field, b.Field) })
		return Query{}, &validation.ValidationErrors{Errors: errs}
	}
	return q, nil
}

func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if v := values.Get(k); v != "" {
			return v
		}
	}
	return ""
}
