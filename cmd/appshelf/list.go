package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appshelf/appshelf/internal/core/collection"
)

type listOptions struct {
	search  string
	sort    string
	page    int
	limit   int
	filters []string
	flags   []string
}

func listCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Query a collection",
		Long: `Query a collection the same way GET /api/<collection> does.

Examples:
  appshelf list notes --sort title
  appshelf list products --flag lowStock --sort price-desc
  appshelf list tasks --filter status=pending --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			c, ok := a.Registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown collection %q (have: %s)", args[0], strings.Join(a.Registry.Names(), ", "))
			}

			values, err := opts.values()
			if err != nil {
				return err
			}
			q, err := collection.ParseQuery(values, c.Describe())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(c.Browse(q))
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "case-insensitive search")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort key (latest, oldest, name, price-asc, ...)")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 0, "page number, 1-based")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "page size")
	cmd.Flags().StringArrayVarP(&opts.filters, "filter", "f", nil, "exact filter as field=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.flags, "flag", nil, "derived filter name, optionally name=false (repeatable)")

	return cmd
}

// values renders the options as query-string values for ParseQuery.
func (o listOptions) values() (url.Values, error) {
	v := url.Values{}
	if o.search != "" {
		v.Set("search", o.search)
	}
	if o.sort != "" {
		v.Set("sortBy", o.sort)
	}
	if o.page != 0 {
		v.Set("page", strconv.Itoa(o.page))
	}
	if o.limit != 0 {
		v.Set("limit", strconv.Itoa(o.limit))
	}
	for _, f := range o.filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("filter %q must look like field=value", f)
		}
		v.Set(name, value)
	}
	for _, f := range o.flags {
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			value = "true"
		}
		v.Set(name, value)
	}
	return v, nil
}
