package query

// Request is the filter, sort and paging descriptor a client sends with a
// listing. Nil fields impose no constraint.
type Request struct {
	Query        *string `json:"query,omitempty"`
	QueryColumns *string `json:"query_columns,omitempty"`
	SortBy       *string `json:"sort_by,omitempty"`
	SortOrder    *string `json:"sort_order,omitempty"`
	Limit        *uint64 `json:"limit,omitempty"`
	Offset       *uint64 `json:"offset,omitempty"`
}

// Columns is the allow-list of physical column names of one tenant table.
type Columns map[string]struct{}

func NewColumns(names []string) Columns {
	cols := make(Columns, len(names))
	for _, n := range names {
		cols[n] = struct{}{}
	}
	return cols
}

func (c Columns) Has(name string) bool {
	_, ok := c[name]
	return ok
}
