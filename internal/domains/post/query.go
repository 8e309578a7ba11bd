package post

// FilterOperator says whether an author filter matches or excludes the
// listed users.
type FilterOperator string

const (
	FilterInclude FilterOperator = "IN"
	FilterExclude FilterOperator = "NOT IN"
)

// AuthorFilter matches posts against the attribution relation. It is the
// analogue of a taxonomy filter clause on the author relation.
type AuthorFilter struct {
	UserIDs  []int64
	Operator FilterOperator
}

// Query describes a post listing. The author vars mirror the host's
// native query parameters; the rewriter moves them into AuthorFilters
// for participating post types before execution.
type Query struct {
	PostType []string
	Status   []Status

	// Native author vars. Author accepts a single ID or a comma-separated
	// list; negative IDs mean exclusion.
	Author      string
	AuthorName  string
	AuthorIn    []int64
	AuthorNotIn []int64

	// AuthorFilters are attribution-relation clauses appended by the
	// query rewriter (or set directly by callers).
	AuthorFilters []AuthorFilter

	// WithoutAuthors limits results to posts with no attribution relation
	// at all. Used by the migration command.
	WithoutAuthors bool

	// WithOwner drops posts whose owner column is unset. Those posts have
	// nobody to attribute, so the migration command filters them out up
	// front instead of fetching and skipping them on every pass.
	WithOwner bool

	Page    int
	PerPage int
}

// HasAuthorVars reports whether any native author var is set.
func (q *Query) HasAuthorVars() bool {
	return q.Author != "" || q.AuthorName != "" || len(q.AuthorIn) > 0 || len(q.AuthorNotIn) > 0
}
