package query

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
)

// UserResolver resolves author slugs for the author_name query var.
type UserResolver interface {
	FindBySlug(ctx context.Context, slug string) (*user.User, error)
}

// Rewriter translates native author query vars into attribution filters
// for post types that participate in authorship. Queries touching any
// non-participating type are left untouched.
type Rewriter struct {
	types *post.TypeRegistry
	users UserResolver
}

// NewRewriter creates a query rewriter.
func NewRewriter(types *post.TypeRegistry, users UserResolver) *Rewriter {
	return &Rewriter{types: types, users: users}
}

// PreGetPosts rewrites the query in place and returns a restore function
// that puts the native author vars back after execution, so downstream
// consumers of the query object see the vars the caller set. The restore
// function fires at most once and is never nil.
func (r *Rewriter) PreGetPosts(ctx context.Context, q *post.Query) (func(), error) {
	noop := func() {}

	if len(q.PostType) == 0 {
		q.PostType = []string{"post"}
	}

	for _, typeName := range q.PostType {
		if !r.types.IsSupported(typeName) {
			return noop, nil
		}
	}

	if !q.HasAuthorVars() {
		return noop, nil
	}

	saved := savedVars{
		author:      q.Author,
		authorName:  q.AuthorName,
		authorIn:    q.AuthorIn,
		authorNotIn: q.AuthorNotIn,
		filters:     q.AuthorFilters,
	}

	// The zero sentinel survives when nothing resolves, producing a
	// filter that matches no posts rather than silently matching all.
	userIDs := []int64{0}

	switch {
	case q.Author != "":
		userIDs = parseIDList(q.Author)
	case q.AuthorName != "":
		resolved, err := r.users.FindBySlug(ctx, q.AuthorName)
		if err == nil && resolved != nil {
			userIDs = []int64{resolved.ID}
			saved.resolvedAuthor = resolved.ID
		}
	case len(q.AuthorIn) > 0:
		userIDs = append([]int64{}, q.AuthorIn...)
	case len(q.AuthorNotIn) > 0:
		userIDs = make([]int64, len(q.AuthorNotIn))
		for i, id := range q.AuthorNotIn {
			userIDs[i] = -id
		}
	}

	q.Author = ""
	q.AuthorName = ""
	q.AuthorIn = nil
	q.AuthorNotIn = nil

	q.AuthorFilters = append(q.AuthorFilters, buildFilter(userIDs))

	var once sync.Once
	return func() {
		once.Do(func() {
			saved.restore(q)
		})
	}, nil
}

// Run executes a query with the author vars rewritten, restoring them
// whether or not execution succeeds.
func (r *Rewriter) Run(
	ctx context.Context,
	q *post.Query,
	exec func(ctx context.Context, q *post.Query) ([]post.Post, error),
) ([]post.Post, error) {
	restore, err := r.PreGetPosts(ctx, q)
	if err != nil {
		return nil, err
	}
	defer restore()

	return exec(ctx, q)
}

type savedVars struct {
	author      string
	authorName  string
	authorIn    []int64
	authorNotIn []int64
	filters     []post.AuthorFilter

	// resolvedAuthor carries the ID an author_name lookup resolved to,
	// so author archives behave as if the ID had been queried directly.
	resolvedAuthor int64
}

func (s savedVars) restore(q *post.Query) {
	q.Author = s.author
	q.AuthorName = s.authorName
	q.AuthorIn = s.authorIn
	q.AuthorNotIn = s.authorNotIn
	q.AuthorFilters = s.filters

	// An author_name query pins the resolved ID, even when the lookup
	// found nobody; "0" keeps the archive matching nothing instead of
	// silently widening to every post.
	if s.authorName != "" {
		q.Author = strconv.FormatInt(s.resolvedAuthor, 10)
	}
}

// buildFilter converts a signed ID list into an attribution filter. The
// sign of the first ID picks the operator, matching how the native
// author var expresses exclusion.
func buildFilter(userIDs []int64) post.AuthorFilter {
	operator := post.FilterInclude
	if len(userIDs) > 0 && userIDs[0] < 0 {
		operator = post.FilterExclude
	}

	terms := make([]int64, len(userIDs))
	for i, id := range userIDs {
		if id < 0 {
			terms[i] = -id
		} else {
			terms[i] = id
		}
	}

	return post.AuthorFilter{UserIDs: terms, Operator: operator}
}

func parseIDList(list string) []int64 {
	parts := strings.Split(list, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []int64{0}
	}
	return ids
}
