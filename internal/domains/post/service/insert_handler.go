package service

import (
	"context"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/pkg/logger"
)

// DefaultAuthorsFunc produces the attribution list for a post saved
// without an explicit one. The default attributes the owner.
type DefaultAuthorsFunc func(p *post.Post) []int64

func defaultAuthors(p *post.Post) []int64 {
	if p.AuthorID > 0 {
		return []int64{p.AuthorID}
	}
	return nil
}

// InsertHandler runs the attribution pass around a post save. It works
// in two phases because the attribution fields are consumed from the
// raw save input, not from the persisted post: FilterPostData captures
// the input before persistence, PostInserted applies attribution after.
//
// A handler instance serves exactly one save and is not safe for reuse.
type InsertHandler struct {
	authors  attribution.Service
	defaults DefaultAuthorsFunc

	captured *post.SaveInput
}

// NewInsertHandler creates a handler for a single save operation.
func NewInsertHandler(authors attribution.Service, defaults DefaultAuthorsFunc) *InsertHandler {
	if defaults == nil {
		defaults = defaultAuthors
	}
	return &InsertHandler{authors: authors, defaults: defaults}
}

// FilterPostData captures the save input and passes it through.
func (h *InsertHandler) FilterPostData(input *post.SaveInput) *post.SaveInput {
	h.captured = input
	return input
}

// PostInserted applies attribution for the save captured earlier.
// Attribution failures never fail the save; they are logged and the post
// stands without an author list.
func (h *InsertHandler) PostInserted(ctx context.Context, p *post.Post, isUpdate bool) {
	captured := h.captured
	h.captured = nil

	if captured == nil {
		return
	}

	// A direct relation write in the same save wins outright.
	if len(captured.TaxInputAuthors) > 0 {
		return
	}

	var authors []int64
	if captured.Authors != nil {
		authors = *captured.Authors
	} else {
		if isUpdate {
			existing, err := h.authors.GetAuthorIDs(ctx, p)
			if err == nil && len(existing) > 0 {
				return
			}
		}
		for _, id := range h.defaults(p) {
			if id != 0 {
				authors = append(authors, id)
			}
		}
	}

	if len(authors) == 0 {
		return
	}

	if _, err := h.authors.SetAuthors(ctx, p, authors); err != nil {
		logger.Warn("failed to set default authors on save", err)
	}
}
