package service

import (
	"context"
	"fmt"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/post/query"
	"github.com/humanmade/authorship/pkg/logger"
)

type postService struct {
	repo     post.Repository
	authors  attribution.Service
	rewriter *query.Rewriter
	defaults DefaultAuthorsFunc
}

// NewPostService creates a post service instance. defaults overrides the
// attribution list applied to posts saved without an explicit one; nil
// keeps the owner default.
func NewPostService(
	repo post.Repository,
	authors attribution.Service,
	rewriter *query.Rewriter,
	defaults DefaultAuthorsFunc,
) post.Service {
	return &postService{
		repo:     repo,
		authors:  authors,
		rewriter: rewriter,
		defaults: defaults,
	}
}

func (s *postService) Create(ctx context.Context, input *post.SaveInput) (*post.Post, error) {
	handler := NewInsertHandler(s.authors, s.defaults)
	input = handler.FilterPostData(input)

	p := &post.Post{
		Type:     input.Type,
		Status:   input.Status,
		AuthorID: input.AuthorID,
		Title:    input.Title,
		Slug:     input.Slug,
	}
	if p.Status == "" {
		p.Status = post.StatusDraft
	}
	if p.Status == post.StatusTrash {
		p.TrashMetaStatus = post.StatusDraft
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if len(input.TaxInputAuthors) > 0 {
		if _, err := s.authors.SetAuthors(ctx, created, input.TaxInputAuthors); err != nil {
			logger.Warn("failed to apply direct author input on create", err)
		}
	}

	handler.PostInserted(ctx, created, false)

	return created, nil
}

func (s *postService) Update(ctx context.Context, id int64, input *post.UpdateInput) (*post.Post, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	handler := NewInsertHandler(s.authors, s.defaults)
	handler.FilterPostData(&post.SaveInput{
		Type:    existing.Type,
		Authors: input.Authors,
	})

	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Slug != nil {
		existing.Slug = *input.Slug
	}
	if input.Status != nil {
		applyStatusChange(existing, *input.Status)
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	handler.PostInserted(ctx, updated, true)

	return updated, nil
}

// applyStatusChange moves a post between statuses, tracking the
// pre-trash status so capability checks on trashed posts behave as they
// did before trashing.
func applyStatusChange(p *post.Post, next post.Status) {
	if next == p.Status {
		return
	}

	if next == post.StatusTrash {
		p.TrashMetaStatus = p.Status
	} else if p.Status == post.StatusTrash {
		p.TrashMetaStatus = ""
	}

	p.Status = next
}

func (s *postService) GetByID(ctx context.Context, id int64) (*post.Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *postService) List(ctx context.Context, q *post.Query) ([]post.Post, error) {
	return s.rewriter.Run(ctx, q, s.repo.List)
}
