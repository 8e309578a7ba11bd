package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/humanmade/authorship/internal/domains/attribution"
	"github.com/humanmade/authorship/internal/domains/capability"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
	"github.com/humanmade/authorship/internal/shared/middleware"
	"github.com/humanmade/authorship/internal/shared/response"
	"github.com/humanmade/authorship/pkg/logger"
)

// PostHandler serves post CRUD with authorship attached.
type PostHandler struct {
	svc     post.Service
	authors attribution.Service
	types   *post.TypeRegistry
	caps    *capability.Checker
}

// NewPostHandler creates a post handler instance.
func NewPostHandler(
	svc post.Service,
	authors attribution.Service,
	types *post.TypeRegistry,
	caps *capability.Checker,
) *PostHandler {
	return &PostHandler{svc: svc, authors: authors, types: types, caps: caps}
}

// link is a single HAL-style link entry.
type link struct {
	Href       string `json:"href"`
	Embeddable bool   `json:"embeddable,omitempty"`
}

// postResponse is a post plus its attributed author list. The authorship
// link replaces the native author link, so API consumers discover the
// attribution endpoint instead of the owner column.
type postResponse struct {
	*post.Post
	Authorship []int64                `json:"authorship"`
	AuthorList []*user.AuthorResponse `json:"authors,omitempty"`
	Links      map[string][]link      `json:"_links,omitempty"`
}

func (h *PostHandler) buildResponse(c *gin.Context, p *post.Post, withLinks, withAuthors bool) (*postResponse, error) {
	ids, err := h.authors.GetAuthorIDs(c.Request.Context(), p)
	if err != nil {
		return nil, err
	}

	resp := &postResponse{Post: p, Authorship: ids}

	if withAuthors {
		users, err := h.authors.GetAuthors(c.Request.Context(), p)
		if err != nil {
			return nil, err
		}
		resp.AuthorList = make([]*user.AuthorResponse, len(users))
		for i := range users {
			resp.AuthorList[i] = users[i].ToAuthorResponse(false)
		}
	}

	if withLinks {
		resp.Links = map[string][]link{
			"self": {{Href: fmt.Sprintf("/api/v1/posts/%d", p.ID)}},
			"wp:authorship": {{
				Href:       fmt.Sprintf("/authorship/v1/users?post_type=%s", p.Type),
				Embeddable: true,
			}},
		}
	}

	return resp, nil
}

// List handles GET /api/v1/posts.
func (h *PostHandler) List(c *gin.Context) {
	q := &post.Query{
		Author:      c.Query("author"),
		AuthorName:  c.Query("author_name"),
		AuthorIn:    idListQuery(c, "author__in"),
		AuthorNotIn: idListQuery(c, "author__not_in"),
		Page:        intQuery(c, "page", 1),
		PerPage:     intQuery(c, "per_page", 10),
	}

	if postType := c.Query("post_type"); postType != "" {
		q.PostType = strings.Split(postType, ",")
	}
	if status := c.Query("status"); status != "" {
		for _, s := range strings.Split(status, ",") {
			q.Status = append(q.Status, post.Status(s))
		}
	} else {
		q.Status = []post.Status{post.StatusPublish}
	}

	posts, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		logger.Error("failed to list posts", err)
		response.InternalServerError(c, "failed to list posts")
		return
	}

	results := make([]*postResponse, 0, len(posts))
	for i := range posts {
		resp, err := h.buildResponse(c, &posts[i], false, false)
		if err != nil {
			logger.Error("failed to resolve post authors", err)
			response.InternalServerError(c, "failed to list posts")
			return
		}
		results = append(results, resp)
	}

	response.SuccessWithMeta(c, http.StatusOK, results, &response.Meta{
		Page:  q.Page,
		Limit: q.PerPage,
	})
}

// Get handles GET /api/v1/posts/:id.
func (h *PostHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid post id")
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		logger.Error("failed to get post", err)
		response.InternalServerError(c, "failed to get post")
		return
	}

	resp, err := h.buildResponse(c, p, true, true)
	if err != nil {
		logger.Error("failed to resolve post authors", err)
		response.InternalServerError(c, "failed to get post")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Create handles POST /api/v1/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var input post.SaveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	if _, ok := h.types.Get(input.Type); !ok {
		response.ErrorResponse(c, http.StatusBadRequest, post.ToErrorCode(post.ErrUnknownPostType), post.ErrUnknownPostType.Error())
		return
	}

	current := middleware.CurrentUser(c)
	if current == nil {
		response.Unauthorized(c, "authentication required")
		return
	}
	if input.AuthorID == 0 {
		input.AuthorID = current.ID
	}

	if !h.checkSaveCaps(c, current, input.Type, input.Authors) {
		return
	}

	if input.Authors != nil {
		if !h.validateAuthors(c, input.Type, *input.Authors) {
			return
		}
	}

	created, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		logger.Error("failed to create post", err)
		response.InternalServerError(c, "failed to create post")
		return
	}

	resp, err := h.buildResponse(c, created, true, false)
	if err != nil {
		logger.Error("failed to resolve post authors", err)
		response.InternalServerError(c, "failed to create post")
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Update handles PATCH /api/v1/posts/:id.
func (h *PostHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid post id")
		return
	}

	var input post.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := input.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	existing, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		logger.Error("failed to get post", err)
		response.InternalServerError(c, "failed to update post")
		return
	}

	current := middleware.CurrentUser(c)

	allowed, err := h.caps.UserCan(c.Request.Context(), current, "edit_post", existing.ID)
	if err != nil {
		logger.Error("capability check failed", err)
		response.InternalServerError(c, "failed to check permissions")
		return
	}
	if !allowed {
		response.Forbidden(c, "you are not allowed to edit this post")
		return
	}

	if input.Authors != nil {
		if !h.checkAttributeCap(c, current, existing.Type) {
			return
		}
		if !h.validateAuthors(c, existing.Type, *input.Authors) {
			return
		}
	}

	updated, err := h.svc.Update(c.Request.Context(), id, &input)
	if err != nil {
		logger.Error("failed to update post", err)
		response.InternalServerError(c, "failed to update post")
		return
	}

	resp, err := h.buildResponse(c, updated, true, false)
	if err != nil {
		logger.Error("failed to resolve post authors", err)
		response.InternalServerError(c, "failed to update post")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *PostHandler) checkSaveCaps(c *gin.Context, current *user.User, postType string, authors *[]int64) bool {
	t, _ := h.types.Get(postType)

	allowed, err := h.caps.UserCan(c.Request.Context(), current, t.Cap.EditPosts)
	if err != nil {
		logger.Error("capability check failed", err)
		response.InternalServerError(c, "failed to check permissions")
		return false
	}
	if !allowed {
		response.Forbidden(c, "you are not allowed to create posts of this type")
		return false
	}

	if authors != nil {
		return h.checkAttributeCap(c, current, postType)
	}
	return true
}

func (h *PostHandler) checkAttributeCap(c *gin.Context, current *user.User, postType string) bool {
	allowed, err := h.caps.UserCan(c.Request.Context(), current, capability.CapAttributePostType, postType)
	if err != nil {
		logger.Error("capability check failed", err)
		response.InternalServerError(c, "failed to check permissions")
		return false
	}
	if !allowed {
		response.Forbidden(c, "you are not allowed to attribute authors for this post type")
		return false
	}
	return true
}

func (h *PostHandler) validateAuthors(c *gin.Context, postType string, authors []int64) bool {
	err := h.authors.ValidateAuthors(c.Request.Context(), postType, authors)
	if err == nil {
		return true
	}

	if errors.Is(err, attribution.ErrUnsupportedPostType) || errors.Is(err, attribution.ErrInvalidAuthors) {
		response.ErrorResponse(c, attribution.ToHTTPStatus(err), attribution.ToErrorCode(err), err.Error())
		return false
	}

	logger.Error("author validation failed", err)
	response.InternalServerError(c, "failed to validate authors")
	return false
}

func idListQuery(c *gin.Context, name string) []int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
