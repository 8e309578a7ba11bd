package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/humanmade/authorship/internal/domains/capability"
	"github.com/humanmade/authorship/internal/domains/user"
	"github.com/humanmade/authorship/internal/shared/middleware"
	"github.com/humanmade/authorship/internal/shared/response"
	"github.com/humanmade/authorship/pkg/logger"
)

// UserHandler serves authentication and the restricted author endpoints.
type UserHandler struct {
	svc  user.Service
	caps *capability.Checker
}

// NewUserHandler creates a user handler instance.
func NewUserHandler(svc user.Service, caps *capability.Checker) *UserHandler {
	return &UserHandler{svc: svc, caps: caps}
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) || errors.Is(err, user.ErrCannotLogIn) {
			response.ErrorResponse(c, user.ToHTTPStatus(err), user.ToErrorCode(err), err.Error())
			return
		}
		logger.Error("login failed", err)
		response.InternalServerError(c, "failed to log in")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// unsupportedListParams are accepted by the host's native users endpoint
// but deliberately rejected here to keep the author surface minimal.
var unsupportedListParams = []string{"roles", "include", "exclude", "slug", "who"}

// List handles GET /authorship/v1/users. The endpoint exists for author
// pickers only: it requires a search term, a post type the caller may
// attribute authors for, and exposes nothing but the restricted author
// fields.
func (h *UserHandler) List(c *gin.Context) {
	for _, param := range unsupportedListParams {
		if _, present := c.GetQuery(param); present {
			response.ErrorWithParams(c, http.StatusBadRequest, "USER_PARAM_NOT_SUPPORTED",
				"this parameter is not supported", param)
			return
		}
	}

	if c.Query("context") == "edit" {
		response.ErrorResponse(c, http.StatusBadRequest, "USER_CONTEXT_NOT_SUPPORTED",
			"the edit context is not supported")
		return
	}

	search := c.Query("search")
	if search == "" {
		response.ErrorWithParams(c, http.StatusBadRequest, "USER_SEARCH_REQUIRED",
			"a search term is required", "search")
		return
	}

	orderBy := c.DefaultQuery("orderby", "name")
	if orderBy != "id" && orderBy != "name" {
		response.ErrorWithParams(c, http.StatusBadRequest, "USER_ORDERBY_NOT_SUPPORTED",
			"orderby must be id or name", "orderby")
		return
	}

	postType := c.Query("post_type")
	if postType == "" {
		response.ErrorWithParams(c, http.StatusBadRequest, "USER_POST_TYPE_REQUIRED",
			"a post type is required", "post_type")
		return
	}

	current := middleware.CurrentUser(c)
	allowed, err := h.caps.UserCan(c.Request.Context(), current, capability.CapAttributePostType, postType)
	if err != nil {
		logger.Error("capability check failed", err)
		response.InternalServerError(c, "failed to check permissions")
		return
	}
	if !allowed {
		response.Forbidden(c, "you are not allowed to attribute authors for this post type")
		return
	}

	filter := &user.SearchFilter{
		Search:  search,
		OrderBy: orderBy,
		Page:    intQuery(c, "page", 1),
		PerPage: intQuery(c, "per_page", 10),
	}

	users, total, err := h.svc.SearchAuthors(c.Request.Context(), filter)
	if err != nil {
		logger.Error("author search failed", err)
		response.InternalServerError(c, "failed to search authors")
		return
	}

	authors := make([]*user.AuthorResponse, len(users))
	for i := range users {
		authors[i] = users[i].ToAuthorResponse(false)
	}

	response.SuccessWithMeta(c, http.StatusOK, authors, &response.Meta{
		Page:  filter.Page,
		Limit: filter.PerPage,
		Total: int(total),
	})
}

// Get handles GET /authorship/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid user id")
		return
	}

	u, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		logger.Error("failed to get user", err)
		response.InternalServerError(c, "failed to get user")
		return
	}

	response.Success(c, http.StatusOK, u.ToAuthorResponse(false))
}

// createGuestAuthorBody exists to catch fields the endpoint refuses to
// accept from clients.
type createGuestAuthorBody struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Password string   `json:"password"`
	Username string   `json:"username"`
}

// Create handles POST /authorship/v1/users. Role, username and password
// are always generated server side; an email is only accepted from users
// who could create full accounts anyway.
func (h *UserHandler) Create(c *gin.Context) {
	current := middleware.CurrentUser(c)

	allowed, err := h.caps.UserCan(c.Request.Context(), current, capability.CapCreateGuestAuthors)
	if err != nil {
		logger.Error("capability check failed", err)
		response.InternalServerError(c, "failed to check permissions")
		return
	}
	if !allowed {
		response.Forbidden(c, "you are not allowed to create guest authors")
		return
	}

	var body createGuestAuthorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if len(body.Roles) > 0 || body.Password != "" || body.Username != "" {
		response.ErrorWithParams(c, http.StatusForbidden, "USER_FIELD_NOT_ALLOWED",
			"roles, username and password cannot be set for guest authors",
			"roles", "username", "password")
		return
	}

	includeEmail := false
	if body.Email != "" {
		includeEmail, err = h.caps.UserCan(c.Request.Context(), current, "create_users")
		if err != nil {
			logger.Error("capability check failed", err)
			response.InternalServerError(c, "failed to check permissions")
			return
		}
		if !includeEmail {
			response.ErrorWithParams(c, http.StatusForbidden, "USER_EMAIL_NOT_ALLOWED",
				"you are not allowed to set an email address for guest authors", "email")
			return
		}
	}

	req := &user.CreateGuestAuthorRequest{Name: body.Name, Email: body.Email}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		return
	}

	created, err := h.svc.CreateGuestAuthor(c.Request.Context(), req, includeEmail)
	if err != nil {
		if errors.Is(err, user.ErrLoginInUse) {
			response.ErrorResponse(c, user.ToHTTPStatus(err), user.ToErrorCode(err), err.Error())
			return
		}
		logger.Error("failed to create guest author", err)
		response.InternalServerError(c, "failed to create guest author")
		return
	}

	response.Success(c, http.StatusCreated, created.ToAuthorResponse(true))
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
