package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/humanmade/authorship/internal/domains/capability"
	"github.com/humanmade/authorship/internal/domains/post"
	"github.com/humanmade/authorship/internal/domains/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserService struct {
	created *user.User
	found   []user.User
}

func (f *fakeUserService) Login(_ context.Context, _ *user.LoginRequest) (*user.LoginResponse, error) {
	return nil, user.ErrInvalidCredentials
}

func (f *fakeUserService) GetByID(_ context.Context, id int64) (*user.User, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserService) SearchAuthors(_ context.Context, _ *user.SearchFilter) ([]user.User, int64, error) {
	return f.found, int64(len(f.found)), nil
}

func (f *fakeUserService) CreateGuestAuthor(_ context.Context, req *user.CreateGuestAuthorRequest, includeEmail bool) (*user.User, error) {
	email := ""
	if includeEmail {
		email = req.Email
	}
	f.created = &user.User{
		ID:          42,
		Login:       "jane-doe",
		Slug:        "jane-doe",
		DisplayName: req.Name,
		Email:       email,
		Role:        user.RoleGuestAuthor,
	}
	return f.created, nil
}

func newTestRouter(svc user.Service, current *user.User) *gin.Engine {
	caps := capability.NewChecker(post.NewTypeRegistry(), nil, nil)
	h := NewUserHandler(svc, caps)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if current != nil {
			c.Set("currentUser", current)
		}
		c.Next()
	})

	router.GET("/authorship/v1/users", h.List)
	router.GET("/authorship/v1/users/:id", h.Get)
	router.POST("/authorship/v1/users", h.Create)

	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestListRejectsUnsupportedParams(t *testing.T) {
	editor := &user.User{ID: 1, Role: user.RoleEditor}

	for _, param := range []string{"roles", "include", "exclude", "slug", "who"} {
		t.Run(param, func(t *testing.T) {
			router := newTestRouter(&fakeUserService{}, editor)
			w := doRequest(router, http.MethodGet, "/authorship/v1/users?search=x&post_type=post&"+param+"=1", "")
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListRejectsEditContext(t *testing.T) {
	router := newTestRouter(&fakeUserService{}, &user.User{ID: 1, Role: user.RoleEditor})

	w := doRequest(router, http.MethodGet, "/authorship/v1/users?search=x&post_type=post&context=edit", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRequiresSearchTerm(t *testing.T) {
	router := newTestRouter(&fakeUserService{}, &user.User{ID: 1, Role: user.RoleEditor})

	w := doRequest(router, http.MethodGet, "/authorship/v1/users?post_type=post", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	require.Equal(t, []interface{}{"search"}, details["params"])
}

func TestListRequiresAttributeCapability(t *testing.T) {
	author := &user.User{ID: 1, Role: user.RoleAuthor}
	router := newTestRouter(&fakeUserService{}, author)

	w := doRequest(router, http.MethodGet, "/authorship/v1/users?search=x&post_type=post", "")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestListReturnsRestrictedFields(t *testing.T) {
	svc := &fakeUserService{found: []user.User{
		{ID: 5, Login: "jane", Slug: "jane", DisplayName: "Jane Doe", Email: "jane@example.com", Role: user.RoleAuthor},
	}}
	router := newTestRouter(svc, &user.User{ID: 1, Role: user.RoleEditor})

	w := doRequest(router, http.MethodGet, "/authorship/v1/users?search=jane&post_type=post", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)

	entry := data[0].(map[string]interface{})
	require.Equal(t, "Jane Doe", entry["name"])
	require.Equal(t, "jane", entry["slug"])
	require.Contains(t, entry, "avatar_urls")

	// Email, login and roles never leave the server on searches.
	require.NotContains(t, entry, "email")
	require.NotContains(t, entry, "login")
	require.NotContains(t, entry, "roles")
}

func TestCreateGuestAuthor(t *testing.T) {
	svc := &fakeUserService{}
	router := newTestRouter(svc, &user.User{ID: 1, Role: user.RoleEditor})

	w := doRequest(router, http.MethodPost, "/authorship/v1/users", `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "Jane Doe", data["name"])
	require.Equal(t, []interface{}{"guest-author"}, data["roles"])
}

func TestCreateGuestAuthorRequiresCapability(t *testing.T) {
	router := newTestRouter(&fakeUserService{}, &user.User{ID: 1, Role: user.RoleAuthor})

	w := doRequest(router, http.MethodPost, "/authorship/v1/users", `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateGuestAuthorRejectsRolesAndPassword(t *testing.T) {
	editor := &user.User{ID: 1, Role: user.RoleEditor}

	for name, body := range map[string]string{
		"roles":    `{"name":"Jane","roles":["administrator"]}`,
		"password": `{"name":"Jane","password":"hunter2"}`,
		"username": `{"name":"Jane","username":"admin"}`,
	} {
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(&fakeUserService{}, editor)
			w := doRequest(router, http.MethodPost, "/authorship/v1/users", body)
			require.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestCreateGuestAuthorEmailRequiresCreateUsers(t *testing.T) {
	// Editors cannot create real users, so the email is refused.
	router := newTestRouter(&fakeUserService{}, &user.User{ID: 1, Role: user.RoleEditor})
	w := doRequest(router, http.MethodPost, "/authorship/v1/users", `{"name":"Jane","email":"jane@example.com"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Administrators can.
	svc := &fakeUserService{}
	router = newTestRouter(svc, &user.User{ID: 1, Role: user.RoleAdministrator})
	w = doRequest(router, http.MethodPost, "/authorship/v1/users", `{"name":"Jane","email":"jane@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "jane@example.com", svc.created.Email)
}

func TestListMissingUserIsUnauthorized(t *testing.T) {
	router := newTestRouter(&fakeUserService{}, nil)

	w := doRequest(router, http.MethodGet, "/authorship/v1/users?search=x&post_type=post", "")
	require.Equal(t, http.StatusForbidden, w.Code)
}
