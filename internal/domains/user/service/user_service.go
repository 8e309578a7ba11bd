package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/humanmade/authorship/internal/domains/user"
	"github.com/humanmade/authorship/pkg/jwt"
)

const generatedPasswordLength = 24

type userService struct {
	repo user.Repository
	jwt  *jwt.Manager
}

// NewUserService creates a user service instance.
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo: repo,
		jwt:  jwtManager,
	}
}

func (s *userService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	u, err := s.repo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	if !u.CanLogIn() {
		return nil, user.ErrCannotLogIn
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID, u.Login, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &user.LoginResponse{
		Token: token,
		User:  u,
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) SearchAuthors(ctx context.Context, filter *user.SearchFilter) ([]user.User, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}

	return s.repo.Search(ctx, *filter)
}

func (s *userService) CreateGuestAuthor(ctx context.Context, req *user.CreateGuestAuthorRequest, includeEmail bool) (*user.User, error) {
	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := ""
	if includeEmail {
		email = req.Email
	}

	slug := slugify(req.Name)

	u := &user.User{
		Login:        slug,
		Slug:         slug,
		DisplayName:  req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleGuestAuthor,
		SiteID:       1,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

const passwordChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordChars)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordChars[n.Int64()]
	}
	return string(out), nil
}
