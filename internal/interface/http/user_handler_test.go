package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	userapp "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/internal/domain/entity"
	"github.com/finchlabs/finch/internal/domain/repository"
	"github.com/finchlabs/finch/pkg/helpers"
)

type stubUserRepo struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) GetByUsername(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}
func (s *stubUserRepo) Update(context.Context, *entity.User) error      { return nil }
func (s *stubUserRepo) SetConfirmed(context.Context, string) error      { return nil }
func (s *stubUserRepo) TouchLastSeen(context.Context, string) error     { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

func testRouter(t *testing.T) (*gin.Engine, *userapp.Service, *entity.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := helpers.HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	role := &entity.Role{Name: entity.RoleNameUser}
	role.AddPermission(entity.PermFollow)
	alice := &entity.User{ID: "u-1", Email: "alice@example.com", Username: "alice", Password: hash, Role: role}

	repo := &stubUserRepo{
		byEmail: map[string]*entity.User{alice.Email: alice},
		byID:    map[string]*entity.User{alice.ID: alice},
	}
	jwt := helpers.NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)
	svc := userapp.NewService(repo, nil, jwt, nil, "", nil, nil, nil, "", "")
	h := NewUserHandler(svc, jwt, nil, nil, "localhost", false)

	r := gin.New()
	r.POST("/api/login", h.Login)
	r.POST("/api/tokens", h.IssueToken)
	return r, svc, alice
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()
	r, _, _ := testRouter(t)

	w := postJSON(t, r, "/api/login", gin.H{"email": "alice@example.com", "password": "correct horse"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	var haveAccess, haveRefresh bool
	for _, c := range cookies {
		switch c.Name {
		case "access_token":
			haveAccess = c.Value != ""
		case "refresh_token":
			haveRefresh = c.Value != ""
		}
	}
	if !haveAccess || !haveRefresh {
		t.Fatalf("token cookies missing: %v", cookies)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	t.Parallel()
	r, _, _ := testRouter(t)

	w := postJSON(t, r, "/api/login", gin.H{"email": "alice@example.com", "password": "wrong password"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestIssueTokenWithPassword(t *testing.T) {
	t.Parallel()
	r, _, _ := testRouter(t)

	w := postJSON(t, r, "/api/tokens", gin.H{"email": "alice@example.com", "password": "correct horse", "ttl_seconds": 600})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Token == "" {
		t.Fatalf("no token in response: %s", w.Body.String())
	}
}

// A previously minted token must not produce a fresh token.
func TestIssueTokenRefusesTokenCredential(t *testing.T) {
	t.Parallel()
	r, svc, alice := testRouter(t)

	token, _, err := svc.IssueAPIToken(alice, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tokens", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401; body = %s", w.Code, w.Body.String())
	}
}

func TestIssueTokenAnonymousRejected(t *testing.T) {
	t.Parallel()
	r, _, _ := testRouter(t)

	w := postJSON(t, r, "/api/tokens", gin.H{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
