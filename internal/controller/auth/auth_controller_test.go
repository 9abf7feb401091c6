package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/kwizify/internal/apperr"
	"github.com/lshigami/kwizify/internal/dto"
	"github.com/lshigami/kwizify/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "good-token"

type fakeAuthService struct {
	user *model.User
}

func (f *fakeAuthService) Signup(_ context.Context, req dto.SignupRequest) (*model.User, error) {
	if req.Username == f.user.Username {
		return nil, fmt.Errorf("%w: username already registered", apperr.ErrConflict)
	}
	return &model.User{ID: 2, Username: req.Username, Email: req.Email, IsActive: true}, nil
}

func (f *fakeAuthService) Authenticate(_ context.Context, identifier, password string) (*model.User, error) {
	if (identifier == f.user.Username || identifier == f.user.Email) && password == "password123" {
		return f.user, nil
	}
	return nil, fmt.Errorf("%w: incorrect username or password", apperr.ErrUnauthorized)
}

func (f *fakeAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := f.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: validToken, TokenType: "bearer", User: dto.UserResponse{ID: user.ID, Username: user.Username}}, nil
}

func (f *fakeAuthService) IssueToken(*model.User) (string, error) { return validToken, nil }

func (f *fakeAuthService) CurrentUser(_ context.Context, token string) (*model.User, error) {
	if token != validToken {
		return nil, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	return f.user, nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := &fakeAuthService{user: &model.User{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true}}
	NewAuthController(svc).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	r := newEngine()

	w := do(r, http.MethodPost, "/auth/signup", "", dto.SignupRequest{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code)
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "bob", user.Username)
	assert.True(t, user.IsActive)

	w = do(r, http.MethodPost, "/auth/signup", "", dto.SignupRequest{Username: "alice", Email: "other@example.com", Password: "password123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/auth/signup", "", dto.SignupRequest{Username: "carol", Email: "not-an-email", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	r := newEngine()

	w := do(r, http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "alice@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "bearer", token.TokenType)

	w = do(r, http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/auth/me", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, uint(1), me.ID)

	w = do(r, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_FormEncoded(t *testing.T) {
	r := newEngine()

	form := url.Values{"username": {"alice"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, validToken, token.AccessToken)

	form.Set("password", "wrong-password")
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignin_JSONOnly(t *testing.T) {
	r := newEngine()

	w := do(r, http.MethodPost, "/auth/signin", "", dto.LoginRequest{Username: "alice@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	assert.Equal(t, "bearer", token.TokenType)

	form := url.Values{"username": {"alice"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
