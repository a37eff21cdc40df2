package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-be/internal/auth"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage/memory"
)

const testSecret = "test-secret"

type testEnv struct {
	mux    *http.ServeMux
	store  *memory.Store
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	store := memory.NewStore()
	tokens := auth.NewTokenManager(testSecret, "fintrack-test", time.Hour)
	authn := func(next http.Handler) http.Handler {
		return middleware.Authenticate(tokens, store, next)
	}
	mux := http.NewServeMux()
	NewAuthHandler(store, tokens).Register(mux, authn)
	NewTransactionHandler(store).Register(mux, authn)
	return testEnv{mux: mux, store: store, tokens: tokens}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

func (e testEnv) register(t *testing.T, email, password, name string) dto.UserResponse {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/register", "", dto.RegisterRequest{Email: email, Password: password, Name: name})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out dto.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func (e testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out dto.TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out["error"]
}

func TestRegister_ReturnsPublicUser(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "a@x.com", "p", "A")
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "A", user.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "p", "A")

	rr := env.do(t, http.MethodPost, "/register", "", dto.RegisterRequest{Email: "a@x.com", Password: "other", Name: "B"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Email already registered", errorBody(t, rr))
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/register", "", dto.RegisterRequest{Email: "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestToken_IssuesBearerToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "p", "A")

	form := url.Values{"username": {"a@x.com"}, "password": {"p"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	env.mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var out dto.TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Equal(t, "bearer", out.TokenType)

	email, err := env.tokens.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
}

func TestToken_RejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "p", "A")

	cases := []url.Values{
		{"username": {"a@x.com"}, "password": {"wrong"}},
		{"username": {"nobody@x.com"}, "password": {"p"}},
	}
	for _, form := range cases {
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		env.mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Incorrect email or password", errorBody(t, rr))
	}
}

func TestUsersMe_ReturnsCaller(t *testing.T) {
	env := newTestEnv(t)
	created := env.register(t, "a@x.com", "p", "A")
	token := env.login(t, "a@x.com", "p")

	rr := env.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out dto.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Equal(t, created, out)
}

func TestUsersMe_RejectsMissingOrBadToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "p", "A")

	for _, token := range []string{"", "garbage"} {
		rr := env.do(t, http.MethodGet, "/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	}
}

func TestUsersMe_RejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "p", "A")

	expired := auth.NewTokenManager(testSecret, "fintrack-test", -time.Minute)
	token, err := expired.Generate(models.User{Email: "a@x.com"})
	require.NoError(t, err)

	rr := env.do(t, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUsersMe_RejectsTokenForDeletedUser(t *testing.T) {
	env := newTestEnv(t)

	// Valid signature, but no such user exists in the store.
	token, err := env.tokens.Generate(models.User{Email: "ghost@x.com"})
	require.NoError(t, err)

	rr := env.do(t, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}
