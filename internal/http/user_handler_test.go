package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"contacts-api/internal/domain"
)

const confirmLinkPrefix = "http://localhost:8080/api/auth/confirmed_email/"

func envUser() domain.User {
	return domain.User{ID: 42, Email: "ann@example.com", Username: "ann"}
}

func signupUser(t *testing.T, env *apiEnv, emailAddr string) {
	t.Helper()
	rec := env.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "testuser",
		"email":    emailAddr,
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_SignupConfirmLogin(t *testing.T) {
	env := newAPIEnv(nil, nil)
	signupUser(t, env, "ann@example.com")

	if env.sender.lastTo != "ann@example.com" {
		t.Fatalf("expected confirmation email for ann@example.com, got %q", env.sender.lastTo)
	}
	if !strings.HasPrefix(env.sender.lastLink, confirmLinkPrefix) {
		t.Fatalf("unexpected confirmation link: %q", env.sender.lastLink)
	}

	// Sin confirmar el email el login queda bloqueado.
	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ann@example.com",
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before confirmation, got %d", rec.Code)
	}

	confirmToken := strings.TrimPrefix(env.sender.lastLink, confirmLinkPrefix)
	rec = env.do(http.MethodGet, "/api/auth/confirmed_email/"+confirmToken, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if got := decodeResponse(t, rec).Message; got != "Email confirmed" {
		t.Fatalf("unexpected confirm message: %q", got)
	}

	// Repetir la confirmacion es idempotente.
	rec = env.do(http.MethodGet, "/api/auth/confirmed_email/"+confirmToken, "", nil)
	if got := decodeResponse(t, rec).Message; got != "Your email is already confirmed" {
		t.Fatalf("unexpected repeated confirm message: %q", got)
	}

	rec = env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ann@example.com",
		"password": "s3cret-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var loginResp struct {
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginResp.Tokens.AccessToken == "" || loginResp.Tokens.RefreshToken == "" {
		t.Fatalf("expected token pair in login response")
	}

	rec = env.do(http.MethodGet, "/api/users/me", loginResp.Tokens.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newAPIEnv(nil, nil)
	signupUser(t, env, "ann@example.com")

	rec := env.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    "ann@example.com",
		"password": "another-pass",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}
}

func TestSignup_InvalidRequest(t *testing.T) {
	env := newAPIEnv(nil, nil)

	rec := env.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "not-an-email",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload, got %d", rec.Code)
	}
}

func TestConfirmEmail_InvalidToken(t *testing.T) {
	env := newAPIEnv(nil, nil)

	rec := env.do(http.MethodGet, "/api/auth/confirmed_email/garbage", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid token, got %d", rec.Code)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	env := newAPIEnv(nil, nil)
	pair, err := env.jwt.GeneratePair(envUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	rec := env.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	// El refresh anterior quedo revocado.
	rec = env.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 reusing a rotated refresh token, got %d", rec.Code)
	}
}

func TestLogout_RevokesRefresh(t *testing.T) {
	env := newAPIEnv(nil, nil)
	pair, err := env.jwt.GeneratePair(envUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	rec := env.do(http.MethodPost, "/api/auth/logout", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestLogout_MalformedTokenStillNoContent(t *testing.T) {
	env := newAPIEnv(nil, nil)

	rec := env.do(http.MethodPost, "/api/auth/logout", "", map[string]string{
		"refresh_token": "garbage",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 even when revocation fails, got %d", rec.Code)
	}
}

func TestUpdateAvatar(t *testing.T) {
	env := newAPIEnv(nil, nil)
	signupUser(t, env, "ann@example.com")
	token := env.accessToken(t, 1)

	rec := env.do(http.MethodPatch, "/api/users/avatar", token, map[string]string{
		"avatar_url": "https://cdn.example.com/avatars/ann.png",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			Avatar string `json:"avatar"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Avatar != "https://cdn.example.com/avatars/ann.png" {
		t.Fatalf("unexpected avatar: %q", resp.User.Avatar)
	}
}
