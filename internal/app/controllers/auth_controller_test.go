package controllers_test

import (
	"net/http"
	"testing"

	"github.com/campusleave/leavedesk/internal/app/models"
	"github.com/campusleave/leavedesk/internal/app/models/dto"
)

func TestLoginWrongPasswordReturnsInvalidCredentials(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "asha@campus.edu", Password: "wrong-pass1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body map[string]interface{}
	decode(t, w, &body)
	if body["msg"] != "Invalid credentials" {
		t.Errorf("msg = %v", body["msg"])
	}
	if _, ok := body["token"]; ok {
		t.Error("failed login must not carry a token")
	}
}

func TestLoginSuccess(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "asha@campus.edu", Password: "secret123"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var resp dto.AuthResponse
	decode(t, w, &resp)
	if resp.Token == "" || resp.User.Email != "asha@campus.edu" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestLoginMissingFields(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "asha@campus.edu"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var body dto.ErrorResponse
	decode(t, w, &body)
	if body.Msg != "password is required" {
		t.Errorf("msg = %q", body.Msg)
	}
}

func TestSignup(t *testing.T) {
	h := newHarness(t)

	req := dto.SignupRequest{Name: "Ravi", Email: "ravi@home.in", Password: "secret123", Role: models.RoleParent}
	w := h.do(http.MethodPost, "/auth/signup", "", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	var resp dto.SignupResponse
	decode(t, w, &resp)
	if resp.User.Role != models.RoleParent {
		t.Errorf("role = %s", resp.User.Role)
	}

	if w := h.do(http.MethodPost, "/auth/signup", "", req); w.Code != http.StatusConflict {
		t.Errorf("duplicate signup: status = %d, want 409", w.Code)
	}
}

func TestSignupRejectsAdminRole(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/auth/signup", "", dto.SignupRequest{Name: "Eve", Email: "eve@x.io", Password: "secret123", Role: models.RoleAdmin})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	h := newHarness(t)

	if w := h.do(http.MethodGet, "/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	w := h.do(http.MethodGet, "/auth/me", h.bearer(t, 1, models.RoleStudent), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp dto.ProfileResponse
	decode(t, w, &resp)
	if resp.User.ID != 1 {
		t.Errorf("id = %d", resp.User.ID)
	}
}
