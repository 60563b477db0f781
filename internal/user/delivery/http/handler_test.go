package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tair/car-dealership/internal/user/repository"
)

func setupRouter(t *testing.T) *mux.Router {
	t.Helper()
	handler := NewUserHandler(repository.NewMemoryUserRepository())
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func doRequest(router *mux.Router, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		IsAdmin  bool   `json:"isAdmin"`
	} `json:"user"`
}

func TestRegisterAndLogin(t *testing.T) {
	router := setupRouter(t)

	rr := doRequest(router, "POST", "/api/register", `{"username":"alice","password":"secret1"}`, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (body: %s)", rr.Code, rr.Body.String())
	}

	var reg authResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &reg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reg.Token == "" {
		t.Fatalf("expected token on registration")
	}
	if reg.User.ID != 1 || reg.User.Username != "alice" || reg.User.IsAdmin {
		t.Fatalf("unexpected user: %+v", reg.User)
	}
	if strings.Contains(rr.Body.String(), "secret1") {
		t.Fatalf("password leaked in response")
	}

	rr = doRequest(router, "POST", "/api/login", `{"username":"alice","password":"secret1"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rr.Code)
	}

	var login authResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Token works against the authenticated route
	rr = doRequest(router, "GET", "/api/user", "", login.Token)
	if rr.Code != http.StatusOK {
		t.Fatalf("current user: expected 200, got %d", rr.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	router := setupRouter(t)

	doRequest(router, "POST", "/api/register", `{"username":"alice","password":"secret1"}`, "")
	rr := doRequest(router, "POST", "/api/register", `{"username":"alice","password":"secret2"}`, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", rr.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router := setupRouter(t)
	doRequest(router, "POST", "/api/register", `{"username":"alice","password":"secret1"}`, "")

	rr := doRequest(router, "POST", "/api/login", `{"username":"alice","password":"wrong"}`, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestCurrentUserRequiresAuth(t *testing.T) {
	router := setupRouter(t)

	rr := doRequest(router, "GET", "/api/user", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr = doRequest(router, "GET", "/api/user", "", "bogus-token")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", rr.Code)
	}
}
