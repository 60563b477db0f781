package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tair/car-dealership/internal/car/domain"
	"github.com/tair/car-dealership/internal/car/repository"
	"github.com/tair/car-dealership/pkg/auth"
)

func setupRouter(t *testing.T) (*mux.Router, *repository.MemoryCarRepository) {
	t.Helper()
	repo := repository.NewMemoryCarRepository()
	handler := NewCarHandler(repo, nil, nil)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router, repo
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(1, "admin", true)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func userToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(2, "bob", false)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
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

func decodeCar(t *testing.T, rr *httptest.ResponseRecorder) domain.Car {
	t.Helper()
	var car domain.Car
	if err := json.Unmarshal(rr.Body.Bytes(), &car); err != nil {
		t.Fatalf("decode car: %v (body: %s)", err, rr.Body.String())
	}
	return car
}

const validCarBody = `{"make":"Toyota","model":"Corolla","year":2021,"price":18000,"mileage":42000,"description":"one owner","imageUrl":"http://img.example/c.jpg"}`

func TestListCarsPublic(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, "GET", "/api/cars", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var cars []domain.Car
	if err := json.Unmarshal(rr.Body.Bytes(), &cars); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cars) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(cars))
	}
}

func TestGetCarPublicAndNotFound(t *testing.T) {
	router, repo := setupRouter(t)
	repo.Create(&domain.Car{Make: "Honda", Model: "Civic", Year: 2020, Price: 15000, Mileage: 30000, Description: "d", ImageURL: "http://x"})

	rr := doRequest(router, "GET", "/api/cars/1", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if car := decodeCar(t, rr); car.Make != "Honda" {
		t.Fatalf("unexpected car: %+v", car)
	}

	rr = doRequest(router, "GET", "/api/cars/99", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestToggleFavoriteRequiresAuth(t *testing.T) {
	router, repo := setupRouter(t)
	repo.Create(&domain.Car{Make: "Honda", Model: "Civic", Year: 2020, Price: 15000, Mileage: 30000, Description: "d", ImageURL: "http://x"})

	rr := doRequest(router, "POST", "/api/cars/1/favorite", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestToggleFavoriteMissingCar(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, "POST", "/api/cars/42/favorite", "", userToken(t))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateCarAuthorizationTiers(t *testing.T) {
	router, _ := setupRouter(t)

	// Anonymous
	rr := doRequest(router, "POST", "/api/cars", validCarBody, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", rr.Code)
	}

	// Authenticated non-admin
	rr = doRequest(router, "POST", "/api/cars", validCarBody, userToken(t))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-admin: expected 403, got %d", rr.Code)
	}

	// Admin
	rr = doRequest(router, "POST", "/api/cars", validCarBody, adminToken(t))
	if rr.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	car := decodeCar(t, rr)
	if car.Status != domain.StatusAvailable {
		t.Fatalf("expected available, got %s", car.Status)
	}
}

func TestCreateCarStripsForbiddenFields(t *testing.T) {
	router, _ := setupRouter(t)

	body := `{"id":999,"status":"sold","isFavorite":true,"make":"BYD","model":"Han","year":2024,"price":35000,"mileage":0,"description":"x","imageUrl":"http://x"}`
	rr := doRequest(router, "POST", "/api/cars", body, adminToken(t))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rr.Code, rr.Body.String())
	}

	car := decodeCar(t, rr)
	if car.ID != 1 {
		t.Fatalf("expected next counter id 1, got %d", car.ID)
	}
	if car.Status != domain.StatusAvailable {
		t.Fatalf("expected available, got %s", car.Status)
	}
	if car.IsFavorite {
		t.Fatalf("expected not favorited")
	}
}

func TestCreateCarValidation(t *testing.T) {
	router, _ := setupRouter(t)

	cases := []string{
		`{"model":"Han","year":2024,"price":35000,"mileage":0,"description":"x","imageUrl":"http://x"}`,
		`{"make":"BYD","model":"Han","price":35000,"mileage":0,"description":"x","imageUrl":"http://x"}`,
		`{"make":"BYD","model":"Han","year":2024,"price":-1,"mileage":0,"description":"x","imageUrl":"http://x"}`,
		`{"make":"BYD","model":"Han","year":2024,"price":35000,"mileage":-5,"description":"x","imageUrl":"http://x"}`,
		`not json`,
	}
	for _, body := range cases {
		rr := doRequest(router, "POST", "/api/cars", body, adminToken(t))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", body, rr.Code)
		}
	}
}

func TestPatchCarPartialUpdate(t *testing.T) {
	router, _ := setupRouter(t)
	doRequest(router, "POST", "/api/cars", validCarBody, adminToken(t))

	rr := doRequest(router, "PATCH", "/api/cars/1", `{"price":9000}`, adminToken(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}

	car := decodeCar(t, rr)
	if car.Price != 9000 {
		t.Fatalf("expected price 9000, got %d", car.Price)
	}
	if car.Make != "Toyota" || car.Model != "Corolla" || car.Year != 2021 || car.Mileage != 42000 {
		t.Fatalf("unrelated fields changed: %+v", car)
	}
	if car.Status != domain.StatusAvailable || car.IsFavorite {
		t.Fatalf("status or favorite changed: %+v", car)
	}
}

func TestPatchMissingCarReturnsNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, "PATCH", "/api/cars/77", `{"price":9000}`, adminToken(t))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestPatchRequiresAdmin(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, "PATCH", "/api/cars/1", `{"price":9000}`, userToken(t))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestUpdateStatusMarksSold(t *testing.T) {
	router, _ := setupRouter(t)
	doRequest(router, "POST", "/api/cars", validCarBody, adminToken(t))

	rr := doRequest(router, "PUT", "/api/cars/1/status", `{"status":"sold"}`, adminToken(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	if car := decodeCar(t, rr); car.Status != domain.StatusSold {
		t.Fatalf("expected sold, got %s", car.Status)
	}

	rr = doRequest(router, "PUT", "/api/cars/1/status", `{"status":"scrapped"}`, adminToken(t))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rr.Code)
	}
}

func TestDeleteCar(t *testing.T) {
	router, _ := setupRouter(t)
	doRequest(router, "POST", "/api/cars", validCarBody, adminToken(t))

	rr := doRequest(router, "DELETE", "/api/cars/1", "", adminToken(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}

	rr = doRequest(router, "GET", "/api/cars/1", "", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}

	// Idempotent: deleting again still succeeds
	rr = doRequest(router, "DELETE", "/api/cars/1", "", adminToken(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat delete, got %d", rr.Code)
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	router, _ := setupRouter(t)

	rr := doRequest(router, "DELETE", "/api/cars/1", "", userToken(t))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestCatalogScenario(t *testing.T) {
	router, _ := setupRouter(t)

	// Admin lists a car
	body := `{"make":"BYD","model":"Han","year":2024,"price":35000,"mileage":0,"description":"x","imageUrl":"http://x"}`
	rr := doRequest(router, "POST", "/api/cars", body, adminToken(t))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (body: %s)", rr.Code, rr.Body.String())
	}
	car := decodeCar(t, rr)
	if car.ID != 1 || car.Status != domain.StatusAvailable || car.IsFavorite {
		t.Fatalf("unexpected created car: %+v", car)
	}

	// Any authenticated user favorites it
	rr = doRequest(router, "POST", "/api/cars/1/favorite", "", userToken(t))
	if rr.Code != http.StatusOK {
		t.Fatalf("favorite: expected 200, got %d", rr.Code)
	}
	if car := decodeCar(t, rr); !car.IsFavorite {
		t.Fatalf("expected post-toggle favorite state")
	}

	// Favorite state persists across reads
	rr = doRequest(router, "GET", "/api/cars/1", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}
	if car := decodeCar(t, rr); !car.IsFavorite {
		t.Fatalf("expected favorite visible on read")
	}
}
