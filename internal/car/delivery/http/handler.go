package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/car-dealership/internal/car/domain"
	"github.com/tair/car-dealership/internal/car/usecase/command"
	"github.com/tair/car-dealership/internal/car/usecase/query"
	"github.com/tair/car-dealership/kafka"
	"github.com/tair/car-dealership/pkg/logger"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "car_service_requests_total",
			Help: "Total number of requests to the car service",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "car_service_request_duration_seconds",
			Help:    "Duration of car service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	carsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "car_service_cars_total",
			Help: "Number of listings in the catalog",
		},
	)
	favoritesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "car_service_favorites_total",
			Help: "Number of favorited listings",
		},
	)
)

func init() {
	prometheus.MustRegister(requestCounter, requestLatency, carsTotal, favoritesTotal)
}

// CarHandler handles HTTP requests for the car catalog
type CarHandler struct {
	createHandler       *command.CreateCarHandler
	updateHandler       *command.UpdateCarHandler
	updateStatusHandler *command.UpdateStatusHandler
	deleteHandler       *command.DeleteCarHandler
	favoriteHandler     *command.ToggleFavoriteHandler

	getHandler  *query.GetCarHandler
	listHandler *query.ListCarsHandler

	repo      domain.CarRepository
	publisher *kafka.Publisher
	cache     *ResponseCache
}

// NewCarHandler creates a new car handler. Publisher and cache may be
// nil when Kafka/Redis are not configured.
func NewCarHandler(repo domain.CarRepository, publisher *kafka.Publisher, cache *ResponseCache) *CarHandler {
	return &CarHandler{
		createHandler:       command.NewCreateCarHandler(repo),
		updateHandler:       command.NewUpdateCarHandler(repo),
		updateStatusHandler: command.NewUpdateStatusHandler(repo),
		deleteHandler:       command.NewDeleteCarHandler(repo),
		favoriteHandler:     command.NewToggleFavoriteHandler(repo),
		getHandler:          query.NewGetCarHandler(repo),
		listHandler:         query.NewListCarsHandler(repo),
		repo:                repo,
		publisher:           publisher,
		cache:               cache,
	}
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CarHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// ListCars handles GET /api/cars (public)
func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.listHandler.Handle(query.ListCarsQuery{})
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if cars == nil {
		cars = []domain.Car{}
	}

	h.respondJSON(w, http.StatusOK, cars)
}

// GetCar handles GET /api/cars/{id} (public)
func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carID(w, r)
	if !ok {
		return
	}

	car, err := h.getHandler.Handle(query.GetCarQuery{ID: id})
	if err != nil {
		h.respondError(w, http.StatusNotFound, "Car not found")
		return
	}

	h.respondJSON(w, http.StatusOK, car)
}

// ToggleFavorite handles POST /api/cars/{id}/favorite (authenticated).
// The response carries the refreshed post-toggle listing.
func (h *CarHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carID(w, r)
	if !ok {
		return
	}

	car, err := h.favoriteHandler.Handle(command.ToggleFavoriteCommand{ID: id})
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			h.respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.Invalidate(r)
	h.updateCatalogMetrics()
	h.respondJSON(w, http.StatusOK, car)
}

// CreateCar handles POST /api/cars (admin only). The decoded request
// shape carries only the writable fields, so id, status and isFavorite
// in the payload are dropped on the floor.
func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Make        string  `json:"make"`
		Model       string  `json:"model"`
		Year        *int    `json:"year"`
		Price       *int    `json:"price"`
		Mileage     *int    `json:"mileage"`
		Description *string `json:"description"`
		ImageURL    *string `json:"imageUrl"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Year == nil {
		h.respondError(w, http.StatusBadRequest, "year is required")
		return
	}
	if req.Price == nil {
		h.respondError(w, http.StatusBadRequest, "price is required")
		return
	}
	if req.Mileage == nil {
		h.respondError(w, http.StatusBadRequest, "mileage is required")
		return
	}
	if req.Description == nil {
		h.respondError(w, http.StatusBadRequest, "description is required")
		return
	}
	if req.ImageURL == nil {
		h.respondError(w, http.StatusBadRequest, "imageUrl is required")
		return
	}

	cmd := command.CreateCarCommand{
		Make:        req.Make,
		Model:       req.Model,
		Year:        *req.Year,
		Price:       *req.Price,
		Mileage:     *req.Mileage,
		Description: *req.Description,
		ImageURL:    *req.ImageURL,
	}

	car, err := h.createHandler.Handle(cmd)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.Invalidate(r)
	h.updateCatalogMetrics()
	h.publishEvent(r, kafka.EventTypeCarListed, car)
	h.respondJSON(w, http.StatusCreated, car)
}

// UpdateCar handles PATCH /api/cars/{id} (admin only)
func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carID(w, r)
	if !ok {
		return
	}

	var updates domain.CarUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.updateHandler.Handle(command.UpdateCarCommand{ID: id, Updates: updates})
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			h.respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.Invalidate(r)
	h.respondJSON(w, http.StatusOK, car)
}

// UpdateStatus handles PUT /api/cars/{id}/status (admin only)
func (h *CarHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	car, err := h.updateStatusHandler.Handle(command.UpdateStatusCommand{ID: id, Status: req.Status})
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			h.respondError(w, http.StatusNotFound, "Car not found")
			return
		}
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cache.Invalidate(r)
	if car.Status == domain.StatusSold {
		h.publishEvent(r, kafka.EventTypeCarSold, car)
	}
	h.respondJSON(w, http.StatusOK, car)
}

// DeleteCar handles DELETE /api/cars/{id} (admin only). Idempotent:
// deleting a missing id still returns 200.
func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := h.carID(w, r)
	if !ok {
		return
	}

	car, _ := h.repo.FindByID(id)

	if err := h.deleteHandler.Handle(command.DeleteCarCommand{ID: id}); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cache.Invalidate(r)
	h.updateCatalogMetrics()
	if car != nil {
		h.publishEvent(r, kafka.EventTypeCarDeleted, car)
	}
	w.WriteHeader(http.StatusOK)
}

// HealthCheck handles GET /health
func (h *CarHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// RegisterRoutes registers all catalog routes
func (h *CarHandler) RegisterRoutes(router *mux.Router) {
	// Public routes
	router.HandleFunc("/api/cars",
		h.metricsMiddleware("/api/cars", h.cache.Middleware(h.ListCars))).Methods("GET")
	router.HandleFunc("/api/cars/{id}",
		h.metricsMiddleware("/api/cars/{id}", h.cache.Middleware(h.GetCar))).Methods("GET")

	// Authenticated routes
	router.HandleFunc("/api/cars/{id}/favorite",
		h.metricsMiddleware("/api/cars/{id}/favorite", AuthMiddleware(h.ToggleFavorite))).Methods("POST")

	// Admin routes
	router.HandleFunc("/api/cars",
		h.metricsMiddleware("/api/cars", AdminMiddleware(h.CreateCar))).Methods("POST")
	router.HandleFunc("/api/cars/{id}",
		h.metricsMiddleware("/api/cars/{id}", AdminMiddleware(h.UpdateCar))).Methods("PATCH")
	router.HandleFunc("/api/cars/{id}/status",
		h.metricsMiddleware("/api/cars/{id}/status", AdminMiddleware(h.UpdateStatus))).Methods("PUT")
	router.HandleFunc("/api/cars/{id}",
		h.metricsMiddleware("/api/cars/{id}", AdminMiddleware(h.DeleteCar))).Methods("DELETE")
}

func (h *CarHandler) carID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil || id == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid car id")
		return 0, false
	}
	return uint(id), true
}

func (h *CarHandler) publishEvent(r *http.Request, eventType string, car *domain.Car) {
	if h.publisher == nil {
		return
	}

	event := kafka.CarEvent{
		EventType: eventType,
		CarID:     car.ID,
		Make:      car.Make,
		Model:     car.Model,
		Price:     car.Price,
	}
	if err := h.publisher.PublishCarEvent(r.Context(), event); err != nil {
		logger.Warn(r.Context()).Err(err).Str("event_type", eventType).Msg("Failed to publish car event")
	}
}

func (h *CarHandler) updateCatalogMetrics() {
	if count, err := h.repo.Count(); err == nil {
		carsTotal.Set(float64(count))
	}
	if count, err := h.repo.CountFavorites(); err == nil {
		favoritesTotal.Set(float64(count))
	}
}

func (h *CarHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *CarHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
