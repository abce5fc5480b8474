// Package httpapi exposes the storefront REST API and static pages.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	app "github.com/strideshop/storefront/internal/app"
	"github.com/strideshop/storefront/internal/app/domain/order"
	"github.com/strideshop/storefront/internal/app/metrics"
	"github.com/strideshop/storefront/internal/app/services/orders"
	"github.com/strideshop/storefront/internal/app/services/users"
	"github.com/strideshop/storefront/pkg/logger"
)

// Error kinds surfaced to clients. Internal detail never leaves the server;
// unexpected failures all collapse to kindInternal with a generic message.
const (
	kindValidation         = "validation_error"
	kindConflict           = "conflict"
	kindNotFound           = "not_found"
	kindInvalidCredentials = "invalid_credentials"
	kindInternal           = "internal_error"
)

// postAuthRedirect is the client-side redirect hint returned after a
// successful signup or login.
const postAuthRedirect = "/home.html"

// Config carries handler options.
type Config struct {
	// StaticDir is the directory holding the frontend pages.
	StaticDir string
}

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app       *app.Application
	staticDir string
	log       *logger.Logger
}

// NewHandler returns a router exposing the API and the static frontend.
func NewHandler(application *app.Application, cfg Config, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	h := &handler{app: application, staticDir: cfg.StaticDir, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/api/signup", h.signup).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/api/order", h.placeOrder).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Login page is the landing page, matching the frontend's expectations.
	r.HandleFunc("/", h.page("login.html")).Methods(http.MethodGet)
	r.HandleFunc("/signup", h.page("signup.html")).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods(http.MethodGet)

	return r
}

func (h *handler) signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		metrics.RecordSignup(kindValidation)
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	_, err := h.app.Users.Signup(r.Context(), payload.Name, payload.Email, payload.Password)
	switch {
	case err == nil:
		metrics.RecordSignup("created")
		writeJSON(w, http.StatusCreated, map[string]string{
			"message":  "signup successful",
			"redirect": postAuthRedirect,
		})
	case errors.Is(err, users.ErrValidation):
		metrics.RecordSignup(kindValidation)
		writeError(w, http.StatusBadRequest, kindValidation, "please fill all fields")
	case errors.Is(err, users.ErrEmailTaken):
		metrics.RecordSignup(kindConflict)
		writeError(w, http.StatusBadRequest, kindConflict, "user already exists")
	default:
		metrics.RecordSignup(kindInternal)
		h.log.WithError(err).Error("signup failed")
		writeError(w, http.StatusInternalServerError, kindInternal, "server error")
	}
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		metrics.RecordLogin(kindValidation)
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	_, err := h.app.Users.Login(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
		metrics.RecordLogin("ok")
		writeJSON(w, http.StatusOK, map[string]string{
			"message":  "login successful",
			"redirect": postAuthRedirect,
		})
	case errors.Is(err, users.ErrValidation):
		metrics.RecordLogin(kindValidation)
		writeError(w, http.StatusBadRequest, kindValidation, "please fill all fields")
	case errors.Is(err, users.ErrUnknownEmail):
		metrics.RecordLogin(kindNotFound)
		writeError(w, http.StatusNotFound, kindNotFound, "user not found, please sign up")
	case errors.Is(err, users.ErrInvalidCredentials):
		metrics.RecordLogin(kindInvalidCredentials)
		writeError(w, http.StatusBadRequest, kindInvalidCredentials, "invalid credentials")
	default:
		metrics.RecordLogin(kindInternal)
		h.log.WithError(err).Error("login failed")
		writeError(w, http.StatusInternalServerError, kindInternal, "server error")
	}
}

func (h *handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name    string  `json:"name"`
		Phone   string  `json:"phone"`
		Address string  `json:"address"`
		Product string  `json:"product"`
		Size    string  `json:"size"`
		Color   string  `json:"color"`
		Price   float64 `json:"price"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		metrics.RecordOrder(kindValidation)
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}

	_, err := h.app.Orders.Place(r.Context(), order.Order{
		Name:    payload.Name,
		Phone:   payload.Phone,
		Address: payload.Address,
		Product: payload.Product,
		Size:    payload.Size,
		Color:   payload.Color,
		Price:   payload.Price,
	})
	switch {
	case err == nil:
		metrics.RecordOrder("created")
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "order placed successfully",
		})
	case errors.Is(err, orders.ErrValidation):
		metrics.RecordOrder(kindValidation)
		writeError(w, http.StatusBadRequest, kindValidation, "please fill all required fields")
	default:
		metrics.RecordOrder(kindInternal)
		h.log.WithError(err).Error("order placement failed")
		writeError(w, http.StatusInternalServerError, kindInternal, "server error")
	}
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(h.staticDir, name))
	}
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind, "message": message})
}
