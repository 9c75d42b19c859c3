package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"family-puzzles/internal/app"
	"family-puzzles/internal/domain"
)

// AdminConfig holds the credentials for the puzzle-management endpoints.
// PasswordHash is a bcrypt hash; an empty config disables the admin routes.
type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

func (c AdminConfig) enabled() bool {
	return c.Username != "" && c.PasswordHash != "" && c.JWTSecret != ""
}

// APIHandler serves the REST surface: leaderboards, player stats, the player
// roster, and admin puzzle management.
type APIHandler struct {
	service *app.GameService
	admin   AdminConfig
	log     zerolog.Logger
}

func NewAPIHandler(service *app.GameService, admin AdminConfig, log zerolog.Logger) *APIHandler {
	if admin.TokenTTL <= 0 {
		admin.TokenTTL = 24 * time.Hour
	}
	return &APIHandler{service: service, admin: admin, log: log}
}

// NewRouter assembles the full HTTP surface: REST under /api, the game
// websocket at /ws, and a health probe.
func NewRouter(service *app.GameService, admin AdminConfig, log zerolog.Logger) *chi.Mux {
	api := NewAPIHandler(service, admin, log)
	ws := NewWSHandler(service, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	// The websocket lives outside the timeout; its context must survive the
	// whole game session.
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(15 * time.Second))
		r.Get("/players", api.handleListPlayers)
		r.Post("/players", api.handleCreatePlayer)
		r.Get("/{variant}/leaderboard", api.handleLeaderboard)
		r.Get("/{variant}/players/{userID}/stats", api.handlePlayerStats)

		r.Post("/admin/login", api.handleAdminLogin)
		r.With(api.requireAdmin).Put("/admin/puzzles/{variant}/{id}", api.handlePutPuzzle)
	})
	return r
}

func (h *APIHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	variant, err := domain.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	lb, err := h.service.Leaderboard(r.Context(), variant, r.URL.Query().Get("view"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *APIHandler) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	variant, err := domain.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := h.service.PlayerStats(r.Context(), variant, chi.URLParam(r, "userID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *APIHandler) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.ListPlayers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (h *APIHandler) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserName string `json:"userName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.UserName) == "" {
		writeError(w, http.StatusBadRequest, errors.New("userName is required"))
		return
	}
	player, err := h.service.CreatePlayer(r.Context(), strings.TrimSpace(body.UserName))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

func (h *APIHandler) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if !h.admin.enabled() {
		writeError(w, http.StatusNotFound, errors.New("admin is not configured"))
		return
	}
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid login payload"))
		return
	}
	if body.Username != h.admin.Username ||
		bcrypt.CompareHashAndPassword([]byte(h.admin.PasswordHash), []byte(body.Password)) != nil {
		writeError(w, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	exp := time.Now().Add(h.admin.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  body.Username,
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(h.admin.JWTSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("token signing failed"))
		return
	}
	h.log.Info().Str("username", body.Username).Msg("admin login")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     signed,
		"expiresAt": exp.UTC(),
	})
}

func (h *APIHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.admin.enabled() {
			writeError(w, http.StatusNotFound, errors.New("admin is not configured"))
			return
		}
		tokenStr := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenStr == "" || tokenStr == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.admin.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, errors.New("invalid token"))
			return
		}
		if role, _ := claims["role"].(string); role != "admin" {
			writeError(w, http.StatusForbidden, errors.New("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *APIHandler) handlePutPuzzle(w http.ResponseWriter, r *http.Request) {
	variant, err := domain.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var puzzle domain.Puzzle
	if err := json.NewDecoder(r.Body).Decode(&puzzle); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid puzzle payload"))
		return
	}
	// Path wins over body for identity.
	puzzle.Variant = variant
	puzzle.ID = chi.URLParam(r, "id")

	if err := h.service.UpsertPuzzle(r.Context(), puzzle); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

// requestLogger emits one structured line per request. Websocket upgrades
// log on connection close, so their duration covers the whole session.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("requestId", chimw.GetReqID(r.Context())).
				Msg("request")
		})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPuzzleNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrNoResults):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrUnknownVariant),
		errors.Is(err, domain.ErrUnknownView),
		errors.Is(err, domain.ErrInvalidPuzzle):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
