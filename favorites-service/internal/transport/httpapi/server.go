// httpapi — REST-транспорт favorites-сервиса (chi).
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-crowdfunding/favorites-service/internal/service"
)

// ownerHeader — заголовок с идентификатором владельца избранного.
const ownerHeader = "X-Owner-Id"

// Server — REST-обёртка над сервисным слоем.
type Server struct {
	svc *service.Service
}

// NewServer создаёт транспорт поверх сервиса.
func NewServer(svc *service.Service) *Server {
	return &Server{svc: svc}
}

// Routes регистрирует маршруты сервиса на роутере chi.
func (s *Server) Routes(r chi.Router) {
	r.Get("/favorites", s.ListFavorites)
	r.Put("/favorites/{campaign_id}", s.AddFavorite)
	r.Delete("/favorites/{campaign_id}", s.RemoveFavorite)
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// favoriteDTO — запись избранного в выдаче.
type favoriteDTO struct {
	CampaignID string `json:"campaignId"`
	CreatedAt  string `json:"createdAt"`
}

// listDTO — избранное владельца в порядке добавления.
type listDTO struct {
	Favorites []favoriteDTO `json:"favorites"`
}

// addDTO — исход добавления: added=false, если запись уже была.
type addDTO struct {
	Added bool `json:"added"`
}

// removeDTO — исход удаления: removed=false, если записи не было.
type removeDTO struct {
	Removed bool `json:"removed"`
}

// ListFavorites — GET /favorites.
func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := s.svc.ListFavorites(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := listDTO{Favorites: make([]favoriteDTO, 0, len(items))}
	for _, item := range items {
		out.Favorites = append(out.Favorites, favoriteDTO{
			CampaignID: item.CampaignID,
			CreatedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// AddFavorite — PUT /favorites/{campaign_id}. Идемпотентен.
func (s *Server) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.svc.AddFavorite(r.Context(), ownerID, chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, addDTO{Added: res.Added})
}

// RemoveFavorite — DELETE /favorites/{campaign_id}. Идемпотентен.
func (s *Server) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.svc.RemoveFavorite(r.Context(), ownerID, chi.URLParam(r, "campaign_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removeDTO{Removed: res.Removed})
}

// Health — GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ownerFromRequest извлекает и валидирует владельца из заголовка X-Owner-Id.
func ownerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(ownerHeader)
	if raw == "" {
		return uuid.Nil, service.ErrInvalidArgument
	}

	ownerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, service.ErrInvalidArgument
	}

	return ownerID, nil
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// errorDTO — единый формат ошибки транспорта.
type errorDTO struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error errorDTO `json:"error"`
}

// writeError маппит доменные ошибки сервисного слоя в HTTP-статусы.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code, msg := "internal", "internal error"

	if errors.Is(err, service.ErrInvalidArgument) {
		status, code, msg = http.StatusBadRequest, "invalid_argument", "invalid argument"
	}

	writeJSON(w, status, errorResponse{Error: errorDTO{
		Code:      code,
		Message:   msg,
		RequestID: r.Header.Get("X-Request-Id"),
	}})
}
