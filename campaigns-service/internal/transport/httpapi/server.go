package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/service"
)

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
	r.Get("/campaigns", s.ListCampaigns)
	r.Get("/campaigns/{id}", s.CampaignByID)
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// ListCampaigns — GET /campaigns.
// Критерии приходят query-параметрами; отсутствующий параметр означает
// «без ограничения» и не равен нулевому значению.
func (s *Server) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := s.svc.ListCampaigns(r.Context(), criteria)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageDTO(*page))
}

// CampaignByID — GET /campaigns/{id}.
func (s *Server) CampaignByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, r, service.ErrInvalidArgument)
		return
	}

	item, err := s.svc.CampaignByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCampaignDTO(*item))
}

// Health — GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// criteriaFromQuery разбирает query-параметры в models.Criteria.
// Пустые значения трактуются как отсутствие параметра.
func criteriaFromQuery(r *http.Request) (models.Criteria, error) {
	var c models.Criteria
	q := r.URL.Query()

	intParam := func(name string, dst *int) error {
		v := q.Get(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return service.ErrInvalidArgument
		}
		*dst = n
		return nil
	}

	floatParam := func(name string) (*float64, error) {
		v := q.Get(name)
		if v == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, service.ErrInvalidArgument
		}
		return &f, nil
	}

	if err := intParam("page", &c.Page); err != nil {
		return c, err
	}
	if err := intParam("pageSize", &c.PageSize); err != nil {
		return c, err
	}

	var err error
	if c.MinPrice, err = floatParam("minPrice"); err != nil {
		return c, err
	}
	if c.MaxPrice, err = floatParam("maxPrice"); err != nil {
		return c, err
	}
	if c.Latitude, err = floatParam("latitude"); err != nil {
		return c, err
	}
	if c.Longitude, err = floatParam("longitude"); err != nil {
		return c, err
	}

	c.SortBy = models.SortBy(q.Get("sortBy"))
	c.SortOrder = models.SortOrder(q.Get("sortOrder"))
	c.Search = q.Get("search")

	if v := q.Get("type"); v != "" {
		t := models.CampaignType(v)
		c.Type = &t
	}

	return c, nil
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
// Детали внутренних ошибок наружу не утекают.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code, msg := "internal", "internal error"

	switch {
	case errors.Is(err, service.ErrInvalidRange):
		status, code, msg = http.StatusBadRequest, "invalid_range", "min price must not exceed max price"
	case errors.Is(err, service.ErrInvalidArgument):
		status, code, msg = http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", "not found"
	}

	writeJSON(w, status, errorResponse{Error: errorDTO{
		Code:      code,
		Message:   msg,
		RequestID: r.Header.Get("X-Request-Id"),
	}})
}
