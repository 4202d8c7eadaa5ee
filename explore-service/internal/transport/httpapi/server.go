// httpapi — REST-интерфейс explore-service для фронта.
//
// Сессия просмотра привязывается заголовком X-Session-Id: первый запрос
// без заголовка создаёт сессию, её идентификатор возвращается в ответном
// заголовке и действует дальше и как владелец избранного в апстриме.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/clients"
	apierrors "github.com/pribylovaa/go-crowdfunding/explore-service/internal/errors"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/favorites"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/session"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/pkg/currency"
	"github.com/pribylovaa/go-crowdfunding/pkg/log"
)

const sessionHeader = "X-Session-Id"

// Sessions — срез менеджера сессий, нужный транспорту.
// Реализуется session.Manager.
type Sessions interface {
	Attach(ctx context.Context, sessionID string) (*session.Session, bool, error)
	Persist(ctx context.Context, sess *session.Session) error
}

// Server — транспорт поверх менеджера сессий и клиентов апстримов.
type Server struct {
	sessions Sessions
	upstream *clients.Clients
	sync     *favorites.Synchronizer

	upstreamTimeout time.Duration
}

// NewServer создаёт транспорт.
func NewServer(sessions Sessions, upstream *clients.Clients, sync *favorites.Synchronizer, upstreamTimeout time.Duration) *Server {
	return &Server{
		sessions:        sessions,
		upstream:        upstream,
		sync:            sync,
		upstreamTimeout: upstreamTimeout,
	}
}

// Routes регистрирует маршруты сервиса на роутере chi.
func (s *Server) Routes(r chi.Router) {
	r.Get("/session", s.Session)
	r.Post("/session/sort", s.SetSort)
	r.Post("/session/price-range", s.SetPriceRange)
	r.Post("/session/type", s.SetType)
	r.Post("/session/search", s.SetSearch)
	r.Post("/session/location", s.SetLocation)
	r.Post("/session/view", s.SetViewMode)
	r.Post("/session/page", s.SetPage)
	r.Post("/session/reset", s.ResetFilters)
	r.Post("/session/favorites/{campaign_id}/toggle", s.ToggleFavorite)
	r.Get("/session/campaigns", s.Campaigns)
	r.Get("/session/campaigns/{id}", s.CampaignByID)
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Health — GET /healthz.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// attach разрешает сессию запроса по X-Session-Id (при отсутствии — создаёт)
// и возвращает её идентификатор в ответном заголовке.
func (s *Server) attach(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, _, err := s.sessions.Attach(r.Context(), r.Header.Get(sessionHeader))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return nil, false
	}

	w.Header().Set(sessionHeader, sess.ID)

	return sess, true
}

// persist сохраняет состояние сессии после мутации.
// Неудача сохранения не отменяет уже применённую мутацию.
func (s *Server) persist(r *http.Request, sess *session.Session) {
	if err := s.sessions.Persist(r.Context(), sess); err != nil {
		log.From(r.Context()).Warn("session_persist_failed",
			"session_id", sess.ID, "err", err)
	}
}

// Session — GET /session: текущее состояние сессии.
func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetSort — POST /session/sort.
// Повторный ключ переключает направление asc<->desc.
func (s *Server) SetSort(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		SortBy string `json:"sortBy"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	key := state.SortBy(body.SortBy)
	if key != state.SortByPrice && key != state.SortByDate {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	sess.State.SetSortBy(key)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetPriceRange — POST /session/price-range.
// Противоречивые границы (min > max) отклоняются до мутации:
// состояние не меняется, границы местами не переставляются.
func (s *Server) SetPriceRange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		MinPrice *float64 `json:"minPrice"`
		MaxPrice *float64 `json:"maxPrice"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if (body.MinPrice != nil && *body.MinPrice < 0) ||
		(body.MaxPrice != nil && *body.MaxPrice < 0) {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}
	if body.MinPrice != nil && body.MaxPrice != nil && *body.MinPrice > *body.MaxPrice {
		apierrors.WriteError(w, r, apierrors.ErrInvalidRange)
		return
	}

	sess.State.SetPriceRange(body.MinPrice, body.MaxPrice)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetType — POST /session/type. null снимает фильтр.
func (s *Server) SetType(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		Type *string `json:"type"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var t *state.CampaignType
	if body.Type != nil {
		v := state.CampaignType(*body.Type)
		if v != state.TypeDonation && v != state.TypePetition {
			apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
			return
		}
		t = &v
	}

	sess.State.SetType(t)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetSearch — POST /session/search.
// Ввод проходит через debounce: значение применится к состоянию после
// паузы в наборе, поэтому ответ — 202 с ещё не изменённым состоянием.
func (s *Server) SetSearch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		Search string `json:"search"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess.Search.Set(body.Search)

	writeJSON(w, http.StatusAccepted, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetLocation — POST /session/location.
// Координаты принимаются только парой; оба null снимают фильтр.
func (s *Server) SetLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if (body.Latitude == nil) != (body.Longitude == nil) {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}
	if body.Latitude != nil {
		if *body.Latitude < -90 || *body.Latitude > 90 ||
			*body.Longitude < -180 || *body.Longitude > 180 {
			apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
			return
		}
	}

	sess.State.SetLocation(body.Latitude, body.Longitude)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetViewMode — POST /session/view. Остальные критерии не трогает.
func (s *Server) SetViewMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		ViewMode string `json:"viewMode"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	mode := state.ViewMode(body.ViewMode)
	if mode != state.ViewGrid && mode != state.ViewMap {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	sess.State.SetViewMode(mode)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// SetPage — POST /session/page. Остальные критерии не трогает.
func (s *Server) SetPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	var body struct {
		Page int `json:"page"`
	}
	if err := decodeBody(r, &body); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if body.Page < 1 {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	sess.State.SetPage(body.Page)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// ResetFilters — POST /session/reset.
// Избранное и режим отображения сброс переживают.
func (s *Server) ResetFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	sess.State.ResetFilters()
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toStateDTO(sess.ID, sess.State.Snapshot()))
}

// toggleDTO — итог переключения избранного.
// synced=false означает, что удалённое хранилище подтвердить переключение
// не смогло и локальный флип был откатан.
type toggleDTO struct {
	CampaignID string `json:"campaignId"`
	Favorite   bool   `json:"favorite"`
	Synced     bool   `json:"synced"`
}

// ToggleFavorite — POST /session/favorites/{campaign_id}/toggle.
// Оптимистичное переключение: неудача апстрима не фатальна,
// ответ отражает итоговое (откатанное) членство.
func (s *Server) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	campaignID := chi.URLParam(r, "campaign_id")
	if campaignID == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	ctx, cancel := s.upstreamContext(r)
	defer cancel()

	nowFavorite, err := s.sync.Toggle(ctx, sess.State, sess.ID, campaignID)
	s.persist(r, sess)

	writeJSON(w, http.StatusOK, toggleDTO{
		CampaignID: campaignID,
		Favorite:   nowFavorite,
		Synced:     err == nil,
	})
}

// Campaigns — GET /session/campaigns: выдача по критериям сессии.
//
// До гидрации состояния запрос отклоняется: иначе выборка ушла бы
// с дефолтными критериями вместо сохранённых. Результат, начатый до
// переключения избранного, считается устаревшим и перезапрашивается.
func (s *Server) Campaigns(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	if !sess.State.HasHydrated() {
		apierrors.WriteError(w, r, apierrors.ErrNotHydrated)
		return
	}

	var page *clients.Page
	for attempt := 0; attempt < 2; attempt++ {
		gen := s.sync.Generation()

		ctx, cancel := s.upstreamContext(r)
		result, err := s.upstream.Campaigns.ListCampaigns(ctx, sess.State.Snapshot())
		cancel()
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		page = result
		if s.sync.Generation() == gen {
			break
		}
		// Избранное успело переключиться — выдача устарела, перезапрос.
	}

	writeJSON(w, http.StatusOK, toPageDTO(page, sess.State))
}

// CampaignByID — GET /session/campaigns/{id}: одна кампания с флагом
// избранного текущей сессии.
func (s *Server) CampaignByID(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.attach(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	ctx, cancel := s.upstreamContext(r)
	defer cancel()

	item, err := s.upstream.Campaigns.CampaignByID(ctx, id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, campaignDTO{
		Campaign:    *item,
		AmountLabel: currency.Format(item.Amount.Raised, item.Amount.Currency),
		RaisedLabel: currency.FormatRaised(item.Amount.Raised, item.Amount.Currency),
		Favorite:    sess.State.IsFavorite(item.ID),
	})
}

// upstreamContext ограничивает вызов апстрима собственным таймаутом
// поверх контекста запроса.
func (s *Server) upstreamContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.upstreamTimeout)
}

// decodeBody разбирает JSON-тело запроса; битое тело — ошибка аргумента.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.ErrInvalidArgument
	}
	return nil
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
