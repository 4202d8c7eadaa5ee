package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/config"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/service"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/storage"
	"github.com/pribylovaa/go-crowdfunding/campaigns-service/mocks"
)

// Тесты REST-транспорта (server.go):
//  - разбор query-параметров в критерии (пустой параметр = отсутствие);
//  - маппинг доменных ошибок в статусы и коды;
//  - формат выдачи (pageDTO, campaignDTO).

func testConfig() config.Config {
	return config.Config{
		Limits: config.LimitsConfig{
			DefaultPageSize: 9,
			MaxPageSize:     100,
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, testConfig())

	r := chi.NewRouter()
	NewServer(svc).Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return ts, st
}

func fixtureCampaigns() []models.Campaign {
	lat, lon := 40.0, -74.0
	return []models.Campaign{
		{
			ID:    "c-1",
			Type:  models.TypeDonation,
			Title: "Clean Water Fund",
			Creator: models.Creator{
				Name: "Alice",
			},
			Amount:     models.Amount{Raised: 120.5, Currency: "USD"},
			Percentage: 40,
			Location:   "New Jersey",
			Latitude:   &lat,
			Longitude:  &lon,
			CreatedAt:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "c-2",
			Type:      models.TypePetition,
			Title:     "Save the Library",
			Amount:    models.Amount{Raised: 10, Currency: "USD"},
			CreatedAt: time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC),
		},
	}
}

func TestListCampaigns_OK(t *testing.T) {
	t.Parallel()

	ts, st := newTestServer(t)
	st.EXPECT().ListCampaigns(gomock.Any()).Return(fixtureCampaigns(), nil)

	resp, err := http.Get(ts.URL + "/campaigns")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var page pageDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))

	require.Equal(t, 2, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 9, page.PageSize)
	require.Len(t, page.Campaigns, 2)

	first := page.Campaigns[0]
	require.Equal(t, "c-1", first.ID)
	require.Equal(t, "donation", first.Type)
	require.Equal(t, "2025-03-01T10:00:00Z", first.CreatedAt)
	require.NotNil(t, first.Latitude)

	// Опциональные поля опускаются у записей без них.
	second := page.Campaigns[1]
	require.Nil(t, second.Latitude)
	require.Nil(t, second.Supporters)
}

func TestListCampaigns_QueryCriteria(t *testing.T) {
	t.Parallel()

	ts, st := newTestServer(t)
	st.EXPECT().ListCampaigns(gomock.Any()).Return(fixtureCampaigns(), nil)

	url := ts.URL + "/campaigns?search=water&type=donation&minPrice=0&sortBy=price&sortOrder=desc&page=1&pageSize=5"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page pageDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))

	// Поиск и тип отфильтровали до одной записи; minPrice=0 — это
	// установленная граница, а не её отсутствие.
	require.Equal(t, 1, page.Total)
	require.Equal(t, 5, page.PageSize)
	require.Len(t, page.Campaigns, 1)
	require.Equal(t, "c-1", page.Campaigns[0].ID)
}

func TestListCampaigns_InvalidRange(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/campaigns?minPrice=100&maxPrice=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "invalid_range", body.Error.Code)
}

func TestListCampaigns_BadParam(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	for _, q := range []string{
		"?page=abc",
		"?minPrice=cheap",
		"?latitude=40.0",
		"?sortBy=unknown",
		"?type=lottery",
	} {
		resp, err := http.Get(ts.URL + "/campaigns" + q)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", q)
	}
}

func TestListCampaigns_StorageError(t *testing.T) {
	t.Parallel()

	ts, st := newTestServer(t)
	st.EXPECT().ListCampaigns(gomock.Any()).Return(nil, errors.New("connection reset"))

	resp, err := http.Get(ts.URL + "/campaigns")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "internal", body.Error.Code)
	// Детали внутренней ошибки наружу не утекают.
	require.Equal(t, "internal error", body.Error.Message)
}

func TestCampaignByID_OK(t *testing.T) {
	t.Parallel()

	ts, st := newTestServer(t)
	item := fixtureCampaigns()[0]
	st.EXPECT().CampaignByID(gomock.Any(), "c-1").Return(&item, nil)

	resp, err := http.Get(ts.URL + "/campaigns/c-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dto campaignDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dto))
	require.Equal(t, "c-1", dto.ID)
	require.Equal(t, "Clean Water Fund", dto.Title)
}

func TestCampaignByID_NotFound(t *testing.T) {
	t.Parallel()

	ts, st := newTestServer(t)
	st.EXPECT().CampaignByID(gomock.Any(), "nope").Return(nil, storage.ErrNotFound)

	resp, err := http.Get(ts.URL + "/campaigns/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "not_found", body.Error.Code)
}

func TestErrorEnvelope_RequestID(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/campaigns?minPrice=100&maxPrice=10", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "req-42", body.Error.RequestID)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}
