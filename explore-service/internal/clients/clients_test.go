package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apierrors "github.com/pribylovaa/go-crowdfunding/explore-service/internal/errors"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/pkg/httpmw"
)

func fptr(v float64) *float64 { return &v }

func emptyPage() Page {
	return Page{Campaigns: []Campaign{}, Total: 0, Page: 1, PageSize: 9}
}

// newClients поднимает фейковый апстрим и возвращает клиентов поверх него.
func newClients(t *testing.T, handler http.HandlerFunc) *Clients {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cl, err := New(Config{
		CampaignsURL: srv.URL,
		FavoritesURL: srv.URL,
		HTTPClient:   srv.Client(),
	})
	require.NoError(t, err)

	return cl
}

func TestNew_RequiresURLs(t *testing.T) {
	t.Parallel()

	_, err := New(Config{FavoritesURL: "http://favorites"})
	require.Error(t, err)

	_, err = New(Config{CampaignsURL: "http://campaigns"})
	require.Error(t, err)
}

func TestListCampaigns_OmitsAbsentCriteria(t *testing.T) {
	t.Parallel()

	var got url.Values
	cl := newClients(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_ = json.NewEncoder(w).Encode(emptyPage())
	})

	st := state.New(state.Defaults{PageSize: 9})
	_, err := cl.Campaigns.ListCampaigns(context.Background(), st.Snapshot())
	require.NoError(t, err)

	require.Equal(t, "1", got.Get("page"))
	require.Equal(t, "9", got.Get("pageSize"))

	for _, name := range []string{"minPrice", "maxPrice", "sortBy", "sortOrder", "type", "search", "latitude", "longitude"} {
		require.False(t, got.Has(name), "unexpected query param %q", name)
	}
}

func TestListCampaigns_FullCriteria(t *testing.T) {
	t.Parallel()

	var got url.Values
	cl := newClients(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_ = json.NewEncoder(w).Encode(emptyPage())
	})

	st := state.New(state.Defaults{PageSize: 9})
	st.SetPriceRange(fptr(10), fptr(250.5))
	st.SetType(func() *state.CampaignType { v := state.TypeDonation; return &v }())
	st.SetSearchQuery("clean water")
	st.SetLocation(fptr(48.2), fptr(16.3))
	st.SetSortBy(state.SortByPrice)
	st.SetPage(3)

	_, err := cl.Campaigns.ListCampaigns(context.Background(), st.Snapshot())
	require.NoError(t, err)

	require.Equal(t, "3", got.Get("page"))
	require.Equal(t, "10", got.Get("minPrice"))
	require.Equal(t, "250.5", got.Get("maxPrice"))
	require.Equal(t, "price", got.Get("sortBy"))
	require.Equal(t, "asc", got.Get("sortOrder"))
	require.Equal(t, "donation", got.Get("type"))
	require.Equal(t, "clean water", got.Get("search"))
	require.Equal(t, "48.2", got.Get("latitude"))
	require.Equal(t, "16.3", got.Get("longitude"))
}

func TestDo_PropagatesRequestID(t *testing.T) {
	t.Parallel()

	var gotID string
	cl := newClients(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode(emptyPage())
	})

	ctx := context.WithValue(context.Background(), httpmw.CtxRequestID, "req-42")
	st := state.New(state.Defaults{})
	_, err := cl.Campaigns.ListCampaigns(ctx, st.Snapshot())
	require.NoError(t, err)
	require.Equal(t, "req-42", gotID)
}

func TestDo_MapsErrorEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"invalid_range", http.StatusBadRequest, "invalid_range", apierrors.ErrInvalidRange},
		{"invalid_argument", http.StatusBadRequest, "invalid_argument", apierrors.ErrInvalidArgument},
		{"not_found", http.StatusNotFound, "not_found", apierrors.ErrNotFound},
		{"unknown_code", http.StatusTeapot, "weird", apierrors.ErrUpstreamUnavailable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cl := newClients(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(apierrors.ErrorResponse{
					Error: apierrors.APIError{Code: tc.code, Message: "boom"},
				})
			})

			st := state.New(state.Defaults{})
			_, err := cl.Campaigns.ListCampaigns(context.Background(), st.Snapshot())
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDo_ServerErrorsAreUpstreamUnavailable(t *testing.T) {
	t.Parallel()

	cl := newClients(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	st := state.New(state.Defaults{})
	_, err := cl.Campaigns.ListCampaigns(context.Background(), st.Snapshot())
	require.ErrorIs(t, err, apierrors.ErrUpstreamUnavailable)
}

func TestDo_DeadlineMapsToUpstreamTimeout(t *testing.T) {
	t.Parallel()

	cl := newClients(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(emptyPage())
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	st := state.New(state.Defaults{})
	_, err := cl.Campaigns.ListCampaigns(ctx, st.Snapshot())
	require.ErrorIs(t, err, apierrors.ErrUpstreamTimeout)
}

func TestCampaignByID_DecodesCampaign(t *testing.T) {
	t.Parallel()

	cl := newClients(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/campaigns/c-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Campaign{
			ID:    "c-1",
			Type:  "donation",
			Title: "Clean Water",
			Amount: Amount{
				Raised:   12500,
				Currency: "USD",
			},
		})
	})

	item, err := cl.Campaigns.CampaignByID(context.Background(), "c-1")
	require.NoError(t, err)
	require.Equal(t, "c-1", item.ID)
	require.Equal(t, "Clean Water", item.Title)
	require.Equal(t, 12500.0, item.Amount.Raised)
}

func TestFavoritesClient_SetsOwnerHeader(t *testing.T) {
	t.Parallel()

	owner := "6f1f7bb2-6c2e-45ca-b21b-2dd8a06ae8a4"

	type call struct {
		method string
		path   string
		owner  string
	}
	var calls []call

	cl := newClients(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path, r.Header.Get("X-Owner-Id")})

		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(favoritesList{Favorites: []favoriteEntry{
				{CampaignID: "c-1"},
				{CampaignID: "c-2"},
			}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"added": true})
	})

	ids, err := cl.Favorites.ListFavorites(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, []string{"c-1", "c-2"}, ids)

	require.NoError(t, cl.Favorites.AddFavorite(context.Background(), owner, "c-3"))
	require.NoError(t, cl.Favorites.RemoveFavorite(context.Background(), owner, "c-3"))

	require.Equal(t, []call{
		{http.MethodGet, "/favorites", owner},
		{http.MethodPut, "/favorites/c-3", owner},
		{http.MethodDelete, "/favorites/c-3", owner},
	}, calls)
}
