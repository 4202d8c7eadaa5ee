package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
)

// Creator — автор кампании в выдаче апстрима.
type Creator struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Verified bool   `json:"verified"`
}

// Amount — собранная сумма.
type Amount struct {
	Raised   float64 `json:"raised"`
	Currency string  `json:"currency"`
}

// Campaign — кампания в выдаче campaigns-сервиса.
type Campaign struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Creator     Creator  `json:"creator"`
	Image       string   `json:"image"`
	Amount      Amount   `json:"amount"`
	Percentage  float64  `json:"percentage"`
	Location    string   `json:"location,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Supporters  *int64   `json:"supporters,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

// Page — страница выдачи campaigns-сервиса.
type Page struct {
	Campaigns []Campaign `json:"campaigns"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"pageSize"`
}

// CampaignsClient — клиент campaigns-сервиса.
type CampaignsClient struct {
	base string
	http *http.Client
}

// ListCampaigns выполняет запрос выдачи с критериями сессии.
// Отсутствующий критерий опускается из query целиком.
func (c *CampaignsClient) ListCampaigns(ctx context.Context, snap state.Snapshot) (*Page, error) {
	const op = "clients.campaigns.ListCampaigns"

	q := url.Values{}
	q.Set("page", strconv.Itoa(snap.Page))
	q.Set("pageSize", strconv.Itoa(snap.PageSize))

	if snap.MinPrice != nil {
		q.Set("minPrice", formatFloat(*snap.MinPrice))
	}
	if snap.MaxPrice != nil {
		q.Set("maxPrice", formatFloat(*snap.MaxPrice))
	}
	if snap.SortBy != state.SortByNone {
		q.Set("sortBy", string(snap.SortBy))
	}
	if snap.SortOrder != state.SortOrderNone {
		q.Set("sortOrder", string(snap.SortOrder))
	}
	if snap.Type != nil {
		q.Set("type", string(*snap.Type))
	}
	if s := strings.TrimSpace(snap.Search); s != "" {
		q.Set("search", s)
	}
	if snap.Latitude != nil && snap.Longitude != nil {
		q.Set("latitude", formatFloat(*snap.Latitude))
		q.Set("longitude", formatFloat(*snap.Longitude))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/campaigns?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	var page Page
	if err := do(ctx, c.http, req, &page); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &page, nil
}

// CampaignByID возвращает одну кампанию.
func (c *CampaignsClient) CampaignByID(ctx context.Context, id string) (*Campaign, error) {
	const op = "clients.campaigns.CampaignByID"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/campaigns/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	var item Campaign
	if err := do(ctx, c.http, req, &item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &item, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
