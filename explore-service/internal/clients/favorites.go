package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// FavoritesClient — клиент favorites-сервиса.
// Владелец избранного передаётся заголовком X-Owner-Id.
type FavoritesClient struct {
	base string
	http *http.Client
}

type favoriteEntry struct {
	CampaignID string `json:"campaignId"`
	CreatedAt  string `json:"createdAt"`
}

type favoritesList struct {
	Favorites []favoriteEntry `json:"favorites"`
}

// ListFavorites возвращает идентификаторы избранных кампаний владельца
// в порядке добавления.
func (c *FavoritesClient) ListFavorites(ctx context.Context, ownerID string) ([]string, error) {
	const op = "clients.favorites.ListFavorites"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/favorites", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("X-Owner-Id", ownerID)

	var out favoritesList
	if err := do(ctx, c.http, req, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]string, 0, len(out.Favorites))
	for _, f := range out.Favorites {
		ids = append(ids, f.CampaignID)
	}

	return ids, nil
}

// AddFavorite добавляет кампанию в избранное владельца. Идемпотентен.
func (c *FavoritesClient) AddFavorite(ctx context.Context, ownerID, campaignID string) error {
	const op = "clients.favorites.AddFavorite"

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+"/favorites/"+url.PathEscape(campaignID), nil)
	if err != nil {
		return fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("X-Owner-Id", ownerID)

	if err := do(ctx, c.http, req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RemoveFavorite убирает кампанию из избранного владельца. Идемпотентен.
func (c *FavoritesClient) RemoveFavorite(ctx context.Context, ownerID, campaignID string) error {
	const op = "clients.favorites.RemoveFavorite"

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+"/favorites/"+url.PathEscape(campaignID), nil)
	if err != nil {
		return fmt.Errorf("%s: new_request: %w", op, err)
	}
	req.Header.Set("X-Owner-Id", ownerID)

	if err := do(ctx, c.http, req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
