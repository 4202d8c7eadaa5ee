// httpapi — REST-транспорт campaigns-сервиса (chi).
package httpapi

import (
	"time"

	"github.com/pribylovaa/go-crowdfunding/campaigns-service/internal/models"
)

// creatorDTO — автор кампании в выдаче.
type creatorDTO struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Verified bool   `json:"verified"`
}

// amountDTO — собранная сумма в выдаче.
type amountDTO struct {
	Raised   float64 `json:"raised"`
	Currency string  `json:"currency"`
}

// campaignDTO — кампания в выдаче. Формат полей — контракт фронта:
// опциональные поля опускаются, createdAt — RFC 3339.
type campaignDTO struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Creator     creatorDTO `json:"creator"`
	Image       string     `json:"image"`
	Amount      amountDTO  `json:"amount"`
	Percentage  float64    `json:"percentage"`
	Location    string     `json:"location,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Supporters  *int64     `json:"supporters,omitempty"`
	CreatedAt   string     `json:"createdAt"`
}

// pageDTO — страница выдачи: campaigns + total до нарезки.
type pageDTO struct {
	Campaigns []campaignDTO `json:"campaigns"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"pageSize"`
}

func toCampaignDTO(item models.Campaign) campaignDTO {
	return campaignDTO{
		ID:          item.ID,
		Type:        string(item.Type),
		Title:       item.Title,
		Description: item.Description,
		Creator: creatorDTO{
			Name:     item.Creator.Name,
			Avatar:   item.Creator.Avatar,
			Verified: item.Creator.Verified,
		},
		Image: item.Image,
		Amount: amountDTO{
			Raised:   item.Amount.Raised,
			Currency: item.Amount.Currency,
		},
		Percentage: item.Percentage,
		Location:   item.Location,
		Latitude:   item.Latitude,
		Longitude:  item.Longitude,
		Supporters: item.Supporters,
		CreatedAt:  item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPageDTO(page models.Page) pageDTO {
	items := make([]campaignDTO, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, toCampaignDTO(item))
	}

	return pageDTO{
		Campaigns: items,
		Total:     page.Total,
		Page:      page.Page,
		PageSize:  page.PageSize,
	}
}
