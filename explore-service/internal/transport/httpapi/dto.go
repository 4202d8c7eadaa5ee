package httpapi

import (
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/clients"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/pagination"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/pkg/currency"
)

// stateDTO — состояние сессии в ответах API.
// Отсутствующий опциональный критерий опускается из JSON целиком.
type stateDTO struct {
	SessionID string   `json:"sessionId"`
	Page      int      `json:"page"`
	PageSize  int      `json:"pageSize"`
	MinPrice  *float64 `json:"minPrice,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`
	SortOrder string   `json:"sortOrder,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Search    string   `json:"search,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	ViewMode  string   `json:"viewMode"`
	Favorites []string `json:"favorites"`
	Hydrated  bool     `json:"hydrated"`
}

func toStateDTO(sessionID string, snap state.Snapshot) stateDTO {
	dto := stateDTO{
		SessionID: sessionID,
		Page:      snap.Page,
		PageSize:  snap.PageSize,
		MinPrice:  snap.MinPrice,
		MaxPrice:  snap.MaxPrice,
		SortBy:    string(snap.SortBy),
		SortOrder: string(snap.SortOrder),
		Search:    snap.Search,
		Latitude:  snap.Latitude,
		Longitude: snap.Longitude,
		ViewMode:  string(snap.ViewMode),
		Favorites: snap.Favorites,
		Hydrated:  snap.Hydrated,
	}

	if dto.Favorites == nil {
		dto.Favorites = []string{}
	}
	if snap.Type != nil {
		t := string(*snap.Type)
		dto.Type = &t
	}

	return dto
}

// campaignDTO — кампания в выдаче BFF: поля апстрима плюс
// отформатированная сумма и флаг избранного текущей сессии.
type campaignDTO struct {
	clients.Campaign
	AmountLabel string `json:"amountLabel"`
	RaisedLabel string `json:"raisedLabel"`
	Favorite    bool   `json:"favorite"`
}

// windowDTO — элемент окна пагинации.
// Многоточие не кликабельно и не несёт номера страницы.
type windowDTO struct {
	Label    string `json:"label"`
	Page     int    `json:"page,omitempty"`
	Ellipsis bool   `json:"ellipsis,omitempty"`
	Current  bool   `json:"current,omitempty"`
}

func toWindowDTOs(items []pagination.Item, currentPage int) []windowDTO {
	if len(items) == 0 {
		return nil
	}

	out := make([]windowDTO, 0, len(items))
	for _, it := range items {
		dto := windowDTO{Label: it.Label(), Ellipsis: it.Ellipsis}
		if !it.Ellipsis {
			dto.Page = it.Page
			dto.Current = it.Page == currentPage
		}
		out = append(out, dto)
	}

	return out
}

// pageDTO — страница выдачи BFF.
type pageDTO struct {
	Campaigns  []campaignDTO `json:"campaigns"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	Pagination []windowDTO   `json:"pagination"`
}

func toPageDTO(page *clients.Page, st *state.FilterState) pageDTO {
	items := make([]campaignDTO, 0, len(page.Campaigns))
	for _, c := range page.Campaigns {
		items = append(items, campaignDTO{
			Campaign:    c,
			AmountLabel: currency.Format(c.Amount.Raised, c.Amount.Currency),
			RaisedLabel: currency.FormatRaised(c.Amount.Raised, c.Amount.Currency),
			Favorite:    st.IsFavorite(c.ID),
		})
	}

	totalPages := 0
	if page.PageSize > 0 {
		totalPages = (page.Total + page.PageSize - 1) / page.PageSize
	}

	return pageDTO{
		Campaigns:  items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: totalPages,
		Pagination: toWindowDTOs(pagination.Windows(page.Page, totalPages), page.Page),
	}
}
