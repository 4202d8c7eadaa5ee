// catalog — реализует service.Parser для JSON-каталогов кампаний.
package catalog

// document — корневая структура каталога.
// Формат совпадает с выдачей /campaigns: {"campaigns": [...]}.
type document struct {
	Campaigns []entry `json:"campaigns"`
}

// entry описывает одну кампанию в каталоге.
type entry struct {
	// ID — строковый идентификатор. Записи без id отбрасываются при финализации.
	ID   string `json:"id"`
	Type string `json:"type"`
	// Title — заголовок кампании, обязателен.
	Title       string `json:"title"`
	Description string `json:"description"`
	Creator     struct {
		Name     string `json:"name"`
		Avatar   string `json:"avatar"`
		Verified bool   `json:"verified"`
	} `json:"creator"`
	Image  string `json:"image"`
	Amount struct {
		Raised   float64 `json:"raised"`
		Currency string  `json:"currency"`
	} `json:"amount"`
	Percentage float64 `json:"percentage"`
	// Location/координаты — опциональны; координаты осмысленны только парой.
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	// Supporters — только у петиций.
	Supporters *int64 `json:"supporters,omitempty"`
	// CreatedAt — ISO-8601 (RFC 3339).
	CreatedAt string `json:"createdAt"`
}
