package models

// SortBy — ключ сортировки выдачи. Активен ровно один ключ за раз.
type SortBy string

const (
	// SortByPrice — по собранной сумме (Amount.Raised).
	SortByPrice SortBy = "price"
	// SortByDate — по дате создания (CreatedAt).
	SortByDate SortBy = "date"
	// SortByNone — без сортировки: сохраняется исходный порядок коллекции.
	SortByNone SortBy = ""
)

// SortOrder — направление сортировки.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
	// SortOrderNone — направление не задано (трактуется как asc).
	SortOrderNone SortOrder = ""
)

// Criteria — полный набор критериев выборки кампаний.
//
// Инварианты:
//   - отсутствие поля означает «без ограничения», а не «ноль»: все
//     опциональные поля — указатели, nil != 0;
//   - MinPrice <= MaxPrice, если заданы оба (нарушение — ошибка пользователя,
//     запрос с противоречивыми границами не исполняется);
//   - Latitude и Longitude осмысленны только парой.
type Criteria struct {
	// Page — номер страницы, >= 1.
	Page int
	// PageSize — размер страницы, >= 1.
	PageSize int
	// MinPrice/MaxPrice — границы по собранной сумме (опционально).
	MinPrice *float64
	MaxPrice *float64
	// SortBy/SortOrder — ключ и направление сортировки.
	SortBy    SortBy
	SortOrder SortOrder
	// Type — фильтр по типу кампании (опционально).
	Type *CampaignType
	// Search — регистронезависимый поиск подстроки в title/description.
	Search string
	// Latitude/Longitude — центр фильтра близости (опционально, только парой).
	Latitude  *float64
	Longitude *float64
}

// HasLocation сообщает, задан ли фильтр близости (обе координаты).
func (c Criteria) HasLocation() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// Page — страница результатов выборки.
//
// Инварианты:
//   - 0 <= len(Items) <= PageSize;
//   - Total — размер отфильтрованной коллекции ДО нарезки на страницы
//     и не зависит от сортировки.
type Page struct {
	Items    []Campaign
	Total    int
	Page     int
	PageSize int
}
