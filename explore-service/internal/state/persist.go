package state

import "encoding/json"

// Persisted — сохраняемое подмножество состояния сессии.
// Переживает перезапуски: избранное, режим отображения, сортировка,
// ценовые границы, тип, поиск, координаты, размер и номер страницы.
// Флаг гидрации не сохраняется никогда.
type Persisted struct {
	Favorites []string      `json:"favorites"`
	ViewMode  ViewMode      `json:"viewMode"`
	SortBy    SortBy        `json:"sortBy,omitempty"`
	SortOrder SortOrder     `json:"sortOrder,omitempty"`
	MinPrice  *float64      `json:"minPrice,omitempty"`
	MaxPrice  *float64      `json:"maxPrice,omitempty"`
	Type      *CampaignType `json:"type,omitempty"`
	Search    string        `json:"search,omitempty"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	PageSize  int           `json:"pageSize"`
	Page      int           `json:"page"`
}

// Persisted возвращает сохраняемое подмножество текущего состояния.
func (s *FilterState) Persisted() Persisted {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := make([]string, len(s.favorites))
	copy(favorites, s.favorites)

	return Persisted{
		Favorites: favorites,
		ViewMode:  s.viewMode,
		SortBy:    s.sortBy,
		SortOrder: s.sortOrder,
		MinPrice:  copyFloat(s.minPrice),
		MaxPrice:  copyFloat(s.maxPrice),
		Type:      copyType(s.ctype),
		Search:    s.search,
		Latitude:  copyFloat(s.latitude),
		Longitude: copyFloat(s.longitude),
		PageSize:  s.pageSize,
		Page:      s.page,
	}
}

// Hydrate применяет сохранённое состояние и переводит hydrated в true.
// Выполняется ровно один раз за время жизни контейнера: повторные вызовы —
// no-op (первая гидрация выигрывает, поздние данные не затирают живую сессию).
func (s *FilterState) Hydrate(p Persisted) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return
	}

	s.favorites = s.favorites[:0]
	s.favSet = make(map[string]struct{}, len(p.Favorites))
	for _, id := range p.Favorites {
		if _, ok := s.favSet[id]; ok {
			continue
		}
		s.favSet[id] = struct{}{}
		s.favorites = append(s.favorites, id)
	}

	if p.ViewMode != "" {
		s.viewMode = p.ViewMode
	}
	s.sortBy = p.SortBy
	s.sortOrder = p.SortOrder
	s.minPrice = copyFloat(p.MinPrice)
	s.maxPrice = copyFloat(p.MaxPrice)
	s.ctype = copyType(p.Type)
	s.search = p.Search
	s.latitude = copyFloat(p.Latitude)
	s.longitude = copyFloat(p.Longitude)
	if p.PageSize > 0 {
		s.pageSize = p.PageSize
	}
	if p.Page >= 1 {
		s.page = p.Page
	}

	s.hydrated = true
}

// HydrateDefaults помечает контейнер гидрированным без сохранённых данных
// (новая сессия: дефолты и есть актуальное состояние).
func (s *FilterState) HydrateDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrated = true
}

// EncodePersisted сериализует сохраняемое подмножество в JSON-блоб.
func EncodePersisted(p Persisted) ([]byte, error) {
	return json.Marshal(p)
}

// DecodePersisted разбирает JSON-блоб обратно в Persisted.
func DecodePersisted(raw []byte) (Persisted, error) {
	var p Persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return Persisted{}, err
	}
	return p, nil
}
