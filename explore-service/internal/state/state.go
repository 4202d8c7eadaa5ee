// state реализует контейнер состояния фильтров, избранного и режима
// отображения пользовательской сессии.
package state

import (
	"strings"
	"sync"
)

// ViewMode — режим отображения выдачи.
type ViewMode string

const (
	// ViewGrid — сетка карточек.
	ViewGrid ViewMode = "grid"
	// ViewMap — географическая карта.
	ViewMap ViewMode = "map"
)

// SortBy — ключ сортировки. Активен ровно один ключ за раз.
type SortBy string

const (
	SortByPrice SortBy = "price"
	SortByDate  SortBy = "date"
	SortByNone  SortBy = ""
)

// SortOrder — направление сортировки.
type SortOrder string

const (
	SortAsc       SortOrder = "asc"
	SortDesc      SortOrder = "desc"
	SortOrderNone SortOrder = ""
)

// CampaignType — фильтр по типу кампании.
type CampaignType string

const (
	TypeDonation CampaignType = "donation"
	TypePetition CampaignType = "petition"
)

// Defaults — значения критериев по умолчанию (используются при создании
// контейнера и в ResetFilters).
type Defaults struct {
	PageSize int
	ViewMode ViewMode
}

// Snapshot — согласованный срез состояния для чтения.
// Отсутствие опционального поля означает «без ограничения», а не ноль:
// все опциональные критерии — указатели.
type Snapshot struct {
	Page      int
	PageSize  int
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    SortBy
	SortOrder SortOrder
	Type      *CampaignType
	Search    string
	Latitude  *float64
	Longitude *float64
	ViewMode  ViewMode
	Favorites []string
	Hydrated  bool
}

// FilterState — единый источник истины по критериям выборки, избранному
// и режиму отображения одной сессии.
//
// Контейнер создаётся явно (никаких синглтонов уровня пакета) и защищён
// одним мьютексом: все мутации сериализуются, «одновременных писателей»
// не бывает.
//
// Контракты мутаторов:
//   - каждый мутатор критериев (цена, тип, поиск, координаты) сбрасывает
//     page в 1 — устаревшая страница не переживает смену фильтра;
//   - SetSortBy по повторному ключу переключает направление asc<->desc;
//   - SetViewMode и SetPage не трогают остальные критерии;
//   - ResetFilters возвращает критерии к дефолтам; избранное переживает сброс;
//   - ToggleFavorite симметричен и сохраняет порядок добавления;
//   - Hydrate переводит hydrated false->true ровно один раз.
type FilterState struct {
	mu sync.Mutex

	defaults Defaults

	page      int
	pageSize  int
	minPrice  *float64
	maxPrice  *float64
	sortBy    SortBy
	sortOrder SortOrder
	ctype     *CampaignType
	search    string
	latitude  *float64
	longitude *float64
	viewMode  ViewMode

	// favorites хранит порядок добавления; favSet — членство.
	favorites []string
	favSet    map[string]struct{}

	hydrated bool
}

// New создаёт контейнер с критериями по умолчанию.
func New(defaults Defaults) *FilterState {
	if defaults.PageSize <= 0 {
		defaults.PageSize = 9
	}
	if defaults.ViewMode == "" {
		defaults.ViewMode = ViewGrid
	}

	s := &FilterState{
		defaults: defaults,
		favSet:   make(map[string]struct{}),
	}
	s.resetCriteriaLocked()
	s.viewMode = defaults.ViewMode

	return s
}

// resetCriteriaLocked возвращает критерии (не избранное и не view mode)
// к дефолтам. Вызывается под мьютексом.
func (s *FilterState) resetCriteriaLocked() {
	s.page = 1
	s.pageSize = s.defaults.PageSize
	s.minPrice = nil
	s.maxPrice = nil
	s.sortBy = SortByNone
	s.sortOrder = SortOrderNone
	s.ctype = nil
	s.search = ""
	s.latitude = nil
	s.longitude = nil
}

// SetSortBy устанавливает ключ сортировки.
// Повторный вызов с текущим ключом переключает направление asc<->desc;
// новый ключ всегда начинает с asc.
func (s *FilterState) SetSortBy(key SortBy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.sortBy {
		if s.sortOrder == SortDesc {
			s.sortOrder = SortAsc
		} else {
			s.sortOrder = SortDesc
		}
		return
	}

	s.sortBy = key
	s.sortOrder = SortAsc
}

// SetPriceRange атомарно заменяет обе ценовые границы и сбрасывает page в 1.
// Противоречивость границ (min > max) здесь не проверяется: это ошибка
// пользовательского ввода, её отсекает вызывающий слой до мутации.
func (s *FilterState) SetPriceRange(min, max *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.minPrice = copyFloat(min)
	s.maxPrice = copyFloat(max)
	s.page = 1
}

// SetType устанавливает фильтр по типу кампании (nil — без фильтра)
// и сбрасывает page в 1.
func (s *FilterState) SetType(t *CampaignType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == nil {
		s.ctype = nil
	} else {
		v := *t
		s.ctype = &v
	}
	s.page = 1
}

// SetSearchQuery устанавливает поисковую строку и сбрасывает page в 1.
func (s *FilterState) SetSearchQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.search = strings.TrimSpace(text)
	s.page = 1
}

// SetLocation атомарно устанавливает обе координаты фильтра близости
// (nil, nil — без фильтра) и сбрасывает page в 1. Координаты осмысленны
// только парой; непарный ввод отсекает вызывающий слой.
func (s *FilterState) SetLocation(lat, lon *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latitude = copyFloat(lat)
	s.longitude = copyFloat(lon)
	s.page = 1
}

// SetViewMode меняет режим отображения, не трогая остальные критерии.
func (s *FilterState) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewMode = mode
}

// SetPage меняет текущую страницу, не трогая остальные критерии.
// Значения < 1 нормализуются к 1.
func (s *FilterState) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 {
		page = 1
	}
	s.page = page
}

// ResetFilters возвращает все критерии к дефолтам.
// Избранное и режим отображения сброс переживают.
func (s *FilterState) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetCriteriaLocked()
}

// ToggleFavorite симметрично добавляет/убирает кампанию из избранного.
// Возвращает новое членство (true — теперь в избранном). Двойной вызов
// возвращает состояние к исходному. Порядок добавления сохраняется.
func (s *FilterState) ToggleFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favSet[id]; ok {
		delete(s.favSet, id)
		for i, v := range s.favorites {
			if v == id {
				s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
				break
			}
		}
		return false
	}

	s.favSet[id] = struct{}{}
	s.favorites = append(s.favorites, id)
	return true
}

// IsFavorite сообщает членство кампании в избранном.
func (s *FilterState) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.favSet[id]
	return ok
}

// HasHydrated сообщает, загружено ли сохранённое состояние.
// До гидрации запросы выдачи исполнять нельзя: иначе выборка уйдёт
// с дефолтными критериями вместо сохранённых.
func (s *FilterState) HasHydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hydrated
}

// Snapshot возвращает согласованный срез состояния.
func (s *FilterState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := make([]string, len(s.favorites))
	copy(favorites, s.favorites)

	return Snapshot{
		Page:      s.page,
		PageSize:  s.pageSize,
		MinPrice:  copyFloat(s.minPrice),
		MaxPrice:  copyFloat(s.maxPrice),
		SortBy:    s.sortBy,
		SortOrder: s.sortOrder,
		Type:      copyType(s.ctype),
		Search:    s.search,
		Latitude:  copyFloat(s.latitude),
		Longitude: copyFloat(s.longitude),
		ViewMode:  s.viewMode,
		Favorites: favorites,
		Hydrated:  s.hydrated,
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func copyType(v *CampaignType) *CampaignType {
	if v == nil {
		return nil
	}
	t := *v
	return &t
}
