// session управляет жизненным циклом сессий просмотра.
//
// Сессия идентифицируется UUID (заголовок X-Session-Id): при первом
// обращении менеджер создаёт состояние фильтров и гидрирует его из кэша
// (или дефолтами, если сохранённого состояния нет). Тот же UUID служит
// идентификатором владельца избранного в favorites-сервисе.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/cache"
	apierrors "github.com/pribylovaa/go-crowdfunding/explore-service/internal/errors"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/search"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/pkg/log"
)

// persistTimeout ограничивает фоновое сохранение состояния после
// срабатывания debounce-поиска.
const persistTimeout = 3 * time.Second

// Session — живая сессия просмотра: состояние фильтров и
// debouncer поисковой строки.
type Session struct {
	ID     string
	State  *state.FilterState
	Search *search.Debouncer
}

// Manager хранит живые сессии в памяти и синхронизирует их
// сохранённое представление с кэшем.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cache    cache.StateCache
	defaults state.Defaults
	ttl      time.Duration
	delay    time.Duration
	clock    search.Clock
}

// NewManager создаёт менеджер сессий.
// clock == nil означает системные таймеры, delay <= 0 — задержку по умолчанию.
func NewManager(c cache.StateCache, defaults state.Defaults, ttl, debounceDelay time.Duration, clock search.Clock) *Manager {
	if clock == nil {
		clock = search.SystemClock{}
	}
	if debounceDelay <= 0 {
		debounceDelay = search.DefaultDelay
	}

	return &Manager{
		sessions: make(map[string]*Session),
		cache:    c,
		defaults: defaults,
		ttl:      ttl,
		delay:    debounceDelay,
		clock:    clock,
	}
}

// Attach возвращает сессию по идентификатору, создавая её при необходимости.
// Пустой sessionID означает новую сессию со свежим UUID.
// Второе возвращаемое значение — true, если сессия создана этим вызовом.
func (m *Manager) Attach(ctx context.Context, sessionID string) (*Session, bool, error) {
	const op = "session.Manager.Attach"

	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			return nil, false, fmt.Errorf("%s: parse session id: %w", op, apierrors.ErrInvalidArgument)
		}
	}

	m.mu.Lock()
	if sessionID != "" {
		if sess, ok := m.sessions[sessionID]; ok {
			m.mu.Unlock()
			return sess, false, nil
		}
	}
	m.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	st := state.New(m.defaults)
	if err := m.hydrate(ctx, sessionID, st); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	sess := &Session{ID: sessionID, State: st}
	sess.Search = search.NewDebouncer(m.clock, m.delay, func(text string) {
		st.SetSearchQuery(text)

		pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := m.Persist(pctx, sess); err != nil {
			log.From(pctx).Warn("session_persist_failed",
				"session_id", sess.ID, "err", err)
		}
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[sessionID]; ok {
		sess.Search.Stop()
		return existing, false, nil
	}

	m.sessions[sessionID] = sess

	return sess, true, nil
}

// hydrate наполняет состояние сохранённым представлением из кэша.
// Отсутствие записи или битый blob — не ошибка: состояние гидрируется
// дефолтами, запросы после этого разрешены.
func (m *Manager) hydrate(ctx context.Context, sessionID string, st *state.FilterState) error {
	blob, found, err := m.cache.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	if !found {
		st.HydrateDefaults()
		return nil
	}

	persisted, err := state.DecodePersisted(blob)
	if err != nil {
		log.From(ctx).Warn("session_state_corrupted",
			"session_id", sessionID, "err", err)
		st.HydrateDefaults()
		return nil
	}

	st.Hydrate(persisted)

	return nil
}

// Persist сохраняет текущее состояние сессии в кэш с TTL менеджера.
func (m *Manager) Persist(ctx context.Context, sess *Session) error {
	const op = "session.Manager.Persist"

	blob, err := state.EncodePersisted(sess.State.Persisted())
	if err != nil {
		return fmt.Errorf("%s: encode state: %w", op, err)
	}

	if err := m.cache.Save(ctx, sess.ID, blob, m.ttl); err != nil {
		return fmt.Errorf("%s: save state: %w", op, err)
	}

	return nil
}

// Drop удаляет сессию из памяти и из кэша.
func (m *Manager) Drop(ctx context.Context, sessionID string) error {
	const op = "session.Manager.Drop"

	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if ok {
		sess.Search.Stop()
	}

	if err := m.cache.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close останавливает debouncer'ы всех живых сессий.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sess := range m.sessions {
		sess.Search.Stop()
	}

	m.sessions = make(map[string]*Session)
}
