// favorites согласует локально переключённое избранное сессии с удалённым
// хранилищем избранного.
package favorites

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/pkg/log"
)

// Client — контракт удалённого хранилища избранного.
// Операции идемпотентны: повторное добавление и удаление отсутствующего —
// успешный no-op.
type Client interface {
	AddFavorite(ctx context.Context, ownerID, campaignID string) error
	RemoveFavorite(ctx context.Context, ownerID, campaignID string) error
	ListFavorites(ctx context.Context, ownerID string) ([]string, error)
}

// Synchronizer реализует оптимистичное переключение избранного:
// локальный флип применяется синхронно до сетевого вызова, неудача
// компенсируется точным обратным флипом (не перечиткой).
type Synchronizer struct {
	client Client

	// generation растёт при каждом переключении; результаты запросов
	// выдачи, начатых при старом значении, считаются устаревшими.
	generation atomic.Int64
}

// NewSynchronizer создаёт синхронизатор поверх клиента избранного.
func NewSynchronizer(client Client) *Synchronizer {
	return &Synchronizer{client: client}
}

// Generation возвращает текущее поколение инвалидации запросов выдачи.
func (s *Synchronizer) Generation() int64 {
	return s.generation.Load()
}

// Toggle переключает членство кампании в избранном сессии.
//
// Протокол (двухфазный, apply-locally -> confirm-or-compensate):
//  1. локальный флип в контейнере состояния — синхронно, до любого I/O;
//  2. инкремент поколения — запросы выдачи, находящиеся в полёте,
//     считаются устаревшими;
//  3. удалённый вызов add/remove по новому членству;
//  4. при ошибке вызова — точный обратный флип; ошибка наружу не фатальна,
//     UI просто возвращается к прежнему состоянию.
//
// Возвращает итоговое членство. Повторный Toggle до подтверждения первого
// допустим: флип — собственная инверсия, двойное переключение возвращает
// исходное состояние.
func (s *Synchronizer) Toggle(ctx context.Context, st *state.FilterState, ownerID, campaignID string) (bool, error) {
	const op = "favorites.Toggle"

	lg := log.From(ctx).With(
		"op", op,
		"owner_id", ownerID,
		"campaign_id", campaignID,
	)

	nowFavorite := st.ToggleFavorite(campaignID)
	s.generation.Add(1)

	var callErr error
	if nowFavorite {
		callErr = s.client.AddFavorite(ctx, ownerID, campaignID)
	} else {
		callErr = s.client.RemoveFavorite(ctx, ownerID, campaignID)
	}

	if callErr != nil {
		// Компенсация: точная инверсия оптимистичного шага.
		reverted := st.ToggleFavorite(campaignID)
		s.generation.Add(1)

		lg.Warn("toggle_rolled_back",
			"now_favorite", reverted,
			"err", callErr.Error(),
		)

		return reverted, fmt.Errorf("%s: %w", op, callErr)
	}

	return nowFavorite, nil
}
