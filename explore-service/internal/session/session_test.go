package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apierrors "github.com/pribylovaa/go-crowdfunding/explore-service/internal/errors"
	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/explore-service/mocks"
)

const testTTL = time.Hour

func newTestManager(t *testing.T) (*Manager, *mocks.MockStateCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cache := mocks.NewMockStateCache(ctrl)
	m := NewManager(cache, state.Defaults{PageSize: 9}, testTTL, time.Millisecond, nil)
	t.Cleanup(m.Close)

	return m, cache
}

func TestAttach_MintsSessionID(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	cache.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil)

	sess, created, err := m.Attach(context.Background(), "")
	require.NoError(t, err)
	require.True(t, created)

	_, err = uuid.Parse(sess.ID)
	require.NoError(t, err)

	// Новой сессии нечего загружать: она гидрирована дефолтами.
	require.True(t, sess.State.HasHydrated())
	require.Equal(t, 9, sess.State.Snapshot().PageSize)
}

func TestAttach_ReturnsLiveSessionWithoutReload(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	cache.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(1)

	first, created, err := m.Attach(context.Background(), "")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := m.Attach(context.Background(), first.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Same(t, first, second)
}

func TestAttach_HydratesFromCache(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	id := uuid.NewString()

	blob, err := state.EncodePersisted(state.Persisted{
		Favorites: []string{"c-1", "c-2"},
		ViewMode:  state.ViewMap,
		Search:    "river",
		Page:      3,
		PageSize:  12,
	})
	require.NoError(t, err)

	cache.EXPECT().Load(gomock.Any(), id).Return(blob, true, nil)

	sess, created, err := m.Attach(context.Background(), id)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, id, sess.ID)

	snap := sess.State.Snapshot()
	require.True(t, snap.Hydrated)
	require.Equal(t, []string{"c-1", "c-2"}, snap.Favorites)
	require.Equal(t, state.ViewMap, snap.ViewMode)
	require.Equal(t, "river", snap.Search)
	require.Equal(t, 3, snap.Page)
	require.Equal(t, 12, snap.PageSize)
}

func TestAttach_CorruptedBlobFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	id := uuid.NewString()
	cache.EXPECT().Load(gomock.Any(), id).Return([]byte("{broken"), true, nil)

	sess, _, err := m.Attach(context.Background(), id)
	require.NoError(t, err)
	require.True(t, sess.State.HasHydrated())
	require.Empty(t, sess.State.Snapshot().Favorites)
}

func TestAttach_InvalidSessionID(t *testing.T) {
	t.Parallel()

	m, _ := newTestManager(t)

	_, _, err := m.Attach(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, apierrors.ErrInvalidArgument)
}

func TestAttach_CacheFailure(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	id := uuid.NewString()
	cache.EXPECT().Load(gomock.Any(), id).Return(nil, false, errors.New("redis down"))

	_, _, err := m.Attach(context.Background(), id)
	require.Error(t, err)
}

func TestPersist_SavesEncodedStateWithTTL(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	cache.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil)

	sess, _, err := m.Attach(context.Background(), "")
	require.NoError(t, err)

	sess.State.SetSearchQuery("clean water")
	sess.State.ToggleFavorite("c-1")

	cache.EXPECT().
		Save(gomock.Any(), sess.ID, gomock.Any(), testTTL).
		DoAndReturn(func(_ context.Context, _ string, blob []byte, _ time.Duration) error {
			p, err := state.DecodePersisted(blob)
			require.NoError(t, err)
			require.Equal(t, "clean water", p.Search)
			require.Equal(t, []string{"c-1"}, p.Favorites)
			return nil
		})

	require.NoError(t, m.Persist(context.Background(), sess))
}

func TestSearchDebounce_AppliesValueAndPersists(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	cache.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil)

	sess, _, err := m.Attach(context.Background(), "")
	require.NoError(t, err)

	saved := make(chan state.Persisted, 1)
	cache.EXPECT().
		Save(gomock.Any(), sess.ID, gomock.Any(), testTTL).
		DoAndReturn(func(_ context.Context, _ string, blob []byte, _ time.Duration) error {
			p, err := state.DecodePersisted(blob)
			require.NoError(t, err)
			saved <- p
			return nil
		})

	sess.Search.Set("  mountain spring ")

	select {
	case p := <-saved:
		require.Equal(t, "mountain spring", p.Search)
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search was not persisted")
	}

	require.Equal(t, "mountain spring", sess.State.Snapshot().Search)
	require.Equal(t, 1, sess.State.Snapshot().Page)
}

func TestDrop_RemovesSessionAndCacheEntry(t *testing.T) {
	t.Parallel()

	m, cache := newTestManager(t)
	cache.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(2)

	sess, _, err := m.Attach(context.Background(), "")
	require.NoError(t, err)

	cache.EXPECT().Delete(gomock.Any(), sess.ID).Return(nil)
	require.NoError(t, m.Drop(context.Background(), sess.ID))

	// Повторный Attach по тому же ID создаёт сессию заново.
	again, created, err := m.Attach(context.Background(), sess.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.NotSame(t, sess, again)
}
