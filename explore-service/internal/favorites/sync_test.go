package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-crowdfunding/explore-service/internal/state"
	"github.com/pribylovaa/go-crowdfunding/explore-service/mocks"
)

const (
	testOwner    = "6f1f7bb2-6c2e-45ca-b21b-2dd8a06ae8a4"
	testCampaign = "c-1"
)

func TestToggle_AddConfirmed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	st := state.New(state.Defaults{})
	sync := NewSynchronizer(client)

	// Локальный флип применяется до сетевого вызова.
	client.EXPECT().
		AddFavorite(gomock.Any(), testOwner, testCampaign).
		DoAndReturn(func(context.Context, string, string) error {
			require.True(t, st.IsFavorite(testCampaign))
			return nil
		})

	nowFavorite, err := sync.Toggle(context.Background(), st, testOwner, testCampaign)
	require.NoError(t, err)
	require.True(t, nowFavorite)
	require.True(t, st.IsFavorite(testCampaign))
	require.Equal(t, int64(1), sync.Generation())
}

func TestToggle_RemoveConfirmed(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	st := state.New(state.Defaults{})
	st.ToggleFavorite(testCampaign)
	sync := NewSynchronizer(client)

	client.EXPECT().
		RemoveFavorite(gomock.Any(), testOwner, testCampaign).
		Return(nil)

	nowFavorite, err := sync.Toggle(context.Background(), st, testOwner, testCampaign)
	require.NoError(t, err)
	require.False(t, nowFavorite)
	require.False(t, st.IsFavorite(testCampaign))
}

func TestToggle_RollbackOnRemoteFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	st := state.New(state.Defaults{})
	sync := NewSynchronizer(client)

	remoteErr := errors.New("connection reset")
	client.EXPECT().
		AddFavorite(gomock.Any(), testOwner, testCampaign).
		Return(remoteErr)

	nowFavorite, err := sync.Toggle(context.Background(), st, testOwner, testCampaign)
	require.ErrorIs(t, err, remoteErr)

	// Компенсация — точная инверсия: состояние вернулось к исходному.
	require.False(t, nowFavorite)
	require.False(t, st.IsFavorite(testCampaign))
	require.Empty(t, st.Snapshot().Favorites)

	// Оба флипа (оптимистичный и откат) инвалидируют запросы выдачи.
	require.Equal(t, int64(2), sync.Generation())
}

func TestToggle_RollbackPreservesOtherFavorites(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	st := state.New(state.Defaults{})
	st.ToggleFavorite("c-keep-1")
	st.ToggleFavorite("c-keep-2")
	sync := NewSynchronizer(client)

	client.EXPECT().
		AddFavorite(gomock.Any(), testOwner, testCampaign).
		Return(errors.New("unavailable"))

	_, err := sync.Toggle(context.Background(), st, testOwner, testCampaign)
	require.Error(t, err)

	require.Equal(t, []string{"c-keep-1", "c-keep-2"}, st.Snapshot().Favorites)
}

func TestToggle_DoubleToggleNetsOriginalState(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	st := state.New(state.Defaults{})
	sync := NewSynchronizer(client)

	client.EXPECT().AddFavorite(gomock.Any(), testOwner, testCampaign).Return(nil)
	client.EXPECT().RemoveFavorite(gomock.Any(), testOwner, testCampaign).Return(nil)

	nowFavorite, err := sync.Toggle(context.Background(), st, testOwner, testCampaign)
	require.NoError(t, err)
	require.True(t, nowFavorite)

	nowFavorite, err = sync.Toggle(context.Background(), st, testOwner, testCampaign)
	require.NoError(t, err)
	require.False(t, nowFavorite)
	require.Empty(t, st.Snapshot().Favorites)
	require.Equal(t, int64(2), sync.Generation())
}
