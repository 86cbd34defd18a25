package service

import (
	"context"
	"testing"

	"github.com/opentransit/stationwatch/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &FavoriteService{Store: st}

	user := seedUser(t, st, "rider", "rider@example.com")
	station := seedStation(t, st, "Grand Central-42 St")

	status, err := svc.ToggleFavorite(ctx, user.ID, station.ID)
	require.NoError(t, err)
	require.Equal(t, FavoriteAdded, status)

	favorited, err := svc.IsFavorite(ctx, user.ID, station.ID)
	require.NoError(t, err)
	require.True(t, favorited)

	status, err = svc.ToggleFavorite(ctx, user.ID, station.ID)
	require.NoError(t, err)
	require.Equal(t, FavoriteRemoved, status)

	favorited, err = svc.IsFavorite(ctx, user.ID, station.ID)
	require.NoError(t, err)
	require.False(t, favorited)
}

func TestToggleFavoriteUnknownStation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &FavoriteService{Store: st}

	user := seedUser(t, st, "rider", "rider@example.com")

	_, err := svc.ToggleFavorite(ctx, user.ID, idx.New().String())
	require.ErrorIs(t, err, ErrStationNotFound)
}

func TestListFavorites(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	favorites := &FavoriteService{Store: st}
	reports := &ReportService{Store: st}

	user := seedUser(t, st, "rider", "rider@example.com")
	first := seedStation(t, st, "Canal St")
	second := seedStation(t, st, "Bowling Green")
	unfavorited := seedStation(t, st, "Rector St")

	_, err := favorites.ToggleFavorite(ctx, user.ID, first.ID)
	require.NoError(t, err)
	_, err = favorites.ToggleFavorite(ctx, user.ID, second.ID)
	require.NoError(t, err)

	// Five reports on the first station; listings attach only the few most
	// recent ones.
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		_, err := reports.CreateReport(ctx, user.ID, first.ID, content, false)
		require.NoError(t, err)
	}
	_, err = reports.CreateReport(ctx, user.ID, unfavorited.ID, "elsewhere", true)
	require.NoError(t, err)

	list, err := favorites.ListFavorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Newest favorite first.
	require.Equal(t, second.ID, list[0].StationID)
	require.NotNil(t, list[0].Station)
	require.Equal(t, "Bowling Green", list[0].Station.Name)
	require.Empty(t, list[0].Reports)

	require.Equal(t, first.ID, list[1].StationID)
	require.Len(t, list[1].Reports, 3)
	require.Equal(t, "five", list[1].Reports[0].Content)
}
