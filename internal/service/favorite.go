package service

import (
	"context"
	"errors"

	"github.com/opentransit/stationwatch/internal/domain"
	"github.com/opentransit/stationwatch/internal/store"
	"github.com/opentransit/stationwatch/pkg/idx"
)

// Favorite toggle outcomes.
const (
	FavoriteAdded   = "added"
	FavoriteRemoved = "removed"
)

type FavoriteService struct {
	Store store.Store
}

// ToggleFavorite adds the station to the user's favorites, or removes it if
// already favorited. Returns FavoriteAdded or FavoriteRemoved. A concurrent
// double-toggle is settled by the (user, station) uniqueness constraint:
// the losing insert re-reads and reports "added" as well.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, userID, stationID string) (string, error) {
	favorites := s.Store.Favorites()

	existing, err := favorites.GetFavorite(ctx, userID, stationID)
	if err == nil {
		if err := favorites.DeleteFavorite(ctx, existing.ID); err != nil {
			return "", err
		}
		return FavoriteRemoved, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	if _, err := s.Store.Stations().GetStationByID(ctx, stationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrStationNotFound
		}
		return "", err
	}

	err = favorites.CreateFavorite(ctx, domain.Favorite{
		ID:        idx.New().String(),
		UserID:    userID,
		StationID: stationID,
	})
	if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return "", err
	}
	return FavoriteAdded, nil
}

// ListFavorites returns the user's favorites with stations and a few recent
// reports each.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	return s.Store.Favorites().ListFavoritesByUser(ctx, userID)
}

// IsFavorite reports whether the user has favorited the station.
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, stationID string) (bool, error) {
	_, err := s.Store.Favorites().GetFavorite(ctx, userID, stationID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}
