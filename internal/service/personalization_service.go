package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const notificationLimit = 50

type PersonalizationService interface {
	FavoriteIDs(ctx context.Context, subject Subject) ([]uint, error)
	AddFavorite(ctx context.Context, subject Subject, testID uint) (*dto.FavoritesDTO, error)
	RemoveFavorite(ctx context.Context, subject Subject, testID uint) (*dto.FavoritesDTO, error)
	Theme(ctx context.Context, subject Subject) (*dto.ThemeDTO, error)
	SetTheme(ctx context.Context, subject Subject, theme string) (*dto.ThemeDTO, error)
	Notifications(ctx context.Context, subject Subject) ([]dto.NotificationDTO, error)
}

type personalizationService struct {
	favoriteRepo     repository.FavoriteRepository
	testRepo         repository.TestRepository
	notificationRepo repository.NotificationRepository
	store            kvstore.Store
}

func NewPersonalizationService(
	favoriteRepo repository.FavoriteRepository,
	testRepo repository.TestRepository,
	notificationRepo repository.NotificationRepository,
	store kvstore.Store,
) PersonalizationService {
	return &personalizationService{
		favoriteRepo:     favoriteRepo,
		testRepo:         testRepo,
		notificationRepo: notificationRepo,
		store:            store,
	}
}

func favoritesKey(subject Subject) string { return "favorites:" + subject.ID }

func themeKey(subject Subject) string { return "theme:" + subject.ID }

func (s *personalizationService) FavoriteIDs(ctx context.Context, subject Subject) ([]uint, error) {
	raw, ok, err := s.store.Get(ctx, favoritesKey(subject))
	if err != nil {
		log.Warn().Err(err).Str("subject", subject.ID).Msg("Favorites cache unavailable, reading database")
	}
	if ok {
		var ids []uint
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			return ids, nil
		}
		log.Warn().Str("subject", subject.ID).Msg("Discarding malformed favorites cache entry")
	}
	return s.refreshFavorites(ctx, subject)
}

func (s *personalizationService) AddFavorite(ctx context.Context, subject Subject, testID uint) (*dto.FavoritesDTO, error) {
	if _, err := s.testRepo.FindByID(ctx, testID); err != nil {
		return nil, fmt.Errorf("test %d: %w", testID, err)
	}
	if err := s.favoriteRepo.Add(ctx, subject.ID, testID); err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	ids, err := s.refreshFavorites(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &dto.FavoritesDTO{TestIDs: ids}, nil
}

func (s *personalizationService) RemoveFavorite(ctx context.Context, subject Subject, testID uint) (*dto.FavoritesDTO, error) {
	if err := s.favoriteRepo.Remove(ctx, subject.ID, testID); err != nil {
		return nil, fmt.Errorf("remove favorite: %w", err)
	}
	ids, err := s.refreshFavorites(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &dto.FavoritesDTO{TestIDs: ids}, nil
}

// refreshFavorites reloads the list from the database and rewrites the cache entry.
// A cache write failure is only logged.
func (s *personalizationService) refreshFavorites(ctx context.Context, subject Subject) ([]uint, error) {
	ids, err := s.favoriteRepo.ListTestIDs(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if ids == nil {
		ids = []uint{}
	}
	raw, _ := json.Marshal(ids)
	if err := s.store.Set(ctx, favoritesKey(subject), string(raw)); err != nil {
		log.Warn().Err(err).Str("subject", subject.ID).Msg("Failed to cache favorites")
	}
	return ids, nil
}

func (s *personalizationService) Theme(ctx context.Context, subject Subject) (*dto.ThemeDTO, error) {
	raw, ok, err := s.store.Get(ctx, themeKey(subject))
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	if !ok || !validTheme(raw) {
		return &dto.ThemeDTO{Theme: dto.ThemeSystem}, nil
	}
	return &dto.ThemeDTO{Theme: raw}, nil
}

func (s *personalizationService) SetTheme(ctx context.Context, subject Subject, theme string) (*dto.ThemeDTO, error) {
	if !validTheme(theme) {
		return nil, invalid("unknown theme %q", theme)
	}
	if err := s.store.Set(ctx, themeKey(subject), theme); err != nil {
		return nil, fmt.Errorf("store theme: %w", err)
	}
	return &dto.ThemeDTO{Theme: theme}, nil
}

func (s *personalizationService) Notifications(ctx context.Context, subject Subject) ([]dto.NotificationDTO, error) {
	items, err := s.notificationRepo.FindForUser(ctx, subject.ID, notificationLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]dto.NotificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NotificationDTO{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			Broadcast: n.UserID == "",
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

func validTheme(theme string) bool {
	switch theme {
	case dto.ThemeLight, dto.ThemeDark, dto.ThemeSystem:
		return true
	}
	return false
}
