package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
)

// AdminContentService manages the home screen banners and outgoing notifications.
type AdminContentService interface {
	ListBanners(ctx context.Context) ([]dto.BannerDTO, error)
	CreateBanner(ctx context.Context, req dto.BannerUpsertDTO) (*dto.BannerDTO, error)
	UpdateBanner(ctx context.Context, id uint, req dto.BannerUpsertDTO) (*dto.BannerDTO, error)
	DeleteBanner(ctx context.Context, id uint) error
	CreateNotification(ctx context.Context, req dto.NotificationCreateDTO) (*dto.NotificationDTO, error)
}

type adminContentService struct {
	bannerRepo       repository.BannerRepository
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewAdminContentService(
	bannerRepo repository.BannerRepository,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) AdminContentService {
	return &adminContentService{bannerRepo: bannerRepo, notificationRepo: notificationRepo, userRepo: userRepo}
}

func (s *adminContentService) ListBanners(ctx context.Context) ([]dto.BannerDTO, error) {
	banners, err := s.bannerRepo.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	out := make([]dto.BannerDTO, 0, len(banners))
	for i := range banners {
		out = append(out, bannerDTO(&banners[i]))
	}
	return out, nil
}

func (s *adminContentService) CreateBanner(ctx context.Context, req dto.BannerUpsertDTO) (*dto.BannerDTO, error) {
	banner := model.Banner{Active: true}
	applyBanner(&banner, req)
	if banner.ImageURL == "" {
		return nil, invalid("image_url is required")
	}
	if err := s.bannerRepo.Create(ctx, &banner); err != nil {
		return nil, fmt.Errorf("create banner: %w", err)
	}
	out := bannerDTO(&banner)
	return &out, nil
}

func (s *adminContentService) UpdateBanner(ctx context.Context, id uint, req dto.BannerUpsertDTO) (*dto.BannerDTO, error) {
	banner, err := s.bannerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("banner %d: %w", id, err)
	}
	applyBanner(banner, req)
	if banner.ImageURL == "" {
		return nil, invalid("image_url is required")
	}
	if err := s.bannerRepo.Update(ctx, banner); err != nil {
		return nil, fmt.Errorf("update banner %d: %w", id, err)
	}
	out := bannerDTO(banner)
	return &out, nil
}

func (s *adminContentService) DeleteBanner(ctx context.Context, id uint) error {
	if err := s.bannerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete banner %d: %w", id, err)
	}
	return nil
}

func (s *adminContentService) CreateNotification(ctx context.Context, req dto.NotificationCreateDTO) (*dto.NotificationDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	userID := strings.TrimSpace(req.UserID)
	if userID != "" {
		if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
			return nil, fmt.Errorf("user %s: %w", userID, err)
		}
	}
	n := &model.Notification{UserID: userID, Title: title, Body: req.Body}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return &dto.NotificationDTO{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Broadcast: n.UserID == "",
		CreatedAt: n.CreatedAt,
	}, nil
}

func applyBanner(b *model.Banner, req dto.BannerUpsertDTO) {
	b.Title = strings.TrimSpace(req.Title)
	b.ImageURL = strings.TrimSpace(req.ImageURL)
	b.LinkURL = strings.TrimSpace(req.LinkURL)
	b.Position = req.Position
	if req.Active != nil {
		b.Active = *req.Active
	}
}

func bannerDTO(b *model.Banner) dto.BannerDTO {
	return dto.BannerDTO{
		ID:       b.ID,
		Title:    b.Title,
		ImageURL: b.ImageURL,
		LinkURL:  b.LinkURL,
		Position: b.Position,
		Active:   b.Active,
	}
}
