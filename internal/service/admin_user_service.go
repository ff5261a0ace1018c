package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
)

const maxUserPage = 100

type AdminUserService interface {
	ListUsers(ctx context.Context, query string, limit, offset int) (*dto.PageDTO[dto.AdminUserDTO], error)
	GetUser(ctx context.Context, id string) (*dto.AdminUserDTO, error)
	UpdateUser(ctx context.Context, id string, req dto.UserUpdateDTO) (*dto.AdminUserDTO, error)
	GrantMembership(ctx context.Context, id string, req dto.GrantMembershipDTO) (*dto.AdminUserDTO, error)
}

type adminUserService struct {
	userRepo   repository.UserRepository
	planRepo   repository.PlanRepository
	membership MembershipService
	eval       *evaluator.Evaluator
}

func NewAdminUserService(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	membership MembershipService,
	eval *evaluator.Evaluator,
) AdminUserService {
	return &adminUserService{userRepo: userRepo, planRepo: planRepo, membership: membership, eval: eval}
}

func (s *adminUserService) ListUsers(ctx context.Context, query string, limit, offset int) (*dto.PageDTO[dto.AdminUserDTO], error) {
	if limit <= 0 || limit > maxUserPage {
		limit = maxUserPage
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.userRepo.List(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	page := &dto.PageDTO[dto.AdminUserDTO]{Items: make([]dto.AdminUserDTO, 0, len(users)), Total: total, Limit: limit, Offset: offset}
	for i := range users {
		page.Items = append(page.Items, *s.userDTO(&users[i]))
	}
	return page, nil
}

func (s *adminUserService) GetUser(ctx context.Context, id string) (*dto.AdminUserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	return s.userDTO(user), nil
}

func (s *adminUserService) UpdateUser(ctx context.Context, id string, req dto.UserUpdateDTO) (*dto.AdminUserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		switch *req.Role {
		case model.RoleUser, model.RoleAdmin:
			user.Role = *req.Role
		default:
			return nil, invalid("unknown role %q", *req.Role)
		}
	}
	if req.Blocked != nil {
		user.Blocked = *req.Blocked
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	log.Info().Str("userID", id).Str("role", user.Role).Bool("blocked", user.Blocked).Msg("User updated")
	return s.userDTO(user), nil
}

func (s *adminUserService) GrantMembership(ctx context.Context, id string, req dto.GrantMembershipDTO) (*dto.AdminUserDTO, error) {
	plan, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan %d: %w", req.PlanID, err)
	}
	if _, err := s.membership.Grant(ctx, id, plan, req.Days); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

func (s *adminUserService) userDTO(u *model.User) *dto.AdminUserDTO {
	return &dto.AdminUserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		Blocked:    u.Blocked,
		Membership: membershipStatus(evaluator.ResolveMembership(u.Membership, s.eval.Now()), s.eval.Now()),
		CreatedAt:  u.CreatedAt,
	}
}
