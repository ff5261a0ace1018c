package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type MembershipService interface {
	// Current resolves the caller's membership. Guests have none.
	Current(ctx context.Context, subject Subject) (*evaluator.Membership, error)
	Status(ctx context.Context, subject Subject) (*dto.MembershipStatusDTO, error)
	// Grant starts a membership for plan now, replacing any previous one. days overrides
	// the plan's duration when positive.
	Grant(ctx context.Context, userID string, plan *model.Plan, days int) (*evaluator.Membership, error)
}

type membershipService struct {
	userRepo repository.UserRepository
	eval     *evaluator.Evaluator
}

func NewMembershipService(userRepo repository.UserRepository, eval *evaluator.Evaluator) MembershipService {
	return &membershipService{userRepo: userRepo, eval: eval}
}

func (s *membershipService) Current(ctx context.Context, subject Subject) (*evaluator.Membership, error) {
	if subject.Guest {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", subject.ID, err)
	}
	return evaluator.ResolveMembership(user.Membership, s.eval.Now()), nil
}

func (s *membershipService) Status(ctx context.Context, subject Subject) (*dto.MembershipStatusDTO, error) {
	m, err := s.Current(ctx, subject)
	if err != nil {
		return nil, err
	}
	return membershipStatus(m, s.eval.Now()), nil
}

func (s *membershipService) Grant(ctx context.Context, userID string, plan *model.Plan, days int) (*evaluator.Membership, error) {
	m, doc, err := newMembership(plan, s.eval.Now(), days)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetMembership(ctx, userID, doc); err != nil {
		return nil, fmt.Errorf("store membership for %s: %w", userID, err)
	}
	log.Info().Str("userID", userID).Uint("planID", plan.ID).Time("endDate", m.EndDate).Msg("Membership granted")
	return m, nil
}

func membershipStatus(m *evaluator.Membership, now time.Time) *dto.MembershipStatusDTO {
	switch {
	case m == nil:
		return &dto.MembershipStatusDTO{Status: dto.MembershipNone}
	case evaluator.IsActive(m, now):
		return &dto.MembershipStatusDTO{Status: dto.MembershipActive, Membership: m}
	default:
		return &dto.MembershipStatusDTO{Status: dto.MembershipExpired, Membership: m}
	}
}

func newMembership(plan *model.Plan, now time.Time, days int) (*evaluator.Membership, datatypes.JSON, error) {
	if days <= 0 {
		days = plan.DurationDays
	}
	if days <= 0 {
		return nil, nil, invalid("plan %d has no duration", plan.ID)
	}
	m := &evaluator.Membership{
		PlanID:    strconv.FormatUint(uint64(plan.ID), 10),
		StartDate: now.UTC(),
		EndDate:   now.UTC().AddDate(0, 0, days),
		Amount:    plan.Price,
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, nil, fmt.Errorf("encode membership: %w", err)
	}
	return m, datatypes.JSON(raw), nil
}
