package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/evaluator"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/payment"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type PurchaseService interface {
	// Start creates a pending purchase for planID and opens a checkout for it.
	Start(ctx context.Context, subject Subject, planID uint) (*dto.PurchaseStartDTO, error)
	// HandleCallback settles a pending purchase from the message the checkout page
	// relayed. Only a successful payment touches the buyer's membership.
	HandleCallback(ctx context.Context, subject Subject, orderID string, raw []byte) (*dto.PurchaseDTO, error)
	List(ctx context.Context, subject Subject) ([]dto.PurchaseDTO, error)
}

type purchaseService struct {
	db               *gorm.DB
	purchaseRepo     repository.PurchaseRepository
	planRepo         repository.PlanRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	checkout         payment.Checkout
	eval             *evaluator.Evaluator
}

func NewPurchaseService(
	db *gorm.DB,
	purchaseRepo repository.PurchaseRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	checkout payment.Checkout,
	eval *evaluator.Evaluator,
) PurchaseService {
	return &purchaseService{
		db:               db,
		purchaseRepo:     purchaseRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		checkout:         checkout,
		eval:             eval,
	}
}

func (s *purchaseService) Start(ctx context.Context, subject Subject, planID uint) (*dto.PurchaseStartDTO, error) {
	if subject.Guest {
		return nil, fmt.Errorf("%w: sign in to buy a membership", ErrForbidden)
	}
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("plan %d: %w", planID, err)
	}
	if !plan.Active {
		return nil, invalid("plan %d is not on sale", planID)
	}

	purchase := &model.Purchase{
		ID:     uuid.NewString(),
		UserID: subject.ID,
		PlanID: plan.ID,
		Amount: plan.Price,
		Status: model.PurchasePending,
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		log.Error().Err(err).Str("userID", subject.ID).Uint("planID", planID).Msg("Failed to create purchase")
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	session, err := s.checkout.Start(ctx, payment.Order{
		ID:          purchase.ID,
		Amount:      purchase.Amount,
		Description: plan.Name,
		UserID:      subject.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("purchaseID", purchase.ID).Msg("Failed to start checkout")
		if _, serr := s.purchaseRepo.Settle(ctx, purchase.ID, model.PurchaseFailed, "", err.Error(), s.eval.Now()); serr != nil {
			log.Error().Err(serr).Str("purchaseID", purchase.ID).Msg("Failed to mark purchase failed")
		}
		return nil, fmt.Errorf("%w: checkout could not be started", ErrUnavailable)
	}

	log.Info().Str("purchaseID", purchase.ID).Str("userID", subject.ID).Uint("planID", plan.ID).Msg("Checkout started")
	return &dto.PurchaseStartDTO{
		PurchaseID: purchase.ID,
		Amount:     purchase.Amount,
		Plan:       *planDTO(plan),
		Checkout:   session,
	}, nil
}

func (s *purchaseService) HandleCallback(ctx context.Context, subject Subject, orderID string, raw []byte) (*dto.PurchaseDTO, error) {
	if subject.Guest {
		return nil, ErrForbidden
	}
	purchase, err := s.purchaseRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("purchase %s: %w", orderID, err)
	}
	if purchase.UserID != subject.ID {
		return nil, fmt.Errorf("purchase %s: %w", orderID, ErrNotFound)
	}
	if purchase.Status != model.PurchasePending {
		return nil, fmt.Errorf("%w: purchase %s is already %s", ErrConflict, orderID, purchase.Status)
	}

	result, err := payment.ParseCallback(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.eval.Now()
	switch result.Outcome {
	case payment.OutcomeSuccess:
		err = s.settlePaid(ctx, purchase, result.Receipt)
	case payment.OutcomeCancel:
		err = s.settle(ctx, s.purchaseRepo, purchase.ID, model.PurchaseCancelled, "", "cancelled by user")
	default:
		err = s.settle(ctx, s.purchaseRepo, purchase.ID, model.PurchaseFailed, result.Receipt.PaymentID, result.Reason)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("purchaseID", orderID).Str("outcome", string(result.Outcome)).Time("at", now).Msg("Purchase settled")

	settled, err := s.purchaseRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload purchase: %w", err)
	}
	return purchaseDTO(settled), nil
}

// settlePaid marks the purchase paid and writes the membership in one transaction.
func (s *purchaseService) settlePaid(ctx context.Context, purchase *model.Purchase, receipt payment.Receipt) error {
	plan := purchase.Plan
	if plan == nil {
		p, err := s.planRepo.FindByID(ctx, purchase.PlanID)
		if err != nil {
			return fmt.Errorf("plan %d: %w", purchase.PlanID, err)
		}
		plan = p
	}

	m, doc, err := newMembership(plan, s.eval.Now(), 0)
	if err != nil {
		return err
	}
	m.Amount = purchase.Amount

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.settle(ctx, s.purchaseRepo.WithTx(tx), purchase.ID, model.PurchasePaid, receipt.PaymentID, ""); err != nil {
			return err
		}
		return s.userRepo.WithTx(tx).SetMembership(ctx, purchase.UserID, doc)
	})
	if err != nil {
		log.Error().Err(err).Str("purchaseID", purchase.ID).Msg("Failed to settle paid purchase")
		return err
	}

	note := &model.Notification{
		UserID: purchase.UserID,
		Title:  "Membership activated",
		Body:   fmt.Sprintf("Your %s membership is active until %s.", plan.Name, m.EndDate.Format("2 Jan 2006")),
	}
	if err := s.notificationRepo.Create(ctx, note); err != nil {
		log.Warn().Err(err).Str("userID", purchase.UserID).Msg("Failed to create membership notification")
	}
	return nil
}

func (s *purchaseService) settle(ctx context.Context, repo repository.PurchaseRepository, id, status, paymentID, reason string) error {
	ok, err := repo.Settle(ctx, id, status, paymentID, reason, s.eval.Now())
	if err != nil {
		return fmt.Errorf("settle purchase %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: purchase %s is no longer pending", ErrConflict, id)
	}
	return nil
}

func (s *purchaseService) List(ctx context.Context, subject Subject) ([]dto.PurchaseDTO, error) {
	if subject.Guest {
		return []dto.PurchaseDTO{}, nil
	}
	purchases, err := s.purchaseRepo.FindByUser(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	out := make([]dto.PurchaseDTO, 0, len(purchases))
	for i := range purchases {
		out = append(out, *purchaseDTO(&purchases[i]))
	}
	return out, nil
}

func purchaseDTO(p *model.Purchase) *dto.PurchaseDTO {
	out := &dto.PurchaseDTO{
		ID:            p.ID,
		PlanID:        p.PlanID,
		Amount:        p.Amount,
		Status:        p.Status,
		PaymentID:     p.PaymentID,
		FailureReason: p.FailureReason,
		SettledAt:     p.SettledAt,
		CreatedAt:     p.CreatedAt,
	}
	if p.Plan != nil {
		out.PlanName = p.Plan.Name
	}
	return out
}

