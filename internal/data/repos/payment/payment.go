package payment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type PaymentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, payments []*types.Payment) ([]*types.Payment, error)
	GetByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*types.Payment, error)
	Save(ctx context.Context, tx *gorm.DB, payment *types.Payment) error
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Payment, error)
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	repoLog := baseLog.With("repo", "PaymentRepo")
	return &paymentRepo{db: db, log: repoLog}
}

func (pr *paymentRepo) Create(ctx context.Context, tx *gorm.DB, payments []*types.Payment) ([]*types.Payment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(payments) == 0 {
		return []*types.Payment{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (pr *paymentRepo) GetByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*types.Payment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Payment
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *paymentRepo) Save(ctx context.Context, tx *gorm.DB, payment *types.Payment) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(payment).Error
}

func (pr *paymentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Payment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Payment
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
