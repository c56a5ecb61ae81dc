package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	paymentrepo "github.com/espeakapp/espeak-backend/internal/data/repos/payment"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

const tradeStatusSuccess = "TRADE_SUCCESS"

type CreateOrderResult struct {
	Payment *types.Payment `json:"payment"`
	PayURL  string         `json:"pay_url"`
}

type NotifyInput struct {
	OutTradeNo  string
	TradeNo     string
	TradeStatus string
	Raw         map[string]string
}

type PaymentService interface {
	CreateOrder(ctx context.Context, tier types.Tier, period string) (*CreateOrderResult, error)
	HandleNotify(ctx context.Context, input NotifyInput) error
	CheckOrder(ctx context.Context, orderID string) (*types.Payment, error)
}

type paymentService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    user.UserRepo
	payments paymentrepo.PaymentRepo

	gatewayPayURL string
	now           func() time.Time
}

func NewPaymentService(db *gorm.DB, baseLog *logger.Logger, users user.UserRepo, payments paymentrepo.PaymentRepo, gatewayPayURL string) PaymentService {
	serviceLog := baseLog.With("service", "PaymentService")
	return &paymentService{
		db:            db,
		log:           serviceLog,
		users:         users,
		payments:      payments,
		gatewayPayURL: gatewayPayURL,
		now:           time.Now,
	}
}

func (ps *paymentService) CreateOrder(ctx context.Context, tier types.Tier, period string) (*CreateOrderResult, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	plan, ok := findPlan(tier, period)
	if !ok {
		return nil, fmt.Errorf("%w: unknown plan %s/%s", apperr.ErrInvalidArgument, tier, period)
	}

	orderID, err := ps.newOrderID(userID)
	if err != nil {
		return nil, err
	}

	created, err := ps.payments.Create(ctx, nil, []*types.Payment{
		{
			ID:               uuid.New(),
			UserID:           userID,
			OrderID:          orderID,
			SubscriptionTier: string(plan.Tier),
			Amount:           plan.Price,
			Months:           plan.Months,
			Status:           types.PaymentPending,
		},
	})
	if err != nil {
		return nil, err
	}

	payURL := ps.gatewayPayURL
	if payURL != "" {
		payURL = fmt.Sprintf("%s?out_trade_no=%s&total_amount=%.2f", payURL, url.QueryEscape(orderID), plan.Price)
	}

	ps.log.Info("Payment order created", "order_id", orderID, "tier", plan.Tier, "amount", plan.Price)
	return &CreateOrderResult{Payment: created[0], PayURL: payURL}, nil
}

// HandleNotify processes a gateway callback. Replays of an already
// completed order are acknowledged without reapplying the subscription.
func (ps *paymentService) HandleNotify(ctx context.Context, input NotifyInput) error {
	if input.OutTradeNo == "" {
		return fmt.Errorf("%w: missing out_trade_no", apperr.ErrInvalidArgument)
	}

	p, err := ps.payments.GetByOrderID(ctx, nil, input.OutTradeNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown order %s", apperr.ErrNotFound, input.OutTradeNo)
		}
		return err
	}
	if p.Status == types.PaymentCompleted {
		return nil
	}

	payload, err := json.Marshal(input.Raw)
	if err != nil {
		return err
	}

	if input.TradeStatus != tradeStatusSuccess {
		p.Status = types.PaymentFailed
		p.GatewayTradeNo = input.TradeNo
		p.GatewayPayload = datatypes.JSON(payload)
		return ps.payments.Save(ctx, nil, p)
	}

	now := ps.now().UTC()
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paidAt := now
		p.Status = types.PaymentCompleted
		p.GatewayTradeNo = input.TradeNo
		p.GatewayPayload = datatypes.JSON(payload)
		p.PaidAt = &paidAt
		if err := ps.payments.Save(ctx, tx, p); err != nil {
			return err
		}

		u, err := loadUser(ctx, tx, ps.users, p.UserID)
		if err != nil {
			return err
		}

		if p.Months == 0 {
			return ps.users.UpdateSubscription(ctx, tx, u.ID, string(types.TierLifetime), u.SubscriptionExpiresAt, true)
		}

		// Extend from the current expiry when it is still in the future,
		// otherwise from now.
		base := now
		if u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.After(now) {
			base = *u.SubscriptionExpiresAt
		}
		expires := base.AddDate(0, p.Months, 0)
		return ps.users.UpdateSubscription(ctx, tx, u.ID, p.SubscriptionTier, &expires, u.LifetimeMember)
	})
}

func (ps *paymentService) CheckOrder(ctx context.Context, orderID string) (*types.Payment, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := ps.payments.GetByOrderID(ctx, nil, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown order %s", apperr.ErrNotFound, orderID)
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, fmt.Errorf("%w: order belongs to another user", apperr.ErrForbidden)
	}
	return p, nil
}

func (ps *paymentService) newOrderID(userID uuid.UUID) (string, error) {
	nonce := make([]byte, 4)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	short := strings.ReplaceAll(userID.String(), "-", "")[:8]
	return fmt.Sprintf("ESP%d%s%s", ps.now().UTC().Unix(), short, hex.EncodeToString(nonce)), nil
}

func findPlan(tier types.Tier, period string) (Plan, bool) {
	for _, p := range pricingPlans() {
		if p.Tier == tier && p.Period == period {
			return p, true
		}
	}
	return Plan{}, false
}
