package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	paymentrepo "github.com/espeakapp/espeak-backend/internal/data/repos/payment"
	"github.com/espeakapp/espeak-backend/internal/data/repos/testutil"
	"github.com/espeakapp/espeak-backend/internal/data/repos/user"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/apperr"
)

func newPaymentEnv(t *testing.T, now time.Time) (*paymentService, user.UserRepo, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	users := user.NewUserRepo(tx, log)
	payments := paymentrepo.NewPaymentRepo(tx, log)
	svc := NewPaymentService(tx, log, users, payments, "https://pay.example.com/gateway").(*paymentService)
	svc.now = func() time.Time { return now }
	return svc, users, tx
}

func TestPaymentMonthlyExtension(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, users, tx := newPaymentEnv(t, now)

	u := testutil.SeedUser(t, context.Background(), tx, "paymonthly")
	ctx := authedCtx(u)

	order, err := svc.CreateOrder(ctx, types.TierBasic, "monthly")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !strings.HasPrefix(order.Payment.OrderID, "ESP") {
		t.Fatalf("unexpected order id %q", order.Payment.OrderID)
	}
	if order.Payment.Amount != 9.9 || order.Payment.Months != 1 {
		t.Fatalf("unexpected plan fields: %+v", order.Payment)
	}
	if !strings.Contains(order.PayURL, order.Payment.OrderID) {
		t.Fatalf("pay url should carry the order id: %q", order.PayURL)
	}

	notify := NotifyInput{
		OutTradeNo:  order.Payment.OrderID,
		TradeNo:     "2025061022001",
		TradeStatus: "TRADE_SUCCESS",
		Raw:         map[string]string{"out_trade_no": order.Payment.OrderID},
	}
	if err := svc.HandleNotify(context.Background(), notify); err != nil {
		t.Fatalf("HandleNotify: %v", err)
	}

	got, err := users.GetByIDs(ctx, nil, []uuid.UUID{u.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("load user: %v", err)
	}
	if got[0].SubscriptionTier != string(types.TierBasic) {
		t.Fatalf("expected basic tier, got %q", got[0].SubscriptionTier)
	}
	wantExpiry := now.AddDate(0, 1, 0)
	if got[0].SubscriptionExpiresAt == nil || !got[0].SubscriptionExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry %v, got %v", wantExpiry, got[0].SubscriptionExpiresAt)
	}

	// A replayed notify must not extend the subscription again.
	if err := svc.HandleNotify(context.Background(), notify); err != nil {
		t.Fatalf("HandleNotify replay: %v", err)
	}
	got, err = users.GetByIDs(ctx, nil, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("load user after replay: %v", err)
	}
	if !got[0].SubscriptionExpiresAt.Equal(wantExpiry) {
		t.Fatalf("replay extended expiry to %v", got[0].SubscriptionExpiresAt)
	}

	checked, err := svc.CheckOrder(ctx, order.Payment.OrderID)
	if err != nil {
		t.Fatalf("CheckOrder: %v", err)
	}
	if checked.Status != types.PaymentCompleted || checked.GatewayTradeNo != "2025061022001" {
		t.Fatalf("unexpected order state: %+v", checked)
	}
}

func TestPaymentStacksOnActiveSubscription(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, users, tx := newPaymentEnv(t, now)

	u := testutil.SeedUser(t, context.Background(), tx, "paystack")
	existing := now.AddDate(0, 0, 10)
	if err := users.UpdateSubscription(context.Background(), tx, u.ID, string(types.TierPremium), &existing, false); err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}
	ctx := authedCtx(u)

	order, err := svc.CreateOrder(ctx, types.TierPremium, "yearly")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := svc.HandleNotify(context.Background(), NotifyInput{
		OutTradeNo:  order.Payment.OrderID,
		TradeNo:     "t1",
		TradeStatus: "TRADE_SUCCESS",
	}); err != nil {
		t.Fatalf("HandleNotify: %v", err)
	}

	got, err := users.GetByIDs(ctx, nil, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	wantExpiry := existing.AddDate(0, 12, 0)
	if got[0].SubscriptionExpiresAt == nil || !got[0].SubscriptionExpiresAt.Equal(wantExpiry) {
		t.Fatalf("expected expiry stacked to %v, got %v", wantExpiry, got[0].SubscriptionExpiresAt)
	}
}

func TestPaymentLifetime(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, users, tx := newPaymentEnv(t, now)

	u := testutil.SeedUser(t, context.Background(), tx, "paylifetime")
	ctx := authedCtx(u)

	order, err := svc.CreateOrder(ctx, types.TierLifetime, "lifetime")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Payment.Months != 0 || order.Payment.Amount != 199 {
		t.Fatalf("unexpected lifetime plan: %+v", order.Payment)
	}

	if err := svc.HandleNotify(context.Background(), NotifyInput{
		OutTradeNo:  order.Payment.OrderID,
		TradeNo:     "t2",
		TradeStatus: "TRADE_SUCCESS",
	}); err != nil {
		t.Fatalf("HandleNotify: %v", err)
	}

	got, err := users.GetByIDs(ctx, nil, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !got[0].LifetimeMember {
		t.Fatal("expected lifetime member flag")
	}
	if types.EffectiveTier(got[0], now) != types.TierLifetime {
		t.Fatalf("expected lifetime tier, got %q", types.EffectiveTier(got[0], now))
	}
}

func TestPaymentFailuresAndAccess(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc, _, tx := newPaymentEnv(t, now)

	u := testutil.SeedUser(t, context.Background(), tx, "payfail")
	other := testutil.SeedUser(t, context.Background(), tx, "payother")
	ctx := authedCtx(u)

	if _, err := svc.CreateOrder(ctx, types.TierFree, "monthly"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for free plan, got %v", err)
	}

	order, err := svc.CreateOrder(ctx, types.TierBasic, "monthly")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if err := svc.HandleNotify(context.Background(), NotifyInput{
		OutTradeNo:  order.Payment.OrderID,
		TradeStatus: "TRADE_CLOSED",
	}); err != nil {
		t.Fatalf("HandleNotify failure status: %v", err)
	}
	checked, err := svc.CheckOrder(ctx, order.Payment.OrderID)
	if err != nil {
		t.Fatalf("CheckOrder: %v", err)
	}
	if checked.Status != types.PaymentFailed {
		t.Fatalf("expected failed status, got %q", checked.Status)
	}

	if _, err := svc.CheckOrder(authedCtx(other), order.Payment.OrderID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for other user, got %v", err)
	}
	if err := svc.HandleNotify(context.Background(), NotifyInput{OutTradeNo: "ESPmissing"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for unknown order, got %v", err)
	}
}
