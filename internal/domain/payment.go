package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is one subscription order. Months is 0 for the lifetime plan.
type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

	OrderID        string `gorm:"size:64;uniqueIndex;not null;column:order_id" json:"order_id"`
	GatewayTradeNo string `gorm:"size:64;column:gateway_trade_no" json:"gateway_trade_no,omitempty"`

	SubscriptionTier string  `gorm:"size:20;not null;column:subscription_tier" json:"subscription_tier"`
	Amount           float64 `gorm:"not null;column:amount" json:"amount"`
	Months           int     `gorm:"not null;default:1;column:months" json:"months"`

	Status PaymentStatus `gorm:"size:20;not null;default:'pending';column:status" json:"status"`

	// GatewayPayload keeps the raw notify form for audit.
	GatewayPayload datatypes.JSON `gorm:"column:gateway_payload" json:"-"`

	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	PaidAt    *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }
