package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PlanDuration string

const (
	PlanDurationMonthly PlanDuration = "MONTHLY"
	PlanDurationYearly  PlanDuration = "YEARLY"
)

// FreePlanName is what a subscription row reverts to when the external plan
// is cancelled. plan_id is null while on the free plan.
const FreePlanName = "FREE"

type User struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Name      string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID       string          `gorm:"primaryKey;size:64;not null"` // product sku
	Name     string          `gorm:"size:255;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency string          `gorm:"size:8;not null"`
}

// Order is a financial record: created PENDING before any payment happens,
// never deleted.
type Order struct {
	ID                string          `gorm:"primaryKey;size:64;not null"`
	UserID            string          `gorm:"size:64;index;not null"`
	Status            Status          `gorm:"size:32;index;not null"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency          string          `gorm:"size:8;not null"`
	CheckoutSessionID string          `gorm:"size:128;index"`
	PaymentIntentID   *string         `gorm:"size:128"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   string          `gorm:"size:64;index;not null"`
	ProductID string          `gorm:"size:64;index;not null"`
	Quantity  int32           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency  string          `gorm:"size:8;not null"`
	CreatedAt time.Time
}

// CustomOrder is a print-on-demand t-shirt order. The gelato fields stay
// unset until fulfillment dispatch succeeds; a PAID row without them is
// waiting on operator attention.
type CustomOrder struct {
	ID                string          `gorm:"primaryKey;size:64;not null"`
	UserID            string          `gorm:"size:64;index;not null"`
	Status            Status          `gorm:"size:32;index;not null"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency          string          `gorm:"size:8;not null"`
	CheckoutSessionID string          `gorm:"size:128;index"`
	PaymentIntentID   *string         `gorm:"size:128"`

	GarmentType string `gorm:"size:32;not null"`
	GarmentSize string `gorm:"size:16;not null"`
	Color       string `gorm:"size:32;not null"`
	DesignURL   string `gorm:"size:512;not null"`

	RecipientName string `gorm:"size:255;not null"`
	AddressLine1  string `gorm:"size:255;not null"`
	City          string `gorm:"size:128;not null"`
	PostCode      string `gorm:"size:32;not null"`
	Country       string `gorm:"size:8;not null"`

	GelatoOrderID *string `gorm:"size:128"`
	GelatoStatus  *string `gorm:"size:64"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Quote is a provider's priced offer for a party service; the client pays it
// through the provider payment flow.
type Quote struct {
	ID                string          `gorm:"primaryKey;size:64;not null"`
	ProviderID        string          `gorm:"size:64;index;not null"`
	UserID            string          `gorm:"size:64;index;not null"`
	Description       string          `gorm:"size:512"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency          string          `gorm:"size:8;not null"`
	Status            Status          `gorm:"size:32;index;not null"`
	CheckoutSessionID string          `gorm:"size:128;index"`
	PaymentIntentID   *string         `gorm:"size:128"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Plan struct {
	ID            string          `gorm:"primaryKey;size:64;not null"`
	Name          string          `gorm:"size:128;not null"`
	StripePriceID string          `gorm:"size:128;not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Duration      PlanDuration    `gorm:"size:16;not null"`
}

// Subscription is the single mutable current-state row per user, created FREE
// at registration. Plan changes rewrite it in place; it is not a ledger.
type Subscription struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    string          `gorm:"size:64;uniqueIndex;not null"`
	PlanID    *string         `gorm:"size:64"` // null means FREE
	PlanName  string          `gorm:"size:128;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
