// Package store defines the price plan storage interface and provides SQLite and PostgreSQL implementations.
package store

import (
	"context"
)

// Store is the persistence interface for price plans.
//
// Lookups return (nil, nil) when no row matches. Update and delete report the
// number of affected rows; zero is not an error.
type Store interface {
	// Price plans
	ListPricePlans(ctx context.Context) ([]PricePlan, error)
	CreatePricePlan(ctx context.Context, plan *PricePlan) error
	UpdatePricePlanByName(ctx context.Context, name string, callPrice, smsPrice float64) (int64, error)
	DeletePricePlan(ctx context.Context, id int64) (int64, error)
	GetPricePlanByName(ctx context.Context, name string) (*PricePlan, error)
	GetPricePlan(ctx context.Context, id int64) (*PricePlan, error)

	// Health
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// PricePlan is a named tariff with per-action unit costs.
type PricePlan struct {
	ID        int64   `json:"id"`
	PlanName  string  `json:"plan_name"`
	CallPrice float64 `json:"call_price"`
	SMSPrice  float64 `json:"sms_price"`
}
