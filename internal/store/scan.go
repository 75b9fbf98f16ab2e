package store

import (
	"database/sql"
)

// The price_plan columns carry no NOT NULL constraints, so rows written by
// other tools may hold NULLs. Those read back as zero values.

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPricePlanRow(row rowScanner) (PricePlan, error) {
	var (
		p    PricePlan
		name sql.NullString
		call sql.NullFloat64
		sms  sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &name, &call, &sms); err != nil {
		return PricePlan{}, err
	}
	p.PlanName = name.String
	p.CallPrice = call.Float64
	p.SMSPrice = sms.Float64
	return p, nil
}

func scanPricePlan(row *sql.Row) (*PricePlan, error) {
	p, err := scanPricePlanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPricePlans(rows *sql.Rows) ([]PricePlan, error) {
	var plans []PricePlan
	for rows.Next() {
		p, err := scanPricePlanRow(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
