package domain

import (
	"time"
)

// Customer input/output columns
const (
	ColCustomerID = "customer_id"
	ColName       = "name"
	ColSignupDate = "signup_date"
	ColState      = "state"
	ColSpending   = "spending"
)

// Feature output columns
const (
	ColCustomers     = "customers"
	ColTotalSpending = "total_spending"
	ColAvgSpending   = "avg_spending"
)

// CustomerColumns returns the fixed customer schema in file order
func CustomerColumns() []string {
	return []string{ColCustomerID, ColName, ColSignupDate, ColState, ColSpending}
}

// FeatureColumns returns the per-state feature schema in file order
func FeatureColumns() []string {
	return []string{ColState, ColCustomers, ColTotalSpending, ColAvgSpending}
}

// Customer is a clean customer record.
//
// The validate tags describe the invariants every row leaving the cleaning stage
// holds. allowed_state is registered by the record validator against the configured
// state set.
type Customer struct {
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"name" validate:"required"`
	SignupDate time.Time `json:"signup_date" validate:"required"`
	State      string    `json:"state" validate:"required,uppercase,allowed_state"`
	Spending   float64   `json:"spending" validate:"gte=0"`
}

// CustomerTable is the clean customer table. Row order is the original source order
// of the surviving records.
type CustomerTable []Customer

// DistinctCustomerIDs returns the number of distinct customer ids
func (c CustomerTable) DistinctCustomerIDs() int {
	seen := make(map[int64]struct{}, len(c))
	for _, customer := range c {
		seen[customer.CustomerID] = struct{}{}
	}
	return len(seen)
}

// StateSpending holds the spending features of one state
type StateSpending struct {
	State         string  `json:"state"`
	Customers     int     `json:"customers"`
	TotalSpending float64 `json:"total_spending"`
	AvgSpending   float64 `json:"avg_spending"`
}

// FeatureTable is the per-state feature table
type FeatureTable []StateSpending

// TotalCustomers sums the customers column
func (f FeatureTable) TotalCustomers() int {
	total := 0
	for _, row := range f {
		total += row.Customers
	}
	return total
}

// TotalSpending sums the total_spending column
func (f FeatureTable) TotalSpending() float64 {
	total := 0.0
	for _, row := range f {
		total += row.TotalSpending
	}
	return total
}

// RunSummary reports the outcome of one pipeline run
type RunSummary struct {
	RunID            string         `json:"run_id"`
	CleanPath        string         `json:"clean_path"`
	FeaturesPath     string         `json:"features_path"`
	RawRowCount      int            `json:"raw_row_count"`
	CleanRowCount    int            `json:"clean_row_count"`
	FeaturesRowCount int            `json:"features_row_count"`
	DroppedRows      map[string]int `json:"dropped_rows,omitempty"`
}
