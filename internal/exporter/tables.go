package exporter

import (
	"strconv"
	"time"

	"custetl/pkg/contracts/domain"
)

// CustomersTable serializes clean customers in column order
// customer_id, name, signup_date, state, spending
func CustomersTable(clean domain.CustomerTable) *domain.Table {
	dates := make([]time.Time, len(clean))
	for i, c := range clean {
		dates[i] = c.SignupDate
	}
	layout := dateLayoutFor(dates)

	table := domain.NewTable(domain.CustomerColumns()...)
	for _, c := range clean {
		table.Append(
			formatInt(c.CustomerID),
			c.Name,
			c.SignupDate.Format(layout),
			c.State,
			formatFloat(c.Spending),
		)
	}
	return table
}

// FeaturesTable serializes per-state features in column order
// state, customers, total_spending, avg_spending
func FeaturesTable(features domain.FeatureTable) *domain.Table {
	table := domain.NewTable(domain.FeatureColumns()...)
	for _, f := range features {
		table.Append(
			f.State,
			strconv.Itoa(f.Customers),
			formatFloat(f.TotalSpending),
			formatFloat(f.AvgSpending),
		)
	}
	return table
}
