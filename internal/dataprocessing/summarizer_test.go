package dataprocessing

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custetl/internal/shared/testutil"
	"custetl/pkg/contracts/domain"
)

func customer(id int64, state string, spending float64) domain.Customer {
	return domain.Customer{
		CustomerID: id,
		Name:       "c",
		SignupDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		State:      state,
		Spending:   spending,
	}
}

func TestComputeFeatures_Fixture(t *testing.T) {
	raw, err := Extract(filepath.Join("testdata", "customers.csv"))
	require.NoError(t, err)
	clean, err := Transform(raw)
	require.NoError(t, err)

	features, err := ComputeFeatures(clean)
	require.NoError(t, err)

	assert.Equal(t, domain.FeatureTable{
		{State: "MG", Customers: 2, TotalSpending: 740.75, AvgSpending: 370.375},
		{State: "PR", Customers: 1, TotalSpending: 410, AvgSpending: 410},
		{State: "RJ", Customers: 1, TotalSpending: 120, AvgSpending: 120},
		{State: "SP", Customers: 2, TotalSpending: 325.75, AvgSpending: 162.875},
	}, features)
	assert.Equal(t, len(clean), features.TotalCustomers())
}

func TestComputeFeatures(t *testing.T) {
	tests := []struct {
		name  string
		clean domain.CustomerTable
		want  domain.FeatureTable
	}{
		{
			name:  "empty",
			clean: domain.CustomerTable{},
			want:  domain.FeatureTable{},
		},
		{
			name:  "nil",
			clean: nil,
			want:  domain.FeatureTable{},
		},
		{
			name:  "single state",
			clean: domain.CustomerTable{customer(1, "SP", 10), customer(2, "SP", 30)},
			want:  domain.FeatureTable{{State: "SP", Customers: 2, TotalSpending: 40, AvgSpending: 20}},
		},
		{
			name: "sorted by state",
			clean: domain.CustomerTable{
				customer(1, "SP", 1),
				customer(2, "MG", 2),
				customer(3, "RJ", 3),
			},
			want: domain.FeatureTable{
				{State: "MG", Customers: 1, TotalSpending: 2, AvgSpending: 2},
				{State: "RJ", Customers: 1, TotalSpending: 3, AvgSpending: 3},
				{State: "SP", Customers: 1, TotalSpending: 1, AvgSpending: 1},
			},
		},
		{
			name:  "zero spending",
			clean: domain.CustomerTable{customer(1, "PR", 0)},
			want:  domain.FeatureTable{{State: "PR", Customers: 1, TotalSpending: 0, AvgSpending: 0}},
		},
		{
			name: "state codes that read as missing values",
			clean: domain.CustomerTable{
				customer(1, "NA", 4),
				customer(2, "NAN", 6),
				customer(3, "NA", 8),
			},
			want: domain.FeatureTable{
				{State: "NA", Customers: 2, TotalSpending: 12, AvgSpending: 6},
				{State: "NAN", Customers: 1, TotalSpending: 6, AvgSpending: 6},
			},
		},
		{
			name: "numeric state codes",
			clean: domain.CustomerTable{
				customer(1, "10", 1.5),
				customer(2, "9", 2.5),
			},
			want: domain.FeatureTable{
				{State: "10", Customers: 1, TotalSpending: 1.5, AvgSpending: 1.5},
				{State: "9", Customers: 1, TotalSpending: 2.5, AvgSpending: 2.5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features, err := ComputeFeatures(tt.clean)
			require.NoError(t, err)
			assert.Equal(t, tt.want, features)
		})
	}
}

func TestComputeFeatures_AggregationConsistency(t *testing.T) {
	clean := domain.CustomerTable{}
	states := []string{"SP", "RJ", "MG", "PR"}
	for i := 0; i < 101; i++ {
		clean = append(clean, customer(int64(i), states[i%len(states)], float64(i)*1.1+0.01))
	}

	features, err := ComputeFeatures(clean)
	require.NoError(t, err)

	assert.Equal(t, clean.DistinctCustomerIDs(), features.TotalCustomers())

	total := 0.0
	for _, c := range clean {
		total += c.Spending
	}
	assert.InDelta(t, total, features.TotalSpending(), 1e-6)

	for _, row := range features {
		assert.InDelta(t, row.TotalSpending, row.AvgSpending*float64(row.Customers), 1e-6)
		assert.False(t, math.IsNaN(row.AvgSpending))
	}
}

func TestComputeFeatures_DoesNotMutateInput(t *testing.T) {
	clean := domain.CustomerTable{customer(2, "SP", 5), customer(1, "MG", 7)}
	before := append(domain.CustomerTable(nil), clean...)

	_, err := ComputeFeatures(clean)
	require.NoError(t, err)

	assert.Equal(t, before, clean)
}

func TestSummarizer_Summarize(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)

	features, err := NewSummarizer(logger).Summarize(context.Background(),
		domain.CustomerTable{customer(1, "SP", 5), customer(2, "MG", 7)})
	require.NoError(t, err)

	assert.Len(t, features, 2)
	assert.True(t, handler.ContainsMessage("spending features computed"))
	assert.True(t, handler.ContainsAttr("state_count", int64(2)))
	assert.True(t, handler.ContainsAttr("component", "summarizer"))
}
