package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"custetl/pkg/contracts/domain"
)

// Frame columns used for the per-state aggregation
const (
	frameStateKey = "state_key"
	frameSpending = "spending"
)

// Summarizer aggregates clean customers into per-state spending features
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer that logs through logger
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger.With("component", "summarizer")}
}

// Summarize computes the feature table and logs its size
func (s *Summarizer) Summarize(ctx context.Context, clean domain.CustomerTable) (domain.FeatureTable, error) {
	s.logger.DebugContext(ctx, "computing spending features",
		slog.Int("record_count", len(clean)))

	features, err := ComputeFeatures(clean)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "spending features computed",
		slog.Int("state_count", len(features)),
		slog.Int("customers", features.TotalCustomers()))

	return features, nil
}

// ComputeFeatures groups clean by state: distinct customer ids, spending sum and
// spending mean per state, sorted by state.
//
// Rows are grouped on an integer state key rather than the state text because the
// frame loader reads cells such as "NA" back as missing values.
func ComputeFeatures(clean domain.CustomerTable) (domain.FeatureTable, error) {
	if len(clean) == 0 {
		return domain.FeatureTable{}, nil
	}

	var states []string
	var ids []map[int64]struct{}
	index := make(map[string]int)
	keys := make([]int, len(clean))
	spending := make([]float64, len(clean))

	for i, customer := range clean {
		key, ok := index[customer.State]
		if !ok {
			key = len(states)
			index[customer.State] = key
			states = append(states, customer.State)
			ids = append(ids, make(map[int64]struct{}))
		}
		keys[i] = key
		spending[i] = customer.Spending
		ids[key][customer.CustomerID] = struct{}{}
	}

	frame := dataframe.New(
		series.New(keys, series.Int, frameStateKey),
		series.New(spending, series.Float, frameSpending),
	)
	if err := frame.Error(); err != nil {
		return nil, fmt.Errorf("failed to build spending frame: %w", err)
	}

	groups := frame.GroupBy(frameStateKey)
	if groups.Err != nil {
		return nil, fmt.Errorf("failed to group spending by state: %w", groups.Err)
	}

	aggregated := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM, dataframe.Aggregation_MEAN},
		[]string{frameSpending, frameSpending},
	)
	if err := aggregated.Error(); err != nil {
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}

	keyCol, err := aggregateColumn(aggregated, frameStateKey)
	if err != nil {
		return nil, err
	}
	groupKeys, err := keyCol.Int()
	if err != nil {
		return nil, fmt.Errorf("failed to read state keys: %w", err)
	}
	totalCol, err := aggregateColumn(aggregated, aggregateName(frameSpending, dataframe.Aggregation_SUM))
	if err != nil {
		return nil, err
	}
	meanCol, err := aggregateColumn(aggregated, aggregateName(frameSpending, dataframe.Aggregation_MEAN))
	if err != nil {
		return nil, err
	}
	totals := totalCol.Float()
	means := meanCol.Float()

	features := make(domain.FeatureTable, 0, len(groupKeys))
	for i, key := range groupKeys {
		if key < 0 || key >= len(states) {
			return nil, fmt.Errorf("unknown state key %d", key)
		}
		features = append(features, domain.StateSpending{
			State:         states[key],
			Customers:     len(ids[key]),
			TotalSpending: totals[i],
			AvgSpending:   means[i],
		})
	}

	sort.Slice(features, func(i, j int) bool {
		return features[i].State < features[j].State
	})

	return features, nil
}

// aggregateName is the column name Aggregation gives to typ applied to col
func aggregateName(col string, typ dataframe.AggregationType) string {
	return fmt.Sprintf("%s_%s", col, typ)
}

func aggregateColumn(df dataframe.DataFrame, name string) (series.Series, error) {
	col := df.Col(name)
	if col.Err != nil {
		return series.Series{}, fmt.Errorf("aggregated frame has no column %s: %w", name, col.Err)
	}
	return col, nil
}
