package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"custetl/internal/config"
	apperrors "custetl/internal/errors"
	"custetl/pkg/contracts/domain"
)

// DropReason names the cleaning step that removed a row
type DropReason string

const (
	DropDisallowedState  DropReason = "disallowed_state"
	DropMissingValue     DropReason = "missing_value"
	DropNegativeSpending DropReason = "negative_spending"
	DropDuplicateID      DropReason = "duplicate_id"
)

// DropReasons returns every reason in the order the cleaning steps run
func DropReasons() []DropReason {
	return []DropReason{DropDisallowedState, DropMissingValue, DropNegativeSpending, DropDuplicateID}
}

// CleaningReport accounts for every input row of a Transform call.
// A dropped row is counted once, under the first step that removed it.
type CleaningReport struct {
	InputRows  int
	OutputRows int
	Dropped    map[DropReason]int
}

// TotalDropped returns the number of rows removed by all steps
func (r CleaningReport) TotalDropped() int {
	total := 0
	for _, n := range r.Dropped {
		total += n
	}
	return total
}

// DroppedRows returns the non-zero drop counts keyed by reason name
func (r CleaningReport) DroppedRows() map[string]int {
	out := make(map[string]int, len(r.Dropped))
	for reason, n := range r.Dropped {
		if n > 0 {
			out[string(reason)] = n
		}
	}
	return out
}

// Cleaner turns a raw customer table into clean records
type Cleaner struct {
	allowed map[string]struct{}
	logger  *slog.Logger
}

// NewCleaner creates a cleaner accepting the given state codes.
// Codes are compared uppercased.
func NewCleaner(allowedStates []string, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cleaner{
		allowed: AllowedStateSet(allowedStates),
		logger:  logger.With("component", "cleaner"),
	}
}

// Transform cleans raw with the default allowed states
func Transform(raw *domain.Table) (domain.CustomerTable, error) {
	clean, _, err := NewCleaner(config.DefaultAllowedStates(), nil).Transform(context.Background(), raw)
	return clean, err
}

// candidate is a row that survived the row-level filters
type candidate struct {
	seq      int
	customer domain.Customer
}

// Transform normalizes, filters and deduplicates raw. raw is never modified and
// bad data never fails the call; only a missing expected column does.
func (c *Cleaner) Transform(ctx context.Context, raw *domain.Table) (domain.CustomerTable, CleaningReport, error) {
	report := CleaningReport{Dropped: make(map[DropReason]int, len(DropReasons()))}
	for _, reason := range DropReasons() {
		report.Dropped[reason] = 0
	}

	if raw == nil {
		return nil, report, apperrors.NewSchemaError("input table has no columns", domain.CustomerColumns()...)
	}
	if missing := raw.MissingColumns(domain.CustomerColumns()...); len(missing) > 0 {
		return nil, report, apperrors.NewSchemaError("input table is missing expected columns", missing...)
	}

	idCol := raw.ColumnIndex(domain.ColCustomerID)
	nameCol := raw.ColumnIndex(domain.ColName)
	dateCol := raw.ColumnIndex(domain.ColSignupDate)
	stateCol := raw.ColumnIndex(domain.ColState)
	spendingCol := raw.ColumnIndex(domain.ColSpending)

	report.InputRows = raw.Len()
	candidates := make([]candidate, 0, raw.Len())

	for i := range raw.Rows {
		state := NormalizeState(raw.Cell(i, stateCol))
		signup, hasDate := ParseSignupDate(raw.Cell(i, dateCol))
		spending, hasSpending := ParseSpending(raw.Cell(i, spendingCol))

		if _, ok := c.allowed[state]; !ok {
			report.Dropped[DropDisallowedState]++
			continue
		}

		id, hasID := ParseCustomerID(raw.Cell(i, idCol))
		name := raw.Cell(i, nameCol)
		if !hasID || IsNull(name) || !hasDate || !hasSpending {
			report.Dropped[DropMissingValue]++
			continue
		}

		if spending < 0 {
			report.Dropped[DropNegativeSpending]++
			continue
		}

		candidates = append(candidates, candidate{
			seq: i,
			customer: domain.Customer{
				CustomerID: id,
				Name:       name,
				SignupDate: signup,
				State:      state,
				Spending:   spending,
			},
		})
	}

	clean := dedupKeepLast(candidates)
	report.Dropped[DropDuplicateID] = len(candidates) - len(clean)
	report.OutputRows = len(clean)

	c.logger.InfoContext(ctx, "Customer table cleaned",
		slog.Int("input_rows", report.InputRows),
		slog.Int("output_rows", report.OutputRows),
		slog.Int("disallowed_state", report.Dropped[DropDisallowedState]),
		slog.Int("missing_value", report.Dropped[DropMissingValue]),
		slog.Int("negative_spending", report.Dropped[DropNegativeSpending]),
		slog.Int("duplicate_id", report.Dropped[DropDuplicateID]))

	return clean, report, nil
}

// dedupKeepLast keeps the last candidate per customer id by original sequence
// and returns the survivors in original relative order
func dedupKeepLast(candidates []candidate) domain.CustomerTable {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].seq < candidates[j].seq
	})

	last := make(map[int64]int, len(candidates))
	for pos, cand := range candidates {
		last[cand.customer.CustomerID] = pos
	}

	clean := make(domain.CustomerTable, 0, len(last))
	for pos, cand := range candidates {
		if last[cand.customer.CustomerID] == pos {
			clean = append(clean, cand.customer)
		}
	}
	return clean
}
