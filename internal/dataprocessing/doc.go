// Package dataprocessing holds the extract and transform stages of the customer
// ETL job: reading a raw source into a table, cleaning it into typed customer
// records, and aggregating spending per state.
//
// # Architecture
//
//  1. Parser: Extract reads CSV (or the first sheet of an .xlsx workbook) into a
//     domain.Table of raw string cells
//  2. Cleaner: Transform normalizes, filters and deduplicates raw rows
//  3. Summarizer: ComputeFeatures groups clean records by state on a gota dataframe
//
// # Usage
//
//	raw, err := dataprocessing.Extract("data/raw/customers.csv")
//	if err != nil {
//	    return err
//	}
//
//	cleaner := dataprocessing.NewCleaner([]string{"SP", "RJ", "MG", "PR"}, logger)
//	clean, report, err := cleaner.Transform(ctx, raw)
//	if err != nil {
//	    return err
//	}
//
//	features, err := dataprocessing.ComputeFeatures(clean)
//
// # Cleaning Rules
//
// Rules run in this order and each dropped row is reported under the first rule
// that removed it:
//
//   - disallowed_state: state, uppercased as written, is not an allowed code.
//     Padded codes such as " sp" and missing states never match.
//   - missing_value: customer_id, name, signup_date or spending is missing or unparseable
//   - negative_spending: spending below zero
//   - duplicate_id: an earlier row whose customer_id appears again later
//
// Transform never fails on bad data. It fails only when one of the expected
// columns is absent, with a SCHEMA error.
package dataprocessing
