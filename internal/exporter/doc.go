// Package exporter writes pipeline tables to CSV files.
//
// CustomersTable and FeaturesTable serialize typed records into a domain.Table;
// CSVWriter.WriteTable (or the package-level Load) persists a table:
//
//	writer := exporter.NewCSVWriter(logger)
//	path, err := writer.WriteTable(ctx, exporter.CustomersTable(clean), "data/processed/customers_clean.csv")
//
// Files are truncated on every write and carry a header row and no index
// column, so repeated writes of the same table are byte-identical.
package exporter
