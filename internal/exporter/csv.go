package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"custetl/internal/config"
	apperrors "custetl/internal/errors"
	"custetl/pkg/contracts/domain"
)

// CSVWriter persists tables as CSV files
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With("component", "csv_writer")}
}

// Load writes table to path with a default writer and returns the resolved path
func Load(table *domain.Table, path string) (string, error) {
	return NewCSVWriter(nil).WriteTable(context.Background(), table, path)
}

// WriteTable writes the header row and every row of table to path, creating
// parent directories and truncating any existing file. No index column is
// written. Writing the same table to the same path yields an identical file.
// A table without columns is rejected before anything touches the disk.
func (w *CSVWriter) WriteTable(ctx context.Context, table *domain.Table, path string) (string, error) {
	fullPath, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewIOError(fmt.Sprintf("cannot resolve destination %s", path), err)
	}
	frame, err := table.Frame()
	if err != nil {
		return "", apperrors.NewFormatError("cannot serialize table", err).WithContext("path", fullPath)
	}

	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file_path", path),
		slog.String("full_path", fullPath),
		slog.Int("record_count", table.Len()))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return "", apperrors.NewIOError("failed to create destination directory", err).
			WithContext("path", dir)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.FilePermissions)
	if err != nil {
		return "", apperrors.NewIOError("failed to open destination", err).WithContext("path", fullPath)
	}

	if err := frame.WriteCSV(file); err != nil {
		file.Close()
		return "", apperrors.NewIOError("failed to write destination", err).WithContext("path", fullPath)
	}
	if err := file.Close(); err != nil {
		return "", apperrors.NewIOError("failed to close destination", err).WithContext("path", fullPath)
	}

	return fullPath, nil
}
