package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "custetl/internal/errors"
	"custetl/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// Extract reads a delimited source into a table whose columns are the source
// header, one row per record in source order. Paths ending in .xlsx are read
// from the first sheet of the workbook.
func Extract(path string) (*domain.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return extractWorkbook(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("cannot open source %s", path), err).
			WithContext("path", path)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("path", path)
		}
		return nil, err
	}
	return table, nil
}

// ReadCSV parses CSV text with a header row into a table
func ReadCSV(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewFormatError("source is empty, no header row", err)
	}
	if err != nil {
		return nil, readError(err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := domain.NewTable(header...)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError(err)
		}

		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, apperrors.NewFormatError(
				fmt.Sprintf("line %d has %d fields, header has %d", line, len(record), len(header)), nil)
		}
		table.Append(pad(record, len(header))...)
	}

	return table, nil
}

// readError separates parse failures from failures of the underlying reader
func readError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return apperrors.NewFormatError("source is not valid CSV", err)
	}
	return apperrors.NewIOError("failed to read source", err)
}

func extractWorkbook(path string) (*domain.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("cannot open source %s", path), err).
			WithContext("path", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewFormatError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewFormatError("workbook has no sheets", nil).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewFormatError(fmt.Sprintf("failed to read sheet %s", sheets[0]), err).
			WithContext("path", path)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewFormatError("sheet is empty, no header row", nil).WithContext("path", path)
	}

	header := rows[0]
	table := domain.NewTable(header...)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, apperrors.NewFormatError(
				fmt.Sprintf("row %d has %d cells, header has %d", i+2, len(row), len(header)), nil).
				WithContext("path", path)
		}
		table.Append(pad(row, len(header))...)
	}

	return table, nil
}

// pad extends short records with empty cells
func pad(record []string, width int) []string {
	for len(record) < width {
		record = append(record, "")
	}
	return record
}
