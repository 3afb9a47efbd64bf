package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "custetl/internal/errors"
	"custetl/pkg/contracts/domain"
)

func TestExtract_Fixture(t *testing.T) {
	table, err := Extract(filepath.Join("testdata", "customers.csv"))
	require.NoError(t, err)

	assert.Equal(t, domain.CustomerColumns(), table.Columns)
	assert.Equal(t, 10, table.Len())
	for _, row := range table.Rows {
		assert.Len(t, row, 5)
	}
	assert.Equal(t, []string{"1", "Ana Souza", "2023-01-15", "sp", "250.50"}, table.Rows[0])
	assert.Equal(t, "", table.Rows[5][1], "empty name is kept as an empty cell")
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows [][]string
		wantErr  apperrors.ErrorType
	}{
		{
			name:     "header only",
			input:    "customer_id,name,signup_date,state,spending\n",
			wantCols: []string{"customer_id", "name", "signup_date", "state", "spending"},
			wantRows: [][]string{},
		},
		{
			name:     "byte order mark stripped",
			input:    "\ufeffcustomer_id,name\n1,Ana\n",
			wantCols: []string{"customer_id", "name"},
			wantRows: [][]string{{"1", "Ana"}},
		},
		{
			name:     "short rows padded",
			input:    "a,b,c\n1\n1,2\n",
			wantCols: []string{"a", "b", "c"},
			wantRows: [][]string{{"1", "", ""}, {"1", "2", ""}},
		},
		{
			name:     "quoted fields",
			input:    "id,name\n1,\"Souza, Ana\"\n",
			wantCols: []string{"id", "name"},
			wantRows: [][]string{{"1", "Souza, Ana"}},
		},
		{
			name:     "extra columns kept",
			input:    "customer_id,name,signup_date,state,spending,email\n1,Ana,2023-01-01,SP,1,a@x\n",
			wantCols: []string{"customer_id", "name", "signup_date", "state", "spending", "email"},
			wantRows: [][]string{{"1", "Ana", "2023-01-01", "SP", "1", "a@x"}},
		},
		{
			name:    "empty source",
			input:   "",
			wantErr: apperrors.ErrTypeFormat,
		},
		{
			name:    "row longer than header",
			input:   "a,b\n1,2,3\n",
			wantErr: apperrors.ErrTypeFormat,
		},
		{
			name:    "malformed quoting",
			input:   "a,b\n1,\"unterminated\n",
			wantErr: apperrors.ErrTypeFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, tt.wantErr), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, table.Columns)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Extract(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))

	_, err = Extract(dir)
	require.Error(t, err, "a directory is not a readable source")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Extract(empty)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))

	_, err = Extract(filepath.Join(dir, "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIO))

	notWorkbook := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(notWorkbook, []byte("customer_id,name\n"), 0644))
	_, err = Extract(notWorkbook)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFormat))
}

func TestExtract_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	rows := [][]interface{}{
		{"customer_id", "name", "signup_date", "state", "spending"},
		{"1", "Ana Souza", "2023-01-15", "SP", "250.50"},
		{"2", "Bruno Lima"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "customers.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := Extract(path)
	require.NoError(t, err)

	assert.Equal(t, domain.CustomerColumns(), table.Columns)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"1", "Ana Souza", "2023-01-15", "SP", "250.50"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Bruno Lima", "", "", ""}, table.Rows[1])
}
