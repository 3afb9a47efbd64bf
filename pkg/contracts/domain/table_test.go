package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	columns := []string{"a", "b"}
	table := NewTable(columns...)

	columns[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Equal(t, 0, table.Len())
	assert.NotNil(t, table.Rows)
}

func TestTable_Len_Nil(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
}

func TestTable_ColumnIndex(t *testing.T) {
	table := NewTable(CustomerColumns()...)

	assert.Equal(t, 0, table.ColumnIndex(ColCustomerID))
	assert.Equal(t, 4, table.ColumnIndex(ColSpending))
	assert.Equal(t, -1, table.ColumnIndex("email"))
}

func TestTable_MissingColumns(t *testing.T) {
	table := NewTable(ColCustomerID, ColName, ColSpending)

	assert.Empty(t, table.MissingColumns(ColCustomerID, ColName))
	assert.Equal(t, []string{ColSignupDate, ColState}, table.MissingColumns(CustomerColumns()...))
}

func TestTable_Cell(t *testing.T) {
	table := NewTable("a", "b", "c")
	table.Append("1", "2")

	assert.Equal(t, "1", table.Cell(0, 0))
	assert.Equal(t, "2", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(0, 2), "short rows read as empty cells")
	assert.Equal(t, "", table.Cell(0, -1))
}

func TestTable_AppendCopiesCells(t *testing.T) {
	table := NewTable("a")
	cells := []string{"x"}
	table.Append(cells...)

	cells[0] = "y"

	assert.Equal(t, "x", table.Rows[0][0])
}

func TestTable_Clone(t *testing.T) {
	table := NewTable("a", "b")
	table.Append("1", "2")

	clone := table.Clone()
	clone.Rows[0][0] = "changed"
	clone.Columns[1] = "changed"
	clone.Append("3", "4")

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "1", table.Rows[0][0])
	assert.Equal(t, "b", table.Columns[1])
	assert.Equal(t, 2, clone.Len())
}

func TestTable_Frame(t *testing.T) {
	table := NewTable("a", "b", "c")
	table.Append("1", "x")
	table.Append("2", "y", "z")

	df, err := table.Frame()
	require.NoError(t, err)

	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"a", "b", "c"}, df.Names())
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"1", "x", ""},
		{"2", "y", "z"},
	}, df.Records())
}

func TestTable_Frame_HeaderOnly(t *testing.T) {
	df, err := NewTable(FeatureColumns()...).Frame()
	require.NoError(t, err)

	assert.Equal(t, 0, df.Nrow())
	assert.Equal(t, [][]string{FeatureColumns()}, df.Records())
}

func TestTable_Frame_NoColumns(t *testing.T) {
	_, err := NewTable().Frame()
	assert.Error(t, err)

	var table *Table
	_, err = table.Frame()
	assert.Error(t, err)
}

func TestCustomerTable_DistinctCustomerIDs(t *testing.T) {
	signup := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	customers := CustomerTable{
		{CustomerID: 1, Name: "Ana", SignupDate: signup, State: "SP", Spending: 10},
		{CustomerID: 2, Name: "Bia", SignupDate: signup, State: "RJ", Spending: 20},
		{CustomerID: 1, Name: "Ana", SignupDate: signup, State: "SP", Spending: 30},
	}

	assert.Equal(t, 2, customers.DistinctCustomerIDs())
	assert.Equal(t, 0, CustomerTable{}.DistinctCustomerIDs())
}

func TestFeatureTable_Totals(t *testing.T) {
	features := FeatureTable{
		{State: "MG", Customers: 2, TotalSpending: 740.75, AvgSpending: 370.375},
		{State: "SP", Customers: 1, TotalSpending: 10, AvgSpending: 10},
	}

	assert.Equal(t, 3, features.TotalCustomers())
	assert.InDelta(t, 750.75, features.TotalSpending(), 1e-9)
}

func TestColumns_ReturnFreshSlices(t *testing.T) {
	cols := CustomerColumns()
	cols[0] = "changed"

	assert.Equal(t, ColCustomerID, CustomerColumns()[0])
	assert.Equal(t, []string{"state", "customers", "total_spending", "avg_spending"}, FeatureColumns())
}
