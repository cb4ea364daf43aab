package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func bloodPanelXLSX(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseBloodPanelXLSX(t *testing.T) {
	buf := bloodPanelXLSX(t, [][]interface{}{
		{"Marker", "Value"}, // header row, skipped (non-numeric value)
		{"WBC", 7.2},
		{"HGB", 13.5},
		{"PLT", 250},
	})

	values, err := ParseBloodPanelXLSX(buf)
	require.NoError(t, err)

	assert.Len(t, values, 3)
	assert.Equal(t, 7.2, values["WBC"])
	assert.Equal(t, 13.5, values["HGB"])
	assert.Equal(t, 250.0, values["PLT"])
}

func TestParseBloodPanelXLSX_EmptySheet(t *testing.T) {
	buf := bloodPanelXLSX(t, [][]interface{}{
		{"Marker", "Value"},
	})

	_, err := ParseBloodPanelXLSX(buf)
	assert.Error(t, err)
}

func TestParseBloodPanelXLSX_NotASpreadsheet(t *testing.T) {
	_, err := ParseBloodPanelXLSX(bytes.NewBufferString("definitely not xlsx"))
	assert.Error(t, err)
}
