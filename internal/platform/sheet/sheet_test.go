package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetRoundTrip(t *testing.T) {
	s, err := New("Stock Levels")
	require.NoError(t, err)
	defer s.Close()

	s.Title(1, "A", "C", "Report")
	s.Row(2, "Code", "Name", "Stock")
	s.Bold(2, "A", "C")
	s.Row(3, "BAT-60", "Battery Pack", 12)
	s.Widths(10, 30, 8)
	require.NoError(t, s.Err())

	raw, err := s.Bytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Stock Levels"}, f.GetSheetList())
	rows, err := f.GetRows("Stock Levels")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Report", rows[0][0])
	assert.Equal(t, []string{"BAT-60", "Battery Pack", "12"}, rows[2])

	merges, err := f.GetMergeCells("Stock Levels")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A1", merges[0].GetStartAxis())
	assert.Equal(t, "C1", merges[0].GetEndAxis())

	width, err := f.GetColWidth("Stock Levels", "B")
	require.NoError(t, err)
	assert.InDelta(t, 30, width, 0.01)
}

func TestSheetKeepsFirstError(t *testing.T) {
	s, err := New("Broken")
	require.NoError(t, err)
	defer s.Close()

	s.Row(0, "invalid row")
	require.Error(t, s.Err())
	s.Row(1, "ignored")
	_, err = s.Bytes()
	require.Error(t, err)
}
