package dataprocessing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "complaintreport/internal/errors"
	"complaintreport/internal/shared/testutil"
)

func TestLoadComplaints(t *testing.T) {
	data := testutil.BuildWorkbook(t,
		[]string{" Item Code ", "Branch", "Complaint Mode", "Days", "Brand", "Customer"},
		[][]interface{}{
			{1001, " North ", "call", 3, "Acme", "Jane"},
			{1002, "South", nil, "N/A", nil},
			{},
		})

	complaints, err := LoadComplaints(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, complaints, 2, "blank rows are skipped")

	first := complaints[0]
	assert.Equal(t, "1001", first.ItemCode)
	assert.Equal(t, "North", first.Branch, "cells are trimmed")
	assert.Equal(t, "call", first.ComplaintMode)
	assert.Equal(t, "3", first.Days)
	assert.Equal(t, "Acme", first.Brand)
	assert.Equal(t, map[string]string{"Customer": "Jane"}, first.Extra)

	second := complaints[1]
	assert.Empty(t, second.ComplaintMode)
	assert.Equal(t, "N/A", second.Days)
	assert.Empty(t, second.Brand)
	assert.Nil(t, second.Extra)
}

func TestLoadPriceListRenamesItemCode(t *testing.T) {
	data := testutil.BuildWorkbook(t, testutil.PriceListHeaders, [][]interface{}{
		{1001, 99.5},
		{1002, "n/a"},
	})

	entries, err := LoadPriceList(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1001", entries[0].ItemCode)
	assert.Equal(t, "99.5", entries[0].MOP)
	assert.Equal(t, "n/a", entries[1].MOP)
}

func TestLoadPriceListAcceptsCanonicalHeader(t *testing.T) {
	data := testutil.BuildWorkbook(t, []string{"Item Code", "MOP"}, [][]interface{}{{7, 10}})

	entries, err := LoadPriceList(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "7", entries[0].ItemCode)
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		load    func([]byte) error
		input   func(t *testing.T) []byte
		wantMsg string
	}{
		{
			name: "not a workbook",
			load: func(b []byte) error { _, err := LoadComplaints(bytes.NewReader(b)); return err },
			input: func(t *testing.T) []byte {
				return []byte("Item Code,Branch\n1,A\n")
			},
			wantMsg: "complaints is not a readable xlsx workbook",
		},
		{
			name: "empty stream",
			load: func(b []byte) error { _, err := LoadPriceList(bytes.NewReader(b)); return err },
			input: func(t *testing.T) []byte {
				return nil
			},
			wantMsg: "MOP list is not a readable xlsx workbook",
		},
		{
			name: "empty sheet",
			load: func(b []byte) error { _, err := LoadComplaints(bytes.NewReader(b)); return err },
			input: func(t *testing.T) []byte {
				return testutil.BuildWorkbook(t, nil, nil)
			},
			wantMsg: "is empty",
		},
		{
			name: "missing complaint columns",
			load: func(b []byte) error { _, err := LoadComplaints(bytes.NewReader(b)); return err },
			input: func(t *testing.T) []byte {
				return testutil.BuildWorkbook(t, []string{"Item Code", "Branch", "Brand"}, [][]interface{}{{1, "A", "X"}})
			},
			wantMsg: "missing required column(s): Complaint Mode, Days",
		},
		{
			name: "missing MOP column",
			load: func(b []byte) error { _, err := LoadPriceList(bytes.NewReader(b)); return err },
			input: func(t *testing.T) []byte {
				return testutil.BuildWorkbook(t, []string{"Item code", "Price"}, [][]interface{}{{1, 1}})
			},
			wantMsg: "MOP list is missing required column(s): MOP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.load(tt.input(t))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing), "got %T: %v", err, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
