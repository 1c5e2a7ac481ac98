// Package parser decodes an uploaded tabular blob into an ordered
// sequence of row.Row values (spec.md §4.A), grounded on the
// format-dispatching parse step of _examples/other_examples' settlement
// ingestion service, built on stdlib encoding/csv (no pack repo imports a
// third-party tabular parser — see DESIGN.md).
package parser

import (
	"encoding/csv"
	"strings"

	"github.com/CodAressss/orders-batch-service/internal/domain/row"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

// expectedHeader is the fixed six-column contract (spec.md §4.A).
var expectedHeader = []string{
	"orderNumber", "clientId", "deliveryDate", "status", "zoneId", "requiresRefrigeration",
}

const expectedColumns = 6

// trueLiterals is the exact liberal boolean acceptance set spec.md §9's
// Open Question resolution fixes for wire compatibility; anything else
// (including "yes", "y", "on") silently becomes false.
var trueLiterals = map[string]struct{}{
	"true": {}, "1": {}, "si": {}, "sí": {},
}

// Parse decodes data into an ordered sequence of Row. Header absence,
// column-count mismatch, name mismatch, or an empty data set (header
// only) all fail the whole batch with constant.ErrFormatInvalid — a
// structural error, raised before any reservation occurs.
func Parse(data []byte) ([]row.Row, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1 // header/row arity is checked by hand, with padding for short rows
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, constant.ErrFormatInvalid
	}

	records = dropTrailingEmptyLines(records)

	if len(records) == 0 {
		return nil, constant.ErrFormatInvalid
	}

	header := records[0]
	if !headerMatches(header) {
		return nil, constant.ErrFormatInvalid
	}

	if len(records) == 1 {
		return nil, constant.ErrFormatInvalid
	}

	rows := make([]row.Row, 0, len(records)-1)

	for i, record := range records[1:] {
		record = padTo(record, expectedColumns)
		rows = append(rows, row.Row{
			LineNumber:            i + 2, // header is line 1, first data row is line 2
			OrderNumber:           trim(record[0]),
			ClientID:              trim(record[1]),
			DeliveryDate:          trim(record[2]),
			Status:                trim(record[3]),
			ZoneID:                trim(record[4]),
			RequiresRefrigeration: parseBool(trim(record[5])),
		})
	}

	return rows, nil
}

func headerMatches(header []string) bool {
	if len(header) != expectedColumns {
		return false
	}

	for i, col := range expectedHeader {
		if trim(header[i]) != col {
			return false
		}
	}

	return true
}

func dropTrailingEmptyLines(records [][]string) [][]string {
	end := len(records)
	for end > 0 && isBlankLine(records[end-1]) {
		end--
	}

	return records[:end]
}

func isBlankLine(fields []string) bool {
	for _, f := range fields {
		if trim(f) != "" {
			return false
		}
	}

	return true
}

func padTo(record []string, n int) []string {
	if len(record) >= n {
		return record[:n]
	}

	padded := make([]string, n)
	copy(padded, record)

	return padded
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func parseBool(s string) bool {
	_, ok := trueLiterals[strings.ToLower(s)]
	return ok
}
