package guest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one parsed spreadsheet line: column A is the name, column B the category.
type Row struct {
	Name     string
	Category string
}

// ParseRows turns raw spreadsheet cells into rows. Rows with an empty name
// are skipped; a missing category cell becomes "".
func ParseRows(records [][]string, hasHeader bool) []Row {
	if hasHeader && len(records) > 0 {
		records = records[1:]
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		if len(record) == 0 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}

		category := ""
		if len(record) > 1 {
			category = strings.TrimSpace(record[1])
		}

		rows = append(rows, Row{Name: name, Category: category})
	}
	return rows
}

// ParseCSV reads a published spreadsheet CSV export.
func ParseCSV(r io.Reader, hasHeader bool) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse guest csv: %w", err)
	}
	return ParseRows(records, hasHeader), nil
}
