package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Ramsey-B/edelweiss/pkg/models"
)

// Column names of the reference tables.
const (
	ColumnID         = "id"
	ColumnName       = "name"
	ColumnLiftType   = "lift_type"
	ColumnDifficulty = "difficulty"
	ColumnScopeIDs   = "ski_area_ids"
)

// Row is one reference table row keyed by lowercase column name.
type Row map[string]string

// Get returns the trimmed value of a column, or "" when the row lacks it.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[strings.ToLower(column)])
}

// Table is a raw reference table of one entity kind.
type Table struct {
	Kind   models.EntityKind
	Header []string
	Rows   []Row
}

// CategoryColumn returns the column holding the category attribute for the table's kind.
func (t *Table) CategoryColumn() string {
	if t.Kind == models.EntityKindRun {
		return ColumnDifficulty
	}
	return ColumnLiftType
}

// ReadTable parses a comma-separated reference table with a header row.
// Short rows are padded with empty values; an empty input yields an empty table.
func ReadTable(r io.Reader, kind models.EntityKind) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	table := &Table{Kind: kind}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s table header: %w", kind, err)
	}

	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		header[i] = strings.ToLower(strings.TrimSpace(col))
	}
	table.Header = header

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s table: %w", kind, err)
		}

		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ReadTableFile reads a reference table from disk.
func ReadTableFile(path string, kind models.EntityKind) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s table: %w", kind, err)
	}
	defer f.Close()

	return ReadTable(f, kind)
}
