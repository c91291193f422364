package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ReadCSV loads a cell table from CSV. Every column is parsed as float64
// except "row" and "col", which become the cell identity when present;
// without them cells are numbered sequentially. Blank or unparseable
// numeric fields become NaN and are reported as warnings rather than
// aborting the load.
func ReadCSV(r io.Reader) (*Table, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("table: reading CSV header: %w", err)
	}
	var warnings []string
	names := make([]string, len(header))
	skip := make(map[int]bool)
	seen := make(map[string]bool)
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
		if seen[names[i]] {
			warnings = append(warnings, fmt.Sprintf("duplicate column %q ignored", names[i]))
			skip[i] = true
			continue
		}
		seen[names[i]] = true
	}

	rowIdx, colIdx := -1, -1
	for i, name := range names {
		if skip[i] {
			continue
		}
		switch strings.ToLower(name) {
		case "row":
			rowIdx = i
		case "col":
			colIdx = i
		}
	}

	var ids []CellID
	data := make(map[string][]float64)

	line := 1
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		id := CellID{Row: len(ids)}
		if rowIdx >= 0 && rowIdx < len(record) {
			id.Row, _ = strconv.Atoi(strings.TrimSpace(record[rowIdx]))
		}
		if colIdx >= 0 && colIdx < len(record) {
			id.Col, _ = strconv.Atoi(strings.TrimSpace(record[colIdx]))
		}
		ids = append(ids, id)

		for i, name := range names {
			if i == rowIdx || i == colIdx || skip[i] {
				continue
			}
			value := math.NaN()
			if i < len(record) {
				field := strings.TrimSpace(record[i])
				if field != "" {
					parsed, err := strconv.ParseFloat(field, 64)
					if err != nil {
						warnings = append(warnings, fmt.Sprintf("line %d: invalid %s value %q", line, name, field))
					} else {
						value = parsed
					}
				}
			}
			data[name] = append(data[name], value)
		}
	}

	if len(ids) == 0 {
		return nil, warnings, fmt.Errorf("table: no cells found in CSV input")
	}

	t := New(ids)
	for name, values := range data {
		if err := t.SetColumn(name, values); err != nil {
			return nil, warnings, err
		}
	}
	return t, warnings, nil
}

// WriteCSV writes the table to CSV with row/col identity first, then all
// label columns, then all numeric columns in sorted name order.
func (t *Table) WriteCSV(w io.Writer) error {
	labelNames := make([]string, 0, len(t.labels))
	for name := range t.labels {
		labelNames = append(labelNames, name)
	}
	sort.Strings(labelNames)

	colNames := make([]string, 0, len(t.cols))
	for name := range t.cols {
		colNames = append(colNames, name)
	}
	sort.Strings(colNames)

	writer := csv.NewWriter(w)
	header := append([]string{"row", "col"}, labelNames...)
	header = append(header, colNames...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("table: writing CSV header: %w", err)
	}

	record := make([]string, 0, len(header))
	for i := range t.ids {
		record = record[:0]
		record = append(record,
			strconv.Itoa(t.ids[i].Row),
			strconv.Itoa(t.ids[i].Col))
		for _, name := range labelNames {
			record = append(record, t.labels[name][i])
		}
		for _, name := range colNames {
			record = append(record, strconv.FormatFloat(t.cols[name][i], 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("table: writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
