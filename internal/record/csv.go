package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names understood by ReadCSV.
const (
	ColumnPath  = "path"
	ColumnSize  = "size_bytes"
	ColumnMTime = "mtime"
	ColumnType  = "type"
	ColumnHash  = "hash"
)

// UnknownType is assigned when the inventory has no type column.
const UnknownType = "n/a"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadCSV parses an inventory export. The header row must name the path,
// size_bytes and mtime columns; type and hash are optional. Values that do
// not parse are treated as missing rather than failing the whole file.
func ReadCSV(r io.Reader) ([]PathRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Field: "header", Message: "inventory is empty"}
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	for _, required := range []string{ColumnPath, ColumnSize, ColumnMTime} {
		if _, ok := cols[required]; !ok {
			return nil, &ValidationError{
				Field:   "header",
				Message: fmt.Sprintf("missing required column %q", required),
			}
		}
	}

	typeCol, hasType := cols[ColumnType]
	hashCol, hasHash := cols[ColumnHash]

	records := make([]PathRecord, 0, 1024)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		rec := PathRecord{
			Path:    field(row, cols[ColumnPath]),
			Size:    parseSize(field(row, cols[ColumnSize])),
			ModTime: parseTime(field(row, cols[ColumnMTime])),
			Type:    UnknownType,
		}
		if hasType {
			if t := strings.ToLower(strings.TrimSpace(field(row, typeCol))); t != "" {
				rec.Type = t
			}
		}
		if hasHash {
			rec.Hash = strings.ToLower(strings.TrimSpace(field(row, hashCol)))
		}
		records = append(records, rec)
	}

	return records, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseSize(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC()
	}
	return time.Time{}
}
