// Package importer turns uploaded customer files into validated records.
//
// Both CSV and XLSX inputs are reduced to a header row plus data rows and then
// go through the same column mapping and per-row validation. A bad row never
// aborts the import; it is reported in Result.Errors with its 1-based index.
package importer

import (
	"strings"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/validation"
)

// Format identifies the layout of an uploaded file
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Column header aliases per field, compared after trimming and lower-casing.
// When several alias columns are present, each row takes the first non-empty
// one in this order.
var columnAliases = map[string][]string{
	"name":   {"name"},
	"email":  {"email"},
	"phone":  {"phone", "phone_number", "phonenumber"},
	"status": {"status"},
}

// Header lists the canonical column names written by exports
var Header = []string{"name", "email", "phone_number", "status"}

// Result is the outcome of parsing one file
type Result struct {
	Records []models.CustomerRecord
	Errors  []models.RowError
}

// fromRows maps and validates rows. rows[0] is the header.
func fromRows(rows [][]string) (*Result, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, models.NewFieldError("file", "File is empty or has no header row")
	}

	columns := mapHeader(rows[0])
	result := &Result{}

	for i, row := range rows[1:] {
		record := toRecord(columns, row)
		if err := validation.Struct(record); err != nil {
			result.Errors = append(result.Errors, models.RowError{
				Row:   i + 1,
				Error: validation.Summary(err),
			})
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// mapHeader returns field name -> candidate column indexes in alias order.
// A header repeated verbatim only counts its first column.
func mapHeader(header []string) map[string][]int {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if i == 0 {
			key = strings.TrimPrefix(key, "\ufeff")
		}
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	columns := make(map[string][]int, len(columnAliases))
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if i, ok := positions[alias]; ok {
				columns[field] = append(columns[field], i)
			}
		}
	}
	return columns
}

func toRecord(columns map[string][]int, row []string) models.CustomerRecord {
	cell := func(field string) string {
		for _, i := range columns[field] {
			if i >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[i]); value != "" {
				return value
			}
		}
		return ""
	}

	record := models.CustomerRecord{
		Name:        cell("name"),
		Email:       cell("email"),
		PhoneNumber: cell("phone"),
		Status:      strings.ToLower(cell("status")),
	}
	if record.Status == "" {
		record.Status = models.StatusActive
	}
	return record
}

func dropBlankRows(rows [][]string) [][]string {
	kept := rows[:0:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")) != "" {
				kept = append(kept, row)
				break
			}
		}
	}
	return kept
}
