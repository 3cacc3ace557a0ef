package importer

import (
	"bytes"
	"fmt"

	"github.com/alimgiray/gcrm/internal/models"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads the first sheet of a workbook whose first row is a header
func ParseXLSX(content []byte) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewFieldError("file", "Unreadable spreadsheet: "+err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, models.NewFieldError("file", "Spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return fromRows(rows)
}

const exportSheet = "Customers"

// WriteXLSX renders customers as a workbook using the importer's header names
func WriteXLSX(customers []*models.Customer) ([]byte, error) {
	sheetName := exportSheet
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}

	for i, customer := range customers {
		values := []string{customer.Name, customer.Email, customer.PhoneNumber, customer.Status}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellStr(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse dispatches on format
func Parse(format Format, content []byte) (*Result, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(content)
	case FormatXLSX:
		return ParseXLSX(content)
	default:
		return nil, models.NewFieldError("file", fmt.Sprintf("Unsupported file format %q", format))
	}
}
