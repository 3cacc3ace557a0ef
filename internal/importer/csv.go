package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/alimgiray/gcrm/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads comma separated content whose first row is a header
func ParseCSV(content []byte) (*Result, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, models.NewFieldError("file", "Malformed CSV: "+parseErr.Error())
			}
			return nil, err
		}
		rows = append(rows, row)
	}

	return fromRows(rows)
}
