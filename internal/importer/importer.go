// Package importer provides CSV and Excel import of parcel lists.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []*model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Width    int
	Height   int
	Depth    int
	Weight   int
	Quantity int
	Priority int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "label", "parcel", "item", "description", "desc", "package"},
	"width":    {"width", "w", "x"},
	"height":   {"height", "h", "y"},
	"depth":    {"depth", "d", "length", "len", "z"},
	"weight":   {"weight", "kg", "mass"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"priority": {"priority", "pri", "prio", "urgency"},
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe. The delimiter
// that produces the most consistent column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each
// column role. Returns the mapping and true if a header was detected, or a
// default positional mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Name:     -1,
		Width:    -1,
		Height:   -1,
		Depth:    -1,
		Weight:   -1,
		Quantity: -1,
		Priority: -1,
	}

	assign := func(target *int, idx int) {
		if *target == -1 {
			*target = idx
		}
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "name":
					assign(&mapping.Name, i)
				case "width":
					assign(&mapping.Width, i)
				case "height":
					assign(&mapping.Height, i)
				case "depth":
					assign(&mapping.Depth, i)
				case "weight":
					assign(&mapping.Weight, i)
				case "quantity":
					assign(&mapping.Quantity, i)
				case "priority":
					assign(&mapping.Priority, i)
				}
			}
		}
	}

	if !isHeader {
		// Positional fallback: Name, Width, Height, Depth, Weight, Quantity, Priority
		return ColumnMapping{
			Name:     0,
			Width:    1,
			Height:   2,
			Depth:    3,
			Weight:   4,
			Quantity: 5,
			Priority: 6,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseScalar parses a positive decimal cell value.
func parseScalar(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("value must be positive")
	}
	return v, nil
}

// parseRow extracts parcels from a row using the given column mapping.
// Quantity expands into that many items sharing the same name with an index
// suffix. Returns the items, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) ([]*model.Item, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Parcel %d", itemCount+1)
	}

	dims := [3]decimal.Decimal{}
	for i, col := range []struct {
		label string
		idx   int
	}{
		{"width", mapping.Width},
		{"height", mapping.Height},
		{"depth", mapping.Depth},
	} {
		raw := getCell(row, col.idx)
		if raw == "" {
			return nil, fmt.Sprintf("%s: Missing %s value", rowLabel, col.label), ""
		}
		v, err := parseScalar(raw)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.label, raw), ""
		}
		dims[i] = v
	}

	weightStr := getCell(row, mapping.Weight)
	if weightStr == "" {
		return nil, fmt.Sprintf("%s: Missing weight value", rowLabel), ""
	}
	weight, err := parseScalar(weightStr)
	if err != nil {
		return nil, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), ""
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
	}

	var warning string
	priority := 0
	if priStr := getCell(row, mapping.Priority); priStr != "" {
		priority, err = strconv.Atoi(priStr)
		if err != nil {
			warning = fmt.Sprintf("%s: Unknown priority '%s', defaulting to 0", rowLabel, priStr)
			priority = 0
		}
	}

	size := space.NewVector3(dims[0], dims[1], dims[2])
	items := make([]*model.Item, 0, qty)
	if qty == 1 {
		items = append(items, model.NewItem(name, size, weight, priority))
	} else {
		for i := 0; i < qty; i++ {
			items = append(items, model.NewItem(fmt.Sprintf("%s_%d", name, i+1), size, weight, priority))
		}
	}
	return items, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// importFromRows converts raw rows into items, detecting the header row.
func importFromRows(records [][]string, rowLabel string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}

	mapping, hasHeader := DetectColumns(records[0])
	start := 0
	if hasHeader {
		start = 1
	}

	for i := start; i < len(records); i++ {
		row := records[i]
		if isEmptyRow(row) {
			continue
		}
		label := fmt.Sprintf("%s %d", rowLabel, i+1)
		items, errMsg, warning := parseRow(row, mapping, label, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Items = append(result.Items, items...)
	}

	if len(result.Items) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No parcels found in file")
	}

	return result
}

// ImportCSV imports parcels from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports parcels from a CSV reader with a specific
// delimiter. Useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports parcels from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Excel sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}
