package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/drillbot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath            string // Path to the Excel or CSV file
	KeyColumn           string // Column with the character or word
	AnswerColumn        string // Column with the expected answer
	PronunciationColumn string // Column with the pronunciation
	TranslationColumn   string // Column with the translation
	ExampleColumn       string // Column with the example sentence
	SheetName           string // Name of the sheet to import
	StartRow            int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		KeyColumn:           "A",
		AnswerColumn:        "B",
		PronunciationColumn: "C",
		TranslationColumn:   "D",
		ExampleColumn:       "E",
		SheetName:           "Sheet1",
		StartRow:            2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Skipped        int
	Errors         []string
	Items          []models.Item // Imported items in file order
}

// ImportDeck reads deck items from an Excel or CSV file
func ImportDeck(config ImportConfig) (*ImportResult, error) {
	// Check the file extension
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel reads items from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rows")
	}

	result := newImportResult()
	seen := make(map[string]bool)
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		processRow(row, config, result, seen, i+1)
	}
	return result, nil
}

// importFromCSV reads items from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	result := newImportResult()
	seen := make(map[string]bool)
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "error reading CSV")
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		processRow(row, config, result, seen, rowNum)
	}
	return result, nil
}

func newImportResult() *ImportResult {
	return &ImportResult{Errors: make([]string, 0)}
}

// processRow turns one row into an item, recording problems in result
func processRow(row []string, config ImportConfig, result *ImportResult, seen map[string]bool, rowNum int) {
	if isBlank(row) {
		return
	}
	result.TotalProcessed++

	item := models.Item{
		Key:           cleanWord(cell(row, config.KeyColumn)),
		Answer:        strings.TrimSpace(cell(row, config.AnswerColumn)),
		Pronunciation: strings.TrimSpace(cell(row, config.PronunciationColumn)),
		Translation:   strings.TrimSpace(cell(row, config.TranslationColumn)),
		Example:       strings.TrimSpace(cell(row, config.ExampleColumn)),
	}

	switch {
	case item.Key == "":
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: key cannot be empty", rowNum))
		result.Skipped++
		return
	case item.Answer == "":
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: answer cannot be empty", rowNum))
		result.Skipped++
		return
	case seen[item.Key]:
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: duplicate key %q", rowNum, item.Key))
		result.Skipped++
		return
	}

	if item.Translation == "" {
		item.Translation = item.Answer
	}
	seen[item.Key] = true
	result.Items = append(result.Items, item)
}

// cell returns the value in a column, or "" when the column is unset or
// beyond the row
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanWord removes trailing notes in brackets, "go (went, gone)" becomes "go"
func cleanWord(word string) string {
	if idx := strings.Index(word, "("); idx > 0 {
		return strings.TrimSpace(word[:idx])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
