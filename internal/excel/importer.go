package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/tracker"
	"github.com/example/ankicode/pkg/models"
)

// ProblemAdder adds one problem to a user's plan
type ProblemAdder interface {
	AddProblem(ctx context.Context, userID int64, in tracker.NewProblem) (*models.Problem, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	LeetcodeIDColumn string // Column with the LeetCode problem number
	DeadlineColumn   string // Column with the deadline date
	NotesColumn      string // Column with free-form notes
	SheetName        string // Sheet to import; empty means the active sheet
	StartRow         int    // The row to start importing from (1-based index)
	// Location the deadline dates are in
	Location *time.Location
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		LeetcodeIDColumn: "A",
		DeadlineColumn:   "B",
		NotesColumn:      "C",
		StartRow:         2, // By default, start from the second row (skip header)
		Location:         time.UTC,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int // already in the user's list
	Errors         []string
}

// ImportProblems imports problems from an Excel or CSV file for userID.
// Row failures are collected in the result; only an unreadable file is an error.
func ImportProblems(ctx context.Context, adder ProblemAdder, userID int64, config ImportConfig) (*ImportResult, error) {
	if config.StartRow < 1 {
		config.StartRow = 1
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow || blank(row) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		result.TotalProcessed++
		if err := processRow(ctx, adder, userID, row, config, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", rowNum, apperr.Message(err)))
		}
	}
	return result, nil
}

// readExcel returns the raw cell values of the configured sheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	// raw values keep dates as serial numbers instead of locale-formatted text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow adds the problem described by one row
func processRow(ctx context.Context, adder ProblemAdder, userID int64, row []string, config ImportConfig, result *ImportResult) error {
	idText := cell(row, config.LeetcodeIDColumn)
	deadlineText := cell(row, config.DeadlineColumn)
	notes := cell(row, config.NotesColumn)

	leetcodeID, err := strconv.Atoi(strings.TrimPrefix(idText, "#"))
	if err != nil || leetcodeID <= 0 {
		return apperr.Validation("invalid leetcode id %q", idText)
	}
	deadline, err := parseDeadline(deadlineText, config.Location)
	if err != nil {
		return err
	}

	_, err = adder.AddProblem(ctx, userID, tracker.NewProblem{
		LeetcodeID: leetcodeID,
		Deadline:   deadline,
		Notes:      notes,
	})
	switch {
	case errors.Is(err, apperr.ErrDuplicate):
		result.Skipped++
		return nil
	case err != nil:
		return err
	}
	result.Created++
	return nil
}

var deadlineLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04",
	"1/2/2006",
	"1/2/06",
	"2006-01-02T15:04:05Z07:00",
}

// parseDeadline accepts an Excel date serial or one of deadlineLayouts.
// Date-only values mean midnight in loc.
func parseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Validation("deadline is required")
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, apperr.Validation("invalid deadline %q", s)
		}
		// serials carry no zone; read the wall clock in loc
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("invalid deadline %q", s)
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
