package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quizforge/backend/internal/domain/questionbank"
)

// Column order of an import sheet. The first row is a header and is skipped.
const (
	colTopic = iota
	colDifficulty
	colKind
	colQuestion
	colOptions
	colAnswer
	colExplanation
)

// OptionSeparator splits the options cell of a multiple choice row.
const OptionSeparator = "|"

// ErrUnsupportedFormat is returned for anything other than .xlsx or .csv.
var ErrUnsupportedFormat = errors.New("unsupported file format: use .xlsx or .csv")

// Result holds the outcome of an import. Rows that fail validation are
// reported in Errors and left out of Questions.
type Result struct {
	TotalProcessed int
	Questions      []questionbank.Question
	Errors         []string
}

// Import reads questions from r, choosing the parser from filename's extension.
func Import(filename string, r io.Reader) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return importFromExcel(r)
	case ".csv":
		return importFromCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// importFromExcel reads the first sheet of an xlsx workbook.
func importFromExcel(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &Result{Errors: make([]string, 0)}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		processRow(row, i+1, result)
	}
	return result, nil
}

func importFromCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	result := &Result{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum == 1 {
			continue
		}
		processRow(row, rowNum, result)
	}
	return result, nil
}

func processRow(row []string, rowNum int, result *Result) {
	if isBlank(row) {
		return
	}
	result.TotalProcessed++

	q, err := parseRow(row)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		return
	}
	result.Questions = append(result.Questions, q)
}

func parseRow(row []string) (questionbank.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	difficulty, err := questionbank.ParseDifficulty(strings.ToLower(cell(colDifficulty)))
	if err != nil {
		return questionbank.Question{}, err
	}
	kind, err := questionbank.ParseKind(strings.ToLower(cell(colKind)))
	if err != nil {
		return questionbank.Question{}, err
	}

	q := questionbank.Question{
		Topic:       cell(colTopic),
		Difficulty:  difficulty,
		Kind:        kind,
		Prompt:      cell(colQuestion),
		Answer:      cell(colAnswer),
		Explanation: cell(colExplanation),
	}
	if kind == questionbank.KindMultipleChoice {
		for _, opt := range strings.Split(cell(colOptions), OptionSeparator) {
			if opt = strings.TrimSpace(opt); opt != "" {
				q.Options = append(q.Options, opt)
			}
		}
	}

	if err := q.Validate(); err != nil {
		return questionbank.Question{}, err
	}
	return q, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
