package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/nemo-delft/project-catalog/errs"
	"github.com/nemo-delft/project-catalog/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// defaultStudentName is used for the fixed-layout spreadsheet shape, which
// carries no per-row author column.
const defaultStudentName = "NEMO x Delft"

var workbookExtensions = map[string]bool{
	"xlsx": true,
	"xlsm": true,
	"xltx": true,
	"xltm": true,
}

// RowError records one skipped or failed input row
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult is the outcome of one import run: rows created plus every
// per-row failure. A failed row never aborts the batch.
type ImportResult struct {
	Created int        `json:"created"`
	Errors  []RowError `json:"errors"`
}

// ProjectStore is the slice of the repository the importer needs
type ProjectStore interface {
	Add(project *models.Project) error
}

// Importer converts loosely-structured tabular files into project records.
// Column matching is best-effort: rows missing required fields are recorded
// as errors and skipped, everything else is created immediately.
type Importer struct {
	projects ProjectStore
	logger   zerolog.Logger
}

func NewImporter(projects ProjectStore) *Importer {
	return &Importer{
		projects: projects,
		logger:   log.With().Str("service", "importer").Logger(),
	}
}

// ImportFile dispatches on the file extension before reading any row:
// CSV files use a permissive header-at-row-1 lookup, workbook files use the
// fixed layout with the header on row 2 and data from row 3. Anything else
// is rejected.
func (imp *Importer) ImportFile(filename string, data []byte) (*ImportResult, error) {
	ext := FileExtension(filename)

	var rows []map[string]string
	var err error
	switch {
	case ext == "csv":
		rows, err = parseCSV(data)
	case workbookExtensions[ext]:
		rows, err = parseWorkbook(data)
	default:
		return nil, errs.NewBadRequestError("unsupported file type, use CSV or XLSX")
	}
	if err != nil {
		return nil, errs.NewBadRequestError(fmt.Sprintf("failed to parse file: %v", err))
	}

	result := &ImportResult{Errors: make([]RowError, 0)}
	// Data rows are numbered from 2: row 1 is the header in generic mode.
	for i, row := range rows {
		rowNum := i + 2
		if err := imp.createFromRow(row); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Error: err.Error()})
			continue
		}
		result.Created++
	}

	imp.logger.Info().
		Str("filename", filename).
		Int("created", result.Created).
		Int("failed", len(result.Errors)).
		Msg("import finished")
	return result, nil
}

// createFromRow maps one normalized row onto a project creation call
func (imp *Importer) createFromRow(row map[string]string) error {
	title := pick(row, "title")
	studentName := pick(row, "student_name")
	if studentName == "" {
		studentName = pick(row, "student")
	}
	if studentName == "" {
		studentName = pick(row, "student name")
	}
	if title == "" || studentName == "" {
		return fmt.Errorf("missing required 'title' or 'student_name'")
	}

	project := models.Project{
		Title:       strings.TrimSpace(title),
		StudentName: strings.TrimSpace(studentName),
	}
	if category := strings.TrimSpace(pick(row, "category")); category != "" {
		project.Category = &category
	}
	if tagsRaw := pick(row, "tags"); tagsRaw != "" {
		project.Tags = models.JoinTags(models.SplitList(tagsRaw))
	}
	description := pick(row, "description")
	if description == "" {
		description = pick(row, "desc")
	}
	if description = strings.TrimSpace(description); description != "" {
		project.Description = &description
	}
	if yearRaw := strings.TrimSpace(pick(row, "year")); yearRaw != "" {
		if year, err := strconv.Atoi(yearRaw); err == nil {
			project.Year = &year
		}
	}

	return imp.projects.Add(&project)
}

// pick looks a key up under five case/format variants, returning the first
// non-blank value.
func pick(row map[string]string, key string) string {
	variants := []string{
		key,
		strings.ToLower(key),
		strings.ReplaceAll(key, " ", "_"),
		titleCase(key),
		strings.ToUpper(key),
	}
	for _, variant := range variants {
		if value, ok := row[variant]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// titleCase capitalizes the first letter after any non-letter, so
// "student_name" becomes "Student_Name" and "student name" becomes
// "Student Name". Headers exported with that convention still match.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// parseCSV reads a header-at-row-1 CSV into one map per data row
func parseCSV(data []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseWorkbook reads the known external spreadsheet shape: headers live on
// row 2, data starts on row 3, and columns are resolved semantically rather
// than positionally. Each row is normalized to the generic keys so creation
// goes through the same path as CSV rows.
func parseWorkbook(data []byte) ([]map[string]string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(workbook.GetActiveSheetIndex())
	cells, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(cells) < 3 {
		return nil, nil
	}

	headers := make([]string, len(cells[1]))
	for i, header := range cells[1] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	rows := make([]map[string]string, 0, len(cells)-2)
	for _, record := range cells[2:] {
		raw := make(map[string]string, len(headers))
		for i, value := range record {
			key := fmt.Sprintf("col%d", i)
			if i < len(headers) {
				key = headers[i]
			}
			raw[key] = value
		}

		title := firstOf(raw, "project title", "title")
		description := firstOf(raw, "short description   (note with further details)", "description")
		category := firstOf(raw, "physics themes", "category")

		var tags []string
		if v := strings.TrimSpace(raw["interaction types"]); v != "" {
			tags = append(tags, v)
		}
		if v := strings.TrimSpace(raw["status"]); v != "" {
			tags = append(tags, v)
		}

		row := map[string]string{
			"title":        title,
			"student_name": defaultStudentName,
			"category":     category,
			"tags":         strings.Join(tags, ","),
			"description":  description,
			"year":         "",
		}
		if year := deriveYear(raw["date"]); year != nil {
			row["year"] = strconv.Itoa(*year)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func firstOf(row map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(row[key]); value != "" {
			return value
		}
	}
	return ""
}

// deriveYear turns a date-like cell into a year. A plain 4-digit value is
// the year itself. A hyphenated value like "23-24" resolves its trailing
// part as a 2-digit year with a pivot at 70 (23-24 -> 2024, 68-69 -> 1969,
// 70-71 -> 1971). Anything unparseable yields no year rather than an error.
func deriveYear(value string) *int {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	if len(s) == 4 && isDigits(s) {
		year, _ := strconv.Atoi(s)
		return &year
	}
	if !strings.Contains(s, "-") {
		return nil
	}

	end := s[strings.LastIndex(s, "-")+1:]
	var digits strings.Builder
	for _, r := range end {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	trailing := digits.String()
	if trailing == "" {
		return nil
	}
	if len(trailing) > 2 {
		trailing = trailing[len(trailing)-2:]
	}
	yy, err := strconv.Atoi(trailing)
	if err != nil {
		return nil
	}
	year := 1900 + yy
	if yy < 70 {
		year = 2000 + yy
	}
	return &year
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
