// Package importer reads seed content (topics, vocabularies and tests) from
// CSV files or an xlsx workbook and loads it through the services.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

type TopicRow struct {
	Name        string
	Description string
}

type VocabularyRow struct {
	Topic    string
	Word     string
	Meaning  string
	Phonetic string
}

type TestRow struct {
	Topic         string
	Question      string
	CorrectAnswer string
	Option1       string
	Option2       string
	Option3       string
}

// Dataset is the parsed seed content. Rows reference topics by name.
type Dataset struct {
	Topics       []TopicRow
	Vocabularies []VocabularyRow
	Tests        []TestRow
}

// table describes one CSV file or workbook sheet.
type table struct {
	file     string
	sheet    string
	columns  []string
	required []string
}

var (
	topicsTable = table{
		file:     "topics.csv",
		sheet:    "Topics",
		columns:  []string{"name", "description"},
		required: []string{"name"},
	}
	vocabulariesTable = table{
		file:     "vocabularies.csv",
		sheet:    "Vocabularies",
		columns:  []string{"topic", "word", "meaning", "phonetic"},
		required: []string{"topic", "word", "meaning"},
	}
	testsTable = table{
		file:     "tests.csv",
		sheet:    "Tests",
		columns:  []string{"topic", "question", "correct_answer", "option1", "option2", "option3"},
		required: []string{"topic", "question", "correct_answer", "option1", "option2", "option3"},
	}
)

// ErrEmptyDataset is returned when no table could be found in the source.
var ErrEmptyDataset = errors.New("no topics, vocabularies or tests found")

// ReadPath reads a directory of CSV files or a single .xlsx workbook.
func ReadPath(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed source: %w", err)
	}
	if info.IsDir() {
		return ReadCSVDir(path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".xlsx" {
		return nil, fmt.Errorf("unsupported seed file %s (want a directory of CSV files or .xlsx)", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return ReadWorkbook(f)
}

// ReadCSVDir reads topics.csv, vocabularies.csv and tests.csv from dir.
// Missing files are skipped.
func ReadCSVDir(dir string) (*Dataset, error) {
	return readTables(func(t table) ([][]string, bool, error) {
		f, err := os.Open(filepath.Join(dir, t.file))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		defer f.Close()

		rows, err := readCSV(f)
		return rows, true, err
	})
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// ReadWorkbook reads the Topics, Vocabularies and Tests sheets. Missing sheets are skipped.
func ReadWorkbook(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	return readTables(func(t table) ([][]string, bool, error) {
		if !lo.Contains(sheets, t.sheet) {
			return nil, false, nil
		}
		rows, err := f.GetRows(t.sheet)
		return rows, true, err
	})
}

type rowSource func(t table) (rows [][]string, found bool, err error)

func readTables(src rowSource) (*Dataset, error) {
	ds := &Dataset{}
	found := 0

	load := func(t table, each func(rec map[string]string)) error {
		rows, ok, err := src(t)
		if err != nil {
			return fmt.Errorf("%s: %w", t.sheet, err)
		}
		if !ok {
			return nil
		}
		found++
		records, err := parseTable(t, rows)
		if err != nil {
			return fmt.Errorf("%s: %w", t.sheet, err)
		}
		for _, rec := range records {
			each(rec)
		}
		return nil
	}

	if err := load(topicsTable, func(rec map[string]string) {
		ds.Topics = append(ds.Topics, TopicRow{Name: rec["name"], Description: rec["description"]})
	}); err != nil {
		return nil, err
	}
	if err := load(vocabulariesTable, func(rec map[string]string) {
		ds.Vocabularies = append(ds.Vocabularies, VocabularyRow{
			Topic: rec["topic"], Word: rec["word"], Meaning: rec["meaning"], Phonetic: rec["phonetic"],
		})
	}); err != nil {
		return nil, err
	}
	if err := load(testsTable, func(rec map[string]string) {
		ds.Tests = append(ds.Tests, TestRow{
			Topic:         rec["topic"],
			Question:      rec["question"],
			CorrectAnswer: rec["correct_answer"],
			Option1:       rec["option1"],
			Option2:       rec["option2"],
			Option3:       rec["option3"],
		})
	}); err != nil {
		return nil, err
	}

	if found == 0 {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

// parseTable maps rows to records keyed by column name. The first row is the
// header; column order is free and unknown columns are ignored. Blank rows are skipped.
func parseTable(t table, rows [][]string) ([]map[string]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range t.required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []map[string]string
	for n, row := range rows[1:] {
		if lo.EveryBy(row, func(cell string) bool { return strings.TrimSpace(cell) == "" }) {
			continue
		}
		rec := make(map[string]string, len(t.columns))
		for _, col := range t.columns {
			if i, ok := index[col]; ok && i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			}
		}
		for _, col := range t.required {
			if rec[col] == "" {
				return nil, fmt.Errorf("row %d: %s is empty", n+2, col)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
