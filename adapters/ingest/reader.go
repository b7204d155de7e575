// Package ingest loads the retail transaction file into an immutable
// dataset handle. It is the only component that touches the filesystem;
// everything downstream consumes the handle it returns.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"spendlens/domain/retail"
)

// Required columns in the source file, by header name.
const (
	colUserID          = "User_ID"
	colProductID       = "Product_ID"
	colGender          = "Gender"
	colAge             = "Age"
	colOccupation      = "Occupation"
	colCityCategory    = "City_Category"
	colStayYears       = "Stay_In_Current_City_Years"
	colMaritalStatus   = "Marital_Status"
	colProductCategory = "Product_Category"
	colPurchase        = "Purchase"
)

var requiredColumns = []string{
	colUserID, colProductID, colGender, colAge, colOccupation,
	colCityCategory, colMaritalStatus, colProductCategory, colPurchase,
}

// DataReader reads transaction data from CSV or XLSX files.
type DataReader struct {
	filePath string
	fileType string // "csv" or "xlsx"
	sheet    string
	log      zerolog.Logger
}

// NewDataReader creates a reader for the given file; the format is chosen
// by extension.
func NewDataReader(filePath string, log zerolog.Logger) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: "Sheet1", log: log}
}

// WithSheet overrides the worksheet name for XLSX sources.
func (r *DataReader) WithSheet(sheet string) *DataReader {
	if sheet != "" {
		r.sheet = sheet
	}
	return r
}

// Read loads the file into a dataset. Rows with a missing or unparseable
// purchase amount are skipped; the dataset drops non-positive amounts on
// top of that.
func (r *DataReader) Read(ctx context.Context) (*retail.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows(ctx)
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("data file must have a header row and at least one data row")
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	txns := make([]retail.Transaction, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		txn, ok := parseRow(row, columns)
		if !ok {
			skipped++
			continue
		}
		txns = append(txns, txn)
	}

	ds := retail.NewDataset(txns)
	r.log.Info().
		Str("file", r.filePath).
		Int("rows", ds.Len()).
		Int("skipped", skipped+ds.Dropped()).
		Msg("dataset loaded")
	return ds, nil
}

func (r *DataReader) readCSVRows(ctx context.Context) ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}
	return rows, nil
}

// mapColumns resolves header names to indexes and verifies the schema.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int) (retail.Transaction, bool) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	purchase, err := strconv.ParseFloat(field(colPurchase), 64)
	if err != nil {
		return retail.Transaction{}, false
	}
	occupation, err := strconv.Atoi(field(colOccupation))
	if err != nil {
		return retail.Transaction{}, false
	}
	productCategory, err := strconv.Atoi(field(colProductCategory))
	if err != nil {
		return retail.Transaction{}, false
	}
	married := field(colMaritalStatus) == "1"

	stayYears := ""
	if idx, ok := columns[colStayYears]; ok && idx < len(row) {
		stayYears = strings.TrimSpace(row[idx])
	}

	return retail.Transaction{
		UserID:          field(colUserID),
		ProductID:       field(colProductID),
		Gender:          retail.Gender(field(colGender)),
		Age:             retail.AgeBracket(field(colAge)),
		Occupation:      occupation,
		City:            retail.CityCategory(field(colCityCategory)),
		StayYears:       stayYears,
		Married:         married,
		ProductCategory: productCategory,
		Purchase:        purchase,
	}, true
}
