package source

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/warp/pvf-engine/pvf"
)

// JSONFile reads a JSON array of records from disk.
type JSONFile struct {
	Path string
}

func (f *JSONFile) Fetch(_ context.Context) ([]pvf.EmployeeRecord, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open employees file: %w", err)
	}
	defer file.Close()

	return decodeJSON(file)
}

// CSVFile reads records from a CSV file whose header uses the feed keys
// (employeeid, firstname, ..., pvfrate). An empty pvfrate cell is nil.
type CSVFile struct {
	Path string
}

func (f *CSVFile) Fetch(_ context.Context) ([]pvf.EmployeeRecord, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open employees file: %w", err)
	}
	defer file.Close()

	return DecodeCSV(file)
}

// DecodeCSV parses CSV rows into records.
func DecodeCSV(r io.Reader) ([]pvf.EmployeeRecord, error) {
	var records []pvf.EmployeeRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("decode employees csv: %w", err)
	}
	return records, nil
}

// EncodeCSV writes derived records as CSV with a header row.
func EncodeCSV(w io.Writer, records []pvf.DerivedRecord) error {
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}
