package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportHeader is the header row written by WriteCSV.
var ExportHeader = []string{"Name", "Address", "Country Code", "Mobile Number", "Age"}

// WriteCSV writes records in display order with a header row.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range records {
		row := []string{r.Name, r.Address, r.CountryCode, r.MobileNumber, r.Age}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
