// Package output serializes link records to the formats the tool supports.
package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/Houeta/transitlink/internal/models"
)

// Format selects the output serialization.
type Format string

const (
	// FormatCSV writes a two-column CSV with an Address,YandexMapsLink header.
	FormatCSV Format = "csv"
	// FormatPairs writes "address/link" records separated by blank lines.
	FormatPairs Format = "pairs"
)

// Valid reports whether f is a supported output format.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatPairs
}

// Write serializes records to path in the requested format, replacing any
// existing file.
func Write(path string, format Format, records []models.LinkRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatCSV:
		err = writeCSV(file, records)
	case FormatPairs:
		err = writePairs(file, records)
	default:
		err = fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return err
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	return nil
}

func writeCSV(file *os.File, records []models.LinkRecord) error {
	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Address", "YandexMapsLink"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write([]string{record.Address, record.Link}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

func writePairs(file *os.File, records []models.LinkRecord) error {
	writer := bufio.NewWriter(file)

	for _, record := range records {
		if _, err := fmt.Fprintf(writer, "%s/%s\n\n", record.Address, record.Link); err != nil {
			return fmt.Errorf("failed to write pair: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush pairs: %w", err)
	}

	return nil
}
