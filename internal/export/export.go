// Package export writes the account ledger as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/christo725/family-bank-app/internal/fileutils"
	"github.com/christo725/family-bank-app/internal/ledger"
	"github.com/christo725/family-bank-app/internal/logging"
	"github.com/christo725/family-bank-app/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter separates CSV fields unless the caller asks otherwise.
const DefaultDelimiter = ','

// Row is one exported ledger line. Money is written with two decimals.
type Row struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Kind        string `csv:"Kind"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Amount"`
	Balance     string `csv:"Balance"`
	ID          string `csv:"ID"`
}

// Rows flattens a ledger into export rows, oldest first.
func Rows(l ledger.Ledger) []Row {
	rows := make([]Row, 0, len(l.Rows))
	for _, r := range l.Rows {
		typ := string(r.Type)
		if r.Kind == models.KindManual {
			typ = string(models.Deposit)
			if r.Amount.IsNegative() {
				typ = string(models.Withdrawal)
			}
		}
		rows = append(rows, Row{
			Date:        r.Date.String(),
			Description: r.Label,
			Kind:        string(r.Kind),
			Type:        typ,
			Amount:      r.Amount.StringFixed(2),
			Balance:     r.Balance.StringFixed(2),
			ID:          r.ID,
		})
	}
	return rows
}

// WriteLedger writes l to w with a header line.
func WriteLedger(w io.Writer, l ledger.Ledger, delim rune) error {
	if delim == 0 {
		delim = DefaultDelimiter
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delim

	if err := gocsv.MarshalCSV(Rows(l), gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteLedgerFile writes l to csvFile, creating its directory if needed.
func WriteLedgerFile(csvFile string, l ledger.Ledger, delim rune, log logging.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithFields(logging.F(logging.FieldFile, csvFile), logging.F(logging.FieldCount, len(l.Rows)))
	log.Info("Writing ledger to CSV file")

	file, err := fileutils.CreateFile(csvFile, models.PermissionDirectory)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteLedger(file, l, delim); err != nil {
		log.WithError(err).Error("Failed to write CSV file")
		return err
	}
	log.Debug("Ledger written")
	return nil
}
