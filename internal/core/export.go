package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/412449-PICCO/generadorDiplos/internal/model"
)

var exportHeader = []string{"Name", "Email", "Slug", "URL", "Views", "Created", "Asset URL"}

// Exporter writes certificate records as CSV or XLSX.
type Exporter struct {
	appURL string
}

func NewExporter(appURL string) *Exporter {
	return &Exporter{appURL: strings.TrimRight(appURL, "/")}
}

func (e *Exporter) row(c *model.Certificate) []string {
	return []string{
		c.Name,
		c.Email,
		c.Slug,
		e.appURL + "/certificate/" + c.Slug,
		fmt.Sprintf("%d", c.ViewCount),
		c.CreatedAt.Format(time.RFC3339),
		c.AssetURL,
	}
}

// WriteCSV writes all records as CSV, header first.
func (e *Exporter) WriteCSV(w io.Writer, certs []model.Certificate) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range certs {
		if err := cw.Write(e.row(&certs[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes all records as a single-sheet spreadsheet.
func (e *Exporter) WriteXLSX(w io.Writer, certs []model.Certificate) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Certificates"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write sheet header: %w", err)
	}

	for i := range certs {
		row := e.row(&certs[i])
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locate sheet row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write sheet row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
