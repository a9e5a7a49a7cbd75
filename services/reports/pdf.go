package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"clinicbot/config"
	"clinicbot/models"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the report into the reports directory and returns the
// file path.
func (s *Service) WritePDF(report *models.FinancialReport) (string, error) {
	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports dir: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(config.AppConfig.ClinicName))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 10, tr(report.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 9)
	headers := []struct {
		label string
		width float64
	}{
		{"Hora", 18}, {"Paciente", 50}, {"Servicio", 45},
		{"Valor", 25}, {"Estado", 25}, {"Pago", 27},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, tr(h.label), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range report.Rows {
		hour := row.Time
		if row.Date != "" {
			hour = row.Date + " " + row.Time
		}
		payment := row.PaymentStatus
		if row.PaymentMethod != "" {
			payment += " (" + row.PaymentMethod + ")"
		}
		cells := []struct {
			value string
			width float64
		}{
			{hour, 18}, {row.PatientName, 50}, {row.ServiceName, 45},
			{fmt.Sprintf("$%.0f", row.Price), 25}, {row.Status, 25}, {payment, 27},
		}
		for _, c := range cells {
			pdf.CellFormat(c.width, 6, tr(c.value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Total esperado: $%.0f", report.TotalExpected)))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Total recaudado: $%.0f", report.TotalCollected)))
	pdf.Ln(10)

	if len(report.ByMethod) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 7, tr("Recaudo por método de pago:"))
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		for method, amount := range report.ByMethod {
			pdf.Cell(0, 6, tr(fmt.Sprintf("  %s: $%.0f", method, amount)))
			pdf.Ln(6)
		}
	}

	path := filepath.Join(s.outDir, fmt.Sprintf("informe_%s.pdf", time.Now().Format("20060102_150405")))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write report PDF: %w", err)
	}
	return path, nil
}
