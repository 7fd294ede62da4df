package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// GeneratePayslipPDF renders a payslip document and records its path on the
// payslip row. The caller decides whether a failure matters; the payroll
// figures are already persisted by the time this runs.
func (s *Service) GeneratePayslipPDF(ctx context.Context, payslipID string) (string, error) {
	slip, err := s.store.GetPayslip(ctx, payslipID)
	if err != nil {
		return "", err
	}

	dir := s.payslipDir
	if dir == "" {
		dir = "storage/payslips"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, slip.ID+".pdf")

	paye, employeeSuper := splitDeductions(slip)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "KaiaWorks Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Worker: %s", slip.WorkerName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		slip.PeriodStart.Format("2006-01-02"), slip.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Hours: %.2f at %s/hour", slip.TotalHours, formatKina(slip.HourlyRate)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Gross pay: %s", formatKina(slip.GrossPay)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("PAYE withheld: %s", formatKina(paye)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee super (6%%): %s", formatKina(employeeSuper)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total deductions: %s", formatKina(slip.Deductions)))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %s", formatKina(slip.NetPay)))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if err := s.store.UpdatePayslipFile(ctx, slip.ID, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

// splitDeductions recovers the super portion of the stored deductions total
// for display. Super is a fixed share of gross, so it reconstructs exactly;
// the remainder is PAYE plus any other deductions.
func splitDeductions(slip Payslip) (paye, employeeSuper float64) {
	employeeSuper = round2(slip.GrossPay * EmployeeSuperRate)
	paye = round2(slip.Deductions - employeeSuper)
	if paye < 0 {
		paye = 0
	}
	return paye, employeeSuper
}

func formatKina(amount float64) string {
	return fmt.Sprintf("K %.2f", amount)
}
