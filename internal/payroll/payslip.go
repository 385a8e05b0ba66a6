package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

func payslipKey(employeeID, month string) string {
	return fmt.Sprintf("payslip-%s-%s.pdf", employeeID, month)
}

// buildPayslipSections flattens a payroll record into the printable lines of
// the payslip document, top to bottom.
func buildPayslipSections(record *PayrollRecord) []string {
	paymentDate := "-"
	if record.PaymentDate != nil {
		paymentDate = record.PaymentDate.Format("2006-01-02")
	}

	lines := []string{
		fmt.Sprintf("Payslip - %s", record.Month),
		fmt.Sprintf("Payment Date: %s", paymentDate),
		"",
	}

	if emp := record.Employee; emp != nil {
		lines = append(lines,
			fmt.Sprintf("Employee: %s", emp.Name),
			fmt.Sprintf("Role: %s", emp.Role),
			fmt.Sprintf("Department: %s", emp.Department),
			"",
		)
	}

	lines = append(lines,
		"Earnings",
		fmt.Sprintf("  Basic: %.2f", record.Breakdown.Basic),
		fmt.Sprintf("  HRA: %.2f", record.Breakdown.HRA),
		fmt.Sprintf("  Conveyance: %.2f", record.Breakdown.Conveyance),
		fmt.Sprintf("  Medical: %.2f", record.Breakdown.Medical),
		"",
		"Deductions",
		fmt.Sprintf("  Provident Fund: %.2f", record.Breakdown.PF),
		fmt.Sprintf("  Income Tax: %.2f", record.Breakdown.Tax),
		fmt.Sprintf("  Other: %.2f", record.Breakdown.OtherDeductions),
		"",
		fmt.Sprintf("Gross Salary: %.2f", record.Breakdown.Basic+record.Breakdown.HRA+record.Breakdown.Conveyance+record.Breakdown.Medical),
		fmt.Sprintf("Net Salary: %.2f", record.NetSalary),
		"",
		"Attendance",
		fmt.Sprintf("  Working Days: %d", record.Attendance.WorkingDays),
		fmt.Sprintf("  Effective Days: %.2f", record.Attendance.PresentDays),
		fmt.Sprintf("  Approved Leave Days: %d", record.Attendance.LeaveDays),
	)

	return lines
}

// renderPayslip emits a single-page PDF containing the given lines. The
// document is built by hand: one page, one Helvetica font object, one content
// stream, then the xref table and trailer.
func renderPayslip(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
