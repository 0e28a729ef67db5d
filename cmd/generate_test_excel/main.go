package main

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

func main() {
	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Pembayaran Angsuran"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		fmt.Printf("Error creating sheet: %v\n", err)
		return
	}

	// Set headers
	headers := []string{"No Pinjaman", "Bulan Ke", "Tanggal Bayar", "Keterangan"}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Test data: loan numbers must exist in the target database. The
	// last rows deliberately carry bad values to exercise the per-row
	// error report.
	testData := [][]interface{}{
		{"RS20260105-0001", 1, "2026-02-05", "Pembayaran tunai loket"},
		{"RS20260105-0001", 2, "2026-03-05", "Pembayaran tunai loket"},
		{"RS20260112-0042", 1, "2026-02-12", "Transfer bank"},
		{"RS20260112-0042", 2, "2026-03-12", "Transfer bank"},
		{"RS20260120-0007", 1, "2026-02-20", "Potong gaji"},

		// Invalid rows
		{"PINJAMAN-XYZ", 1, "2026-02-01", "Nomor pinjaman salah format"},
		{"RS20260105-0001", 0, "2026-02-01", "Bulan ke nol"},
		{"RS20260105-0001", 3, "bukan-tanggal", "Tanggal tidak terbaca"},
	}

	for i, row := range testData {
		rowNum := i + 2
		for j, v := range row {
			cell := fmt.Sprintf("%s%d", getColumnName(j), rowNum)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 32)

	// Delete default sheet and save
	f.DeleteSheet("Sheet1")

	outputPath := filepath.Join(".", "test_import_angsuran.xlsx")
	if err := f.SaveAs(outputPath); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		return
	}

	fmt.Printf("Test file created: %s\n", outputPath)
	fmt.Printf("Rows: %d data (last 3 invalid)\n", len(testData))
}

func getColumnName(index int) string {
	name, _ := excelize.ColumnNumberToName(index + 1)
	return name
}
