package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"koperasi-web/internal/models"
	"koperasi-web/internal/utils"
)

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

var importHeaders = []string{"No Pinjaman", "Bulan Ke", "Tanggal Bayar", "Keterangan"}

// ParseAngsuranImport reads a bulk repayment workbook. Rows that fail
// validation are reported per row/field and never reach the database;
// valid rows are returned for the loan service to apply.
func (s *ExcelService) ParseAngsuranImport(filePath string) ([]models.AngsuranImportRow, []models.AngsuranImportError, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain at least header row and one data row")
	}
	if len(rows[0]) < len(importHeaders) {
		return nil, nil, fmt.Errorf("invalid header format")
	}

	var valid []models.AngsuranImportRow
	var invalid []models.AngsuranImportError

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		noPinjaman := getCellValue(row, 0)
		if noPinjaman == "" {
			continue // Skip empty rows
		}
		if !utils.IsValidNoPinjaman(noPinjaman) {
			invalid = append(invalid, models.AngsuranImportError{
				Row: rowNum, Field: "no_pinjaman", Value: noPinjaman,
				Message: "format nomor pinjaman tidak valid",
			})
			continue
		}

		bulanStr := getCellValue(row, 1)
		bulanKe, err := strconv.Atoi(bulanStr)
		if err != nil || bulanKe < 1 {
			invalid = append(invalid, models.AngsuranImportError{
				Row: rowNum, Field: "bulan_ke", Value: bulanStr,
				Message: "bulan ke harus bilangan bulat positif",
			})
			continue
		}

		tanggalStr := getCellValue(row, 2)
		tanggal, err := parseDate(tanggalStr)
		if err != nil {
			invalid = append(invalid, models.AngsuranImportError{
				Row: rowNum, Field: "tanggal_bayar", Value: tanggalStr,
				Message: "tanggal tidak dapat dibaca",
			})
			continue
		}

		valid = append(valid, models.AngsuranImportRow{
			NoPinjaman:   noPinjaman,
			BulanKe:      bulanKe,
			TanggalBayar: tanggal,
			Keterangan:   getCellValue(row, 3),
		})
	}

	return valid, invalid, nil
}

// BuatTemplateImport writes the bulk repayment import template with one
// sample row.
func (s *ExcelService) BuatTemplateImport(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Pembayaran Angsuran"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range importHeaders {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}
	styleHeader(f, sheetName, len(importHeaders))

	sample := []interface{}{"RS20260101-0001", 1, "2026-02-01", "Pembayaran tunai"}
	for i, v := range sample {
		cell := fmt.Sprintf("%s2", getColumnName(i))
		f.SetCellValue(sheetName, cell, v)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

// ExportPortfolio exports the loan portfolio rollup.
func (s *ExcelService) ExportPortfolio(rows []models.PortfolioRow, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Portofolio Pinjaman"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		"No Pinjaman", "Nama Anggota", "Jumlah Pinjaman", "Tenor",
		"Status", "Angsuran Lunas", "Sisa Tagihan", "Tanggal Cair",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}
	styleHeader(f, sheetName, len(headers))

	for i, row := range rows {
		rowNum := i + 2
		tanggalCair := ""
		if row.TanggalCair != nil {
			tanggalCair = row.TanggalCair.Format("2006-01-02")
		}
		values := []interface{}{
			row.NoPinjaman, row.NamaAnggota, row.JumlahPinjaman, row.Tenor,
			row.Status, row.AngsuranLunas, row.SisaTagihan, tanggalCair,
		}
		for j, v := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(j), rowNum)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 20)
	f.SetColWidth(sheetName, "C", "H", 15)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

// ExportAnalisaPinjaman exports one loan's analysis: the computed
// terms, the deduction breakdown, and the full schedule.
func (s *ExcelService) ExportAnalisaPinjaman(detail *DetailPinjaman, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Analisa Pinjaman"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	p := detail.Pinjaman
	summary := [][]interface{}{
		{"No Pinjaman", p.NoPinjaman},
		{"Nama Anggota", detail.Anggota.Nama},
		{"Jumlah Pinjaman", p.JumlahPinjaman},
		{"Tenor", p.Tenor},
		{"Jenis Bunga", p.JenisBunga},
		{"Nilai Bunga", p.NilaiBunga},
		{"Status", p.Status},
	}
	if detail.Rincian != nil {
		summary = append(summary,
			[]interface{}{"Total Bunga", detail.Rincian.TotalBunga},
			[]interface{}{"Total Tagihan", detail.Rincian.TotalTagihan},
			[]interface{}{"Angsuran Bulanan", detail.Rincian.AngsuranBulanan},
		)
	}
	if detail.RincianPotongan != nil {
		summary = append(summary,
			[]interface{}{"Total Potongan", p.Potongan},
			[]interface{}{"Potongan Pokok", detail.RincianPotongan.Pokok},
			[]interface{}{"Potongan Bunga", detail.RincianPotongan.Bunga},
		)
	}

	for i, pair := range summary {
		rowNum := i + 1
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), pair[0])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), pair[1])
	}

	// Schedule table below the summary block
	startRow := len(summary) + 2
	scheduleHeaders := []string{"Bulan Ke", "Jumlah", "Jatuh Tempo", "Status", "Tanggal Bayar"}
	for i, header := range scheduleHeaders {
		cell := fmt.Sprintf("%s%d", getColumnName(i), startRow)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, a := range detail.Jadwal {
		rowNum := startRow + i + 1
		tanggalBayar := ""
		if a.TanggalBayar != nil {
			tanggalBayar = a.TanggalBayar.Format("2006-01-02")
		}
		values := []interface{}{
			a.BulanKe, a.Jumlah, a.JatuhTempo.Format("2006-01-02"), a.Status, tanggalBayar,
		}
		for j, v := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(j), rowNum)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "E", 18)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

// ExportImportErrors writes the per-row error report for a bulk
// repayment import.
func (s *ExcelService) ExportImportErrors(result *models.AngsuranImportResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Errors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{"Row", "Field", "Message", "Value"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}
	styleHeader(f, sheetName, len(headers))

	for i, rowErr := range result.Errors {
		rowNum := i + 2
		values := []interface{}{rowErr.Row, rowErr.Field, rowErr.Message, rowErr.Value}
		for j, v := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(j), rowNum)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	// Summary section below the error table
	summaryStartRow := len(result.Errors) + 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow), "Import Summary")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+1), "Total Rows:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+1), result.TotalRows)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+2), "Paid:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+2), result.PaidCount)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+3), "Skipped:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+3), result.SkippedCount)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+4), "Errors:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+4), result.ErrorCount)

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 45)
	f.SetColWidth(sheetName, "D", "D", 25)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")
	return f.SaveAs(outputPath)
}

func styleHeader(f *excelize.File, sheetName string, cols int) {
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(cols-1)), headerStyle)
}

func getCellValue(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

func getColumnName(index int) string {
	name, _ := excelize.ColumnNumberToName(index + 1)
	return name
}

func parseDate(s string) (time.Time, error) {
	formats := []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05", "02-01-2006"}
	for _, format := range formats {
		if t, err := time.Parse(format, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %s", s)
}
