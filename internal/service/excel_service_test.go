package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildImportFile(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Pembayaran Angsuran"
	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.DeleteSheet("Sheet1")

	for i, header := range importHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseAngsuranImport(t *testing.T) {
	svc := NewExcelService()

	path := buildImportFile(t, [][]interface{}{
		{"RS20260105-0001", 1, "2026-02-05", "tunai"},
		{"RS20260105-0001", 2, "05/03/2026", ""},
		{"PINJAMAN-XYZ", 1, "2026-02-05", "nomor salah"},
		{"RS20260105-0001", "x", "2026-02-05", "bulan bukan angka"},
		{"RS20260105-0001", 3, "kemarin", "tanggal rusak"},
	})

	valid, invalid, err := svc.ParseAngsuranImport(path)
	require.NoError(t, err)

	require.Len(t, valid, 2)
	assert.Equal(t, "RS20260105-0001", valid[0].NoPinjaman)
	assert.Equal(t, 1, valid[0].BulanKe)
	assert.Equal(t, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC), valid[0].TanggalBayar)
	assert.Equal(t, "tunai", valid[0].Keterangan)
	// dd/mm/yyyy is also accepted
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), valid[1].TanggalBayar)

	require.Len(t, invalid, 3)
	assert.Equal(t, "no_pinjaman", invalid[0].Field)
	assert.Equal(t, 4, invalid[0].Row)
	assert.Equal(t, "bulan_ke", invalid[1].Field)
	assert.Equal(t, "tanggal_bayar", invalid[2].Field)
}

func TestBuatTemplateImportRoundTrip(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "template.xlsx")

	require.NoError(t, svc.BuatTemplateImport(path))

	// The sample row must itself survive a parse.
	valid, invalid, err := svc.ParseAngsuranImport(path)
	require.NoError(t, err)
	assert.Empty(t, invalid)
	require.Len(t, valid, 1)
	assert.Equal(t, "RS20260101-0001", valid[0].NoPinjaman)
}
