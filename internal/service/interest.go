package service

import (
	"math"

	"koperasi-web/internal/models"
)

// RincianPinjaman are the fixed money terms of a loan: total flat
// interest, total payable, and the monthly installment. Computed the
// same way in approval preview, disbursement, and reporting.
type RincianPinjaman struct {
	TotalBunga      int64 `json:"total_bunga"`
	TotalTagihan    int64 `json:"total_tagihan"`
	AngsuranBulanan int64 `json:"angsuran_bulanan"`
}

// HitungBunga computes total flat interest in whole rupiah.
//
//	NONE:     0
//	PERSENAN: pokok x (nilai/100) x (tenor/12), nilai is the annual rate
//	NOMINAL:  nilai as a fixed total, not scaled by tenor or principal
//
// An unrecognized mode is an error, never a silent zero.
func HitungBunga(jenis string, pokok int64, tenor int, nilai float64) (int64, error) {
	if pokok <= 0 {
		return 0, models.NewValidationError("jumlah_pinjaman", "pokok pinjaman harus lebih dari 0")
	}
	if tenor < 1 {
		return 0, models.NewValidationError("tenor", "tenor minimal 1 bulan")
	}
	if nilai < 0 {
		return 0, models.NewValidationError("nilai_bunga", "nilai bunga tidak boleh negatif")
	}

	switch jenis {
	case models.BungaNone:
		return 0, nil
	case models.BungaPersenan:
		bunga := float64(pokok) * (nilai / 100) * (float64(tenor) / 12)
		return int64(math.Round(bunga)), nil
	case models.BungaNominal:
		return int64(math.Round(nilai)), nil
	default:
		return 0, models.NewValidationError("jenis_bunga", "jenis bunga tidak dikenal: "+jenis)
	}
}

// HitungRincian derives the full money terms. The monthly installment
// uses ceiling division so the cooperative never under-collects; the
// rounding surplus lands in the total of the schedule, not in any one
// adjusted row.
func HitungRincian(jenis string, pokok int64, tenor int, nilai float64) (RincianPinjaman, error) {
	bunga, err := HitungBunga(jenis, pokok, tenor, nilai)
	if err != nil {
		return RincianPinjaman{}, err
	}

	total := pokok + bunga
	angsuran := (total + int64(tenor) - 1) / int64(tenor)

	return RincianPinjaman{
		TotalBunga:      bunga,
		TotalTagihan:    total,
		AngsuranBulanan: angsuran,
	}, nil
}
