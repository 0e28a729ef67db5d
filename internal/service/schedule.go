package service

import (
	"time"

	"koperasi-web/internal/models"
)

// BuatJadwalAngsuran emits the full installment schedule for a loan
// whose terms are final: exactly tenor rows, bulan_ke 1..tenor, equal
// amounts, due dates advancing one month from the disbursement date.
//
// This is one-shot and not idempotent; calling it twice for the same
// loan yields a duplicate schedule. The disbursement transition is the
// only caller and runs it exactly once, inside the disbursement
// transaction.
func BuatJadwalAngsuran(pinjamanID int, rincian RincianPinjaman, tenor int, tanggalCair time.Time) []models.Angsuran {
	jadwal := make([]models.Angsuran, 0, tenor)
	for bulan := 1; bulan <= tenor; bulan++ {
		jadwal = append(jadwal, models.Angsuran{
			PinjamanID: pinjamanID,
			BulanKe:    bulan,
			Jumlah:     rincian.AngsuranBulanan,
			JatuhTempo: tanggalCair.AddDate(0, bulan, 0),
			Status:     models.AngsuranBelumBayar,
		})
	}
	return jadwal
}
