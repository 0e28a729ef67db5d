package service

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"koperasi-web/internal/models"
)

// NettingEngine computes what a disbursement actually releases after
// clearing the member's selected prior obligations and the flat
// administration fee.
type NettingEngine struct {
	biayaAdmin int64
	log        *logrus.Logger
}

func NewNettingEngine(biayaAdmin int64, log *logrus.Logger) *NettingEngine {
	return &NettingEngine{biayaAdmin: biayaAdmin, log: log}
}

type HasilNetting struct {
	TotalPotongan    int64             `json:"total_potongan"`
	BiayaAdmin       int64             `json:"biaya_admin"`
	JumlahDiterima   int64             `json:"jumlah_diterima"`
	AngsuranDipotong []models.Angsuran `json:"angsuran_dipotong"`
}

// RincianPotongan is the principal/interest split of a loan's recorded
// deduction total, derived for display and reconciliation.
type RincianPotongan struct {
	Pokok int64 `json:"pokok"`
	Bunga int64 `json:"bunga"`
}

// Hitung validates the admin-selected installments and totals the
// deduction. Selection is order-independent and duplicate-safe: the
// same installment selected twice counts once. The engine never
// auto-selects; it only checks that every selection belongs to one of
// the member's other running loans and is still unpaid.
func (e *NettingEngine) Hitung(p *models.Pinjaman, pinjamanBerjalan []models.Pinjaman, dipilih []models.Angsuran) (*HasilNetting, error) {
	milikAnggota := make(map[int]bool, len(pinjamanBerjalan))
	for _, lain := range pinjamanBerjalan {
		if lain.ID != p.ID && lain.Status == models.PinjamanDicairkan {
			milikAnggota[lain.ID] = true
		}
	}

	var total int64
	seen := make(map[int]bool, len(dipilih))
	dipotong := make([]models.Angsuran, 0, len(dipilih))
	for _, a := range dipilih {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true

		if !milikAnggota[a.PinjamanID] {
			return nil, models.NewValidationError("angsuran_ids",
				fmt.Sprintf("angsuran %d bukan milik pinjaman berjalan anggota ini", a.ID))
		}
		if a.Status != models.AngsuranBelumBayar {
			return nil, models.NewValidationError("angsuran_ids",
				fmt.Sprintf("angsuran %d sudah lunas", a.ID))
		}

		total += a.Jumlah
		dipotong = append(dipotong, a)
	}

	diterima := p.JumlahPinjaman - total - e.biayaAdmin
	if diterima < 0 {
		// Legitimate only when the disbursement exists purely to clear
		// debt; flagged as a data-quality signal, not rejected.
		e.log.WithFields(logrus.Fields{
			"no_pinjaman":     p.NoPinjaman,
			"jumlah_pinjaman": p.JumlahPinjaman,
			"total_potongan":  total,
		}).Warn("net pencairan negatif, periksa konfigurasi potongan")
	}

	return &HasilNetting{
		TotalPotongan:    total,
		BiayaAdmin:       e.biayaAdmin,
		JumlahDiterima:   diterima,
		AngsuranDipotong: dipotong,
	}, nil
}

// RincianPotonganHistoris reconstructs the principal/interest split of
// the installments a past disbursement cleared. Each cleared
// installment contributes its parent loan's flat per-month principal
// and interest; the raw split is then scaled so pokok+bunga reproduces
// the stored potongan exactly, instead of re-running the live formula
// and drifting from the persisted total. The rounding remainder is
// absorbed by the principal side.
func (e *NettingEngine) RincianPotonganHistoris(p *models.Pinjaman, terpotong []models.Angsuran, induk map[int]*models.Pinjaman) (RincianPotongan, error) {
	if p.Potongan == 0 || len(terpotong) == 0 {
		return RincianPotongan{}, nil
	}

	var pokokShare, bungaShare float64
	for _, a := range terpotong {
		parent, ok := induk[a.PinjamanID]
		if !ok {
			return RincianPotongan{}, &models.NotFoundError{Entity: "pinjaman induk angsuran", ID: a.PinjamanID}
		}
		totalBunga, err := HitungBunga(parent.JenisBunga, parent.JumlahPinjaman, parent.Tenor, parent.NilaiBunga)
		if err != nil {
			return RincianPotongan{}, err
		}
		pokokShare += float64(parent.JumlahPinjaman) / float64(parent.Tenor)
		bungaShare += float64(totalBunga) / float64(parent.Tenor)
	}

	raw := pokokShare + bungaShare
	if raw <= 0 {
		return RincianPotongan{Pokok: p.Potongan}, nil
	}

	skala := float64(p.Potongan) / raw
	bunga := int64(math.Round(bungaShare * skala))
	return RincianPotongan{
		Pokok: p.Potongan - bunga,
		Bunga: bunga,
	}, nil
}
