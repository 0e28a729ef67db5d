package service

import (
	"math"

	"github.com/sirupsen/logrus"

	"koperasi-web/internal/models"
)

// SettlementCalculator nets an exiting member's savings against their
// outstanding loan debt. The result is surfaced for manual
// reconciliation by an operator; nothing is auto-applied.
type SettlementCalculator struct {
	biayaAdmin int64
	log        *logrus.Logger
}

func NewSettlementCalculator(biayaAdmin int64, log *logrus.Logger) *SettlementCalculator {
	return &SettlementCalculator{biayaAdmin: biayaAdmin, log: log}
}

// TunggakanPinjaman pairs one loan's terms with its unpaid installment
// count for the outstanding calculation.
type TunggakanPinjaman struct {
	NoPinjaman      string  `json:"no_pinjaman"`
	JumlahPinjaman  int64   `json:"jumlah_pinjaman"`
	Tenor           int     `json:"tenor"`
	JenisBunga      string  `json:"jenis_bunga"`
	NilaiBunga      float64 `json:"nilai_bunga"`
	AngsuranTersisa int     `json:"angsuran_tersisa"`
}

type HasilSettlement struct {
	SaldoSimpanan  int64               `json:"saldo_simpanan"`
	TotalTunggakan int64               `json:"total_tunggakan"`
	BiayaAdmin     int64               `json:"biaya_admin"`
	NetSettlement  int64               `json:"net_settlement"`
	Tunggakan      []TunggakanPinjaman `json:"tunggakan"`
}

// Hitung computes the exit settlement. Savings balance is deposits
// minus withdrawals over settled transactions of every type. Each
// unpaid installment contributes a flat pro-rated share of its loan's
// principal and interest (pokok/tenor + bunga/tenor) rather than the
// stored installment amount, keeping principal recovery separate from
// interest owed. Positive net is owed to the member, negative means the
// member still owes the cooperative.
func (c *SettlementCalculator) Hitung(simpanan []models.Simpanan, tunggakan []TunggakanPinjaman) (*HasilSettlement, error) {
	var saldo int64
	for _, s := range simpanan {
		switch s.TipeTransaksi {
		case models.TransaksiSetor:
			saldo += s.Jumlah
		case models.TransaksiTarik:
			saldo -= s.Jumlah
		default:
			return nil, models.NewValidationError("tipe_transaksi", "tipe transaksi tidak dikenal: "+s.TipeTransaksi)
		}
	}

	var totalTunggakan float64
	for _, t := range tunggakan {
		if t.AngsuranTersisa == 0 {
			continue
		}
		bunga, err := HitungBunga(t.JenisBunga, t.JumlahPinjaman, t.Tenor, t.NilaiBunga)
		if err != nil {
			return nil, err
		}
		perBulan := float64(t.JumlahPinjaman)/float64(t.Tenor) + float64(bunga)/float64(t.Tenor)
		totalTunggakan += perBulan * float64(t.AngsuranTersisa)
	}

	outstanding := int64(math.Round(totalTunggakan))
	net := saldo - outstanding - c.biayaAdmin

	if net < 0 {
		c.log.WithFields(logrus.Fields{
			"saldo_simpanan":  saldo,
			"total_tunggakan": outstanding,
		}).Info("settlement negatif, anggota masih memiliki kewajiban")
	}

	return &HasilSettlement{
		SaldoSimpanan:  saldo,
		TotalTunggakan: outstanding,
		BiayaAdmin:     c.biayaAdmin,
		NetSettlement:  net,
		Tunggakan:      tunggakan,
	}, nil
}
