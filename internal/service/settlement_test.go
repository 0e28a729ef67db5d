package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koperasi-web/internal/models"
)

func TestSettlementHitung(t *testing.T) {
	calc := NewSettlementCalculator(5000, testLogger())

	t.Run("simpanan dikurangi tunggakan dan biaya admin", func(t *testing.T) {
		simpanan := []models.Simpanan{
			{TipeTransaksi: models.TransaksiSetor, Jumlah: 3_500_000},
			{TipeTransaksi: models.TransaksiSetor, Jumlah: 1_000_000},
			{TipeTransaksi: models.TransaksiTarik, Jumlah: 500_000},
		}
		tunggakan := []TunggakanPinjaman{
			{
				NoPinjaman:      "RS20250301-0003",
				JumlahPinjaman:  1_200_000,
				Tenor:           12,
				JenisBunga:      models.BungaNone,
				AngsuranTersisa: 4,
			},
		}

		hasil, err := calc.Hitung(simpanan, tunggakan)
		require.NoError(t, err)

		assert.Equal(t, int64(4_000_000), hasil.SaldoSimpanan)
		// (1.200.000/12) x 4
		assert.Equal(t, int64(400_000), hasil.TotalTunggakan)
		assert.Equal(t, int64(5000), hasil.BiayaAdmin)
		assert.Equal(t, int64(3_595_000), hasil.NetSettlement)
	})

	t.Run("tanpa pinjaman tunggakan nol", func(t *testing.T) {
		simpanan := []models.Simpanan{
			{TipeTransaksi: models.TransaksiSetor, Jumlah: 1_000_000},
		}

		hasil, err := calc.Hitung(simpanan, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(0), hasil.TotalTunggakan)
		assert.Equal(t, int64(995_000), hasil.NetSettlement)
	})

	t.Run("tunggakan memperhitungkan bunga pro-rata", func(t *testing.T) {
		tunggakan := []TunggakanPinjaman{
			{
				JumlahPinjaman:  1_200_000,
				Tenor:           12,
				JenisBunga:      models.BungaPersenan,
				NilaiBunga:      10,
				AngsuranTersisa: 6,
			},
		}

		hasil, err := calc.Hitung(nil, tunggakan)
		require.NoError(t, err)

		// bunga total = 1.200.000 x 10% x 1 = 120.000
		// per bulan = 100.000 pokok + 10.000 bunga, x6 tersisa
		assert.Equal(t, int64(660_000), hasil.TotalTunggakan)
	})

	t.Run("net negatif berarti anggota masih berutang", func(t *testing.T) {
		simpanan := []models.Simpanan{
			{TipeTransaksi: models.TransaksiSetor, Jumlah: 100_000},
		}
		tunggakan := []TunggakanPinjaman{
			{JumlahPinjaman: 1_200_000, Tenor: 12, JenisBunga: models.BungaNone, AngsuranTersisa: 12},
		}

		hasil, err := calc.Hitung(simpanan, tunggakan)
		require.NoError(t, err)
		assert.Equal(t, int64(100_000-1_200_000-5000), hasil.NetSettlement)
	})

	t.Run("pinjaman lunas dilewati", func(t *testing.T) {
		tunggakan := []TunggakanPinjaman{
			{JumlahPinjaman: 1_200_000, Tenor: 12, JenisBunga: models.BungaNone, AngsuranTersisa: 0},
		}
		hasil, err := calc.Hitung(nil, tunggakan)
		require.NoError(t, err)
		assert.Equal(t, int64(0), hasil.TotalTunggakan)
	})

	t.Run("tipe transaksi tidak dikenal ditolak", func(t *testing.T) {
		simpanan := []models.Simpanan{{TipeTransaksi: "TRANSFER", Jumlah: 100}}
		_, err := calc.Hitung(simpanan, nil)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}
