package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koperasi-web/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNettingHitung(t *testing.T) {
	engine := NewNettingEngine(5000, testLogger())

	baru := &models.Pinjaman{ID: 10, AnggotaID: 1, NoPinjaman: "RS20260105-0001", JumlahPinjaman: 2_000_000}
	berjalan := []models.Pinjaman{
		{ID: 3, AnggotaID: 1, Status: models.PinjamanDicairkan},
	}
	dipilih := []models.Angsuran{
		{ID: 101, PinjamanID: 3, Jumlah: 300_000, Status: models.AngsuranBelumBayar},
		{ID: 102, PinjamanID: 3, Jumlah: 300_000, Status: models.AngsuranBelumBayar},
	}

	hasil, err := engine.Hitung(baru, berjalan, dipilih)
	require.NoError(t, err)

	assert.Equal(t, int64(600_000), hasil.TotalPotongan)
	assert.Equal(t, int64(5000), hasil.BiayaAdmin)
	assert.Equal(t, int64(1_395_000), hasil.JumlahDiterima)
	assert.Len(t, hasil.AngsuranDipotong, 2)
}

func TestNettingHitungTanpaPotongan(t *testing.T) {
	engine := NewNettingEngine(5000, testLogger())

	baru := &models.Pinjaman{ID: 10, AnggotaID: 1, JumlahPinjaman: 1_000_000}
	hasil, err := engine.Hitung(baru, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(0), hasil.TotalPotongan)
	assert.Equal(t, int64(995_000), hasil.JumlahDiterima)
}

func TestNettingHitungDuplikatTidakDihitungGanda(t *testing.T) {
	engine := NewNettingEngine(5000, testLogger())

	baru := &models.Pinjaman{ID: 10, AnggotaID: 1, JumlahPinjaman: 2_000_000}
	berjalan := []models.Pinjaman{{ID: 3, AnggotaID: 1, Status: models.PinjamanDicairkan}}
	sama := models.Angsuran{ID: 101, PinjamanID: 3, Jumlah: 300_000, Status: models.AngsuranBelumBayar}

	hasil, err := engine.Hitung(baru, berjalan, []models.Angsuran{sama, sama})
	require.NoError(t, err)

	assert.Equal(t, int64(300_000), hasil.TotalPotongan)
	assert.Len(t, hasil.AngsuranDipotong, 1)
}

func TestNettingHitungValidasi(t *testing.T) {
	engine := NewNettingEngine(5000, testLogger())
	baru := &models.Pinjaman{ID: 10, AnggotaID: 1, JumlahPinjaman: 2_000_000}
	berjalan := []models.Pinjaman{{ID: 3, AnggotaID: 1, Status: models.PinjamanDicairkan}}

	t.Run("angsuran milik pinjaman lain ditolak", func(t *testing.T) {
		asing := []models.Angsuran{{ID: 500, PinjamanID: 99, Jumlah: 100_000, Status: models.AngsuranBelumBayar}}
		_, err := engine.Hitung(baru, berjalan, asing)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("angsuran lunas ditolak", func(t *testing.T) {
		lunas := []models.Angsuran{{ID: 101, PinjamanID: 3, Jumlah: 100_000, Status: models.AngsuranLunas}}
		_, err := engine.Hitung(baru, berjalan, lunas)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("angsuran pinjaman sendiri ditolak", func(t *testing.T) {
		sendiri := []models.Angsuran{{ID: 200, PinjamanID: 10, Jumlah: 100_000, Status: models.AngsuranBelumBayar}}
		_, err := engine.Hitung(baru, berjalan, sendiri)
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestNettingHitungNetNegatifTidakDitolak(t *testing.T) {
	// A disbursement can exist purely to restructure debt; negative net
	// is logged, not rejected.
	engine := NewNettingEngine(5000, testLogger())
	baru := &models.Pinjaman{ID: 10, AnggotaID: 1, JumlahPinjaman: 100_000}
	berjalan := []models.Pinjaman{{ID: 3, AnggotaID: 1, Status: models.PinjamanDicairkan}}
	dipilih := []models.Angsuran{{ID: 101, PinjamanID: 3, Jumlah: 300_000, Status: models.AngsuranBelumBayar}}

	hasil, err := engine.Hitung(baru, berjalan, dipilih)
	require.NoError(t, err)
	assert.Equal(t, int64(-205_000), hasil.JumlahDiterima)
}

func TestRincianPotonganHistoris(t *testing.T) {
	engine := NewNettingEngine(5000, testLogger())

	t.Run("skala mengembalikan total tersimpan persis", func(t *testing.T) {
		induk := map[int]*models.Pinjaman{
			3: {ID: 3, JumlahPinjaman: 1_200_000, Tenor: 12, JenisBunga: models.BungaPersenan, NilaiBunga: 10},
		}
		terpotong := []models.Angsuran{
			{ID: 101, PinjamanID: 3},
			{ID: 102, PinjamanID: 3},
		}
		p := &models.Pinjaman{ID: 10, Potongan: 220_000}

		rincian, err := engine.RincianPotonganHistoris(p, terpotong, induk)
		require.NoError(t, err)
		assert.Equal(t, p.Potongan, rincian.Pokok+rincian.Bunga)
		assert.Greater(t, rincian.Pokok, int64(0))
		assert.Greater(t, rincian.Bunga, int64(0))
	})

	t.Run("tanpa potongan", func(t *testing.T) {
		p := &models.Pinjaman{ID: 10, Potongan: 0}
		rincian, err := engine.RincianPotonganHistoris(p, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, rincian.Pokok)
		assert.Zero(t, rincian.Bunga)
	})

	t.Run("induk tidak ditemukan", func(t *testing.T) {
		p := &models.Pinjaman{ID: 10, Potongan: 100_000}
		terpotong := []models.Angsuran{{ID: 101, PinjamanID: 77}}
		_, err := engine.RincianPotonganHistoris(p, terpotong, map[int]*models.Pinjaman{})
		var nfe *models.NotFoundError
		require.ErrorAs(t, err, &nfe)
	})

	t.Run("pinjaman tanpa bunga seluruhnya pokok", func(t *testing.T) {
		induk := map[int]*models.Pinjaman{
			3: {ID: 3, JumlahPinjaman: 1_200_000, Tenor: 12, JenisBunga: models.BungaNone},
		}
		terpotong := []models.Angsuran{{ID: 101, PinjamanID: 3}}
		p := &models.Pinjaman{ID: 10, Potongan: 100_000}

		rincian, err := engine.RincianPotonganHistoris(p, terpotong, induk)
		require.NoError(t, err)
		assert.Equal(t, int64(100_000), rincian.Pokok)
		assert.Zero(t, rincian.Bunga)
	})
}
