package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koperasi-web/internal/models"
)

func TestBuatJadwalAngsuran(t *testing.T) {
	tanggalCair := time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local)
	rincian, err := HitungRincian(models.BungaPersenan, 5_000_000, 12, 12)
	require.NoError(t, err)

	jadwal := BuatJadwalAngsuran(42, rincian, 12, tanggalCair)

	require.Len(t, jadwal, 12)
	for i, a := range jadwal {
		assert.Equal(t, 42, a.PinjamanID)
		assert.Equal(t, i+1, a.BulanKe)
		assert.Equal(t, rincian.AngsuranBulanan, a.Jumlah)
		assert.Equal(t, models.AngsuranBelumBayar, a.Status)
	}

	// Due dates advance exactly one month from the disbursement date.
	for i, a := range jadwal {
		assert.Equal(t, tanggalCair.AddDate(0, i+1, 0), a.JatuhTempo)
		if i > 0 {
			assert.True(t, a.JatuhTempo.After(jadwal[i-1].JatuhTempo))
		}
	}
}

func TestBuatJadwalAngsuranTenorSatu(t *testing.T) {
	tanggalCair := time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local)
	rincian, err := HitungRincian(models.BungaNone, 500_000, 1, 0)
	require.NoError(t, err)

	jadwal := BuatJadwalAngsuran(7, rincian, 1, tanggalCair)

	require.Len(t, jadwal, 1)
	assert.Equal(t, 1, jadwal[0].BulanKe)
	assert.Equal(t, int64(500_000), jadwal[0].Jumlah)
	// Mar 31 + 1 month normalizes per time.AddDate
	assert.Equal(t, tanggalCair.AddDate(0, 1, 0), jadwal[0].JatuhTempo)
}
