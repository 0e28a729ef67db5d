package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koperasi-web/internal/models"
)

func TestHitungBunga(t *testing.T) {
	tests := []struct {
		name    string
		jenis   string
		pokok   int64
		tenor   int
		nilai   float64
		want    int64
		wantErr bool
	}{
		{
			name:  "persenan tahunan 12 bulan",
			jenis: models.BungaPersenan,
			pokok: 5_000_000, tenor: 12, nilai: 12,
			want: 600_000,
		},
		{
			name:  "persenan tenor pendek diprorata",
			jenis: models.BungaPersenan,
			pokok: 5_000_000, tenor: 6, nilai: 12,
			want: 300_000,
		},
		{
			name:  "nominal tidak diskalakan tenor",
			jenis: models.BungaNominal,
			pokok: 3_000_000, tenor: 6, nilai: 150_000,
			want: 150_000,
		},
		{
			name:  "none selalu nol",
			jenis: models.BungaNone,
			pokok: 10_000_000, tenor: 24, nilai: 99,
			want: 0,
		},
		{
			name:  "jenis tidak dikenal ditolak",
			jenis: "FLAT",
			pokok: 1_000_000, tenor: 12, nilai: 10,
			wantErr: true,
		},
		{
			name:  "jenis kosong ditolak",
			jenis: "",
			pokok: 1_000_000, tenor: 12, nilai: 10,
			wantErr: true,
		},
		{
			name:  "pokok nol ditolak",
			jenis: models.BungaNone,
			pokok: 0, tenor: 12, nilai: 0,
			wantErr: true,
		},
		{
			name:  "tenor nol ditolak",
			jenis: models.BungaNone,
			pokok: 1_000_000, tenor: 0, nilai: 0,
			wantErr: true,
		},
		{
			name:  "nilai negatif ditolak",
			jenis: models.BungaPersenan,
			pokok: 1_000_000, tenor: 12, nilai: -1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HitungBunga(tt.jenis, tt.pokok, tt.tenor, tt.nilai)
			if tt.wantErr {
				require.Error(t, err)
				var ve *models.ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHitungRincian(t *testing.T) {
	t.Run("persenan dengan pembulatan ke atas", func(t *testing.T) {
		rincian, err := HitungRincian(models.BungaPersenan, 5_000_000, 12, 12)
		require.NoError(t, err)

		assert.Equal(t, int64(600_000), rincian.TotalBunga)
		assert.Equal(t, int64(5_600_000), rincian.TotalTagihan)
		// 5.600.000 / 12 = 466.666,67 dibulatkan ke atas
		assert.Equal(t, int64(466_667), rincian.AngsuranBulanan)
	})

	t.Run("nominal", func(t *testing.T) {
		rincian, err := HitungRincian(models.BungaNominal, 3_000_000, 6, 150_000)
		require.NoError(t, err)

		assert.Equal(t, int64(150_000), rincian.TotalBunga)
		assert.Equal(t, int64(3_150_000), rincian.TotalTagihan)
		assert.Equal(t, int64(525_000), rincian.AngsuranBulanan)
	})

	t.Run("none membagi pokok saja", func(t *testing.T) {
		rincian, err := HitungRincian(models.BungaNone, 1_000_000, 3, 0)
		require.NoError(t, err)

		assert.Equal(t, int64(0), rincian.TotalBunga)
		assert.Equal(t, int64(1_000_000), rincian.TotalTagihan)
		// ceil(1.000.000 / 3)
		assert.Equal(t, int64(333_334), rincian.AngsuranBulanan)
	})

	t.Run("angsuran tidak pernah kurang dari tagihan dibagi tenor", func(t *testing.T) {
		for _, pokok := range []int64{1, 999, 1_000_001, 7_777_777} {
			for _, tenor := range []int{1, 3, 7, 12, 36} {
				rincian, err := HitungRincian(models.BungaNone, pokok, tenor, 0)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, rincian.AngsuranBulanan*int64(tenor), rincian.TotalTagihan,
					"pokok=%d tenor=%d", pokok, tenor)
				assert.Less(t, (rincian.AngsuranBulanan-1)*int64(tenor), rincian.TotalTagihan,
					"pokok=%d tenor=%d", pokok, tenor)
			}
		}
	})

	t.Run("hasil identik saat dihitung ulang setelah persetujuan", func(t *testing.T) {
		// Approval preview and disbursement must agree on the terms.
		pertama, err := HitungRincian(models.BungaPersenan, 2_400_000, 10, 15)
		require.NoError(t, err)
		kedua, err := HitungRincian(models.BungaPersenan, 2_400_000, 10, 15)
		require.NoError(t, err)
		assert.Equal(t, pertama, kedua)
	})
}
