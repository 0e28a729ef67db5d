package models

import "time"

// DashboardStats is the aggregate rollup shown on the admin dashboard.
// Read-only; every number is derived from the tables, nothing here is
// a source of truth.
type DashboardStats struct {
	AnggotaAktif    int `json:"anggota_aktif"`
	AnggotaPasif    int `json:"anggota_pasif"`
	AnggotaNonAktif int `json:"anggota_nonaktif"`

	PinjamanPengajuan int `json:"pinjaman_pengajuan"`
	PinjamanDisetujui int `json:"pinjaman_disetujui"`
	PinjamanBerjalan  int `json:"pinjaman_berjalan"`
	PinjamanLunas     int `json:"pinjaman_lunas"`
	PinjamanDitolak   int `json:"pinjaman_ditolak"`

	TotalDicairkan      int64 `json:"total_dicairkan"`
	TotalTunggakan      int64 `json:"total_tunggakan"`
	AngsuranJatuhTempo  int   `json:"angsuran_jatuh_tempo"`
	TotalSimpanan       int64 `json:"total_simpanan"`

	GeneratedAt time.Time `json:"generated_at"`
}

// PortfolioRow is one line of the portfolio export: a loan with its
// repayment progress.
type PortfolioRow struct {
	NoPinjaman     string     `db:"no_pinjaman" json:"no_pinjaman"`
	NamaAnggota    string     `db:"nama_anggota" json:"nama_anggota"`
	JumlahPinjaman int64      `db:"jumlah_pinjaman" json:"jumlah_pinjaman"`
	Tenor          int        `db:"tenor" json:"tenor"`
	Status         string     `db:"status" json:"status"`
	AngsuranLunas  int        `db:"angsuran_lunas" json:"angsuran_lunas"`
	SisaTagihan    int64      `db:"sisa_tagihan" json:"sisa_tagihan"`
	TanggalCair    *time.Time `db:"tanggal_cair" json:"tanggal_cair"`
}
