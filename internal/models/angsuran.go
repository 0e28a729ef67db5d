package models

import (
	"database/sql"
	"time"
)

// Installment statuses.
const (
	AngsuranBelumBayar = "BELUM_BAYAR"
	AngsuranLunas      = "LUNAS"
)

// Payment method tags.
const (
	MetodeBayarManual          = "MANUAL"
	MetodeBayarImport          = "IMPORT"
	MetodeBayarPotongPencairan = "POTONG_PENCAIRAN"
)

// Angsuran is one scheduled installment of a loan (table angsuran).
// For a given loan the set of bulan_ke is exactly {1..tenor}; rows are
// inserted in bulk once at disbursement and never deleted or
// regenerated.
type Angsuran struct {
	ID           int            `db:"id" json:"id"`
	PinjamanID   int            `db:"pinjaman_id" json:"pinjaman_id"`
	BulanKe      int            `db:"bulan_ke" json:"bulan_ke"`
	Jumlah       int64          `db:"jumlah" json:"jumlah"`
	JatuhTempo   time.Time      `db:"jatuh_tempo" json:"jatuh_tempo"`
	Status       string         `db:"status" json:"status"`
	TanggalBayar *time.Time     `db:"tanggal_bayar" json:"tanggal_bayar"`
	MetodeBayar  sql.NullString `db:"metode_bayar" json:"metode_bayar"`
	Keterangan   sql.NullString `db:"keterangan" json:"keterangan"`

	// DilunasiOlehPinjamanID references the loan whose disbursement
	// cleared this installment. The keterangan text still carries the
	// clearing loan number for datasets migrated from the old system.
	DilunasiOlehPinjamanID sql.NullInt64 `db:"dilunasi_oleh_pinjaman_id" json:"dilunasi_oleh_pinjaman_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type BayarAngsuranRequest struct {
	TanggalBayar string `json:"tanggal_bayar"` // YYYY-MM-DD, defaults to today
	Keterangan   string `json:"keterangan"`
}

type AngsuranImportRow struct {
	NoPinjaman   string
	BulanKe      int
	TanggalBayar time.Time
	Keterangan   string
}

type AngsuranImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type AngsuranImportResult struct {
	TotalRows    int                   `json:"total_rows"`
	PaidCount    int                   `json:"paid_count"`
	SkippedCount int                   `json:"skipped_count"`
	ErrorCount   int                   `json:"error_count"`
	Errors       []AngsuranImportError `json:"errors"`
	ImportTime   time.Time             `json:"import_time"`
}
