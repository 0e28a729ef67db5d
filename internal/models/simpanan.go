package models

import (
	"database/sql"
	"time"
)

// Savings types.
const (
	SimpananPokok    = "POKOK"
	SimpananWajib    = "WAJIB"
	SimpananSukarela = "SUKARELA"
)

// Transaction directions.
const (
	TransaksiSetor = "SETOR"
	TransaksiTarik = "TARIK"
)

// Savings transaction statuses. A billed-but-unpaid monthly obligation
// is a BELUM_BAYAR row carrying bulan_ke and jatuh_tempo.
const (
	SimpananLunas      = "LUNAS"
	SimpananBelumBayar = "BELUM_BAYAR"
)

// Simpanan is one savings transaction (table simpanan).
type Simpanan struct {
	ID             int            `db:"id" json:"id"`
	AnggotaID      int            `db:"anggota_id" json:"anggota_id"`
	Jenis          string         `db:"jenis" json:"jenis"`
	TipeTransaksi  string         `db:"tipe_transaksi" json:"tipe_transaksi"`
	Jumlah         int64          `db:"jumlah" json:"jumlah"`
	Status         string         `db:"status" json:"status"`
	BulanKe        sql.NullInt64  `db:"bulan_ke" json:"bulan_ke"`
	JatuhTempo     *time.Time     `db:"jatuh_tempo" json:"jatuh_tempo"`
	TanggalBayar   *time.Time     `db:"tanggal_bayar" json:"tanggal_bayar"`
	Keterangan     sql.NullString `db:"keterangan" json:"keterangan"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

type SimpananRequest struct {
	AnggotaID     int    `json:"anggota_id" validate:"required,gt=0"`
	Jenis         string `json:"jenis" validate:"required,oneof=POKOK WAJIB SUKARELA"`
	TipeTransaksi string `json:"tipe_transaksi" validate:"required,oneof=SETOR TARIK"`
	Jumlah        int64  `json:"jumlah" validate:"required,gt=0"`
	Keterangan    string `json:"keterangan"`
}

// SaldoSimpanan is a member's savings position per type.
type SaldoSimpanan struct {
	AnggotaID int   `json:"anggota_id"`
	Pokok     int64 `json:"pokok"`
	Wajib     int64 `json:"wajib"`
	Sukarela  int64 `json:"sukarela"`
	Total     int64 `json:"total"`
}
