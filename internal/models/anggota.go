package models

import (
	"database/sql"
	"time"
)

// Membership statuses. PASIF is a reversible demotion; NONAKTIF is
// terminal and triggers exit settlement.
const (
	AnggotaAktif    = "AKTIF"
	AnggotaPasif    = "PASIF"
	AnggotaNonAktif = "NONAKTIF"
)

// Settlement delivery statuses (also used for loan agreement delivery).
const (
	PengirimanPending = "PENDING"
	PengirimanSent    = "SENT"
)

// Anggota is a cooperative member (table personal_data).
type Anggota struct {
	ID           int            `db:"id" json:"id"`
	NIK          string         `db:"nik" json:"nik"`
	Nama         string         `db:"nama" json:"nama"`
	Email        sql.NullString `db:"email" json:"email"`
	NoTelepon    sql.NullString `db:"no_telepon" json:"no_telepon"`
	Alamat       sql.NullString `db:"alamat" json:"alamat"`
	Perusahaan   sql.NullString `db:"perusahaan" json:"perusahaan"`
	UnitKerja    sql.NullString `db:"unit_kerja" json:"unit_kerja"`
	Jabatan      sql.NullString `db:"jabatan" json:"jabatan"`
	Status       string         `db:"status" json:"status"`
	TanggalMasuk time.Time      `db:"tanggal_masuk" json:"tanggal_masuk"`

	// Exit metadata, populated only on deactivation.
	TanggalKeluar              *time.Time     `db:"tanggal_keluar" json:"tanggal_keluar"`
	AlasanKeluar               sql.NullString `db:"alasan_keluar" json:"alasan_keluar"`
	StatusPengirimanSettlement sql.NullString `db:"status_pengiriman_settlement" json:"status_pengiriman_settlement"`
	TanggalPengirimanSettlement *time.Time    `db:"tanggal_pengiriman_settlement" json:"tanggal_pengiriman_settlement"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type AnggotaRequest struct {
	NIK        string `json:"nik" validate:"required"`
	Nama       string `json:"nama" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	NoTelepon  string `json:"no_telepon"`
	Alamat     string `json:"alamat"`
	Perusahaan string `json:"perusahaan"`
	UnitKerja  string `json:"unit_kerja"`
	Jabatan    string `json:"jabatan"`
}

type NonaktifkanAnggotaRequest struct {
	AlasanKeluar string `json:"alasan_keluar" validate:"required"`
}
