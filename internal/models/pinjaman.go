package models

import (
	"database/sql"
	"time"
)

// Loan statuses. There is no stored "paid off" status: a DICAIRKAN loan
// whose installments are all paid is reported as settled via a query.
const (
	PinjamanPengajuan = "PENGAJUAN"
	PinjamanDisetujui = "DISETUJUI"
	PinjamanDicairkan = "DICAIRKAN"
	PinjamanDitolak   = "DITOLAK"
)

// Interest modes. Flat interest only: computed once on the original
// principal, never on a declining balance.
const (
	BungaNone     = "NONE"
	BungaPersenan = "PERSENAN"
	BungaNominal  = "NOMINAL"
)

// Pinjaman is a member loan (table pinjaman). JumlahPengajuan is the
// amount the member asked for and is never altered once the loan leaves
// PENGAJUAN; JumlahPinjaman is the approved principal and may be
// adjusted by an admin up until disbursement.
type Pinjaman struct {
	ID              int     `db:"id" json:"id"`
	AnggotaID       int     `db:"anggota_id" json:"anggota_id"`
	NoPinjaman      string  `db:"no_pinjaman" json:"no_pinjaman"`
	JumlahPengajuan int64   `db:"jumlah_pengajuan" json:"jumlah_pengajuan"`
	JumlahPinjaman  int64   `db:"jumlah_pinjaman" json:"jumlah_pinjaman"`
	Tenor           int     `db:"tenor" json:"tenor"`
	JenisBunga      string  `db:"jenis_bunga" json:"jenis_bunga"`
	NilaiBunga      float64 `db:"nilai_bunga" json:"nilai_bunga"`
	Status          string  `db:"status" json:"status"`

	// Potongan is the total of prior unpaid installments deducted from
	// this loan at disbursement, captured once and never recomputed.
	Potongan int64 `db:"potongan" json:"potongan"`

	TanggalPengajuan   time.Time  `db:"tanggal_pengajuan" json:"tanggal_pengajuan"`
	TanggalPersetujuan *time.Time `db:"tanggal_persetujuan" json:"tanggal_persetujuan"`
	TanggalPencairan   *time.Time `db:"tanggal_pencairan" json:"tanggal_pencairan"`

	StatusPengiriman  string         `db:"status_pengiriman" json:"status_pengiriman"`
	TanggalPengiriman *time.Time     `db:"tanggal_pengiriman" json:"tanggal_pengiriman"`
	DiprosesOleh      sql.NullString `db:"diproses_oleh" json:"diproses_oleh"`
	AlasanPenolakan   sql.NullString `db:"alasan_penolakan" json:"alasan_penolakan"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type PengajuanPinjamanRequest struct {
	AnggotaID int   `json:"anggota_id" validate:"required,gt=0"`
	Jumlah    int64 `json:"jumlah" validate:"required,gt=0"`
	Tenor     int   `json:"tenor" validate:"required,gte=1"`
}

type KonfigurasiBungaRequest struct {
	JenisBunga string  `json:"jenis_bunga" validate:"required,oneof=NONE PERSENAN NOMINAL"`
	NilaiBunga float64 `json:"nilai_bunga" validate:"gte=0"`
}

type PersetujuanRequest struct {
	JumlahPinjaman int64 `json:"jumlah_pinjaman" validate:"required,gt=0"`
}

type PenolakanRequest struct {
	Alasan string `json:"alasan"`
}

type PencairanRequest struct {
	// AngsuranIDs are the admin-selected unpaid installments of the
	// member's other running loans, to be cleared out of this loan's
	// disbursement.
	AngsuranIDs []int `json:"angsuran_ids"`
}

// PerjanjianPayload carries the computed totals an external document
// formatter needs to render the printable loan agreement.
type PerjanjianPayload struct {
	NoPinjaman      string    `json:"no_pinjaman"`
	NamaAnggota     string    `json:"nama_anggota"`
	NIK             string    `json:"nik"`
	JumlahPinjaman  int64     `json:"jumlah_pinjaman"`
	Tenor           int       `json:"tenor"`
	JenisBunga      string    `json:"jenis_bunga"`
	NilaiBunga      float64   `json:"nilai_bunga"`
	TotalBunga      int64     `json:"total_bunga"`
	TotalTagihan    int64     `json:"total_tagihan"`
	AngsuranBulanan int64     `json:"angsuran_bulanan"`
	TotalPotongan   int64     `json:"total_potongan"`
	BiayaAdmin      int64     `json:"biaya_admin"`
	JumlahDiterima  int64     `json:"jumlah_diterima"`
	TanggalCetak    time.Time `json:"tanggal_cetak"`
	DicetakOleh     string    `json:"dicetak_oleh"`
}
