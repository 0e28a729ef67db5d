package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"koperasi-web/internal/models"
)

type SimpananRepository struct {
	db *sqlx.DB
}

func NewSimpananRepository(db *sqlx.DB) *SimpananRepository {
	return &SimpananRepository{db: db}
}

func (r *SimpananRepository) FindByID(id int) (*models.Simpanan, error) {
	var s models.Simpanan
	err := r.db.Get(&s, "SELECT * FROM simpanan WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "simpanan", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SimpananRepository) FindByAnggota(anggotaID int, limit, offset int) ([]models.Simpanan, int, error) {
	var simpanan []models.Simpanan
	var total int

	if err := r.db.Get(&total, "SELECT COUNT(*) FROM simpanan WHERE anggota_id = ?", anggotaID); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM simpanan WHERE anggota_id = ? ORDER BY id DESC LIMIT ? OFFSET ?"
	if err := r.db.Select(&simpanan, query, anggotaID, limit, offset); err != nil {
		return nil, 0, err
	}

	return simpanan, total, nil
}

// FindLunasByAnggota returns a member's settled savings transactions,
// the input for the exit settlement balance.
func (r *SimpananRepository) FindLunasByAnggota(anggotaID int) ([]models.Simpanan, error) {
	var simpanan []models.Simpanan
	query := "SELECT * FROM simpanan WHERE anggota_id = ? AND status = 'LUNAS' ORDER BY id"
	err := r.db.Select(&simpanan, query, anggotaID)
	return simpanan, err
}

func (r *SimpananRepository) Create(s *models.Simpanan) error {
	query := `INSERT INTO simpanan (anggota_id, jenis, tipe_transaksi, jumlah, status,
	          bulan_ke, jatuh_tempo, tanggal_bayar, keterangan)
	          VALUES (:anggota_id, :jenis, :tipe_transaksi, :jumlah, :status,
	          :bulan_ke, :jatuh_tempo, :tanggal_bayar, :keterangan)`
	result, err := r.db.NamedExec(query, s)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	s.ID = int(id)
	return nil
}

// SaldoByAnggota computes deposits minus withdrawals per savings type
// over settled transactions.
func (r *SimpananRepository) SaldoByAnggota(anggotaID int) (*models.SaldoSimpanan, error) {
	type row struct {
		Jenis string `db:"jenis"`
		Saldo int64  `db:"saldo"`
	}
	var rows []row
	query := `SELECT jenis,
	          COALESCE(SUM(CASE WHEN tipe_transaksi = 'SETOR' THEN jumlah ELSE -jumlah END), 0) AS saldo
	          FROM simpanan WHERE anggota_id = ? AND status = 'LUNAS'
	          GROUP BY jenis`
	if err := r.db.Select(&rows, query, anggotaID); err != nil {
		return nil, err
	}

	saldo := &models.SaldoSimpanan{AnggotaID: anggotaID}
	for _, rw := range rows {
		switch rw.Jenis {
		case models.SimpananPokok:
			saldo.Pokok = rw.Saldo
		case models.SimpananWajib:
			saldo.Wajib = rw.Saldo
		case models.SimpananSukarela:
			saldo.Sukarela = rw.Saldo
		}
		saldo.Total += rw.Saldo
	}
	return saldo, nil
}

// TagihanWajibExists reports whether a billing row for the given member
// and period has already been generated, so the monthly billing task
// can run more than once without duplicating obligations.
func (r *SimpananRepository) TagihanWajibExists(anggotaID, bulanKe int, tahun int) (bool, error) {
	var total int
	query := `SELECT COUNT(*) FROM simpanan
	          WHERE anggota_id = ? AND jenis = 'WAJIB' AND bulan_ke = ? AND YEAR(jatuh_tempo) = ?`
	if err := r.db.Get(&total, query, anggotaID, bulanKe, tahun); err != nil {
		return false, err
	}
	return total > 0, nil
}

// BayarTagihan settles one billed savings obligation; guarded like
// installment payment so a duplicate call is a no-op.
func (r *SimpananRepository) BayarTagihan(id int, tanggal time.Time) (bool, error) {
	query := `UPDATE simpanan SET status = 'LUNAS', tanggal_bayar = ?
	          WHERE id = ? AND status = 'BELUM_BAYAR'`
	result, err := r.db.Exec(query, tanggal, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	return rows > 0, err
}

func (r *SimpananRepository) TotalSaldo() (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(CASE WHEN tipe_transaksi = 'SETOR' THEN jumlah ELSE -jumlah END), 0)
	          FROM simpanan WHERE status = 'LUNAS'`
	err := r.db.Get(&total, query)
	return total, err
}
