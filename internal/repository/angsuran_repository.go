package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"koperasi-web/internal/models"
)

type AngsuranRepository struct {
	db *sqlx.DB
}

func NewAngsuranRepository(db *sqlx.DB) *AngsuranRepository {
	return &AngsuranRepository{db: db}
}

func (r *AngsuranRepository) FindByID(id int) (*models.Angsuran, error) {
	var a models.Angsuran
	err := r.db.Get(&a, "SELECT * FROM angsuran WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "angsuran", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AngsuranRepository) FindByIDs(ids []int) ([]models.Angsuran, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM angsuran WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var angsuran []models.Angsuran
	err = r.db.Select(&angsuran, r.db.Rebind(query), args...)
	return angsuran, err
}

func (r *AngsuranRepository) FindByPinjaman(pinjamanID int) ([]models.Angsuran, error) {
	var angsuran []models.Angsuran
	query := "SELECT * FROM angsuran WHERE pinjaman_id = ? ORDER BY bulan_ke"
	err := r.db.Select(&angsuran, query, pinjamanID)
	return angsuran, err
}

func (r *AngsuranRepository) FindByPinjamanAndBulan(pinjamanID, bulanKe int) (*models.Angsuran, error) {
	var a models.Angsuran
	query := "SELECT * FROM angsuran WHERE pinjaman_id = ? AND bulan_ke = ? LIMIT 1"
	err := r.db.Get(&a, query, pinjamanID, bulanKe)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "angsuran", ID: bulanKe}
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindBelumBayarByAnggota lists a member's unpaid installments across
// all running loans, used when picking disbursement deductions and for
// exit settlement.
func (r *AngsuranRepository) FindBelumBayarByAnggota(anggotaID int) ([]models.Angsuran, error) {
	var angsuran []models.Angsuran
	query := `SELECT a.* FROM angsuran a
	          JOIN pinjaman p ON p.id = a.pinjaman_id
	          WHERE p.anggota_id = ? AND a.status = 'BELUM_BAYAR'
	          ORDER BY a.pinjaman_id, a.bulan_ke`
	err := r.db.Select(&angsuran, query, anggotaID)
	return angsuran, err
}

// FindTerpotongOleh returns installments cleared by the given loan's
// disbursement. The explicit reference column is authoritative; the
// keterangan LIKE match keeps rows migrated from the old system, which
// only recorded the clearing loan number in free text.
func (r *AngsuranRepository) FindTerpotongOleh(pinjamanID int, noPinjaman string) ([]models.Angsuran, error) {
	var angsuran []models.Angsuran
	query := `SELECT * FROM angsuran
	          WHERE dilunasi_oleh_pinjaman_id = ?
	          OR (dilunasi_oleh_pinjaman_id IS NULL AND metode_bayar = 'POTONG_PENCAIRAN' AND keterangan LIKE ?)
	          ORDER BY pinjaman_id, bulan_ke`
	err := r.db.Select(&angsuran, query, pinjamanID, "%"+noPinjaman+"%")
	return angsuran, err
}

// Bayar marks one unpaid installment paid. The status guard makes the
// operation idempotent: a second call matches zero rows and leaves
// tanggal_bayar untouched.
func (r *AngsuranRepository) Bayar(id int, tanggal time.Time, metode, keterangan string) (bool, error) {
	query := `UPDATE angsuran SET status = 'LUNAS', tanggal_bayar = ?, metode_bayar = ?, keterangan = ?
	          WHERE id = ? AND status = 'BELUM_BAYAR'`
	result, err := r.db.Exec(query, tanggal, metode, keterangan, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *AngsuranRepository) CountBelumBayar(pinjamanID int) (int, error) {
	var total int
	query := "SELECT COUNT(*) FROM angsuran WHERE pinjaman_id = ? AND status = 'BELUM_BAYAR'"
	err := r.db.Get(&total, query, pinjamanID)
	return total, err
}

func (r *AngsuranRepository) TotalBelumBayar() (int64, error) {
	var total int64
	query := "SELECT COALESCE(SUM(jumlah), 0) FROM angsuran WHERE status = 'BELUM_BAYAR'"
	err := r.db.Get(&total, query)
	return total, err
}

func (r *AngsuranRepository) CountJatuhTempo(ref time.Time) (int, error) {
	var total int
	query := "SELECT COUNT(*) FROM angsuran WHERE status = 'BELUM_BAYAR' AND jatuh_tempo < ?"
	err := r.db.Get(&total, query, ref)
	return total, err
}

// FindJatuhTempo lists overdue unpaid installments for the worker's
// overdue scan.
func (r *AngsuranRepository) FindJatuhTempo(ref time.Time, limit int) ([]models.Angsuran, error) {
	var angsuran []models.Angsuran
	query := `SELECT * FROM angsuran WHERE status = 'BELUM_BAYAR' AND jatuh_tempo < ?
	          ORDER BY jatuh_tempo LIMIT ?`
	err := r.db.Select(&angsuran, query, ref, limit)
	return angsuran, err
}
