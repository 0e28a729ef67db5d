package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"koperasi-web/internal/models"
)

type PinjamanRepository struct {
	db *sqlx.DB
}

func NewPinjamanRepository(db *sqlx.DB) *PinjamanRepository {
	return &PinjamanRepository{db: db}
}

func (r *PinjamanRepository) FindAll(limit, offset int, search, status string) ([]models.Pinjaman, int, error) {
	var pinjaman []models.Pinjaman
	var total int

	countQuery := "SELECT COUNT(*) FROM pinjaman"
	selectQuery := "SELECT * FROM pinjaman"

	whereClause := ""
	args := []interface{}{}
	if search != "" {
		whereClause = " WHERE no_pinjaman LIKE ?"
		args = append(args, "%"+search+"%")
	}
	if status != "" {
		if whereClause == "" {
			whereClause = " WHERE status = ?"
		} else {
			whereClause += " AND status = ?"
		}
		args = append(args, status)
	}
	countQuery += whereClause
	selectQuery += whereClause

	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	selectQuery += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	if err := r.db.Select(&pinjaman, selectQuery, args...); err != nil {
		return nil, 0, err
	}

	return pinjaman, total, nil
}

func (r *PinjamanRepository) FindByID(id int) (*models.Pinjaman, error) {
	var p models.Pinjaman
	err := r.db.Get(&p, "SELECT * FROM pinjaman WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "pinjaman", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PinjamanRepository) FindByNoPinjaman(no string) (*models.Pinjaman, error) {
	var p models.Pinjaman
	err := r.db.Get(&p, "SELECT * FROM pinjaman WHERE no_pinjaman = ? LIMIT 1", no)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "pinjaman", ID: no}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PinjamanRepository) FindByAnggota(anggotaID int) ([]models.Pinjaman, error) {
	var pinjaman []models.Pinjaman
	query := "SELECT * FROM pinjaman WHERE anggota_id = ? ORDER BY id DESC"
	err := r.db.Select(&pinjaman, query, anggotaID)
	return pinjaman, err
}

func (r *PinjamanRepository) FindByAnggotaAndStatus(anggotaID int, status string) ([]models.Pinjaman, error) {
	var pinjaman []models.Pinjaman
	query := "SELECT * FROM pinjaman WHERE anggota_id = ? AND status = ? ORDER BY id DESC"
	err := r.db.Select(&pinjaman, query, anggotaID, status)
	return pinjaman, err
}

func (r *PinjamanRepository) Create(p *models.Pinjaman) error {
	query := `INSERT INTO pinjaman (anggota_id, no_pinjaman, jumlah_pengajuan, jumlah_pinjaman,
	          tenor, jenis_bunga, nilai_bunga, status, potongan, tanggal_pengajuan, status_pengiriman)
	          VALUES (:anggota_id, :no_pinjaman, :jumlah_pengajuan, :jumlah_pinjaman,
	          :tenor, :jenis_bunga, :nilai_bunga, :status, :potongan, :tanggal_pengajuan, :status_pengiriman)`
	result, err := r.db.NamedExec(query, p)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	p.ID = int(id)
	return nil
}

// Update persists mutable loan fields. jumlah_pengajuan is deliberately
// absent: the requested amount is immutable once set.
func (r *PinjamanRepository) Update(p *models.Pinjaman) error {
	query := `UPDATE pinjaman SET jumlah_pinjaman = :jumlah_pinjaman, tenor = :tenor,
	          jenis_bunga = :jenis_bunga, nilai_bunga = :nilai_bunga, status = :status,
	          potongan = :potongan, tanggal_persetujuan = :tanggal_persetujuan,
	          tanggal_pencairan = :tanggal_pencairan, status_pengiriman = :status_pengiriman,
	          tanggal_pengiriman = :tanggal_pengiriman, diproses_oleh = :diproses_oleh,
	          alasan_penolakan = :alasan_penolakan WHERE id = :id`
	_, err := r.db.NamedExec(query, p)
	return err
}

// Cairkan applies the three disbursement writes as one transaction:
// the loan row itself, the selected prior installments marked paid, and
// the freshly generated schedule. MySQL rolls the whole unit back on
// failure; a failed rollback is surfaced as PartialCommitError so the
// caller knows the store may need manual repair.
func (r *PinjamanRepository) Cairkan(p *models.Pinjaman, angsuranIDs []int, keterangan string, jadwal []models.Angsuran) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}

	fail := func(step string, cause error) error {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return &models.PartialCommitError{
				Operation: "pencairan " + p.NoPinjaman,
				Err:       fmt.Errorf("%s failed (%v) and rollback failed: %w", step, cause, rbErr),
			}
		}
		return fmt.Errorf("%s: %w", step, cause)
	}

	updateLoan := `UPDATE pinjaman SET status = :status, potongan = :potongan,
	               tanggal_pencairan = :tanggal_pencairan, diproses_oleh = :diproses_oleh
	               WHERE id = :id AND status = 'DISETUJUI'`
	result, err := tx.NamedExec(updateLoan, p)
	if err != nil {
		return fail("update pinjaman", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// Uniqueness backstop: someone disbursed this loan concurrently.
		return fail("update pinjaman", &models.InvalidStateTransitionError{
			Operation: "mencairkan",
			From:      "bukan DISETUJUI",
		})
	}

	if len(angsuranIDs) > 0 {
		markPaid := `UPDATE angsuran SET status = 'LUNAS', tanggal_bayar = ?,
		             metode_bayar = 'POTONG_PENCAIRAN', keterangan = ?,
		             dilunasi_oleh_pinjaman_id = ?
		             WHERE id IN (?) AND status = 'BELUM_BAYAR'`
		query, args, err := sqlx.In(markPaid, p.TanggalPencairan, keterangan, p.ID, angsuranIDs)
		if err != nil {
			return fail("build potongan query", err)
		}
		result, err := tx.Exec(r.db.Rebind(query), args...)
		if err != nil {
			return fail("mark angsuran potongan", err)
		}
		if rows, _ := result.RowsAffected(); rows != int64(len(angsuranIDs)) {
			return fail("mark angsuran potongan", fmt.Errorf(
				"expected %d installments updated, got %d", len(angsuranIDs), rows))
		}
	}

	insertJadwal := `INSERT INTO angsuran (pinjaman_id, bulan_ke, jumlah, jatuh_tempo, status)
	                 VALUES (:pinjaman_id, :bulan_ke, :jumlah, :jatuh_tempo, :status)`
	for _, a := range jadwal {
		if _, err := tx.NamedExec(insertJadwal, a); err != nil {
			return fail("insert jadwal angsuran", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return &models.PartialCommitError{Operation: "pencairan " + p.NoPinjaman, Err: err}
	}
	return nil
}

func (r *PinjamanRepository) CountByStatus(status string) (int, error) {
	var total int
	err := r.db.Get(&total, "SELECT COUNT(*) FROM pinjaman WHERE status = ?", status)
	return total, err
}

// CountLunas counts disbursed loans with no remaining unpaid
// installment. Paid-off is a derived state, never a stored one.
func (r *PinjamanRepository) CountLunas() (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM pinjaman p
	          WHERE p.status = 'DICAIRKAN'
	          AND NOT EXISTS (
	              SELECT 1 FROM angsuran a
	              WHERE a.pinjaman_id = p.id AND a.status = 'BELUM_BAYAR')`
	err := r.db.Get(&total, query)
	return total, err
}

func (r *PinjamanRepository) TotalDicairkan() (int64, error) {
	var total int64
	query := "SELECT COALESCE(SUM(jumlah_pinjaman), 0) FROM pinjaman WHERE status = 'DICAIRKAN'"
	err := r.db.Get(&total, query)
	return total, err
}

func (r *PinjamanRepository) Portfolio() ([]models.PortfolioRow, error) {
	var rows []models.PortfolioRow
	query := `SELECT p.no_pinjaman, pd.nama AS nama_anggota, p.jumlah_pinjaman, p.tenor, p.status,
	          COALESCE(SUM(CASE WHEN a.status = 'LUNAS' THEN 1 ELSE 0 END), 0) AS angsuran_lunas,
	          COALESCE(SUM(CASE WHEN a.status = 'BELUM_BAYAR' THEN a.jumlah ELSE 0 END), 0) AS sisa_tagihan,
	          p.tanggal_pencairan AS tanggal_cair
	          FROM pinjaman p
	          JOIN personal_data pd ON pd.id = p.anggota_id
	          LEFT JOIN angsuran a ON a.pinjaman_id = p.id
	          GROUP BY p.id, p.no_pinjaman, pd.nama, p.jumlah_pinjaman, p.tenor, p.status, p.tanggal_pencairan
	          ORDER BY p.id DESC`
	err := r.db.Select(&rows, query)
	return rows, err
}
