package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"koperasi-web/internal/models"
)

type AnggotaRepository struct {
	db *sqlx.DB
}

func NewAnggotaRepository(db *sqlx.DB) *AnggotaRepository {
	return &AnggotaRepository{db: db}
}

func (r *AnggotaRepository) FindAll(limit, offset int, search, status string) ([]models.Anggota, int, error) {
	var anggota []models.Anggota
	var total int

	countQuery := "SELECT COUNT(*) FROM personal_data"
	selectQuery := "SELECT * FROM personal_data"

	whereClause := ""
	args := []interface{}{}
	if search != "" {
		whereClause = " WHERE (nama LIKE ? OR nik LIKE ?)"
		searchParam := "%" + search + "%"
		args = append(args, searchParam, searchParam)
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

	if err := r.db.Select(&anggota, selectQuery, args...); err != nil {
		return nil, 0, err
	}

	return anggota, total, nil
}

func (r *AnggotaRepository) FindByID(id int) (*models.Anggota, error) {
	var a models.Anggota
	err := r.db.Get(&a, "SELECT * FROM personal_data WHERE id = ?", id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "anggota", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnggotaRepository) FindAktif() ([]models.Anggota, error) {
	var anggota []models.Anggota
	query := "SELECT * FROM personal_data WHERE status = 'AKTIF' ORDER BY id"
	err := r.db.Select(&anggota, query)
	return anggota, err
}

func (r *AnggotaRepository) Create(a *models.Anggota) error {
	query := `INSERT INTO personal_data (nik, nama, email, no_telepon, alamat, perusahaan,
	          unit_kerja, jabatan, status, tanggal_masuk)
	          VALUES (:nik, :nama, :email, :no_telepon, :alamat, :perusahaan,
	          :unit_kerja, :jabatan, :status, :tanggal_masuk)`
	result, err := r.db.NamedExec(query, a)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	a.ID = int(id)
	return nil
}

func (r *AnggotaRepository) Update(a *models.Anggota) error {
	query := `UPDATE personal_data SET nik = :nik, nama = :nama, email = :email,
	          no_telepon = :no_telepon, alamat = :alamat, perusahaan = :perusahaan,
	          unit_kerja = :unit_kerja, jabatan = :jabatan, status = :status
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, a)
	return err
}

func (r *AnggotaRepository) UpdateStatus(id int, status string) error {
	query := "UPDATE personal_data SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

// Nonaktifkan marks a member terminated and stamps the exit metadata.
func (r *AnggotaRepository) Nonaktifkan(id int, tanggal time.Time, alasan string) error {
	query := `UPDATE personal_data SET status = 'NONAKTIF', tanggal_keluar = ?,
	          alasan_keluar = ?, status_pengiriman_settlement = 'PENDING'
	          WHERE id = ? AND status != 'NONAKTIF'`
	result, err := r.db.Exec(query, tanggal, alasan, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return &models.InvalidStateTransitionError{Operation: "menonaktifkan anggota", From: models.AnggotaNonAktif}
	}
	return nil
}

func (r *AnggotaRepository) UpdateSettlementDelivery(id int, status string, tanggal time.Time) error {
	query := `UPDATE personal_data SET status_pengiriman_settlement = ?,
	          tanggal_pengiriman_settlement = ? WHERE id = ?`
	_, err := r.db.Exec(query, status, tanggal, id)
	return err
}

func (r *AnggotaRepository) CountByStatus(status string) (int, error) {
	var total int
	err := r.db.Get(&total, "SELECT COUNT(*) FROM personal_data WHERE status = ?", status)
	return total, err
}
