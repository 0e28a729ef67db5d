package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"koperasi-web/internal/models"
	"koperasi-web/internal/utils"
)

// Store interfaces the engine needs; satisfied by the sqlx
// repositories and by in-memory fakes in tests.
type PinjamanStore interface {
	FindByID(id int) (*models.Pinjaman, error)
	FindByNoPinjaman(no string) (*models.Pinjaman, error)
	FindByAnggotaAndStatus(anggotaID int, status string) ([]models.Pinjaman, error)
	Create(p *models.Pinjaman) error
	Update(p *models.Pinjaman) error
	Cairkan(p *models.Pinjaman, angsuranIDs []int, keterangan string, jadwal []models.Angsuran) error
}

type AngsuranStore interface {
	FindByID(id int) (*models.Angsuran, error)
	FindByIDs(ids []int) ([]models.Angsuran, error)
	FindByPinjaman(pinjamanID int) ([]models.Angsuran, error)
	FindByPinjamanAndBulan(pinjamanID, bulanKe int) (*models.Angsuran, error)
	FindTerpotongOleh(pinjamanID int, noPinjaman string) ([]models.Angsuran, error)
	FindBelumBayarByAnggota(anggotaID int) ([]models.Angsuran, error)
	Bayar(id int, tanggal time.Time, metode, keterangan string) (bool, error)
	CountBelumBayar(pinjamanID int) (int, error)
}

type AnggotaStore interface {
	FindByID(id int) (*models.Anggota, error)
}

// LoanService drives the loan lifecycle:
//
//	PENGAJUAN -> DISETUJUI -> DICAIRKAN -> (all installments paid)
//	PENGAJUAN -> DITOLAK
//
// Every transition checks the source state first and fails with
// InvalidStateTransitionError when it doesn't hold; only Cairkan
// mutates more than one row and it does so atomically.
type LoanService struct {
	pinjamanStore PinjamanStore
	angsuranStore AngsuranStore
	anggotaStore  AnggotaStore
	netting       *NettingEngine
	biayaAdmin    int64
	log           *logrus.Logger
}

func NewLoanService(
	pinjamanStore PinjamanStore,
	angsuranStore AngsuranStore,
	anggotaStore AnggotaStore,
	netting *NettingEngine,
	biayaAdmin int64,
	log *logrus.Logger,
) *LoanService {
	return &LoanService{
		pinjamanStore: pinjamanStore,
		angsuranStore: angsuranStore,
		anggotaStore:  anggotaStore,
		netting:       netting,
		biayaAdmin:    biayaAdmin,
		log:           log,
	}
}

// DetailPinjaman bundles a loan with everything the admin screens show.
type DetailPinjaman struct {
	Pinjaman        *models.Pinjaman  `json:"pinjaman"`
	Anggota         *models.Anggota   `json:"anggota"`
	Rincian         *RincianPinjaman  `json:"rincian,omitempty"`
	Jadwal          []models.Angsuran `json:"jadwal"`
	Lunas           bool              `json:"lunas"`
	RincianPotongan *RincianPotongan  `json:"rincian_potongan,omitempty"`
}

// HasilPencairan summarizes what a disbursement produced.
type HasilPencairan struct {
	Pinjaman *models.Pinjaman `json:"pinjaman"`
	Netting  *HasilNetting    `json:"netting"`
	Rincian  RincianPinjaman  `json:"rincian"`
	Jadwal   int              `json:"jadwal_dibuat"`
}

// AjukanPinjaman records a member's loan application. The interest mode
// is deliberately left unset: an admin must configure it before
// approval, and an unconfigured mode blocks approval instead of
// defaulting to zero interest.
func (s *LoanService) AjukanPinjaman(req models.PengajuanPinjamanRequest) (*models.Pinjaman, error) {
	if req.Jumlah <= 0 {
		return nil, models.NewValidationError("jumlah", "jumlah pengajuan harus lebih dari 0")
	}
	if req.Tenor < 1 {
		return nil, models.NewValidationError("tenor", "tenor minimal 1 bulan")
	}

	anggota, err := s.anggotaStore.FindByID(req.AnggotaID)
	if err != nil {
		return nil, err
	}
	if anggota.Status == models.AnggotaNonAktif {
		return nil, models.NewValidationError("anggota_id", "anggota sudah nonaktif")
	}

	now := time.Now()
	p := &models.Pinjaman{
		AnggotaID:        req.AnggotaID,
		NoPinjaman:       utils.GenerateNoPinjaman(now),
		JumlahPengajuan:  req.Jumlah,
		JumlahPinjaman:   req.Jumlah,
		Tenor:            req.Tenor,
		Status:           models.PinjamanPengajuan,
		TanggalPengajuan: now,
		StatusPengiriman: models.PengirimanPending,
	}
	if err := s.pinjamanStore.Create(p); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"no_pinjaman": p.NoPinjaman,
		"anggota_id":  p.AnggotaID,
		"jumlah":      p.JumlahPengajuan,
	}).Info("pengajuan pinjaman dibuat")

	return p, nil
}

// KonfigurasiBunga sets the interest mode and value. Idempotent and
// repeatable while the loan is still in PENGAJUAN or DISETUJUI; the
// status itself never changes here.
func (s *LoanService) KonfigurasiBunga(id int, req models.KonfigurasiBungaRequest) (*models.Pinjaman, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PinjamanPengajuan && p.Status != models.PinjamanDisetujui {
		return nil, &models.InvalidStateTransitionError{Operation: "mengatur bunga", From: p.Status}
	}

	// Validates mode and value without persisting anything yet.
	if _, err := HitungBunga(req.JenisBunga, p.JumlahPinjaman, p.Tenor, req.NilaiBunga); err != nil {
		return nil, err
	}

	p.JenisBunga = req.JenisBunga
	p.NilaiBunga = req.NilaiBunga
	if err := s.pinjamanStore.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Setujui moves PENGAJUAN to DISETUJUI and fixes the principal and
// interest terms. Installments are not created yet.
func (s *LoanService) Setujui(id int, jumlahDisetujui int64, admin string) (*models.Pinjaman, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PinjamanPengajuan {
		return nil, &models.InvalidStateTransitionError{Operation: "menyetujui", From: p.Status}
	}
	if jumlahDisetujui <= 0 {
		return nil, models.NewValidationError("jumlah_pinjaman", "jumlah disetujui harus lebih dari 0")
	}
	if p.JenisBunga == "" {
		return nil, models.NewValidationError("jenis_bunga", "bunga belum dikonfigurasi")
	}
	if p.JenisBunga != models.BungaNone && p.NilaiBunga <= 0 {
		return nil, models.NewValidationError("nilai_bunga", "nilai bunga harus lebih dari 0")
	}

	// Must compute cleanly with the final terms before anything is stored.
	if _, err := HitungRincian(p.JenisBunga, jumlahDisetujui, p.Tenor, p.NilaiBunga); err != nil {
		return nil, err
	}

	now := time.Now()
	p.JumlahPinjaman = jumlahDisetujui
	p.Status = models.PinjamanDisetujui
	p.TanggalPersetujuan = &now
	p.DiprosesOleh = sql.NullString{String: admin, Valid: admin != ""}
	if err := s.pinjamanStore.Update(p); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"no_pinjaman": p.NoPinjaman,
		"jumlah":      p.JumlahPinjaman,
		"admin":       admin,
	}).Info("pinjaman disetujui")

	return p, nil
}

// Tolak moves PENGAJUAN to the terminal DITOLAK.
func (s *LoanService) Tolak(id int, alasan, admin string) (*models.Pinjaman, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PinjamanPengajuan {
		return nil, &models.InvalidStateTransitionError{Operation: "menolak", From: p.Status}
	}

	p.Status = models.PinjamanDitolak
	p.AlasanPenolakan = sql.NullString{String: alasan, Valid: alasan != ""}
	p.DiprosesOleh = sql.NullString{String: admin, Valid: admin != ""}
	return p, s.pinjamanStore.Update(p)
}

// PreviewPencairan computes the netting breakdown for a disbursement
// without committing anything, for admin review.
func (s *LoanService) PreviewPencairan(id int, angsuranIDs []int) (*HasilNetting, *RincianPinjaman, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, nil, err
	}
	if p.Status != models.PinjamanDisetujui {
		return nil, nil, &models.InvalidStateTransitionError{Operation: "mencairkan", From: p.Status}
	}

	netting, rincian, err := s.hitungPencairan(p, angsuranIDs)
	if err != nil {
		return nil, nil, err
	}
	return netting, &rincian, nil
}

// AngsuranBerjalan lists a member's unpaid installments across their
// running loans, the candidate set for disbursement deductions.
func (s *LoanService) AngsuranBerjalan(anggotaID int) ([]models.Angsuran, error) {
	if _, err := s.anggotaStore.FindByID(anggotaID); err != nil {
		return nil, err
	}
	return s.angsuranStore.FindBelumBayarByAnggota(anggotaID)
}

// Cairkan runs the DISETUJUI -> DICAIRKAN transition: netting against
// the member's other unpaid installments, the one-shot schedule
// generation, and the single-transaction write of all three effects.
// Never retry this blindly after a PartialCommitError; a re-run against
// a half-applied store duplicates schedules and fees.
func (s *LoanService) Cairkan(id int, angsuranIDs []int, admin string) (*HasilPencairan, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PinjamanDisetujui {
		return nil, &models.InvalidStateTransitionError{Operation: "mencairkan", From: p.Status}
	}

	netting, rincian, err := s.hitungPencairan(p, angsuranIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p.Status = models.PinjamanDicairkan
	p.Potongan = netting.TotalPotongan
	p.TanggalPencairan = &now
	p.DiprosesOleh = sql.NullString{String: admin, Valid: admin != ""}

	jadwal := BuatJadwalAngsuran(p.ID, rincian, p.Tenor, now)
	keterangan := fmt.Sprintf("Dipotong dari pencairan %s", p.NoPinjaman)

	ids := make([]int, 0, len(netting.AngsuranDipotong))
	for _, a := range netting.AngsuranDipotong {
		ids = append(ids, a.ID)
	}

	if err := s.pinjamanStore.Cairkan(p, ids, keterangan, jadwal); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"no_pinjaman":     p.NoPinjaman,
		"jumlah_diterima": netting.JumlahDiterima,
		"total_potongan":  netting.TotalPotongan,
		"admin":           admin,
	}).Info("pinjaman dicairkan")

	return &HasilPencairan{
		Pinjaman: p,
		Netting:  netting,
		Rincian:  rincian,
		Jadwal:   len(jadwal),
	}, nil
}

func (s *LoanService) hitungPencairan(p *models.Pinjaman, angsuranIDs []int) (*HasilNetting, RincianPinjaman, error) {
	rincian, err := HitungRincian(p.JenisBunga, p.JumlahPinjaman, p.Tenor, p.NilaiBunga)
	if err != nil {
		return nil, RincianPinjaman{}, err
	}

	berjalan, err := s.pinjamanStore.FindByAnggotaAndStatus(p.AnggotaID, models.PinjamanDicairkan)
	if err != nil {
		return nil, RincianPinjaman{}, err
	}

	dipilih, err := s.angsuranStore.FindByIDs(angsuranIDs)
	if err != nil {
		return nil, RincianPinjaman{}, err
	}
	if len(dipilih) != len(dedupe(angsuranIDs)) {
		return nil, RincianPinjaman{}, models.NewValidationError("angsuran_ids", "ada angsuran yang tidak ditemukan")
	}

	netting, err := s.netting.Hitung(p, berjalan, dipilih)
	if err != nil {
		return nil, RincianPinjaman{}, err
	}
	return netting, rincian, nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// BayarAngsuran marks one installment paid. Paying an already-paid
// installment is a no-op: the stored tanggal_bayar is never touched
// after the first success.
func (s *LoanService) BayarAngsuran(id int, tanggal time.Time, metode, keterangan string) (*models.Angsuran, error) {
	a, err := s.angsuranStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a.Status == models.AngsuranLunas {
		return a, nil
	}

	updated, err := s.angsuranStore.Bayar(id, tanggal, metode, keterangan)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with another payment; the first write stands.
		return s.angsuranStore.FindByID(id)
	}
	return s.angsuranStore.FindByID(id)
}

// ImportPembayaran applies a parsed bulk-repayment workbook row by row.
// Already-paid installments are skipped, not errors, so re-importing
// the same file is harmless.
func (s *LoanService) ImportPembayaran(rows []models.AngsuranImportRow) *models.AngsuranImportResult {
	result := &models.AngsuranImportResult{
		TotalRows:  len(rows),
		ImportTime: time.Now(),
	}

	for i, row := range rows {
		rowNum := i + 2 // 1-based plus header row

		p, err := s.pinjamanStore.FindByNoPinjaman(row.NoPinjaman)
		if err != nil {
			result.Errors = append(result.Errors, models.AngsuranImportError{
				Row: rowNum, Field: "no_pinjaman", Value: row.NoPinjaman,
				Message: "pinjaman tidak ditemukan",
			})
			continue
		}

		a, err := s.angsuranStore.FindByPinjamanAndBulan(p.ID, row.BulanKe)
		if err != nil {
			result.Errors = append(result.Errors, models.AngsuranImportError{
				Row: rowNum, Field: "bulan_ke", Value: fmt.Sprintf("%d", row.BulanKe),
				Message: "angsuran tidak ditemukan",
			})
			continue
		}

		if a.Status == models.AngsuranLunas {
			result.SkippedCount++
			continue
		}

		updated, err := s.angsuranStore.Bayar(a.ID, row.TanggalBayar, models.MetodeBayarImport, row.Keterangan)
		if err != nil {
			result.Errors = append(result.Errors, models.AngsuranImportError{
				Row: rowNum, Field: "angsuran", Value: fmt.Sprintf("%d", a.ID),
				Message: err.Error(),
			})
			continue
		}
		if updated {
			result.PaidCount++
		} else {
			result.SkippedCount++
		}
	}

	result.ErrorCount = len(result.Errors)
	return result
}

// Detail assembles the full admin view of one loan, including the
// derived paid-off flag and, for disbursed loans, the reconciled
// principal/interest split of the recorded deduction.
func (s *LoanService) Detail(id int) (*DetailPinjaman, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}

	anggota, err := s.anggotaStore.FindByID(p.AnggotaID)
	if err != nil {
		return nil, err
	}

	detail := &DetailPinjaman{Pinjaman: p, Anggota: anggota}

	if p.JenisBunga != "" && p.Status != models.PinjamanDitolak {
		rincian, err := HitungRincian(p.JenisBunga, p.JumlahPinjaman, p.Tenor, p.NilaiBunga)
		if err == nil {
			detail.Rincian = &rincian
		}
	}

	if p.Status == models.PinjamanDicairkan {
		jadwal, err := s.angsuranStore.FindByPinjaman(p.ID)
		if err != nil {
			return nil, err
		}
		detail.Jadwal = jadwal

		sisa, err := s.angsuranStore.CountBelumBayar(p.ID)
		if err != nil {
			return nil, err
		}
		detail.Lunas = sisa == 0

		rincianPotongan, err := s.rincianPotonganHistoris(p)
		if err != nil {
			return nil, err
		}
		detail.RincianPotongan = rincianPotongan
	}

	return detail, nil
}

func (s *LoanService) rincianPotonganHistoris(p *models.Pinjaman) (*RincianPotongan, error) {
	if p.Potongan == 0 {
		return nil, nil
	}

	terpotong, err := s.angsuranStore.FindTerpotongOleh(p.ID, p.NoPinjaman)
	if err != nil {
		return nil, err
	}

	induk := make(map[int]*models.Pinjaman)
	for _, a := range terpotong {
		if _, ok := induk[a.PinjamanID]; ok {
			continue
		}
		parent, err := s.pinjamanStore.FindByID(a.PinjamanID)
		if err != nil {
			return nil, err
		}
		induk[a.PinjamanID] = parent
	}

	rincian, err := s.netting.RincianPotonganHistoris(p, terpotong, induk)
	if err != nil {
		return nil, err
	}
	return &rincian, nil
}

// TandaiTerkirim marks the signed agreement as delivered.
func (s *LoanService) TandaiTerkirim(id int) (*models.Pinjaman, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PinjamanDicairkan {
		return nil, &models.InvalidStateTransitionError{Operation: "menandai terkirim", From: p.Status}
	}

	now := time.Now()
	p.StatusPengiriman = models.PengirimanSent
	p.TanggalPengiriman = &now
	return p, s.pinjamanStore.Update(p)
}

// PayloadPerjanjian supplies the computed totals the external document
// formatter needs; the engine owns only the numbers, not the rendering.
func (s *LoanService) PayloadPerjanjian(id int, admin string) (*models.PerjanjianPayload, error) {
	p, err := s.pinjamanStore.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PinjamanDisetujui && p.Status != models.PinjamanDicairkan {
		return nil, &models.InvalidStateTransitionError{Operation: "mencetak perjanjian", From: p.Status}
	}

	anggota, err := s.anggotaStore.FindByID(p.AnggotaID)
	if err != nil {
		return nil, err
	}

	rincian, err := HitungRincian(p.JenisBunga, p.JumlahPinjaman, p.Tenor, p.NilaiBunga)
	if err != nil {
		return nil, err
	}

	return &models.PerjanjianPayload{
		NoPinjaman:      p.NoPinjaman,
		NamaAnggota:     anggota.Nama,
		NIK:             anggota.NIK,
		JumlahPinjaman:  p.JumlahPinjaman,
		Tenor:           p.Tenor,
		JenisBunga:      p.JenisBunga,
		NilaiBunga:      p.NilaiBunga,
		TotalBunga:      rincian.TotalBunga,
		TotalTagihan:    rincian.TotalTagihan,
		AngsuranBulanan: rincian.AngsuranBulanan,
		TotalPotongan:   p.Potongan,
		BiayaAdmin:      s.biayaAdmin,
		JumlahDiterima:  p.JumlahPinjaman - p.Potongan - s.biayaAdmin,
		TanggalCetak:    time.Now(),
		DicetakOleh:     admin,
	}, nil
}
