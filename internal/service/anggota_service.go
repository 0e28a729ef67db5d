package service

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
)

// AnggotaService handles the member lifecycle. AKTIF -> PASIF is a
// reversible demotion; deactivation is terminal and produces the exit
// settlement preview for the operator.
type AnggotaService struct {
	anggotaRepo  *repository.AnggotaRepository
	pinjamanRepo *repository.PinjamanRepository
	angsuranRepo *repository.AngsuranRepository
	simpananRepo *repository.SimpananRepository
	settlement   *SettlementCalculator
	log          *logrus.Logger
}

func NewAnggotaService(
	anggotaRepo *repository.AnggotaRepository,
	pinjamanRepo *repository.PinjamanRepository,
	angsuranRepo *repository.AngsuranRepository,
	simpananRepo *repository.SimpananRepository,
	settlement *SettlementCalculator,
	log *logrus.Logger,
) *AnggotaService {
	return &AnggotaService{
		anggotaRepo:  anggotaRepo,
		pinjamanRepo: pinjamanRepo,
		angsuranRepo: angsuranRepo,
		simpananRepo: simpananRepo,
		settlement:   settlement,
		log:          log,
	}
}

func (s *AnggotaService) Daftar(req models.AnggotaRequest) (*models.Anggota, error) {
	a := &models.Anggota{
		NIK:          req.NIK,
		Nama:         req.Nama,
		Email:        sql.NullString{String: req.Email, Valid: req.Email != ""},
		NoTelepon:    sql.NullString{String: req.NoTelepon, Valid: req.NoTelepon != ""},
		Alamat:       sql.NullString{String: req.Alamat, Valid: req.Alamat != ""},
		Perusahaan:   sql.NullString{String: req.Perusahaan, Valid: req.Perusahaan != ""},
		UnitKerja:    sql.NullString{String: req.UnitKerja, Valid: req.UnitKerja != ""},
		Jabatan:      sql.NullString{String: req.Jabatan, Valid: req.Jabatan != ""},
		Status:       models.AnggotaAktif,
		TanggalMasuk: time.Now(),
	}
	if err := s.anggotaRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

// JadikanPasif demotes an active member; reversible via Aktifkan.
func (s *AnggotaService) JadikanPasif(id int) (*models.Anggota, error) {
	return s.ubahStatus(id, models.AnggotaAktif, models.AnggotaPasif)
}

func (s *AnggotaService) Aktifkan(id int) (*models.Anggota, error) {
	return s.ubahStatus(id, models.AnggotaPasif, models.AnggotaAktif)
}

func (s *AnggotaService) ubahStatus(id int, dari, ke string) (*models.Anggota, error) {
	a, err := s.anggotaRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if a.Status != dari {
		return nil, &models.InvalidStateTransitionError{Operation: "mengubah status anggota ke " + ke, From: a.Status}
	}
	if err := s.anggotaRepo.UpdateStatus(id, ke); err != nil {
		return nil, err
	}
	a.Status = ke
	return a, nil
}

// PreviewSettlement computes the exit settlement for a member without
// changing anything: settled savings in, pro-rated outstanding debt
// out, minus the flat fee.
func (s *AnggotaService) PreviewSettlement(id int) (*HasilSettlement, error) {
	if _, err := s.anggotaRepo.FindByID(id); err != nil {
		return nil, err
	}

	simpanan, err := s.simpananRepo.FindLunasByAnggota(id)
	if err != nil {
		return nil, err
	}

	pinjaman, err := s.pinjamanRepo.FindByAnggotaAndStatus(id, models.PinjamanDicairkan)
	if err != nil {
		return nil, err
	}

	tunggakan := make([]TunggakanPinjaman, 0, len(pinjaman))
	for _, p := range pinjaman {
		sisa, err := s.angsuranRepo.CountBelumBayar(p.ID)
		if err != nil {
			return nil, err
		}
		if sisa == 0 {
			continue
		}
		tunggakan = append(tunggakan, TunggakanPinjaman{
			NoPinjaman:      p.NoPinjaman,
			JumlahPinjaman:  p.JumlahPinjaman,
			Tenor:           p.Tenor,
			JenisBunga:      p.JenisBunga,
			NilaiBunga:      p.NilaiBunga,
			AngsuranTersisa: sisa,
		})
	}

	return s.settlement.Hitung(simpanan, tunggakan)
}

// Nonaktifkan terminates the membership, stamps exit metadata, and
// returns the settlement for manual reconciliation. The settlement is
// never auto-applied to the books.
func (s *AnggotaService) Nonaktifkan(id int, alasan string) (*HasilSettlement, error) {
	hasil, err := s.PreviewSettlement(id)
	if err != nil {
		return nil, err
	}

	if err := s.anggotaRepo.Nonaktifkan(id, time.Now(), alasan); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"anggota_id":     id,
		"net_settlement": hasil.NetSettlement,
	}).Info("anggota dinonaktifkan")

	return hasil, nil
}

// TandaiSettlementTerkirim records that the settlement payout/billing
// document reached the former member.
func (s *AnggotaService) TandaiSettlementTerkirim(id int) error {
	a, err := s.anggotaRepo.FindByID(id)
	if err != nil {
		return err
	}
	if a.Status != models.AnggotaNonAktif {
		return &models.InvalidStateTransitionError{Operation: "menandai settlement terkirim", From: a.Status}
	}
	return s.anggotaRepo.UpdateSettlementDelivery(id, models.PengirimanSent, time.Now())
}
