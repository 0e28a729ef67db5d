package service

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
)

// SimpananService records savings transactions. Withdrawals are capped
// at the settled balance of the savings type; POKOK can only be
// withdrawn through the exit settlement, never here.
type SimpananService struct {
	simpananRepo *repository.SimpananRepository
	anggotaRepo  *repository.AnggotaRepository
	log          *logrus.Logger
}

func NewSimpananService(
	simpananRepo *repository.SimpananRepository,
	anggotaRepo *repository.AnggotaRepository,
	log *logrus.Logger,
) *SimpananService {
	return &SimpananService{
		simpananRepo: simpananRepo,
		anggotaRepo:  anggotaRepo,
		log:          log,
	}
}

func (s *SimpananService) Transaksi(req models.SimpananRequest) (*models.Simpanan, error) {
	anggota, err := s.anggotaRepo.FindByID(req.AnggotaID)
	if err != nil {
		return nil, err
	}
	if anggota.Status == models.AnggotaNonAktif {
		return nil, &models.InvalidStateTransitionError{Operation: "mencatat transaksi simpanan", From: anggota.Status}
	}

	if req.TipeTransaksi == models.TransaksiTarik {
		if req.Jenis == models.SimpananPokok {
			return nil, &models.ValidationError{Field: "jenis", Message: "simpanan pokok hanya dapat ditarik melalui settlement keluar"}
		}
		saldo, err := s.simpananRepo.SaldoByAnggota(req.AnggotaID)
		if err != nil {
			return nil, err
		}
		var tersedia int64
		switch req.Jenis {
		case models.SimpananWajib:
			tersedia = saldo.Wajib
		case models.SimpananSukarela:
			tersedia = saldo.Sukarela
		}
		if req.Jumlah > tersedia {
			return nil, &models.ValidationError{Field: "jumlah", Message: "penarikan melebihi saldo simpanan"}
		}
	}

	now := time.Now()
	trx := &models.Simpanan{
		AnggotaID:     req.AnggotaID,
		Jenis:         req.Jenis,
		TipeTransaksi: req.TipeTransaksi,
		Jumlah:        req.Jumlah,
		Status:        models.SimpananLunas,
		TanggalBayar:  &now,
		Keterangan:    sql.NullString{String: req.Keterangan, Valid: req.Keterangan != ""},
	}
	if err := s.simpananRepo.Create(trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// BayarTagihan settles one billed monthly obligation. Already-settled
// rows are returned unchanged.
func (s *SimpananService) BayarTagihan(id int) (*models.Simpanan, error) {
	trx, err := s.simpananRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if trx.Status == models.SimpananLunas {
		return trx, nil
	}

	updated, err := s.simpananRepo.BayarTagihan(id, time.Now())
	if err != nil {
		return nil, err
	}
	if !updated {
		s.log.WithField("simpanan_id", id).Warn("tagihan sudah dibayar oleh proses lain")
	}
	return s.simpananRepo.FindByID(id)
}

func (s *SimpananService) Saldo(anggotaID int) (*models.SaldoSimpanan, error) {
	if _, err := s.anggotaRepo.FindByID(anggotaID); err != nil {
		return nil, err
	}
	return s.simpananRepo.SaldoByAnggota(anggotaID)
}
