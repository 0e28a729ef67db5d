package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
)

const (
	dashboardCacheKey = "dashboard:stats"
	dashboardCacheTTL = 5 * time.Minute
)

// DashboardService rolls up portfolio statistics. Read-only over the
// other repositories; results are cached in Redis when available.
type DashboardService struct {
	anggotaRepo  *repository.AnggotaRepository
	pinjamanRepo *repository.PinjamanRepository
	angsuranRepo *repository.AngsuranRepository
	simpananRepo *repository.SimpananRepository
	redis        *redis.Client
	log          *logrus.Logger
}

func NewDashboardService(
	anggotaRepo *repository.AnggotaRepository,
	pinjamanRepo *repository.PinjamanRepository,
	angsuranRepo *repository.AngsuranRepository,
	simpananRepo *repository.SimpananRepository,
	redisClient *redis.Client,
	log *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		anggotaRepo:  anggotaRepo,
		pinjamanRepo: pinjamanRepo,
		angsuranRepo: angsuranRepo,
		simpananRepo: simpananRepo,
		redis:        redisClient,
		log:          log,
	}
}

func (s *DashboardService) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var stats models.DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.hitungStats()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				s.log.WithError(err).Warn("failed to cache dashboard stats")
			}
		}
	}

	return stats, nil
}

func (s *DashboardService) hitungStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{GeneratedAt: time.Now()}

	var err error
	if stats.AnggotaAktif, err = s.anggotaRepo.CountByStatus(models.AnggotaAktif); err != nil {
		return nil, err
	}
	if stats.AnggotaPasif, err = s.anggotaRepo.CountByStatus(models.AnggotaPasif); err != nil {
		return nil, err
	}
	if stats.AnggotaNonAktif, err = s.anggotaRepo.CountByStatus(models.AnggotaNonAktif); err != nil {
		return nil, err
	}

	if stats.PinjamanPengajuan, err = s.pinjamanRepo.CountByStatus(models.PinjamanPengajuan); err != nil {
		return nil, err
	}
	if stats.PinjamanDisetujui, err = s.pinjamanRepo.CountByStatus(models.PinjamanDisetujui); err != nil {
		return nil, err
	}
	if stats.PinjamanBerjalan, err = s.pinjamanRepo.CountByStatus(models.PinjamanDicairkan); err != nil {
		return nil, err
	}
	if stats.PinjamanDitolak, err = s.pinjamanRepo.CountByStatus(models.PinjamanDitolak); err != nil {
		return nil, err
	}
	if stats.PinjamanLunas, err = s.pinjamanRepo.CountLunas(); err != nil {
		return nil, err
	}

	if stats.TotalDicairkan, err = s.pinjamanRepo.TotalDicairkan(); err != nil {
		return nil, err
	}
	if stats.TotalTunggakan, err = s.angsuranRepo.TotalBelumBayar(); err != nil {
		return nil, err
	}
	if stats.AngsuranJatuhTempo, err = s.angsuranRepo.CountJatuhTempo(time.Now()); err != nil {
		return nil, err
	}
	if stats.TotalSimpanan, err = s.simpananRepo.TotalSaldo(); err != nil {
		return nil, err
	}

	return stats, nil
}
