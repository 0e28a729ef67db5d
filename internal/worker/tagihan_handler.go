package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"koperasi-web/internal/config"
	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/utils"
)

// TagihanWajibHandler bills the monthly mandatory savings for every
// active member. Re-running the same period is safe: members already
// billed for that month are skipped.
type TagihanWajibHandler struct {
	anggotaRepo  *repository.AnggotaRepository
	simpananRepo *repository.SimpananRepository
	redis        *redis.Client
	cfg          *config.Config
}

func NewTagihanWajibHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *TagihanWajibHandler {
	return &TagihanWajibHandler{
		anggotaRepo:  repository.NewAnggotaRepository(db),
		simpananRepo: repository.NewSimpananRepository(db),
		redis:        redisClient,
		cfg:          cfg,
	}
}

func (h *TagihanWajibHandler) Handle(ctx context.Context, task *asynq.Task) error {
	log := utils.GetLogger()

	var payload TagihanWajibPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	now := time.Now()
	if payload.Bulan == 0 {
		payload.Bulan = int(now.Month())
	}
	if payload.Tahun == 0 {
		payload.Tahun = now.Year()
	}

	anggota, err := h.anggotaRepo.FindAktif()
	if err != nil {
		return fmt.Errorf("failed to list active members: %w", err)
	}

	// Due on the last day of the billing month
	jatuhTempo := time.Date(payload.Tahun, time.Month(payload.Bulan), 1, 0, 0, 0, 0, time.Local).
		AddDate(0, 1, -1)

	billed, skipped := 0, 0
	for _, a := range anggota {
		exists, err := h.simpananRepo.TagihanWajibExists(a.ID, payload.Bulan, payload.Tahun)
		if err != nil {
			return fmt.Errorf("failed to check existing bill for anggota %d: %w", a.ID, err)
		}
		if exists {
			skipped++
			continue
		}

		tagihan := &models.Simpanan{
			AnggotaID:     a.ID,
			Jenis:         models.SimpananWajib,
			TipeTransaksi: models.TransaksiSetor,
			Jumlah:        h.cfg.SimpananWajib,
			Status:        models.SimpananBelumBayar,
			BulanKe:       sql.NullInt64{Int64: int64(payload.Bulan), Valid: true},
			JatuhTempo:    &jatuhTempo,
			Keterangan: sql.NullString{
				String: fmt.Sprintf("Tagihan simpanan wajib %02d/%d", payload.Bulan, payload.Tahun),
				Valid:  true,
			},
		}
		if err := h.simpananRepo.Create(tagihan); err != nil {
			return fmt.Errorf("failed to create bill for anggota %d: %w", a.ID, err)
		}
		billed++
	}

	if h.redis != nil {
		progressKey := fmt.Sprintf("billing:%d-%02d", payload.Tahun, payload.Bulan)
		progress, _ := json.Marshal(map[string]interface{}{
			"billed":      billed,
			"skipped":     skipped,
			"finished_at": time.Now(),
		})
		h.redis.Set(ctx, progressKey, progress, 7*24*time.Hour)
	}

	log.WithField("bulan", payload.Bulan).
		WithField("tahun", payload.Tahun).
		WithField("billed", billed).
		WithField("skipped", skipped).
		Info("penagihan simpanan wajib selesai")

	return nil
}
