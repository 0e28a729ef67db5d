package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"koperasi-web/internal/config"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/utils"
)

const overdueScanLimit = 500

// OverdueScanHandler flags installments past their due date so the
// dashboard and collection follow-up see them without a live query.
type OverdueScanHandler struct {
	angsuranRepo *repository.AngsuranRepository
	redis        *redis.Client
	cfg          *config.Config
}

func NewOverdueScanHandler(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config) *OverdueScanHandler {
	return &OverdueScanHandler{
		angsuranRepo: repository.NewAngsuranRepository(db),
		redis:        redisClient,
		cfg:          cfg,
	}
}

func (h *OverdueScanHandler) Handle(ctx context.Context, task *asynq.Task) error {
	log := utils.GetLogger()
	now := time.Now()

	total, err := h.angsuranRepo.CountJatuhTempo(now)
	if err != nil {
		return fmt.Errorf("failed to count overdue installments: %w", err)
	}

	angsuran, err := h.angsuranRepo.FindJatuhTempo(now, overdueScanLimit)
	if err != nil {
		return fmt.Errorf("failed to list overdue installments: %w", err)
	}

	for _, a := range angsuran {
		log.WithField("angsuran_id", a.ID).
			WithField("pinjaman_id", a.PinjamanID).
			WithField("jatuh_tempo", a.JatuhTempo.Format("2006-01-02")).
			Warn("angsuran melewati jatuh tempo")
	}

	if h.redis != nil {
		summary, _ := json.Marshal(map[string]interface{}{
			"total":      total,
			"scanned_at": now,
		})
		h.redis.Set(ctx, "overdue:last_scan", summary, 7*24*time.Hour)
	}

	log.WithField("total", total).Info("scan angsuran jatuh tempo selesai")
	return nil
}
