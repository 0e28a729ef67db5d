package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeTagihanWajib = "simpanan:tagihan_wajib"
	TypeOverdueScan  = "angsuran:overdue_scan"
)

// TagihanWajibPayload targets one billing period. Zero values mean the
// current month.
type TagihanWajibPayload struct {
	Bulan int `json:"bulan"`
	Tahun int `json:"tahun"`
}

func NewTagihanWajibTask() (*asynq.Task, error) {
	now := time.Now()
	payload, err := json.Marshal(TagihanWajibPayload{
		Bulan: int(now.Month()),
		Tahun: now.Year(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTagihanWajib, payload), nil
}

func NewOverdueScanTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeOverdueScan, nil), nil
}
