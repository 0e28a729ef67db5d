package worker

import (
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"koperasi-web/internal/config"
)

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	tagihanHandler := NewTagihanWajibHandler(db, redis, cfg)
	overdueHandler := NewOverdueScanHandler(db, redis, cfg)

	mux.HandleFunc(TypeTagihanWajib, tagihanHandler.Handle)
	mux.HandleFunc(TypeOverdueScan, overdueHandler.Handle)
}
