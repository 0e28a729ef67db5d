package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"koperasi-web/internal/config"
	"koperasi-web/internal/handler"
	"koperasi-web/internal/middleware"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	log := utils.GetLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	anggotaRepo := repository.NewAnggotaRepository(db)
	pinjamanRepo := repository.NewPinjamanRepository(db)
	angsuranRepo := repository.NewAngsuranRepository(db)
	simpananRepo := repository.NewSimpananRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)
	excelService := service.NewExcelService()
	netting := service.NewNettingEngine(cfg.BiayaAdmin, log)
	settlement := service.NewSettlementCalculator(cfg.BiayaAdmin, log)
	loanService := service.NewLoanService(pinjamanRepo, angsuranRepo, anggotaRepo, netting, cfg.BiayaAdmin, log)
	anggotaService := service.NewAnggotaService(anggotaRepo, pinjamanRepo, angsuranRepo, simpananRepo, settlement, log)
	simpananService := service.NewSimpananService(simpananRepo, anggotaRepo, log)
	dashboardService := service.NewDashboardService(anggotaRepo, pinjamanRepo, angsuranRepo, simpananRepo, redis, log)

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	anggotaHandler := handler.NewAnggotaHandler(anggotaService, anggotaRepo)
	pinjamanHandler := handler.NewPinjamanHandler(loanService, pinjamanRepo)
	angsuranHandler := handler.NewAngsuranHandler(loanService, excelService, cfg)
	simpananHandler := handler.NewSimpananHandler(simpananService, simpananRepo, asynqClient)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	laporanHandler := handler.NewLaporanHandler(loanService, excelService, pinjamanRepo, cfg)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Auth routes
	protected.Get("/auth/me", authHandler.Me)

	// Dashboard routes
	protected.Get("/dashboard/stats", dashboardHandler.GetStats)

	// Anggota routes
	anggota := protected.Group("/anggota")
	anggota.Get("/", anggotaHandler.GetAll)
	anggota.Post("/", anggotaHandler.Daftar)
	anggota.Get("/:id", anggotaHandler.GetByID)
	anggota.Post("/:id/pasif", middleware.AdminOnly(), anggotaHandler.JadikanPasif)
	anggota.Post("/:id/aktifkan", middleware.AdminOnly(), anggotaHandler.Aktifkan)
	anggota.Get("/:id/settlement", anggotaHandler.PreviewSettlement)
	anggota.Post("/:id/nonaktifkan", middleware.AdminOnly(), anggotaHandler.Nonaktifkan)
	anggota.Post("/:id/settlement/kirim", middleware.AdminOnly(), anggotaHandler.TandaiSettlementTerkirim)

	// Pinjaman routes
	pinjaman := protected.Group("/pinjaman")
	pinjaman.Get("/", pinjamanHandler.GetAll)
	pinjaman.Post("/", pinjamanHandler.Ajukan)
	pinjaman.Get("/anggota/:anggotaId/angsuran-berjalan", pinjamanHandler.GetAngsuranBerjalan)
	pinjaman.Get("/:id", pinjamanHandler.GetDetail)
	pinjaman.Put("/:id/bunga", middleware.AdminOnly(), pinjamanHandler.KonfigurasiBunga)
	pinjaman.Post("/:id/setujui", middleware.AdminOnly(), pinjamanHandler.Setujui)
	pinjaman.Post("/:id/tolak", middleware.AdminOnly(), pinjamanHandler.Tolak)
	pinjaman.Post("/:id/preview-pencairan", pinjamanHandler.PreviewPencairan)
	pinjaman.Post("/:id/cairkan", middleware.AdminOnly(), pinjamanHandler.Cairkan)
	pinjaman.Get("/:id/perjanjian", pinjamanHandler.GetPerjanjian)
	pinjaman.Post("/:id/kirim", pinjamanHandler.TandaiTerkirim)

	// Angsuran routes
	angsuran := protected.Group("/angsuran")
	angsuran.Get("/template", angsuranHandler.DownloadTemplate)
	angsuran.Post("/import", angsuranHandler.Import)
	angsuran.Post("/:id/bayar", angsuranHandler.Bayar)

	// Simpanan routes
	simpanan := protected.Group("/simpanan")
	simpanan.Post("/", simpananHandler.Transaksi)
	simpanan.Post("/billing", simpananHandler.EnqueueBilling)
	simpanan.Post("/:id/bayar", simpananHandler.BayarTagihan)
	simpanan.Get("/anggota/:anggotaId", simpananHandler.GetByAnggota)
	simpanan.Get("/anggota/:anggotaId/saldo", simpananHandler.GetSaldo)

	// Laporan routes
	laporan := protected.Group("/laporan")
	laporan.Get("/portofolio", laporanHandler.GetPortfolio)
	laporan.Get("/portofolio/export", laporanHandler.ExportPortfolio)
	laporan.Get("/pinjaman/:id/export", laporanHandler.ExportAnalisa)
}
