package handler

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"koperasi-web/internal/config"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
)

type LaporanHandler struct {
	loanService  *service.LoanService
	excelService *service.ExcelService
	pinjamanRepo *repository.PinjamanRepository
	cfg          *config.Config
}

func NewLaporanHandler(
	loanService *service.LoanService,
	excelService *service.ExcelService,
	pinjamanRepo *repository.PinjamanRepository,
	cfg *config.Config,
) *LaporanHandler {
	return &LaporanHandler{
		loanService:  loanService,
		excelService: excelService,
		pinjamanRepo: pinjamanRepo,
		cfg:          cfg,
	}
}

// GetPortfolio returns the loan portfolio rollup as JSON.
func (h *LaporanHandler) GetPortfolio(c *fiber.Ctx) error {
	rows, err := h.pinjamanRepo.Portfolio()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve portfolio", err)
	}

	return utils.SuccessResponse(c, "Portfolio retrieved successfully", rows)
}

// ExportPortfolio writes the portfolio rollup to an Excel workbook and
// serves it.
func (h *LaporanHandler) ExportPortfolio(c *fiber.Ctx) error {
	rows, err := h.pinjamanRepo.Portfolio()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve portfolio", err)
	}

	outputPath := filepath.Join(h.cfg.ExportPath, fmt.Sprintf("portofolio-%s.xlsx", uuid.New().String()[:8]))
	if err := h.excelService.ExportPortfolio(rows, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export portfolio", err)
	}

	return c.Download(outputPath, "portofolio-pinjaman.xlsx")
}

// ExportAnalisa exports one loan's analysis workbook: terms, deduction
// breakdown, and full schedule.
func (h *LaporanHandler) ExportAnalisa(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	detail, err := h.loanService.Detail(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	outputPath := filepath.Join(h.cfg.ExportPath, fmt.Sprintf("analisa-%s.xlsx", uuid.New().String()[:8]))
	if err := h.excelService.ExportAnalisaPinjaman(detail, outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export loan analysis", err)
	}

	filename := fmt.Sprintf("analisa-%s.xlsx", detail.Pinjaman.NoPinjaman)
	return c.Download(outputPath, filename)
}
