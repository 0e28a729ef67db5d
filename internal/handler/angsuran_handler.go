package handler

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"koperasi-web/internal/config"
	"koperasi-web/internal/models"
	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
)

type AngsuranHandler struct {
	loanService  *service.LoanService
	excelService *service.ExcelService
	cfg          *config.Config
}

func NewAngsuranHandler(loanService *service.LoanService, excelService *service.ExcelService, cfg *config.Config) *AngsuranHandler {
	return &AngsuranHandler{
		loanService:  loanService,
		excelService: excelService,
		cfg:          cfg,
	}
}

// Bayar records a manual payment on one installment. Paying an
// installment that is already LUNAS is a no-op, not an error.
func (h *AngsuranHandler) Bayar(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid installment ID", err)
	}

	var req models.BayarAngsuranRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	tanggal := time.Now()
	if req.TanggalBayar != "" {
		tanggal, err = time.Parse("2006-01-02", req.TanggalBayar)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid tanggal_bayar format, expected YYYY-MM-DD", err)
		}
	}

	angsuran, err := h.loanService.BayarAngsuran(id, tanggal, models.MetodeBayarManual, req.Keterangan)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pembayaran angsuran dicatat", angsuran)
}

// Import processes a bulk repayment workbook. Invalid rows are
// reported per row and never block the valid ones.
func (h *AngsuranHandler) Import(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("IMPORT-%s%s", uuid.New().String()[:8], ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	rows, parseErrors, err := h.excelService.ParseAngsuranImport(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	}

	result := h.loanService.ImportPembayaran(rows)
	result.Errors = append(parseErrors, result.Errors...)
	result.ErrorCount = len(result.Errors)
	result.TotalRows = len(rows) + len(parseErrors)

	return utils.SuccessResponse(c, "Import pembayaran selesai", result)
}

// DownloadTemplate serves the import template workbook.
func (h *AngsuranHandler) DownloadTemplate(c *fiber.Ctx) error {
	outputPath := filepath.Join(h.cfg.ExportPath, fmt.Sprintf("template-angsuran-%s.xlsx", uuid.New().String()[:8]))
	if err := h.excelService.BuatTemplateImport(outputPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}
	return c.Download(outputPath, "template-import-angsuran.xlsx")
}
