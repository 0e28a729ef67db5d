package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"koperasi-web/internal/middleware"
	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
)

type PinjamanHandler struct {
	loanService  *service.LoanService
	pinjamanRepo *repository.PinjamanRepository
}

func NewPinjamanHandler(loanService *service.LoanService, pinjamanRepo *repository.PinjamanRepository) *PinjamanHandler {
	return &PinjamanHandler{
		loanService:  loanService,
		pinjamanRepo: pinjamanRepo,
	}
}

func (h *PinjamanHandler) GetAll(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)
	status := c.Query("status")

	pinjaman, total, err := h.pinjamanRepo.FindAll(params.Limit, offset, params.Search, status)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve loans", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Loans retrieved successfully", fiber.Map{
		"pinjaman":   pinjaman,
		"pagination": pagination,
	}, pagination)
}

func (h *PinjamanHandler) GetDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	detail, err := h.loanService.Detail(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Loan retrieved successfully", detail)
}

func (h *PinjamanHandler) Ajukan(c *fiber.Ctx) error {
	var req models.PengajuanPinjamanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	pinjaman, err := h.loanService.AjukanPinjaman(req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pengajuan pinjaman berhasil dicatat", pinjaman)
}

func (h *PinjamanHandler) KonfigurasiBunga(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	var req models.KonfigurasiBungaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	pinjaman, err := h.loanService.KonfigurasiBunga(id, req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Konfigurasi bunga berhasil disimpan", pinjaman)
}

func (h *PinjamanHandler) Setujui(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	var req models.PersetujuanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	pinjaman, err := h.loanService.Setujui(id, req.JumlahPinjaman, middleware.AdminName(c))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pinjaman disetujui", pinjaman)
}

func (h *PinjamanHandler) Tolak(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	var req models.PenolakanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	pinjaman, err := h.loanService.Tolak(id, req.Alasan, middleware.AdminName(c))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pinjaman ditolak", pinjaman)
}

// PreviewPencairan returns the netting breakdown for the selected
// installments without touching the loan.
func (h *PinjamanHandler) PreviewPencairan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	var req models.PencairanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	netting, rincian, err := h.loanService.PreviewPencairan(id, req.AngsuranIDs)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Preview pencairan berhasil dihitung", fiber.Map{
		"netting": netting,
		"rincian": rincian,
	})
}

func (h *PinjamanHandler) Cairkan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	var req models.PencairanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	hasil, err := h.loanService.Cairkan(id, req.AngsuranIDs, middleware.AdminName(c))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pinjaman berhasil dicairkan", hasil)
}

// GetPerjanjian returns the payload for the external agreement
// document formatter.
func (h *PinjamanHandler) GetPerjanjian(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	payload, err := h.loanService.PayloadPerjanjian(id, middleware.AdminName(c))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Payload perjanjian berhasil dibuat", payload)
}

func (h *PinjamanHandler) TandaiTerkirim(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid loan ID", err)
	}

	pinjaman, err := h.loanService.TandaiTerkirim(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pengiriman dokumen dicatat", pinjaman)
}

// GetAngsuranBerjalan lists a member's unpaid installments across
// running loans, for the disbursement deduction picker.
func (h *PinjamanHandler) GetAngsuranBerjalan(c *fiber.Ctx) error {
	anggotaID, err := strconv.Atoi(c.Params("anggotaId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	angsuran, err := h.loanService.AngsuranBerjalan(anggotaID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Angsuran berjalan retrieved successfully", angsuran)
}
