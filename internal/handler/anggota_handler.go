package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
)

type AnggotaHandler struct {
	anggotaService *service.AnggotaService
	anggotaRepo    *repository.AnggotaRepository
}

func NewAnggotaHandler(anggotaService *service.AnggotaService, anggotaRepo *repository.AnggotaRepository) *AnggotaHandler {
	return &AnggotaHandler{
		anggotaService: anggotaService,
		anggotaRepo:    anggotaRepo,
	}
}

func (h *AnggotaHandler) GetAll(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)
	status := c.Query("status")

	anggota, total, err := h.anggotaRepo.FindAll(params.Limit, offset, params.Search, status)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve members", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Members retrieved successfully", fiber.Map{
		"anggota":    anggota,
		"pagination": pagination,
	}, pagination)
}

func (h *AnggotaHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	anggota, err := h.anggotaRepo.FindByID(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Member retrieved successfully", anggota)
}

func (h *AnggotaHandler) Daftar(c *fiber.Ctx) error {
	var req models.AnggotaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	anggota, err := h.anggotaService.Daftar(req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Anggota berhasil didaftarkan", anggota)
}

func (h *AnggotaHandler) JadikanPasif(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	anggota, err := h.anggotaService.JadikanPasif(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Anggota dijadikan pasif", anggota)
}

func (h *AnggotaHandler) Aktifkan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	anggota, err := h.anggotaService.Aktifkan(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Anggota diaktifkan kembali", anggota)
}

// PreviewSettlement computes the exit settlement without deactivating.
func (h *AnggotaHandler) PreviewSettlement(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	hasil, err := h.anggotaService.PreviewSettlement(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Preview settlement berhasil dihitung", hasil)
}

func (h *AnggotaHandler) Nonaktifkan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	var req models.NonaktifkanAnggotaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	hasil, err := h.anggotaService.Nonaktifkan(id, req.AlasanKeluar)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Anggota dinonaktifkan", hasil)
}

func (h *AnggotaHandler) TandaiSettlementTerkirim(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	if err := h.anggotaService.TandaiSettlementTerkirim(id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Pengiriman settlement dicatat", nil)
}
