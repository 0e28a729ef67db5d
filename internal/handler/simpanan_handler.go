package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"koperasi-web/internal/models"
	"koperasi-web/internal/repository"
	"koperasi-web/internal/service"
	"koperasi-web/internal/utils"
	"koperasi-web/internal/worker"
)

type SimpananHandler struct {
	simpananService *service.SimpananService
	simpananRepo    *repository.SimpananRepository
	asynqClient     *asynq.Client
}

func NewSimpananHandler(
	simpananService *service.SimpananService,
	simpananRepo *repository.SimpananRepository,
	asynqClient *asynq.Client,
) *SimpananHandler {
	return &SimpananHandler{
		simpananService: simpananService,
		simpananRepo:    simpananRepo,
		asynqClient:     asynqClient,
	}
}

func (h *SimpananHandler) GetByAnggota(c *fiber.Ctx) error {
	anggotaID, err := strconv.Atoi(c.Params("anggotaId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	simpanan, total, err := h.simpananRepo.FindByAnggota(anggotaID, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve savings", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Savings retrieved successfully", fiber.Map{
		"simpanan":   simpanan,
		"pagination": pagination,
	}, pagination)
}

func (h *SimpananHandler) GetSaldo(c *fiber.Ctx) error {
	anggotaID, err := strconv.Atoi(c.Params("anggotaId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid member ID", err)
	}

	saldo, err := h.simpananService.Saldo(anggotaID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Saldo retrieved successfully", saldo)
}

func (h *SimpananHandler) Transaksi(c *fiber.Ctx) error {
	var req models.SimpananRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	trx, err := h.simpananService.Transaksi(req)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Transaksi simpanan dicatat", trx)
}

func (h *SimpananHandler) BayarTagihan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid transaction ID", err)
	}

	trx, err := h.simpananService.BayarTagihan(id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Tagihan simpanan dibayar", trx)
}

// EnqueueBilling queues the monthly mandatory-savings billing run for
// all active members.
func (h *SimpananHandler) EnqueueBilling(c *fiber.Ctx) error {
	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background jobs are disabled (Redis unavailable)", nil)
	}

	task, err := worker.NewTagihanWajibTask()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create billing task", err)
	}

	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to enqueue billing task", err)
	}

	return utils.SuccessResponse(c, "Penagihan simpanan wajib dijadwalkan", fiber.Map{
		"task_id": info.ID,
		"queue":   info.Queue,
	})
}
