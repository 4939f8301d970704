package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

// newVoucherHandler creates a new voucherHandler.
func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{
		voucherService: vs,
	}
}

// RegisterVoucherRoutes registers routes related to vouchers.
func RegisterVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	registerCustomValidators()
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.PUT("/:id", h.supersedeVoucher)
	}
}

// createVoucher godoc
// @Summary Post a new voucher
// @Description Validates the candidate entries and appends a balanced voucher to the log
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to post voucher"
// @Router /vouchers [post]
func (h *voucherHandler) createVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger.Info("Received request to post voucher",
		slog.String("voucher_type", string(req.VoucherType)),
		slog.Int("entry_count", len(req.Entries)))

	voucher, err := h.voucherService.Append(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Voucher rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post voucher", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post voucher"})
		}
		return
	}

	logger.Info("Voucher posted successfully",
		slog.String("voucher_id", voucher.VoucherID),
		slog.Int64("voucher_no", voucher.VoucherNo))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers in day-book order
// @Description Returns effective vouchers ascending by (date, voucher number), optionally filtered
// @Tags vouchers
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD), inclusive"
// @Param   to query string false "End date (YYYY-MM-DD), inclusive"
// @Param   voucherType query string false "Voucher type filter"
// @Param   limit query int false "Page size (0 for unlimited)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	vouchers, nextToken, err := h.voucherService.ListAll(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list vouchers", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vouchers"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListVoucherResponse(vouchers, nextToken))
}

// getVoucher godoc
// @Summary Get the effective revision of a voucher
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), voucherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else {
			logger.Error("Failed to get voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// supersedeVoucher godoc
// @Summary Correct a posted voucher
// @Description Posts a corrected revision; the prior revision stays on record as SUPERSEDED
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   voucher body dto.CreateVoucherRequest true "Corrected voucher details"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Voucher not found"
// @Router /vouchers/{id} [put]
func (h *voucherHandler) supersedeVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("id")

	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SupersedeVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)

	voucher, err := h.voucherService.Supersede(c.Request.Context(), voucherID, req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Voucher correction rejected", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to supersede voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to supersede voucher"})
		}
		return
	}

	logger.Info("Voucher superseded successfully",
		slog.String("voucher_id", voucherID),
		slog.Int("revision", voucher.Revision))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
