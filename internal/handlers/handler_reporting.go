package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
	voucherService   portssvc.VoucherReaderSvc
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvc, vs portssvc.VoucherReaderSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		voucherService:   vs,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc, voucherService portssvc.VoucherReaderSvc) {
	h := newReportingHandler(reportingService, voucherService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/day-book", h.getDayBook)
		reports.GET("/ledgers/:id/statement", h.getLedgerStatement)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// parseDateParam reads a YYYY-MM-DD query parameter, falling back to def
// when the parameter is absent.
func parseDateParam(c *gin.Context, name string, def time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", name, raw)
	}
	return t, nil
}

// parseRangeParams reads the from/to query parameters of a period report.
func parseRangeParams(c *gin.Context) (from, to time.Time, err error) {
	from, err = parseDateParam(c, "from", time.Time{})
	if err != nil {
		return
	}
	to, err = parseDateParam(c, "to", time.Now())
	return
}

// getTrialBalance godoc
// @Summary Trial balance as of a date
// @Description Every ledger's closing balance split into debit and credit columns; the two totals always match
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := parseDateParam(c, "asOf", time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to compute trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getDayBook godoc
// @Summary Day book over a period
// @Description Effective vouchers in posting order, ascending by (date, voucher number)
// @Tags reports
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD), inclusive"
// @Param   to query string false "End date (YYYY-MM-DD), inclusive"
// @Param   voucherType query string false "Voucher type filter"
// @Param   limit query int false "Page size (0 for unlimited)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /reports/day-book [get]
func (h *reportingHandler) getDayBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	vouchers, nextToken, err := h.voucherService.ListAll(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute day book", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute day book"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListVoucherResponse(vouchers, nextToken))
}

// getLedgerStatement godoc
// @Summary Ledger statement over a period
// @Description Posting-by-posting narrative for one ledger with running balances
// @Tags reports
// @Produce  json
// @Param   id path string true "Ledger ID"
// @Param   from query string false "Start date (YYYY-MM-DD), inclusive"
// @Param   to query string false "End date (YYYY-MM-DD), inclusive, defaults to today"
// @Success 200 {object} dto.LedgerStatementResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Router /reports/ledgers/{id}/statement [get]
func (h *reportingHandler) getLedgerStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	from, to, err := parseRangeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st, err := h.reportingService.LedgerStatement(c.Request.Context(), ledgerID, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else {
			logger.Error("Failed to compute ledger statement", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute ledger statement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerStatementResponse(st))
}

// getProfitAndLoss godoc
// @Summary Profit and loss over a period
// @Tags reports
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD), inclusive"
// @Param   to query string false "End date (YYYY-MM-DD), inclusive, defaults to today"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, err := parseRangeParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to compute profit and loss", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute profit and loss"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report, from, to))
}

// getBalanceSheet godoc
// @Summary Balance sheet as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := parseDateParam(c, "asOf", time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to compute balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance sheet"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}
