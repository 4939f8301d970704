package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
	"github.com/bahikhata/bahikhata_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// masterHandler handles HTTP requests for ledger groups and ledgers.
type masterHandler struct {
	masterService    portssvc.MasterSvcFacade
	reportingService portssvc.ReportingSvc
}

// newMasterHandler creates a new masterHandler.
func newMasterHandler(ms portssvc.MasterSvcFacade, rs portssvc.ReportingSvc) *masterHandler {
	return &masterHandler{
		masterService:    ms,
		reportingService: rs,
	}
}

// registerMasterRoutes registers routes for the chart of accounts.
func registerMasterRoutes(rg *gin.RouterGroup, masterService portssvc.MasterSvcFacade, reportingService portssvc.ReportingSvc) {
	h := newMasterHandler(masterService, reportingService)

	groups := rg.Group("/groups")
	{
		groups.POST("", h.createGroup)
		groups.GET("", h.listGroups)
		groups.GET("/:id", h.getGroup)
		groups.PUT("/:id", h.updateGroup)
	}

	ledgers := rg.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("", h.listLedgers)
		ledgers.GET("/:id", h.getLedger)
		ledgers.GET("/:id/balance", h.getLedgerBalance)
	}
}

// createGroup godoc
// @Summary Create a new ledger group
// @Description Registers a ledger group under one of the ten account natures
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Duplicate group name"
// @Failure 500 {object} map[string]string "Failed to create group"
// @Router /groups [post]
func (h *masterHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger.Info("Received request to create group", slog.String("group_name", req.Name), slog.String("nature", string(req.Nature)))

	newGroup, err := h.masterService.CreateGroup(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Duplicate group name", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating group", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create group in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		}
		return
	}

	logger.Info("Group created successfully", slog.String("group_id", newGroup.GroupID))
	c.JSON(http.StatusCreated, dto.ToGroupResponse(newGroup))
}

// listGroups godoc
// @Summary List ledger groups
// @Tags groups
// @Produce  json
// @Success 200 {array} dto.GroupResponse
// @Router /groups [get]
func (h *masterHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	groups, err := h.masterService.ListGroups(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list groups", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListGroupResponse(groups))
}

// getGroup godoc
// @Summary Get a ledger group by ID
// @Tags groups
// @Produce  json
// @Param   id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Router /groups/{id} [get]
func (h *masterHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("id")

	group, err := h.masterService.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else {
			logger.Error("Failed to get group", slog.String("group_id", groupID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get group"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// updateGroup godoc
// @Summary Update a ledger group
// @Description Renames a group; the nature can only change while no postings reference its ledgers
// @Tags groups
// @Accept  json
// @Produce  json
// @Param   id path string true "Group ID"
// @Param   group body dto.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Group not found"
// @Router /groups/{id} [put]
func (h *masterHandler) updateGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("id")

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)

	group, err := h.masterService.UpdateGroup(c.Request.Context(), groupID, req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		} else if errors.Is(err, apperrors.ErrImmutableNature) {
			logger.Warn("Rejected nature change on posted group", slog.String("group_id", groupID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update group", slog.String("group_id", groupID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		}
		return
	}

	logger.Info("Group updated successfully", slog.String("group_id", groupID))
	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// createLedger godoc
// @Summary Create a new ledger
// @Description Registers a ledger under an existing group, with an optional opening balance
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param   ledger body dto.CreateLedgerRequest true "Ledger details"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Duplicate ledger name"
// @Router /ledgers [post]
func (h *masterHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger.Info("Received request to create ledger", slog.String("ledger_name", req.Name), slog.String("group_id", req.GroupID))

	newLedger, err := h.masterService.CreateLedger(c.Request.Context(), req, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create ledger in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger"})
		}
		return
	}

	nature, err := h.masterService.ResolveNature(c.Request.Context(), newLedger.LedgerID)
	if err != nil {
		logger.Error("Failed to resolve nature for new ledger", slog.String("ledger_id", newLedger.LedgerID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ledger"})
		return
	}

	logger.Info("Ledger created successfully", slog.String("ledger_id", newLedger.LedgerID))
	c.JSON(http.StatusCreated, dto.ToLedgerResponse(newLedger, nature))
}

// listLedgers godoc
// @Summary List ledgers
// @Tags ledgers
// @Produce  json
// @Success 200 {array} dto.LedgerResponse
// @Router /ledgers [get]
func (h *masterHandler) listLedgers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ledgers, err := h.masterService.ListLedgers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list ledgers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledgers"})
		return
	}

	snap := h.masterService.Snapshot()
	res := make([]dto.LedgerResponse, len(ledgers))
	for i, l := range ledgers {
		nature, _ := snap.NatureOf(l.LedgerID)
		res[i] = dto.ToLedgerResponse(&l, nature)
	}
	c.JSON(http.StatusOK, res)
}

// getLedger godoc
// @Summary Get a ledger by ID
// @Tags ledgers
// @Produce  json
// @Param   id path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Router /ledgers/{id} [get]
func (h *masterHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	ledger, err := h.masterService.GetLedger(c.Request.Context(), ledgerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else {
			logger.Error("Failed to get ledger", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ledger"})
		}
		return
	}

	nature, _ := h.masterService.ResolveNature(c.Request.Context(), ledgerID)
	c.JSON(http.StatusOK, dto.ToLedgerResponse(ledger, nature))
}

// getLedgerBalance godoc
// @Summary Get a ledger balance as of a date
// @Description Computes opening balance plus all effective postings up to and including the date
// @Tags ledgers
// @Produce  json
// @Param   id path string true "Ledger ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.LedgerBalanceResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Router /ledgers/{id}/balance [get]
func (h *masterHandler) getLedgerBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ledgerID := c.Param("id")

	asOf, err := parseDateParam(c, "asOf", time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.reportingService.BalanceAsOf(c.Request.Context(), ledgerID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger not found"})
		} else {
			logger.Error("Failed to compute balance", slog.String("ledger_id", ledgerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	balanceType := domain.Debit
	if balance.IsNegative() {
		balanceType = domain.Credit
	}
	c.JSON(http.StatusOK, dto.LedgerBalanceResponse{
		LedgerID:    ledgerID,
		AsOf:        asOf.Format("2006-01-02"),
		Balance:     balance,
		BalanceType: balanceType,
	})
}
