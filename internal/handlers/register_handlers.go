package handlers

import (
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	book *portssvc.LedgerBook,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, book)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	book *portssvc.LedgerBook,
) {
	v1 := r.Group("/api/v1")

	registerMasterRoutes(v1, book.Masters, book.Reporting)
	RegisterVoucherRoutes(v1, book.Vouchers)
	registerReportingRoutes(v1, book.Reporting, book.Vouchers)
}
