package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CTroeung1/MSM-inventory-system/internal/ai"
	"github.com/CTroeung1/MSM-inventory-system/internal/config"
	"github.com/CTroeung1/MSM-inventory-system/internal/inventory"
	"github.com/CTroeung1/MSM-inventory-system/internal/location"
	"github.com/CTroeung1/MSM-inventory-system/internal/printer"
	"github.com/CTroeung1/MSM-inventory-system/internal/taggroup"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB         *sql.DB // Primary Read/Write connection
	DBReadOnly *sql.DB // Read-Only connection (AI SQL tool)
	Inventory  *inventory.Service
	Locations  *location.Service
	TagGroups  *taggroup.Service
	AIService  *ai.Service // nil when no Gemini key is configured
	Dispatcher *printer.Dispatcher
	Log        *zap.Logger
	Cfg        *config.Config
}

// currentUserID pulls the authenticated user's id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	raw, _ := c.Get("userID")
	id, _ := raw.(string)
	return id
}
