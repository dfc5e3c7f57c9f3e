package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
)

// SyncStatusSource reports the state of the external mirror.
type SyncStatusSource interface {
	Status() models.SyncStatus
}

// SyncHandler serves the cloud status indicator.
type SyncHandler struct {
	source SyncStatusSource
	logger *zap.Logger
}

// NewSyncHandler constructs the handler.
func NewSyncHandler(source SyncStatusSource, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{source: source, logger: logger}
}

// Status returns queue depth and the latest delivery outcome.
func (h *SyncHandler) Status(c *gin.Context) {
	status := h.source.Status()
	if status.LastError != "" {
		h.logger.Debug("mirror reporting errors", zap.String("last_error", status.LastError))
	}
	c.JSON(http.StatusOK, status)
}
