package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

// HistoryHandler exposes durable posting outcomes.
type HistoryHandler struct {
	history port.PostingHistoryRepository
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history port.PostingHistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/v1/posting-history
func (h *HistoryHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := h.history.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListByRun handles GET /api/v1/posting-history/:runID
func (h *HistoryHandler) ListByRun(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return
	}

	records, err := h.history.ListByRun(c.Request.Context(), runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, records)
}
