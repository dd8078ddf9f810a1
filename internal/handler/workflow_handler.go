package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/service"
)

// WorkflowHandler exposes the posting workflow to the frontend.
type WorkflowHandler struct {
	workflow service.PostWorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler(workflow service.PostWorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// OpenRunRequest is the body for opening a workflow run.
type OpenRunRequest struct {
	InvoiceIDs []uuid.UUID `json:"invoice_ids" binding:"required"`
}

// ResolveVendorRequest is the body for resolving the current blocking
// vendor.
type ResolveVendorRequest struct {
	SupplierID   string `json:"supplier_id" binding:"required"`
	SupplierName string `json:"supplier_name" binding:"required"`
}

// Open handles POST /api/v1/post-runs
func (h *WorkflowHandler) Open(c *gin.Context) {
	var input OpenRunRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	run, err := h.workflow.Open(c.Request.Context(), input.InvoiceIDs)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, run)
}

// Get handles GET /api/v1/post-runs/:id
func (h *WorkflowHandler) Get(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := h.workflow.Get(c.Request.Context(), runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// SearchSuppliers handles GET /api/v1/post-runs/:id/suppliers
func (h *WorkflowHandler) SearchSuppliers(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := h.workflow.SearchSuppliers(c.Request.Context(), runID, c.Query("name"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// ResolveVendor handles POST /api/v1/post-runs/:id/resolve
func (h *WorkflowHandler) ResolveVendor(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	var input ResolveVendorRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	run, err := h.workflow.ResolveVendor(c.Request.Context(), runID, domain.SupplierMatch{
		ID:   input.SupplierID,
		Name: input.SupplierName,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// ConfirmPost handles POST /api/v1/post-runs/:id/post
func (h *WorkflowHandler) ConfirmPost(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := h.workflow.ConfirmPost(c.Request.Context(), runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// Close handles DELETE /api/v1/post-runs/:id
func (h *WorkflowHandler) Close(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	if err := h.workflow.Close(c.Request.Context(), runID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "workflow run closed"})
}

func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return uuid.Nil, false
	}
	return id, true
}
