package handlers

import (
	"net/http"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler serves the vendor portal and the operator's approval queue.
type SubmissionHandler struct {
	submissionService services.SubmissionService
}

func NewSubmissionHandler(ss services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

// SubmitVendorItem is the public vendor entry point.
func (h *SubmissionHandler) SubmitVendorItem(c *gin.Context) {
	var req services.SubmitVendorItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "SubmitVendorItem")
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "SubmitVendorItem: Error from submissionService.Submit")
		respondServiceError(c, err, "Failed to submit item.")
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubmissionHandler) GetSubmissions(c *gin.Context) {
	subs, err := h.submissionService.ListSubmissions(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetSubmissions: Error from submissionService.ListSubmissions")
		utils.RespondInternalError(c, "Failed to fetch submissions.")
		return
	}
	if subs == nil {
		subs = []models.VendorSubmission{}
	}
	c.JSON(http.StatusOK, gin.H{"data": subs, "total": len(subs)})
}

// ApproveSubmission turns a submission into a menu item. An empty body takes all defaults.
func (h *SubmissionHandler) ApproveSubmission(c *gin.Context) {
	id := c.Param("id")
	var req services.ApproveSubmissionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err, "ApproveSubmission")
			return
		}
	}

	item, err := h.submissionService.Approve(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "ApproveSubmission: Error for ID "+id)
		respondServiceError(c, err, "Failed to approve submission.")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *SubmissionHandler) DeleteSubmission(c *gin.Context) {
	id := c.Param("id")
	if err := h.submissionService.DeleteSubmission(c.Request.Context(), id); err != nil {
		utils.LogError(err, "DeleteSubmission: Error for ID "+id)
		respondServiceError(c, err, "Failed to delete submission.")
		return
	}
	c.Status(http.StatusNoContent)
}
