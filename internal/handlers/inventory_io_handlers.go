package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds CSV uploads. Inventory rows may carry data URI images.
const maxUploadBytes = 20 << 20

// InventoryIOHandler serves CSV import and export.
type InventoryIOHandler struct {
	ioService services.InventoryIOService
	loc       *time.Location
	now       func() time.Time
}

func NewInventoryIOHandler(ios services.InventoryIOService, loc *time.Location, now func() time.Time) *InventoryIOHandler {
	return &InventoryIOHandler{ioService: ios, loc: loc, now: now}
}

// csvUpload reads the "file" part of a multipart form, or the raw body otherwise.
func csvUpload(c *gin.Context) (io.ReadCloser, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		return fh.Open()
	}
	return c.Request.Body, nil
}

// BulkAdd appends every row of an uploaded CSV to the inventory.
func (h *InventoryIOHandler) BulkAdd(c *gin.Context) {
	file, err := csvUpload(c)
	if err != nil {
		utils.LogError(err, "BulkAdd: Failed to read upload")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "A CSV file is required.", err.Error()))
		return
	}
	defer file.Close()

	items, err := h.ioService.BulkAdd(c.Request.Context(), file)
	if err != nil {
		utils.LogError(err, "BulkAdd: Error from ioService.BulkAdd")
		respondServiceError(c, err, "Failed to import menu items.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": items, "total": len(items)})
}

// Import validates a full inventory file and returns the pending replacement.
func (h *InventoryIOHandler) Import(c *gin.Context) {
	file, err := csvUpload(c)
	if err != nil {
		utils.LogError(err, "Import: Failed to read upload")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "A CSV file is required.", err.Error()))
		return
	}
	defer file.Close()

	action, err := h.ioService.RequestReplace(c.Request.Context(), file)
	if err != nil {
		utils.LogError(err, "Import: Error from ioService.RequestReplace")
		respondServiceError(c, err, "Failed to import inventory.")
		return
	}
	c.JSON(http.StatusAccepted, action)
}

func (h *InventoryIOHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.ioService.ExportInventory(c.Request.Context(), &buf); err != nil {
		utils.LogError(err, "Export: Error from ioService.ExportInventory")
		utils.RespondInternalError(c, "Failed to export inventory.")
		return
	}
	filename := fmt.Sprintf("inventori_%s.csv", h.now().In(h.loc).Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *InventoryIOHandler) ExportDailySales(c *gin.Context) {
	var buf bytes.Buffer
	filename, err := h.ioService.ExportDailySales(c.Request.Context(), &buf)
	if err != nil {
		utils.LogError(err, "ExportDailySales: Error from ioService.ExportDailySales")
		respondServiceError(c, err, "Failed to export today's sales.")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
