package handler

import (
	"net/http"

	"github.com/froma1976/ailogistic/internal/apierror"
	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) QuickEntry(c *gin.Context) {
	var req dto.QuickEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.QuickEntry(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *InventoryHandler) EditDay(c *gin.Context) {
	var req dto.EditDayRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditDay(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetDay deletes every log row for ?date (default today).
func (h *InventoryHandler) ResetDay(c *gin.Context) {
	summary, err := h.svc.ResetDay(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *InventoryHandler) DayLog(c *gin.Context) {
	rows, err := h.svc.DayLog(c.Request.Context(), c.Query("date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to read day log"))
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *InventoryHandler) Stock(c *gin.Context) {
	code := c.Param("code")
	total, err := h.svc.CurrentStock(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute stock"))
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{ReferenceCode: code, Total: total})
}

func (h *InventoryHandler) Dashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to compute dashboard"))
		return
	}
	c.JSON(http.StatusOK, stats)
}
