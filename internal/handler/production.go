package handler

import (
	"net/http"

	"github.com/froma1976/ailogistic/internal/apierror"
	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductionHandler struct{ svc service.ProductionService }

func NewProductionHandler(svc service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// Record upserts the day's production quantity; a changed quantity adjusts
// the inventory log retroactively.
func (h *ProductionHandler) Record(c *gin.Context) {
	var req dto.RecordProductionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordProduction(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductionHandler) History(c *gin.Context) {
	resp, err := h.svc.History(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list production history"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
