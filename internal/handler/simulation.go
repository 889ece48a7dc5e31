package handler

import (
	"net/http"
	"path/filepath"

	"github.com/froma1976/ailogistic/internal/apierror"
	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/export"
	"github.com/froma1976/ailogistic/internal/service"

	"github.com/gin-gonic/gin"
)

type SimulationHandler struct {
	svc       service.SimulationService
	exportDir string
}

func NewSimulationHandler(svc service.SimulationService, exportDir string) *SimulationHandler {
	return &SimulationHandler{svc: svc, exportDir: exportDir}
}

func (h *SimulationHandler) SimulateWeek(c *gin.Context) {
	var req dto.SimulateWeekRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rows, err := h.svc.SimulateWeek(c.Request.Context(), req.Plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Simulation failed"))
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SimulationHandler) Ruptures(c *gin.Context) {
	rows, err := h.svc.RuptureReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Rupture report failed"))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ExportSimulationXLSX runs the simulation and streams the workbook back.
func (h *SimulationHandler) ExportSimulationXLSX(c *gin.Context) {
	var req dto.SimulateWeekRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rows, err := h.svc.SimulateWeek(c.Request.Context(), req.Plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Simulation failed"))
		return
	}
	path, err := export.WriteSimulationXLSX(rows, h.exportDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Export failed"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *SimulationHandler) ExportRupturesXLSX(c *gin.Context) {
	rows, err := h.svc.RuptureReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Rupture report failed"))
		return
	}
	path, err := export.WriteRuptureXLSX(rows, h.exportDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Export failed"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *SimulationHandler) ExportRupturesPDF(c *gin.Context) {
	rows, err := h.svc.RuptureReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Rupture report failed"))
		return
	}
	path, err := export.WriteRupturePDF(rows, h.exportDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Export failed"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
