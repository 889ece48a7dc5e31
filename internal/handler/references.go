package handler

import (
	"net/http"

	"github.com/froma1976/ailogistic/internal/apierror"
	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferencesHandler struct{ svc service.ReferenceService }

func NewReferencesHandler(svc service.ReferenceService) *ReferencesHandler {
	return &ReferencesHandler{svc: svc}
}

func (h *ReferencesHandler) Create(c *gin.Context) {
	var req dto.CreateReferenceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReferencesHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list references"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferencesHandler) Update(c *gin.Context) {
	var req dto.UpdateReferenceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReferencesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportXLSX accepts a multipart upload under the "file" field.
func (h *ReferencesHandler) ImportXLSX(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file upload"))
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Cannot read uploaded file"))
		return
	}
	defer f.Close()

	summary, err := h.svc.ImportXLSX(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, summary)
}
