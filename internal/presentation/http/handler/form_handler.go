package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printledger/internal/application/service"
	"github.com/sangkips/printledger/internal/domain/entity"
	"github.com/sangkips/printledger/internal/presentation/http/dto/request"
	"github.com/sangkips/printledger/internal/presentation/http/dto/response"
	"github.com/sangkips/printledger/internal/presentation/http/middleware"
	"github.com/sangkips/printledger/pkg/apperror"
)

// FormHandler exposes the form controller operations of the calling client.
type FormHandler struct {
	registry *service.ControllerRegistry
}

// NewFormHandler creates a new form handler
func NewFormHandler(registry *service.ControllerRegistry) *FormHandler {
	return &FormHandler{registry: registry}
}

func (h *FormHandler) controller(c *gin.Context) *service.FormController {
	return h.registry.Get(middleware.GetClientID(c))
}

// Initialize prepares a fresh form: default date, dropdowns and zero totals.
func (h *FormHandler) Initialize(c *gin.Context) {
	ctrl := h.controller(c)
	view := &recordingView{}

	ctrl.Initialize(c.Request.Context(), view)

	response.OK(c, "Form initialized", view.result(ctrl))
}

// RecalculateTotals derives total and balance from the posted cost fields.
func (h *FormHandler) RecalculateTotals(c *gin.Context) {
	var req request.TotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctrl := h.controller(c)
	view := &recordingView{}
	ctrl.RecalculateTotals(view, req.CostFields())

	response.OK(c, "Totals calculated", view.result(ctrl))
}

// PersistDate stores the client's default date.
func (h *FormHandler) PersistDate(c *gin.Context) {
	var req request.DateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctrl := h.controller(c)
	view := &recordingView{}
	if err := ctrl.PersistDate(c.Request.Context(), view, req.Date); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Date saved", view.result(ctrl))
}

// SubmitEntry posts a job entry to the ledger. A rejection by the ledger is
// answered with 422 and a transport failure with 502; both carry the view and
// alerts so the page can show them.
func (h *FormHandler) SubmitEntry(c *gin.Context) {
	var entry entity.JobEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctrl := h.controller(c)
	view := &recordingView{}
	res, err := ctrl.SubmitEntry(c.Request.Context(), view, entry)
	result := view.result(ctrl)
	if err != nil {
		_ = c.Error(err)
		fail(c, err, result)
		return
	}
	if !res.Succeeded() {
		fail(c, apperror.NewBusinessError(res.Message), result)
		return
	}

	response.OK(c, res.Message, result)
}

// FetchCustomerHistory loads a customer's recorded jobs.
func (h *FormHandler) FetchCustomerHistory(c *gin.Context) {
	var q request.HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query")
		return
	}

	ctrl := h.controller(c)
	view := &recordingView{}
	table, err := ctrl.FetchCustomerHistory(c.Request.Context(), view, q.CustomerName)
	result := view.result(ctrl)
	if err != nil {
		if !errors.Is(err, apperror.ErrCustomerRequired) {
			_ = c.Error(err)
		}
		fail(c, err, result)
		return
	}
	if table == nil {
		response.OK(c, service.MsgNoData, result)
		return
	}

	response.OK(c, "History retrieved", result)
}

// ExportPDF downloads the held history as a PDF.
func (h *FormHandler) ExportPDF(c *gin.Context) {
	h.export(c, h.controller(c).ExportCustomerHistoryToPdf)
}

// ExportXLSX downloads the held history as a spreadsheet.
func (h *FormHandler) ExportXLSX(c *gin.Context) {
	h.export(c, h.controller(c).ExportCustomerHistoryToXlsx)
}

func (h *FormHandler) export(c *gin.Context, run func() (*service.ExportFile, error)) {
	file, err := run()
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	if file == nil {
		response.NoContent(c)
		return
	}

	response.Attachment(c, file.Name, file.ContentType, file.Data)
}

// Dropdowns reloads and returns the autocomplete suggestions.
func (h *FormHandler) Dropdowns(c *gin.Context) {
	ctrl := h.controller(c)
	view := &recordingView{}
	opts, err := ctrl.RefreshDropdowns(c.Request.Context(), view)
	if err != nil {
		_ = c.Error(err)
		fail(c, err, view.result(ctrl))
		return
	}

	response.OK(c, "Dropdowns retrieved", opts)
}
