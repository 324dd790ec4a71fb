package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/response"
)

// ExportHandler serves the schedule/calendar export endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel renders a schedule as a downloadable .xlsx workbook.
// GET /api/v1/export/schedules/:id.xlsx
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportScheduleExcel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	h.download(c, buf.Bytes(), filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

// ExportCSV renders a schedule as a downloadable flat CSV.
// GET /api/v1/export/schedules/:id.csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportScheduleCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	h.download(c, buf.Bytes(), filename, "text/csv")
}

// ExportMemberCalendar renders one member's assignments over
// [start, end] as an .ics feed.
// GET /api/v1/export/members/:id/calendar?start=2026-01-01&end=2026-03-01
func (h *ExportHandler) ExportMemberCalendar(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		response.BadRequest(c, 10001, "invalid or missing start date")
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		response.BadRequest(c, 10001, "invalid or missing end date")
		return
	}

	buf, filename, err := h.exportSvc.ExportMemberCalendar(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	h.download(c, buf.Bytes(), filename, "text/calendar")
}

func (h *ExportHandler) download(c *gin.Context, data []byte, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSchedule):
		response.NotFound(c, 16101, "schedule not found")
	case errors.Is(err, service.ErrExportNoItems):
		response.BadRequest(c, 16102, "schedule has no assignments")
	default:
		response.InternalError(c)
	}
}
