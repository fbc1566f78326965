package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-reporting-etl/internal/models"
	"github.com/noah-isme/uni-reporting-etl/internal/service"
	appErrors "github.com/noah-isme/uni-reporting-etl/pkg/errors"
	"github.com/noah-isme/uni-reporting-etl/pkg/export"
	"github.com/noah-isme/uni-reporting-etl/pkg/response"
)

// ImportHandler exposes the import and status endpoints. Imports are
// asynchronous: the handler validates, queues and returns 202 with the
// job ID; completion is observed through the status endpoints.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// YearImportRequest triggers a year-partitioned import from a staged
// extract file.
type YearImportRequest struct {
	Year     int    `json:"year" binding:"required,min=1990,max=2100"`
	File     string `json:"file" binding:"required"`
	Gzipped  bool   `json:"gzipped"`
	Encoding string `json:"encoding"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// TableImportRequest triggers a whole-table replacement import.
type TableImportRequest struct {
	File     string `json:"file" binding:"required"`
	Encoding string `json:"encoding"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// BulkImportRequest triggers a manifest-driven bulk import.
type BulkImportRequest struct {
	Manifest string `json:"manifest" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// RecalculateRequest triggers a student-dates recalculation.
type RecalculateRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

// GradeResults queues a grade-results import.
func (h *ImportHandler) GradeResults(c *gin.Context) {
	var req YearImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	file := service.ImportFile{Path: req.File, Gzipped: req.Gzipped, Encoding: req.Encoding}
	jobID, err := h.imports.QueueGradeResults(c.Request.Context(), req.Year, file, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID, "table": models.TableGradeResults})
}

// CourseDefs queues a course-definitions import.
func (h *ImportHandler) CourseDefs(c *gin.Context) {
	var req YearImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	file := service.ImportFile{Path: req.File, Gzipped: req.Gzipped, Encoding: req.Encoding}
	jobID, err := h.imports.QueueCourseDefs(c.Request.Context(), req.Year, file, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID, "table": models.TableCourseDefs})
}

// Supervisors queues a supervisors import.
func (h *ImportHandler) Supervisors(c *gin.Context) {
	h.tableImport(c, models.TableSupervisors, h.imports.QueueSupervisors)
}

// Scholarships queues a scholarships import.
func (h *ImportHandler) Scholarships(c *gin.Context) {
	h.tableImport(c, models.TableScholarships, h.imports.QueueScholarships)
}

// AssociatedRoles queues an associated-roles import.
func (h *ImportHandler) AssociatedRoles(c *gin.Context) {
	h.tableImport(c, models.TableAssociatedRoles, h.imports.QueueAssociatedRoles)
}

func (h *ImportHandler) tableImport(c *gin.Context, table string, queue func(ctx context.Context, file service.ImportFile, email string) (string, error)) {
	var req TableImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	file := service.ImportFile{Path: req.File, Encoding: req.Encoding}
	jobID, err := queue(c.Request.Context(), file, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID, "table": table})
}

// Bulk queues a manifest-driven bulk import.
func (h *ImportHandler) Bulk(c *gin.Context) {
	var req BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	jobID, err := h.imports.QueueBulk(c.Request.Context(), req.Manifest, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID})
}

// Status returns the ledger entry of one table.
func (h *ImportHandler) Status(c *gin.Context) {
	table := c.Param("table")
	if !knownTable(table) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown table %q", table)))
		return
	}
	status, err := h.imports.TableStatus(c.Request.Context(), table)
	if err != nil {
		response.Error(c, err)
		return
	}
	if status == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("table %q has never been loaded", table)))
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Statuses returns every table's ledger entry.
func (h *ImportHandler) Statuses(c *gin.Context) {
	statuses, err := h.imports.TableStatuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, statuses)
}

func knownTable(table string) bool {
	switch table {
	case models.TableGradeResults, models.TableCourseDefs, models.TableSupervisors,
		models.TableScholarships, models.TableAssociatedRoles, models.TableStudentDates:
		return true
	}
	return false
}

// StudentDatesHandler exposes the derived enrolment intervals.
type StudentDatesHandler struct {
	imports *service.ImportService
	dates   *service.StudentDatesService
	csv     *export.CSVExporter
}

// NewStudentDatesHandler constructs StudentDatesHandler.
func NewStudentDatesHandler(imports *service.ImportService, dates *service.StudentDatesService) *StudentDatesHandler {
	return &StudentDatesHandler{imports: imports, dates: dates, csv: export.NewCSVExporter()}
}

// Recalculate queues a full student-dates recalculation.
func (h *StudentDatesHandler) Recalculate(c *gin.Context) {
	var req RecalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
			return
		}
	}
	jobID, err := h.imports.QueueDerive(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"job_id": jobID, "table": models.TableStudentDates})
}

// List returns the derived intervals, as JSON or as a CSV download
// when format=csv is requested.
func (h *StudentDatesHandler) List(c *gin.Context) {
	dates, err := h.dates.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if c.Query("format") != "csv" {
		response.JSON(c, http.StatusOK, dates)
		return
	}

	dataset := export.Dataset{
		Headers: []string{"student_id", "program", "start_date", "end_date", "months", "school", "department", "full_time", "status"},
	}
	for _, d := range dates {
		row := map[string]string{
			"student_id": d.StudentID,
			"program":    string(d.Program),
			"start_date": d.StartDate.Format("2006-01-02"),
			"end_date":   d.EndDate.Format("2006-01-02"),
			"school":     d.School,
			"department": d.Department,
		}
		if d.Months != nil {
			row["months"] = fmt.Sprintf("%.2f", *d.Months)
		}
		if d.FullTime != nil {
			row["full_time"] = fmt.Sprintf("%t", *d.FullTime)
		}
		if d.Status != nil {
			row["status"] = string(*d.Status)
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	payload, err := h.csv.Render(dataset)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="student_dates.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
