package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/config"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/service"
	"github.com/tutorbook/tutorbook/internal/types"
)

type ExamRecordHandler struct {
	service service.ExamRecordService
	config  *config.Configuration
	logger  *logger.Logger
}

func NewExamRecordHandler(service service.ExamRecordService, config *config.Configuration, logger *logger.Logger) *ExamRecordHandler {
	return &ExamRecordHandler{service: service, config: config, logger: logger}
}

// @Summary List exam standards
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListExamStandardsResponse
// @Router /exam-standards [get]
func (h *ExamRecordHandler) ListExamStandards(c *gin.Context) {
	resp, err := h.service.ListExamStandards(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Create a mock exam record
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body dto.CreateExamRecordRequest true "Exam record"
// @Success 201 {object} dto.ExamRecordResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /exam-records [post]
func (h *ExamRecordHandler) CreateExamRecord(c *gin.Context) {
	var req dto.CreateExamRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.CreateExamRecord(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create exam record", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a mock exam record
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam record ID"
// @Success 200 {object} dto.ExamRecordResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /exam-records/{id} [get]
func (h *ExamRecordHandler) GetExamRecord(c *gin.Context) {
	id, ok := requireID(c, "exam record")
	if !ok {
		return
	}

	resp, err := h.service.GetExamRecord(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List mock exam records
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param filter query types.ExamRecordFilter false "Filter"
// @Param exam_date_from query string false "First exam date (YYYY-MM-DD)"
// @Param exam_date_to query string false "Last exam date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListExamRecordsResponse
// @Router /exam-records [get]
func (h *ExamRecordHandler) ListExamRecords(c *gin.Context) {
	filter := types.NewExamRecordFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(invalidQuery(err))
		return
	}
	var err error
	if filter.ExamDateFrom, err = dateQuery(c, "exam_date_from"); err != nil {
		c.Error(err)
		return
	}
	if filter.ExamDateTo, err = dateQuery(c, "exam_date_to"); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListExamRecords(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update a mock exam record
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam record ID"
// @Param record body dto.UpdateExamRecordRequest true "Changes"
// @Success 200 {object} dto.ExamRecordResponse
// @Router /exam-records/{id} [put]
func (h *ExamRecordHandler) UpdateExamRecord(c *gin.Context) {
	id, ok := requireID(c, "exam record")
	if !ok {
		return
	}

	var req dto.UpdateExamRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.UpdateExamRecord(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to update exam record", "error", err, "exam_record_id", id)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a mock exam record and its papers
// @Tags Exams
// @Security BearerAuth
// @Param id path string true "Exam record ID"
// @Success 204
// @Router /exam-records/{id} [delete]
func (h *ExamRecordHandler) DeleteExamRecord(c *gin.Context) {
	id, ok := requireID(c, "exam record")
	if !ok {
		return
	}

	if err := h.service.DeleteExamRecord(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Upload a scanned exam paper
// @Tags Exams
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam record ID"
// @Param file formData file true "PDF or image"
// @Success 201 {object} dto.ExamAttachmentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /exam-records/{id}/attachments [post]
func (h *ExamRecordHandler) UploadExamAttachment(c *gin.Context) {
	id, ok := requireID(c, "exam record")
	if !ok {
		return
	}

	req, err := h.readUpload(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.UploadExamAttachment(c.Request.Context(), id, *req)
	if err != nil {
		h.logger.Errorw("failed to upload exam paper", "error", err, "exam_record_id", id)
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// readUpload reads the "file" form field, at most one byte past the limit
// so oversized files are reported instead of truncated. The content type is
// sniffed from the data when it is recognizable.
func (h *ExamRecordHandler) readUpload(c *gin.Context) (*dto.UploadExamAttachmentRequest, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Please attach the exam paper as form field \"file\"").
			WithReportableDetails(map[string]any{"file": "file is required"}).
			Mark(ierr.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	defer f.Close()

	var r io.Reader = f
	if limit := h.config.Exam.MaxAttachmentBytes; limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read the uploaded file").
			Mark(ierr.ErrValidation)
	}

	// the magic bytes win over the client's header
	contentType := fh.Header.Get("Content-Type")
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		contentType = kind.MIME.Value
	}
	return &dto.UploadExamAttachmentRequest{
		OriginalName: fh.Filename,
		ContentType:  contentType,
		Data:         data,
	}, nil
}

// @Summary Get a download link for an exam paper
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam attachment ID"
// @Success 200 {object} dto.ExamAttachmentURLResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /exam-attachments/{id}/url [get]
func (h *ExamRecordHandler) GetExamAttachmentURL(c *gin.Context) {
	id, ok := requireID(c, "exam attachment")
	if !ok {
		return
	}

	resp, err := h.service.GetExamAttachmentURL(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete an exam paper
// @Tags Exams
// @Security BearerAuth
// @Param id path string true "Exam attachment ID"
// @Success 204
// @Router /exam-attachments/{id} [delete]
func (h *ExamRecordHandler) DeleteExamAttachment(c *gin.Context) {
	id, ok := requireID(c, "exam attachment")
	if !ok {
		return
	}

	if err := h.service.DeleteExamAttachment(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

type OfficialExamResultHandler struct {
	service service.OfficialExamResultService
	logger  *logger.Logger
}

func NewOfficialExamResultHandler(service service.OfficialExamResultService, logger *logger.Logger) *OfficialExamResultHandler {
	return &OfficialExamResultHandler{service: service, logger: logger}
}

// @Summary Record an official exam result
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param result body dto.CreateOfficialExamResultRequest true "Result"
// @Success 201 {object} dto.OfficialExamResultResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /official-exam-results [post]
func (h *OfficialExamResultHandler) CreateOfficialExamResult(c *gin.Context) {
	var req dto.CreateOfficialExamResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.CreateOfficialExamResult(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create official exam result", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an official exam result
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result ID"
// @Success 200 {object} dto.OfficialExamResultResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /official-exam-results/{id} [get]
func (h *OfficialExamResultHandler) GetOfficialExamResult(c *gin.Context) {
	id, ok := requireID(c, "official exam result")
	if !ok {
		return
	}

	resp, err := h.service.GetOfficialExamResult(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List official exam results
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param filter query types.OfficialExamResultFilter false "Filter"
// @Success 200 {object} dto.ListOfficialExamResultsResponse
// @Router /official-exam-results [get]
func (h *OfficialExamResultHandler) ListOfficialExamResults(c *gin.Context) {
	filter := types.NewOfficialExamResultFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(invalidQuery(err))
		return
	}

	resp, err := h.service.ListOfficialExamResults(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update an official exam result
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Result ID"
// @Param result body dto.UpdateOfficialExamResultRequest true "Changes"
// @Success 200 {object} dto.OfficialExamResultResponse
// @Router /official-exam-results/{id} [put]
func (h *OfficialExamResultHandler) UpdateOfficialExamResult(c *gin.Context) {
	id, ok := requireID(c, "official exam result")
	if !ok {
		return
	}

	var req dto.UpdateOfficialExamResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.UpdateOfficialExamResult(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to update official exam result", "error", err, "official_exam_result_id", id)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete an official exam result
// @Tags Exams
// @Security BearerAuth
// @Param id path string true "Result ID"
// @Success 204
// @Router /official-exam-results/{id} [delete]
func (h *OfficialExamResultHandler) DeleteOfficialExamResult(c *gin.Context) {
	id, ok := requireID(c, "official exam result")
	if !ok {
		return
	}

	if err := h.service.DeleteOfficialExamResult(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
