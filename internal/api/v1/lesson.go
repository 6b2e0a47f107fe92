package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/service"
	"github.com/tutorbook/tutorbook/internal/types"
)

type LessonHandler struct {
	service service.LessonService
	logger  *logger.Logger
}

func NewLessonHandler(service service.LessonService, logger *logger.Logger) *LessonHandler {
	return &LessonHandler{service: service, logger: logger}
}

// @Summary Schedule a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lesson body dto.CreateLessonRequest true "Lesson"
// @Success 201 {object} dto.LessonResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /lessons [post]
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.CreateLesson(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create lesson", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a lesson
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} dto.LessonResponse
// @Router /lessons/{id} [get]
func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, ok := requireID(c, "lesson")
	if !ok {
		return
	}

	resp, err := h.service.GetLesson(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Param filter query types.LessonFilter false "Filter"
// @Param start_date query string false "YYYY-MM-DD, inclusive"
// @Param end_date query string false "YYYY-MM-DD, inclusive"
// @Success 200 {object} dto.ListLessonsResponse
// @Router /lessons [get]
func (h *LessonHandler) ListLessons(c *gin.Context) {
	filter := types.NewLessonFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(invalidQuery(err))
		return
	}

	var err error
	if filter.StartDate, err = dateQuery(c, "start_date"); err != nil {
		c.Error(err)
		return
	}
	if filter.EndDate, err = dateQuery(c, "end_date"); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListLessons(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Today's lessons
// @Description Lessons of the current day (UTC) ordered by start time
// @Tags Lessons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListLessonsResponse
// @Router /lessons/today [get]
func (h *LessonHandler) ListTodayLessons(c *gin.Context) {
	resp, err := h.service.ListTodayLessons(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update a lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param lesson body dto.UpdateLessonRequest true "Changes"
// @Success 200 {object} dto.LessonResponse
// @Router /lessons/{id} [put]
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	id, ok := requireID(c, "lesson")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.UpdateLesson(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to update lesson", "error", err, "lesson_id", id)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a lesson
// @Tags Lessons
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id, ok := requireID(c, "lesson")
	if !ok {
		return
	}

	if err := h.service.DeleteLesson(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
