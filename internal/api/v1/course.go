package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/service"
	"github.com/tutorbook/tutorbook/internal/types"
)

type CourseHandler struct {
	service service.CourseService
	logger  *logger.Logger
}

func NewCourseHandler(service service.CourseService, logger *logger.Logger) *CourseHandler {
	return &CourseHandler{service: service, logger: logger}
}

// @Summary Register a course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body dto.CreateCourseRequest true "Course registration"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.CreateCourse(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to create course", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a course registration
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := requireID(c, "course")
	if !ok {
		return
	}

	resp, err := h.service.GetCourse(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List course registrations
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param filter query types.CourseFilter false "Filter"
// @Param start_date_from query string false "YYYY-MM-DD"
// @Param start_date_to query string false "YYYY-MM-DD"
// @Success 200 {object} dto.ListCoursesResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	filter := types.NewCourseFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(invalidQuery(err))
		return
	}

	var err error
	if filter.StartDateFrom, err = dateQuery(c, "start_date_from"); err != nil {
		c.Error(err)
		return
	}
	if filter.StartDateTo, err = dateQuery(c, "start_date_to"); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListCourses(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update a course registration
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param course body dto.UpdateCourseRequest true "Changes"
// @Success 200 {object} dto.CourseResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := requireID(c, "course")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(invalidPayload(err))
		return
	}

	resp, err := h.service.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to update course", "error", err, "course_id", id)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a course registration
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := requireID(c, "course")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
