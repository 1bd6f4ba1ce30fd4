package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
)

// HomeHandler serves the landing page.
type HomeHandler struct {
	studentService *service.StudentService
	flash          Flasher
	log            zerolog.Logger
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(studentService *service.StudentService, flash Flasher, log zerolog.Logger) *HomeHandler {
	return &HomeHandler{
		studentService: studentService,
		flash:          flash,
		log:            log.With().Str("component", "home_handler").Logger(),
	}
}

// Home godoc
// GET /
// Renders the total student count.
func (h *HomeHandler) Home(c *gin.Context) {
	count, err := h.studentService.Count(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Failed to count students")
		response.Fail(c, statusFor(err), codeFor(err))
		return
	}

	response.Page(c, http.StatusOK, "main.html", gin.H{
		"title":         "Home",
		"student_count": count,
		"flash":         h.flash.Pop(c),
	})
}
