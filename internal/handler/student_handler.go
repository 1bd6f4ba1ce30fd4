package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
	"github.com/stemsi/student-records/internal/response"
	"github.com/stemsi/student-records/internal/service"
	"github.com/stemsi/student-records/internal/validator"
)

// Flash messages shown after student mutations.
const (
	MsgCreated      = "You made a new student!"
	MsgCreateFailed = "There was a problem creating your new student."
	MsgUpdated      = "You successfully updated your student."
	MsgUpdateFailed = "There was a problem updating your student."
	MsgDeleted      = "You deleted your student."
	MsgDeleteFailed = "There was a problem deleting your student."
)

const (
	listPath   = "/student"
	createPath = "/student/create"
)

// Flasher is the session capability handlers use for one-shot messages.
type Flasher interface {
	Add(c *gin.Context, msgs ...string)
	Pop(c *gin.Context) []string
}

// StudentHandler serves the student pages and form posts.
type StudentHandler struct {
	studentService *service.StudentService
	flash          Flasher
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, flash Flasher, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		flash:          flash,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// ListStudents godoc
// GET /student
// Renders every student with any pending flash messages.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.studentService.ListAll(c.Request.Context())
	if err != nil {
		h.logger(c).Error().Err(err).Msg("Failed to list students")
		response.Text(c, http.StatusServiceUnavailable, "Error: No students.")
		return
	}

	response.Page(c, http.StatusOK, "student_list.html", gin.H{
		"title":    "Students",
		"students": students,
		"flash":    h.flash.Pop(c),
	})
}

// NewStudentForm godoc
// GET /student/create
// Renders the empty creation form; failed creates redirect here.
func (h *StudentHandler) NewStudentForm(c *gin.Context) {
	response.Page(c, http.StatusOK, "student_create.html", gin.H{
		"title":   "New student",
		"student": model.StudentForm{},
		"flash":   h.flash.Pop(c),
	})
}

// CreateStudent godoc
// POST /student
// Creates a student from name, huid and email.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var form model.StudentForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.logger(c).Warn().Interface("fields", fields).Msg("Unreadable create form")
		h.flash.Add(c, MsgCreateFailed)
		response.Redirect(c, createPath)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), form)
	if err != nil {
		h.logger(c).Warn().Err(err).Msg("Student create failed")
		h.flash.Add(c, failureMessages(MsgCreateFailed, err)...)
		response.Redirect(c, createPath)
		return
	}

	h.logger(c).Debug().Str("student_id", student.ID).Msg("Create succeeded")
	h.flash.Add(c, MsgCreated)
	response.Redirect(c, listPath)
}

// GetStudent godoc
// GET /student/:id
// Renders one student's fields, programs and edit forms.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isMissing(err) {
			response.NotFound(c)
			return
		}
		h.logger(c).Error().Err(err).Str("student_id", c.Param("id")).Msg("Failed to load student")
		response.Fail(c, statusFor(err), codeFor(err))
		return
	}

	response.Page(c, http.StatusOK, "student.html", gin.H{
		"title":    student.Name,
		"student":  student,
		"levels":   model.Levels,
		"statuses": model.Statuses,
		"flash":    h.flash.Pop(c),
	})
}

// UpdateStudent godoc
// POST /student/:id
// Overwrites name, huid and email.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")

	var form model.StudentForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.flash.Add(c, MsgUpdateFailed)
		response.Redirect(c, detailPath(id))
		return
	}

	_, err := h.studentService.Update(c.Request.Context(), id, form)
	h.finishUpdate(c, id, err)
}

// UpdateStudentProgram godoc
// POST /student/:id/program
// Overwrites any submitted identity fields and appends an academic program.
func (h *StudentHandler) UpdateStudentProgram(c *gin.Context) {
	id := c.Param("id")

	var form model.ProgramForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.flash.Add(c, MsgUpdateFailed)
		response.Redirect(c, detailPath(id))
		return
	}

	_, err := h.studentService.AddProgram(c.Request.Context(), id, form)
	h.finishUpdate(c, id, err)
}

// finishUpdate maps the outcome of either update route: missing students
// fall through to the 404 response, other failures go back to the detail
// page with a flash.
func (h *StudentHandler) finishUpdate(c *gin.Context, id string, err error) {
	switch {
	case err == nil:
		h.flash.Add(c, MsgUpdated)
		response.Redirect(c, listPath)
	case isMissing(err):
		h.logger(c).Info().Err(err).Str("student_id", id).Msg("Student update error")
		response.NotFound(c)
	default:
		h.logger(c).Warn().Err(err).Str("student_id", id).Msg("Student update error")
		h.flash.Add(c, failureMessages(MsgUpdateFailed, err)...)
		response.Redirect(c, detailPath(id))
	}
}

// DeleteStudent godoc
// POST /student/:id/delete
// Deletes a student permanently.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")

	err := h.studentService.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		h.flash.Add(c, MsgDeleted)
		response.Redirect(c, listPath)
	case isMissing(err):
		h.logger(c).Info().Err(err).Str("student_id", id).Msg("Delete of missing student")
		h.flash.Add(c, MsgDeleteFailed)
		response.Redirect(c, listPath)
	default:
		h.logger(c).Error().Err(err).Str("student_id", id).Msg("Student delete error")
		h.flash.Add(c, MsgDeleteFailed)
		response.Redirect(c, detailPath(id))
	}
}

func (h *StudentHandler) logger(c *gin.Context) *zerolog.Logger {
	l := h.log.With().Str("request_id", response.RequestID(c)).Logger()
	return &l
}

func detailPath(id string) string {
	return listPath + "/" + id
}

func isMissing(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID)
}

// failureMessages puts the summary first and, for validation failures,
// one message per invalid field after it.
func failureMessages(summary string, err error) []string {
	msgs := []string{summary}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		msgs = append(msgs, ve.Messages()...)
	}
	return msgs
}

func statusFor(err error) int {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func codeFor(err error) response.ErrCode {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		return response.ErrStoreUnavailable
	}
	return response.ErrInternal
}
