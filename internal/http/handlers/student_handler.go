package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

// StudentsResponse lists assembled students.
type StudentsResponse struct {
	Students []domain.StudentView `json:"students"`
}

// ListStudents godoc
// @ID          listStudents
// @Summary     List students
// @Description Filters are exclusive: chat_id wins over mentor_id. Without filters every student is listed.
// @Tags        Students
// @Produce     json
// @Param       chat_id    query  int  false  "Student chat id"
// @Param       mentor_id  query  int  false  "Students supervised by this mentor"
// @Success     200  {object}  handlers.StudentsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /students [get]
func (h *Handlers) ListStudents(c *gin.Context) {
	var f services.StudentFilter
	var okq bool
	if f.ChatID, okq = queryChatID(c, "chat_id"); !okq {
		return
	}
	if f.MentorID, okq = queryID(c, "mentor_id"); !okq {
		return
	}
	views, err := h.party.GetStudents(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, StudentsResponse{Students: views})
}

// GetStudent godoc
// @ID       getStudent
// @Summary  Get a student with their work
// @Tags     Students
// @Produce  json
// @Param    id  path  int  true  "Student id"
// @Success  200  {object}  domain.StudentView
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /students/{id} [get]
func (h *Handlers) GetStudent(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	views, err := h.party.GetStudents(c.Request.Context(), services.StudentFilter{ID: id})
	if err != nil {
		failErr(c, err)
		return
	}
	if len(views) == 0 {
		failErr(c, services.ErrStudentNotFound)
		return
	}
	ok(c, http.StatusOK, views[0])
}

// RemoveStudent godoc
// @ID          removeStudent
// @Summary     Remove a student
// @Description Deletes the student's pending and accepted work, releasing the mentor's load, then the student. A missing student is a no-op.
// @Tags        Students
// @Produce     json
// @Param       id  path  int  true  "Student id"
// @Success     200  {object}  handlers.Outcome
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /students/{id} [delete]
func (h *Handlers) RemoveStudent(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	st, err := h.party.RemoveStudent(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, Outcome{Status: st})
}
