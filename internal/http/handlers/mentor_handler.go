package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/services"
	"github.com/tbourn/go-mentorship-backend/internal/utils"
)

// AddMentorRequest registers a mentor for a chat id.
type AddMentorRequest struct {
	ChatID      int64    `json:"chat_id"      binding:"required"            example:"4242"`
	DisplayName string   `json:"display_name" binding:"max=255"             example:"Dr. Ada"`
	Subjects    []string `json:"subjects"     binding:"omitempty,dive,max=255"`
}

// MentorSubjectsRequest adds subjects by name.
type MentorSubjectsRequest struct {
	Subjects []string `json:"subjects" binding:"required,min=1,dive,max=255"`
}

// RemoveMentorSubjectsRequest unlinks subjects by id.
type RemoveMentorSubjectsRequest struct {
	SubjectIDs []int64 `json:"subject_ids" binding:"required,min=1,dive,gt=0"`
}

// MentorsResponse lists assembled mentors.
type MentorsResponse struct {
	Mentors []domain.MentorView `json:"mentors"`
}

// SuggestMentorsResponse lists mentors ranked for a subject set.
type SuggestMentorsResponse struct {
	Mentors []services.MentorSuggestion `json:"mentors"`
}

// AddMentor godoc
// @ID          addMentor
// @Summary     Register a mentor
// @Description Creates the mentor for chat_id or reuses the existing one, then links the named subjects.
// @Tags        Mentors
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.AddMentorRequest  true  "Mentor"
// @Success     201   {object}  domain.MentorView
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /mentors [post]
func (h *Handlers) AddMentor(c *gin.Context) {
	var req AddMentorRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.party.AddMentor(c.Request.Context(), services.AddMentorInput{
		ChatID:      req.ChatID,
		DisplayName: req.DisplayName,
		Subjects:    req.Subjects,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, view)
}

// ListMentors godoc
// @ID          listMentors
// @Summary     List mentors
// @Description Filters are exclusive: chat_id wins over student_id. Without filters every mentor is listed.
// @Tags        Mentors
// @Produce     json
// @Param       chat_id     query  int  false  "Mentor chat id"
// @Param       student_id  query  int  false  "Mentor supervising this student"
// @Success     200  {object}  handlers.MentorsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /mentors [get]
func (h *Handlers) ListMentors(c *gin.Context) {
	var f services.MentorFilter
	var okq bool
	if f.ChatID, okq = queryChatID(c, "chat_id"); !okq {
		return
	}
	if f.StudentID, okq = queryID(c, "student_id"); !okq {
		return
	}
	views, err := h.party.GetMentors(c.Request.Context(), f)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, MentorsResponse{Mentors: views})
}

// GetMentor godoc
// @ID       getMentor
// @Summary  Get a mentor
// @Tags     Mentors
// @Produce  json
// @Param    id  path  int  true  "Mentor id"
// @Success  200  {object}  domain.MentorView
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /mentors/{id} [get]
func (h *Handlers) GetMentor(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	views, err := h.party.GetMentors(c.Request.Context(), services.MentorFilter{ID: id})
	if err != nil {
		failErr(c, err)
		return
	}
	if len(views) == 0 {
		failErr(c, services.ErrMentorNotFound)
		return
	}
	ok(c, http.StatusOK, views[0])
}

// RemoveMentor godoc
// @ID          removeMentor
// @Summary     Remove a mentor
// @Description Rejects every supervised student back to pending, unlinks subjects and ideas, then deletes the mentor.
// @Tags        Mentors
// @Produce     json
// @Param       id  path  int  true  "Mentor id"
// @Success     200  {object}  services.RemoveMentorOutcome
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /mentors/{id} [delete]
func (h *Handlers) RemoveMentor(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	out, err := h.party.RemoveMentor(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// AddMentorSubjects godoc
// @ID       addMentorSubjects
// @Summary  Link subjects to a mentor
// @Tags     Mentors
// @Accept   json
// @Produce  json
// @Param    id    path      int                              true  "Mentor id"
// @Param    body  body      handlers.MentorSubjectsRequest  true  "Subject names"
// @Success  200   {object}  domain.MentorView
// @Failure  404   {object}  handlers.ErrorResponse
// @Router   /mentors/{id}/subjects [post]
func (h *Handlers) AddMentorSubjects(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	var req MentorSubjectsRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.party.AddMentorSubjects(c.Request.Context(), id, req.Subjects)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// RemoveMentorSubjects godoc
// @ID       removeMentorSubjects
// @Summary  Unlink subjects from a mentor
// @Tags     Mentors
// @Accept   json
// @Produce  json
// @Param    id    path      int                                    true  "Mentor id"
// @Param    body  body      handlers.RemoveMentorSubjectsRequest  true  "Subject ids"
// @Success  200   {object}  domain.MentorView
// @Failure  404   {object}  handlers.ErrorResponse
// @Router   /mentors/{id}/subjects [delete]
func (h *Handlers) RemoveMentorSubjects(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	var req RemoveMentorSubjectsRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.party.RemoveMentorSubjects(c.Request.Context(), id, req.SubjectIDs)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// ArchiveMentor godoc
// @ID       archiveMentor
// @Summary  Archive a mentor
// @Tags     Mentors
// @Param    id  path  int  true  "Mentor id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /mentors/{id}/archive [post]
func (h *Handlers) ArchiveMentor(c *gin.Context) {
	h.mentorAction(c, h.party.ArchiveMentor)
}

// UnarchiveMentor godoc
// @ID       unarchiveMentor
// @Summary  Unarchive a mentor
// @Tags     Mentors
// @Param    id  path  int  true  "Mentor id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /mentors/{id}/unarchive [post]
func (h *Handlers) UnarchiveMentor(c *gin.Context) {
	h.mentorAction(c, h.party.UnarchiveMentor)
}

func (h *Handlers) mentorAction(c *gin.Context, op func(ctx context.Context, id int64) error) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// SuggestMentors godoc
// @ID          suggestMentors
// @Summary     Suggest mentors for subjects
// @Description Active mentors linked to any of the subjects, least loaded first.
// @Tags        Mentors
// @Produce     json
// @Param       subject_id  query  []int  true   "Subject ids (repeat or comma separate)"  collectionFormat(multi)
// @Param       limit       query  int    false  "Max results"  minimum(1) maximum(100) default(10)
// @Success     200  {object}  handlers.SuggestMentorsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /mentors/suggest [get]
func (h *Handlers) SuggestMentors(c *gin.Context) {
	ids, err := utils.ParseIDs(c.QueryArray("subject_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "subject_id: "+err.Error())
		return
	}
	if len(ids) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "subject_id required")
		return
	}
	limit := utils.ClampInt(c.Query("limit"), 10, 1, 100)
	got, err := h.party.SuggestMentors(c.Request.Context(), ids, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, SuggestMentorsResponse{Mentors: got})
}

// RejectStudent godoc
// @ID          rejectStudent
// @Summary     Return a supervised student to the pending pool
// @Description Moves the student's accepted work back to pending with its subjects, detaches the mentor and adjusts load.
// @Tags        Works
// @Produce     json
// @Param       id          path  int  true  "Mentor id"
// @Param       student_id  path  int  true  "Student id"
// @Success     200  {object}  services.RejectOutcome
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /mentors/{id}/students/{student_id}/reject [post]
func (h *Handlers) RejectStudent(c *gin.Context) {
	mentorID, okp := pathID(c, "id")
	if !okp {
		return
	}
	studentID, okp := pathID(c, "student_id")
	if !okp {
		return
	}
	out, err := h.work.RejectStudent(c.Request.Context(), mentorID, studentID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
