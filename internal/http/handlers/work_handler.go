// Work lifecycle HTTP handlers.
//
// Endpoints:
//   - POST   /works              (createWork, idempotent with Idempotency-Key)
//   - GET    /works/{id}         (?state=pending|accepted)
//   - POST   /works/{id}/accept  (acceptWork)
//   - POST   /works/{id}/readmit (readmitWork on an accepted row)
//   - PUT    /works/{id}         (modifyWork on a pending row)
//   - DELETE /works/{id}         (removeWork)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and an earlier POST /works
// with the same key (same chat, same route) created a request, the stored
// request is returned with `Idempotency-Replayed: true` instead of filing a
// second one.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/http/middleware"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

// CreateWorkRequest files a pending request. The student is identified by
// student_id or chat_id; when both are absent the X-Chat-ID of the caller
// is used.
type CreateWorkRequest struct {
	StudentID    int64    `json:"student_id"    example:"7"`
	ChatID       int64    `json:"chat_id"       example:"4242"`
	DisplayName  string   `json:"display_name"  binding:"max=255"    example:"Grace"`
	SubjectIDs   []int64  `json:"subject_ids"   binding:"omitempty,dive,gt=0"`
	SubjectNames []string `json:"subject_names" binding:"omitempty,dive,max=255"`
	Description  string   `json:"description"   binding:"max=4000"   example:"Consensus under partial synchrony"`
}

// AcceptWorkRequest names the accepting mentor.
type AcceptWorkRequest struct {
	MentorID int64 `json:"mentor_id" binding:"required,gt=0" example:"3"`
}

// ReadmitWorkRequest optionally narrows the new request to one subject.
type ReadmitWorkRequest struct {
	SubjectID *int64 `json:"subject_id,omitempty" binding:"omitempty,gt=0" example:"12"`
}

// ModifyWorkRequest replaces the subjects and description of a pending row.
type ModifyWorkRequest struct {
	SubjectNames []string `json:"subject_names" binding:"omitempty,dive,max=255"`
	Description  string   `json:"description"   binding:"max=4000"`
}

// CreateWork godoc
// @ID          createWork
// @Summary     File a pending request
// @Description Creates the student on first use, resolves every subject through the catalog and stores the request.
// @Description Supports idempotency via the Idempotency-Key header (same key → same request).
// @Tags        Works
// @Accept      json
// @Produce     json
// @Param       X-Chat-ID        header    int                         false  "Acting chat id"
// @Param       Idempotency-Key  header    string                      false  "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body      handlers.CreateWorkRequest  true   "Request"
// @Success     201              {object}  domain.WorkView
// @Header      201              {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400              {object}  handlers.ErrorResponse
// @Failure     404              {object}  handlers.ErrorResponse
// @Failure     409              {object}  handlers.ErrorResponse
// @Failure     503              {object}  handlers.ErrorResponse
// @Router      /works [post]
func (h *Handlers) CreateWork(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateWorkRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.StudentID == 0 && req.ChatID == 0 {
		if id, has := middleware.ActorFrom(c); has {
			req.ChatID = id
		}
	}

	// Replay path.
	idemKey, hasKey := middleware.GetIdempotencyKey(c)
	actor, scope := middleware.IdempotencyScope(c)
	if hasKey && h.idem != nil {
		id, found, err := h.idem.Lookup(ctx, actor, scope, idemKey, time.Now().UTC())
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
		} else if found {
			prev, err := h.work.GetWork(ctx, id, domain.StatePending)
			if errors.Is(err, services.ErrNotFound) {
				fail(c, http.StatusConflict, ErrCodeConflict,
					fmt.Sprintf("idempotency key already used for work %d, which is no longer pending", id))
				return
			}
			if err != nil {
				failErr(c, err)
				return
			}
			c.Header(middleware.HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusCreated, prev)
			return
		}
	}

	view, err := h.work.CreateWork(ctx, services.CreateWorkInput{
		StudentID:    req.StudentID,
		ChatID:       req.ChatID,
		DisplayName:  req.DisplayName,
		SubjectIDs:   req.SubjectIDs,
		SubjectNames: req.SubjectNames,
		Description:  req.Description,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	// Store path, best effort.
	if hasKey && h.idem != nil {
		if err := h.idem.Remember(ctx, actor, scope, idemKey, view.ID, http.StatusCreated); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Int64("work_id", view.ID).Msg("idempotency store failed")
		}
	}

	ok(c, http.StatusCreated, view)
}

// GetWork godoc
// @ID       getWork
// @Summary  Get a unit of work
// @Tags     Works
// @Produce  json
// @Param    id     path   int     true   "Work id"
// @Param    state  query  string  false  "Table to read"  Enums(pending, accepted) default(pending)
// @Success  200  {object}  domain.WorkView
// @Failure  400  {object}  handlers.ErrorResponse
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /works/{id} [get]
func (h *Handlers) GetWork(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	state := domain.WorkState(strings.ToLower(strings.TrimSpace(c.Query("state"))))
	view, err := h.work.GetWork(c.Request.Context(), id, state)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// AcceptWork godoc
// @ID          acceptWork
// @Summary     Accept a pending request
// @Description Moves the request to accepted under the mentor and purges the student's other pending requests.
// @Description If the student already holds accepted work, the subjects are merged into it instead.
// @Tags        Works
// @Accept      json
// @Produce     json
// @Param       id    path      int                         true  "Pending work id"
// @Param       body  body      handlers.AcceptWorkRequest  true  "Mentor"
// @Success     200   {object}  services.AcceptOutcome
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     503   {object}  handlers.ErrorResponse
// @Router      /works/{id}/accept [post]
func (h *Handlers) AcceptWork(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	var req AcceptWorkRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.work.AcceptWork(c.Request.Context(), req.MentorID, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// ReadmitWork godoc
// @ID          readmitWork
// @Summary     Re-file accepted work as a new pending request
// @Description The accepted row is left untouched. A body is optional.
// @Tags        Works
// @Accept      json
// @Produce     json
// @Param       id    path      int                          true   "Accepted work id"
// @Param       body  body      handlers.ReadmitWorkRequest  false  "Optional single subject"
// @Success     200   {object}  services.ReadmitOutcome
// @Failure     404   {object}  handlers.ErrorResponse
// @Router      /works/{id}/readmit [post]
func (h *Handlers) ReadmitWork(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	var req ReadmitWorkRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	out, err := h.work.ReadmitWork(c.Request.Context(), id, req.SubjectID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// ModifyWork godoc
// @ID       modifyWork
// @Summary  Replace subjects and description of a pending request
// @Tags     Works
// @Accept   json
// @Produce  json
// @Param    id    path      int                         true  "Pending work id"
// @Param    body  body      handlers.ModifyWorkRequest  true  "New content"
// @Success  200   {object}  domain.WorkView
// @Failure  400   {object}  handlers.ErrorResponse
// @Failure  404   {object}  handlers.ErrorResponse
// @Router   /works/{id} [put]
func (h *Handlers) ModifyWork(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	var req ModifyWorkRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.work.ModifyWork(c.Request.Context(), services.ModifyWorkInput{
		WorkID:       id,
		SubjectNames: req.SubjectNames,
		Description:  req.Description,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// RemoveWork godoc
// @ID          removeWork
// @Summary     Remove a pending request
// @Description Deletes the request and its subject links. The student is removed too when nothing else references them.
// @Tags        Works
// @Produce     json
// @Param       id  path  int  true  "Pending work id"
// @Success     200  {object}  services.RemoveOutcome
// @Failure     503  {object}  handlers.ErrorResponse
// @Router      /works/{id} [delete]
func (h *Handlers) RemoveWork(c *gin.Context) {
	id, okp := pathID(c, "id")
	if !okp {
		return
	}
	out, err := h.work.RemoveWork(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
