package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/utils"
)

// AddAdminRequest adds a chat id to the admin list.
type AddAdminRequest struct {
	ChatID int64 `json:"chat_id" binding:"required" example:"1001"`
}

// AdminsResponse lists admins.
type AdminsResponse struct {
	Admins []domain.Admin `json:"admins"`
}

// AddAdmin godoc
// @ID       addAdmin
// @Summary  Add an admin
// @Tags     Admin
// @Accept   json
// @Produce  json
// @Param    body  body      handlers.AddAdminRequest  true  "Admin"
// @Success  201   {object}  domain.Admin
// @Failure  400   {object}  handlers.ErrorResponse
// @Router   /admins [post]
func (h *Handlers) AddAdmin(c *gin.Context) {
	var req AddAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.party.AddAdmin(c.Request.Context(), req.ChatID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, a)
}

// ListAdmins godoc
// @ID       listAdmins
// @Summary  List admins
// @Tags     Admin
// @Produce  json
// @Success  200  {object}  handlers.AdminsResponse
// @Router   /admins [get]
func (h *Handlers) ListAdmins(c *gin.Context) {
	out, err := h.party.ListAdmins(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AdminsResponse{Admins: out})
}

// RemoveAdmin godoc
// @ID       removeAdmin
// @Summary  Remove an admin
// @Tags     Admin
// @Param    chat_id  path  int  true  "Admin chat id"
// @Success  204
// @Failure  404  {object}  handlers.ErrorResponse
// @Router   /admins/{chat_id} [delete]
func (h *Handlers) RemoveAdmin(c *gin.Context) {
	chatID, okp := pathChatID(c)
	if !okp {
		return
	}
	if err := h.party.RemoveAdmin(c.Request.Context(), chatID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// WhoIs godoc
// @ID          whoIs
// @Summary     Roles of a chat id
// @Description Lets the front end route a chat to the admin, support, mentor or student flows.
// @Tags        Admin
// @Produce     json
// @Param       chat_id  path  int  true  "Chat id"
// @Success     200  {object}  domain.Roles
// @Failure     400  {object}  handlers.ErrorResponse
// @Router      /whois/{chat_id} [get]
func (h *Handlers) WhoIs(c *gin.Context) {
	chatID, okp := pathChatID(c)
	if !okp {
		return
	}
	roles, err := h.party.WhoIs(c.Request.Context(), chatID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, roles)
}

// Stats godoc
// @ID       stats
// @Summary  Row counts of the main tables
// @Tags     Admin
// @Produce  json
// @Success  200  {object}  domain.Census
// @Failure  503  {object}  handlers.ErrorResponse
// @Router   /stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	census, err := h.census.Stats(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, census)
}

func pathChatID(c *gin.Context) (int64, bool) {
	id, err := utils.ParseChatID(c.Param("chat_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chat_id: "+err.Error())
		return 0, false
	}
	return id, true
}
