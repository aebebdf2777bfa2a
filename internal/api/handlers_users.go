package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/internal/models"
)

func (h *handler) createUser(c *gin.Context) {
	var body models.User
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	user, err := h.svc.Users.CreateUser(c.Request.Context(), &body)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *handler) updateUser(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.UserPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	user, err := h.svc.Users.UpdateUser(c.Request.Context(), id, &patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) deleteUser(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.Users.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handler) getUser(c *gin.Context) {
	id, err := pathID(c, "userId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	user, err := h.svc.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handler) listUsers(c *gin.Context) {
	users, err := h.svc.Users.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
