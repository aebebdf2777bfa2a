package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/internal/models"
)

func (h *handler) createRequest(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var draft models.RequestDraft
	if err := bindJSON(c, &draft); err != nil {
		respondError(c, h.logger, err)
		return
	}
	req, err := h.svc.Requests.CreateRequest(c.Request.Context(), userID, &draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *handler) ownRequests(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	reqs, err := h.svc.Requests.GetOwnRequests(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *handler) otherRequests(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	from, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	reqs, err := h.svc.Requests.GetOtherRequests(c.Request.Context(), userID, from, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *handler) getRequest(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	requestID, err := pathID(c, "requestId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	req, err := h.svc.Requests.GetRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
