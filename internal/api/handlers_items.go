package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/internal/models"
)

func (h *handler) addItem(c *gin.Context) {
	ownerID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var draft models.ItemDraft
	if err := bindJSON(c, &draft); err != nil {
		respondError(c, h.logger, err)
		return
	}
	item, err := h.svc.Items.AddItem(c.Request.Context(), ownerID, &draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handler) updateItem(c *gin.Context) {
	ownerID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var patch models.ItemPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, h.logger, err)
		return
	}
	item, err := h.svc.Items.UpdateItem(c.Request.Context(), itemID, ownerID, &patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handler) getItem(c *gin.Context) {
	viewerID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	item, err := h.svc.Items.GetItem(c.Request.Context(), itemID, viewerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handler) ownerItems(c *gin.Context) {
	ownerID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	from, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, err := h.svc.Items.GetOwnerItems(c.Request.Context(), ownerID, from, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) searchItems(c *gin.Context) {
	from, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	items, err := h.svc.Items.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) postComment(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var draft models.CommentDraft
	if err := bindJSON(c, &draft); err != nil {
		respondError(c, h.logger, err)
		return
	}
	comment, err := h.svc.Comments.PostComment(c.Request.Context(), userID, itemID, &draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
