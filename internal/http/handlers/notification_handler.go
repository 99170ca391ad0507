// README: Notification inbox handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rankgo/internal/notify"
	"rankgo/internal/types"
)

type NotificationHandler struct {
	inbox *notify.InboxStore
}

func NewNotificationHandler(inbox *notify.InboxStore) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	writeJSON(c, http.StatusOK, gin.H{
		"notifications": h.inbox.ForUser(c.Request.Context(), userID),
		"unread":        h.inbox.UnreadCount(c.Request.Context(), userID),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, _ := currentUser(c)
	if !h.inbox.MarkRead(c.Request.Context(), userID, types.ID(c.Param("id"))) {
		writeError(c, http.StatusNotFound, "notification not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, _ := currentUser(c)
	h.inbox.MarkAllRead(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	userID, _ := currentUser(c)
	h.inbox.ClearAll(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}
