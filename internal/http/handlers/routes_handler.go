// README: Route suggestion handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rankgo/internal/modules/routes"
)

type RoutesHandler struct {
	routes *routes.Service
}

func NewRoutesHandler(svc *routes.Service) *RoutesHandler {
	return &RoutesHandler{routes: svc}
}

func (h *RoutesHandler) Suggest(c *gin.Context) {
	matches, err := h.routes.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": matches})
}
