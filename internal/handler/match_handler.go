package handler

import (
	"net/http"

	"league-core/internal/model"
	"league-core/internal/service"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	service service.MatchResultService
}

func NewMatchHandler(service service.MatchResultService) *MatchHandler {
	return &MatchHandler{service: service}
}

func (h *MatchHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("matches/:id/result", h.RecordResult)
	}
}

func (h *MatchHandler) RecordResult(c *gin.Context) {
	var uri idURI
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req model.RecordMatchResultRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	// 以路徑為準
	req.MatchID = uri.ID

	result, err := h.service.RecordResult(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "RecordResult")
		return
	}

	handleSuccess(c, result, http.StatusOK)
}
