package handler

import (
	"net/http"

	"league-core/internal/model"
	"league-core/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service      service.TicketingService
	availability service.AvailabilityService
}

func NewTicketHandler(service service.TicketingService, availability service.AvailabilityService) *TicketHandler {
	return &TicketHandler{service: service, availability: availability}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("tickets", h.PurchaseTicket)
		router.POST("sales/:id/refund", h.RefundTicket)
		router.GET("events/:id/sold-seats", h.SoldSeats)
	}
}

// RefundRequest 退票請求
type RefundRequest struct {
	Reason      string `json:"reason"`
	ProcessedBy string `json:"processed_by"`
}

func (h *TicketHandler) PurchaseTicket(c *gin.Context) {
	var req model.PurchaseTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.PurchaseTicket(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "PurchaseTicket")
		return
	}

	handleSuccess(c, result, http.StatusCreated)
}

func (h *TicketHandler) RefundTicket(c *gin.Context) {
	var uri idURI
	if err := BindUri(c, &uri); err != nil {
		return
	}
	var req RefundRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.RefundTicket(c.Request.Context(), uri.ID, req.Reason, req.ProcessedBy)
	if err != nil {
		handleError(c, err, "RefundTicket")
		return
	}

	handleSuccess(c, result, http.StatusOK)
}

func (h *TicketHandler) SoldSeats(c *gin.Context) {
	var uri idURI
	if err := BindUri(c, &uri); err != nil {
		return
	}

	seatIDs, err := h.availability.SoldSeats(c.Request.Context(), uri.ID)
	if err != nil {
		handleError(c, err, "SoldSeats")
		return
	}

	handleSuccess(c, gin.H{"event_id": uri.ID, "sold_seat_ids": seatIDs}, http.StatusOK)
}
