package http

import (
	"net/http"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrdersHandler covers admin order management plus the customers and
// notifications screens that hang off it.
type OrdersHandler struct {
	orders        service.OrderService
	customers     service.CustomerService
	notifications service.NotificationService
	log           *zap.Logger
}

func NewOrdersHandler(orders service.OrderService, customers service.CustomerService, notifications service.NotificationService, log *zap.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, customers: customers, notifications: notifications, log: log}
}

func (h *OrdersHandler) List(c *gin.Context) {
	f := service.OrderListFilter{
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.OrderStatus(raw)
		f.Status = &status
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), f)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: orders, Total: total})
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid order id")
		return
	}
	detail, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid order id")
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status), req.Notes)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func (h *OrdersHandler) SetPaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid order id")
		return
	}
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	order, err := h.orders.SetPaymentStatus(c.Request.Context(), id, models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrdersHandler) ListCustomers(c *gin.Context) {
	customers, total, err := h.customers.List(c.Request.Context(), repository.CustomerListFilter{
		Query:  c.Query("q"),
		Limit:  intQuery(c, "limit", 20),
		Offset: intQuery(c, "offset", 0),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: customers, Total: total})
}

func (h *OrdersHandler) ListNotifications(c *gin.Context) {
	items, total, err := h.notifications.ListAdmin(c.Request.Context(),
		intQuery(c, "limit", 20), intQuery(c, "offset", 0))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: items, Total: total})
}

func (h *OrdersHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *OrdersHandler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid notification id")
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}
