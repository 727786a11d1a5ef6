package http

import (
	"net/http"
	"strconv"

	"shop-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShopHandler serves the public storefront: catalog browsing, the cart
// and checkout.
type ShopHandler struct {
	catalog service.CatalogService
	cart    service.CartService
	orders  service.OrderService
	log     *zap.Logger
}

func NewShopHandler(catalog service.CatalogService, cart service.CartService, orders service.OrderService, log *zap.Logger) *ShopHandler {
	return &ShopHandler{catalog: catalog, cart: cart, orders: orders, log: log}
}

func (h *ShopHandler) ListItems(c *gin.Context) {
	items, total, err := h.catalog.ListItems(c.Request.Context(), service.ItemListFilter{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		InStockOnly: true,
		Sort:        c.Query("sort"),
		Limit:       intQuery(c, "limit", 20),
		Offset:      intQuery(c, "offset", 0),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: items, Total: total})
}

func (h *ShopHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	detail, err := h.catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": detail.Item, "images": detail.Images})
}

func (h *ShopHandler) Categories(c *gin.Context) {
	names, err := h.catalog.StorefrontCategories(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": names})
}

type addCartLineRequest struct {
	ClothingID string `json:"clothing_id" binding:"required"`
	Size       string `json:"size"`
	Quantity   int    `json:"quantity" binding:"required"`
}

func (h *ShopHandler) AddCartLine(c *gin.Context) {
	var req addCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	itemID, err := uuid.Parse(req.ClothingID)
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	if err := h.cart.AddLine(c.Request.Context(), sessionID(c), itemID, req.Size, req.Quantity); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *ShopHandler) GetCart(c *gin.Context) {
	view, err := h.cart.ListCart(c.Request.Context(), sessionID(c))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ShopHandler) RemoveCartLine(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid cart line id")
		return
	}
	if err := h.cart.RemoveLine(c.Request.Context(), sessionID(c), lineID); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *ShopHandler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), sessionID(c)); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

type checkoutRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code" binding:"required"`
}

func (h *ShopHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	order, err := h.orders.Checkout(c.Request.Context(), service.CheckoutInput{
		SessionID: sessionID(c),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *ShopHandler) TrackOrder(c *gin.Context) {
	detail, err := h.orders.TrackOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
