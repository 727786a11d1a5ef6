package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"shop-service/internal/models"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/internal/xlsx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemsHandler is the admin side of the catalog: item CRUD, stock
// movements, codes, categories, Excel exchange and the dashboard.
type ItemsHandler struct {
	catalog   service.CatalogService
	uploadDir string
	log       *zap.Logger
}

func NewItemsHandler(catalog service.CatalogService, uploadDir string, log *zap.Logger) *ItemsHandler {
	return &ItemsHandler{catalog: catalog, uploadDir: uploadDir, log: log}
}

type itemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Size     string `json:"size"`
	Quantity *int   `json:"quantity"`
	Price    string `json:"price"`
	Image    string `json:"image"`
}

func (h *ItemsHandler) Create(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	price := decimal.Zero
	if req.Price != "" {
		var err error
		if price, err = decimal.NewFromString(req.Price); err != nil {
			badRequest(c, "invalid price")
			return
		}
	}

	in := service.CreateItemInput{
		Name:     req.Name,
		Category: req.Category,
		Size:     req.Size,
		Price:    price,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	if req.Image != "" {
		in.Image = &req.Image
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *ItemsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	in := service.UpdateItemInput{Quantity: req.Quantity}
	if req.Name != "" {
		in.Name = &req.Name
	}
	if req.Category != "" {
		in.Category = &req.Category
	}
	if req.Size != "" {
		in.Size = &req.Size
	}
	if req.Image != "" {
		in.Image = &req.Image
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			badRequest(c, "invalid price")
			return
		}
		in.Price = &price
	}

	item, err := h.catalog.UpdateItem(c.Request.Context(), id, in)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ItemsHandler) List(c *gin.Context) {
	items, total, err := h.catalog.ListItems(c.Request.Context(), service.ItemListFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Limit:    intQuery(c, "limit", 20),
		Offset:   intQuery(c, "offset", 0),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: items, Total: total})
}

func (h *ItemsHandler) Get(c *gin.Context) {
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
	c.JSON(http.StatusOK, detail)
}

func (h *ItemsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	if err := h.catalog.DeleteItem(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type adjustStockRequest struct {
	Type     string `json:"type" binding:"required"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

func (h *ItemsHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	item, err := h.catalog.AdjustStock(c.Request.Context(), id, service.AdjustStockInput{
		Type:     models.StockChangeType(req.Type),
		Quantity: req.Quantity,
		Note:     req.Note,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ItemsHandler) RegenerateCodes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	item, err := h.catalog.RegenerateCodes(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ItemsHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "image file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		badRequest(c, "unsupported image type")
		return
	}

	name := fmt.Sprintf("img_%s%s", uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		h.log.Error("saving upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, newError("internal_error", "could not store image"))
		return
	}

	img, err := h.catalog.AddImage(c.Request.Context(), id, name)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": img})
}

func (h *ItemsHandler) DeleteImage(c *gin.Context) {
	imageID, err := uuid.Parse(c.Param("imageID"))
	if err != nil {
		badRequest(c, "invalid image id")
		return
	}
	if err := h.catalog.DeleteImage(c.Request.Context(), imageID); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ItemsHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		h.log.Error("opening upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, newError("internal_error", "could not read file"))
		return
	}
	defer src.Close()

	rows, err := xlsx.Parse(src)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid workbook: %v", err))
		return
	}

	result, err := h.catalog.ImportItems(c.Request.Context(), rows)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ItemsHandler) Export(c *gin.Context) {
	items, err := h.catalog.ExportItems(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="items.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := xlsx.Write(c.Writer, items); err != nil {
		h.log.Error("writing workbook failed", zap.Error(err))
	}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *ItemsHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *ItemsHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid category id")
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

func (h *ItemsHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid category id")
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *ItemsHandler) ListCategories(c *gin.Context) {
	cats, total, err := h.catalog.ListCategories(c.Request.Context(), repository.CategoryListFilter{
		Query:  c.Query("q"),
		Sort:   c.Query("sort"),
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	})
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, listResponse{Items: cats, Total: total})
}

func (h *ItemsHandler) ItemStockLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	logs, err := h.catalog.ItemStockLogs(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *ItemsHandler) RecentStockLogs(c *gin.Context) {
	logs, err := h.catalog.RecentStockLogs(c.Request.Context(), intQuery(c, "limit", 0))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *ItemsHandler) Dashboard(c *gin.Context) {
	stats, err := h.catalog.Dashboard(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
