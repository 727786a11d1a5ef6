package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lowStockThreshold = 5

type catalogService struct {
	repo  *repository.Repository
	codes CodeGenerator
	files FileStore
	log   *zap.Logger
	now   func() time.Time
}

func NewCatalogService(repo *repository.Repository, codes CodeGenerator, files FileStore, log *zap.Logger) CatalogService {
	return &catalogService{
		repo:  repo,
		codes: codes,
		files: files,
		log:   log,
		now:   time.Now,
	}
}

func (s *catalogService) CreateItem(ctx context.Context, in CreateItemInput) (*models.ClothingItem, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Category) == "" {
		return nil, fmt.Errorf("%w: name and category are required", ErrValidation)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidQuantity)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	now := s.now()
	item := &models.ClothingItem{
		Name:      in.Name,
		Category:  in.Category,
		Size:      in.Size,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Image:     in.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Clothing.Create(ctx, item); err != nil {
			return err
		}
		if item.Quantity > 0 {
			if err := tx.StockLogs.Append(ctx, &models.StockLog{
				ClothingID: item.ID,
				ChangeType: models.StockChangeCreate,
				QtyChange:  item.Quantity,
				Note:       "Initial stock",
				Actor:      actor.Name,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		return tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "item_create",
			Details:   fmt.Sprintf("Item %s created by %s", item.Name, actor.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	// Code rendering happens outside the transaction; a render failure
	// leaves a valid item without codes, fixable via regenerate.
	s.attachCodes(ctx, item)
	return item, nil
}

// attachCodes renders both code images and stores their filenames.
// Failures are logged, not returned.
func (s *catalogService) attachCodes(ctx context.Context, item *models.ClothingItem) {
	barcodeFile, err := s.codes.Barcode(item.ID, item.ID.String())
	if err != nil {
		s.log.Warn("barcode generation failed", zap.String("item_id", item.ID.String()), zap.Error(err))
		return
	}
	qrFile, err := s.codes.QR(item.ID, item.ID.String())
	if err != nil {
		s.log.Warn("qr generation failed", zap.String("item_id", item.ID.String()), zap.Error(err))
		return
	}
	fields := map[string]any{"barcode": barcodeFile, "qrcode": qrFile}
	if err := s.repo.Clothing.UpdateFields(ctx, item.ID, fields); err != nil {
		s.log.Warn("storing code filenames failed", zap.String("item_id", item.ID.String()), zap.Error(err))
		return
	}
	item.Barcode = &barcodeFile
	item.QRCode = &qrFile
}

func (s *catalogService) UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*models.ClothingItem, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Clothing.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	now := s.now()
	fields := map[string]any{"updated_at": now}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		fields["name"] = *in.Name
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Size != nil {
		fields["size"] = *in.Size
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		fields["price"] = *in.Price
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}

	var qtyDiff int
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidQuantity)
		}
		qtyDiff = *in.Quantity - item.Quantity
		fields["quantity"] = *in.Quantity
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Clothing.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if qtyDiff != 0 {
			changeType := models.StockChangeIn
			if qtyDiff < 0 {
				changeType = models.StockChangeOut
			}
			if err := tx.StockLogs.Append(ctx, &models.StockLog{
				ClothingID: id,
				ChangeType: changeType,
				QtyChange:  qtyDiff,
				Note:       "Qty updated via edit",
				Actor:      actor.Name,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		return tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "item_update",
			Details:   fmt.Sprintf("Item %s updated by %s", item.Name, actor.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Clothing.GetByID(ctx, id)
}

func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, in AdjustStockInput) (*models.ClothingItem, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Clothing.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	var newQty int
	switch in.Type {
	case models.StockChangeIn:
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
		}
		newQty = item.Quantity + in.Quantity
	case models.StockChangeOut:
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidQuantity)
		}
		// Manual stock-out clamps at zero instead of failing.
		newQty = item.Quantity - in.Quantity
		if newQty < 0 {
			newQty = 0
		}
	case models.StockChangeAdjust:
		if in.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrInvalidQuantity)
		}
		newQty = in.Quantity
	default:
		return nil, fmt.Errorf("%w: unknown change type %q", ErrValidation, in.Type)
	}

	diff := newQty - item.Quantity
	note := strings.TrimSpace(in.Note)
	if note == "" {
		note = "Manual adjustment"
	}

	now := s.now()
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Clothing.SetQuantity(ctx, id, newQty); err != nil {
			return err
		}
		if diff != 0 {
			if err := tx.StockLogs.Append(ctx, &models.StockLog{
				ClothingID: id,
				ChangeType: in.Type,
				QtyChange:  diff,
				Note:       note,
				Actor:      actor.Name,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		return tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "stock_adjust",
			Details:   fmt.Sprintf("Stock of %s changed by %+d by %s", item.Name, diff, actor.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Clothing.GetByID(ctx, id)
}

func (s *catalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	actor, err := requireRole(ctx, models.RoleAdmin, models.RoleSuperadmin)
	if err != nil {
		return err
	}

	item, err := s.repo.Clothing.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	referenced, err := s.repo.Orders.HasItemsFor(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrItemReferenced
	}

	gallery, err := s.repo.Images.ListByItem(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Images.DeleteByItem(ctx, id); err != nil {
			return err
		}
		found, err := tx.Clothing.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrItemNotFound
		}
		return tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "item_delete",
			Details:   fmt.Sprintf("Item %s deleted by %s", item.Name, actor.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	s.removeFiles(item, gallery)
	return nil
}

// removeFiles deletes stored images and code PNGs best-effort after the
// owning rows are gone.
func (s *catalogService) removeFiles(item *models.ClothingItem, gallery []models.ClothingImage) {
	var names []string
	for _, f := range []*string{item.Image, item.Barcode, item.QRCode} {
		if f != nil && *f != "" {
			names = append(names, *f)
		}
	}
	for _, img := range gallery {
		names = append(names, img.Image)
	}
	for _, name := range names {
		if err := s.files.Remove(name); err != nil {
			s.log.Warn("file removal failed", zap.String("file", name), zap.Error(err))
		}
	}
}

func (s *catalogService) GetItem(ctx context.Context, id uuid.UUID) (*ItemDetail, error) {
	item, err := s.repo.Clothing.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	images, err := s.repo.Images.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.StockLogs.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ItemDetail{Item: *item, Images: images, Logs: logs}, nil
}

func (s *catalogService) ListItems(ctx context.Context, f ItemListFilter) ([]models.ClothingItem, int64, error) {
	return s.repo.Clothing.List(ctx, repository.ClothingListFilter{
		Query:       f.Query,
		Category:    f.Category,
		InStockOnly: f.InStockOnly,
		Sort:        f.Sort,
		Limit:       f.Limit,
		Offset:      f.Offset,
	})
}

func (s *catalogService) StorefrontCategories(ctx context.Context) ([]string, error) {
	return s.repo.Clothing.Categories(ctx)
}

func (s *catalogService) AddImage(ctx context.Context, itemID uuid.UUID, filename string) (*models.ClothingImage, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	item, err := s.repo.Clothing.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	img := &models.ClothingImage{
		ClothingID: itemID,
		Image:      filename,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Images.Add(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *catalogService) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	if _, err := requireActor(ctx); err != nil {
		return err
	}
	img, err := s.repo.Images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil {
		return ErrImageNotFound
	}
	found, err := s.repo.Images.Delete(ctx, imageID)
	if err != nil {
		return err
	}
	if !found {
		return ErrImageNotFound
	}
	if err := s.files.Remove(img.Image); err != nil {
		s.log.Warn("file removal failed", zap.String("file", img.Image), zap.Error(err))
	}
	return nil
}

func (s *catalogService) RegenerateCodes(ctx context.Context, id uuid.UUID) (*models.ClothingItem, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	item, err := s.repo.Clothing.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	barcodeFile, err := s.codes.Barcode(item.ID, item.ID.String())
	if err != nil {
		return nil, err
	}
	qrFile, err := s.codes.QR(item.ID, item.ID.String())
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"barcode": barcodeFile, "qrcode": qrFile, "updated_at": s.now()}
	if err := s.repo.Clothing.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	item.Barcode = &barcodeFile
	item.QRCode = &qrFile
	return item, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	c := &models.Category{
		Name:        name,
		Description: in.Description,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	// Create is a no-op on a name conflict; reload so the caller gets
	// the persisted row either way.
	return s.repo.Categories.GetByName(ctx, name)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	found, err := s.repo.Categories.Update(ctx, id, name, in.Description)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCategoryNotFound
	}
	return s.repo.Categories.GetByID(ctx, id)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := requireRole(ctx, models.RoleAdmin, models.RoleSuperadmin); err != nil {
		return err
	}
	found, err := s.repo.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context, f repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.repo.Categories.List(ctx, f)
}

func (s *catalogService) ImportItems(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to import", ErrValidation)
	}

	result := &ImportResult{}
	now := s.now()
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		for i, row := range rows {
			if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Category) == "" {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: name and category are required", i+1))
				continue
			}
			if row.Quantity < 0 || row.Price.IsNegative() {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: negative quantity or price", i+1))
				continue
			}
			item := &models.ClothingItem{
				Name:      row.Name,
				Category:  row.Category,
				Size:      row.Size,
				Quantity:  row.Quantity,
				Price:     row.Price,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Clothing.Create(ctx, item); err != nil {
				return err
			}
			if item.Quantity > 0 {
				if err := tx.StockLogs.Append(ctx, &models.StockLog{
					ClothingID: item.ID,
					ChangeType: models.StockChangeImport,
					QtyChange:  item.Quantity,
					Note:       "Imported from Excel",
					Actor:      actor.Name,
					CreatedAt:  now,
				}); err != nil {
					return err
				}
			}
			result.Created++
		}
		return tx.Activity.Append(ctx, &models.ActivityLog{
			Action:    "items_import",
			Details:   fmt.Sprintf("%d items imported by %s", result.Created, actor.Name),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *catalogService) ExportItems(ctx context.Context) ([]models.ClothingItem, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	items, _, err := s.repo.Clothing.List(ctx, repository.ClothingListFilter{
		Sort:  "created_asc",
		Limit: 100000,
	})
	return items, err
}

func (s *catalogService) ItemStockLogs(ctx context.Context, itemID uuid.UUID) ([]models.StockLog, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	item, err := s.repo.Clothing.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return s.repo.StockLogs.ListByItem(ctx, itemID)
}

func (s *catalogService) RecentStockLogs(ctx context.Context, limit int) ([]repository.StockLogWithItem, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}
	return s.repo.StockLogs.ListRecent(ctx, limit)
}

func (s *catalogService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if _, err := requireActor(ctx); err != nil {
		return nil, err
	}

	stats := &DashboardStats{}
	var err error
	if stats.TotalItems, err = s.repo.Clothing.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalQuantity, err = s.repo.Clothing.TotalQuantity(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockItems, err = s.repo.Clothing.CountLowStock(ctx, lowStockThreshold); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.repo.Categories.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.ByCategory, err = s.repo.Clothing.QuantityByCategory(ctx, 6); err != nil {
		return nil, err
	}
	if stats.RecentActivity, err = s.repo.Activity.Recent(ctx, 10); err != nil {
		return nil, err
	}
	return stats, nil
}
