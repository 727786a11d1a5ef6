// Package migrate applies the schema: gorm auto-migration plus the raw
// SQL gorm tags cannot express.
package migrate

import (
	"fmt"

	"shop-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	// WithExtensions installs pgcrypto for gen_random_uuid. Disable on
	// databases where the role cannot create extensions.
	WithExtensions bool
}

func DefaultOptions() Options {
	return Options{WithExtensions: true}
}

func Run(db *gorm.DB, log *zap.Logger, opts Options) error {
	if opts.WithExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			return fmt.Errorf("create extension: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.ClothingItem{},
		&models.ClothingImage{},
		&models.Category{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockLog{},
		&models.Notification{},
		&models.CartLine{},
		&models.Admin{},
		&models.AdminSession{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := applyConstraints(db); err != nil {
		return err
	}
	if err := applyTriggers(db); err != nil {
		return err
	}

	log.Info("migrations applied")
	return nil
}

// applyConstraints adds CHECKs and foreign keys. Each statement is
// guarded so reruns are no-ops.
func applyConstraints(db *gorm.DB) error {
	stmts := []string{
		`DO $$ BEGIN
	ALTER TABLE clothing ADD CONSTRAINT chk_clothing_quantity CHECK (quantity >= 0);
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity CHECK (quantity > 0);
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE orders ADD CONSTRAINT fk_orders_customer
		FOREIGN KEY (customer_id) REFERENCES customers(id);
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE order_items ADD CONSTRAINT fk_order_items_order
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE order_items ADD CONSTRAINT fk_order_items_clothing
		FOREIGN KEY (clothing_id) REFERENCES clothing(id);
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE stock_logs ADD CONSTRAINT fk_stock_logs_clothing
		FOREIGN KEY (clothing_id) REFERENCES clothing(id) ON DELETE CASCADE;
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE clothing_images ADD CONSTRAINT fk_clothing_images_clothing
		FOREIGN KEY (clothing_id) REFERENCES clothing(id) ON DELETE CASCADE;
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE cart_lines ADD CONSTRAINT fk_cart_lines_clothing
		FOREIGN KEY (clothing_id) REFERENCES clothing(id) ON DELETE CASCADE;
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
		`DO $$ BEGIN
	ALTER TABLE admin_sessions ADD CONSTRAINT fk_admin_sessions_admin
		FOREIGN KEY (admin_id) REFERENCES admins(id) ON DELETE CASCADE;
EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}

func applyTriggers(db *gorm.DB) error {
	if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN
	NEW.updated_at = now();
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`).Error; err != nil {
		return fmt.Errorf("create trigger function: %w", err)
	}

	for _, table := range []string{"clothing", "orders"} {
		stmt := fmt.Sprintf(`
DO $$ BEGIN
	CREATE TRIGGER trg_%[1]s_updated_at
		BEFORE UPDATE ON %[1]s
		FOR EACH ROW EXECUTE FUNCTION set_updated_at();
EXCEPTION WHEN duplicate_object THEN NULL; END $$`, table)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create trigger on %s: %w", table, err)
		}
	}
	return nil
}
