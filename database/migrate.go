package database

import (
	"fmt"

	"harborbill-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/association tables)
// - Money column types (NUMERIC(32,2))
// - Helpful indexes
// - Basic CHECK constraints on quantities and amounts
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Contact{},
			&models.Client{},
			&models.Vessel{},
			&models.Task{},
			&models.Job{},
			&models.SKU{},
			&models.Invoice{},
			&models.LineItem{},
			&models.Credit{},
			&models.Attachment{},
			&models.FormTemplate{},
			&models.RenderedForm{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(32,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE skus       ALTER COLUMN default_quantity TYPE numeric(32,2)`,
			`ALTER TABLE skus       ALTER COLUMN default_price    TYPE numeric(32,2)`,
			`ALTER TABLE invoices   ALTER COLUMN initial_balance  TYPE numeric(32,2)`,
			`ALTER TABLE invoices   ALTER COLUMN paid_balance     TYPE numeric(32,2)`,
			`ALTER TABLE line_items ALTER COLUMN quantity         TYPE numeric(32,2)`,
			`ALTER TABLE line_items ALTER COLUMN price            TYPE numeric(32,2)`,
			`ALTER TABLE line_items ALTER COLUMN subtotal         TYPE numeric(32,2)`,
			`ALTER TABLE credits    ALTER COLUMN amount           TYPE numeric(32,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_line_items_invoice ON line_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_credits_invoice ON credits (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_attachments_owner ON attachments (owner_kind, owner_uid)`,
			`CREATE INDEX IF NOT EXISTS idx_vessels_client ON vessels (client_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_client ON invoices (client_id)`,
			`CREATE INDEX IF NOT EXISTS idx_skus_metadata_type ON skus ((metadata->>'type'))`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Line item quantity >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'line_items'::regclass
					  AND conname  = 'chk_line_items_quantity_nonneg'
				) THEN
					ALTER TABLE line_items
					ADD CONSTRAINT chk_line_items_quantity_nonneg
					CHECK (quantity >= 0);
				END IF;
			END $$;`,
			// Credit amount >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'credits'::regclass
					  AND conname  = 'chk_credits_amount_nonneg'
				) THEN
					ALTER TABLE credits
					ADD CONSTRAINT chk_credits_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
			// SKU defaults >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'skus'::regclass
					  AND conname  = 'chk_skus_default_price_nonneg'
				) THEN
					ALTER TABLE skus
					ADD CONSTRAINT chk_skus_default_price_nonneg
					CHECK (default_price >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
