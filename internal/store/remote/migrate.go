package remote

import (
	"context"
	"fmt"
	"log"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

// Models lists every table the hosted schema carries.
var Models = []interface{}{
	&model.User{},
	&model.Product{},
	&model.Wholesaler{},
	&model.Sale{},
	&model.StockAdjustment{},
	&model.AuditEntry{},
}

const (
	subjectExpr = "current_setting('request.jwt.claim.sub', true)"
	isAdminExpr = "EXISTS (SELECT 1 FROM users u WHERE u.id::text = " + subjectExpr + " AND u.role = 'admin')"
	signedIn    = "COALESCE(" + subjectExpr + ", '') <> ''"
)

type policy struct {
	table, name, command, using, check string
}

var policies = []policy{
	{"users", "users_select_own", "SELECT", "id::text = " + subjectExpr, ""},
	{"users", "users_insert_own", "INSERT", "", "id::text = " + subjectExpr},
	{"users", "users_update_own", "UPDATE", "id::text = " + subjectExpr, "id::text = " + subjectExpr},

	{"products", "products_read", "SELECT", signedIn, ""},
	{"products", "products_insert", "INSERT", "", signedIn},
	{"products", "products_update", "UPDATE", signedIn, signedIn},
	{"products", "products_delete_admin", "DELETE", isAdminExpr, ""},

	{"wholesalers", "wholesalers_read", "SELECT", signedIn, ""},
	{"wholesalers", "wholesalers_insert_admin", "INSERT", "", isAdminExpr},
	{"wholesalers", "wholesalers_update_admin", "UPDATE", isAdminExpr, isAdminExpr},
	{"wholesalers", "wholesalers_delete_admin", "DELETE", isAdminExpr, ""},

	{"sales", "sales_read", "SELECT", signedIn, ""},
	{"sales", "sales_insert", "INSERT", "", signedIn},

	{"stock_adjustments", "stock_adjustments_read", "SELECT", signedIn, ""},
	{"stock_adjustments", "stock_adjustments_insert", "INSERT", "", signedIn},

	{"audit_trail", "audit_trail_read_admin", "SELECT", isAdminExpr, ""},
	{"audit_trail", "audit_trail_insert", "INSERT", "", signedIn},
}

func (p policy) statements() []string {
	create := fmt.Sprintf("CREATE POLICY %s ON %s FOR %s", p.name, p.table, p.command)
	if p.using != "" {
		create += " USING (" + p.using + ")"
	}
	if p.check != "" {
		create += " WITH CHECK (" + p.check + ")"
	}
	return []string{
		fmt.Sprintf("DROP POLICY IF EXISTS %s ON %s", p.name, p.table),
		create,
	}
}

// Migrate creates or updates the hosted tables from the model definitions.
// With enableRLS on a Postgres connection it also (re)installs row-level
// security policies keyed on the session subject claim.
func Migrate(ctx context.Context, db *gorm.DB, enableRLS bool) error {
	if err := db.WithContext(ctx).AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate remote schema: %w", err)
	}
	if !enableRLS {
		return nil
	}
	if db.Dialector.Name() != "postgres" {
		log.Printf("[remote] row-level security skipped on %s", db.Dialector.Name())
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range Models {
			stmt := &gorm.Statement{DB: tx}
			if err := stmt.Parse(m); err != nil {
				return err
			}
			table := stmt.Schema.Table
			if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", table)).Error; err != nil {
				return fmt.Errorf("enable rls on %s: %w", table, err)
			}
			if err := tx.Exec(fmt.Sprintf("ALTER TABLE %s FORCE ROW LEVEL SECURITY", table)).Error; err != nil {
				return fmt.Errorf("force rls on %s: %w", table, err)
			}
		}
		for _, p := range policies {
			for _, sql := range p.statements() {
				if err := tx.Exec(sql).Error; err != nil {
					return fmt.Errorf("install policy %s: %w", p.name, err)
				}
			}
		}
		log.Printf("[remote] installed %d row-level security policies", len(policies))
		return nil
	})
}
