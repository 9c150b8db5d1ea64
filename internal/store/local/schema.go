package local

// Timestamp columns are declared DATETIME so the sqlite3 driver hands them back
// as time.Time. Values are always written in UTC.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'staff')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		packaging TEXT NOT NULL,
		price REAL NOT NULL CHECK (price >= 0),
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		low_stock_threshold INTEGER NOT NULL DEFAULT 10 CHECK (low_stock_threshold >= 0),
		expiry_date DATETIME,
		image TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_by TEXT REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS wholesalers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		products TEXT NOT NULL DEFAULT '[]',
		expected_delivery DATETIME,
		capital_spent REAL NOT NULL DEFAULT 0 CHECK (capital_spent >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_by TEXT REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		items TEXT NOT NULL DEFAULT '[]',
		subtotal REAL NOT NULL CHECK (subtotal >= 0),
		discount REAL NOT NULL DEFAULT 0 CHECK (discount >= 0 AND discount <= 100),
		discount_amount REAL NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
		total REAL NOT NULL CHECK (total >= 0),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		user_name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_adjustments (
		id TEXT PRIMARY KEY,
		product_id TEXT REFERENCES products(id) ON DELETE CASCADE,
		product_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		reason TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_by TEXT REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_trail (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		user_name TEXT NOT NULL,
		user_role TEXT NOT NULL,
		action TEXT NOT NULL CHECK (action IN ('login', 'sale', 'inventory_add', 'inventory_edit', 'stock_adjustment')),
		details TEXT NOT NULL DEFAULT '{}',
		ip_address TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	`CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_user_id ON sales(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_adjustments_product_id ON stock_adjustments(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_adjustments_created_at ON stock_adjustments(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_trail_timestamp ON audit_trail(timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_trail_user_id ON audit_trail(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_trail_action ON audit_trail(action)`,
}

// Tables lists the six tables created on open, in dependency order.
var Tables = []string{"users", "products", "wholesalers", "sales", "stock_adjustments", "audit_trail"}
