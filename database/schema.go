package database

// Startup schema bootstrap. Statements are idempotent so the service can be
// pointed at an empty database in development.

var schemaStatements = []string{
	`DO $$ BEGIN
		CREATE TYPE user_role AS ENUM ('customer', 'admin', 'driver');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
		CREATE TYPE order_status AS ENUM ('pending', 'confirmed', 'preparing', 'out_for_delivery', 'delivered', 'cancelled');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
		CREATE TYPE product_category AS ENUM ('flower', 'edibles', 'vapes', 'concentrates', 'prerolls', 'accessories', 'topicals');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
		CREATE TYPE strain_type AS ENUM ('indica', 'sativa', 'hybrid');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT,
		phone TEXT,
		role user_role NOT NULL DEFAULT 'customer',
		age_verified BOOLEAN NOT NULL DEFAULT FALSE,
		loyalty_points INT NOT NULL DEFAULT 0,
		notification_email BOOLEAN NOT NULL DEFAULT TRUE,
		notification_sms BOOLEAN NOT NULL DEFAULT TRUE,
		marketing_emails BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		category product_category NOT NULL,
		strain_type strain_type,
		thc_potency DOUBLE PRECISION,
		cbd_potency DOUBLE PRECISION,
		price DOUBLE PRECISION NOT NULL,
		compare_at_price DOUBLE PRECISION,
		stock INT NOT NULL DEFAULT 0,
		batch_lot TEXT,
		images JSONB NOT NULL DEFAULT '[]',
		weight_grams DOUBLE PRECISION,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_featured BOOLEAN NOT NULL DEFAULT FALSE,
		tags JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES profiles(id),
		status order_status NOT NULL DEFAULT 'pending',
		subtotal DOUBLE PRECISION NOT NULL,
		tax DOUBLE PRECISION NOT NULL,
		delivery_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
		tip DOUBLE PRECISION NOT NULL DEFAULT 0,
		discount DOUBLE PRECISION NOT NULL DEFAULT 0,
		total DOUBLE PRECISION NOT NULL,
		delivery_address JSONB NOT NULL,
		delivery_slot TIMESTAMPTZ NOT NULL,
		delivery_instructions TEXT,
		promo_code TEXT,
		driver_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		product_id UUID NOT NULL REFERENCES products(id),
		quantity INT NOT NULL,
		price_at_purchase DOUBLE PRECISION NOT NULL,
		product_title TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES profiles(id),
		product_id UUID NOT NULL REFERENCES products(id),
		quantity INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, product_id)
	)`,

	`CREATE TABLE IF NOT EXISTS saved_addresses (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES profiles(id),
		label TEXT NOT NULL,
		street TEXT NOT NULL,
		apt TEXT,
		city TEXT NOT NULL,
		state TEXT NOT NULL DEFAULT 'MN',
		zip TEXT NOT NULL,
		delivery_instructions TEXT,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id UUID PRIMARY KEY,
		phone TEXT UNIQUE NOT NULL,
		email TEXT,
		source TEXT NOT NULL DEFAULT 'website',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS promo_codes (
		id UUID PRIMARY KEY,
		code TEXT UNIQUE NOT NULL,
		discount_type TEXT NOT NULL,
		discount_value DOUBLE PRECISION NOT NULL,
		min_order_amount DOUBLE PRECISION,
		max_uses INT,
		current_uses INT NOT NULL DEFAULT 0,
		expires_at TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS delivery_zones (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		suburbs JSONB NOT NULL DEFAULT '[]',
		delivery_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
		min_order DOUBLE PRECISION NOT NULL DEFAULT 0,
		estimated_minutes INT NOT NULL DEFAULT 60,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
}

// Migrate applies the bootstrap schema.
func Migrate() error {
	for _, stmt := range schemaStatements {
		if _, err := DB.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
