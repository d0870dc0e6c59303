package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL applied at startup.  Statements are idempotent
// (CREATE TABLE IF NOT EXISTS) so every instance can run them on boot
// without coordination.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role ENUM('waiter','cashier','manager','admin','kitchen_staff') NOT NULL,
		is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		email_verification_token VARCHAR(64) NULL,
		email_verification_expires DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		category ENUM('Starters','Main Course','Drinks','Desserts','Other') NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		image_url VARCHAR(500) NOT NULL DEFAULT 'https://via.placeholder.com/300x200?text=Menu+Item',
		description VARCHAR(500) NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tables (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		table_number VARCHAR(20) NOT NULL,
		seats INT UNSIGNED NOT NULL DEFAULT 4,
		status ENUM('available','occupied','ordered') NOT NULL DEFAULT 'available',
		current_order_id BIGINT UNSIGNED NULL,
		UNIQUE KEY uq_tables_number (table_number)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		table_id BIGINT UNSIGNED NOT NULL,
		waiter_id BIGINT UNSIGNED NOT NULL,
		status ENUM('pending','preparing','ready','served','billed','paid') NOT NULL DEFAULT 'pending',
		total_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
		allergies TEXT NULL,
		notes VARCHAR(500) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_orders_table_status (table_id, status),
		CONSTRAINT fk_orders_table FOREIGN KEY (table_id) REFERENCES tables(id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT UNSIGNED NOT NULL,
		menu_item_id BIGINT UNSIGNED NULL,
		name VARCHAR(120) NOT NULL,
		qty INT UNSIGNED NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		KEY idx_order_items_order (order_id),
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`,
}

// ApplySchema creates the application's tables when they do not exist.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
