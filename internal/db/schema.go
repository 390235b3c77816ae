package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Index names referenced by the repositories when classifying duplicate-key errors.
const (
	IndexPassID        = "uniq_pass_id"
	IndexContact       = "uniq_applicant_contact"
	IndexUserEmail     = "uniq_user_email"
	IndexUserUsername  = "uniq_user_username"
	FKTicketsApplicant = "fk_tickets_applicant"
)

var schema = []struct {
	table string
	ddl   string
}{
	{"applicants", `
CREATE TABLE IF NOT EXISTS applicants (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	pass_id VARCHAR(32) NOT NULL,
	qr_code MEDIUMTEXT NOT NULL,
	name VARCHAR(255) NOT NULL DEFAULT '',
	father_name VARCHAR(255) NOT NULL DEFAULT '',
	dob VARCHAR(32) NOT NULL DEFAULT '',
	gender VARCHAR(32) NOT NULL DEFAULT '',
	age_years INT NOT NULL DEFAULT 0,
	age_months INT NOT NULL DEFAULT 0,
	age_days INT NOT NULL DEFAULT 0,
	phone VARCHAR(32) NOT NULL DEFAULT '',
	whatsapp VARCHAR(32) NOT NULL DEFAULT '',
	number VARCHAR(32) NOT NULL DEFAULT '',
	aadhar VARCHAR(32) NOT NULL DEFAULT '',
	photo VARCHAR(512) NOT NULL DEFAULT '',
	aadhar_file VARCHAR(512) NOT NULL DEFAULT '',
	address TEXT,
	district VARCHAR(128) NOT NULL DEFAULT '',
	mandal VARCHAR(128) NOT NULL DEFAULT '',
	village VARCHAR(128) NOT NULL DEFAULT '',
	pincode VARCHAR(16) NOT NULL DEFAULT '',
	city VARCHAR(128) NOT NULL DEFAULT '',
	pass_type VARCHAR(64) NOT NULL DEFAULT '',
	payment_mode VARCHAR(64) NOT NULL DEFAULT '',
	delivery_mode VARCHAR(64) NOT NULL DEFAULT '',
	counter VARCHAR(128) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE KEY ` + IndexPassID + ` (pass_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"applicant_contacts", `
CREATE TABLE IF NOT EXISTS applicant_contacts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	applicant_id BIGINT NOT NULL,
	contact VARCHAR(32) NOT NULL,
	UNIQUE KEY ` + IndexContact + ` (applicant_id, contact),
	KEY idx_contact (contact),
	CONSTRAINT fk_contacts_applicant FOREIGN KEY (applicant_id) REFERENCES applicants(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"tickets", `
CREATE TABLE IF NOT EXISTS tickets (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	applicant_id BIGINT NOT NULL,
	source VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	payment_type VARCHAR(16) NOT NULL,
	amount DECIMAL(12,2) NOT NULL DEFAULT 0,
	booked_at DATETIME NOT NULL,
	KEY idx_applicant (applicant_id),
	CONSTRAINT ` + FKTicketsApplicant + ` FOREIGN KEY (applicant_id) REFERENCES applicants(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	username VARCHAR(128) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(32) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(32) NOT NULL DEFAULT 'counter',
	status VARCHAR(32) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY ` + IndexUserEmail + ` (email),
	UNIQUE KEY ` + IndexUserUsername + ` (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, t := range schema {
		if HasTable(ctx, db, t.table) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.table, err)
		}
	}
	return nil
}
