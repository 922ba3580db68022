// Package testdb поднимает in-memory sqlite со схемой календарного ядра
// для тестов репозиториев и сервисов. Схема написана руками в
// sqlite-совместимом виде: боевые модели используют postgres-типы.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE lawyers (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		contact_email TEXT,
		contact_phone TEXT,
		specialty TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE clients (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		contact_email TEXT,
		contact_phone TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE cases (
		id TEXT PRIMARY KEY,
		lawyer_id TEXT NOT NULL,
		client_id TEXT,
		title TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE recurring_series (
		id TEXT PRIMARY KEY,
		lawyer_id TEXT NOT NULL,
		frequency TEXT NOT NULL,
		"interval" INTEGER NOT NULL DEFAULT 1,
		days_of_week TEXT,
		end_date DATE,
		occurrences INTEGER,
		status TEXT NOT NULL DEFAULT 'active',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		lawyer_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		case_id TEXT,
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		location_kind TEXT NOT NULL,
		address TEXT,
		latitude REAL,
		longitude REAL,
		meeting_url TEXT,
		private_notes TEXT,
		shared_notes TEXT,
		series_id TEXT,
		reminder24h_sent BOOLEAN NOT NULL DEFAULT 0,
		reminder24h_sent_at DATETIME,
		reminder2h_sent BOOLEAN NOT NULL DEFAULT 0,
		reminder2h_sent_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		created_at DATETIME,
		appointment_id TEXT,
		series_id TEXT,
		details TEXT
	);`,
}

// Open возвращает готовую in-memory БД; закрывается вместе с тестом.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}
