package models

import "time"

// KVRecord is one persisted blob in the SQL-backed key/value store.
type KVRecord struct {
	Name      string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (KVRecord) TableName() string { return "kv_records" }
