// internal/db/models.go
package db

import "time"

// statusy source_files
const (
	StatusOK    = 1
	StatusError = 2
)

// source_files: ostatnie wczytanie każdego pliku źródłowego
type SourceFile struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	Path      string
	SHA256    string `gorm:"index"`
	SizeBytes int64
	Rows      int
	Status    int    `gorm:"index"` // 1=ok, 2=error
	LastError string `gorm:"type:text"`
	LoadedAt  time.Time
}

// kv
type KV struct {
	K string `gorm:"primaryKey"`
	V string
}

const KeyLastLoadAt = "last_load_at"
