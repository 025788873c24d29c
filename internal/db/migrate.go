package db

import (
	"fmt"
)

// Migrate tworzy/aktualizuje schemat bazy.
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(
		&SourceFile{},
		&KV{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
