package db

import (
	"fmt"
	"path/filepath"

	gsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const FileName = "reposicion.db"

// sterowniki z configu (db_driver)
const (
	DriverSQLite    = "sqlite"     // pure Go, bez cgo
	DriverSQLiteCgo = "sqlite-cgo" // mattn/go-sqlite3
)

type Handle struct {
	DB   *gorm.DB
	Path string
}

// OpenAt otwiera (lub tworzy) bazę w katalogu dir.
func OpenAt(dir, driver string) (*Handle, error) {
	dbPath := filepath.Join(dir, FileName)
	dial, err := dialector(driver, dbPath)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &Handle{DB: gdb, Path: dbPath}, nil
}

func dialector(driver, path string) (gorm.Dialector, error) {
	switch driver {
	case "", DriverSQLite:
		return gsqlite.Open(path), nil
	case DriverSQLiteCgo:
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("driver de base de datos desconocido: %q", driver)
	}
}

func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
