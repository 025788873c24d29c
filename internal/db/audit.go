package db

import (
	"errors"
	"time"

	"github.com/bartek5186/reposicion/internal/dataset"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Registry zapisuje w bazie, które pliki źródłowe i kiedy zostały wczytane.
// Spełnia dataset.Auditor.
type Registry struct {
	db  *gorm.DB
	now func() time.Time
}

var _ dataset.Auditor = (*Registry)(nil)

func NewRegistry(h *Handle) *Registry {
	return &Registry{db: h.DB, now: time.Now}
}

func (r *Registry) SourceLoaded(f dataset.SourceFile) error {
	now := r.now()
	rec := SourceFile{
		Name:      f.Name,
		Path:      f.Path,
		SHA256:    f.SHA256,
		SizeBytes: f.Size,
		Rows:      f.Rows,
		Status:    StatusOK,
		LoadedAt:  now,
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertSource(tx, &rec); err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "k"}},
			DoUpdates: clause.AssignmentColumns([]string{"v"}),
		}).Create(&KV{K: KeyLastLoadAt, V: now.UTC().Format(time.RFC3339)}).Error
	})
}

// SourceFailed nadpisuje status pliku; hash i liczba wierszy zostają z ostatniego udanego wczytania.
func (r *Registry) SourceFailed(name, path string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	var existing SourceFile
	err := r.db.Where("name = ?", name).Take(&existing).Error
	switch {
	case err == nil:
		return r.db.Model(&SourceFile{}).Where("id = ?", existing.ID).
			Updates(map[string]any{"path": path, "status": StatusError, "last_error": msg}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.Create(&SourceFile{
			Name: name, Path: path, Status: StatusError, LastError: msg, LoadedAt: r.now(),
		}).Error
	default:
		return err
	}
}

func upsertSource(tx *gorm.DB, rec *SourceFile) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"path", "sha256", "size_bytes", "rows", "status", "last_error", "loaded_at",
		}),
	}).Create(rec).Error
}

// Sources zwraca stan wszystkich plików, alfabetycznie.
func (r *Registry) Sources() ([]SourceFile, error) {
	var out []SourceFile
	err := r.db.Order("name").Find(&out).Error
	return out, err
}

// LastLoad: moment ostatniego udanego wczytania pliku; ok=false gdy nigdy.
func (r *Registry) LastLoad() (time.Time, bool, error) {
	var kv KV
	err := r.db.Where("k = ?", KeyLastLoadAt).Take(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, kv.V)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
