// internal/config/config.go
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// prefiks zmiennych środowiskowych, np. REPOSICION_DATA_DIR
const EnvPrefix = "REPOSICION"

// Główny config aplikacji
type Config struct {
	DataDir        string `json:"data_dir" mapstructure:"data_dir"`               // CSV źródłowe, JSON pendiente, histórico
	SourceEncoding string `json:"source_encoding" mapstructure:"source_encoding"` // kodowanie eksportów (latin1)
	LogConsole     bool   `json:"log_console" mapstructure:"log_console"`
	LogLevel       string `json:"log_level" mapstructure:"log_level"`
	DBEnabled      bool   `json:"db_enabled" mapstructure:"db_enabled"` // rejestr importów w sqlite
	DBDriver       string `json:"db_driver" mapstructure:"db_driver"`   // sqlite (pure Go) | sqlite-cgo
	ExportDir      string `json:"export_dir,omitempty" mapstructure:"export_dir"`
	Role           string `json:"role" mapstructure:"role"` // supervisor | repositor | "" (obie)
}

// role konsoli
const (
	RoleSupervisor = "supervisor"
	RoleRepositor  = "repositor"
)

// Default zwraca konfigurację dla katalogu aplikacji.
func Default(appDir string) *Config {
	return &Config{
		DataDir:        filepath.Join(appDir, "data"),
		SourceEncoding: "latin1",
		LogConsole:     false,
		LogLevel:       "info",
		DBEnabled:      true,
		DBDriver:       "sqlite",
	}
}

// LoadOrCreate ładuje config z pliku lub tworzy domyślny.
// Zmienne REPOSICION_* nadpisują wartości z pliku.
func LoadOrCreate(path string) (*Config, bool, error) {
	// upewnij się, że katalog istnieje
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("error creando carpeta de config: %w", err)
	}

	def := Default(filepath.Dir(path))
	firstRun := false
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("error abriendo config: %w", err)
		}
		if err := Save(path, def); err != nil {
			return nil, false, fmt.Errorf("error guardando config por defecto: %w", err)
		}
		firstRun = true
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v, def)

	if err := v.ReadInConfig(); err != nil {
		return nil, false, fmt.Errorf("error leyendo config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, false, fmt.Errorf("error parseando config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.ExportDir = expandHome(cfg.ExportDir)
	if cfg.ExportDir == "" {
		cfg.ExportDir = cfg.DataDir
	}
	cfg.Role = strings.ToLower(strings.TrimSpace(cfg.Role))
	switch cfg.Role {
	case "", RoleSupervisor, RoleRepositor:
	default:
		return nil, false, fmt.Errorf("rol desconocido en config: %q", cfg.Role)
	}
	return &cfg, firstRun, nil
}

// bez defaultów viper nie zna kluczy i AutomaticEnv nie zadziała przy Unmarshal
func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("data_dir", def.DataDir)
	v.SetDefault("source_encoding", def.SourceEncoding)
	v.SetDefault("log_console", def.LogConsole)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("db_enabled", def.DBEnabled)
	v.SetDefault("db_driver", def.DBDriver)
	v.SetDefault("export_dir", def.ExportDir)
	v.SetDefault("role", def.Role)
}

// Save zapisuje config do pliku
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creando carpeta de config: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
