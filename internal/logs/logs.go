package logs

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DirName = "logs"

// Path zwraca dzienny plik logów: <dir>/logs/YYYY-MM-DD.log
func Path(dir string, now time.Time) string {
	return filepath.Join(dir, DirName, now.Format("2006-01-02")+".log")
}

// New otwiera dzienny plik logów (append) i ustawia globalny logger.
// Zwrócony io.Closer zamyka plik.
func New(dir string, withConsole bool, level string) (zerolog.Logger, io.Closer, error) {
	path := Path(dir, time.Now())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}
	logFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var writer io.Writer = logFile
	if withConsole {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
		writer = zerolog.MultiLevelWriter(logFile, consoleWriter)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(writer).Level(lvl).With().
		Timestamp().
		Caller().
		Logger()

	log.Logger = logger

	return logger, logFile, nil
}
