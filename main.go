//go:build windows && !dev

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/bartek5186/reposicion/internal/export"
	"github.com/getlantern/systray"
)

func main() {
	a, err := setup(false)
	if err != nil {
		panic(err)
	}
	defer a.Close()
	log := a.log

	systray.Run(func() {
		systray.SetTitle("Reposición")
		systray.SetTooltip(fmt.Sprintf("Reposición %s", ver))

		mStatus := systray.AddMenuItem("", "")
		mStatus.Disable()
		systray.AddSeparator()
		mReload := systray.AddMenuItem("Recargar datos", "Volver a leer los CSV")
		mXLSX := systray.AddMenuItem("Exportar pendiente (Excel)", "Reposición pendiente a .xlsx")
		mPDF := systray.AddMenuItem("Exportar pendiente (PDF)", "Hoja de picking para imprimir")
		systray.AddSeparator()
		mData := systray.AddMenuItem("Abrir carpeta de datos", "")
		mHist := systray.AddMenuItem("Abrir histórico", "historico_reposiciones.csv")
		mLogs := systray.AddMenuItem("Abrir logs", "")
		mCfg := systray.AddMenuItem("Ajustes (config.json)", "Abrir archivo de configuración")
		systray.AddSeparator()
		mAbout := systray.AddMenuItem(fmt.Sprintf("Acerca de (%s)", ver), "")
		mQuit := systray.AddMenuItem("Salir", "Cerrar la aplicación")

		refresh := func() {
			status := "Sin reposición pendiente"
			if items, err := a.pending.Load(); err == nil {
				status = fmt.Sprintf("Pendiente: %d productos", len(items))
			}
			mStatus.SetTitle(status)
			if a.pending.Exists() {
				mXLSX.Enable()
				mPDF.Enable()
			} else {
				mXLSX.Disable()
				mPDF.Disable()
			}
		}

		if _, err := a.loader.Load(); err != nil {
			systray.SetTooltip(fmt.Sprintf("Reposición %s - error de datos", ver))
		}
		refresh()

		exportTo := func(format string) {
			items, err := a.pending.Load()
			if err != nil {
				log.Error().Err(err).Msg("exportación sin reposición pendiente")
				return
			}
			e, _ := export.Get(format)
			now := time.Now()
			path := filepath.Join(a.cfg.ExportDir, export.FileName(now, e.Ext()))
			err = export.WriteFile(format, path, export.Sheet{Title: "Reposición pendiente", GeneratedAt: now, Items: items})
			if err != nil {
				log.Error().Err(err).Msg("error exportando")
				return
			}
			log.Info().Str("archivo", path).Msg("exportación creada")
			openInExplorer(path)
		}

		go func() {
			for {
				select {
				case <-mReload.ClickedCh:
					if v, err := a.loader.Reload(); err != nil {
						systray.SetTooltip(fmt.Sprintf("Reposición %s - error de datos", ver))
					} else {
						systray.SetTooltip(fmt.Sprintf("Reposición %s - %d productos", ver, len(v.Stock)))
					}
					refresh()

				case <-mXLSX.ClickedCh:
					exportTo("xlsx")

				case <-mPDF.ClickedCh:
					exportTo("pdf")

				case <-mData.ClickedCh:
					refresh()
					openInExplorer(a.cfg.DataDir)

				case <-mHist.ClickedCh:
					if _, err := os.Stat(a.history.Path()); err == nil {
						openInExplorer(a.history.Path())
					}

				case <-mLogs.ClickedCh:
					openInExplorer(a.logPath())

				case <-mCfg.ClickedCh:
					openInExplorer(a.cfgPath)

				case <-mAbout.ClickedCh:
					log.Info().Msgf("Reposición %s | %s", ver, runtime.Version())

				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				}
			}
		}()
	}, func() {
		// onExit: daj chwilę loggerowi na flush
		time.Sleep(50 * time.Millisecond)
	})
}

// przenośne otwieranie plików/katalogów w domyślnej aplikacji
func openInExplorer(path string) {
	switch runtime.GOOS {
	case "windows":
		// "start" musi być uruchomiony przez cmd /C, z pustym tytułem okna ""
		_ = exec.Command("cmd", "/C", "start", "", path).Start()
	case "darwin":
		_ = exec.Command("open", path).Start()
	default:
		_ = exec.Command("xdg-open", path).Start()
	}
}
