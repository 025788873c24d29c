//go:build !windows || dev

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bartek5186/reposicion/internal/console"
)

func main() {
	a, err := setup(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// pierwsze ładowanie od razu, żeby błędy plików były widoczne na starcie
	if _, err := a.loader.Load(); err != nil {
		fmt.Println("Atención:", err)
		fmt.Println("Corrija los archivos en", a.cfg.DataDir, "y use 'recargar'.")
	}

	fmt.Println("Reposición CLI", ver)
	fmt.Println("Escriba 'ayuda' para ver los comandos.")

	s := console.New(a.consoleDeps(), os.Stdout)
	done := make(chan error, 1)
	go func() { done <- s.Run(os.Stdin) }()

	select {
	case err := <-done:
		if err != nil {
			a.log.Error().Err(err).Msg("error leyendo comandos")
		}
	case <-ctx.Done():
		fmt.Println()
	}
	a.log.Info().Msg("Aplikacja (CLI) zamknięta")
}
