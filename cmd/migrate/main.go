// migrate aplica las migraciones goose embebidas en el binario.
//
// Uso: go run ./cmd/migrate -cmd up|down|status|version|validate [-version YYYYMMDDHHMMSS]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "comando: up|down|status|version|validate")
	version := flag.String("version", "", "versión destino (YYYYMMDDHHMMSS) para -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	// validate no necesita base de datos
	if *cmd == "validate" {
		if err := migrate.Validate(migrate.FS); err != nil {
			log.Fatal().Err(err).Msg("validación de migraciones")
		}
		log.Info().Msg("migraciones válidas")
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	db := migrate.OpenDB(pool)

	switch *cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, db, *cmd)
	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "falta -version para -cmd=version")
			os.Exit(1)
		}
		err = migrate.MigrateToVersion(ctx, db, *version)
	default:
		fmt.Fprintln(os.Stderr, "valor de -cmd desconocido:", *cmd)
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", *cmd).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("cmd", *cmd).Msg("migración completada")
}
