package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prospera-financas/backend/internal/models"
	"github.com/prospera-financas/backend/internal/recurrence"
	"github.com/prospera-financas/backend/internal/router"
	"github.com/prospera-financas/backend/internal/scheduler"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	dbFile, ok := os.LookupEnv("DB_FILE")
	if !ok {
		dataDir := filepath.Join(".", "data")
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			log.Fatal().Msg(err.Error())
		}
		dbFile = filepath.Join(dataDir, "gorm.db")
	}

	if err := models.Connect(dbFile); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// The sweep interval is configurable mostly for development, the
	// default of one minute is fine for production use
	interval := scheduler.DefaultInterval
	if raw, ok := os.LookupEnv("SWEEP_INTERVAL"); ok {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Str("SWEEP_INTERVAL", raw).Msg(err.Error())
		}
		interval = parsed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := recurrence.NewEngine(models.DB)
	go scheduler.New(engine, interval).Run(ctx)

	r, err := router.Router()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
