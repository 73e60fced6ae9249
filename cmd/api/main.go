package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"acervo.dev/internal/category"
	"acervo.dev/internal/config"
	"acervo.dev/internal/httpapi"
	"acervo.dev/internal/identity"
	"acervo.dev/internal/obs"
	"acervo.dev/internal/token"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Postgres when a DSN is set, in-memory stores otherwise. The
	// memory mode keeps local development free of infrastructure.
	var (
		db            *sql.DB
		userStore     identity.Store
		categoryStore category.Store
	)
	if cfg.DatabaseDSN != "" {
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		userStore = identity.NewPGStore(db)
		categoryStore = category.NewPGStore(db)
	} else {
		log.Print("ACERVO_PG_DSN not set, using in-memory stores")
		userStore = identity.NewMemory()
		categoryStore = category.NewMemory()
	}

	issuer, err := token.NewIssuer(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenAudience,
		token.WithTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	users := identity.NewService(userStore, issuer)
	categories := category.NewService(categoryStore)

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, users, categories, issuer)
	api.SetRateLimit(cfg.RateBurst, cfg.RatePerSec)
	api.SetMaxBodyBytes(cfg.MaxBodyBytes)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting acervo-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
