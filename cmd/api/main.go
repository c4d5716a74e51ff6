package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"finbook.org/internal/auth"
	"finbook.org/internal/finance"
	"finbook.org/internal/httpapi"
	"finbook.org/internal/member"
	"finbook.org/internal/obs"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	secret := os.Getenv("FINBOOK_AUTH_SECRET")
	if secret == "" {
		log.Fatal("missing FINBOOK_AUTH_SECRET")
	}

	issuer, err := auth.NewIssuer(secret,
		auth.WithAccessTTL(envDuration("FINBOOK_ACCESS_TTL", 15*time.Minute)),
		auth.WithRefreshTTL(envDuration("FINBOOK_REFRESH_TTL", 14*24*time.Hour)),
	)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	// Postgres when a DSN is set, otherwise in-memory stores. The in-memory
	// mode is for local development; it loses all state on restart.
	var (
		db       *sql.DB
		members  member.Store
		finances finance.Store
	)
	if dsn := os.Getenv("FINBOOK_PG_DSN"); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		members = member.NewPGStore(db)
		finances = finance.NewPGStore(db)
	} else {
		log.Print("FINBOOK_PG_DSN not set, using in-memory stores")
		members = member.NewInMemory()
		finances = finance.NewInMemory()
	}

	authSvc, err := auth.NewService(members, issuer)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	sessions := httpapi.NewSessions(issuer, envBool("FINBOOK_COOKIE_SECURE", false))

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, sessions, finances,
		httpapi.WithRateLimit(
			envInt("FINBOOK_RATE_PER_SEC", 10),
			envInt("FINBOOK_RATE_BURST", 20),
		),
	)

	addr := os.Getenv("FINBOOK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting finbook-api %s on %s", version, srv.Addr)

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

func envDuration(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Fatalf("%s: invalid duration %q", name, raw)
	}
	return d
}

func envInt(name string, def int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Fatalf("%s: invalid integer %q", name, raw)
	}
	return n
}

func envBool(name string, def bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Fatalf("%s: invalid boolean %q", name, raw)
	}
	return b
}
