package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicadmin/internal/auth"
	"civicadmin/internal/communes"
	"civicadmin/internal/config"
	"civicadmin/internal/contributions"
	"civicadmin/internal/db"
	"civicadmin/internal/httpserver"
	"civicadmin/internal/logging"
)

func main() {
	ctx := context.Background()
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbConn, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()

	if err := db.RunMigrations(ctx, dbConn, cfg.SchemaPath); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	principalStore := auth.NewStore(dbConn)
	if err := principalStore.SeedFromFile(ctx, cfg.SeedPath); err != nil {
		log.Fatalf("seed principals: %v", err)
	}
	authSvc := auth.NewService(principalStore)
	codec := auth.NewCodec(cfg.SessionSecret)
	cookies := auth.NewCookies(codec, cfg.SessionTTL, cfg.CookieSecure)

	communeStore := communes.NewStore(dbConn)
	contributionStore := contributions.NewStore(dbConn)

	handler := httpserver.NewRouter(logger, authSvc, codec, cookies, communeStore, contributionStore)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
