package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"google.golang.org/grpc"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/httpapi"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/identity"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/obs"
	"github.com/Hammadtanveer/campus-connect-sub000/internal/store/pg"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	var db *sql.DB
	if dsn := os.Getenv("CAMPUS_PG_DSN"); dsn != "" {
		var err error
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	var engineOpts []access.Option
	if raw := os.Getenv("CAMPUS_LEGACY_ADMIN_ROLES"); raw != "" {
		engineOpts = append(engineOpts, access.WithLegacyAdminRoles(strings.Split(raw, ",")))
	}
	engine := access.NewEngine(engineOpts...)
	catalog := access.NewCatalog()

	var verifier *identity.Verifier
	if secret := os.Getenv("CAMPUS_AUTH_SECRET"); secret != "" {
		var opts []identity.VerifierOption
		if issuer := os.Getenv("CAMPUS_AUTH_ISSUER"); issuer != "" {
			opts = append(opts, identity.WithIssuer(issuer))
		}
		var err error
		verifier, err = identity.NewVerifier(secret, opts...)
		if err != nil {
			log.Fatalf("verifier: %v", err)
		}
	} else {
		log.Println("CAMPUS_AUTH_SECRET not set; running without authentication")
	}

	var profiles access.ProfileStore
	if db != nil {
		profiles = pg.New(db)
	}

	ready := httpapi.ReadyProbe{DB: db}
	api := httpapi.New(httpapi.Config{
		Engine:   engine,
		Catalog:  catalog,
		Profiles: profiles,
		Verifier: verifier,
		Ready:    ready,
		Version:  version,
	})

	srv := &http.Server{
		Addr:              listenAddr(),
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var grpcSrv *grpc.Server
	if addr := os.Getenv("CAMPUS_GRPC_ADDR"); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		grpcSrv = grpc.NewServer()
		httpapi.NewGRPCServer(ready).Register(grpcSrv)
		go func() {
			log.Printf("Starting gRPC health endpoint on %s", addr)
			if err := grpcSrv.Serve(lis); err != nil {
				log.Fatalf("grpc serve: %v", err)
			}
		}()
	}

	log.Printf("Starting campus-connect-api %s on %s", version, srv.Addr)

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
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

func listenAddr() string {
	if addr := os.Getenv("CAMPUS_HTTP_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}
