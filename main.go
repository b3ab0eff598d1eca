// ChessCore - chess rules engine and minimax AI served over HTTP and WebSocket
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/server"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to TOML config file (or $"+config.EnvConfigPath+")")
	addr       = flag.String("addr", "", "listen address, overrides server.addr")
	depth      = flag.Int("depth", 0, "AI search depth in plies, overrides engine settings")
	dataDir    = flag.String("data", "", "database directory, overrides storage.dir")
	inMemory   = flag.Bool("memory", false, "keep games in memory only")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *depth != 0 {
		cfg.Engine.Depth = *depth
	}
	if *dataDir != "" {
		cfg.Storage.Dir = *dataDir
	}
	if *inMemory {
		cfg.Storage.InMemory = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	store, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(store, server.Options{Depth: cfg.SearchDepth()})
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[SERVER] Listening on %s (depth %d)", cfg.Server.Addr, cfg.SearchDepth())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("[SERVER] Shutting down")
		srv.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[SERVER] %v", err)
	}
}

func openStorage(cfg config.StorageConfig) (*storage.Storage, error) {
	if cfg.InMemory {
		log.Printf("[STORAGE] Using in-memory database")
		return storage.OpenInMemory()
	}
	return storage.NewStorage(cfg.Dir)
}
