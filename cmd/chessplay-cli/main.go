package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/console"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configPath = flag.String("config", "", "path to TOML config file (or $"+config.EnvConfigPath+")")
	level      = flag.String("level", "", "difficulty: easy, medium or hard")
	auto       = flag.Bool("auto", true, "engine replies after each move")
	noStore    = flag.Bool("nostore", false, "disable save and load")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		log.Fatal(err)
	}
	if *level != "" {
		cfg.Engine.Difficulty = *level
		cfg.Engine.Depth = 0
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	eng := engine.NewEngine()
	if err := eng.SetDepth(cfg.SearchDepth()); err != nil {
		log.Fatal(err)
	}

	var store *storage.Storage
	if !*noStore {
		store, err = openStorage(cfg.Storage)
		if err != nil {
			log.Printf("Warning: storage not available: %v (save and load disabled)", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	c := console.New(eng, store)
	c.SetAutoReply(*auto)
	if err := c.Run(os.Stdin, os.Stdout); err != nil {
		log.Printf("console: %v", err)
	}
}

func openStorage(cfg config.StorageConfig) (*storage.Storage, error) {
	if cfg.InMemory {
		return storage.OpenInMemory()
	}
	return storage.NewStorage(cfg.Dir)
}
