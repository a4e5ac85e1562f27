package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prati1/file-tree-render/api"
	"github.com/prati1/file-tree-render/cache"
	"github.com/prati1/file-tree-render/config"
	"github.com/prati1/file-tree-render/internal/util"
	"github.com/prati1/file-tree-render/store"
	"github.com/prati1/file-tree-render/treedef"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		nodesDef   string
		addr       string
		verbose    int
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (yaml or json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&nodesDef, "nodes", "", "Path to tree definition file applied on top of the seed tree")
	flag.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flag.StringVar(&addr, "addr", "", "Listen address, overrides config")
	flag.IntVar(&verbose, "verbose", 3, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", 3, "--verbose (shorthand)")
	flag.Parse()

	// Initialize logger
	if verbose < 1 {
		verbose = 1
	}
	if verbose > 5 {
		verbose = 5
	}
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	logLvl := logLvls[verbose-1]
	util.InitializeLogger(logLvl)
	logger := util.GetLogger("main")

	// Layer config: defaults, then file, then flags
	cfg := config.NewDefaultConfig()
	if configPath != "" {
		override, err := config.LoadOverrideFile(configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
		cfg.Merge(override)
	}
	cfg.Merge(&config.Override{LogLvl: &logLvl})
	if addr != "" {
		cfg.Merge(&config.Override{ListenAddr: &addr})
	}
	if nodesDef != "" {
		cfg.Merge(&config.Override{TreeDefPath: &nodesDef})
	}

	logger.Info().
		Str("addr", cfg.ListenAddr).
		Str("nodes", cfg.TreeDefPath).
		Bool("cache", cfg.CacheEnabled).
		Msg("File tree service initializing")

	st := store.New(store.WithEventBuffer(cfg.EventBuffer))

	// Apply extra nodes on top of the seed tree
	if cfg.TreeDefPath != "" {
		if err := treedef.LoadAndApply(st, cfg.TreeDefPath); err != nil {
			logger.Fatal().Err(err).Str("nodes", cfg.TreeDefPath).Msg("Failed to apply tree definition")
		}
	}

	var rc *cache.Cache
	if cfg.CacheEnabled {
		rc = cache.New(st)
		defer rc.Close()
	}

	srv := api.NewServer(cfg, st, rc)
	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Handler()}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()
	logger.Info().Str("addr", cfg.ListenAddr).Int("nodes", st.Len()).Msg("Serving file tree")

	// Wait for termination signal
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down cleanly")
	} else {
		logger.Info().Msg("Shutdown complete")
	}
}
