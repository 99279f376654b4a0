package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"carz/pkg/dropzone"
	"carz/pkg/search"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "carz",
		Short:        "carz.ai web front-end",
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the home page and search widget",
		RunE:  runServe,
	})
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Run images dropped into a directory through the image search intake",
		RunE:  runWatch,
	}
	watch.Flags().String("dir", "", "drop zone directory (default CARZ_DROP_DIR)")
	watch.Flags().Bool("existing", false, "also offer files already in the directory")
	root.AddCommand(watch)
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level := parseLevel(cfg.LogLevel)
	logger := newLogger(level)
	slog.SetDefault(logger)
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	store := newSessionStore(cfg.SessionTTL, func(nav search.Navigator, n search.Notifier) *search.Widget {
		return search.New(nav, n, search.WithLogger(logger), search.WithDecodeTimeout(cfg.DecodeTimeout))
	}, logger)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(store, []byte(cfg.JWTSecret), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error { return store.run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(parseLevel(cfg.LogLevel))
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.DropDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create drop dir %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := search.NotifierFunc(func(n search.Notification) {
		logger.Log(ctx, notificationLevel(n.Level), n.Message, "notice", n.Level)
	})
	w := search.New(nil, notifier, search.WithLogger(logger), search.WithDecodeTimeout(cfg.DecodeTimeout))
	defer w.Close()
	w.ToggleMode()

	offer := func(c search.Candidate) {
		w.AcceptFile(c)
		w.Wait()
		snap := w.Snapshot()
		logger.Info("drop zone", "file", snap.FileName, "status", snap.Status, "type", snap.MediaType)
	}

	if existing, _ := cmd.Flags().GetBool("existing"); existing {
		names, err := dropzone.Scan(dir)
		if err != nil {
			return fmt.Errorf("scan %s: %w", dir, err)
		}
		logger.Info("offering existing files", "count", len(names))
		for _, name := range names {
			c, err := dropzone.Load(filepath.Join(dir, name))
			if err != nil {
				logger.Warn("read file", "file", name, "err", err)
				continue
			}
			offer(c)
		}
	}
	return dropzone.New(dir, logger).Run(ctx, offer)
}
