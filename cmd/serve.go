package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/cropinsights/internal/dataset"
	"github.com/KaramelBytes/cropinsights/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve the dataset views over HTTP",
	Long: `Starts the HTTP API. Upload a dataset with POST /api/dataset (multipart
field "file"), or pass a file to preload it. Each upload replaces the whole
record collection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		if !debug {
			gin.SetMode(gin.ReleaseMode)
		}

		store := dataset.NewStore()
		if len(args) == 1 {
			tbl, err := loadTable(args[0])
			if err != nil {
				return err
			}
			snap := store.Replace(tbl.Name, tbl.Rows)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %s (%d records)\n", snap.Source, snap.Len())
		}

		srv := &http.Server{
			Addr: addr,
			Handler: server.New(store, logger, server.Config{
				MaxUploadMB:       c.MaxUploadMB,
				DefaultSheetIndex: c.DefaultSheetIndex,
				ChartWidthIn:      c.ChartWidthIn,
				ChartHeightIn:     c.ChartHeightIn,
			}).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("listening", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		})
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s (Ctrl+C to stop)\n", addr)
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addInputFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server_addr)")
}
