package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	httpAdapter "github.com/aretw0/canopy/internal/adapters/http"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/observability"
	"github.com/aretw0/canopy/internal/runtime"
	loamAdapter "github.com/aretw0/canopy/pkg/adapters/loam"
	redisAdapter "github.com/aretw0/canopy/pkg/adapters/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the studio HTTP server",
	Long: `Starts the Canopy studio server, exposing the workflow document, the
compiled graph, personas, and a live update stream over HTTP.

The document is stored in a Loam repository under --dir by default. Pass
--redis to store it in Redis instead (shared between replicas).`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		verbose, _ := cmd.Flags().GetBool("verbose")

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := logging.New(level)
		metrics := observability.New()

		studioOpts := []runtime.Option{
			runtime.WithLogger(logger),
			runtime.WithMetrics(metrics),
		}

		if redisAddr != "" {
			client := goredis.NewClient(&goredis.Options{Addr: redisAddr})
			if err := client.Ping(cmd.Context()).Err(); err != nil {
				fmt.Printf("Error connecting to redis at %s: %v\n", redisAddr, err)
				os.Exit(1)
			}
			studioOpts = append(studioOpts,
				runtime.WithDocumentStore(redisAdapter.NewDocumentStore(client)),
				runtime.WithPersonaStore(redisAdapter.NewPersonaStore(client)),
			)
		} else {
			store, err := loamAdapter.Open(dir)
			if err != nil {
				fmt.Printf("Error initializing document store: %v\n", err)
				os.Exit(1)
			}
			studioOpts = append(studioOpts, runtime.WithDocumentStore(store))
		}

		studio := runtime.New(studioOpts...)

		// Recompile when the backing store changes externally (file edits).
		watchCtx, stopWatch := context.WithCancel(cmd.Context())
		defer stopWatch()
		go func() {
			if err := studio.WatchStore(watchCtx); err != nil && watchCtx.Err() == nil {
				logger.Warn("store watch stopped", "err", err)
			}
		}()

		handler := httpAdapter.NewServer(studio,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetrics(metrics),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Canopy Studio on %s\n", srv.Addr)
			if redisAddr != "" {
				fmt.Printf("Document store: redis (%s)\n", redisAddr)
			} else {
				fmt.Printf("Document store: %s\n", dir)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Canopy Studio stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address (host:port); uses Redis for storage when set")
	serveCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")
}
