// Copyright (c) 2026 dotandev
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/soroscope/internal/logger"
	"github.com/dotandev/soroscope/internal/server"
	"github.com/dotandev/soroscope/internal/shutdown"
	"github.com/dotandev/soroscope/internal/telemetry"
)

var serveTracing bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and admin JSON-RPC server",
	Long: `Start soroscope's HTTP surface (POST /analyze, GET /healthz, GET /providers,
GET /cache/stats) and its admin JSON-RPC mirror (POST /rpc).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		a, err := newApp()
		if err != nil {
			return err
		}
		logger.SetLevel(logger.ParseFilter(a.cfg.LogFilter))

		if serveTracing {
			cleanup, err := telemetry.Init(ctx, telemetry.Config{Enabled: true, ServiceName: "soroscope"})
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}
			defer cleanup()
		}

		a.providers.SpawnHealthChecker(ctx, a.cfg.HealthCheckInterval)

		srv := server.New(a.orchestrator, a.providers, a.cache, a.costModel, a.cfg.JWTSecret)
		httpServer := &http.Server{Addr: ":" + a.cfg.ServerPort, Handler: srv.Router()}

		sc := shutdown.NewCoordinator()
		sc.Register("health_checker", func(context.Context) error { cancel(); return nil })
		sc.Register("http_listener", func(shutdownCtx context.Context) error {
			return httpServer.Shutdown(shutdownCtx)
		})

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			color.Yellow("\nreceived interrupt signal, shutting down...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := sc.Run(shutdownCtx); err != nil {
				logger.Logger.Error("shutdown error", "error", err)
			}
		}()

		color.Green("soroscope listening on :%s", a.cfg.ServerPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveTracing, "tracing", false, "Enable OpenTelemetry tracing")
	rootCmd.AddCommand(serveCmd)
}
