package main

import (
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/payee-classifier/internal/certs"
	"github.com/Veraticus/payee-classifier/internal/export"
	"github.com/Veraticus/payee-classifier/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classification HTTP API",
		Long: `Serve the classification pipeline over HTTP.

Endpoints:
  POST   /api/classify              classify one name
  POST   /api/batch                 classify a list of names or rows
  POST   /api/export                classify and download CSV or XLSX
  GET    /api/classifications       stored results
  GET    /api/keywords              custom keywords
  POST   /api/keywords              add a keyword
  DELETE /api/keywords/{keyword}    remove a keyword`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from config)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	var tlsConfig *tls.Config
	if a.cfg.Server.TLS {
		manager := certs.NewFileManager(a.cfg.Server.CertDir, a.cfg.Server.TLSHosts...)
		tlsConfig, err = manager.TLSConfig()
		if err != nil {
			return fmt.Errorf("failed to load TLS certificate: %w", err)
		}
		a.logger.Info("Serving HTTPS", "certificate", manager.CertFile())
	}

	srv, err := server.New(server.Config{
		Classifier: a.engine,
		Batch:      a.batchProcessor(true),
		Exporter:   export.New(a.store, a.logger),
		Store:      a.store,
		Keywords:   a.keywords,
		Logger:     a.logger,
		Addr:       a.cfg.Server.Addr,
		APIKey:     a.cfg.Server.APIKey,
		TLS:        tlsConfig,
	})
	if err != nil {
		return err
	}

	if a.cfg.Server.APIKey == "" {
		a.logger.Warn("Serving without an API key", "addr", a.cfg.Server.Addr)
	}

	return srv.Run(ctx)
}
