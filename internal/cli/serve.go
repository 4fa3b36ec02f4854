// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alvinbaena/cybershield/internal/advisor"
	"github.com/alvinbaena/cybershield/internal/api"
	"github.com/alvinbaena/cybershield/internal/auth"
	"github.com/alvinbaena/cybershield/internal/store"
	"github.com/alvinbaena/cybershield/internal/urlscan"
	"github.com/alvinbaena/cybershield/internal/util"
	"github.com/alvinbaena/cybershield/internal/verify"
	"github.com/alvinbaena/cybershield/pkg/hibp"
	"github.com/gin-gonic/gin"
	"github.com/likexian/selfca"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const tokenClockSkew = 30 * time.Second

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the CyberShield API",
		Long: "Serve the CyberShield API. Configuration is read from the environment (and the --env-file), " +
			"the flags of this command take precedence",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCommand(cmd)
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional file with environment variables to load before reading the configuration")
	serveCmd.Flags().BoolVar(&selfTLS, "self-tls", false,
		"If the server should use a self-signed certificate when starting. The certificate is renewed on each server restart")
	serveCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to the PEM encoded TLS certificate to be used by the server")
	serveCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to the PEM encoded TLS private key to be used by the server")
	serveCmd.Flags().Uint16VarP(&port, "port", "p", 3100, "Port to be used by the server")

	rootCmd.AddCommand(serveCmd)
}

func serveCommand(cmd *cobra.Command) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := api.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if !verbose && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	source, err := newBreachSource(cfg)
	if err != nil {
		return fmt.Errorf("error initializing breach source: %w", err)
	}
	if closer, ok := source.(*hibp.CachedSource); ok {
		defer closer.Close()
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer func(db *store.PostgresStore) {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}(db)

	if err = db.InitSchema(ctx); err != nil {
		return fmt.Errorf("error initializing database schema: %w", err)
	}

	services := newServices(cfg, source, db)

	srvAddr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    srvAddr,
		Handler: api.NewRouter(services),
	}

	go func() {
		log.Info().Msgf("starting TLS Server on address: %s", srvAddr)
		if cfg.TLSCert != "" && cfg.TLSKey != "" {
			// service connections with tls certs
			if err := srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("error starting server")
			}
		} else if cfg.SelfTLS {
			log.Warn().Msgf("using auto self-signed certificate for TLS. This is not recommended for production. Please consider using your own certificates.")
			tlsConfig, err := selfSignedTLS(time.Now())
			if err != nil {
				log.Fatal().Err(err).Msg("error generating auto self-signed certificate")
			}

			srv.TLSConfig = tlsConfig
			// service connections with tls config, no need to pass files
			if err = srv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("error starting server")
			}
		} else {
			log.Fatal().Msg("server requires TLS configuration to start. " +
				"Please use either the --self-tls flag or set a certificate with the --tls-cert and --tls-key flags")
		}
	}()

	gracefulShutdown(srv)
	return nil
}

// newBreachSource picks the remote API or a mirrored directory, cached in memory when
// BREACH_CACHE_BYTES is positive.
func newBreachSource(cfg api.Config) (hibp.RangeSource, error) {
	var source hibp.RangeSource
	switch cfg.BreachSource {
	case "dir":
		log.Info().Msgf("using mirrored ranges in %s", cfg.BreachMirrorDir)
		source = hibp.NewDirSource(cfg.BreachMirrorDir)
	default:
		opts := []hibp.RemoteOption{hibp.WithPadding(cfg.BreachPadding), hibp.WithTimeout(cfg.LookupTimeout)}
		if cfg.BreachAPIURL != "" {
			opts = append(opts, hibp.WithBaseURL(cfg.BreachAPIURL))
		}
		source = hibp.NewRemoteSource(opts...)
	}

	if cfg.BreachCacheBytes <= 0 {
		return source, nil
	}

	log.Debug().Msgf("caching up to %d bytes of ranges for %s", cfg.BreachCacheBytes, cfg.BreachCacheTTL)
	cached, err := hibp.NewCachedSource(source, cfg.BreachCacheBytes, cfg.BreachCacheTTL)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// newServices wires the optional third party services. Missing keys leave them unconfigured.
func newServices(cfg api.Config, source hibp.RangeSource, db store.Store) api.Services {
	services := api.Services{
		Breach:        hibp.NewClient(source, hibp.WithLookupTimeout(cfg.LookupTimeout)),
		LookupTimeout: cfg.LookupTimeout,
		Store:         db,
		Auth:          auth.NewJWT(cfg.JWTSecret, tokenClockSkew),
		Verifier:      verify.NewDojah(cfg.DojahAPIKey),
	}

	var reputation urlscan.ReputationService
	if cfg.VirusTotalAPIKey != "" {
		reputation = urlscan.NewVirusTotal(cfg.VirusTotalAPIKey, "", cfg.LookupTimeout)
	} else {
		log.Warn().Msg("VIRUSTOTAL_API_KEY is not set, URL scans use basic checks only")
	}
	services.Scanner = urlscan.NewScanner(reputation)

	if cfg.CohereAPIKey != "" {
		cohere := advisor.NewCohere(cfg.CohereAPIKey, "", cfg.LookupTimeout)
		services.Tips = cohere
		services.Assistant = cohere
	} else {
		log.Warn().Msg("COHERE_API_KEY is not set, the AI advisor is disabled")
	}

	if cfg.DojahAPIKey == "" {
		log.Warn().Msg("DOJAH_API_KEY is not set, identity verification is disabled")
	}

	return services
}

// selfSignedTLS generates a 30 day self-signed certificate.
func selfSignedTLS(now time.Time) (*tls.Config, error) {
	caConfig := selfca.Certificate{
		IsCA:      true,
		KeySize:   2048,
		NotBefore: now,
		NotAfter:  now.Add(time.Duration(30*24) * time.Hour),
	}

	// generating the certificate
	certificate, key, err := selfca.GenerateCertificate(caConfig)
	if err != nil {
		return nil, err
	}

	pair, err := tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certificate}),
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}),
	)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{pair},
	}, nil
}

func gracefulShutdown(srv *http.Server) {
	// Wait for interrupt signal to gracefully shut down the server with
	// a timeout.
	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall. SIGKILL but can't be a catch, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server Shutdown.")
	}
	log.Info().Msg("server exiting...")
}
