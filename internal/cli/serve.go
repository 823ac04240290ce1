package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/config"
	"github.com/Zachkp/folio/internal/mailer"
	"github.com/Zachkp/folio/internal/site"
	"github.com/Zachkp/folio/pkg/logger"
)

func newServeCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			log, err := logger.New(logger.Options{Level: cfg.LogLevel, Development: cfg.LogDev})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cfg.GinMode != "" {
				gin.SetMode(cfg.GinMode)
			}

			m := mailer.New(cfg.SMTP, log.Named("mailer"), nil)
			if !m.IsConfigured() {
				log.Warn("SMTP credentials not configured, /relay will answer 503")
			}

			srv, err := site.New(site.Options{
				Config: cfg,
				Sender: m,
				Logger: log,
			})
			if err != nil {
				return fmt.Errorf("building server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

// loadConfig loads and validates the configuration at path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
