package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/contact"
	"github.com/matzehuels/ridgeline/pkg/observability"
	"github.com/matzehuels/ridgeline/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio API and backdrop images",
		Long: `Serve starts an HTTP server exposing the content registry, the scroll
tracker, the contact form relay and rendered backdrops (GET /backdrop.svg).

The contact route is enabled when EmailJS credentials are configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact and content cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	if c.Verbose() {
		observability.NewLogHooks(c.Logger).Register()
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := c.Config.OpenStore(ctx, runner.Cache, c.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := c.Config.Server
	opts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithRenderDefaults(c.Config.PipelineOptions()),
		server.WithNavOffsets(c.Config.Nav.Offsets),
		server.WithTimeouts(server.Timeouts{
			Read:     cfg.ReadTimeout,
			Write:    cfg.WriteTimeout,
			Shutdown: cfg.ShutdownTimeout,
		}),
	}
	if c.Config.ContactEnabled() {
		client, err := contact.NewClient(c.Config.Contact, contact.WithLogger(c.Logger))
		if err != nil {
			return err
		}
		opts = append(opts, server.WithSender(client))
	} else {
		c.Logger.Warn("contact form disabled, no EmailJS credentials configured")
	}

	srv, err := server.New(store, runner, opts...)
	if err != nil {
		return err
	}

	printInfo("Serving on %s", StyleLink.Render(cfg.Addr))
	return srv.ListenAndServe(ctx, cfg.Addr)
}
