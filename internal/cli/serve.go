package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stabilizer/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		path    string
		workers int
		flags   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the analysis over HTTP. Results are shared with the CLI
through the same cache.`,
		Example: `  stabilizer serve --addr :8080
  stabilizer serve --redis localhost:6379 --config pla.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			params, err := loadParams(path)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, server.Config{Params: params, Workers: workers}, c.Logger)

			printInfo("Listening on %s", StyleLink.Render(listenURL(addr)))
			printDetail("Press Ctrl+C to stop")
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&path, "config", "", "default parameter file (TOML)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "layer workers per request (default: number of CPUs)")
	flags.register(cmd)

	return cmd
}

// listenURL turns a listen address into a clickable URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s", addr)
}
