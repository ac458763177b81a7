package cli

import (
	"fmt"

	"github.com/schemalens/schemalens/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP review service",
	Long: `Start the HTTP API for schema reviews.

Endpoints: POST /api/review, POST /api/diff, GET/PUT/DELETE /api/prompts,
GET /api/events, GET /health. The listen address comes from the config file;
--port overrides it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Server.Port
		if override, _ := cmd.Flags().GetInt("port"); override != 0 {
			port = override
		}
		addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, port)

		return web.NewServer(a.pipeline, a.prompts, a.db).Start(addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides config)")
}
