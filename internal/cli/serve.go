package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/deepread/internal/client"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Serve runs the browser UI: paste an article link or its text, pick a mode,
and read the analysis once the service answers.

Example:
  deepread serve
  deepread serve --addr :3000 --endpoint http://10.0.0.5:8000/api/v1/analysis`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:3000", "listen address")
	serveCmd.Flags().String("endpoint", model.DefaultEndpoint, "analysis service endpoint")
	serveCmd.Flags().String("lang", "zh", "default label language (zh, en, auto)")
	serveCmd.Flags().String("theme", "light", "default theme (light, dark)")
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	err := bindFlags(v, cmd.Flags(), map[string]string{
		"ui.addr":         "addr",
		"ui.language":     "lang",
		"ui.theme":        "theme",
		"client.endpoint": "endpoint",
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	logger, err := newLogger(zapcore.InfoLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("using analysis service", zap.String("endpoint", cfg.Client.Endpoint))
	fmt.Fprintf(os.Stderr, "Open http://%s in your browser\n", cfg.UI.Addr)

	srv := server.New(cfg.UI, client.New(cfg.Client, logger), logger)
	return srv.Run(ctx)
}
