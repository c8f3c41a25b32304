package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/wellness-profile/internal/httpapi"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Run:   runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := openEngine(ctx)
	defer rt.Close()

	sc := rt.cfg.Server
	if addr != "" {
		sc.Addr = addr
	}
	srv := httpapi.NewServer(rt.engine, rt.log, httpapi.Config{
		Addr:         sc.Addr,
		Debug:        sc.Debug,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
	})
	if err := srv.Run(ctx); err != nil {
		exitErr("serve", err)
	}
}
