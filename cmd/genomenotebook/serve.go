package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/genomenotebook/genomenotebook/internal/browser"
	"github.com/genomenotebook/genomenotebook/internal/config"
	"github.com/genomenotebook/genomenotebook/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		root       string
		profileOut string
		profileCPU bool
		profileMem bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve browser sessions over HTTP",
		Long: `Serve the session API: a rendering surface creates a browser session, sends
viewport events (set, pan, zoom, navigate, search) and draws the returned
frames and updates. Events of one session are handled one at a time.`,
		Example: `  genomenotebook serve --addr :8080 --root ~/.genomenotebook
  genomenotebook serve --profile-cpu --profile-dir /tmp/prof`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileCPU && profileMem {
				return usageError{errors.New("--profile-cpu and --profile-mem are exclusive")}
			}
			if profileCPU {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileOut), profile.NoShutdownHook).Stop()
			}
			if profileMem {
				defer profile.Start(profile.MemProfile, profile.ProfilePath(profileOut), profile.NoShutdownHook).Stop()
			}

			settings, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			defaults := browser.DefaultOptions()
			if err := settings.Apply(&defaults); err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = settings.Server.Addr
			}
			if !cmd.Flags().Changed("root") && settings.DataDir != "" {
				root = settings.DataDir
			}

			opts := []server.Option{server.WithLogger(logger)}
			if root != "" {
				opts = append(opts, server.WithRoot(root))
			}
			if settings.Server.SessionTTL > 0 {
				opts = append(opts, server.WithSessionTTL(settings.Server.SessionTTL))
			}
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{Addr: addr, Handler: server.New(defaults, opts...).Router()}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			fmt.Printf("Serving browser sessions on %s\n", addr)

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&root, "root", "", "Restrict session file paths to this directory (default: data_dir)")
	cmd.Flags().BoolVar(&profileCPU, "profile-cpu", false, "Write a CPU profile on shutdown")
	cmd.Flags().BoolVar(&profileMem, "profile-mem", false, "Write a memory profile on shutdown")
	cmd.Flags().StringVar(&profileOut, "profile-dir", ".", "Directory for profile output")
	return cmd
}
