package main

import (
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brettbedarf/webedit/internal/util"
	"github.com/brettbedarf/webedit/mount"
)

func newMountCommand(a *app) *cobra.Command {
	var (
		umount      bool
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Mount the workspace read-only until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := util.GetLogger("main")
			mnt := args[0]

			// Try unmount if requested
			if umount {
				// we ignore error here if not already mounted
				exec.Command("fusermount", "-u", mnt).Run() // nolint:errcheck
			}
			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.MetricsAddr = metricsAddr
			}

			m := mount.New(a.cfg, a.store(), mount.WithMetrics(a.metrics, a.registry))
			defer m.Close()
			if err := m.Serve(mnt); err != nil {
				logger.Error().Err(err).Str("mountpoint", mnt).Msg("Failed to mount filesystem")
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
			defer stop()
			<-ctx.Done()
			logger.Info().Msg("Received signal, unmounting filesystem")

			if err := m.Unmount(); err != nil {
				logger.Error().Err(err).Msg("Failed to unmount filesystem")
				return err
			}
			logger.Info().Msg("Filesystem unmounted successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&umount, "umount", "u", false,
		"Unmount the mountpoint first if needed. Useful for debuggers that don't exit properly.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while mounted")
	return cmd
}
