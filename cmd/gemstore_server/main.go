package main

import (
	"fmt"
	"os"

	"gemstore_server/internal/config"

	"github.com/spf13/cobra"
)

// 构建时通过 ldflags 注入
var (
	Version = "dev"
	Commit  = "none"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "gemstore_server",
		Short:         "Order messaging server for the gem store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: search configs/)")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newMigrateCmd(&configPath))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gemstore_server %s (commit: %s)\n", Version, Commit)
		},
	}
}

// loadConfig 指定路径时必须加载成功；未指定时找不到文件则使用默认值
func loadConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	} else if cfg, err = config.Load(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, using defaults\n", err)
	}
	config.SetConfig(cfg)
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
