package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipp01105/hlog/config"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/diag"
	"github.com/philipp01105/hlog/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hlogcheck",
		Short:        "Inspect hlog configuration files",
		SilenceUsage: true,
	}
	root.AddCommand(newValidateCmd(), newTreeCmd(), newEmitCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse and validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d loggers, %d appenders\n", len(cfg.Loggers), len(cfg.Appenders))
			return nil
		},
	}
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the logger hierarchy a configuration file produces",
		Long: "Print every logger with its assigned and effective level, additivity\n" +
			"and appenders. No appender is opened.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			h := levelsOnly(cfg)
			defer func() { _ = h.Close() }()
			printTree(cmd.OutOrStdout(), h, cfg)
			return nil
		},
	}
}

func newEmitCmd() *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "emit <file> <logger> <message>",
		Short: "Configure a hierarchy from a file and log one message through it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			lvl, ok := core.LevelFromString(level)
			if !ok {
				return fmt.Errorf("unknown level %q", level)
			}
			h := logger.NewBuilder().Build()
			if err := config.Configure(h, cfg); err != nil {
				return err
			}
			lg := h.GetInstance(args[1])
			enabled := lg.IsEnabledFor(lvl)
			lg.Log(lvl, args[2])
			if err := h.Close(); err != nil {
				return err
			}
			if !enabled {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is not enabled for %s (effective level %s)\n",
					lg.Name(), lvl, lg.ChainedLogLevel())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&level, "level", "l", "INFO", "level of the message")
	return cmd
}

// levelsOnly builds a hierarchy carrying the levels and additivity of
// cfg without any appenders.
func levelsOnly(cfg *config.Config) *logger.Hierarchy {
	h := logger.NewBuilder().WithReporter(diag.Nop()).Build()
	if l, ok := core.LevelFromString(cfg.Root.Level); ok && cfg.Root.Level != "" {
		h.Root().SetLogLevel(l)
	}
	for name, lc := range cfg.Loggers {
		lg := h.GetInstance(name)
		if l, ok := core.LevelFromString(lc.Level); ok && lc.Level != "" {
			lg.SetLogLevel(l)
		}
		if lc.Additivity != nil {
			lg.SetAdditivity(*lc.Additivity)
		}
	}
	if l, ok := core.LevelFromString(cfg.Disable); ok && cfg.Disable != "" {
		h.Disable(l)
	}
	return h
}

func printTree(w io.Writer, h *logger.Hierarchy, cfg *config.Config) {
	root := h.Root()
	fmt.Fprintf(w, "%s %s%s\n", logger.RootName, describe(root), appenders(cfg.Root.Appenders))
	for _, lg := range h.CurrentLoggers() {
		depth := strings.Count(lg.Name(), ".") + 1
		fmt.Fprintf(w, "%s%s %s%s\n", strings.Repeat("  ", depth), lg.Name(), describe(lg),
			appenders(cfg.Loggers[lg.Name()].Appenders))
	}
}

func describe(lg logger.Logger) string {
	var b strings.Builder
	if lg.LogLevel() == core.NotSetLevel {
		fmt.Fprintf(&b, "level=%s (inherited)", lg.ChainedLogLevel())
	} else {
		fmt.Fprintf(&b, "level=%s", lg.LogLevel())
	}
	if !lg.Additivity() {
		b.WriteString(" additivity=false")
	}
	return b.String()
}

func appenders(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return " appenders=" + strings.Join(names, ",")
}
