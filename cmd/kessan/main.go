package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/komsit37/kessan/pkg/kessan/comments"
	"github.com/komsit37/kessan/pkg/kessan/config"
	"github.com/komsit37/kessan/pkg/kessan/dashboard"
	"github.com/komsit37/kessan/pkg/kessan/filter"
	"github.com/komsit37/kessan/pkg/kessan/pipeline"
	"github.com/komsit37/kessan/pkg/kessan/quote"
	"github.com/komsit37/kessan/pkg/kessan/render"
	"github.com/komsit37/kessan/pkg/kessan/server"
	"github.com/komsit37/kessan/pkg/kessan/source"
)

// Columns left of the chart bars for group labels.
const chartLabelMargin = 16

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"format":        config.KeyFormat,
	"tab":           config.KeyTab,
	"lang":          config.KeyLang,
	"color":         config.KeyColor,
	"pretty":        config.KeyPretty,
	"width":         config.KeyWidth,
	"max-col-width": config.KeyMaxColWidth,
	"quote":         config.KeyQuote,
	"filter":        config.KeyFilter,
	"log-level":     config.KeyLogLevel,
	"addr":          config.KeyServeAddr,
	"data-dir":      config.KeyServeDataDir,
}

type app struct {
	configFile string
	verbose    bool

	cfg    config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "kessan [flags] <file|dir>",
		Short: "Render financial statement dashboards from company records",
		Long: "kessan reads company records (JSON, YAML or Hjson) and renders a P/L, B/S and C/F\n" +
			"dashboard per company as a terminal table, JSON, Markdown or HTML.",
		SilenceUsage: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly 1 record file or directory argument")
			}
			return nil
		},
		PersistentPreRunE: a.setup,
		RunE:              a.runRender,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./kessan.yaml or ~/.config/kessan/kessan.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("lang", "en", "default comment language: en, ja")
	pf.Bool("quote", false, "fetch the latest share price from Yahoo Finance")

	f := rootCmd.Flags()
	f.StringP("format", "f", "table", "output format: table, json, markdown, html, codes")
	f.StringP("tab", "t", "all", "tabs to render: all or a comma list of pl, bs, cf")
	f.String("filter", "", "company filter: substring, glob, comma list or /regex/ on name or code")
	f.Bool("color", true, "colorize table output")
	f.Bool("no-color", false, "disable colors (same as --color=false)")
	f.Bool("pretty", false, "indent JSON output")
	f.Int("width", 0, "chart width in columns (0 fits the terminal)")
	f.Int("max-col-width", 40, "max table column width")

	rootCmd.AddCommand(newServeCmd(a))
	return rootCmd
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboards over HTTP from a data directory",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("data-dir", ".", "directory of company records")
	return cmd
}

// setup loads .env and the config file, binds the flags of the running
// command and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	v := config.New(a.configFile)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		v.Set(config.KeyColor, false)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.logger.Debug("config loaded", "file", v.ConfigFileUsed(), "format", cfg.Format, "lang", cfg.Lang)
	return nil
}

// loadDotEnv reads ./.env when present. A missing file is not an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		fl := fs.Lookup(name)
		if fl == nil {
			continue
		}
		if err := v.BindPFlag(key, fl); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (a *app) quotes() quote.Service {
	if !a.cfg.Quote {
		return nil
	}
	return quote.NewCachedService(quote.NewYFService(a.cfg.QuoteTimeout), a.cfg.Cache.TTL, a.cfg.Cache.Size)
}

func (a *app) runRender(cmd *cobra.Command, args []string) error {
	renderer, err := render.New(a.cfg.Format)
	if err != nil {
		return err
	}
	tabs, err := dashboard.ParseTabs(a.cfg.Tab)
	if err != nil {
		return err
	}
	lang, err := comments.ParseLang(a.cfg.Lang)
	if err != nil {
		return err
	}
	flt, err := filter.Parse(a.cfg.Filter)
	if err != nil {
		return err
	}

	width := a.cfg.Width
	if width == 0 {
		if cols := detectTerminalWidth(); cols > chartLabelMargin+render.DefaultChartWidth/2 {
			width = min(cols-chartLabelMargin, 2*render.DefaultChartWidth)
		}
	}

	runner := &pipeline.Runner{
		Source:   source.FileSource{Logger: a.logger},
		Renderer: renderer,
		Writer:   cmd.OutOrStdout(),
		Quotes:   a.quotes(),
		Logger:   a.logger,
	}
	return runner.Execute(cmd.Context(), args[0], pipeline.ExecuteOptions{
		Filter:      flt,
		Tabs:        tabs,
		Lang:        lang,
		Color:       a.cfg.Color,
		PrettyJSON:  a.cfg.Pretty,
		MaxColWidth: a.cfg.MaxColWidth,
		Width:       width,
	})
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	info, err := os.Stat(a.cfg.Serve.DataDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", a.cfg.Serve.DataDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := server.New(server.Options{
		DataDir:   a.cfg.Serve.DataDir,
		CacheTTL:  a.cfg.Cache.TTL,
		CacheSize: a.cfg.Cache.Size,
		Quotes:    a.quotes(),
		Logger:    a.logger,
	})
	return s.Run(ctx, a.cfg.Serve.Addr)
}
