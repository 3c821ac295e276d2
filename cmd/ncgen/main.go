package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/andaru/ncgen/config"
	"github.com/andaru/ncgen/generator"
	"github.com/andaru/ncgen/ncerr"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	slogmulti "github.com/samber/slog-multi"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version = "(devel)"

const (
	logFileName    = "ncgen.log"
	reportFileName = "ncgen-report.yaml"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// setupLogger logs to the console and to a rotating file in logDir. The
// returned writer is the log file.
func setupLogger(logDir string, verbose bool, level string) (io.Writer, error) {
	logLevel := parseLevel(level)
	if verbose {
		logLevel = slog.LevelDebug
	}

	logConsole := os.Stdout
	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    5, // MB
		MaxBackups: 4,
		MaxAge:     30, // days
	}

	handlers := []slog.Handler{
		tint.NewHandler(logConsole, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.DateTime,
			NoColor:    !isatty.IsTerminal(logConsole.Fd()),
		}),
		slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(logger)

	// library tracing goes through glog
	glogV := "0"
	if verbose {
		glogV = "2"
	}
	for name, value := range map[string]string{"log_dir": logDir, "v": glogV} {
		if err := flag.Set(name, value); err != nil {
			return nil, errors.Wrapf(err, "setting glog flag %s", name)
		}
	}
	if err := flag.CommandLine.Parse(nil); err != nil {
		return nil, errors.WithStack(err)
	}

	return logFile, nil
}

// loadConfig builds the run configuration: the config file, if any, with
// command line flags on top.
func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	path := cCtx.String("config")
	if path == "" && cCtx.Bool("default") {
		path = config.DefaultPath
	}
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	cfg.Merge(config.Config{
		YangDir:   cCtx.String("yang-dir"),
		XMLDir:    cCtx.String("xml-dir"),
		ScriptDir: cCtx.String("script-dir"),
		LogDir:    cCtx.String("log-dir"),
		OutputDir: cCtx.String("output-dir"),
		Template:  cCtx.String("template"),
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func generate(ctx context.Context, cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	logFile, err := setupLogger(cfg.LogDir, cCtx.Bool("verbose"), cfg.LogLevel)
	if err != nil {
		return err
	}

	start := time.Now()
	slog.Info("Generating", "yang", cfg.YangDir, "xml", cfg.XMLDir, "output", cfg.OutputDir)
	sum, err := generator.Run(ctx, cfg, cCtx.Bool("diff"), os.Stdout)
	if err != nil {
		return errors.Wrap(err, "generating modules")
	}

	for _, r := range sum.Results {
		if r.Skipped() {
			slog.Warn("Skipped", "file", r.Job.Full)
			continue
		}
		slog.Info("Generated", "module", r.Job.Name, "output", r.Output,
			"size", humanize.IBytes(uint64(r.Size)), "changed", r.Changed)
	}

	diags := sum.Diagnostics()
	if err := diags.WriteBlocks(logFile); err != nil {
		return errors.Wrap(err, "writing diagnostics to log")
	}
	report, err := sum.Report()
	if err != nil {
		return err
	}
	reportPath := filepath.Join(cfg.LogDir, reportFileName)
	if err := os.WriteFile(reportPath, report, 0o644); err != nil {
		return errors.Wrapf(err, "writing report %s", reportPath)
	}

	printDigest(os.Stdout, diags)
	if err := sum.Table(os.Stdout); err != nil {
		return err
	}
	slog.Info("Done", "files", len(sum.Results), "took", time.Since(start).Round(time.Millisecond), "report", reportPath)

	if sum.Failed() {
		return errors.Errorf("%d errors reported", len(diags.Errors()))
	}
	color.New(color.FgGreen).Fprintln(os.Stdout, "Execute Success")
	return nil
}

// printDigest lists every error and warning of the run.
func printDigest(out io.Writer, diags *ncerr.List) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	if errs := diags.Errors(); len(errs) > 0 {
		fmt.Fprintln(out, red("Errors ("+strconv.Itoa(len(errs))+"):"))
		for _, e := range errs {
			fmt.Fprintln(out, "  "+red(e.Error()))
		}
	}
	if warns := diags.Warnings(); len(warns) > 0 {
		fmt.Fprintln(out, yellow("Warnings ("+strconv.Itoa(len(warns))+"):"))
		for _, e := range warns {
			fmt.Fprintln(out, "  "+yellow(e.Error()))
		}
	}
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			slog.Error("Panic", "err", err, "stack", string(debug.Stack()))
			os.Exit(1)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flags := []cli.Flag{
		&cli.StringFlag{Name: "yang-dir", Aliases: []string{"y"}, Usage: "directory of YANG modules"},
		&cli.StringFlag{Name: "xml-dir", Aliases: []string{"r"}, Usage: "directory of instance XML documents"},
		&cli.StringFlag{Name: "script-dir", Aliases: []string{"p"}, Usage: "directory of user check scripts"},
		&cli.StringFlag{Name: "log-dir", Aliases: []string{"l"}, Usage: "directory for logs and the run report"},
		&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "directory for generated modules"},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration file"},
		&cli.BoolFlag{Name: "default", Usage: "use " + config.DefaultPath + " when no configuration file is given"},
		&cli.StringFlag{Name: "template", Usage: "module template replacing the built-in one"},
		&cli.BoolFlag{Name: "diff", Usage: "print differences against existing modules instead of writing"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "verbose output (includes debug)"},
	}
	generateAction := func(cCtx *cli.Context) error { return generate(ctx, cCtx) }

	cli.VersionFlag.(*cli.BoolFlag).Aliases = []string{"V"}
	app := &cli.App{
		Name:                   "ncgen",
		Usage:                  "generate NETCONF client modules from YANG and instance XML",
		Version:                version,
		Suggest:                true,
		UseShortOptionHandling: true,
		EnableBashCompletion:   true,
		Flags:                  flags,
		Action:                 generateAction,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "generate a module per instance document",
				Flags:  flags,
				Action: generateAction,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(cCtx *cli.Context) error {
					_, err := fmt.Fprintln(cCtx.App.Writer, version)
					return err
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Failed", "err", err.Error())
		color.New(color.FgRed).Fprintln(os.Stdout, "Execute Failed")
		os.Exit(1)
	}
}
