package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/landtakeoffs/land-takeoffs/internal/server"
	"github.com/landtakeoffs/land-takeoffs/internal/session"
	"github.com/landtakeoffs/land-takeoffs/internal/sitespec"
	"github.com/landtakeoffs/land-takeoffs/pkg/constants"
	"github.com/landtakeoffs/land-takeoffs/pkg/output"
	"github.com/landtakeoffs/land-takeoffs/pkg/pricebook"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via -ldflags.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig sitespec.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to project configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	outputFormat := flag.String("output-format", "", "output format override (pretty, csv)")
	priceFile := flag.String("prices", "", "optional YAML unit-price override file")
	serve := flag.Bool("serve", false, "run the HTTP API server instead of a one-shot takeoff")
	addr := flag.String("addr", constants.DefaultServerAddress, "HTTP listen address for -serve")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	conf, err := sitespec.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration at %s: %v\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	catalog := pricebook.Default()
	if unknown, err := catalog.LoadOverrides(*priceFile); err != nil {
		logger.Fatal("failed to load price overrides",
			zap.String("op", "main"),
			zap.Error(err),
		)
	} else if len(unknown) > 0 {
		logger.Warn("price overrides for unknown items ignored",
			zap.String("op", "main"),
			zap.Strings("codes", unknown),
		)
	}
	if len(conf.Prices) > 0 {
		if unknown, err := catalog.ApplyOverrides(conf.Prices); err != nil {
			logger.Fatal("invalid price override in configuration",
				zap.String("op", "main"),
				zap.Error(err),
			)
		} else if len(unknown) > 0 {
			logger.Warn("price overrides for unknown items ignored",
				zap.String("op", "main"),
				zap.Strings("codes", unknown),
			)
		}
	}

	if *serve {
		handler := server.NewHandler(logger, constants.DefaultMaxBodySizeBytes, version, catalog)
		logger.Info("starting HTTP server",
			zap.String("op", "main"),
			zap.String("addr", *addr),
		)
		if err := http.ListenAndServe(*addr, handler); err != nil {
			logger.Fatal("server exited",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn(warning, zap.String("op", "main"))
	}

	sess, err := session.New(logger, conf.Project, catalog, conf.Site, conf.Assumptions)
	if err != nil {
		logger.Fatal("failed to compute takeoff",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	format := conf.Output.Format
	if *outputFormat != "" {
		format = *outputFormat
	}
	switch format {
	case constants.OutputFormatCSV:
		fmt.Print(output.EstimateCsvString(sess.Project, sess.Sections(), sess.Totals()))
		fmt.Println()
		fmt.Print(output.ProformaCsvString(sess.ProformaInputs(), sess.ProformaResult()))
	case "", constants.OutputFormatPretty:
		output.PrettyEstimate(sess.Project, sess.Allocation(), sess.Sections(), sess.Totals())
		output.PrettyProforma(sess.ProformaInputs(), sess.ProformaResult())
	default:
		logger.Fatal(fmt.Sprintf("invalid output format: %s", format),
			zap.String("op", "main"),
		)
	}
}
