package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.elastic.co/ecslogrus"
	"golang.org/x/term"

	"github.com/lueurxax/strqueue/internal/harness"
	"github.com/lueurxax/strqueue/internal/harness/metrics"
	"github.com/lueurxax/strqueue/internal/log"
)

var version = "dev"

const (
	pkgKey = "pkg"
	prompt = "cmd> "
)

type config struct {
	LoggerLevel logrus.Level `envconfig:"LOG_LEVEL" default:"info"`
	LogToEcs    bool         `envconfig:"LOG_TO_ECS" default:"false"`
}

func main() {
	printVersion := flag.Bool("version", false, "print version and exit")
	scriptPath := flag.String("f", "", "read commands from file instead of stdin")
	flag.Parse()

	if *printVersion {
		fmt.Println(version)
		return
	}

	// init main config
	cfg := new(config)
	if err := envconfig.Process("QTEST", cfg); err != nil {
		panic(err)
	}

	// init logger
	logrusLogger := logrus.New()
	logrusLogger.SetLevel(cfg.LoggerLevel)
	logrusLogger.SetFormatter(&nested.Formatter{
		FieldsOrder:     []string{pkgKey},
		TimestampFormat: "01-02|15:04:05",
	})

	if cfg.LogToEcs {
		logrusLogger.SetFormatter(&ecslogrus.Formatter{})
	}

	logger := log.NewLogger(logrusLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		input       io.Reader = os.Stdin
		inputPrompt string
	)

	if *scriptPath != "" {
		file, err := os.Open(*scriptPath)
		if err != nil {
			panic(err)
		}
		defer file.Close()

		input = file
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		inputPrompt = prompt
	}

	registry := prometheus.NewRegistry()

	commands, err := metrics.NewCommandsCounter(registry)
	if err != nil {
		panic(err)
	}

	h := harness.NewHarness(
		*harness.GetConfig(),
		os.Stdout,
		inputPrompt,
		metrics.NewMetrics(commands, registry, logger.WithField(pkgKey, "metrics")),
		logger.WithField(pkgKey, "harness"),
	)

	if err = h.Run(ctx, input); err != nil {
		logger.WithError(err).Error("qtest failed")
		stop()
		os.Exit(1) //nolint:gocritic
	}
}
