package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/trigg3rX/keybrowser/internal/browser"
	"github.com/trigg3rX/keybrowser/internal/config"
	"github.com/trigg3rX/keybrowser/internal/metrics"
	"github.com/trigg3rX/keybrowser/internal/scanner"
	redisclient "github.com/trigg3rX/keybrowser/pkg/client/redis"
	"github.com/trigg3rX/keybrowser/pkg/logging"
)

// Flags shared by every command that talks to the store.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "env-file",
		Usage: "dotenv file to load before reading the environment",
		Value: ".env",
	},
	&cli.StringFlag{
		Name:  "mode",
		Usage: "deployment mode: standalone, cluster or sentinel (overrides KEYBROWSER_MODE)",
	},
	&cli.StringSliceFlag{
		Name:  "addr",
		Usage: "host:port of a node or sentinel, repeatable (overrides REDIS_ADDRS)",
	},
	&cli.BoolFlag{
		Name:  "password-prompt",
		Usage: "read the store password from the terminal",
	},
}

// session is everything a command needs to browse the configured deployment.
type session struct {
	logger   logging.Logger
	topology *redisclient.Topology
	service  *browser.Service
}

func (r *session) Close() {
	if err := r.topology.Close(); err != nil {
		r.logger.Warnf("Failed to close redis client: %v", err)
	}
	logging.Shutdown()
}

func newSession(c *cli.Context, process logging.ProcessName, instrumented bool) (*session, error) {
	if err := config.InitWithEnvFile(c.String("env-file")); err != nil {
		return nil, err
	}

	if err := logging.InitServiceLogger(logging.LoggerConfig{
		LogDir:        config.GetLogDir(),
		ProcessName:   process,
		IsDevelopment: config.IsDevMode(),
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := logging.GetServiceLogger()

	options, err := redisOptions(c)
	if err != nil {
		return nil, err
	}

	var scannerOpts []scanner.Option
	if instrumented {
		options.Hooks = metrics.ClientHooks()
		scannerOpts = append(scannerOpts, scanner.WithHooks(metrics.ScannerHooks()))
	}

	topology, err := redisclient.Connect(c.Context, logger, options)
	if err != nil {
		return nil, err
	}

	s, err := scanner.New(config.ScannerConfig(), logger, scannerOpts...)
	if err != nil {
		_ = topology.Close()
		return nil, err
	}
	service, err := browser.NewService(c.Context, topology, s, logger)
	if err != nil {
		_ = topology.Close()
		return nil, err
	}

	return &session{logger: logger, topology: topology, service: service}, nil
}

func redisOptions(c *cli.Context) (redisclient.Options, error) {
	options := config.RedisOptions()

	if c.IsSet("mode") {
		mode, err := redisclient.ParseMode(c.String("mode"))
		if err != nil {
			return options, err
		}
		options.Mode = mode
	}
	if addrs := c.StringSlice("addr"); len(addrs) > 0 {
		options.Addrs = addrs
	}
	if c.Bool("password-prompt") {
		password, err := promptPassword()
		if err != nil {
			return options, err
		}
		options.Password = password
	}
	return options, options.Validate()
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password-prompt needs an interactive terminal")
	}
	fmt.Fprint(os.Stderr, "Redis password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func withTimeout(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, config.GetRequestTimeout())
}
