package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dotgen/internal/cli"
	"dotgen/internal/config"
	"dotgen/internal/infrastructure/env"
	"dotgen/internal/infrastructure/logger"
)

func main() {
	envService, err := env.NewEnvService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitConfigError)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = envService.GetWithDefault("LOG_LEVEL", logCfg.Level)
	logCfg.Format = envService.GetWithDefault("LOG_FORMAT", logCfg.Format)
	logCfg.Path = envService.Get("LOG_PATH")

	base, err := config.FromEnv(envService)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitConfigError)
	}

	inv, err := cli.ParseInvocation(os.Args[1:], base, logCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := cli.Execute(ctx, inv, cli.RunOptions{
		FFmpegBinary: envService.GetWithDefault("DOTGEN_FFMPEG", "ffmpeg"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(result.ExitCode)
}
