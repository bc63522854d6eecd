package main

import (
	"net"
	"os"
	"syscall"

	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/pkg/log"
	"go.uber.org/zap"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT}


func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger reads the configuration and installs the process logger.
// The returned func restores the previous logger and flushes the new one.
func setupLogger() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, func() {}, err
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel))
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
