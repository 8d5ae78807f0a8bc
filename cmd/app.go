package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/components"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/config"
)

func Run() error {
	bootLogger, _ := components.SetupLogger("local", config.LogConfig{})

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(appCtx)
	if err != nil {
		bootLogger.Error("load config failed", "err", err)
		return err
	}

	logger, logFile := components.SetupLogger(cfg.Env, cfg.Log)

	comps, err := components.InitComponents(appCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		if logFile != nil {
			_ = logFile.Close()
		}
		return err
	}
	comps.AttachLogFile(logFile)

	ctx, stop := context.WithCancel(appCtx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := comps.HttpServer.Run(ctx); err != nil {
			logger.Error("http server failed", "err", err)
		}
		logger.Info("http server stopped")
	}()
	go func() {
		defer wg.Done()
		comps.RunWorkers(ctx)
		logger.Info("workers stopped")
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChan

	stop()
	logger.Info("captured signal, initiating shutdown", slog.String("signal", sig.String()))

	wg.Wait()

	logger.Info("shutting down the services...")
	comps.ShutdownAll()

	return nil
}
