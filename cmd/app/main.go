// Command app is the service entrypoint, grounded on
// _examples/LerianStudio-midaz's cmd/app/main.go bootstrap sequence
// (load config, init logger, init telemetry, build the service, run,
// shut down on signal).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/CodAressss/orders-batch-service/internal/bootstrap"
	"github.com/CodAressss/orders-batch-service/pkg/mlog"
	"github.com/CodAressss/orders-batch-service/pkg/mtelemetry"
	"github.com/CodAressss/orders-batch-service/pkg/mzap"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		panic(err)
	}

	zapLogger, err := mzap.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	var logger mlog.Logger = zapLogger

	ctx := context.Background()

	telemetry, err := mtelemetry.New(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatalf("failed to initialize telemetry: %v", err)
	}

	svc, err := bootstrap.New(cfg, logger, telemetry)
	if err != nil {
		logger.Fatalf("failed to initialize service: %v", err)
	}

	go func() {
		if err := svc.Run(); err != nil {
			logger.Errorf("server stopped: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}
