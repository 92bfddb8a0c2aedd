package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"revcam-dashboard/internal/config"
	"revcam-dashboard/internal/db"
	"revcam-dashboard/internal/db/migrate"
	"revcam-dashboard/internal/device"
	"revcam-dashboard/internal/httpapi"
	"revcam-dashboard/internal/modules/dashboard"
	"revcam-dashboard/internal/modules/dashboard/repository"
	"revcam-dashboard/internal/modules/dashboard/service"
	"revcam-dashboard/internal/modules/dashboard/views"
	"revcam-dashboard/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config) error {
	logger := slog.Default()
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"deviceURL", cfg.DeviceURL,
		"deviceTimeout", cfg.DeviceTimeout,
		"pollInterval", cfg.PollInterval,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqlLog", cfg.SQLLog,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn, logger); err != nil {
		return err
	}

	var ok int
	if err := dbConn.QueryRowContext(ctx, `SELECT 1`).Scan(&ok); err != nil {
		return err
	}
	if ok != 1 {
		return errors.New("database connection failed")
	}
	logger.Info("database connection successful")

	if err := views.LoadTemplates(); err != nil {
		return err
	}

	settings, err := repository.NewRepository(dbConn).GetSettings(ctx)
	if err != nil {
		return err
	}

	client := device.NewClient(cfg.DeviceURL, cfg.DeviceTimeout)
	svc := service.NewService(client, service.Options{
		PollInterval: cfg.PollInterval,
		Settings:     settings,
		StreamURL:    client.StreamURL(),
	}, logger)

	var link httpapi.Connectivity
	var subscriber *mqtt.Subscriber
	if cfg.MQTTBroker != "" {
		subscriber, err = mqtt.NewSubscriber(cfg, logger)
		if err != nil {
			return err
		}
		// Handler goes in before Connect so retained messages are not lost.
		dashboard.RegisterMQTTHandler(subscriber, svc, logger)
		link = subscriber

		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			logger.Warn("mqtt connection failed (continuing with polling only)", "error", err)
		}
	}

	mux := httpapi.NewMux(dbConn, link)
	dashboard.RegisterFeature(mux, svc, dbConn)

	svcCtx, stopService := context.WithCancel(ctx)
	defer stopService()
	var svcWG sync.WaitGroup
	svcWG.Add(1)
	go func() {
		defer svcWG.Done()
		if err := svc.Start(svcCtx); err != nil {
			logger.Error("dashboard service stopped", "error", err)
		}
	}()

	srv := httpapi.NewServer(cfg, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		stopService()
		svcWG.Wait()
		if subscriber != nil {
			subscriber.Disconnect()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		logger.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	stopService()
	svcWG.Wait()

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
