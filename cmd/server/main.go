// Package main запускает MCP сервер сравнения срочных вкладов.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloud-ru/mcp-deposits-go/internal/config"
	"github.com/cloud-ru/mcp-deposits-go/internal/history"
	"github.com/cloud-ru/mcp-deposits-go/internal/kvstore"
	"github.com/cloud-ru/mcp-deposits-go/internal/server"
	"github.com/cloud-ru/mcp-deposits-go/internal/session"
	"github.com/cloud-ru/mcp-deposits-go/internal/tools"
	"github.com/cloud-ru/mcp-deposits-go/internal/tracing"
	"github.com/cloud-ru/mcp-deposits-go/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Не удалось загрузить конфигурацию")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("service", cfg.OTELServiceName).Msg("Запуск сервера вкладов")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Не удалось инициализировать трейсинг")
	}

	kv, err := kvstore.Open(ctx, kvstore.Options{
		Driver: cfg.StoreDriver,
		Path:   cfg.StorePath,
		DSN:    cfg.StoreDSN,
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Не удалось открыть хранилище")
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("Хранилище истории открыто")

	codec, err := history.NewCodec(cfg.HistoryCodec)
	if err != nil {
		log.Fatal().Err(err).Msg("Неизвестный формат истории")
	}

	store := history.NewStore(kv, history.Options{
		Key:   cfg.HistoryKey,
		Limit: cfg.MaxSnapshots(),
		Codec: codec,
	}, log)

	sess := session.New(cfg, store, log)
	registry := tools.NewRegistry(cfg, tracer, sess)
	srv := server.New(cfg, registry, log)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Не удалось запустить сервер")
		}
	}()

	log.Info().Int("port", cfg.Port).Strs("tools", registry.Names()).Msg("Сервер запущен")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Сервер остановлен принудительно")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Ошибка остановки трейсинга")
	}
	if err := kv.Close(); err != nil {
		log.Error().Err(err).Msg("Ошибка закрытия хранилища")
	}

	log.Info().Msg("Сервер остановлен")
}
