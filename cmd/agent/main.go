package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"hostnet-agent/internal/application/polling"
	"hostnet-agent/internal/application/usecases"
	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/infrastructure/config"
	"hostnet-agent/internal/infrastructure/container"
	"hostnet-agent/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	// 로거 초기화
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// LOG_LEVEL 환경 변수 설정
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr != "" {
		logLevel, err := logrus.ParseLevel(logLevelStr)
		if err != nil {
			logger.WithError(err).Warnf("Unknown LOG_LEVEL value: %s. Using default Info level.", logLevelStr)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			logger.SetLevel(logLevel)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	// 설정 로드
	configLoader := config.NewEnvironmentConfigLoader()
	cfg, err := configLoader.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// 의존성 주입 컨테이너 생성
	appContainer, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create dependency injection container")
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.WithError(err).Error("Failed to cleanup container")
		}
	}()

	// 애플리케이션 시작
	app := NewApplication(appContainer, logger)
	if err := app.Run(); err != nil && err != context.Canceled {
		logger.WithError(err).Fatal("Failed to run application")
	}
}

// Application은 메인 애플리케이션 구조체입니다
type Application struct {
	container        *container.Container
	logger           *logrus.Logger
	reconcileUseCase *usecases.ReconcileNetworkUseCase
	teardownUseCase  *usecases.TeardownNetworkUseCase
	healthServer     *http.Server
}

// NewApplication은 새로운 Application을 생성합니다
func NewApplication(container *container.Container, logger *logrus.Logger) *Application {
	return &Application{
		container:        container,
		logger:           logger,
		reconcileUseCase: container.GetReconcileNetworkUseCase(),
		teardownUseCase:  container.GetTeardownNetworkUseCase(),
	}
}

// Run은 애플리케이션을 실행합니다
func (a *Application) Run() error {
	cfg := a.container.GetConfig()

	// ifcfg 백엔드는 RHEL 계열에서만 동작하므로 기동 전에 확인
	osType, err := a.container.GetOSDetector().DetectOS()
	if err != nil {
		return fmt.Errorf("failed to detect OS type: %w", err)
	}
	a.logger.WithField("os_type", osType).Info("Operating system detected")

	// 이전 세션이 남긴 미커밋 변경 복구
	if err := a.container.RecoverPersistentBackup(); err != nil {
		return fmt.Errorf("failed to recover persistent backup: %w", err)
	}

	// 에이전트 정보 메트릭 설정
	hostname, _ := os.Hostname()
	metrics.SetAgentInfo(constants.AgentVersion, hostname)

	// 헬스체크 서버 시작
	if err := a.startHealthServer(cfg.Health.Port); err != nil {
		return err
	}

	// 컨텍스트 및 시그널 핸들링 설정
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 폴링 전략 설정
	var strategy polling.Strategy
	if cfg.Agent.Backoff.Enabled {
		strategy = polling.NewExponentialBackoffStrategy(
			cfg.Agent.PollInterval,
			cfg.Agent.Backoff.MaxInterval,
			cfg.Agent.Backoff.Multiplier,
			a.logger,
		)
		a.logger.WithFields(logrus.Fields{
			"base_interval": cfg.Agent.PollInterval,
			"max_interval":  cfg.Agent.Backoff.MaxInterval,
			"multiplier":    cfg.Agent.Backoff.Multiplier,
		}).Info("Exponential backoff polling enabled")
	} else {
		strategy = polling.NewFixedIntervalStrategy(cfg.Agent.PollInterval)
		a.logger.WithField("interval", cfg.Agent.PollInterval).Info("Fixed interval polling enabled")
	}

	// 폴링 컨트롤러 생성
	pollingController := polling.NewPollingController(strategy, a.logger)

	a.logger.Info("hostnet agent started")

	// 시그널 처리를 위한 goroutine
	go func() {
		<-sigChan
		a.logger.Info("Received shutdown signal")
		cancel()
	}()

	// 폴링 시작
	return pollingController.Start(ctx, func(ctx context.Context) error {
		err := a.reconcilePass(ctx)
		if err != nil {
			a.container.GetHealthService().UpdateDBHealth(false, err)
			metrics.SetDBConnectionStatus(false)
			return err
		}
		a.container.GetHealthService().UpdateDBHealth(true, nil)
		metrics.SetDBConnectionStatus(true)
		return nil
	})
}

// startHealthServer는 헬스체크 서버를 시작합니다
func (a *Application) startHealthServer(port string) error {
	healthService := a.container.GetHealthService()

	// HTTP 핸들러 설정
	mux := http.NewServeMux()
	mux.Handle("/", healthService)
	mux.Handle("/metrics", promhttp.Handler())

	a.healthServer = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		a.logger.WithField("port", port).Info("Health check server started (with /metrics)")
		if err := a.healthServer.ListenAndServe(); err != http.ErrServerClosed {
			a.logger.WithError(err).Error("Health check server failed")
		}
	}()

	return nil
}

// reconcilePass는 적용과 제거 유스케이스를 한 차례씩 실행합니다
func (a *Application) reconcilePass(ctx context.Context) error {
	hostname, err := os.Hostname()
	if err != nil {
		return err
	}

	// 도메인 접미사 제거 (컨트롤 플레인은 짧은 호스트명으로 기록)
	if idx := strings.Index(hostname, "."); idx != -1 {
		hostname = hostname[:idx]
	}

	healthService := a.container.GetHealthService()

	// 1. 설정/편집 레코드 적용
	reconcileOutput, err := a.reconcileUseCase.Execute(ctx, usecases.ReconcileNetworkInput{
		NodeName: hostname,
	})
	if err != nil {
		a.logger.WithError(err).Error("Failed to reconcile network entities")
		if reconcileOutput != nil && reconcileOutput.RolledBack {
			healthService.IncrementRollbacks()
		}
		healthService.IncrementFailedRecords()
		return err
	}

	// 2. 제거 레코드 처리
	teardownOutput, err := a.teardownUseCase.Execute(ctx, usecases.TeardownNetworkInput{
		NodeName: hostname,
	})
	if err != nil {
		a.logger.WithError(err).Error("Failed to tear down network entities")
		if teardownOutput != nil && teardownOutput.RolledBack {
			healthService.IncrementRollbacks()
		}
		healthService.IncrementFailedRecords()
		return err
	}

	for i := 0; i < reconcileOutput.AppliedCount+teardownOutput.RemovedCount; i++ {
		healthService.IncrementAppliedRecords()
	}
	healthService.RecordPass()

	if reconcileOutput.TotalCount > 0 || teardownOutput.TotalCount > 0 {
		a.logger.WithFields(logrus.Fields{
			"applied": reconcileOutput.AppliedCount,
			"removed": teardownOutput.RemovedCount,
			"failed":  reconcileOutput.FailedCount + teardownOutput.FailedCount,
		}).Info("Reconciliation pass completed")
	}
	return nil
}
