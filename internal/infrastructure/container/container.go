package container

import (
	"context"
	"database/sql"

	"hostnet-agent/internal/application/usecases"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/adapters"
	"hostnet-agent/internal/infrastructure/config"
	"hostnet-agent/internal/infrastructure/health"
	"hostnet-agent/internal/infrastructure/ifcfg"
	"hostnet-agent/internal/infrastructure/netdev"
	"hostnet-agent/internal/infrastructure/persistence"
	"hostnet-agent/internal/infrastructure/selinux"
	"hostnet-agent/pkg/utils"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// Container는 의존성 주입을 관리하는 컨테이너입니다
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// 인프라스트럭처 어댑터들
	fileSystem      interfaces.FileSystem
	commandExecutor interfaces.CommandExecutor
	clock           interfaces.Clock
	osDetector      interfaces.OSDetector

	// 네트워크 경계들
	deviceQuerier    interfaces.DeviceQuerier
	deviceController interfaces.DeviceController
	dhcpTracker      interfaces.DHCPTracker
	runningConfig    *persistence.YAMLRunningConfigStore

	// 서비스들
	healthService *health.HealthService
	txFactory     *ifcfg.TransactionFactory

	// 레포지토리
	repository interfaces.EntityRepository

	// 유스케이스
	reconcileNetworkUseCase *usecases.ReconcileNetworkUseCase
	teardownNetworkUseCase  *usecases.TeardownNetworkUseCase

	// 데이터베이스
	db *sql.DB
}

// NewContainer는 새로운 Container를 생성합니다
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initializeInfrastructure(); err != nil {
		return nil, err
	}

	if err := container.initializeServices(); err != nil {
		return nil, err
	}

	if err := container.initializeUseCases(); err != nil {
		return nil, err
	}

	return container, nil
}

// initializeInfrastructure는 인프라스트럭처 컴포넌트들을 초기화합니다
func (c *Container) initializeInfrastructure() error {
	// 기본 어댑터들 초기화
	c.fileSystem = adapters.NewRealFileSystem()
	c.commandExecutor = adapters.NewRealCommandExecutor()
	c.clock = adapters.NewRealClock()
	c.osDetector = adapters.NewRealOSDetector(c.fileSystem)

	// 데이터베이스 연결
	dsn := c.buildDSN()
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}

	// 연결 풀 설정
	db.SetMaxOpenConns(c.config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.config.Database.MaxLifetime)

	// 연결 테스트 (기동 시 컨트롤 플레인이 늦게 뜨는 경우 재시도)
	if err := utils.RetryWithBackoff(context.Background(), utils.DefaultRetryConfig, db.Ping); err != nil {
		return err
	}

	c.db = db

	// 레포지토리 초기화
	c.repository = persistence.NewMySQLRepository(c.db, c.logger)

	return nil
}

// initializeServices는 서비스들을 초기화합니다
func (c *Container) initializeServices() error {
	// 헬스 서비스
	c.healthService = health.NewHealthService(c.clock, c.logger)

	// 라이브 디바이스 경계
	c.deviceQuerier = netdev.NewNetlinkQuerier(c.fileSystem, c.logger)
	c.deviceController = netdev.NewNetlinkController(c.fileSystem, c.logger)
	c.dhcpTracker = netdev.NewFileDHCPTracker(c.fileSystem, c.logger, c.config.Agent.DHCPTrackingDir)

	// 실행 설정 레지스트리
	running, err := persistence.NewYAMLRunningConfigStore(
		c.fileSystem,
		c.logger,
		c.config.Agent.RunningConfigPath,
		c.config.Agent.ConfDir,
		c.config.Agent.UnifiedPersistence,
	)
	if err != nil {
		return err
	}
	c.runningConfig = running

	// 트랜잭션 팩토리
	c.txFactory = ifcfg.NewTransactionFactory(
		c.fileSystem,
		c.commandExecutor,
		selinux.NewRestoreconRelabeler(c.commandExecutor, c.logger),
		c.runningConfig,
		c.deviceQuerier,
		c.deviceController,
		c.runningConfig,
		c.dhcpTracker,
		c.logger,
		c.config.Agent.ConfDir,
		c.config.Agent.BackupDirectory,
		c.config.Agent.CommandTimeout,
	)

	return nil
}

// initializeUseCases는 유스케이스들을 초기화합니다
func (c *Container) initializeUseCases() error {
	c.reconcileNetworkUseCase = usecases.NewReconcileNetworkUseCase(
		c.repository,
		c.txFactory,
		c.runningConfig,
		c.logger,
	)

	c.teardownNetworkUseCase = usecases.NewTeardownNetworkUseCase(
		c.repository,
		c.txFactory,
		c.runningConfig,
		c.logger,
	)

	return nil
}

// RecoverPersistentBackup은 이전 세션이 커밋하지 못한 변경을 되돌립니다
func (c *Container) RecoverPersistentBackup() error {
	return c.txFactory.BeginRecovery().RestorePersistentBackup()
}

// buildDSN은 데이터베이스 연결 문자열을 생성합니다
func (c *Container) buildDSN() string {
	cfg := c.config.Database
	return cfg.User + ":" + cfg.Password + "@tcp(" + cfg.Host + ":" + cfg.Port + ")/" + cfg.Database + "?parseTime=true"
}

// GetConfig는 설정을 반환합니다
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetOSDetector는 OS 감지기를 반환합니다
func (c *Container) GetOSDetector() interfaces.OSDetector {
	return c.osDetector
}

// GetHealthService는 헬스 서비스를 반환합니다
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetReconcileNetworkUseCase는 네트워크 적용 유스케이스를 반환합니다
func (c *Container) GetReconcileNetworkUseCase() *usecases.ReconcileNetworkUseCase {
	return c.reconcileNetworkUseCase
}

// GetTeardownNetworkUseCase는 네트워크 제거 유스케이스를 반환합니다
func (c *Container) GetTeardownNetworkUseCase() *usecases.TeardownNetworkUseCase {
	return c.teardownNetworkUseCase
}

// Close는 컨테이너를 정리합니다
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
