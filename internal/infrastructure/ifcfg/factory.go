package ifcfg

import (
	"time"

	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// TransactionFactory는 리컨실리에이션 패스마다 독립된 백업 상태를 가진
// 트랜잭션을 만들어 냅니다
type TransactionFactory struct {
	fileSystem      interfaces.FileSystem
	commandExecutor interfaces.CommandExecutor
	relabeler       interfaces.Relabeler
	unified         interfaces.UnifiedConfigTracker
	devices         interfaces.DeviceQuerier
	control         interfaces.DeviceController
	running         interfaces.RunningConfigStore
	dhcpTracker     interfaces.DHCPTracker
	logger          *logrus.Logger
	confDir         string
	backupDir       string
	commandTimeout  time.Duration
}

// NewTransactionFactory는 새로운 TransactionFactory를 생성합니다
func NewTransactionFactory(
	fs interfaces.FileSystem,
	executor interfaces.CommandExecutor,
	relabeler interfaces.Relabeler,
	unified interfaces.UnifiedConfigTracker,
	devices interfaces.DeviceQuerier,
	control interfaces.DeviceController,
	running interfaces.RunningConfigStore,
	dhcpTracker interfaces.DHCPTracker,
	logger *logrus.Logger,
	confDir string,
	backupDir string,
	commandTimeout time.Duration,
) *TransactionFactory {
	return &TransactionFactory{
		fileSystem:      fs,
		commandExecutor: executor,
		relabeler:       relabeler,
		unified:         unified,
		devices:         devices,
		control:         control,
		running:         running,
		dhcpTracker:     dhcpTracker,
		logger:          logger,
		confDir:         confDir,
		backupDir:       backupDir,
		commandTimeout:  commandTimeout,
	}
}

// Begin은 빈 백업 상태의 새 트랜잭션을 시작합니다
func (f *TransactionFactory) Begin() interfaces.NetworkTransaction {
	return f.beginConfigurator()
}

// BeginRecovery는 기동 시 복구 전용 트랜잭션을 시작합니다
func (f *TransactionFactory) BeginRecovery() *Configurator {
	return f.beginConfigurator()
}

func (f *TransactionFactory) beginConfigurator() *Configurator {
	writer := NewConfigWriter(f.fileSystem, f.relabeler, f.unified, f.logger, f.confDir, f.backupDir)
	activator := NewActivator(f.commandExecutor, f.fileSystem, f.devices, f.control, f.logger, f.commandTimeout)
	acquirer := NewAcquirer(f.fileSystem, f.logger, f.confDir)
	sourceRoutes := NewSourceRouteWriter(writer, f.logger, f.confDir)

	return NewConfigurator(
		writer,
		activator,
		acquirer,
		f.devices,
		f.control,
		f.running,
		sourceRoutes,
		f.dhcpTracker,
		f.fileSystem,
		f.logger,
		f.confDir,
	)
}
