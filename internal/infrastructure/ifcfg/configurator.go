package ifcfg

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// VLAN-over-bond 활성화 시 hwaddr 동기화 재시도 한도
const maxBondSyncAttempts = 5

// Configurator는 ifcfg 기반 네트워크 트랜잭션 구현입니다.
// 하나의 인스턴스가 하나의 리컨실리에이션 패스를 담당하며, Commit
// 또는 Rollback 이후에는 어떤 변형 호출도 허용하지 않습니다.
type Configurator struct {
	writer       *ConfigWriter
	activator    *Activator
	acquirer     interfaces.OwnershipAcquirer
	devices      interfaces.DeviceQuerier
	control      interfaces.DeviceController
	running      interfaces.RunningConfigStore
	sourceRoutes interfaces.SourceRouteConfigurer
	dhcpTracker  interfaces.DHCPTracker
	fileSystem   interfaces.FileSystem
	logger       *logrus.Logger
	confDir      string
}

// NewConfigurator는 새 트랜잭션을 시작하는 Configurator를 생성합니다
func NewConfigurator(
	writer *ConfigWriter,
	activator *Activator,
	acquirer interfaces.OwnershipAcquirer,
	devices interfaces.DeviceQuerier,
	control interfaces.DeviceController,
	running interfaces.RunningConfigStore,
	sourceRoutes interfaces.SourceRouteConfigurer,
	dhcpTracker interfaces.DHCPTracker,
	fs interfaces.FileSystem,
	logger *logrus.Logger,
	confDir string,
) *Configurator {
	return &Configurator{
		writer:       writer,
		activator:    activator,
		acquirer:     acquirer,
		devices:      devices,
		control:      control,
		running:      running,
		sourceRoutes: sourceRoutes,
		dhcpTracker:  dhcpTracker,
		fileSystem:   fs,
		logger:       logger,
		confDir:      confDir,
	}
}

// ensureTransaction은 트랜잭션이 아직 유효한지 확인합니다
func (c *Configurator) ensureTransaction() error {
	if c.writer == nil {
		return errors.NewProgrammingError("종료된 트랜잭션에 대한 호출")
	}
	return nil
}

// acquireOwnership은 다른 매니저가 소유한 설정 파일을 인수합니다.
// 이미 소유 중이면 아무 일도 하지 않습니다.
func (c *Configurator) acquireOwnership(ctx context.Context, device string) error {
	if c.writer.OwnedDevice(device) {
		return nil
	}
	return c.acquirer.Acquire(ctx, device)
}

// ConfigureBridge는 브리지를 설정합니다. 포트가 있으면 브리지가 내려간
// 상태에서 포트 체인을 함께 설정한 뒤 브리지를 올립니다.
func (c *Configurator) ConfigureBridge(ctx context.Context, bridge *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, bridge.Name); err != nil {
		return err
	}
	if err := c.writer.AddBridge(bridge); err != nil {
		return err
	}

	c.activator.Deactivate(ctx, bridge.Name)

	if bridge.Port != nil {
		if err := c.configurePort(ctx, bridge.Port); err != nil {
			return err
		}
	}
	c.addSourceRoute(bridge)
	return c.activator.Activate(ctx, bridge)
}

// ConfigureVlan은 VLAN과 그 하위 디바이스를 설정합니다. 본드 위의
// VLAN은 hwaddr 동기화 재시도 경로로 활성화됩니다.
func (c *Configurator) ConfigureVlan(ctx context.Context, vlan *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if !c.writer.OwnedDevice(vlan.Name) {
		// VLAN은 비표준 파일 이름(물리 디바이스 참조)으로도 정의될 수 있음
		if err := c.acquirer.AcquireVlan(ctx, vlan.Name); err != nil {
			return err
		}
	}
	if err := c.writer.AddVlan(vlan); err != nil {
		return err
	}

	if vlan.Device != nil {
		if err := c.configurePort(ctx, vlan.Device); err != nil {
			return err
		}
	}
	c.addSourceRoute(vlan)

	if vlan.Device != nil && vlan.Device.Kind == entities.KindBond {
		return c.ifupVlanWithBondSync(ctx, vlan)
	}
	return c.activator.Activate(ctx, vlan)
}

// ConfigureBond는 본드와 슬레이브들을 설정합니다. 본드 위에 VLAN이
// 이미 쌓여 있으면 슬레이브를 내리지 않아 VLAN 트래픽을 보존합니다.
func (c *Configurator) ConfigureBond(ctx context.Context, bond *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, bond.Name); err != nil {
		return err
	}
	if err := c.writer.AddBonding(bond); err != nil {
		return err
	}
	if err := c.control.EnsureBondMaster(bond.Name); err != nil {
		return err
	}

	if !c.devices.IsVlanned(bond.Name) {
		for _, slave := range bond.Slaves {
			c.activator.Deactivate(ctx, slave.Name)
		}
	}
	for _, slave := range bond.Slaves {
		if err := c.ConfigureNic(ctx, slave); err != nil {
			return err
		}
	}
	c.addSourceRoute(bond)

	if err := c.activator.Activate(ctx, bond); err != nil {
		return err
	}
	// 본딩 드라이버가 집계를 마치고 링크를 올릴 때까지 잠시 걸립니다
	c.activator.WaitForLinkUp(ctx, bond.Name)

	c.running.SetBonding(bond.Name, interfaces.BondingAttrs{
		Options: bond.Options,
		Slaves:  bond.SlaveNames(),
		Switch:  "legacy",
	})
	return nil
}

// ConfigureNic은 NIC을 설정합니다. 본드 슬레이브는 파일만 쓰고 본드의
// 활성화가 함께 올립니다.
func (c *Configurator) ConfigureNic(ctx context.Context, nic *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, nic.Name); err != nil {
		return err
	}
	if err := c.writer.AddNic(nic); err != nil {
		return err
	}
	c.addSourceRoute(nic)

	if nic.Bond() == nil {
		if !c.devices.IsVlanned(nic.Name) {
			c.activator.Deactivate(ctx, nic.Name)
		}
		return c.activator.Activate(ctx, nic)
	}
	return nil
}

// configurePort는 상위 디바이스 아래에 소속될 엔티티를 종류에 맞게
// 설정합니다
func (c *Configurator) configurePort(ctx context.Context, port *entities.NetworkEntity) error {
	switch port.Kind {
	case entities.KindVlan:
		return c.ConfigureVlan(ctx, port)
	case entities.KindBond:
		return c.ConfigureBond(ctx, port)
	case entities.KindNic:
		return c.ConfigureNic(ctx, port)
	}
	return errors.NewValidationError(
		fmt.Sprintf("포트가 될 수 없는 엔티티 종류: %s", port.Kind), nil)
}

// ifupVlanWithBondSync는 본드 위의 VLAN을 올리되, VLAN의 hwaddr가
// 본드 첫 슬레이브의 hwaddr와 일치할 때까지 제한 횟수 내에서
// 내렸다 올리기를 반복합니다. 본딩 드라이버가 슬레이브 주소를 본드로
// 전파하기 전에 VLAN이 생성되면 주소가 어긋난 채 남을 수 있습니다.
func (c *Configurator) ifupVlanWithBondSync(ctx context.Context, vlan *entities.NetworkEntity) error {
	bond := vlan.Device
	slaves, err := c.devices.BondSlaves(bond.Name)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("본드 %s 슬레이브 조회 실패", bond.Name), err)
	}
	if len(slaves) == 0 {
		return c.activator.Activate(ctx, vlan)
	}

	for attempt := 1; attempt <= maxBondSyncAttempts; attempt++ {
		metrics.RecordBondResyncAttempt()
		if err := c.activator.BringUp(ctx, vlan); err != nil {
			return err
		}

		vlanAddr, err := c.devices.HardwareAddr(vlan.Name)
		if err != nil {
			return errors.NewSystemError(fmt.Sprintf("%s hwaddr 조회 실패", vlan.Name), err)
		}
		slaveAddr, err := c.devices.HardwareAddr(slaves[0])
		if err != nil {
			return errors.NewSystemError(fmt.Sprintf("%s hwaddr 조회 실패", slaves[0]), err)
		}
		if vlanAddr == slaveAddr {
			return nil
		}

		c.logger.WithFields(logrus.Fields{
			"vlan":    vlan.Name,
			"bond":    bond.Name,
			"attempt": attempt,
		}).Warn("VLAN hwaddr가 본드 슬레이브와 불일치, 재시도")
		c.activator.Deactivate(ctx, vlan.Name)
	}
	return errors.NewBondingSyncError(vlan.Name, bond.Name)
}

// addSourceRoute는 정적 주소에는 소스 라우트 파일을 쓰고, DHCP
// 주소에는 비동기 주소 추적을 등록합니다. 상위 디바이스에 소속된
// 엔티티의 라우팅은 상위가 담당합니다.
func (c *Configurator) addSourceRoute(e *entities.NetworkEntity) {
	if e.IPv4.BootProto == entities.BootProtoDHCP {
		c.dhcpTracker.Track(e.Name)
		return
	}
	if e.Master != nil || e.IPv4.Address == "" || e.IPv4.Netmask == "" {
		return
	}
	if e.IPv4.Gateway == "" || e.IPv4.Gateway == "0.0.0.0" {
		c.logger.WithField("device", e.Name).Debug("게이트웨이가 없어 소스 라우트 생략")
		return
	}
	if err := c.sourceRoutes.Configure(e.Name, e.IPv4.Address, e.IPv4.Netmask, e.IPv4.Gateway); err != nil {
		c.logger.WithError(err).WithField("device", e.Name).Warn("소스 라우트 설정 실패")
	}
}

// removeSourceRoute는 정적 소스 라우트를 제거합니다
func (c *Configurator) removeSourceRoute(e *entities.NetworkEntity) {
	if e.IPv4.BootProto == entities.BootProtoDHCP || e.Master != nil {
		return
	}
	if err := c.sourceRoutes.Remove(e.Name); err != nil {
		c.logger.WithError(err).WithField("device", e.Name).Warn("소스 라우트 제거 실패")
	}
}

// trackIfDynamic은 DHCP 디바이스를 제거 전에 주소 추적 대상으로
// 등록합니다 (잔류 임대 정리가 추적 마커를 따라갑니다)
func (c *Configurator) trackIfDynamic(e *entities.NetworkEntity) {
	if e.UsesDHCP() {
		c.dhcpTracker.Track(e.Name)
	}
}

// ifaceDownAndCleanup은 제거 공통 전처리입니다. 다른 디바이스가 아직
// 이 디바이스를 사용 중이면(강제가 아닌 한) 내리지 않고 false를
// 반환합니다.
func (c *Configurator) ifaceDownAndCleanup(ctx context.Context, e *entities.NetworkEntity, force bool) bool {
	toBeRemoved := force || c.devices.UsageCount(e.Name) == 0
	c.trackIfDynamic(e)
	if toBeRemoved {
		c.activator.Deactivate(ctx, e.Name)
	}
	c.removeSourceRoute(e)
	return toBeRemoved
}

// RemoveBridge는 브리지와 그 포트 체인을 제거합니다
func (c *Configurator) RemoveBridge(ctx context.Context, bridge *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, bridge.Name); err != nil {
		return err
	}
	c.trackIfDynamic(bridge)
	c.activator.Deactivate(ctx, bridge.Name)
	c.removeSourceRoute(bridge)

	// ifdown만으로는 NIC 없는 브리지가 커널에서 사라지지 않습니다
	if err := c.control.DeleteBridge(bridge.Name); err != nil {
		c.logger.WithError(err).WithField("device", bridge.Name).Warn("브리지 제거 실패")
	}
	if err := c.writer.RemoveBridge(bridge.Name); err != nil {
		return err
	}
	c.dropStalePortReferences(bridge)

	if bridge.Port != nil {
		return c.removePort(ctx, bridge.Port)
	}
	return nil
}

// dropStalePortReferences는 선언된 포트 체인 밖에서 브리지를 BRIDGE=로
// 참조하는 설정 파일들을 찾아 참조를 걷어냅니다. 다른 매니저가 붙여 둔
// 포트가 사라진 브리지에 재부팅 시 다시 붙으려는 것을 막습니다.
func (c *Configurator) dropStalePortReferences(bridge *entities.NetworkEntity) {
	ports, err := c.writer.ConfiguredPorts(bridge.Name)
	if err != nil {
		c.logger.WithError(err).WithField("bridge", bridge.Name).Debug("포트 참조 탐색 실패")
		return
	}
	for _, port := range ports {
		if bridge.Port != nil && port == bridge.Port.Name {
			continue
		}
		if err := c.writer.DropBridgeParameter(port); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"bridge": bridge.Name,
				"port":   port,
			}).Warn("포트의 브리지 참조 제거 실패")
		}
	}
}

// RemoveVlan은 VLAN과 그 하위 디바이스를 제거합니다
func (c *Configurator) RemoveVlan(ctx context.Context, vlan *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if !c.writer.OwnedDevice(vlan.Name) {
		// 비표준 파일 이름으로 남은 VLAN 설정도 정규 경로로 모아 지웁니다
		if err := c.acquirer.AcquireVlan(ctx, vlan.Name); err != nil {
			return err
		}
	}
	c.trackIfDynamic(vlan)
	c.activator.Deactivate(ctx, vlan.Name)
	c.removeSourceRoute(vlan)
	if err := c.writer.RemoveVlan(vlan.Name); err != nil {
		return err
	}

	if vlan.Device != nil {
		return c.removePort(ctx, vlan.Device)
	}
	return nil
}

// RemoveBond는 본드를 제거합니다. 아직 의존자가 남아 있으면 본드는
// 유지되고 남은 의존자에게 필요한 최소 MTU로만 줄입니다.
func (c *Configurator) RemoveBond(ctx context.Context, bond *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, bond.Name); err != nil {
		return err
	}

	if c.ifaceDownAndCleanup(ctx, bond, false) {
		if err := c.writer.RemoveBonding(bond.Name); err != nil {
			return err
		}

		if bond.OnRemovalJustDetach {
			// 네트워크에서만 분리: 주소와 상위 소속을 비운 채 본드는 재생성
			detached := *bond
			detached.IPv4 = entities.IPv4Config{}
			detached.IPv6 = entities.IPv6Config{}
			detached.Master = nil
			return c.ConfigureBond(ctx, &detached)
		}

		if c.control.IsBondMaster(bond.Name) {
			if err := c.control.RemoveBondMaster(bond.Name); err != nil {
				c.logger.WithError(err).WithField("device", bond.Name).Warn("본드 등록 해제 실패")
			}
		}
		for _, slave := range bond.Slaves {
			if err := c.RemoveNic(ctx, slave, false); err != nil {
				return err
			}
		}
		c.running.RemoveBonding(bond.Name)
		return nil
	}

	c.shrinkMTUForDependents(bond.Name, bond.SlaveNames())
	if bond.Bridge() != nil {
		return c.writer.DropBridgeParameter(bond.Name)
	}
	return nil
}

// RemoveNic은 NIC 설정을 분리 상태로 되돌립니다. 물리 디바이스가
// 커널에 남아 있으면 분리 설정으로 다시 올립니다.
func (c *Configurator) RemoveNic(ctx context.Context, nic *entities.NetworkEntity, forceIfUsed bool) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, nic.Name); err != nil {
		return err
	}

	if c.ifaceDownAndCleanup(ctx, nic, forceIfUsed) {
		if err := c.writer.RemoveNic(nic.Name); err != nil {
			return err
		}
		if c.devices.Exists(nic.Name) {
			detached := entities.NetworkEntity{Kind: entities.KindNic, Name: nic.Name}
			return c.activator.BringUp(ctx, &detached)
		}
		c.logger.WithField("device", nic.Name).Warn("호스트에 없는 NIC, 기동 생략")
		return nil
	}

	c.shrinkMTUForDependents(nic.Name, nil)
	if nic.Bridge() != nil {
		return c.writer.DropBridgeParameter(nic.Name)
	}
	return nil
}

// removePort는 상위 디바이스 아래에 소속되었던 엔티티를 종류에 맞게
// 제거합니다
func (c *Configurator) removePort(ctx context.Context, port *entities.NetworkEntity) error {
	switch port.Kind {
	case entities.KindVlan:
		return c.RemoveVlan(ctx, port)
	case entities.KindBond:
		return c.RemoveBond(ctx, port)
	case entities.KindNic:
		return c.RemoveNic(ctx, port, false)
	}
	return errors.NewValidationError(
		fmt.Sprintf("포트가 될 수 없는 엔티티 종류: %s", port.Kind), nil)
}

// shrinkMTUForDependents는 디바이스에 남은 VLAN 의존자들이 필요로 하는
// 최대 MTU를 계산하여, 현재 MTU보다 작을 때만 설정 파일과 라이브
// 디바이스에 반영합니다. 본드는 슬레이브 파일들도 같은 값으로 맞춥니다
// (다음 ifup에서 슬레이브의 옛 MTU가 되살아나지 않도록).
func (c *Configurator) shrinkMTUForDependents(device string, slaves []string) {
	live, err := c.devices.LiveMTU(device)
	if err != nil {
		c.logger.WithError(err).WithField("device", device).Warn("MTU 조회 실패")
		return
	}

	required := 0
	for _, vlan := range c.devices.VlanDevsFor(device) {
		if mtu, err := c.devices.LiveMTU(vlan); err == nil && mtu > required {
			required = mtu
		}
	}
	if required == 0 || required >= live {
		return
	}

	if len(slaves) > 0 {
		err = c.writer.SetBondingMTU(device, slaves, required)
	} else {
		err = c.writer.SetIfaceMTU(device, required)
	}
	if err != nil {
		c.logger.WithError(err).WithField("device", device).Warn("설정 파일 MTU 갱신 실패")
		return
	}
	if err := c.control.SetLinkMTU(device, required); err != nil {
		c.logger.WithError(err).WithField("device", device).Warn("라이브 MTU 변경 실패")
	}
}

// EditBonding은 본드 멤버십을 최소 교란으로 편집합니다. 빠지는
// 슬레이브만 내려서 분리하고, 새로 들어오는 슬레이브만 올리며,
// 유지되는 슬레이브의 설정 파일은 다시 쓰되 디바이스는 건드리지
// 않습니다.
func (c *Configurator) EditBonding(ctx context.Context, bond *entities.NetworkEntity) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.acquireOwnership(ctx, bond.Name); err != nil {
		return err
	}

	currentList, err := c.devices.BondSlaves(bond.Name)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("본드 %s 슬레이브 조회 실패", bond.Name), err)
	}
	current := make(map[string]bool, len(currentList))
	for _, name := range currentList {
		current[name] = true
	}
	desired := make(map[string]bool, len(bond.Slaves))
	for _, slave := range bond.Slaves {
		desired[slave.Name] = true
	}

	// 관리 밖에서 만들어졌거나 옵션이 어긋난 본드는 파일을 다시 씁니다
	rewritten := false
	hasFile := c.writer.HasConfFile(bond.Name)
	optionsApplied := false
	if hasFile {
		optionsApplied, err = c.bondOptionsApplied(bond)
		if err != nil {
			return err
		}
	}
	if !hasFile || !optionsApplied {
		if hasFile && bond.Master == nil {
			// 브리지 소속이 살아 있으면 다시 쓰는 파일에도 유지
			if bridge := c.devices.BridgedNetworkFor(bond.Name); bridge != "" {
				bond.Master = &entities.NetworkEntity{Kind: entities.KindBridge, Name: bridge}
			}
		}
		if err := c.writer.AddBonding(bond); err != nil {
			return err
		}
		rewritten = true
	}

	var leaving []string
	for name := range current {
		if !desired[name] {
			leaving = append(leaving, name)
		}
	}
	sort.Strings(leaving)
	for _, name := range leaving {
		c.activator.Deactivate(ctx, name)
		nic := entities.NetworkEntity{Kind: entities.KindNic, Name: name}
		if err := c.RemoveNic(ctx, &nic, false); err != nil {
			return err
		}
	}

	for _, slave := range bond.Slaves {
		joining := !current[slave.Name]
		if joining {
			// 슬레이브로 편입되려면 디바이스가 내려가 있어야 합니다
			c.activator.Deactivate(ctx, slave.Name)
		}
		if err := c.writer.AddNic(slave); err != nil {
			return err
		}
		if joining {
			if err := c.activator.BringUp(ctx, slave); err != nil {
				return err
			}
		}
	}

	if rewritten {
		c.activator.Deactivate(ctx, bond.Name)
		// 모드를 먼저 되돌려 드라이버의 모드별 기본값을 복원한 뒤 재적용
		if err := c.control.SetBondOptions(bond.Name, entities.ParseBondOptions(bond.Options)); err != nil {
			return err
		}
		if err := c.activator.ExecIfup(ctx, bond.Name); err != nil {
			return err
		}
	}

	c.running.SetBonding(bond.Name, interfaces.BondingAttrs{
		Options: bond.Options,
		Slaves:  bond.SlaveNames(),
		Switch:  "legacy",
	})
	return nil
}

// bondOptionsApplied는 원하는 본드 옵션들이 라이브 본드에 모두 적용되어
// 있는지 확인합니다. 드라이버가 노출하는 값은 이름과 숫자를 함께 담은
// 문자열("802.3ad 4")이므로 필드 포함 여부로 비교합니다.
func (c *Configurator) bondOptionsApplied(bond *entities.NetworkEntity) (bool, error) {
	live, err := c.devices.BondOptions(bond.Name)
	if err != nil {
		return false, errors.NewSystemError(
			fmt.Sprintf("본드 %s 옵션 조회 실패", bond.Name), err)
	}
	for key, want := range entities.ParseBondOptions(bond.Options) {
		raw, ok := live[key]
		if !ok || !containsField(raw, want) {
			return false, nil
		}
	}
	return true, nil
}

// Commit은 변경을 확정합니다. 커밋된 상태는 복구 대상이 아니므로
// 온디스크 백업 계층을 함께 비웁니다.
func (c *Configurator) Commit() error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.running.Save(); err != nil {
		return err
	}
	if err := c.writer.ClearBackups(); err != nil {
		return err
	}
	c.writer = nil
	return nil
}

// Rollback은 트랜잭션의 모든 파일 변형을 되돌리고 영향 받은
// 디바이스들을 복원된 설정으로 재기동합니다
func (c *Configurator) Rollback() error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	metrics.RecordRollback()

	ctx := context.Background()
	paths := c.writer.TrackedPaths()

	c.activator.StopDevices(ctx, c.fileSystem, c.confDir, paths)
	if err := c.writer.RestoreAtomicBackup(); err != nil {
		return err
	}
	c.activator.StartDevices(ctx, c.fileSystem, c.confDir, paths)

	if err := c.writer.ClearBackups(); err != nil {
		return err
	}
	c.writer = nil
	return nil
}

// RestorePersistentBackup은 이전 세션이 커밋하지 못한 변경을 온디스크
// 백업 계층으로부터 되돌립니다 (에이전트 기동 시 1회 수행)
func (c *Configurator) RestorePersistentBackup() error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := c.writer.LoadBackups(); err != nil {
		return err
	}
	if len(c.writer.TrackedPaths()) == 0 {
		return nil
	}

	c.logger.Warn("커밋되지 않은 이전 세션 변경 감지, 온디스크 백업 복원")
	return c.Rollback()
}

// containsField는 공백으로 구분된 문자열에 필드가 포함되는지 확인합니다
func containsField(raw, want string) bool {
	for _, field := range strings.Fields(raw) {
		if field == want {
			return true
		}
	}
	return false
}
