package interfaces

import (
	"context"

	"hostnet-agent/internal/domain/entities"
)

// DeviceQuerier는 커널의 라이브 디바이스 상태를 조회하는 인터페이스입니다.
// 이 코어는 커널 질의를 직접 수행하지 않고 전부 이 경계를 통해 위임합니다.
type DeviceQuerier interface {
	// Exists는 디바이스가 커널에 존재하는지 확인합니다
	Exists(name string) bool

	// HardwareAddr은 디바이스의 하드웨어 주소를 반환합니다
	HardwareAddr(name string) (string, error)

	// OperUp은 디바이스 링크가 올라와 있는지 확인합니다
	OperUp(name string) bool

	// HasIPv4Addr은 디바이스에 IPv4 주소가 할당되었는지 확인합니다
	HasIPv4Addr(name string) bool

	// HasIPv6Addr은 링크 로컬을 제외한 IPv6 주소가 할당되었는지 확인합니다
	HasIPv6Addr(name string) bool

	// BondSlaves는 본드의 현재(라이브) 슬레이브 목록을 반환합니다
	BondSlaves(name string) ([]string, error)

	// BondOptions는 본드에 실제 적용된 옵션들을 반환합니다.
	// 값은 드라이버가 노출하는 원본 문자열입니다 (예: mode의 "802.3ad 4")
	BondOptions(name string) (map[string]string, error)

	// VlanDevsFor는 디바이스 위에 쌓인 VLAN 디바이스 이름들을 반환합니다
	VlanDevsFor(name string) []string

	// IsVlanned는 디바이스 위에 VLAN이 하나라도 있는지 확인합니다
	IsVlanned(name string) bool

	// IsBridge는 디바이스가 브리지인지 확인합니다
	IsBridge(name string) bool

	// LiveMTU는 디바이스의 현재 MTU를 반환합니다
	LiveMTU(name string) (int, error)

	// UsageCount는 디바이스를 아직 사용 중인 의존자 수를 반환합니다
	UsageCount(name string) int

	// BridgedNetworkFor는 디바이스를 포트로 가진 브리지 이름을 반환합니다
	// (브리지에 소속되지 않았으면 빈 문자열)
	BridgedNetworkFor(name string) string
}

// DeviceController는 라이브 디바이스 상태를 변경하는 인터페이스입니다
type DeviceController interface {
	// SetLinkMTU는 디바이스의 MTU를 라이브로 변경합니다
	// (본드에 적용하면 커널이 모든 슬레이브에 전파합니다)
	SetLinkMTU(name string, mtu int) error

	// SetBondOptions는 본드 옵션 전체를 다시 적용합니다. 모드를 먼저
	// 기록하여 드라이버가 모드별 기본값을 복원하게 한 뒤 명시된
	// 옵션들을 덮어씁니다
	SetBondOptions(name string, options map[string]string) error

	// EnsureBondMaster는 본드 디바이스를 커널에 등록합니다 (이미 있으면 무시)
	EnsureBondMaster(name string) error

	// RemoveBondMaster는 본드 디바이스를 커널에서 제거합니다
	RemoveBondMaster(name string) error

	// IsBondMaster는 본드가 커널에 등록되어 있는지 확인합니다
	IsBondMaster(name string) bool

	// DeleteBridge는 브리지 디바이스를 커널에서 제거합니다
	// (ifdown만으로는 NIC 없는 브리지가 제거되지 않음)
	DeleteBridge(name string) error
}

// OwnershipAcquirer는 다른 네트워크 매니저가 소유한 디바이스의 설정
// 파일을 이 시스템의 관리 하에 가져오는 게이트입니다
type OwnershipAcquirer interface {
	// Acquire는 디바이스의 기존 설정 파일을 표준 경로로 가져옵니다
	Acquire(ctx context.Context, device string) error

	// AcquireVlan은 비표준 이름으로 정의된 VLAN 설정까지 가져옵니다
	AcquireVlan(ctx context.Context, device string) error
}

// BondingAttrs는 실행 설정 레지스트리에 기록되는 본드 속성입니다
type BondingAttrs struct {
	Options string   `yaml:"options"`
	Slaves  []string `yaml:"nics"`
	Switch  string   `yaml:"switch"`
}

// NetworkAttrs는 실행 설정 레지스트리에 기록되는 네트워크 속성입니다
type NetworkAttrs struct {
	Kind    string `yaml:"kind"`
	Device  string `yaml:"device,omitempty"`
	Bonding string `yaml:"bonding,omitempty"`
	Vlan    int    `yaml:"vlan,omitempty"`
	Bridged bool   `yaml:"bridged"`
}

// RunningConfigStore는 호스트에 실제 적용된 설정의 레지스트리입니다.
// Set/Remove는 메모리만 변경하고 Save가 트랜잭션 커밋 시 영속화합니다.
type RunningConfigStore interface {
	SetBonding(name string, attrs BondingAttrs)
	RemoveBonding(name string)
	SetNetwork(name string, attrs NetworkAttrs)
	RemoveNetwork(name string)
	Save() error
}

// UnifiedConfigTracker는 별도의 통합 복구 경로가 관리하는 설정 파일
// 집합을 노출합니다. 이 집합에 속한 경로는 온디스크 백업 대상에서
// 제외됩니다 (이중 복원 방지).
type UnifiedConfigTracker interface {
	OwnedPaths() map[string]struct{}
}

// SourceRouteConfigurer는 정적 소스 라우트 설정 싱크입니다
type SourceRouteConfigurer interface {
	Configure(device, address, netmask, gateway string) error
	Remove(device string) error
}

// DHCPTracker는 DHCP로 전환되는 디바이스를 비동기 주소 추적 대상으로
// 등록합니다
type DHCPTracker interface {
	Track(device string)
}

// NetworkTransaction은 한 번의 리컨실리에이션 패스에 대응하는
// 트랜잭션입니다. Commit 또는 Rollback 이후의 모든 호출은
// Programming 에러를 반환합니다.
type NetworkTransaction interface {
	ConfigureNic(ctx context.Context, nic *entities.NetworkEntity) error
	ConfigureBond(ctx context.Context, bond *entities.NetworkEntity) error
	ConfigureBridge(ctx context.Context, bridge *entities.NetworkEntity) error
	ConfigureVlan(ctx context.Context, vlan *entities.NetworkEntity) error

	RemoveNic(ctx context.Context, nic *entities.NetworkEntity, forceIfUsed bool) error
	RemoveBond(ctx context.Context, bond *entities.NetworkEntity) error
	RemoveBridge(ctx context.Context, bridge *entities.NetworkEntity) error
	RemoveVlan(ctx context.Context, vlan *entities.NetworkEntity) error

	EditBonding(ctx context.Context, bond *entities.NetworkEntity) error

	Commit() error
	Rollback() error
}

// TransactionFactory는 패스마다 새로운 트랜잭션을 생성합니다
type TransactionFactory interface {
	Begin() NetworkTransaction
}
