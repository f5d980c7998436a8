package constants

// 시스템 경로 상수들
const (
	// ifcfg 설정 파일 디렉토리 (RHEL 계열)
	NetConfDir = "/etc/sysconfig/network-scripts"

	// ifcfg 파일 이름 접두사
	NetConfPrefix = "ifcfg-"

	// 트랜잭션 간 생존하는 온디스크 백업 저장소
	DefaultBackupDir = "/var/lib/hostnet/netconfback"

	// 적용된 실행 설정(running config) 레지스트리 파일
	DefaultRunningConfigPath = "/var/lib/hostnet/running_config.yaml"

	// DHCP 비동기 주소 추적 마커 디렉토리
	DHCPTrackingDir = "/run/hostnet/trackedInterfaces"

	// OS 감지 관련 경로
	OSReleaseFile = "/etc/os-release"

	// 시스템 네트워크 경로
	SysClassNet = "/sys/class/net"

	// 본딩 드라이버 마스터 목록
	BondingMasters = "/sys/class/net/bonding_masters"
)

// 네트워크 설정 관련 상수들
const (
	// ifcfg 파일 권한 (RHEL initscripts가 기대하는 0664)
	ConfigFilePermission = 0o664

	// 백업 파일 권한
	BackupFilePermission = 0o644

	// 기본 MTU
	DefaultMTU = 1500

	// 타임아웃 (초)
	DefaultCommandTimeout = 30
	LinkUpWaitTimeout     = 10
	AddrWaitTimeout       = 60
)

// 기본값 상수들
const (
	// 에이전트 버전 (설정 파일 서명에 포함됨)
	AgentVersion = "0.6.0"

	// 데이터베이스 기본값
	DefaultDBHost = "localhost"
	DefaultDBPort = "3306"
	DefaultDBName = "hostnet"

	// 에이전트 기본값
	DefaultPollInterval = "30s"
	DefaultLogLevel     = "info"
	DefaultHealthPort   = "8080"
)
