package entities

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// EntityKind는 네트워크 엔티티의 종류를 나타냅니다
type EntityKind string

const (
	KindNic    EntityKind = "nic"
	KindBond   EntityKind = "bond"
	KindBridge EntityKind = "bridge"
	KindVlan   EntityKind = "vlan"
)

// BootProto 값들
const (
	BootProtoNone = "none"
	BootProtoDHCP = "dhcp"
)

var (
	ErrInvalidDeviceName = errors.New("유효하지 않은 디바이스 이름")
	ErrInvalidVlanTag    = errors.New("유효하지 않은 VLAN 태그")
	ErrMissingSlaves     = errors.New("본드에 슬레이브가 없음")
	ErrMissingVlanDevice = errors.New("VLAN의 하위 디바이스가 없음")
)

// 리눅스 IFNAMSIZ(15자) 제한을 따르는 디바이스 이름 패턴
var deviceNamePattern = regexp.MustCompile(`^[^/: \t\n]{1,15}$`)

// IPv4Config는 엔티티의 IPv4 설정입니다
type IPv4Config struct {
	Address      string
	Netmask      string
	Gateway      string
	BootProto    string
	DefaultRoute bool
}

// Defined는 IPv4 설정이 하나라도 지정되었는지 확인합니다
func (c IPv4Config) Defined() bool {
	return c.Address != "" || c.BootProto != ""
}

// IPv6Config는 엔티티의 IPv6 설정입니다
type IPv6Config struct {
	Address  string
	Gateway  string
	Autoconf bool
	DHCPv6   bool
}

// Defined는 IPv6 설정이 하나라도 지정되었는지 확인합니다
func (c IPv6Config) Defined() bool {
	return c.Address != "" || c.Autoconf || c.DHCPv6
}

// NetworkEntity는 호스트에 적용할 네트워크 디바이스의 원하는 상태입니다.
// 클래스 계층 대신 Kind와 종류별 필드(capability set)로 변형을 표현합니다.
type NetworkEntity struct {
	Kind        EntityKind
	Name        string
	IPv4        IPv4Config
	IPv6        IPv6Config
	MTU         int
	Nameservers []string

	// 이 엔티티가 포트/슬레이브로 소속되는 상위 디바이스 (브리지 또는 본드)
	Master *NetworkEntity

	// DHCP 주소 할당을 동기적으로 기다릴지 여부
	BlockingDHCP bool

	// 본드 전용
	Options             string
	Slaves              []*NetworkEntity
	OnRemovalJustDetach bool

	// 브리지 전용
	Port *NetworkEntity
	STP  *bool

	// VLAN 전용
	Device *NetworkEntity
	Tag    int
}

// Validate는 엔티티의 구조적 유효성을 검증합니다
func (e *NetworkEntity) Validate() error {
	if !deviceNamePattern.MatchString(e.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceName, e.Name)
	}
	switch e.Kind {
	case KindBond:
		if len(e.Slaves) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingSlaves, e.Name)
		}
	case KindVlan:
		if e.Device == nil {
			return fmt.Errorf("%w: %s", ErrMissingVlanDevice, e.Name)
		}
		if e.Tag < 0 || e.Tag > 4094 {
			return fmt.Errorf("%w: %d", ErrInvalidVlanTag, e.Tag)
		}
	}
	return nil
}

// UsesDHCP는 어느 한 주소 패밀리라도 DHCP를 요청하는지 확인합니다
func (e *NetworkEntity) UsesDHCP() bool {
	return e.IPv4.BootProto == BootProtoDHCP || e.IPv6.DHCPv6
}

// Bridge는 이 엔티티가 소속된 브리지를 반환합니다 (없으면 nil)
func (e *NetworkEntity) Bridge() *NetworkEntity {
	if e.Master != nil && e.Master.Kind == KindBridge {
		return e.Master
	}
	return nil
}

// Bond는 이 엔티티가 슬레이브로 소속된 본드를 반환합니다 (없으면 nil)
func (e *NetworkEntity) Bond() *NetworkEntity {
	if e.Master != nil && e.Master.Kind == KindBond {
		return e.Master
	}
	return nil
}

// SlaveNames는 본드 슬레이브 이름들을 정렬된 목록으로 반환합니다
func (e *NetworkEntity) SlaveNames() []string {
	names := make([]string, 0, len(e.Slaves))
	for _, s := range e.Slaves {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// VlanName은 하위 디바이스와 태그로 VLAN 디바이스 이름을 조립합니다
func VlanName(device string, tag int) string {
	return fmt.Sprintf("%s.%d", device, tag)
}

// ParseBondOptions는 "mode=4 miimon=100" 형태의 본드 옵션 문자열을
// 키-값 맵으로 파싱합니다. 값이 없는 토큰은 무시됩니다.
func ParseBondOptions(options string) map[string]string {
	parsed := make(map[string]string)
	for _, token := range strings.Fields(options) {
		key, value, found := strings.Cut(token, "=")
		if !found || key == "" {
			continue
		}
		parsed[key] = value
	}
	return parsed
}

// BondMode는 옵션 문자열에서 본딩 모드를 추출합니다. 모드가 지정되지
// 않았으면 드라이버 기본값인 balance-rr("0")을 반환합니다.
func BondMode(options string) string {
	if mode, ok := ParseBondOptions(options)["mode"]; ok {
		return mode
	}
	return "0"
}
