package netdev

import (
	"path/filepath"
	"strings"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// NetlinkQuerier는 netlink와 본딩 드라이버 sysfs로 라이브 디바이스
// 상태를 조회하는 DeviceQuerier 구현입니다
type NetlinkQuerier struct {
	fileSystem interfaces.FileSystem
	logger     *logrus.Logger
}

// NewNetlinkQuerier는 새로운 NetlinkQuerier를 생성합니다
func NewNetlinkQuerier(fs interfaces.FileSystem, logger *logrus.Logger) *NetlinkQuerier {
	return &NetlinkQuerier{fileSystem: fs, logger: logger}
}

// Exists는 디바이스가 커널에 존재하는지 확인합니다
func (q *NetlinkQuerier) Exists(name string) bool {
	_, err := netlink.LinkByName(name)
	return err == nil
}

// HardwareAddr은 디바이스의 하드웨어 주소를 반환합니다
func (q *NetlinkQuerier) HardwareAddr(name string) (string, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return "", errors.NewNotFoundError("디바이스 " + name + " 없음")
	}
	return link.Attrs().HardwareAddr.String(), nil
}

// OperUp은 디바이스 링크가 올라와 있는지 확인합니다
func (q *NetlinkQuerier) OperUp(name string) bool {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return false
	}
	return link.Attrs().OperState == netlink.OperUp
}

// HasIPv4Addr은 디바이스에 IPv4 주소가 할당되었는지 확인합니다
func (q *NetlinkQuerier) HasIPv4Addr(name string) bool {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return false
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return false
	}
	return len(addrs) > 0
}

// HasIPv6Addr은 링크 로컬을 제외한 IPv6 주소가 할당되었는지 확인합니다
func (q *NetlinkQuerier) HasIPv6Addr(name string) bool {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return false
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V6)
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		if !addr.IP.IsLinkLocalUnicast() {
			return true
		}
	}
	return false
}

// BondSlaves는 본딩 드라이버 sysfs에서 현재 슬레이브 목록을 읽습니다.
// 본드가 아니거나 등록 전이면 빈 목록을 반환합니다.
func (q *NetlinkQuerier) BondSlaves(name string) ([]string, error) {
	path := filepath.Join(constants.SysClassNet, name, "bonding", "slaves")
	if !q.fileSystem.Exists(path) {
		return nil, nil
	}
	content, err := q.fileSystem.ReadFile(path)
	if err != nil {
		return nil, errors.NewSystemError("본드 슬레이브 목록 읽기 실패", err)
	}
	return strings.Fields(string(content)), nil
}

// BondOptions는 본딩 드라이버 sysfs의 옵션 노드들을 읽어 원본 값
// 문자열 그대로 반환합니다 (예: mode의 "802.3ad 4")
func (q *NetlinkQuerier) BondOptions(name string) (map[string]string, error) {
	bondingDir := filepath.Join(constants.SysClassNet, name, "bonding")
	files, err := q.fileSystem.ListFiles(bondingDir)
	if err != nil {
		return nil, errors.NewSystemError("본드 옵션 디렉토리 읽기 실패", err)
	}

	options := make(map[string]string, len(files))
	for _, option := range files {
		content, err := q.fileSystem.ReadFile(filepath.Join(bondingDir, option))
		if err != nil {
			continue
		}
		options[option] = strings.TrimSpace(string(content))
	}
	return options, nil
}

// VlanDevsFor는 디바이스 위에 쌓인 VLAN 디바이스 이름들을 반환합니다
func (q *NetlinkQuerier) VlanDevsFor(name string) []string {
	parent, err := netlink.LinkByName(name)
	if err != nil {
		return nil
	}
	links, err := netlink.LinkList()
	if err != nil {
		q.logger.WithError(err).Warn("링크 목록 조회 실패")
		return nil
	}

	var vlans []string
	for _, link := range links {
		if vlan, ok := link.(*netlink.Vlan); ok && vlan.ParentIndex == parent.Attrs().Index {
			vlans = append(vlans, vlan.Name)
		}
	}
	return vlans
}

// IsVlanned는 디바이스 위에 VLAN이 하나라도 있는지 확인합니다
func (q *NetlinkQuerier) IsVlanned(name string) bool {
	return len(q.VlanDevsFor(name)) > 0
}

// IsBridge는 디바이스가 브리지인지 확인합니다
func (q *NetlinkQuerier) IsBridge(name string) bool {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return false
	}
	return link.Type() == "bridge"
}

// LiveMTU는 디바이스의 현재 MTU를 반환합니다
func (q *NetlinkQuerier) LiveMTU(name string) (int, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return 0, errors.NewNotFoundError("디바이스 " + name + " 없음")
	}
	return link.Attrs().MTU, nil
}

// UsageCount는 디바이스를 아직 사용 중인 의존자 수를 반환합니다
// (위에 쌓인 VLAN들과 소속된 상위 디바이스)
func (q *NetlinkQuerier) UsageCount(name string) int {
	count := len(q.VlanDevsFor(name))
	if link, err := netlink.LinkByName(name); err == nil && link.Attrs().MasterIndex != 0 {
		count++
	}
	return count
}

// BridgedNetworkFor는 디바이스를 포트로 가진 브리지 이름을 반환합니다
func (q *NetlinkQuerier) BridgedNetworkFor(name string) string {
	link, err := netlink.LinkByName(name)
	if err != nil || link.Attrs().MasterIndex == 0 {
		return ""
	}
	master, err := netlink.LinkByIndex(link.Attrs().MasterIndex)
	if err != nil || master.Type() != "bridge" {
		return ""
	}
	return master.Attrs().Name
}
