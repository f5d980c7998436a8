package ifcfg

import (
	"path/filepath"
	"regexp"
	"strings"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/interfaces"
)

// deviceType은 설정 파일 내용의 구조적 마커로 판별한 디바이스 유형입니다
type deviceType string

const (
	devTypeBridge deviceType = "Bridge"
	devTypeVlan   deviceType = "Vlan"
	devTypeSlave  deviceType = "Slave"
	devTypeOther  deviceType = "Other"
)

var (
	bridgeMarker = regexp.MustCompile(`(?m)^TYPE=Bridge$`)
	vlanMarker   = regexp.MustCompile(`(?m)^VLAN=yes$`)
	slaveMarker  = regexp.MustCompile(`(?m)^SLAVE=yes$`)
)

// classifyDevice는 설정 파일 내용을 구조적 마커로 분류합니다
func classifyDevice(content string) deviceType {
	switch {
	case bridgeMarker.MatchString(content):
		return devTypeBridge
	case vlanMarker.MatchString(content):
		return devTypeVlan
	case slaveMarker.MatchString(content):
		return devTypeSlave
	default:
		return devTypeOther
	}
}

// sortDeviceConfigs는 추적된 설정 파일 경로들을 의존성 안전한 기동
// 순서(Other → Vlan → Bridge)의 디바이스 이름 목록으로 변환합니다.
// 스택형 디바이스는 기반 디바이스보다 먼저 올라올 수 없습니다.
// 슬레이브는 본드의 기동이 함께 처리하므로 목록에서 제외됩니다.
// 파일 내용은 호출 시점에 디스크에서 읽습니다 (중지 시점에는 현재
// 상태를, 복원 후 기동 시점에는 복원된 상태를 기준으로 정렬).
func sortDeviceConfigs(fs interfaces.FileSystem, confDir string, paths []string) []string {
	prefix := filepath.Join(confDir, constants.NetConfPrefix)

	buckets := map[deviceType][]string{}
	for _, path := range paths {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		content, err := fs.ReadFile(path)
		if err != nil {
			// 파일이 사라진 경로는 건너뜁니다
			continue
		}
		device := strings.TrimPrefix(path, prefix)
		devType := classifyDevice(string(content))
		buckets[devType] = append(buckets[devType], device)
	}

	ordered := make([]string, 0, len(paths))
	ordered = append(ordered, buckets[devTypeOther]...)
	ordered = append(ordered, buckets[devTypeVlan]...)
	ordered = append(ordered, buckets[devTypeBridge]...)
	return ordered
}

// reverseDevices는 기동 순서를 역전하여 중지 순서를 만듭니다
// (의존자를 기반 디바이스보다 먼저 내려야 "device busy"를 피합니다)
func reverseDevices(devices []string) []string {
	reversed := make([]string, len(devices))
	for i, dev := range devices {
		reversed[len(devices)-1-i] = dev
	}
	return reversed
}

// isBondName은 파일 내용을 보지 않고 이름만으로 본드 여부를
// 추정합니다 (복구 경로에서 ifcfg 내용이 신뢰 불가할 때 사용)
func isBondName(device string) bool {
	return strings.HasPrefix(device, "bond") && !strings.Contains(device, ".")
}
