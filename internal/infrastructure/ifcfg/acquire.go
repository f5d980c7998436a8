package ifcfg

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Acquirer는 다른 네트워크 매니저가 만든 ifcfg 파일을 표준 경로로
// 옮겨 이 시스템의 관리 하에 두는 OwnershipAcquirer 구현입니다.
// 내용은 건드리지 않고 파일 위치만 정규화합니다. 이후의 쓰기가
// 서명 헤더를 입힙니다.
type Acquirer struct {
	fileSystem interfaces.FileSystem
	logger     *logrus.Logger
	confDir    string
}

// NewAcquirer는 새로운 Acquirer를 생성합니다
func NewAcquirer(fs interfaces.FileSystem, logger *logrus.Logger, confDir string) *Acquirer {
	return &Acquirer{fileSystem: fs, logger: logger, confDir: confDir}
}

// Acquire는 DEVICE= 키로 디바이스를 선언한 설정 파일을 찾아 표준
// 경로로 가져옵니다. 파일이 없으면 가져올 것이 없는 정상 상태입니다.
func (a *Acquirer) Acquire(ctx context.Context, device string) error {
	canonical := filepath.Join(a.confDir, constants.NetConfPrefix+device)
	if a.fileSystem.Exists(canonical) {
		return nil
	}

	found, err := a.findConfFile(func(values map[string]string) bool {
		return values["DEVICE"] == device
	})
	if err != nil {
		return errors.NewOwnershipError(device, err)
	}
	if found == "" {
		return nil
	}
	return a.rename(device, found, canonical)
}

// AcquireVlan은 VLAN 디바이스를 가져옵니다. VLAN은 표준 이름 외에도
// PHYSDEV와 VLAN_ID 키 조합의 비표준 파일로 정의될 수 있습니다.
func (a *Acquirer) AcquireVlan(ctx context.Context, device string) error {
	if err := a.Acquire(ctx, device); err != nil {
		return err
	}

	canonical := filepath.Join(a.confDir, constants.NetConfPrefix+device)
	if a.fileSystem.Exists(canonical) {
		return nil
	}

	physDev, tag, ok := splitVlanName(device)
	if !ok {
		return nil
	}
	found, err := a.findConfFile(func(values map[string]string) bool {
		return values["PHYSDEV"] == physDev && values["VLAN_ID"] == strconv.Itoa(tag)
	})
	if err != nil {
		return errors.NewOwnershipError(device, err)
	}
	if found == "" {
		return nil
	}
	return a.rename(device, found, canonical)
}

func (a *Acquirer) rename(device, from, to string) error {
	if err := a.fileSystem.Rename(from, to); err != nil {
		return errors.NewOwnershipError(device, err)
	}
	a.logger.WithFields(logrus.Fields{
		"device": device,
		"from":   from,
		"to":     to,
	}).Info("외부 매니저의 설정 파일 인수")
	return nil
}

// findConfFile은 설정 디렉토리에서 조건에 맞는 첫 ifcfg 파일 경로를
// 찾습니다
func (a *Acquirer) findConfFile(match func(map[string]string) bool) (string, error) {
	files, err := a.fileSystem.ListFiles(a.confDir)
	if err != nil {
		return "", fmt.Errorf("설정 디렉토리 읽기 실패: %w", err)
	}

	for _, name := range files {
		if !strings.HasPrefix(name, constants.NetConfPrefix) {
			continue
		}
		path := filepath.Join(a.confDir, name)
		content, err := a.fileSystem.ReadFile(path)
		if err != nil {
			continue
		}
		if match(parseConfValues(string(content))) {
			return path, nil
		}
	}
	return "", nil
}

// parseConfValues는 ifcfg 파일 내용을 키-값 맵으로 파싱합니다.
// 값의 단일/이중 인용 부호는 벗겨 냅니다.
func parseConfValues(content string) map[string]string {
	values := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		values[key] = strings.Trim(value, `'"`)
	}
	return values
}

// splitVlanName은 "<device>.<tag>" 형태의 VLAN 이름을 분해합니다
func splitVlanName(name string) (string, int, bool) {
	device, tagText, found := strings.Cut(name, ".")
	if !found || device == "" {
		return "", 0, false
	}
	tag, err := strconv.Atoi(tagText)
	if err != nil {
		return "", 0, false
	}
	return device, tag, true
}
