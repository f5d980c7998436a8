package adapters

import (
	"bufio"
	"fmt"
	"strings"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
)

// RealOSDetector는 실제 OS를 감지하는 OSDetector 구현체입니다
type RealOSDetector struct {
	fileSystem interfaces.FileSystem
}

// NewRealOSDetector는 새로운 RealOSDetector를 생성합니다
func NewRealOSDetector(fs interfaces.FileSystem) interfaces.OSDetector {
	return &RealOSDetector{
		fileSystem: fs,
	}
}

// DetectOS는 현재 운영체제 종류를 반환합니다. 이 에이전트가 관리하는
// initscripts/ifcfg 스택은 RHEL 계열에만 존재하므로 그 외는 거부합니다.
func (d *RealOSDetector) DetectOS() (interfaces.OSType, error) {
	releaseInfo, err := d.parseOSRelease()
	if err != nil {
		return "", errors.NewSystemError("OS 감지 실패: os-release 파일을 읽을 수 없음", err)
	}

	id, ok := releaseInfo["ID"]
	if !ok {
		return "", errors.NewSystemError("OS 감지 실패: os-release에 ID 필드가 없음", nil)
	}

	idLike := releaseInfo["ID_LIKE"]

	if id == "rhel" || id == "centos" || id == "rocky" || id == "almalinux" || id == "oracle" ||
		strings.Contains(idLike, "rhel") || strings.Contains(idLike, "fedora") {
		return interfaces.OSTypeRHEL, nil
	}

	return "", errors.NewSystemError(fmt.Sprintf("지원하지 않는 OS입니다. ID: '%s', ID_LIKE: '%s'", id, idLike), nil)
}

// parseOSRelease는 os-release 파일을 파싱하여 맵으로 반환합니다
func (d *RealOSDetector) parseOSRelease() (map[string]string, error) {
	content, err := d.fileSystem.ReadFile(constants.OSReleaseFile)
	if err != nil {
		return nil, err
	}

	releaseInfo := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), "\"")
			releaseInfo[key] = value
		}
	}

	return releaseInfo, nil
}
