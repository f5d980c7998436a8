package netdev

import (
	"path/filepath"

	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// FileDHCPTracker는 DHCP 주소를 기다리는 디바이스를 런타임 디렉토리의
// 마커 파일로 등록하는 DHCPTracker 구현입니다. 비동기 활성화 이후의
// 주소 관측과 잔류 임대 정리가 이 마커를 따라갑니다.
type FileDHCPTracker struct {
	fileSystem  interfaces.FileSystem
	logger      *logrus.Logger
	trackingDir string
}

// NewFileDHCPTracker는 새로운 FileDHCPTracker를 생성합니다
func NewFileDHCPTracker(fs interfaces.FileSystem, logger *logrus.Logger, trackingDir string) *FileDHCPTracker {
	return &FileDHCPTracker{fileSystem: fs, logger: logger, trackingDir: trackingDir}
}

// Track은 디바이스의 추적 마커를 만듭니다. 마커 생성 실패는 추적이
// 빠질 뿐 설정 흐름을 막지 않습니다.
func (t *FileDHCPTracker) Track(device string) {
	if err := t.fileSystem.MkdirAll(t.trackingDir, 0o755); err != nil {
		t.logger.WithError(err).Warn("DHCP 추적 디렉토리 생성 실패")
		return
	}
	marker := filepath.Join(t.trackingDir, device)
	if err := t.fileSystem.WriteFile(marker, nil, 0o644); err != nil {
		t.logger.WithError(err).WithField("device", device).Warn("DHCP 추적 마커 생성 실패")
		return
	}
	t.logger.WithField("device", device).Debug("DHCP 주소 추적 등록")
}
