package selinux

import (
	"context"
	"time"

	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const relabelTimeout = 10 * time.Second

// RestoreconRelabeler는 restorecon으로 파일의 SELinux 컨텍스트를
// 복원하는 Relabeler 구현입니다. 레이블 복원 실패는 설정 적용을
// 막을 이유가 아니므로 로그만 남깁니다.
type RestoreconRelabeler struct {
	commandExecutor interfaces.CommandExecutor
	logger          *logrus.Logger
}

// NewRestoreconRelabeler는 새로운 RestoreconRelabeler를 생성합니다
func NewRestoreconRelabeler(executor interfaces.CommandExecutor, logger *logrus.Logger) *RestoreconRelabeler {
	return &RestoreconRelabeler{commandExecutor: executor, logger: logger}
}

// Relabel은 경로의 보안 컨텍스트를 기본값으로 복원합니다
func (r *RestoreconRelabeler) Relabel(path string) {
	_, err := r.commandExecutor.ExecuteWithTimeout(
		context.Background(), relabelTimeout, "restorecon", path)
	if err != nil {
		r.logger.WithError(err).WithField("path", path).Debug("SELinux 레이블 복원 실패")
	}
}
