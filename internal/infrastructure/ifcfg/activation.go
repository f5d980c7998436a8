package ifcfg

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// Activator는 디바이스 활성화/비활성화 경계 호출을 담당합니다.
// ifup/ifdown 외부 도구 호출, 대기 가드, DHCP 비동기 오프로드를
// 포함합니다.
type Activator struct {
	commandExecutor interfaces.CommandExecutor
	fileSystem      interfaces.FileSystem
	devices         interfaces.DeviceQuerier
	control         interfaces.DeviceController
	logger          *logrus.Logger

	commandTimeout time.Duration
	linkUpTimeout  time.Duration
	addrTimeout    time.Duration
	pollInterval   time.Duration
}

// NewActivator는 새로운 Activator를 생성합니다
func NewActivator(
	executor interfaces.CommandExecutor,
	fs interfaces.FileSystem,
	devices interfaces.DeviceQuerier,
	control interfaces.DeviceController,
	logger *logrus.Logger,
	commandTimeout time.Duration,
) *Activator {
	return &Activator{
		commandExecutor: executor,
		fileSystem:      fs,
		devices:         devices,
		control:         control,
		logger:          logger,
		commandTimeout:  commandTimeout,
		linkUpTimeout:   10 * time.Second,
		addrTimeout:     60 * time.Second,
		pollInterval:    100 * time.Millisecond,
	}
}

// Deactivate는 ifdown으로 디바이스를 내립니다. 이미 없는 디바이스를
// 내리는 것은 정상이므로 상태만 보고하고 에러를 올리지 않습니다.
func (a *Activator) Deactivate(ctx context.Context, name string) {
	_, err := a.commandExecutor.ExecuteWithTimeout(ctx, a.commandTimeout, "ifdown", name)
	if err != nil {
		a.logger.WithError(err).WithField("device", name).Debug("ifdown 실패 (무시)")
	}
}

// Activate는 엔티티 설정에 맞는 방식으로 디바이스를 올립니다.
// 블로킹이 요구되지 않는 DHCP 엔티티는 독립 고루틴으로 오프로드되어
// 느린 DHCP 협상이 리컨실리에이션 패스를 막지 않습니다. 그 결과는
// 트랜잭션에서 관측되지 않습니다.
func (a *Activator) Activate(ctx context.Context, e *entities.NetworkEntity) error {
	if e.UsesDHCP() && !e.BlockingDHCP {
		go a.activateDetached(e)
		return nil
	}

	if e.Master == nil && (e.IPv4.Defined() || e.IPv6.Defined()) {
		if err := a.BringUp(ctx, e); err != nil {
			return err
		}
		if e.IPv4.Defined() {
			a.waitFor(ctx, e.Name, a.addrTimeout, a.devices.HasIPv4Addr, "ipv4 주소 할당")
		} else {
			a.waitFor(ctx, e.Name, a.addrTimeout, a.devices.HasIPv6Addr, "ipv6 주소 할당")
		}
		return nil
	}

	if err := a.BringUp(ctx, e); err != nil {
		return err
	}
	a.WaitForLinkUp(ctx, e.Name)
	return nil
}

// activateDetached는 분리된 고루틴에서 실행되는 DHCP 활성화입니다.
// 취소와 대기가 불가능하며 실패는 로그와 메트릭으로만 드러납니다.
func (a *Activator) activateDetached(e *entities.NetworkEntity) {
	err := a.BringUp(context.Background(), e)
	if err != nil {
		a.logger.WithError(err).WithField("device", e.Name).Error("비동기 DHCP 활성화 실패")
		metrics.RecordAsyncActivation("failed")
		return
	}
	metrics.RecordAsyncActivation("success")
}

// BringUp은 ifup을 동기적으로 실행합니다. IPv6가 요청되었으면 활성화
// 직전에 명시적으로 켜고, 요청되지 않았으면 활성화 직후 끕니다
// (커널 기본값이 켜진 채로 남을 수 있음).
func (a *Activator) BringUp(ctx context.Context, e *entities.NetworkEntity) error {
	if e.IPv6.Defined() {
		a.setIPv6(e.Name, true)
	}

	if err := a.ExecIfup(ctx, e.Name); err != nil {
		return err
	}

	if !e.IPv6.Defined() {
		a.setIPv6(e.Name, false)
	}
	return nil
}

// ExecIfup은 이름으로 ifup을 실행합니다. 실패 시 도구 출력의 마지막
// 진단 라인을 담은 Activation 에러를 반환합니다.
func (a *Activator) ExecIfup(ctx context.Context, name string) error {
	output, err := a.commandExecutor.ExecuteWithTimeout(ctx, a.commandTimeout, "ifup", name)
	if err != nil {
		return errors.NewActivationError(name, lastOutputLine(output, err), err)
	}
	return nil
}

// WaitForLinkUp은 링크가 올라올 때까지 제한 시간 동안 대기합니다.
// 시간 초과는 경고일 뿐 실패가 아닙니다.
func (a *Activator) WaitForLinkUp(ctx context.Context, name string) {
	a.waitFor(ctx, name, a.linkUpTimeout, a.devices.OperUp, "링크 업")
}

func (a *Activator) waitFor(
	ctx context.Context,
	name string,
	timeout time.Duration,
	observed func(string) bool,
	what string,
) {
	deadline := time.Now().Add(timeout)
	for {
		if observed(name) {
			return
		}
		if time.Now().After(deadline) {
			a.logger.WithFields(logrus.Fields{
				"device": name,
				"waited": timeout,
				"guard":  what,
			}).Warn("대기 가드 시간 초과")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(a.pollInterval):
		}
	}
}

// setIPv6는 sysctl 노드로 디바이스의 IPv6를 켜거나 끕니다.
// 디바이스(및 sysctl 노드)가 없으면 경고만 남깁니다.
func (a *Activator) setIPv6(name string, enable bool) {
	path := fmt.Sprintf("/proc/sys/net/ipv6/conf/%s/disable_ipv6", name)
	value := "1"
	if enable {
		value = "0"
	}
	if err := a.fileSystem.WriteFile(path, []byte(value), 0o644); err != nil {
		if os.IsNotExist(err) {
			a.logger.WithFields(logrus.Fields{
				"device": name,
				"enable": enable,
			}).Warn("디바이스가 아직 없어 IPv6 상태를 변경하지 못함")
			return
		}
		a.logger.WithError(err).WithField("device", name).Warn("IPv6 sysctl 변경 실패")
	}
}

// StopDevices는 추적된 설정 파일들의 디바이스를 의존성 역순으로
// 내립니다 (복구/롤백 경로)
func (a *Activator) StopDevices(ctx context.Context, fs interfaces.FileSystem, confDir string, paths []string) {
	for _, dev := range reverseDevices(sortDeviceConfigs(fs, confDir, paths)) {
		a.Deactivate(ctx, dev)
		if a.devices.IsBridge(dev) {
			// ifdown만으로는 NIC 없는 브리지가 제거되지 않습니다
			if err := a.control.DeleteBridge(dev); err != nil {
				a.logger.WithError(err).WithField("device", dev).Warn("브리지 제거 실패")
			}
		}
		if isBondName(dev) && a.control.IsBondMaster(dev) {
			if err := a.control.RemoveBondMaster(dev); err != nil {
				a.logger.WithError(err).WithField("device", dev).Warn("본드 등록 해제 실패")
			}
		}
	}
}

// StartDevices는 복원된 설정 파일들의 디바이스를 의존성 순서로
// 올립니다. 복구 경로의 개별 실패는 다음 디바이스로 진행합니다.
func (a *Activator) StartDevices(ctx context.Context, fs interfaces.FileSystem, confDir string, paths []string) {
	for _, dev := range sortDeviceConfigs(fs, confDir, paths) {
		if isBondName(dev) && !a.control.IsBondMaster(dev) {
			if err := a.control.EnsureBondMaster(dev); err != nil {
				a.logger.WithError(err).WithField("device", dev).Warn("본드 등록 실패")
			}
		}
		if err := a.ExecIfup(ctx, dev); err != nil {
			a.logger.WithError(err).WithField("device", dev).Error("롤백 중 디바이스 기동 실패")
		}
	}
}

// lastOutputLine은 도구 출력에서 마지막 비어 있지 않은 라인을
// 추출합니다. ifup 스크립트는 보통 마지막 라인에 실패 원인을 남깁니다.
func lastOutputLine(output []byte, err error) string {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
