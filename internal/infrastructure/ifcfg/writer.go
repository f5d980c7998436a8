package ifcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	// HeaderSignature는 설정 파일 소유권 판별의 기준이 되는 서명입니다.
	// 파일의 첫 라인이 이 접두사로 시작하면 이 시스템의 소유입니다.
	HeaderSignature = "# Generated by hostnet-agent"

	// deletedHeader는 온디스크 백업에서 "원본 파일이 존재하지 않았음"을
	// 표시하는 센티널 첫 라인입니다
	deletedHeader = "# original file did not exist"
)

// ConfFileHeader는 새로 쓰는 설정 파일의 첫 라인입니다
var ConfFileHeader = HeaderSignature + " " + constants.AgentVersion

// ConfigWriter는 ifcfg 설정 파일의 렌더링과 2계층(메모리+온디스크)
// 백업을 담당합니다. 인스턴스 하나가 트랜잭션 하나의 백업 상태를
// 보유하며, 경로별 백업 레코드는 최초 관측 시 한 번만 기록됩니다.
type ConfigWriter struct {
	fileSystem interfaces.FileSystem
	relabeler  interfaces.Relabeler
	unified    interfaces.UnifiedConfigTracker
	logger     *logrus.Logger
	confDir    string
	backupDir  string

	// 경로 → 원본 내용. nil 값은 "파일이 존재하지 않았음" 센티널입니다.
	backups map[string]*string
}

// NewConfigWriter는 빈 트랜잭션 상태의 ConfigWriter를 생성합니다
func NewConfigWriter(
	fs interfaces.FileSystem,
	relabeler interfaces.Relabeler,
	unified interfaces.UnifiedConfigTracker,
	logger *logrus.Logger,
	confDir string,
	backupDir string,
) *ConfigWriter {
	return &ConfigWriter{
		fileSystem: fs,
		relabeler:  relabeler,
		unified:    unified,
		logger:     logger,
		confDir:    confDir,
		backupDir:  backupDir,
		backups:    make(map[string]*string),
	}
}

// ConfFilePath는 디바이스의 표준 ifcfg 파일 경로를 반환합니다
func (w *ConfigWriter) ConfFilePath(device string) string {
	return filepath.Join(w.confDir, constants.NetConfPrefix+device)
}

// HasConfFile은 디바이스의 ifcfg 파일이 존재하는지 확인합니다
func (w *ConfigWriter) HasConfFile(device string) bool {
	return w.fileSystem.Exists(w.ConfFilePath(device))
}

// OwnedDevice는 디바이스의 ifcfg 파일 첫 라인이 서명과 일치하는지로
// 소유권을 판별합니다. 파일이 없거나 다른 내용이면 소유가 아닙니다.
func (w *ConfigWriter) OwnedDevice(device string) bool {
	content, err := w.fileSystem.ReadFile(w.ConfFilePath(device))
	if err != nil {
		return false
	}
	return strings.HasPrefix(string(content), HeaderSignature)
}

// TrackedPaths는 이 트랜잭션에서 백업된 경로들을 반환합니다
func (w *ConfigWriter) TrackedPaths() []string {
	paths := make([]string, 0, len(w.backups))
	for path := range w.backups {
		paths = append(paths, path)
	}
	return paths
}

// Backup은 파일을 변형하기 전에 호출되어 메모리 백업과 (통합 복구
// 경로가 관리하지 않는 파일에 한해) 온디스크 백업을 기록합니다
func (w *ConfigWriter) Backup(path string) error {
	if err := w.atomicBackup(path); err != nil {
		return err
	}
	if _, tracked := w.unified.OwnedPaths()[path]; !tracked {
		return w.persistentBackup(path)
	}
	return nil
}

// atomicBackup은 롤백을 위한 메모리 백업을 기록합니다.
// 경로당 한 번만 기록되므로 반복 쓰기가 트랜잭션 이전 스냅샷을
// 덮어쓰지 못합니다.
func (w *ConfigWriter) atomicBackup(path string) error {
	if _, done := w.backups[path]; done {
		return nil
	}

	content, err := w.fileSystem.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.backups[path] = nil
			return nil
		}
		return errors.NewSystemError(fmt.Sprintf("백업을 위한 %s 읽기 실패", path), err)
	}

	text := string(content)
	w.backups[path] = &text
	w.logger.WithField("path", path).Debug("설정 파일 메모리 백업 완료")
	return nil
}

// persistentBackup은 크래시/재시작 후 복구를 위한 온디스크 백업을
// 기록합니다. 이미 백업된 파일은 건너뜁니다 (원본 우선).
func (w *ConfigWriter) persistentBackup(path string) error {
	backupPath := filepath.Join(w.backupDir, filepath.Base(path))
	if w.fileSystem.Exists(backupPath) {
		// 원본이 이미 백업됨
		return nil
	}

	if err := w.fileSystem.MkdirAll(w.backupDir, 0o755); err != nil {
		return errors.NewSystemError("백업 디렉토리 생성 실패", err)
	}

	content, err := w.fileSystem.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.NewSystemError(fmt.Sprintf("백업을 위한 %s 읽기 실패", path), err)
		}
		content = []byte(deletedHeader + "\n")
	}

	if err := w.fileSystem.WriteFile(backupPath, content, constants.BackupFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("온디스크 백업 %s 저장 실패", backupPath), err)
	}

	w.logger.WithField("path", backupPath).Debug("설정 파일 온디스크 백업 완료")
	return nil
}

// RestoreAtomicBackup은 메모리 백업의 모든 레코드를 파일 시스템에
// 되돌립니다. 센티널 레코드는 파일 삭제를 의미합니다.
func (w *ConfigWriter) RestoreAtomicBackup() error {
	w.logger.Info("설정 롤백 시작 (메모리 백업 복원)")

	for path, content := range w.backups {
		if content == nil {
			w.logger.WithField("path", path).Debug("존재하지 않던 파일 제거")
			w.removeFile(path)
		} else {
			if err := w.fileSystem.WriteFile(path, []byte(*content), constants.ConfigFilePermission); err != nil {
				return errors.NewSystemError(fmt.Sprintf("백업 복원 중 %s 쓰기 실패", path), err)
			}
		}
		w.logger.WithField("path", path).Info("복원 완료")
	}
	return nil
}

// LoadBackups는 온디스크 백업 계층을 메모리로 읽어 들입니다
// (크로스 세션 복구의 첫 단계)
func (w *ConfigWriter) LoadBackups() error {
	if !w.fileSystem.Exists(w.backupDir) {
		return nil
	}

	files, err := w.fileSystem.ListFiles(w.backupDir)
	if err != nil {
		return errors.NewSystemError("온디스크 백업 디렉토리 읽기 실패", err)
	}

	for _, name := range files {
		backupPath := filepath.Join(w.backupDir, name)
		content, err := w.fileSystem.ReadFile(backupPath)
		if err != nil {
			return errors.NewSystemError(fmt.Sprintf("온디스크 백업 %s 읽기 실패", backupPath), err)
		}

		restorePath := filepath.Join(w.confDir, name)
		if strings.HasPrefix(string(content), deletedHeader) {
			w.backups[restorePath] = nil
		} else {
			text := string(content)
			w.backups[restorePath] = &text
		}
		w.logger.WithField("path", backupPath).Info("온디스크 백업 로드 완료")
	}
	return nil
}

// ClearBackups는 온디스크 백업 저장소를 비웁니다
func (w *ConfigWriter) ClearBackups() error {
	if !w.fileSystem.Exists(w.backupDir) {
		return nil
	}
	files, err := w.fileSystem.ListFiles(w.backupDir)
	if err != nil {
		return errors.NewSystemError("온디스크 백업 디렉토리 읽기 실패", err)
	}
	for _, name := range files {
		if err := w.fileSystem.Remove(filepath.Join(w.backupDir, name)); err != nil {
			return errors.NewSystemError("온디스크 백업 삭제 실패", err)
		}
	}
	return nil
}

// WriteConfFile은 대상 파일을 백업한 뒤 서명 헤더와 내용을 쓰고 고정
// 권한을 적용합니다. 보안 컨텍스트 레이블 복원은 최선 노력입니다.
func (w *ConfigWriter) WriteConfFile(path, configuration string) error {
	if err := w.Backup(path); err != nil {
		return err
	}

	configuration = ConfFileHeader + "\n" + configuration
	w.logger.WithFields(logrus.Fields{
		"path": path,
		"size": len(configuration),
	}).Debug("설정 파일 쓰기")

	if err := w.fileSystem.WriteFile(path, []byte(configuration), constants.ConfigFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("설정 파일 %s 쓰기 실패", path), err)
	}
	if err := w.fileSystem.Chmod(path, constants.ConfigFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("설정 파일 %s 권한 변경 실패", path), err)
	}

	w.relabeler.Relabel(path)
	return nil
}

// removeFile은 파일을 삭제합니다. 이미 없는 파일은 정상 상태입니다.
func (w *ConfigWriter) removeFile(path string) {
	if err := w.fileSystem.Remove(path); err != nil && !os.IsNotExist(err) {
		w.logger.WithError(err).WithField("path", path).Warn("파일 삭제 실패")
		return
	}
	w.logger.WithField("path", path).Debug("파일 삭제 완료")
}

// AddBridge는 브리지의 ifcfg 파일을 생성합니다
func (w *ConfigWriter) AddBridge(bridge *entities.NetworkEntity) error {
	var conf strings.Builder
	conf.WriteString("TYPE=Bridge\nDELAY=0\n")
	if bridge.STP != nil {
		if *bridge.STP {
			conf.WriteString("STP=on\n")
		} else {
			conf.WriteString("STP=off\n")
		}
	}
	conf.WriteString("ONBOOT=yes\n")
	return w.createConfFile(conf.String(), bridge)
}

// AddVlan은 VLAN의 ifcfg 파일을 생성합니다
func (w *ConfigWriter) AddVlan(vlan *entities.NetworkEntity) error {
	var conf strings.Builder
	conf.WriteString("VLAN=yes\n")
	if bridge := vlan.Bridge(); bridge != nil {
		conf.WriteString("BRIDGE=" + quoteIfcfgValue(bridge.Name) + "\n")
	}
	conf.WriteString("ONBOOT=yes\n")
	return w.createConfFile(conf.String(), vlan)
}

// AddBonding은 본드의 ifcfg 파일을 생성합니다
func (w *ConfigWriter) AddBonding(bond *entities.NetworkEntity) error {
	var conf strings.Builder
	conf.WriteString("BONDING_OPTS=" + quoteIfcfgValue(bond.Options) + "\n")
	if bridge := bond.Bridge(); bridge != nil {
		conf.WriteString("BRIDGE=" + quoteIfcfgValue(bridge.Name) + "\n")
	}
	conf.WriteString("ONBOOT=yes\n")
	return w.createConfFile(conf.String(), bond)
}

// AddNic은 NIC의 ifcfg 파일을 생성합니다
func (w *ConfigWriter) AddNic(nic *entities.NetworkEntity) error {
	var conf strings.Builder
	if bridge := nic.Bridge(); bridge != nil {
		conf.WriteString("BRIDGE=" + quoteIfcfgValue(bridge.Name) + "\n")
	}
	if bond := nic.Bond(); bond != nil {
		conf.WriteString("MASTER=" + quoteIfcfgValue(bond.Name) + "\nSLAVE=yes\n")
	}
	conf.WriteString("ONBOOT=yes\n")
	return w.createConfFile(conf.String(), nic)
}

// createConfFile은 변형별 블록과 공통 키들을 조립하여 디바이스의
// ifcfg 파일을 씁니다
func (w *ConfigWriter) createConfFile(variantConf string, e *entities.NetworkEntity) error {
	var cfg strings.Builder
	cfg.WriteString("DEVICE=" + quoteIfcfgValue(e.Name) + "\n")
	cfg.WriteString(variantConf)

	if e.IPv4.Address != "" {
		cfg.WriteString("IPADDR=" + quoteIfcfgValue(e.IPv4.Address) + "\n")
		cfg.WriteString("NETMASK=" + quoteIfcfgValue(e.IPv4.Netmask) + "\n")
		if e.IPv4.DefaultRoute && e.IPv4.Gateway != "" {
			cfg.WriteString("GATEWAY=" + quoteIfcfgValue(e.IPv4.Gateway) + "\n")
		}
		// 정적 IP에는 BOOTPROTO=none이 기대됩니다
		cfg.WriteString("BOOTPROTO=none\n")
	} else if e.IPv4.BootProto != "" {
		cfg.WriteString("BOOTPROTO=" + quoteIfcfgValue(e.IPv4.BootProto) + "\n")
	}

	if e.MTU > 0 {
		fmt.Fprintf(&cfg, "MTU=%d\n", e.MTU)
	}

	isDefaultRoute := e.IPv4.DefaultRoute &&
		(e.IPv4.Gateway != "" || e.IPv4.BootProto == entities.BootProtoDHCP)
	cfg.WriteString("DEFROUTE=" + toIfcfgBool(isDefaultRoute) + "\n")
	cfg.WriteString("NM_CONTROLLED=no\n")

	enableIPv6 := e.IPv6.Defined()
	cfg.WriteString("IPV6INIT=" + toIfcfgBool(enableIPv6) + "\n")
	if enableIPv6 {
		if e.IPv6.Address != "" {
			cfg.WriteString("IPV6ADDR=" + quoteIfcfgValue(e.IPv6.Address) + "\n")
			if e.IPv6.Gateway != "" {
				cfg.WriteString("IPV6_DEFAULTGW=" + quoteIfcfgValue(e.IPv6.Gateway) + "\n")
			}
		} else if e.IPv6.DHCPv6 {
			cfg.WriteString("DHCPV6C=yes\n")
		}
		cfg.WriteString("IPV6_AUTOCONF=" + toIfcfgBool(e.IPv6.Autoconf) + "\n")
	}

	// DNS 엔트리는 최대 두 개만 기록됩니다
	for i, nameserver := range e.Nameservers {
		if i >= 2 {
			break
		}
		fmt.Fprintf(&cfg, "DNS%d=%s\n", i+1, quoteIfcfgValue(nameserver))
	}

	return w.WriteConfFile(w.ConfFilePath(e.Name), cfg.String())
}

// RemoveNic은 NIC 설정을 최소 상태(디바이스만 선언)로 되돌립니다.
// 물리 NIC의 파일을 지우면 initscripts가 디바이스를 인식하지 못하므로
// 삭제 대신 분리된 설정을 다시 씁니다.
func (w *ConfigWriter) RemoveNic(device string) error {
	cfg := fmt.Sprintf("DEVICE=%s\nONBOOT=yes\nMTU=%d\nNM_CONTROLLED=no\n",
		quoteIfcfgValue(device), constants.DefaultMTU)
	return w.WriteConfFile(w.ConfFilePath(device), cfg)
}

// RemoveVlan은 VLAN의 ifcfg 파일을 백업 후 삭제합니다
func (w *ConfigWriter) RemoveVlan(device string) error {
	return w.removeConfFile(device)
}

// RemoveBonding은 본드의 ifcfg 파일을 백업 후 삭제합니다
func (w *ConfigWriter) RemoveBonding(device string) error {
	return w.removeConfFile(device)
}

// RemoveBridge는 브리지의 ifcfg 파일을 백업 후 삭제합니다
func (w *ConfigWriter) RemoveBridge(device string) error {
	return w.removeConfFile(device)
}

func (w *ConfigWriter) removeConfFile(device string) error {
	path := w.ConfFilePath(device)
	if err := w.Backup(path); err != nil {
		return err
	}
	w.removeFile(path)
	return nil
}

// RemoveSourceRouteFiles는 디바이스의 route-/rule- 파일을 백업 후
// 삭제합니다
func (w *ConfigWriter) RemoveSourceRouteFiles(device string) error {
	for _, fileType := range []string{"rule", "route"} {
		path := filepath.Join(w.confDir, fileType+"-"+device)
		if err := w.Backup(path); err != nil {
			return err
		}
		w.removeFile(path)
	}
	return nil
}

// updateConfigValue는 기존 설정 파일에서 key= 라인을 교체합니다.
// value가 빈 문자열이면 키를 제거만 합니다.
func (w *ConfigWriter) updateConfigValue(path, key, value string) error {
	content, err := w.fileSystem.ReadFile(path)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("설정 파일 %s 읽기 실패", path), err)
	}

	var kept []string
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		if strings.HasPrefix(line, key+"=") {
			continue
		}
		kept = append(kept, line)
	}
	if value != "" {
		kept = append(kept, key+"="+value)
	}

	if err := w.Backup(path); err != nil {
		return err
	}
	updated := strings.Join(kept, "\n") + "\n"
	if err := w.fileSystem.WriteFile(path, []byte(updated), constants.ConfigFilePermission); err != nil {
		return errors.NewSystemError(fmt.Sprintf("설정 파일 %s 갱신 실패", path), err)
	}
	return nil
}

// SetIfaceMTU는 디바이스 설정 파일의 MTU 키를 갱신합니다
func (w *ConfigWriter) SetIfaceMTU(device string, mtu int) error {
	return w.updateConfigValue(w.ConfFilePath(device), "MTU", fmt.Sprintf("%d", mtu))
}

// SetBondingMTU는 본드와 모든 슬레이브 설정 파일의 MTU를 갱신합니다
func (w *ConfigWriter) SetBondingMTU(bond string, slaves []string, mtu int) error {
	if err := w.SetIfaceMTU(bond, mtu); err != nil {
		return err
	}
	for _, slave := range slaves {
		if err := w.SetIfaceMTU(slave, mtu); err != nil {
			return err
		}
	}
	return nil
}

// DropBridgeParameter는 더 이상 브리지에 소속되지 않는 디바이스의
// 설정 파일에서 BRIDGE 키를 제거합니다
func (w *ConfigWriter) DropBridgeParameter(device string) error {
	path := w.ConfFilePath(device)
	if !w.fileSystem.Exists(path) {
		return nil
	}

	content, err := w.fileSystem.ReadFile(path)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("설정 파일 %s 읽기 실패", path), err)
	}

	var kept []string
	for _, line := range strings.Split(strings.TrimRight(string(content), "\n"), "\n") {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "BRIDGE") {
			continue
		}
		kept = append(kept, line)
	}
	body := ""
	if len(kept) > 0 {
		body = strings.Join(kept, "\n") + "\n"
	}
	return w.WriteConfFile(path, body)
}

// ConfiguredPorts는 브리지를 BRIDGE=로 참조하는 포트 디바이스들을
// 설정 디렉토리에서 찾아 반환합니다
func (w *ConfigWriter) ConfiguredPorts(bridge string) ([]string, error) {
	files, err := w.fileSystem.ListFiles(w.confDir)
	if err != nil {
		return nil, errors.NewSystemError("설정 디렉토리 읽기 실패", err)
	}

	var ports []string
	for _, name := range files {
		if !strings.HasPrefix(name, constants.NetConfPrefix) {
			continue
		}
		content, err := w.fileSystem.ReadFile(filepath.Join(w.confDir, name))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, "BRIDGE=") &&
				strings.Trim(strings.TrimPrefix(line, "BRIDGE="), "'\"") == bridge {
				ports = append(ports, strings.TrimPrefix(name, constants.NetConfPrefix))
				break
			}
		}
	}
	return ports, nil
}

// quoteIfcfgValue는 값을 셸 안전하게 인용합니다 (POSIX 단일 인용 규칙)
func quoteIfcfgValue(value string) string {
	if value == "" {
		return "''"
	}
	if !strings.ContainsAny(value, " \t\n\"'`$\\!*?[](){}<>|&;~#%^") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

func toIfcfgBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
