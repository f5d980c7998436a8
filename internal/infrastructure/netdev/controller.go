package netdev

import (
	"fmt"
	"path/filepath"
	"strings"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// NetlinkController는 netlink와 본딩 드라이버 sysfs로 라이브 디바이스
// 상태를 변경하는 DeviceController 구현입니다
type NetlinkController struct {
	fileSystem interfaces.FileSystem
	logger     *logrus.Logger
}

// NewNetlinkController는 새로운 NetlinkController를 생성합니다
func NewNetlinkController(fs interfaces.FileSystem, logger *logrus.Logger) *NetlinkController {
	return &NetlinkController{fileSystem: fs, logger: logger}
}

// SetLinkMTU는 디바이스의 MTU를 라이브로 변경합니다
func (c *NetlinkController) SetLinkMTU(name string, mtu int) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return errors.NewNotFoundError("디바이스 " + name + " 없음")
	}
	if err := netlink.LinkSetMTU(link, mtu); err != nil {
		return errors.NewSystemError(fmt.Sprintf("%s MTU %d 설정 실패", name, mtu), err)
	}
	return nil
}

// SetBondOptions는 본드 옵션 전체를 sysfs로 다시 적용합니다.
// mode를 가장 먼저 기록해야 드라이버가 모드별 기본값으로 되돌린 뒤
// 나머지 옵션이 그 위에 덮입니다. 모드 변경은 본드가 내려가 있어야
// 합니다.
func (c *NetlinkController) SetBondOptions(name string, options map[string]string) error {
	bondingDir := filepath.Join(constants.SysClassNet, name, "bonding")

	mode, hasMode := options["mode"]
	if !hasMode {
		mode = "0"
	}
	if err := c.writeOption(bondingDir, "mode", mode); err != nil {
		return err
	}

	for key, value := range options {
		if key == "mode" {
			continue
		}
		if err := c.writeOption(bondingDir, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *NetlinkController) writeOption(bondingDir, key, value string) error {
	path := filepath.Join(bondingDir, key)
	if err := c.fileSystem.WriteFile(path, []byte(value), 0o644); err != nil {
		return errors.NewSystemError(
			fmt.Sprintf("본드 옵션 %s=%s 적용 실패", key, value), err)
	}
	return nil
}

// EnsureBondMaster는 본드 디바이스를 커널에 등록합니다
func (c *NetlinkController) EnsureBondMaster(name string) error {
	if c.IsBondMaster(name) {
		return nil
	}
	if err := c.fileSystem.WriteFile(constants.BondingMasters, []byte("+"+name), 0o644); err != nil {
		return errors.NewSystemError("본드 "+name+" 등록 실패", err)
	}
	c.logger.WithField("device", name).Debug("본드 디바이스 등록")
	return nil
}

// RemoveBondMaster는 본드 디바이스를 커널에서 제거합니다
func (c *NetlinkController) RemoveBondMaster(name string) error {
	if err := c.fileSystem.WriteFile(constants.BondingMasters, []byte("-"+name), 0o644); err != nil {
		return errors.NewSystemError("본드 "+name+" 등록 해제 실패", err)
	}
	c.logger.WithField("device", name).Debug("본드 디바이스 등록 해제")
	return nil
}

// IsBondMaster는 본드가 커널에 등록되어 있는지 확인합니다
func (c *NetlinkController) IsBondMaster(name string) bool {
	content, err := c.fileSystem.ReadFile(constants.BondingMasters)
	if err != nil {
		return false
	}
	for _, master := range strings.Fields(string(content)) {
		if master == name {
			return true
		}
	}
	return false
}

// DeleteBridge는 브리지 디바이스를 커널에서 제거합니다.
// 브리지가 아닌 디바이스는 건드리지 않습니다.
func (c *NetlinkController) DeleteBridge(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		// 이미 없는 브리지 제거는 정상 상태
		return nil
	}
	if link.Type() != "bridge" {
		return errors.NewValidationError(name+"은(는) 브리지가 아님", nil)
	}
	if err := netlink.LinkDel(link); err != nil {
		return errors.NewSystemError("브리지 "+name+" 제거 실패", err)
	}
	return nil
}
