package ifcfg

import (
	"encoding/binary"
	"fmt"
	"net"
	"path/filepath"

	"hostnet-agent/internal/domain/errors"

	"github.com/sirupsen/logrus"
)

// SourceRouteWriter는 정적 주소 디바이스의 소스 기반 라우팅 파일
// (route-*, rule-*)을 쓰는 SourceRouteConfigurer 구현입니다.
// 파일은 ConfigWriter를 거치므로 트랜잭션 백업과 서명이 함께 적용됩니다.
type SourceRouteWriter struct {
	writer  *ConfigWriter
	logger  *logrus.Logger
	confDir string
}

// NewSourceRouteWriter는 새로운 SourceRouteWriter를 생성합니다
func NewSourceRouteWriter(writer *ConfigWriter, logger *logrus.Logger, confDir string) *SourceRouteWriter {
	return &SourceRouteWriter{writer: writer, logger: logger, confDir: confDir}
}

// Configure는 디바이스 전용 라우팅 테이블로 향하는 라우트/룰 파일을
// 씁니다. 테이블 번호는 주소의 32비트 표현이므로 주소당 유일합니다.
func (s *SourceRouteWriter) Configure(device, address, netmask, gateway string) error {
	addr := net.ParseIP(address).To4()
	mask := net.ParseIP(netmask).To4()
	gw := net.ParseIP(gateway).To4()
	if addr == nil || mask == nil || gw == nil {
		return errors.NewValidationError(
			fmt.Sprintf("소스 라우트에 유효하지 않은 주소: addr=%s mask=%s gw=%s",
				address, netmask, gateway), nil)
	}

	table := binary.BigEndian.Uint32(addr)
	prefixLen, _ := net.IPMask(mask).Size()
	network := fmt.Sprintf("%s/%d", addr.Mask(net.IPMask(mask)), prefixLen)

	routes := fmt.Sprintf("0.0.0.0/0 via %s dev %s table %d\n%s via %s dev %s table %d\n",
		gw, device, table, network, addr, device, table)
	rules := fmt.Sprintf("from %s table %d\nto %s dev %s table %d\n",
		network, table, network, device, table)

	if err := s.writer.WriteConfFile(filepath.Join(s.confDir, "route-"+device), routes); err != nil {
		return err
	}
	if err := s.writer.WriteConfFile(filepath.Join(s.confDir, "rule-"+device), rules); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"device":  device,
		"network": network,
		"table":   table,
	}).Debug("소스 라우트 파일 생성")
	return nil
}

// Remove는 디바이스의 라우트/룰 파일을 백업 후 제거합니다
func (s *SourceRouteWriter) Remove(device string) error {
	return s.writer.RemoveSourceRouteFiles(device)
}
