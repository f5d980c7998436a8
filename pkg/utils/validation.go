package utils

import (
	"fmt"
	"net"
	"regexp"
)

var (
	// 리눅스 IFNAMSIZ 제한(15자)과 금지 문자를 따르는 디바이스 이름 패턴
	devicePattern = regexp.MustCompile(`^[^/: \t\n]{1,15}$`)

	// 본딩 드라이버가 인식하는 모드 이름/번호
	bondModes = map[string]bool{
		"0": true, "balance-rr": true,
		"1": true, "active-backup": true,
		"2": true, "balance-xor": true,
		"3": true, "broadcast": true,
		"4": true, "802.3ad": true,
		"5": true, "balance-tlb": true,
		"6": true, "balance-alb": true,
	}
)

// ValidateDeviceName은 네트워크 디바이스 이름이 유효한지 검증
func ValidateDeviceName(name string) error {
	if name == "" {
		return fmt.Errorf("디바이스 이름이 비어있음")
	}

	if !devicePattern.MatchString(name) {
		return fmt.Errorf("잘못된 디바이스 이름 형식: %s (1~15자, '/', ':', 공백 불가)", name)
	}

	return nil
}

// ValidateIPv4Address는 IPv4 주소가 유효한지 검증
func ValidateIPv4Address(address string) error {
	if address == "" {
		return fmt.Errorf("IPv4 주소가 비어있음")
	}

	ip := net.ParseIP(address)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("잘못된 IPv4 주소 형식: %s", address)
	}

	return nil
}

// ValidateNetmask는 넷마스크가 유효한 연속 마스크인지 검증
func ValidateNetmask(netmask string) error {
	if netmask == "" {
		return fmt.Errorf("넷마스크가 비어있음")
	}

	ip := net.ParseIP(netmask)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("잘못된 넷마스크 형식: %s", netmask)
	}

	mask := net.IPMask(ip.To4())
	if ones, bits := mask.Size(); ones == 0 && bits == 0 {
		return fmt.Errorf("비연속 넷마스크: %s", netmask)
	}

	return nil
}

// ValidateBondMode는 본딩 모드가 드라이버가 인식하는 값인지 검증
func ValidateBondMode(mode string) error {
	if mode == "" {
		return fmt.Errorf("본딩 모드가 비어있음")
	}

	if !bondModes[mode] {
		return fmt.Errorf("알 수 없는 본딩 모드: %s", mode)
	}

	return nil
}

// ValidateDatabaseConfig은 데이터베이스 설정이 유효한지 검증
func ValidateDatabaseConfig(host, port, user, database string) error {
	if host == "" {
		return fmt.Errorf("데이터베이스 호스트가 비어있음")
	}

	if port == "" {
		return fmt.Errorf("데이터베이스 포트가 비어있음")
	}

	if user == "" {
		return fmt.Errorf("데이터베이스 사용자가 비어있음")
	}

	if database == "" {
		return fmt.Errorf("데이터베이스 이름이 비어있음")
	}

	return nil
}
