package errors

import (
	"errors"
	"fmt"
)

// ErrorType은 에러의 종류를 나타냅니다
type ErrorType string

const (
	// ErrorTypeValidation은 유효성 검증 실패를 나타냅니다
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound는 리소스를 찾을 수 없음을 나타냅니다
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeSystem은 시스템 레벨 에러를 나타냅니다
	ErrorTypeSystem ErrorType = "SYSTEM"

	// ErrorTypeTimeout은 타임아웃 에러를 나타냅니다
	ErrorTypeTimeout ErrorType = "TIMEOUT"

	// ErrorTypeOwnership은 디바이스가 다른 네트워크 매니저의 소유이고
	// 인수(acquire)에 실패했음을 나타냅니다
	ErrorTypeOwnership ErrorType = "OWNERSHIP"

	// ErrorTypeActivation은 외부 활성화 도구(ifup)가 실패를 반환했음을
	// 나타냅니다. Message에 도구 출력의 마지막 진단 라인이 담깁니다
	ErrorTypeActivation ErrorType = "ACTIVATION"

	// ErrorTypeBondingSync는 VLAN-over-bond 하드웨어 주소 동기화가
	// 재시도 한도 내에 수렴하지 못했음을 나타냅니다
	ErrorTypeBondingSync ErrorType = "BONDING_SYNC"

	// ErrorTypeProgramming은 호출자 계약 위반을 나타냅니다
	// (유효한 트랜잭션 밖에서 Commit/Rollback을 호출한 경우)
	ErrorTypeProgramming ErrorType = "PROGRAMMING"
)

// DomainError는 도메인 레벨의 에러를 나타냅니다
type DomainError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error는 error 인터페이스를 구현합니다
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap은 내부 에러를 반환합니다
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is는 에러 비교를 위한 메서드입니다
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// 생성자 함수들

// NewValidationError는 유효성 검증 에러를 생성합니다
func NewValidationError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError는 리소스를 찾을 수 없는 에러를 생성합니다
func NewNotFoundError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewSystemError는 시스템 에러를 생성합니다
func NewSystemError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeSystem,
		Message: message,
		Cause:   cause,
	}
}

// NewTimeoutError는 타임아웃 에러를 생성합니다
func NewTimeoutError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// NewOwnershipError는 디바이스 인수 실패 에러를 생성합니다
func NewOwnershipError(device string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeOwnership,
		Message: fmt.Sprintf("디바이스 %s를 다른 매니저로부터 인수하지 못함", device),
		Cause:   cause,
	}
}

// NewActivationError는 활성화 실패 에러를 생성합니다.
// lastLine은 외부 도구 출력의 마지막 진단 라인입니다.
func NewActivationError(device, lastLine string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeActivation,
		Message: fmt.Sprintf("디바이스 %s 활성화 실패: %s", device, lastLine),
		Cause:   cause,
	}
}

// NewBondingSyncError는 VLAN/본드 주소 동기화 실패 에러를 생성합니다
func NewBondingSyncError(vlan, bond string) *DomainError {
	return &DomainError{
		Type: ErrorTypeBondingSync,
		Message: fmt.Sprintf(
			"VLAN %s를 본드 %s 위에 추가하는 동안 본드 hwaddr가 슬레이브와 동기화되지 않음",
			vlan, bond),
	}
}

// NewProgrammingError는 호출자 계약 위반 에러를 생성합니다
func NewProgrammingError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeProgramming,
		Message: message,
	}
}

// 에러 타입 확인 헬퍼 함수들

func isType(err error, errorType ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == errorType
	}
	return false
}

// IsValidationError는 유효성 검증 에러인지 확인합니다
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsNotFoundError는 리소스를 찾을 수 없는 에러인지 확인합니다
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsSystemError는 시스템 에러인지 확인합니다
func IsSystemError(err error) bool {
	return isType(err, ErrorTypeSystem)
}

// IsTimeoutError는 타임아웃 에러인지 확인합니다
func IsTimeoutError(err error) bool {
	return isType(err, ErrorTypeTimeout)
}

// IsOwnershipError는 디바이스 인수 실패 에러인지 확인합니다
func IsOwnershipError(err error) bool {
	return isType(err, ErrorTypeOwnership)
}

// IsActivationError는 활성화 실패 에러인지 확인합니다
func IsActivationError(err error) bool {
	return isType(err, ErrorTypeActivation)
}

// IsBondingSyncError는 본드 동기화 실패 에러인지 확인합니다
func IsBondingSyncError(err error) bool {
	return isType(err, ErrorTypeBondingSync)
}

// IsProgrammingError는 호출자 계약 위반 에러인지 확인합니다
func IsProgrammingError(err error) bool {
	return isType(err, ErrorTypeProgramming)
}
