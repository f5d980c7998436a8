package interfaces

import (
	"context"

	"hostnet-agent/internal/domain/entities"
)

// RecordStatus는 컨트롤 플레인에 기록되는 엔티티 처리 상태입니다
type RecordStatus string

const (
	StatusPending RecordStatus = "pending"
	StatusApplied RecordStatus = "applied"
	StatusFailed  RecordStatus = "failed"
)

// RecordAction은 엔티티에 요청된 작업입니다
type RecordAction string

const (
	ActionConfigure RecordAction = "configure"
	ActionEdit      RecordAction = "edit"
	ActionRemove    RecordAction = "remove"
)

// EntityRecord는 컨트롤 플레인 한 행에 해당하는 원하는 상태입니다
type EntityRecord struct {
	ID     int
	Action RecordAction
	Force  bool
	Entity *entities.NetworkEntity
}

// EntityRepository는 노드의 원하는 네트워크 엔티티 정의를 조회하고
// 처리 상태를 기록하는 인터페이스입니다
type EntityRepository interface {
	// GetPendingRecords는 아직 적용되지 않은 엔티티 레코드들을 조회합니다
	GetPendingRecords(ctx context.Context, nodeName string) ([]EntityRecord, error)

	// UpdateRecordStatus는 레코드의 처리 상태를 갱신합니다
	UpdateRecordStatus(ctx context.Context, id int, status RecordStatus) error
}
