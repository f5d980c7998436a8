package usecases

import (
	"context"
	"fmt"
	"time"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// ReconcileNetworkUseCase는 컨트롤 플레인의 원하는 상태를 호스트에
// 적용하는 유스케이스입니다. 한 번의 실행이 하나의 트랜잭션이며,
// 어느 엔티티에서든 실패하면 이번 패스의 모든 파일 변형이 롤백됩니다.
type ReconcileNetworkUseCase struct {
	repository interfaces.EntityRepository
	txFactory  interfaces.TransactionFactory
	running    interfaces.RunningConfigStore
	logger     *logrus.Logger
}

// NewReconcileNetworkUseCase는 새로운 ReconcileNetworkUseCase를 생성합니다
func NewReconcileNetworkUseCase(
	repo interfaces.EntityRepository,
	txFactory interfaces.TransactionFactory,
	running interfaces.RunningConfigStore,
	logger *logrus.Logger,
) *ReconcileNetworkUseCase {
	return &ReconcileNetworkUseCase{
		repository: repo,
		txFactory:  txFactory,
		running:    running,
		logger:     logger,
	}
}

// ReconcileNetworkInput은 유스케이스의 입력 파라미터입니다
type ReconcileNetworkInput struct {
	NodeName string
}

// ReconcileNetworkOutput은 유스케이스의 출력 결과입니다
type ReconcileNetworkOutput struct {
	AppliedCount int
	FailedCount  int
	TotalCount   int
	RolledBack   bool
}

// Execute는 설정/편집 대기 레코드들을 하나의 트랜잭션으로 적용합니다
func (uc *ReconcileNetworkUseCase) Execute(ctx context.Context, input ReconcileNetworkInput) (*ReconcileNetworkOutput, error) {
	started := time.Now()
	defer func() {
		metrics.RecordReconcilePass(time.Since(started))
	}()

	pending, err := uc.repository.GetPendingRecords(ctx, input.NodeName)
	if err != nil {
		return nil, err
	}

	var records []interfaces.EntityRecord
	for _, record := range pending {
		if record.Action == interfaces.ActionConfigure || record.Action == interfaces.ActionEdit {
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return &ReconcileNetworkOutput{}, nil
	}

	uc.logger.WithFields(logrus.Fields{
		"node_name":     input.NodeName,
		"total_records": len(records),
	}).Info("적용할 엔티티 레코드 발견")

	tx := uc.txFactory.Begin()

	for _, record := range records {
		if err := uc.applyRecord(ctx, tx, record); err != nil {
			return uc.failAndRollback(ctx, tx, record, len(records), err)
		}
	}

	if err := tx.Commit(); err != nil {
		uc.logger.WithError(err).Error("트랜잭션 커밋 실패")
		if rbErr := tx.Rollback(); rbErr != nil {
			uc.logger.WithError(rbErr).Error("커밋 실패 후 롤백 실패")
		}
		return &ReconcileNetworkOutput{
			FailedCount: len(records),
			TotalCount:  len(records),
			RolledBack:  true,
		}, err
	}

	for _, record := range records {
		metrics.RecordEntityConfigured(string(record.Entity.Kind), "success")
		if err := uc.repository.UpdateRecordStatus(ctx, record.ID, interfaces.StatusApplied); err != nil {
			uc.logger.WithError(err).WithField("record_id", record.ID).Error("레코드 상태 업데이트 실패")
		}
	}

	return &ReconcileNetworkOutput{
		AppliedCount: len(records),
		TotalCount:   len(records),
	}, nil
}

// applyRecord는 레코드 하나를 트랜잭션에 적용하고, 성공 시 실행 설정
// 레지스트리에 반영합니다
func (uc *ReconcileNetworkUseCase) applyRecord(ctx context.Context, tx interfaces.NetworkTransaction, record interfaces.EntityRecord) error {
	e := record.Entity

	uc.logger.WithFields(logrus.Fields{
		"record_id": record.ID,
		"device":    e.Name,
		"kind":      e.Kind,
		"action":    record.Action,
	}).Info("엔티티 적용 시작")

	switch record.Action {
	case interfaces.ActionEdit:
		if e.Kind != entities.KindBond {
			return errors.NewValidationError(
				fmt.Sprintf("편집은 본드만 지원: %s (%s)", e.Name, e.Kind), nil)
		}
		return tx.EditBonding(ctx, e)

	case interfaces.ActionConfigure:
		var err error
		switch e.Kind {
		case entities.KindNic:
			err = tx.ConfigureNic(ctx, e)
		case entities.KindBond:
			err = tx.ConfigureBond(ctx, e)
		case entities.KindBridge:
			err = tx.ConfigureBridge(ctx, e)
		case entities.KindVlan:
			err = tx.ConfigureVlan(ctx, e)
		default:
			err = errors.NewValidationError(fmt.Sprintf("알 수 없는 엔티티 종류: %s", e.Kind), nil)
		}
		if err != nil {
			return err
		}
		uc.running.SetNetwork(e.Name, networkAttrsFor(e))
		return nil
	}

	return errors.NewValidationError(fmt.Sprintf("알 수 없는 작업: %s", record.Action), nil)
}

// failAndRollback은 실패한 레코드를 기록하고 트랜잭션 전체를 되돌립니다
func (uc *ReconcileNetworkUseCase) failAndRollback(
	ctx context.Context,
	tx interfaces.NetworkTransaction,
	failed interfaces.EntityRecord,
	total int,
	cause error,
) (*ReconcileNetworkOutput, error) {
	uc.logger.WithFields(logrus.Fields{
		"record_id": failed.ID,
		"device":    failed.Entity.Name,
		"error":     cause,
	}).Error("엔티티 적용 실패, 트랜잭션 롤백")

	metrics.RecordEntityConfigured(string(failed.Entity.Kind), "failed")
	recordErrorMetric(cause)

	if err := tx.Rollback(); err != nil {
		uc.logger.WithError(err).Error("트랜잭션 롤백 실패")
	}
	if err := uc.repository.UpdateRecordStatus(ctx, failed.ID, interfaces.StatusFailed); err != nil {
		uc.logger.WithError(err).WithField("record_id", failed.ID).Error("레코드 상태 업데이트 실패")
	}

	return &ReconcileNetworkOutput{
		FailedCount: 1,
		TotalCount:  total,
		RolledBack:  true,
	}, cause
}

// networkAttrsFor는 엔티티를 실행 설정 레지스트리 속성으로 변환합니다
func networkAttrsFor(e *entities.NetworkEntity) interfaces.NetworkAttrs {
	attrs := interfaces.NetworkAttrs{
		Kind:    string(e.Kind),
		Bridged: e.Kind == entities.KindBridge,
	}

	describe := func(dev *entities.NetworkEntity) {
		if dev == nil {
			return
		}
		switch dev.Kind {
		case entities.KindBond:
			attrs.Bonding = dev.Name
		case entities.KindVlan:
			attrs.Vlan = dev.Tag
			if dev.Device != nil {
				if dev.Device.Kind == entities.KindBond {
					attrs.Bonding = dev.Device.Name
				} else {
					attrs.Device = dev.Device.Name
				}
			}
		default:
			attrs.Device = dev.Name
		}
	}

	switch e.Kind {
	case entities.KindBridge:
		describe(e.Port)
	case entities.KindVlan:
		describe(e)
	case entities.KindBond:
		attrs.Bonding = e.Name
	default:
		attrs.Device = e.Name
	}
	return attrs
}

// recordErrorMetric은 도메인 에러 타입을 에러 메트릭 레이블로 기록합니다
func recordErrorMetric(err error) {
	switch {
	case errors.IsValidationError(err):
		metrics.RecordError("validation")
	case errors.IsOwnershipError(err):
		metrics.RecordError("ownership")
	case errors.IsActivationError(err):
		metrics.RecordError("activation")
	case errors.IsBondingSyncError(err):
		metrics.RecordError("bonding_sync")
	case errors.IsTimeoutError(err):
		metrics.RecordError("timeout")
	case errors.IsNotFoundError(err):
		metrics.RecordError("not_found")
	default:
		metrics.RecordError("system")
	}
}
