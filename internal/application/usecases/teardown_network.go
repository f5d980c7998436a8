package usecases

import (
	"context"
	"fmt"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// TeardownNetworkUseCase는 제거로 표시된 엔티티들을 호스트에서
// 걷어내는 유스케이스입니다. 적용 유스케이스와 마찬가지로 한 번의
// 실행이 하나의 트랜잭션입니다.
type TeardownNetworkUseCase struct {
	repository interfaces.EntityRepository
	txFactory  interfaces.TransactionFactory
	running    interfaces.RunningConfigStore
	logger     *logrus.Logger
}

// NewTeardownNetworkUseCase는 새로운 TeardownNetworkUseCase를 생성합니다
func NewTeardownNetworkUseCase(
	repo interfaces.EntityRepository,
	txFactory interfaces.TransactionFactory,
	running interfaces.RunningConfigStore,
	logger *logrus.Logger,
) *TeardownNetworkUseCase {
	return &TeardownNetworkUseCase{
		repository: repo,
		txFactory:  txFactory,
		running:    running,
		logger:     logger,
	}
}

// TeardownNetworkInput은 유스케이스의 입력 파라미터입니다
type TeardownNetworkInput struct {
	NodeName string
}

// TeardownNetworkOutput은 유스케이스의 출력 결과입니다
type TeardownNetworkOutput struct {
	RemovedCount int
	FailedCount  int
	TotalCount   int
	RolledBack   bool
}

// Execute는 제거 대기 레코드들을 하나의 트랜잭션으로 처리합니다
func (uc *TeardownNetworkUseCase) Execute(ctx context.Context, input TeardownNetworkInput) (*TeardownNetworkOutput, error) {
	pending, err := uc.repository.GetPendingRecords(ctx, input.NodeName)
	if err != nil {
		return nil, err
	}

	var records []interfaces.EntityRecord
	for _, record := range pending {
		if record.Action == interfaces.ActionRemove {
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return &TeardownNetworkOutput{}, nil
	}

	uc.logger.WithFields(logrus.Fields{
		"node_name":     input.NodeName,
		"total_records": len(records),
	}).Info("제거할 엔티티 레코드 발견")

	tx := uc.txFactory.Begin()

	for _, record := range records {
		if err := uc.removeRecord(ctx, tx, record); err != nil {
			uc.logger.WithFields(logrus.Fields{
				"record_id": record.ID,
				"device":    record.Entity.Name,
				"error":     err,
			}).Error("엔티티 제거 실패, 트랜잭션 롤백")

			metrics.RecordEntityRemoved(string(record.Entity.Kind), "failed")
			recordErrorMetric(err)

			if rbErr := tx.Rollback(); rbErr != nil {
				uc.logger.WithError(rbErr).Error("트랜잭션 롤백 실패")
			}
			if updErr := uc.repository.UpdateRecordStatus(ctx, record.ID, interfaces.StatusFailed); updErr != nil {
				uc.logger.WithError(updErr).WithField("record_id", record.ID).Error("레코드 상태 업데이트 실패")
			}
			return &TeardownNetworkOutput{
				FailedCount: 1,
				TotalCount:  len(records),
				RolledBack:  true,
			}, err
		}
	}

	if err := tx.Commit(); err != nil {
		uc.logger.WithError(err).Error("트랜잭션 커밋 실패")
		if rbErr := tx.Rollback(); rbErr != nil {
			uc.logger.WithError(rbErr).Error("커밋 실패 후 롤백 실패")
		}
		return &TeardownNetworkOutput{
			FailedCount: len(records),
			TotalCount:  len(records),
			RolledBack:  true,
		}, err
	}

	for _, record := range records {
		metrics.RecordEntityRemoved(string(record.Entity.Kind), "success")
		if err := uc.repository.UpdateRecordStatus(ctx, record.ID, interfaces.StatusApplied); err != nil {
			uc.logger.WithError(err).WithField("record_id", record.ID).Error("레코드 상태 업데이트 실패")
		}
	}

	return &TeardownNetworkOutput{
		RemovedCount: len(records),
		TotalCount:   len(records),
	}, nil
}

// removeRecord는 레코드 하나를 트랜잭션에서 제거하고, 성공 시 실행
// 설정 레지스트리에서도 걷어냅니다
func (uc *TeardownNetworkUseCase) removeRecord(ctx context.Context, tx interfaces.NetworkTransaction, record interfaces.EntityRecord) error {
	e := record.Entity

	uc.logger.WithFields(logrus.Fields{
		"record_id": record.ID,
		"device":    e.Name,
		"kind":      e.Kind,
		"force":     record.Force,
	}).Info("엔티티 제거 시작")

	var err error
	switch e.Kind {
	case entities.KindNic:
		err = tx.RemoveNic(ctx, e, record.Force)
	case entities.KindBond:
		err = tx.RemoveBond(ctx, e)
	case entities.KindBridge:
		err = tx.RemoveBridge(ctx, e)
	case entities.KindVlan:
		err = tx.RemoveVlan(ctx, e)
	default:
		err = errors.NewValidationError(fmt.Sprintf("알 수 없는 엔티티 종류: %s", e.Kind), nil)
	}
	if err != nil {
		return err
	}

	uc.running.RemoveNetwork(e.Name)
	return nil
}
