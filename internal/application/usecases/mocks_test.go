package usecases

import (
	"context"
	"io"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// MockEntityRepository는 EntityRepository의 테스트 목입니다
type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) GetPendingRecords(ctx context.Context, nodeName string) ([]interfaces.EntityRecord, error) {
	ret := m.Called(ctx, nodeName)
	var records []interfaces.EntityRecord
	if ret.Get(0) != nil {
		records = ret.Get(0).([]interfaces.EntityRecord)
	}
	return records, ret.Error(1)
}

func (m *MockEntityRepository) UpdateRecordStatus(ctx context.Context, id int, status interfaces.RecordStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// MockTransactionFactory는 TransactionFactory의 테스트 목입니다
type MockTransactionFactory struct {
	mock.Mock
}

func (m *MockTransactionFactory) Begin() interfaces.NetworkTransaction {
	return m.Called().Get(0).(interfaces.NetworkTransaction)
}

// MockNetworkTransaction은 NetworkTransaction의 테스트 목입니다
type MockNetworkTransaction struct {
	mock.Mock
}

func (m *MockNetworkTransaction) ConfigureNic(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) ConfigureBond(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) ConfigureBridge(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) ConfigureVlan(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) RemoveNic(ctx context.Context, e *entities.NetworkEntity, forceIfUsed bool) error {
	return m.Called(ctx, e, forceIfUsed).Error(0)
}

func (m *MockNetworkTransaction) RemoveBond(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) RemoveBridge(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) RemoveVlan(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) EditBonding(ctx context.Context, e *entities.NetworkEntity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockNetworkTransaction) Commit() error {
	return m.Called().Error(0)
}

func (m *MockNetworkTransaction) Rollback() error {
	return m.Called().Error(0)
}

// MockRunningConfigStore는 RunningConfigStore의 테스트 목입니다
type MockRunningConfigStore struct {
	mock.Mock
}

func (m *MockRunningConfigStore) SetBonding(name string, attrs interfaces.BondingAttrs) {
	m.Called(name, attrs)
}

func (m *MockRunningConfigStore) RemoveBonding(name string) {
	m.Called(name)
}

func (m *MockRunningConfigStore) SetNetwork(name string, attrs interfaces.NetworkAttrs) {
	m.Called(name, attrs)
}

func (m *MockRunningConfigStore) RemoveNetwork(name string) {
	m.Called(name)
}

func (m *MockRunningConfigStore) Save() error {
	return m.Called().Error(0)
}
