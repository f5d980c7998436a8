package usecases

import (
	"context"
	"testing"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func nicRecord(id int, name string) interfaces.EntityRecord {
	return interfaces.EntityRecord{
		ID:     id,
		Action: interfaces.ActionConfigure,
		Entity: &entities.NetworkEntity{Kind: entities.KindNic, Name: name},
	}
}

func TestReconcileNetworkUseCase_Execute(t *testing.T) {
	t.Run("대기 레코드가 없으면 트랜잭션을 열지 않는다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		repo.On("GetPendingRecords", mock.Anything, "node1").Return(nil, nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		output, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		require.NoError(t, err)
		assert.Zero(t, output.TotalCount)
		factory.AssertNotCalled(t, "Begin")
	})

	t.Run("제거 레코드는 이 유스케이스에서 처리하지 않는다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		repo.On("GetPendingRecords", mock.Anything, "node1").Return([]interfaces.EntityRecord{
			{
				ID:     1,
				Action: interfaces.ActionRemove,
				Entity: &entities.NetworkEntity{Kind: entities.KindNic, Name: "eth0"},
			},
		}, nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		output, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		require.NoError(t, err)
		assert.Zero(t, output.TotalCount)
		factory.AssertNotCalled(t, "Begin")
	})

	t.Run("모든 레코드 적용 후 커밋하고 applied로 기록한다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		tx := new(MockNetworkTransaction)

		bond := &entities.NetworkEntity{
			Kind:    entities.KindBond,
			Name:    "bond0",
			Options: "mode=4",
			Slaves:  []*entities.NetworkEntity{{Kind: entities.KindNic, Name: "eth1"}},
		}
		records := []interfaces.EntityRecord{
			nicRecord(1, "eth0"),
			{ID: 2, Action: interfaces.ActionConfigure, Entity: bond},
		}
		repo.On("GetPendingRecords", mock.Anything, "node1").Return(records, nil).Once()
		factory.On("Begin").Return(tx).Once()
		tx.On("ConfigureNic", mock.Anything, records[0].Entity).Return(nil).Once()
		tx.On("ConfigureBond", mock.Anything, bond).Return(nil).Once()
		tx.On("Commit").Return(nil).Once()
		running.On("SetNetwork", "eth0", mock.Anything).Once()
		running.On("SetNetwork", "bond0", mock.Anything).Once()
		repo.On("UpdateRecordStatus", mock.Anything, 1, interfaces.StatusApplied).Return(nil).Once()
		repo.On("UpdateRecordStatus", mock.Anything, 2, interfaces.StatusApplied).Return(nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		output, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.AppliedCount)
		assert.Equal(t, 2, output.TotalCount)
		assert.False(t, output.RolledBack)
		tx.AssertExpectations(t)
		repo.AssertExpectations(t)
		running.AssertExpectations(t)
	})

	t.Run("하나라도 실패하면 롤백하고 실패 레코드만 failed로 남긴다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		tx := new(MockNetworkTransaction)

		records := []interfaces.EntityRecord{
			nicRecord(1, "eth0"),
			nicRecord(2, "eth1"),
			nicRecord(3, "eth2"),
		}
		cause := errors.NewActivationError("eth1", "Device eth1 does not seem to be present", nil)
		repo.On("GetPendingRecords", mock.Anything, "node1").Return(records, nil).Once()
		factory.On("Begin").Return(tx).Once()
		tx.On("ConfigureNic", mock.Anything, records[0].Entity).Return(nil).Once()
		running.On("SetNetwork", "eth0", mock.Anything).Once()
		tx.On("ConfigureNic", mock.Anything, records[1].Entity).Return(cause).Once()
		tx.On("Rollback").Return(nil).Once()
		// 실패한 레코드만 기록되고 나머지는 pending으로 남습니다
		repo.On("UpdateRecordStatus", mock.Anything, 2, interfaces.StatusFailed).Return(nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		output, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		require.ErrorIs(t, err, cause)
		assert.True(t, output.RolledBack)
		assert.Equal(t, 1, output.FailedCount)
		assert.Equal(t, 3, output.TotalCount)
		tx.AssertNotCalled(t, "ConfigureNic", mock.Anything, records[2].Entity)
		tx.AssertNotCalled(t, "Commit")
		repo.AssertExpectations(t)
	})

	t.Run("커밋이 실패하면 롤백한다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		tx := new(MockNetworkTransaction)

		records := []interfaces.EntityRecord{nicRecord(1, "eth0")}
		repo.On("GetPendingRecords", mock.Anything, "node1").Return(records, nil).Once()
		factory.On("Begin").Return(tx).Once()
		tx.On("ConfigureNic", mock.Anything, records[0].Entity).Return(nil).Once()
		running.On("SetNetwork", "eth0", mock.Anything).Once()
		tx.On("Commit").Return(assert.AnError).Once()
		tx.On("Rollback").Return(nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		output, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		require.Error(t, err)
		assert.True(t, output.RolledBack)
		tx.AssertExpectations(t)
	})

	t.Run("본드가 아닌 엔티티의 편집은 거부된다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		tx := new(MockNetworkTransaction)

		records := []interfaces.EntityRecord{
			{
				ID:     1,
				Action: interfaces.ActionEdit,
				Entity: &entities.NetworkEntity{Kind: entities.KindNic, Name: "eth0"},
			},
		}
		repo.On("GetPendingRecords", mock.Anything, "node1").Return(records, nil).Once()
		factory.On("Begin").Return(tx).Once()
		tx.On("Rollback").Return(nil).Once()
		repo.On("UpdateRecordStatus", mock.Anything, 1, interfaces.StatusFailed).Return(nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		_, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		assert.True(t, errors.IsValidationError(err))
		tx.AssertNotCalled(t, "EditBonding", mock.Anything, mock.Anything)
	})

	t.Run("본드 편집은 EditBonding으로 위임된다", func(t *testing.T) {
		repo := new(MockEntityRepository)
		factory := new(MockTransactionFactory)
		running := new(MockRunningConfigStore)
		tx := new(MockNetworkTransaction)

		bond := &entities.NetworkEntity{
			Kind:    entities.KindBond,
			Name:    "bond0",
			Options: "mode=4",
			Slaves:  []*entities.NetworkEntity{{Kind: entities.KindNic, Name: "eth1"}},
		}
		records := []interfaces.EntityRecord{
			{ID: 1, Action: interfaces.ActionEdit, Entity: bond},
		}
		repo.On("GetPendingRecords", mock.Anything, "node1").Return(records, nil).Once()
		factory.On("Begin").Return(tx).Once()
		tx.On("EditBonding", mock.Anything, bond).Return(nil).Once()
		tx.On("Commit").Return(nil).Once()
		repo.On("UpdateRecordStatus", mock.Anything, 1, interfaces.StatusApplied).Return(nil).Once()

		uc := NewReconcileNetworkUseCase(repo, factory, running, newTestLogger())
		output, err := uc.Execute(context.Background(), ReconcileNetworkInput{NodeName: "node1"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.AppliedCount)
		tx.AssertExpectations(t)
	})
}

func TestNetworkAttrsFor(t *testing.T) {
	t.Run("본드 위 VLAN을 포트로 둔 브리지", func(t *testing.T) {
		bond := &entities.NetworkEntity{Kind: entities.KindBond, Name: "bond0"}
		vlan := &entities.NetworkEntity{
			Kind:   entities.KindVlan,
			Name:   "bond0.100",
			Device: bond,
			Tag:    100,
		}
		bridge := &entities.NetworkEntity{Kind: entities.KindBridge, Name: "br0", Port: vlan}

		attrs := networkAttrsFor(bridge)
		assert.Equal(t, "bridge", attrs.Kind)
		assert.True(t, attrs.Bridged)
		assert.Equal(t, 100, attrs.Vlan)
		assert.Equal(t, "bond0", attrs.Bonding)
		assert.Empty(t, attrs.Device)
	})

	t.Run("물리 디바이스 위 VLAN", func(t *testing.T) {
		nic := &entities.NetworkEntity{Kind: entities.KindNic, Name: "eth0"}
		vlan := &entities.NetworkEntity{
			Kind:   entities.KindVlan,
			Name:   "eth0.200",
			Device: nic,
			Tag:    200,
		}

		attrs := networkAttrsFor(vlan)
		assert.Equal(t, "vlan", attrs.Kind)
		assert.False(t, attrs.Bridged)
		assert.Equal(t, 200, attrs.Vlan)
		assert.Equal(t, "eth0", attrs.Device)
		assert.Empty(t, attrs.Bonding)
	})

	t.Run("독립 NIC", func(t *testing.T) {
		attrs := networkAttrsFor(&entities.NetworkEntity{Kind: entities.KindNic, Name: "eth0"})
		assert.Equal(t, "nic", attrs.Kind)
		assert.Equal(t, "eth0", attrs.Device)
	})
}
