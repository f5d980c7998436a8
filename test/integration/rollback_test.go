//go:build integration
// +build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/infrastructure/adapters"
	"hostnet-agent/internal/infrastructure/ifcfg"
	"hostnet-agent/internal/infrastructure/persistence"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRelabeler struct{}

func (nopRelabeler) Relabel(string) {}

func TestConfigWriterRollbackIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("통합 테스트는 -short 플래그와 함께 실행시 스킵됩니다")
	}

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	newWriter := func(t *testing.T, root string) *ifcfg.ConfigWriter {
		t.Helper()
		running, err := persistence.NewYAMLRunningConfigStore(
			adapters.NewRealFileSystem(), logger,
			filepath.Join(root, "running_config.yaml"),
			filepath.Join(root, "network-scripts"), false)
		require.NoError(t, err)
		return ifcfg.NewConfigWriter(
			adapters.NewRealFileSystem(), nopRelabeler{}, running, logger,
			filepath.Join(root, "network-scripts"),
			filepath.Join(root, "netconfback"))
	}

	t.Run("기존 파일을 덮어쓴 뒤 롤백하면 원본이 복원된다", func(t *testing.T) {
		root := t.TempDir()
		writer := newWriter(t, root)
		path := writer.ConfFilePath("eth0")
		original := "DEVICE=eth0\nBOOTPROTO=dhcp\nONBOOT=yes\n"
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

		require.NoError(t, writer.AddNic(&entities.NetworkEntity{
			Kind: entities.KindNic,
			Name: "eth0",
			IPv4: entities.IPv4Config{
				Address: "192.168.10.5",
				Netmask: "255.255.255.0",
			},
		}))

		modified, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(modified), "IPADDR=192.168.10.5")

		require.NoError(t, writer.RestoreAtomicBackup())
		restored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, string(restored))
	})

	t.Run("없던 파일은 롤백 시 삭제된다", func(t *testing.T) {
		root := t.TempDir()
		writer := newWriter(t, root)

		require.NoError(t, writer.AddNic(&entities.NetworkEntity{
			Kind: entities.KindNic,
			Name: "eth1",
			IPv4: entities.IPv4Config{BootProto: entities.BootProtoDHCP},
		}))
		path := writer.ConfFilePath("eth1")
		require.FileExists(t, path)

		require.NoError(t, writer.RestoreAtomicBackup())
		assert.NoFileExists(t, path)
	})

	t.Run("온디스크 백업은 프로세스 재기동 후에도 복원 가능하다", func(t *testing.T) {
		root := t.TempDir()
		writer := newWriter(t, root)
		path := writer.ConfFilePath("eth0")
		original := "DEVICE=eth0\nBOOTPROTO=dhcp\nONBOOT=yes\n"
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

		require.NoError(t, writer.AddNic(&entities.NetworkEntity{
			Kind: entities.KindNic,
			Name: "eth0",
			IPv4: entities.IPv4Config{BootProto: entities.BootProtoDHCP},
		}))

		// 재기동을 흉내내어 새 writer가 디스크의 백업만으로 복원
		restarted := newWriter(t, root)
		require.NoError(t, restarted.LoadBackups())
		require.NoError(t, restarted.RestoreAtomicBackup())

		restored, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, string(restored))
	})

	t.Run("커밋은 온디스크 백업을 비우고 파일은 유지한다", func(t *testing.T) {
		root := t.TempDir()
		writer := newWriter(t, root)

		require.NoError(t, writer.AddNic(&entities.NetworkEntity{
			Kind: entities.KindNic,
			Name: "eth0",
			IPv4: entities.IPv4Config{BootProto: entities.BootProtoDHCP},
		}))
		require.NoError(t, writer.ClearBackups())

		require.FileExists(t, writer.ConfFilePath("eth0"))
		entries, err := os.ReadDir(filepath.Join(root, "netconfback"))
		if err == nil {
			assert.Empty(t, entries)
		}
	})
}
