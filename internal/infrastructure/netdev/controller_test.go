package netdev

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"hostnet-agent/internal/domain/constants"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// recordingFileSystem은 쓰기 순서를 기록하는 sysfs 대역입니다
type recordingFileSystem struct {
	files  map[string][]byte
	writes []string
}

func newRecordingFileSystem() *recordingFileSystem {
	return &recordingFileSystem{files: map[string][]byte{}}
}

func (f *recordingFileSystem) ReadFile(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

func (f *recordingFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	f.files[path] = data
	f.writes = append(f.writes, filepath.Base(path)+"="+string(data))
	return nil
}

func (f *recordingFileSystem) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *recordingFileSystem) MkdirAll(path string, perm os.FileMode) error { return nil }

func (f *recordingFileSystem) Remove(path string) error {
	delete(f.files, path)
	return nil
}

func (f *recordingFileSystem) RemoveAll(path string) error { return nil }

func (f *recordingFileSystem) Rename(oldPath, newPath string) error {
	f.files[newPath] = f.files[oldPath]
	delete(f.files, oldPath)
	return nil
}

func (f *recordingFileSystem) Chmod(path string, perm os.FileMode) error { return nil }

func (f *recordingFileSystem) ListFiles(path string) ([]string, error) { return nil, nil }

func TestNetlinkController_BondMasters(t *testing.T) {
	t.Run("등록되지 않은 본드는 bonding_masters에 +이름을 쓴다", func(t *testing.T) {
		fs := newRecordingFileSystem()
		fs.files[constants.BondingMasters] = []byte("bond1\n")
		controller := NewNetlinkController(fs, newTestLogger())

		require.NoError(t, controller.EnsureBondMaster("bond0"))
		assert.Equal(t, []byte("+bond0"), fs.files[constants.BondingMasters])
	})

	t.Run("이미 등록된 본드는 다시 쓰지 않는다", func(t *testing.T) {
		fs := newRecordingFileSystem()
		fs.files[constants.BondingMasters] = []byte("bond0 bond1\n")
		controller := NewNetlinkController(fs, newTestLogger())

		require.NoError(t, controller.EnsureBondMaster("bond0"))
		assert.Empty(t, fs.writes)
	})

	t.Run("제거는 -이름을 쓴다", func(t *testing.T) {
		fs := newRecordingFileSystem()
		controller := NewNetlinkController(fs, newTestLogger())

		require.NoError(t, controller.RemoveBondMaster("bond0"))
		assert.Equal(t, []byte("-bond0"), fs.files[constants.BondingMasters])
	})

	t.Run("IsBondMaster는 공백 구분 목록에서 정확히 일치해야 한다", func(t *testing.T) {
		fs := newRecordingFileSystem()
		fs.files[constants.BondingMasters] = []byte("bond0 bond10\n")
		controller := NewNetlinkController(fs, newTestLogger())

		assert.True(t, controller.IsBondMaster("bond0"))
		assert.True(t, controller.IsBondMaster("bond10"))
		assert.False(t, controller.IsBondMaster("bond1"))
	})

	t.Run("bonding_masters를 읽을 수 없으면 미등록으로 본다", func(t *testing.T) {
		controller := NewNetlinkController(newRecordingFileSystem(), newTestLogger())
		assert.False(t, controller.IsBondMaster("bond0"))
	})
}

func TestNetlinkController_SetBondOptions(t *testing.T) {
	t.Run("mode가 항상 가장 먼저 기록된다", func(t *testing.T) {
		fs := newRecordingFileSystem()
		controller := NewNetlinkController(fs, newTestLogger())

		require.NoError(t, controller.SetBondOptions("bond0", map[string]string{
			"miimon":           "100",
			"mode":             "802.3ad",
			"lacp_rate":        "fast",
			"xmit_hash_policy": "layer3+4",
		}))

		require.NotEmpty(t, fs.writes)
		assert.Equal(t, "mode=802.3ad", fs.writes[0])

		bondingDir := filepath.Join(constants.SysClassNet, "bond0", "bonding")
		assert.Equal(t, []byte("100"), fs.files[filepath.Join(bondingDir, "miimon")])
		assert.Equal(t, []byte("fast"), fs.files[filepath.Join(bondingDir, "lacp_rate")])
	})

	t.Run("mode가 없으면 기본 모드 0을 먼저 쓴다", func(t *testing.T) {
		fs := newRecordingFileSystem()
		controller := NewNetlinkController(fs, newTestLogger())

		require.NoError(t, controller.SetBondOptions("bond0", map[string]string{"miimon": "100"}))
		assert.Equal(t, "mode=0", fs.writes[0])
	})
}

func TestFileDHCPTracker_Track(t *testing.T) {
	fs := newRecordingFileSystem()
	tracker := NewFileDHCPTracker(fs, newTestLogger(), "/run/hostnet/dhcp")

	tracker.Track("eth0")
	assert.True(t, fs.Exists("/run/hostnet/dhcp/eth0"))
}
