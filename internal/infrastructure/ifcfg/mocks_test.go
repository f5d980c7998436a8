package ifcfg

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeFileSystem은 메모리 맵 기반의 FileSystem 테스트 더블입니다
type fakeFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeFileSystem() *fakeFileSystem {
	return &fakeFileSystem{files: make(map[string][]byte)}
}

func notExist(path string) error {
	return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
}

func (f *fakeFileSystem) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.files[path]
	if !ok {
		return nil, notExist(path)
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

func (f *fakeFileSystem) WriteFile(path string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	f.files[path] = stored
	return nil
}

func (f *fakeFileSystem) Exists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; ok {
		return true
	}
	// 디렉토리 존재 여부는 그 아래 파일이 있는지로 판단
	prefix := path + "/"
	for stored := range f.files {
		if len(stored) > len(prefix) && stored[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func (f *fakeFileSystem) MkdirAll(path string, perm fs.FileMode) error { return nil }

func (f *fakeFileSystem) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return notExist(path)
	}
	delete(f.files, path)
	return nil
}

func (f *fakeFileSystem) RemoveAll(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := path + "/"
	for stored := range f.files {
		if stored == path || (len(stored) > len(prefix) && stored[:len(prefix)] == prefix) {
			delete(f.files, stored)
		}
	}
	return nil
}

func (f *fakeFileSystem) Rename(oldPath, newPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.files[oldPath]
	if !ok {
		return notExist(oldPath)
	}
	f.files[newPath] = content
	delete(f.files, oldPath)
	return nil
}

func (f *fakeFileSystem) Chmod(path string, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return notExist(path)
	}
	return nil
}

func (f *fakeFileSystem) ListFiles(path string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for stored := range f.files {
		if filepath.Dir(stored) == path {
			names = append(names, filepath.Base(stored))
		}
	}
	if names == nil {
		return nil, notExist(path)
	}
	sort.Strings(names)
	return names, nil
}

// MockCommandExecutor는 CommandExecutor의 테스트 목입니다
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	argList := []interface{}{ctx, command}
	for _, arg := range args {
		argList = append(argList, arg)
	}
	ret := m.Called(argList...)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}

func (m *MockCommandExecutor) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error) {
	argList := []interface{}{ctx, timeout, command}
	for _, arg := range args {
		argList = append(argList, arg)
	}
	ret := m.Called(argList...)
	var out []byte
	if ret.Get(0) != nil {
		out = ret.Get(0).([]byte)
	}
	return out, ret.Error(1)
}

// MockDeviceQuerier는 DeviceQuerier의 테스트 목입니다
type MockDeviceQuerier struct {
	mock.Mock
}

func (m *MockDeviceQuerier) Exists(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceQuerier) HardwareAddr(name string) (string, error) {
	ret := m.Called(name)
	return ret.String(0), ret.Error(1)
}

func (m *MockDeviceQuerier) OperUp(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceQuerier) HasIPv4Addr(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceQuerier) HasIPv6Addr(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceQuerier) BondSlaves(name string) ([]string, error) {
	ret := m.Called(name)
	var slaves []string
	if ret.Get(0) != nil {
		slaves = ret.Get(0).([]string)
	}
	return slaves, ret.Error(1)
}

func (m *MockDeviceQuerier) BondOptions(name string) (map[string]string, error) {
	ret := m.Called(name)
	var options map[string]string
	if ret.Get(0) != nil {
		options = ret.Get(0).(map[string]string)
	}
	return options, ret.Error(1)
}

func (m *MockDeviceQuerier) VlanDevsFor(name string) []string {
	ret := m.Called(name)
	var vlans []string
	if ret.Get(0) != nil {
		vlans = ret.Get(0).([]string)
	}
	return vlans
}

func (m *MockDeviceQuerier) IsVlanned(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceQuerier) IsBridge(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceQuerier) LiveMTU(name string) (int, error) {
	ret := m.Called(name)
	return ret.Int(0), ret.Error(1)
}

func (m *MockDeviceQuerier) UsageCount(name string) int {
	return m.Called(name).Int(0)
}

func (m *MockDeviceQuerier) BridgedNetworkFor(name string) string {
	return m.Called(name).String(0)
}

// MockDeviceController는 DeviceController의 테스트 목입니다
type MockDeviceController struct {
	mock.Mock
}

func (m *MockDeviceController) SetLinkMTU(name string, mtu int) error {
	return m.Called(name, mtu).Error(0)
}

func (m *MockDeviceController) SetBondOptions(name string, options map[string]string) error {
	return m.Called(name, options).Error(0)
}

func (m *MockDeviceController) EnsureBondMaster(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockDeviceController) RemoveBondMaster(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockDeviceController) IsBondMaster(name string) bool {
	return m.Called(name).Bool(0)
}

func (m *MockDeviceController) DeleteBridge(name string) error {
	return m.Called(name).Error(0)
}

// MockAcquirer는 OwnershipAcquirer의 테스트 목입니다
type MockAcquirer struct {
	mock.Mock
}

func (m *MockAcquirer) Acquire(ctx context.Context, device string) error {
	return m.Called(ctx, device).Error(0)
}

func (m *MockAcquirer) AcquireVlan(ctx context.Context, device string) error {
	return m.Called(ctx, device).Error(0)
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

// MockSourceRouteConfigurer는 SourceRouteConfigurer의 테스트 목입니다
type MockSourceRouteConfigurer struct {
	mock.Mock
}

func (m *MockSourceRouteConfigurer) Configure(device, address, netmask, gateway string) error {
	return m.Called(device, address, netmask, gateway).Error(0)
}

func (m *MockSourceRouteConfigurer) Remove(device string) error {
	return m.Called(device).Error(0)
}

// MockDHCPTracker는 DHCPTracker의 테스트 목입니다
type MockDHCPTracker struct {
	mock.Mock
}

func (m *MockDHCPTracker) Track(device string) {
	m.Called(device)
}

// nopRelabeler는 레이블 복원을 생략하는 Relabeler입니다
type nopRelabeler struct{}

func (nopRelabeler) Relabel(path string) {}

// staticUnified는 고정된 경로 집합을 노출하는 UnifiedConfigTracker입니다
type staticUnified struct {
	paths map[string]struct{}
}

func (s staticUnified) OwnedPaths() map[string]struct{} {
	if s.paths == nil {
		return map[string]struct{}{}
	}
	return s.paths
}
