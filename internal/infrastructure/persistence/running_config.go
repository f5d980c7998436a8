package persistence

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// runningConfigDoc은 실행 설정 레지스트리 파일의 YAML 스키마입니다
type runningConfigDoc struct {
	Bondings map[string]interfaces.BondingAttrs `yaml:"bondings"`
	Networks map[string]interfaces.NetworkAttrs `yaml:"networks"`
}

// YAMLRunningConfigStore는 호스트에 실제 적용된 네트워크 설정의
// YAML 파일 레지스트리입니다. Set/Remove는 메모리만 변경하고 Save가
// 트랜잭션 커밋 시점에 영속화합니다.
//
// 통합 영속화 모드에서는 레지스트리가 소유한 디바이스들의 ifcfg 경로
// 집합을 함께 노출하여, 그 파일들이 온디스크 백업 계층에 중복 기록되지
// 않게 합니다.
type YAMLRunningConfigStore struct {
	mu                 sync.Mutex
	fileSystem         interfaces.FileSystem
	logger             *logrus.Logger
	path               string
	confDir            string
	unifiedPersistence bool
	doc                runningConfigDoc
}

// NewYAMLRunningConfigStore는 레지스트리 파일을 읽어 스토어를 생성합니다.
// 파일이 아직 없으면 빈 레지스트리로 시작합니다.
func NewYAMLRunningConfigStore(
	fs interfaces.FileSystem,
	logger *logrus.Logger,
	path string,
	confDir string,
	unifiedPersistence bool,
) (*YAMLRunningConfigStore, error) {
	store := &YAMLRunningConfigStore{
		fileSystem:         fs,
		logger:             logger,
		path:               path,
		confDir:            confDir,
		unifiedPersistence: unifiedPersistence,
		doc: runningConfigDoc{
			Bondings: make(map[string]interfaces.BondingAttrs),
			Networks: make(map[string]interfaces.NetworkAttrs),
		},
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, errors.NewSystemError("실행 설정 레지스트리 읽기 실패", err)
	}
	if err := yaml.Unmarshal(content, &store.doc); err != nil {
		return nil, errors.NewSystemError("실행 설정 레지스트리 파싱 실패", err)
	}
	if store.doc.Bondings == nil {
		store.doc.Bondings = make(map[string]interfaces.BondingAttrs)
	}
	if store.doc.Networks == nil {
		store.doc.Networks = make(map[string]interfaces.NetworkAttrs)
	}
	return store, nil
}

// SetBonding은 본드 속성을 레지스트리에 기록합니다
func (s *YAMLRunningConfigStore) SetBonding(name string, attrs interfaces.BondingAttrs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Bondings[name] = attrs
}

// RemoveBonding은 본드를 레지스트리에서 제거합니다
func (s *YAMLRunningConfigStore) RemoveBonding(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Bondings, name)
}

// SetNetwork는 네트워크 속성을 레지스트리에 기록합니다
func (s *YAMLRunningConfigStore) SetNetwork(name string, attrs interfaces.NetworkAttrs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Networks[name] = attrs
}

// RemoveNetwork는 네트워크를 레지스트리에서 제거합니다
func (s *YAMLRunningConfigStore) RemoveNetwork(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.doc.Networks, name)
}

// Save는 레지스트리를 디스크에 영속화합니다
func (s *YAMLRunningConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := yaml.Marshal(&s.doc)
	if err != nil {
		return errors.NewSystemError("실행 설정 레지스트리 직렬화 실패", err)
	}
	if err := s.fileSystem.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.NewSystemError("실행 설정 디렉토리 생성 실패", err)
	}
	if err := s.fileSystem.WriteFile(s.path, content, 0o644); err != nil {
		return errors.NewSystemError("실행 설정 레지스트리 저장 실패", err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":     s.path,
		"bondings": len(s.doc.Bondings),
		"networks": len(s.doc.Networks),
	}).Debug("실행 설정 레지스트리 저장 완료")
	return nil
}

// OwnedPaths는 레지스트리가 복구를 책임지는 ifcfg 파일 경로 집합을
// 반환합니다. 통합 영속화가 꺼져 있으면 비어 있습니다.
func (s *YAMLRunningConfigStore) OwnedPaths() map[string]struct{} {
	paths := make(map[string]struct{})
	if !s.unifiedPersistence {
		return paths
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	add := func(device string) {
		if device != "" {
			paths[filepath.Join(s.confDir, constants.NetConfPrefix+device)] = struct{}{}
		}
	}

	for bond, attrs := range s.doc.Bondings {
		add(bond)
		for _, slave := range attrs.Slaves {
			add(slave)
		}
	}
	for name, attrs := range s.doc.Networks {
		add(name)
		add(attrs.Device)
		add(attrs.Bonding)
		if attrs.Vlan > 0 {
			if attrs.Device != "" {
				add(attrs.Device + "." + strconv.Itoa(attrs.Vlan))
			} else if attrs.Bonding != "" {
				add(attrs.Bonding + "." + strconv.Itoa(attrs.Vlan))
			}
		}
	}
	return paths
}
