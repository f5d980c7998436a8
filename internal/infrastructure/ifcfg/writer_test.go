package ifcfg

import (
	"path/filepath"
	"testing"

	"hostnet-agent/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testConfDir   = "/etc/sysconfig/network-scripts"
	testBackupDir = "/var/lib/hostnet/netconfback"
)

func newTestWriter(fs *fakeFileSystem, unified staticUnified) *ConfigWriter {
	return NewConfigWriter(fs, nopRelabeler{}, unified, newTestLogger(), testConfDir, testBackupDir)
}

func boolPtr(v bool) *bool { return &v }

func TestConfigWriter_WriteConfFile(t *testing.T) {
	t.Run("서명 헤더가 첫 라인에 기록된다", func(t *testing.T) {
		fs := newFakeFileSystem()
		writer := newTestWriter(fs, staticUnified{})

		path := filepath.Join(testConfDir, "ifcfg-eth0")
		err := writer.WriteConfFile(path, "DEVICE=eth0\n")
		require.NoError(t, err)

		content, err := fs.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, ConfFileHeader+"\nDEVICE=eth0\n", string(content))
		assert.True(t, writer.OwnedDevice("eth0"))
	})

	t.Run("반복 쓰기에도 최초 원본만 백업된다", func(t *testing.T) {
		fs := newFakeFileSystem()
		path := filepath.Join(testConfDir, "ifcfg-eth0")
		original := "DEVICE=eth0\nBOOTPROTO=dhcp\n"
		require.NoError(t, fs.WriteFile(path, []byte(original), 0o664))

		writer := newTestWriter(fs, staticUnified{})
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=eth0\nfirst\n"))
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=eth0\nsecond\n"))

		require.NoError(t, writer.RestoreAtomicBackup())
		content, err := fs.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, string(content))
	})

	t.Run("존재하지 않던 파일은 롤백 시 삭제된다", func(t *testing.T) {
		fs := newFakeFileSystem()
		writer := newTestWriter(fs, staticUnified{})

		path := filepath.Join(testConfDir, "ifcfg-bond0")
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=bond0\n"))
		assert.True(t, fs.Exists(path))

		require.NoError(t, writer.RestoreAtomicBackup())
		assert.False(t, fs.Exists(path))
	})
}

func TestConfigWriter_PersistentBackup(t *testing.T) {
	t.Run("기존 파일은 온디스크 백업에 원본이 남는다", func(t *testing.T) {
		fs := newFakeFileSystem()
		path := filepath.Join(testConfDir, "ifcfg-eth0")
		original := "DEVICE=eth0\nBOOTPROTO=dhcp\n"
		require.NoError(t, fs.WriteFile(path, []byte(original), 0o664))

		writer := newTestWriter(fs, staticUnified{})
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=eth0\n"))
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=eth0\nMTU=9000\n"))

		backup, err := fs.ReadFile(filepath.Join(testBackupDir, "ifcfg-eth0"))
		require.NoError(t, err)
		assert.Equal(t, original, string(backup))
	})

	t.Run("없던 파일은 센티널 백업으로 기록되고 로드 시 삭제 레코드가 된다", func(t *testing.T) {
		fs := newFakeFileSystem()
		writer := newTestWriter(fs, staticUnified{})

		path := filepath.Join(testConfDir, "ifcfg-bond0")
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=bond0\n"))

		backup, err := fs.ReadFile(filepath.Join(testBackupDir, "ifcfg-bond0"))
		require.NoError(t, err)
		assert.Equal(t, deletedHeader+"\n", string(backup))

		// 새 세션이 온디스크 계층을 로드하여 복원하는 경로
		recovery := newTestWriter(fs, staticUnified{})
		require.NoError(t, recovery.LoadBackups())
		require.NoError(t, recovery.RestoreAtomicBackup())
		assert.False(t, fs.Exists(path))
	})

	t.Run("통합 복구 경로가 관리하는 파일은 온디스크 백업을 생략한다", func(t *testing.T) {
		fs := newFakeFileSystem()
		path := filepath.Join(testConfDir, "ifcfg-eth0")
		require.NoError(t, fs.WriteFile(path, []byte("DEVICE=eth0\n"), 0o664))

		writer := newTestWriter(fs, staticUnified{paths: map[string]struct{}{path: {}}})
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=eth0\n"))

		assert.False(t, fs.Exists(filepath.Join(testBackupDir, "ifcfg-eth0")))
		// 메모리 백업은 항상 유지됩니다
		assert.Contains(t, writer.TrackedPaths(), path)
	})

	t.Run("ClearBackups는 온디스크 저장소만 비운다", func(t *testing.T) {
		fs := newFakeFileSystem()
		path := filepath.Join(testConfDir, "ifcfg-eth0")
		require.NoError(t, fs.WriteFile(path, []byte("DEVICE=eth0\n"), 0o664))

		writer := newTestWriter(fs, staticUnified{})
		require.NoError(t, writer.WriteConfFile(path, "DEVICE=eth0\n"))
		require.NoError(t, writer.ClearBackups())

		assert.False(t, fs.Exists(filepath.Join(testBackupDir, "ifcfg-eth0")))
		assert.Contains(t, writer.TrackedPaths(), path)
	})
}

func TestConfigWriter_Rendering(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w *ConfigWriter) error
		device string
		want   string
	}{
		{
			name: "정적 IPv4 NIC",
			write: func(w *ConfigWriter) error {
				return w.AddNic(&entities.NetworkEntity{
					Kind: entities.KindNic,
					Name: "eth0",
					IPv4: entities.IPv4Config{
						Address:      "192.168.10.5",
						Netmask:      "255.255.255.0",
						Gateway:      "192.168.10.1",
						DefaultRoute: true,
					},
					MTU:         9000,
					Nameservers: []string{"8.8.8.8", "8.8.4.4", "1.1.1.1"},
				})
			},
			device: "eth0",
			want: ConfFileHeader + "\n" +
				"DEVICE=eth0\n" +
				"ONBOOT=yes\n" +
				"IPADDR=192.168.10.5\n" +
				"NETMASK=255.255.255.0\n" +
				"GATEWAY=192.168.10.1\n" +
				"BOOTPROTO=none\n" +
				"MTU=9000\n" +
				"DEFROUTE=yes\n" +
				"NM_CONTROLLED=no\n" +
				"IPV6INIT=no\n" +
				"DNS1=8.8.8.8\n" +
				"DNS2=8.8.4.4\n",
		},
		{
			name: "본드 슬레이브 NIC",
			write: func(w *ConfigWriter) error {
				bond := &entities.NetworkEntity{Kind: entities.KindBond, Name: "bond0"}
				return w.AddNic(&entities.NetworkEntity{
					Kind:   entities.KindNic,
					Name:   "eth1",
					Master: bond,
				})
			},
			device: "eth1",
			want: ConfFileHeader + "\n" +
				"DEVICE=eth1\n" +
				"MASTER=bond0\n" +
				"SLAVE=yes\n" +
				"ONBOOT=yes\n" +
				"DEFROUTE=no\n" +
				"NM_CONTROLLED=no\n" +
				"IPV6INIT=no\n",
		},
		{
			name: "브리지 소속 본드",
			write: func(w *ConfigWriter) error {
				bridge := &entities.NetworkEntity{Kind: entities.KindBridge, Name: "br0"}
				return w.AddBonding(&entities.NetworkEntity{
					Kind:    entities.KindBond,
					Name:    "bond0",
					Options: "mode=802.3ad miimon=100",
					Master:  bridge,
				})
			},
			device: "bond0",
			want: ConfFileHeader + "\n" +
				"DEVICE=bond0\n" +
				"BONDING_OPTS='mode=802.3ad miimon=100'\n" +
				"BRIDGE=br0\n" +
				"ONBOOT=yes\n" +
				"DEFROUTE=no\n" +
				"NM_CONTROLLED=no\n" +
				"IPV6INIT=no\n",
		},
		{
			name: "DHCP VLAN",
			write: func(w *ConfigWriter) error {
				return w.AddVlan(&entities.NetworkEntity{
					Kind: entities.KindVlan,
					Name: "eth0.100",
					IPv4: entities.IPv4Config{
						BootProto:    entities.BootProtoDHCP,
						DefaultRoute: true,
					},
				})
			},
			device: "eth0.100",
			want: ConfFileHeader + "\n" +
				"DEVICE=eth0.100\n" +
				"VLAN=yes\n" +
				"ONBOOT=yes\n" +
				"BOOTPROTO=dhcp\n" +
				"DEFROUTE=yes\n" +
				"NM_CONTROLLED=no\n" +
				"IPV6INIT=no\n",
		},
		{
			name: "STP 켜진 브리지와 IPv6 정적 주소",
			write: func(w *ConfigWriter) error {
				return w.AddBridge(&entities.NetworkEntity{
					Kind: entities.KindBridge,
					Name: "br0",
					STP:  boolPtr(true),
					IPv6: entities.IPv6Config{
						Address: "2001:db8::5/64",
						Gateway: "2001:db8::1",
					},
				})
			},
			device: "br0",
			want: ConfFileHeader + "\n" +
				"DEVICE=br0\n" +
				"TYPE=Bridge\n" +
				"DELAY=0\n" +
				"STP=on\n" +
				"ONBOOT=yes\n" +
				"DEFROUTE=no\n" +
				"NM_CONTROLLED=no\n" +
				"IPV6INIT=yes\n" +
				"IPV6ADDR=2001:db8::5/64\n" +
				"IPV6_DEFAULTGW=2001:db8::1\n" +
				"IPV6_AUTOCONF=no\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFakeFileSystem()
			writer := newTestWriter(fs, staticUnified{})

			require.NoError(t, tt.write(writer))
			content, err := fs.ReadFile(filepath.Join(testConfDir, "ifcfg-"+tt.device))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(content))
		})
	}
}

func TestConfigWriter_RemoveNic(t *testing.T) {
	// 물리 NIC의 파일은 삭제 대신 최소 분리 설정으로 되돌립니다
	fs := newFakeFileSystem()
	path := filepath.Join(testConfDir, "ifcfg-eth0")
	require.NoError(t, fs.WriteFile(path, []byte("DEVICE=eth0\nMASTER=bond0\nSLAVE=yes\n"), 0o664))

	writer := newTestWriter(fs, staticUnified{})
	require.NoError(t, writer.RemoveNic("eth0"))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConfFileHeader+"\nDEVICE=eth0\nONBOOT=yes\nMTU=1500\nNM_CONTROLLED=no\n", string(content))
}

func TestConfigWriter_RemoveConfFiles(t *testing.T) {
	fs := newFakeFileSystem()
	writer := newTestWriter(fs, staticUnified{})

	vlanPath := filepath.Join(testConfDir, "ifcfg-eth0.100")
	routePath := filepath.Join(testConfDir, "route-eth0")
	rulePath := filepath.Join(testConfDir, "rule-eth0")
	require.NoError(t, fs.WriteFile(vlanPath, []byte("DEVICE=eth0.100\nVLAN=yes\n"), 0o664))
	require.NoError(t, fs.WriteFile(routePath, []byte("0.0.0.0/0 via 10.0.0.1 dev eth0 table 100\n"), 0o644))
	require.NoError(t, fs.WriteFile(rulePath, []byte("from 10.0.0.0/24 table 100\n"), 0o644))

	require.NoError(t, writer.RemoveVlan("eth0.100"))
	require.NoError(t, writer.RemoveSourceRouteFiles("eth0"))
	assert.False(t, fs.Exists(vlanPath))
	assert.False(t, fs.Exists(routePath))
	assert.False(t, fs.Exists(rulePath))

	// 백업이 먼저 기록되므로 롤백으로 전부 복원됩니다
	require.NoError(t, writer.RestoreAtomicBackup())
	assert.True(t, fs.Exists(vlanPath))
	assert.True(t, fs.Exists(routePath))
	assert.True(t, fs.Exists(rulePath))
}

func TestConfigWriter_SetIfaceMTU(t *testing.T) {
	fs := newFakeFileSystem()
	path := filepath.Join(testConfDir, "ifcfg-bond0")
	require.NoError(t, fs.WriteFile(path,
		[]byte(ConfFileHeader+"\nDEVICE=bond0\nMTU=9000\nONBOOT=yes\n"), 0o664))

	writer := newTestWriter(fs, staticUnified{})
	require.NoError(t, writer.SetIfaceMTU("bond0", 1500))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "MTU=9000")
	assert.Contains(t, string(content), "MTU=1500")
	assert.Contains(t, string(content), "DEVICE=bond0")
}

func TestConfigWriter_DropBridgeParameter(t *testing.T) {
	fs := newFakeFileSystem()
	path := filepath.Join(testConfDir, "ifcfg-bond0")
	require.NoError(t, fs.WriteFile(path,
		[]byte(ConfFileHeader+"\nDEVICE=bond0\nBRIDGE=br0\nONBOOT=yes\n"), 0o664))

	writer := newTestWriter(fs, staticUnified{})
	require.NoError(t, writer.DropBridgeParameter("bond0"))

	content, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConfFileHeader+"\nDEVICE=bond0\nONBOOT=yes\n", string(content))

	// 파일이 없으면 아무 일도 하지 않습니다
	require.NoError(t, writer.DropBridgeParameter("bond1"))
	assert.False(t, fs.Exists(filepath.Join(testConfDir, "ifcfg-bond1")))
}

func TestConfigWriter_ConfiguredPorts(t *testing.T) {
	fs := newFakeFileSystem()
	write := func(name, content string) {
		require.NoError(t, fs.WriteFile(filepath.Join(testConfDir, name), []byte(content), 0o664))
	}
	write("ifcfg-eth0", "DEVICE=eth0\nBRIDGE=br0\n")
	write("ifcfg-eth1", "DEVICE=eth1\nBRIDGE='br0'\n")
	write("ifcfg-eth2", "DEVICE=eth2\nBRIDGE=br1\n")
	write("ifcfg-br0", "DEVICE=br0\nTYPE=Bridge\n")
	write("route-eth0", "0.0.0.0/0 via 10.0.0.1 dev eth0 table 100\n")

	writer := newTestWriter(fs, staticUnified{})
	ports, err := writer.ConfiguredPorts("br0")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"eth0", "eth1"}, ports)
}

func TestQuoteIfcfgValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"빈 값", "", "''"},
		{"단순 값", "eth0", "eth0"},
		{"공백 포함", "mode=4 miimon=100", "'mode=4 miimon=100'"},
		{"작은따옴표 포함", "it's", `'it'"'"'s'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteIfcfgValue(tt.value))
		})
	}
}
