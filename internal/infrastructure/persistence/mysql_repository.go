package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/metrics"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// MySQLRepository는 MySQL 기반의 EntityRepository 구현체입니다.
// 엔티티 정의는 definition 컬럼의 JSON 문서로 저장되며, 중첩된
// 포트/슬레이브/하위 디바이스 구조를 그대로 담습니다.
type MySQLRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewMySQLRepository는 새로운 MySQLRepository를 생성합니다
func NewMySQLRepository(db *sql.DB, logger *logrus.Logger) interfaces.EntityRepository {
	return &MySQLRepository{
		db:     db,
		logger: logger,
	}
}

// entityDefinition은 definition 컬럼의 JSON 스키마입니다
type entityDefinition struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	MTU         int      `json:"mtu,omitempty"`
	Nameservers []string `json:"nameservers,omitempty"`

	IPv4 *struct {
		Address      string `json:"address,omitempty"`
		Netmask      string `json:"netmask,omitempty"`
		Gateway      string `json:"gateway,omitempty"`
		BootProto    string `json:"bootproto,omitempty"`
		DefaultRoute bool   `json:"default_route,omitempty"`
	} `json:"ipv4,omitempty"`

	IPv6 *struct {
		Address  string `json:"address,omitempty"`
		Gateway  string `json:"gateway,omitempty"`
		Autoconf bool   `json:"autoconf,omitempty"`
		DHCPv6   bool   `json:"dhcpv6,omitempty"`
	} `json:"ipv6,omitempty"`

	BlockingDHCP bool `json:"blocking_dhcp,omitempty"`

	// 본드 전용
	Options             string             `json:"bond_options,omitempty"`
	Slaves              []entityDefinition `json:"slaves,omitempty"`
	OnRemovalJustDetach bool               `json:"detach_on_removal,omitempty"`

	// 브리지 전용
	Port *entityDefinition `json:"port,omitempty"`
	STP  *bool             `json:"stp,omitempty"`

	// VLAN 전용
	Device *entityDefinition `json:"device,omitempty"`
	Tag    int               `json:"vlan_tag,omitempty"`
}

// resolve는 JSON 정의를 엔티티 그래프로 변환하고 상위 소속 역참조를
// 연결합니다
func (d *entityDefinition) resolve() *entities.NetworkEntity {
	e := &entities.NetworkEntity{
		Kind:         entities.EntityKind(d.Kind),
		Name:         d.Name,
		MTU:          d.MTU,
		Nameservers:  d.Nameservers,
		BlockingDHCP: d.BlockingDHCP,

		Options:             d.Options,
		OnRemovalJustDetach: d.OnRemovalJustDetach,
		STP:                 d.STP,
		Tag:                 d.Tag,
	}

	if d.IPv4 != nil {
		e.IPv4 = entities.IPv4Config{
			Address:      d.IPv4.Address,
			Netmask:      d.IPv4.Netmask,
			Gateway:      d.IPv4.Gateway,
			BootProto:    d.IPv4.BootProto,
			DefaultRoute: d.IPv4.DefaultRoute,
		}
	}
	if d.IPv6 != nil {
		e.IPv6 = entities.IPv6Config{
			Address:  d.IPv6.Address,
			Gateway:  d.IPv6.Gateway,
			Autoconf: d.IPv6.Autoconf,
			DHCPv6:   d.IPv6.DHCPv6,
		}
	}

	for i := range d.Slaves {
		slave := d.Slaves[i].resolve()
		slave.Master = e
		e.Slaves = append(e.Slaves, slave)
	}
	if d.Port != nil {
		e.Port = d.Port.resolve()
		e.Port.Master = e
	}
	if d.Device != nil {
		e.Device = d.Device.resolve()
		if e.Name == "" {
			e.Name = entities.VlanName(e.Device.Name, e.Tag)
		}
	}
	return e
}

// GetPendingRecords는 특정 노드의 적용 대기 중인 엔티티 레코드들을 조회합니다
func (r *MySQLRepository) GetPendingRecords(ctx context.Context, nodeName string) ([]interfaces.EntityRecord, error) {
	started := time.Now()
	defer func() {
		metrics.ObserveDBQuery("get_pending_records", time.Since(started))
	}()

	query := `
		SELECT hne.id, hne.action, hne.force_if_used, hne.definition
		FROM host_network_entity hne
		WHERE hne.status = 'pending'
		AND hne.node_name = ?
		AND hne.deleted_at IS NULL
		ORDER BY hne.id
		LIMIT 10
	`

	rows, err := r.db.QueryContext(ctx, query, nodeName)
	if err != nil {
		return nil, errors.NewSystemError("데이터베이스 조회 실패", err)
	}
	defer rows.Close()

	var records []interfaces.EntityRecord

	for rows.Next() {
		var record interfaces.EntityRecord
		var action string
		var force int
		var definition []byte

		if err := rows.Scan(&record.ID, &action, &force, &definition); err != nil {
			r.logger.WithError(err).Error("행 스캔 실패")
			continue
		}

		var def entityDefinition
		if err := json.Unmarshal(definition, &def); err != nil {
			r.logger.WithError(err).WithField("record_id", record.ID).Error("엔티티 정의 파싱 실패")
			continue
		}

		record.Action = interfaces.RecordAction(action)
		record.Force = force != 0
		record.Entity = def.resolve()

		if err := record.Entity.Validate(); err != nil {
			r.logger.WithError(err).WithField("record_id", record.ID).Error("유효하지 않은 엔티티 정의")
			continue
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.NewSystemError("결과 처리 중 오류", err)
	}

	return records, nil
}

// UpdateRecordStatus는 엔티티 레코드의 처리 상태를 업데이트합니다
func (r *MySQLRepository) UpdateRecordStatus(ctx context.Context, id int, status interfaces.RecordStatus) error {
	started := time.Now()
	defer func() {
		metrics.ObserveDBQuery("update_record_status", time.Since(started))
	}()

	query := `
		UPDATE host_network_entity
		SET status = ?, modified_at = NOW()
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return errors.NewSystemError("상태 업데이트 실패", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewSystemError("영향받은 행 확인 실패", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("엔티티 레코드를 찾을 수 없음: ID=%d", id))
	}

	r.logger.WithFields(logrus.Fields{
		"record_id": id,
		"status":    status,
	}).Info("엔티티 레코드 상태 업데이트 완료")

	return nil
}
