package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ship-tracker-backend/internal/model"
)

// Store defines the interface for all record store operations.
type Store interface {
	QueryActiveShips(ctx context.Context, q ActiveShipsQuery) (ActiveShipsResult, error)
	Counts(ctx context.Context) (model.CollectionCounts, error)
	Ping(ctx context.Context) error
	UpsertShips(ctx context.Context, ships []model.ShipMetadata) (int, error)
	InsertPositions(ctx context.Context, positions []model.PositionReport) (int, error)
	KnownShipIDs(ctx context.Context) ([]int64, error)
}

const insertBatchSize = 500

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Each vessel's reports are ranked newest first. Reports without a reception
// time fall back to the time the store accepted them; equal instants go to
// the later insert.
const rankedPositionsCTE = `WITH ranked AS (
	SELECT p.id, p.user_id,
		ROW_NUMBER() OVER (
			PARTITION BY p.user_id
			ORDER BY COALESCE(p.received_timestamp, p.created_at) DESC, p.id DESC
		) AS rn
	FROM position_reports p
)`

const searchClause = ` AND (LOWER(s.name) LIKE ? ESCAPE '\' OR LOWER(s.call_sign) LIKE ? ESCAPE '\' OR LOWER(s.destination) LIKE ? ESCAPE '\')`

type pageRow struct {
	UserID     int64
	PositionID int64
}

// QueryActiveShips returns the ships with at least one position report, each
// joined with its latest report, filtered by search and ordered by vessel
// identifier ascending before paging. Total ignores paging.
func (s *gormStore) QueryActiveShips(ctx context.Context, q ActiveShipsQuery) (ActiveShipsResult, error) {
	var searchArgs []any
	filter := ""
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		searchArgs = []any{pattern, pattern, pattern}
		filter = searchClause
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM static_ships s
WHERE EXISTS (SELECT 1 FROM position_reports p WHERE p.user_id = s.user_id)` + filter
	if err := s.db.WithContext(ctx).Raw(countSQL, searchArgs...).Scan(&total).Error; err != nil {
		return ActiveShipsResult{}, s.classify(ctx, fmt.Errorf("failed to count active ships: %w", err))
	}

	result := ActiveShipsResult{Records: []JoinedShipView{}, Total: total}
	if total == 0 || int64(q.Offset) >= total || q.Limit <= 0 {
		return result, nil
	}

	pageSQL := rankedPositionsCTE + `
SELECT s.user_id AS user_id, r.id AS position_id
FROM static_ships s
JOIN ranked r ON r.user_id = s.user_id AND r.rn = 1
WHERE 1 = 1` + filter + `
ORDER BY s.user_id ASC
LIMIT ? OFFSET ?`
	args := append(append([]any{}, searchArgs...), q.Limit, q.Offset)

	var rows []pageRow
	if err := s.db.WithContext(ctx).Raw(pageSQL, args...).Scan(&rows).Error; err != nil {
		return ActiveShipsResult{}, s.classify(ctx, fmt.Errorf("failed to page active ships: %w", err))
	}
	if len(rows) == 0 {
		return result, nil
	}

	shipIDs := make([]int64, len(rows))
	positionIDs := make([]int64, len(rows))
	for i, r := range rows {
		shipIDs[i] = r.UserID
		positionIDs[i] = r.PositionID
	}

	ships, err := s.shipsByID(ctx, shipIDs)
	if err != nil {
		return ActiveShipsResult{}, s.classify(ctx, err)
	}
	positions, err := s.positionsByID(ctx, positionIDs)
	if err != nil {
		return ActiveShipsResult{}, s.classify(ctx, err)
	}

	for _, r := range rows {
		ship, okShip := ships[r.UserID]
		pos, okPos := positions[r.PositionID]
		if !okShip || !okPos {
			// Removed between the page query and the load; nothing to join.
			continue
		}
		result.Records = append(result.Records, JoinedShipView{Ship: ship, Latest: pos})
	}
	return result, nil
}

// Counts returns the number of ship and position records.
func (s *gormStore) Counts(ctx context.Context) (model.CollectionCounts, error) {
	var counts model.CollectionCounts
	if err := s.db.WithContext(ctx).Model(&model.ShipMetadata{}).Count(&counts.Ships).Error; err != nil {
		return counts, s.classify(ctx, fmt.Errorf("failed to count ships: %w", err))
	}
	if err := s.db.WithContext(ctx).Model(&model.PositionReport{}).Count(&counts.Positions).Error; err != nil {
		return counts, s.classify(ctx, fmt.Errorf("failed to count positions: %w", err))
	}
	return counts, nil
}

// Ping checks the connection to the store.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// UpsertShips writes static ship records keyed by vessel identifier; an
// existing record for the same vessel is replaced.
func (s *gormStore) UpsertShips(ctx context.Context, ships []model.ShipMetadata) (int, error) {
	if len(ships) == 0 {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).CreateInBatches(&ships, insertBatchSize).Error
	if err != nil {
		return 0, s.classify(ctx, fmt.Errorf("failed to upsert ships: %w", err))
	}
	return len(ships), nil
}

// InsertPositions appends position reports. Reception times are stored in UTC
// and CreatedAt is stamped when unset.
func (s *gormStore) InsertPositions(ctx context.Context, positions []model.PositionReport) (int, error) {
	if len(positions) == 0 {
		return 0, nil
	}
	now := s.now()
	for i := range positions {
		if positions[i].CreatedAt.IsZero() {
			positions[i].CreatedAt = now
		} else {
			positions[i].CreatedAt = positions[i].CreatedAt.UTC()
		}
		if positions[i].ReceivedTimestamp != nil {
			utc := positions[i].ReceivedTimestamp.UTC()
			positions[i].ReceivedTimestamp = &utc
		}
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&positions, insertBatchSize).Error; err != nil {
		return 0, s.classify(ctx, fmt.Errorf("failed to insert position reports: %w", err))
	}
	return len(positions), nil
}

// KnownShipIDs lists every vessel identifier with static data.
func (s *gormStore) KnownShipIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&model.ShipMetadata{}).Pluck("user_id", &ids).Error; err != nil {
		return nil, s.classify(ctx, fmt.Errorf("failed to list ship ids: %w", err))
	}
	return ids, nil
}

// --- Helper functions ---

func (s *gormStore) shipsByID(ctx context.Context, ids []int64) (map[int64]model.ShipMetadata, error) {
	var ships []model.ShipMetadata
	if err := s.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&ships).Error; err != nil {
		return nil, fmt.Errorf("failed to load ships: %w", err)
	}
	shipMap := make(map[int64]model.ShipMetadata, len(ships))
	for _, sh := range ships {
		shipMap[sh.UserID] = sh
	}
	return shipMap, nil
}

func (s *gormStore) positionsByID(ctx context.Context, ids []int64) (map[int64]model.PositionReport, error) {
	var positions []model.PositionReport
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	positionMap := make(map[int64]model.PositionReport, len(positions))
	for _, p := range positions {
		positionMap[p.ID] = p
	}
	return positionMap, nil
}

// classify tags err with ErrUnavailable when the store no longer answers a ping.
func (s *gormStore) classify(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if pingErr := s.Ping(ctx); pingErr != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
