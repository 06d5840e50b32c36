package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/gorilla/websocket"

	"ship-tracker-backend/config"
	"ship-tracker-backend/internal/model"
	"ship-tracker-backend/internal/parse"
	"ship-tracker-backend/internal/store"
)

// Service subscribes to the AIS stream and hands matching records to a
// worker pool for persistence.
type Service struct {
	cfg        config.IngestConfig
	store      store.Store
	dialer     *websocket.Dialer
	workerPool *WorkerPool
	shipTypes  map[int]struct{}
	known      map[int64]struct{}
	now        func() time.Time
}

// NewService creates and initializes a new ingestion service.
func NewService(cfg config.IngestConfig, s store.Store) *Service {
	types := make(map[int]struct{}, len(cfg.ShipTypes))
	for _, t := range cfg.ShipTypes {
		types[t] = struct{}{}
	}
	return &Service{
		cfg:   cfg,
		store: s,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
		workerPool: NewWorkerPool(cfg.WorkerPool.Size, s),
		shipTypes:  types,
		known:      make(map[int64]struct{}),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run connects to the stream and reconnects after every drop until ctx is
// cancelled. Pending writes are flushed before it returns.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Info("AIS ingestion is disabled. Not starting.")
		return
	}
	log.WithField("url", s.cfg.URL).Info("starting AIS ingestion service")

	s.workerPool.Start(ctx)
	defer s.workerPool.Close()

	if err := s.seedKnownShips(ctx); err != nil {
		log.WithError(err).Warn("could not load known ships; positions are dropped until static data arrives")
	}

	for {
		if err := s.StreamOnce(ctx); err != nil && ctx.Err() == nil {
			log.WithError(err).Warnf("AIS stream dropped; reconnecting in %s", s.cfg.Reconnect)
		}

		timer := time.NewTimer(s.cfg.Reconnect)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("AIS ingestion service shutting down.")
			return
		case <-timer.C:
		}
	}
}

// StreamOnce holds one connection open, processing frames until it drops.
func (s *Service) StreamOnce(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	sub := subscription{
		APIKey:             s.cfg.APIKey,
		BoundingBoxes:      s.cfg.BoundingBoxes,
		FilterMessageTypes: []string{TypePositionReport, TypeShipStaticData},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		if err := s.HandleMessage(ctx, data); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Warn("skipping AIS message")
		}
	}
}

// HandleMessage decodes one frame and dispatches a job when it matches.
// Static data is kept for the configured ship types, once per vessel;
// positions are kept only for vessels seen that way.
func (s *Service) HandleMessage(ctx context.Context, data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("malformed message: %w", err)
	}
	raw, ok := env.Message[env.MessageType]
	if !ok {
		return nil
	}

	switch env.MessageType {
	case TypeShipStaticData:
		var ship model.ShipMetadata
		if err := json.Unmarshal(raw, &ship); err != nil {
			return fmt.Errorf("malformed %s: %w", env.MessageType, err)
		}
		if ship.Type == nil {
			return nil
		}
		if _, ok := s.shipTypes[*ship.Type]; !ok {
			return nil
		}
		if _, ok := s.known[ship.UserID]; ok {
			return nil
		}
		ship.Name = parse.TextPtr(ship.Name)
		ship.CallSign = parse.TextPtr(ship.CallSign)
		ship.Destination = parse.TextPtr(ship.Destination)
		s.known[ship.UserID] = struct{}{}
		return s.workerPool.Dispatch(ctx, Job{Kind: JobShip, Ship: ship})

	case TypePositionReport:
		var pos model.PositionReport
		if err := json.Unmarshal(raw, &pos); err != nil {
			return fmt.Errorf("malformed %s: %w", env.MessageType, err)
		}
		if _, ok := s.known[pos.UserID]; !ok {
			return nil
		}
		received := s.now()
		pos.ReceivedTimestamp = &received
		return s.workerPool.Dispatch(ctx, Job{Kind: JobPosition, Position: pos})
	}
	return nil
}

func (s *Service) seedKnownShips(ctx context.Context) error {
	ids, err := s.store.KnownShipIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.known[id] = struct{}{}
	}
	log.Infof("loaded %d known ships", len(ids))
	return nil
}
