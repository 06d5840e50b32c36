package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ship-tracker-backend/config"
	"ship-tracker-backend/internal/api"
	"ship-tracker-backend/internal/client"
	"ship-tracker-backend/internal/db"
	"ship-tracker-backend/internal/ingest"
	"ship-tracker-backend/internal/store"
	"ship-tracker-backend/internal/view"
)

type testEnv struct {
	store  store.Store
	server *httptest.Server
	client *client.Client
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"}}
	cfg.ApplyDefaults()
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	gormDB, err := db.Init(&cfg.Database)
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	t.Cleanup(func() { sqlDB.Close() })

	s := store.NewGormStore(gormDB)
	server := httptest.NewServer(api.NewRouter(s, nil, cfg))
	t.Cleanup(server.Close)

	return &testEnv{store: s, server: server, client: client.New(server.URL + "/api"), cfg: cfg}
}

func (e *testEnv) post(t *testing.T, path string, data any) {
	t.Helper()
	body, err := json.Marshal(map[string]any{"data": data})
	require.NoError(t, err)
	resp, err := http.Post(e.server.URL+path, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestActiveShipsLifecycle loads three ships through the bulk endpoints and
// reads them back through the client and the view pipeline. A has no
// positions, B reported at t1 and t5, C at t3.
func TestActiveShipsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-6 * time.Hour).Truncate(time.Second)
	at := func(h int) string { return base.Add(time.Duration(h) * time.Hour).Format(time.RFC3339) }

	env.post(t, "/api/static-ships/bulk", []map[string]any{
		{"UserID": 100, "Name": "ALPHA"},
		{"UserID": 200, "Name": "BRAVO", "Destination": "TOKYO"},
		{"UserID": 300, "Name": "CHARLIE"},
	})
	env.post(t, "/api/position-reports/bulk", []map[string]any{
		{"UserID": 200, "Latitude": 1.3, "Longitude": 103.8, "Sog": 8.0, "Cog": 10.0, "received_timestamp": at(1)},
		{"UserID": 200, "Latitude": 35.0, "Longitude": 135.0, "Sog": 12.0, "Cog": 20.0, "TrueHeading": 25.0, "received_timestamp": at(5)},
	})
	env.post(t, "/api/position-reports/bulk", map[string]any{
		"UserID": 300, "Latitude": 10.0, "Longitude": 150.0, "received_timestamp": at(3),
	})

	resp, err := env.client.FetchActiveShips(ctx, client.FetchParams{})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	assert.False(t, resp.Pagination.HasMore)

	b, c := resp.Data[0], resp.Data[1]
	assert.Equal(t, "200", b.ID)
	assert.Equal(t, "Japanese Waters", b.Location.Name, "latest report wins")
	assert.Equal(t, 25.0, b.Direction)
	assert.Equal(t, 12.0, b.Speed)
	assert.True(t, base.Add(5*time.Hour).Equal(b.TimeDetected))
	assert.Equal(t, "300", c.ID)
	assert.Contains(t, c.Location.Name, "10.0000")
	assert.Contains(t, c.Location.Name, "150.0000")

	// Search reaches destination on the server.
	resp, err = env.client.FetchActiveShips(ctx, client.FetchParams{Search: "tokyo"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "BRAVO", resp.Data[0].Name)

	// Pages past the end are empty.
	resp, err = env.client.FetchActiveShips(ctx, client.FetchParams{Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.False(t, resp.Pagination.HasMore)

	ctrl := view.NewController(env.client, view.CurrentActivity)
	require.NoError(t, ctrl.Refresh(ctx))
	st := ctrl.View()
	require.Len(t, st.Page.Items, 2)
	assert.Equal(t, []string{"BRAVO", "CHARLIE"}, []string{st.Page.Items[0].Name, st.Page.Items[1].Name})
	assert.Equal(t, 2, st.Stats.Monitoring)

	health, err := env.client.CheckHealth(ctx)
	require.NoError(t, err)
	require.NotNil(t, health.Collections)
	assert.Equal(t, int64(3), health.Collections.Ships)
	assert.Equal(t, int64(3), health.Collections.Positions)
}

// TestIngestToAPI streams AIS frames into the store and reads the result
// back over HTTP.
func TestIngestToAPI(t *testing.T) {
	env := newTestEnv(t)

	frames := []string{
		`{"MessageType":"ShipStaticData","Message":{"ShipStaticData":{"UserID":563000001,"Type":70,"Name":"LION CITY@@@@"}}}`,
		`{"MessageType":"PositionReport","Message":{"PositionReport":{"UserID":563000001,"Latitude":1.26,"Longitude":103.82,"Sog":9.5,"Cog":180,"TrueHeading":179}}}`,
	}
	upgrader := websocket.Upgrader{}
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var sub map[string]any
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		for _, f := range frames {
			conn.WriteMessage(websocket.TextMessage, []byte(f))
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer feed.Close()

	ingestCfg := env.cfg.Ingest
	ingestCfg.Enabled = true
	ingestCfg.URL = "ws" + strings.TrimPrefix(feed.URL, "http")
	ingestCfg.Reconnect = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ingest.NewService(ingestCfg, env.store).Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		counts, err := env.store.Counts(context.Background())
		return err == nil && counts.Positions == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	resp, err := env.client.FetchActiveShips(context.Background(), client.FetchParams{Search: "lion"})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	r := resp.Data[0]
	assert.Equal(t, fmt.Sprint(563000001), r.ID)
	assert.Equal(t, "LION CITY", r.Name)
	assert.Equal(t, "Singapore Waters", r.Location.Name)
	assert.Equal(t, 179.0, r.Direction)
	assert.WithinDuration(t, time.Now(), r.TimeDetected, time.Minute)
}
