package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/apex/log"

	"ship-tracker-backend/internal/client"
	"ship-tracker-backend/internal/model"
)

// ErrStale is returned by Refresh when a later refresh was issued before
// this one completed. Its response is discarded.
var ErrStale = errors.New("stale response discarded")

const monitoringType = "monitoring"

// Fetcher is the subset of the API client the controller needs.
type Fetcher interface {
	FetchActiveShips(ctx context.Context, p client.FetchParams) (*model.ShipsResponse, error)
}

// Stats summarises the current snapshot.
type Stats struct {
	Total      int
	Monitoring int
	LastUpdate time.Time
}

// State is what a screen renders.
type State struct {
	Page       Page
	Filtered   int
	Search     string
	Filters    Filters
	Sort       SortConfig
	Status     client.ConnectionStatus
	Error      *ErrorState
	Loading    bool
	Server     model.Pagination
	Stats      Stats
	LastUpdate time.Time
}

// Controller owns one screen: the last good snapshot, the user's criteria
// and the periodic refresh task. Every refresh carries a sequence number and
// only the most recently issued one may replace the snapshot.
type Controller struct {
	fetcher Fetcher
	profile Profile
	now     func() time.Time

	mu         sync.Mutex
	issued     uint64
	snapshot   []model.ViewRecord
	server     model.Pagination
	lastUpdate time.Time
	status     client.ConnectionStatus
	errState   *ErrorState
	loading    bool
	search     string
	filters    Filters
	sort       SortConfig
	page       int

	loopMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController creates a Controller for profile p.
func NewController(f Fetcher, p Profile) *Controller {
	now := func() time.Time { return time.Now().UTC() }
	return &Controller{
		fetcher:  f,
		profile:  p,
		now:      now,
		snapshot: []model.ViewRecord{},
		status:   client.StatusConnected,
		filters:  p.InitialFilters(now()),
		sort:     p.DefaultSort,
		page:     1,
	}
}

// Profile returns the controller's profile.
func (c *Controller) Profile() Profile { return c.profile }

// Refresh fetches a new snapshot. On failure the previous snapshot is kept
// and the error is recorded for display.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, false)
}

func (c *Controller) refresh(ctx context.Context, background bool) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	params := client.FetchParams{Limit: c.profile.FetchLimit, Search: c.search}
	c.loading = true
	c.mu.Unlock()

	resp, err := c.fetcher.FetchActiveShips(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.issued {
		log.WithField("seq", seq).Debug("discarding stale response")
		return ErrStale
	}
	c.loading = false

	if err != nil && ctx.Err() != nil {
		// Abandoned by the caller; the connection state is unknown, not failed.
		log.WithField("seq", seq).Debug("refresh aborted")
		return err
	}
	if err != nil {
		c.status = client.StatusOf(err)
		switch {
		case !background:
			c.errState = newErrorState(err)
		case c.status == client.StatusDisconnected || c.status == client.StatusTimeout:
			c.errState = connectionLostState(err)
		}
		log.WithError(err).WithField("status", c.status).Warn("refresh failed")
		return err
	}

	c.snapshot = resp.Data
	if c.snapshot == nil {
		c.snapshot = []model.ViewRecord{}
	}
	c.server = resp.Pagination
	c.lastUpdate = c.now()
	c.status = client.StatusConnected
	c.errState = nil
	return nil
}

// Start launches periodic refresh. Ticks are skipped while the status is not
// connected; a successful manual Refresh resumes them. Profiles without a
// refresh interval do nothing.
func (c *Controller) Start(ctx context.Context) {
	if c.profile.RefreshInterval <= 0 {
		return
	}
	c.loopMu.Lock()
	defer c.loopMu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.loop(ctx, c.done)
}

// Stop cancels periodic refresh and waits for it to exit. A refresh in
// flight is abandoned without changing the status or the error shown.
func (c *Controller) Stop() {
	c.loopMu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.loopMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.profile.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.Status() != client.StatusConnected {
				continue
			}
			c.refresh(ctx, true)
		}
	}
}

// SetSearch changes the search term, returns to page 1 and refetches, since
// the server filters by the same term.
func (c *Controller) SetSearch(ctx context.Context, term string) error {
	c.mu.Lock()
	c.search = term
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetFilters replaces the client-side filters and returns to page 1.
func (c *Controller) SetFilters(f Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = f
	c.page = 1
}

// ToggleSort applies a column click and returns to page 1.
func (c *Controller) ToggleSort(key SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = c.sort.Toggle(key)
	c.page = 1
}

// SetSort replaces the sort and returns to page 1.
func (c *Controller) SetSort(s SortConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = s
	c.page = 1
}

// SetPage moves to page n. View clamps it to the available pages.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = max(n, 1)
}

// DismissError clears the error banner without touching the status.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errState = nil
}

// Status returns the connection status of the last applied refresh.
func (c *Controller) Status() client.ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// View runs the pipeline over the snapshot: filter, sort, paginate.
func (c *Controller) View() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	filters := c.filters
	filters.Search = c.search
	filtered := filters.Apply(c.snapshot, c.now())
	sorted := Sort(filtered, c.sort)

	return State{
		Page:       Paginate(sorted, c.page, c.profile.PageSize),
		Filtered:   len(filtered),
		Search:     c.search,
		Filters:    c.filters,
		Sort:       c.sort,
		Status:     c.status,
		Error:      c.errState,
		Loading:    c.loading,
		Server:     c.server,
		Stats:      c.stats(),
		LastUpdate: c.lastUpdate,
	}
}

func (c *Controller) stats() Stats {
	s := Stats{Total: len(c.snapshot), LastUpdate: c.lastUpdate}
	for _, r := range c.snapshot {
		if r.Violation.Type == monitoringType {
			s.Monitoring++
		}
	}
	return s
}
