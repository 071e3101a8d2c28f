package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"resultsdash/internal/cache"
	"resultsdash/internal/core"
	"resultsdash/internal/descriptions"
	applog "resultsdash/internal/log"
)

// ErrDatasetUnavailable is returned for every request when the dataset failed to load.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// ProjectDescription is one description line shown for a selected project.
type ProjectDescription struct {
	Project     string `json:"project"`
	Description string `json:"description"`
}

// State is everything the dashboard shows for one resolved selection.
// Values may be shared between callers through the cache and must be
// treated as read-only.
type State struct {
	Options      core.Options         `json:"options"`
	Selection    core.FilterSelection `json:"selection"`
	Title        string               `json:"title"`
	View         core.View            `json:"view"`
	Descriptions []ProjectDescription `json:"descriptions"`
	Rows         int                  `json:"rows"`
}

// DashboardConfig tunes selection defaults and the state cache.
type DashboardConfig struct {
	Policy    core.SelectionPolicy
	TopRows   int
	CacheSize int
	CacheTTL  time.Duration
	Logger    *applog.Logger
}

// DashboardService answers dashboard requests against a dataset loaded once
// at startup.
type DashboardService struct {
	dataset core.Dataset
	loadErr error
	lookup  descriptions.Lookup
	policy  core.SelectionPolicy
	topRows int

	states  *cache.LRUCache[State]
	manager *cache.Manager
	group   singleflight.Group
	logger  *applog.Logger
	sl      *applog.StructuredLogger
}

// NewDashboardService builds a service over ds. A non-nil loadErr puts the
// service in the unavailable state, where every call reports the error.
func NewDashboardService(ds core.Dataset, loadErr error, lookup descriptions.Lookup, cfg DashboardConfig) *DashboardService {
	if lookup == nil {
		lookup = descriptions.Table{}
	}
	if cfg.TopRows <= 0 {
		cfg.TopRows = core.DefaultTopRows
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentDashboard)

	s := &DashboardService{
		dataset: ds,
		loadErr: loadErr,
		lookup:  lookup,
		policy:  cfg.Policy,
		topRows: cfg.TopRows,
		states:  cache.NewLRUCache[State](cfg.CacheSize, cfg.CacheTTL),
		manager: cache.NewManager(),
		logger:  logger,
		sl:      applog.NewStructuredLogger(logger),
	}
	s.manager.Register(s.states)
	if cfg.CacheTTL > 0 {
		s.manager.StartCleanup(cfg.CacheTTL)
	}
	return s
}

// Ready reports whether the dataset is available.
func (s *DashboardService) Ready() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", ErrDatasetUnavailable, s.loadErr)
	}
	return nil
}

// Dataset returns the loaded dataset.
func (s *DashboardService) Dataset() core.Dataset {
	return s.dataset
}

// State resolves sel and composes the dashboard for it. Stale or partial
// selections are corrected, never rejected; the only error is an
// unavailable dataset.
func (s *DashboardService) State(ctx context.Context, sel core.FilterSelection) (State, error) {
	if err := s.Ready(); err != nil {
		return State{}, err
	}

	key := sel.Key()
	if st, ok := s.states.Get(key); ok {
		s.sl.LogSelectionResolved(ctx, st.Selection.ThematicArea, st.Selection.Indicator, st.Selection.Projects, st.Rows, true)
		return st, nil
	}

	v, _, _ := s.group.Do(key, func() (any, error) {
		st := s.compose(sel)
		s.states.Set(key, st)
		return st, nil
	})
	st := v.(State)
	s.sl.LogSelectionResolved(ctx, st.Selection.ThematicArea, st.Selection.Indicator, st.Selection.Projects, st.Rows, false)
	return st, nil
}

func (s *DashboardService) compose(sel core.FilterSelection) State {
	res := core.Resolve(s.dataset, sel, s.policy)
	agg := core.Aggregate(res.Rows)

	return State{
		Options:      res.Options,
		Selection:    res.Selection,
		Title:        Title(res.Selection),
		View:         core.Compose(res.Rows, agg, s.topRows),
		Descriptions: s.describe(res.Selection.Projects),
		Rows:         len(res.Rows),
	}
}

func (s *DashboardService) describe(projects []string) []ProjectDescription {
	out := make([]ProjectDescription, 0, len(projects))
	for _, p := range projects {
		if d, ok := s.lookup.Describe(p); ok {
			out = append(out, ProjectDescription{Project: p, Description: d})
		}
	}
	return out
}

// CacheStats exposes the state cache counters.
func (s *DashboardService) CacheStats() cache.Stats {
	return s.states.Stats()
}

// Close stops the cache cleanup loop.
func (s *DashboardService) Close() {
	s.manager.Stop()
}

// Title is the content heading for a resolved selection.
func Title(sel core.FilterSelection) string {
	return fmt.Sprintf("Indicator Data for %s - %s", sel.ThematicArea, sel.Indicator)
}
