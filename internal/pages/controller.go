package pages

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"chundiet-web/internal/backend"
	"chundiet-web/internal/gesture"
	"chundiet-web/internal/notify"
	"chundiet-web/internal/shared/metrics"
	"chundiet-web/internal/shared/telemetry"
	"chundiet-web/internal/view"
)

var (
	ErrUnknownPage      = errors.New("unknown page")
	ErrNotConfirmed     = errors.New("deletion not confirmed")
	ErrEmptyDescription = errors.New("meal description is empty")
	ErrEmptyAPIKey      = errors.New("api key is empty")
	ErrUnknownMetric    = errors.New("unknown goal metric")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrKeyIndex         = errors.New("api key index out of range")
)

// API is the subset of the backend client the controller needs.
type API interface {
	AnalyzeMeal(ctx context.Context, userID int, description, mealTime string) (backend.AnalyzeResult, error)
	DailySummary(ctx context.Context, userID int, day time.Time) (backend.DailySummary, error)
	History(ctx context.Context, userID, days int) ([]backend.HistoryDay, error)
	StoredRecommendations(ctx context.Context, userID int) (json.RawMessage, error)
	GenerateRecommendations(ctx context.Context, userID int) (json.RawMessage, error)
	Settings(ctx context.Context, userID int) (backend.Settings, error)
	SaveSettings(ctx context.Context, userID int, update backend.SettingsUpdate) error
	Profile(ctx context.Context, userID int) (backend.Profile, error)
	SaveProfile(ctx context.Context, userID int, p backend.Profile) error
	Goals(ctx context.Context, userID int) (backend.Goals, error)
	SaveGoals(ctx context.Context, userID int, g backend.Goals) error
	DeleteMeal(ctx context.Context, userID int, mealID string) error
}

// Notifier receives user-facing messages.
type Notifier interface {
	Push(message string, kind notify.Kind) notify.Notification
	List() []notify.Notification
}

// State is everything the UI remembers between requests. It is owned by the
// Controller and only changed through its methods.
type State struct {
	Active        Page
	UserID        int
	TodayCalories float64
	Goals         backend.Goals
	Profile       backend.Profile
	Settings      backend.Settings
}

// Theme is the stored theme, light when unset.
func (s State) Theme() string {
	if s.Settings.Theme == "" {
		return "light"
	}
	return s.Settings.Theme
}

type Options struct {
	UserID int
	Now    func() time.Time
}

// Controller owns the active page, the per-page load generations and the
// last rendered content of every section.
type Controller struct {
	api      API
	notifier Notifier
	now      func() time.Time

	mu       sync.Mutex
	state    State
	gens     [len(pageInfo)]uint64
	plans    uint64
	sections map[string]view.Node
}

func NewController(api API, notifier Notifier, opts Options) *Controller {
	if opts.UserID <= 0 {
		opts.UserID = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Controller{
		api:      api,
		notifier: notifier,
		now:      opts.Now,
		state:    State{Active: Home, UserID: opts.UserID},
		sections: initialSections(),
	}
	return c
}

// Load tracks the section loads started by one page switch.
type Load struct {
	Page       Page
	Generation uint64
	done       chan struct{}
}

// Wait blocks until every section load of this switch has finished.
func (l *Load) Wait() {
	if l == nil {
		return
	}
	<-l.done
}

// Done is closed once every section load has finished.
func (l *Load) Done() <-chan struct{} {
	return l.done
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Active returns the page currently shown.
func (c *Controller) Active() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Active
}

// SwitchTo makes p the only visible page and starts its loads. Switching to
// the already active page only reloads.
func (c *Controller) SwitchTo(ctx context.Context, p Page) *Load {
	if !p.valid() {
		p = Home
	}
	c.mu.Lock()
	previous := c.state.Active
	c.state.Active = p
	c.gens[p]++
	gen := c.gens[p]
	userID := c.state.UserID
	c.mu.Unlock()

	if previous != p {
		telemetry.Info("page switched", map[string]any{"from": previous.String(), "to": p.String()})
	}
	return c.startLoad(ctx, p, gen, userID)
}

// Reload re-runs the active page's loads without changing visible state.
func (c *Controller) Reload(ctx context.Context) *Load {
	return c.SwitchTo(ctx, c.Active())
}

// HandleIntent applies a gesture intent. It returns nil when the intent
// does not navigate.
func (c *Controller) HandleIntent(ctx context.Context, intent gesture.Intent) *Load {
	active := c.Active()
	switch intent {
	case gesture.IntentSwipeLeft:
		metrics.IncGestureIntent(intent.String())
		return c.SwitchTo(ctx, active.Next())
	case gesture.IntentSwipeRight:
		metrics.IncGestureIntent(intent.String())
		return c.SwitchTo(ctx, active.Prev())
	case gesture.IntentRefresh:
		metrics.IncGestureIntent(intent.String())
		c.notify("Refreshing...", notify.KindInfo)
		return c.SwitchTo(ctx, active)
	default:
		return nil
	}
}

type sectionTask struct {
	name string
	run  func(ctx context.Context, userID int) (apply func(*State), sections map[string]view.Node, err error)
}

// startLoad fans out the page's section loads. Each one is isolated: a
// failure is logged and leaves that section as it was.
func (c *Controller) startLoad(ctx context.Context, p Page, gen uint64, userID int) *Load {
	ctx = context.WithoutCancel(ctx)
	load := &Load{Page: p, Generation: gen, done: make(chan struct{})}
	tasks := c.tasksFor(p)

	var g errgroup.Group
	for _, task := range tasks {
		task := task
		metrics.IncPageLoad(p.String())
		g.Go(func() error {
			apply, sections, err := task.run(ctx, userID)
			if err != nil {
				metrics.IncPageLoadFailed(p.String())
				telemetry.Warn("page load failed", map[string]any{
					"page":    p.String(),
					"section": task.name,
					"error":   err,
				})
				return nil
			}
			c.commit(p, gen, task.name, apply, sections)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(load.done)
	}()
	return load
}

// commit applies a load result only while its page is active and its
// generation is the newest; anything else is a stale response.
func (c *Controller) commit(p Page, gen uint64, section string, apply func(*State), sections map[string]view.Node) bool {
	return c.applyResult(p, gen, true, section, apply, sections)
}

// commitSince applies a result that does not belong to a page switch. It is
// dropped once p has been loaded again after gen, whichever page is active.
func (c *Controller) commitSince(p Page, gen uint64, section string, apply func(*State), sections map[string]view.Node) bool {
	return c.applyResult(p, gen, false, section, apply, sections)
}

func (c *Controller) applyResult(p Page, gen uint64, activeOnly bool, section string, apply func(*State), sections map[string]view.Node) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if (activeOnly && c.state.Active != p) || c.gens[p] != gen {
		metrics.IncStaleDiscarded()
		telemetry.Info("stale load discarded", map[string]any{
			"page":       p.String(),
			"section":    section,
			"generation": gen,
			"current":    c.gens[p],
		})
		return false
	}
	if apply != nil {
		apply(&c.state)
	}
	for id, n := range sections {
		c.sections[id] = n
	}
	return true
}

// update applies the outcome of a user action unconditionally.
func (c *Controller) update(apply func(*State), sections map[string]view.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if apply != nil {
		apply(&c.state)
	}
	for id, n := range sections {
		c.sections[id] = n
	}
}

func (c *Controller) notify(message string, kind notify.Kind) {
	if c.notifier == nil {
		return
	}
	metrics.IncNotification(string(kind))
	c.notifier.Push(message, kind)
}

func (c *Controller) userID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.UserID
}

// Init loads the data the sidebar needs on every page. Failures are logged
// and leave the defaults in place. Results are dropped when a page load
// started after Init has already replaced them.
func (c *Controller) Init(ctx context.Context) {
	c.mu.Lock()
	userID := c.state.UserID
	homeGen, settingsGen := c.gens[Home], c.gens[Settings]
	c.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		profile, err := c.api.Profile(ctx, userID)
		if err != nil {
			telemetry.Warn("profile load failed", map[string]any{"error": err})
			return nil
		}
		c.commitSince(Settings, settingsGen, "profile", func(s *State) { s.Profile = profile }, map[string]view.Node{
			SectionProfile: view.ProfileForm(profile),
		})
		return nil
	})
	g.Go(func() error {
		goals, err := c.api.Goals(ctx, userID)
		if err != nil {
			telemetry.Warn("goals load failed", map[string]any{"error": err})
			return nil
		}
		c.commitSince(Settings, settingsGen, "goals", func(s *State) { s.Goals = goals }, map[string]view.Node{
			SectionGoals: view.GoalsForm(goals),
		})
		return nil
	})
	g.Go(func() error {
		summary, err := c.api.DailySummary(ctx, userID, c.now())
		if err != nil {
			telemetry.Warn("daily summary load failed", map[string]any{"error": err})
			return nil
		}
		c.commitSince(Home, homeGen, SectionDailyProgress, func(s *State) { s.TodayCalories = summary.TotalCalories.Float() }, nil)
		return nil
	})
	_ = g.Wait()
}
