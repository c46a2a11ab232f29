package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-billing/internal/domain/plans"
)

// PlanView is what readers see: the live cached snapshot, or a degraded
// placeholder when no live data could be loaded.
type PlanView struct {
	Snapshot  *plans.Snapshot `json:"plan"`
	Degraded  bool            `json:"degraded"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Controller owns one session's billing state. It is safe for concurrent use;
// every reader of the session shares the same instance.
//
// Collaborator calls are made without holding the controller lock. A fetch is
// tied to the tenant generation it started in; ClearPlanDetails and
// SwitchTenant bump the generation so late responses are dropped. Fetches
// also carry a sequence number: a successful cancel or resume supersedes every
// fetch already running, so only the reconciliation fetch reaches the cache.
type Controller struct {
	api       API
	auth      Authenticator
	cache     *PlanCache
	notifier  Notifier
	navigator Navigator
	seeds     *SeedCatalog
	metrics   Recorder
	logger    *zap.Logger
	now       func() time.Time
	ttl       time.Duration

	mu       sync.Mutex
	tenant   string
	gen      uint64
	fetching bool
	fetchGen uint64
	// fetchID is the sequence number of the running fetch. Responses of
	// fetches numbered at or below superseded are not cached.
	fetchID    uint64
	fetchSeq   uint64
	superseded uint64
	mutating bool
	degraded *DegradedSnapshot
	lastErr  error
}

// New builds a controller for tenantSlug. api and auth are required.
func New(api API, auth Authenticator, tenantSlug string, opts ...Option) *Controller {
	if api == nil {
		panic("billing: API is required")
	}
	if auth == nil {
		panic("billing: Authenticator is required")
	}

	c := &Controller{
		api:       api,
		auth:      auth,
		notifier:  nopNotifier{},
		navigator: nopNavigator{},
		seeds:     DefaultSeeds(),
		metrics:   nopRecorder{},
		logger:    zap.NewNop(),
		now:       time.Now,
		ttl:       DefaultCacheTTL,
		tenant:    tenantSlug,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = NewPlanCache(c.ttl, c.now)
	return c
}

// FetchPlan loads the tenant's plan.
//
// Without force a fresh cache entry is returned with no network call. The call
// is a no-op when the session is not authenticated or a fetch for the same
// tenant is already running. On failure the error is classified and notified,
// and if no live snapshot exists a degraded seed snapshot is served.
func (c *Controller) FetchPlan(ctx context.Context, force bool) (PlanView, error) {
	if !force {
		if e, ok := c.cache.Fresh(); ok {
			c.metrics.CacheLookup(true)
			return PlanView{Snapshot: e.Snapshot, FetchedAt: e.FetchedAt}, nil
		}
		c.metrics.CacheLookup(false)
	}

	if !c.auth.Authenticated() {
		return c.Current(), nil
	}

	c.mu.Lock()
	if c.fetching && c.fetchGen == c.gen {
		view := c.viewLocked()
		c.mu.Unlock()
		c.logger.Debug("plan fetch already in flight")
		return view, nil
	}
	c.fetchSeq++
	seq, gen, tenant := c.fetchSeq, c.gen, c.tenant
	c.fetching, c.fetchGen, c.fetchID = true, gen, seq
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.fetchID == seq {
			c.fetching = false
		}
		c.mu.Unlock()
	}()

	start := c.now()
	raw, err := c.api.GetCurrentPlan(ctx)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Info("discarding plan response for stale tenant context", zap.String("tenant", tenant))
		return PlanView{}, ErrTenantSwitched
	}
	if seq <= c.superseded {
		view := c.viewLocked()
		c.mu.Unlock()
		c.logger.Debug("discarding plan response superseded by a billing change", zap.String("tenant", tenant))
		return view, nil
	}

	if err != nil {
		berr := &Error{Op: OpFetchPlan, Kind: Classify(err), Err: err}
		c.lastErr = berr
		if c.cache.Get() == nil {
			c.degraded = &DegradedSnapshot{
				Snapshot:   c.seeds.Lookup(tenant),
				TenantSlug: tenant,
				Cause:      berr,
				At:         c.now(),
			}
		}
		view := c.viewLocked()
		c.mu.Unlock()

		c.reportFailure(ctx, tenant, berr, start)
		return view, berr
	}

	c.cache.Set(plans.FromWire(raw))
	c.degraded = nil
	c.lastErr = nil
	view := c.viewLocked()
	c.mu.Unlock()

	c.metrics.OperationCompleted(OpFetchPlan, "", c.now().Sub(start))
	c.logger.Debug("plan fetched", zap.String("tenant", tenant), zap.String("tier", string(view.Snapshot.Tier)))
	return view, nil
}

// UpgradePlan asks the billing service for a payment approval URL and
// navigates to it. The cached plan is left as is: the change only happens
// once the external payment flow completes.
func (c *Controller) UpgradePlan(ctx context.Context, target plans.Tier, cycle *plans.BillingCycle) (Redirect, error) {
	start := c.now()
	gen, release, err := c.beginMutation(ctx, OpUpgradePlan, start)
	if err != nil {
		return Redirect{}, err
	}
	defer release()

	if !target.Valid() {
		return Redirect{}, c.fail(ctx, OpUpgradePlan, fmt.Errorf("%w: %q", ErrInvalidTier, target), start)
	}
	if cycle != nil && !cycle.Valid() {
		return Redirect{}, c.fail(ctx, OpUpgradePlan, fmt.Errorf("%w: billing cycle %q", ErrInvalidTier, *cycle), start)
	}

	res, err := c.api.Upgrade(ctx, UpgradeRequest{TargetTier: target, BillingCycle: cycle})
	if err != nil {
		return Redirect{}, c.fail(ctx, OpUpgradePlan, err, start)
	}
	url := strings.TrimSpace(res.ApprovalURL)
	if url == "" {
		return Redirect{}, c.fail(ctx, OpUpgradePlan, ErrMissingApprovalURL, start)
	}
	return c.redirect(ctx, OpUpgradePlan, gen, url, start)
}

// CancelPlan cancels the subscription, at period end unless immediate, and
// then reconciles with a forced fetch.
func (c *Controller) CancelPlan(ctx context.Context, immediate bool, reason string) (CancelResult, error) {
	start := c.now()
	_, release, err := c.beginMutation(ctx, OpCancelPlan, start)
	if err != nil {
		return CancelResult{}, err
	}
	defer release()

	res, err := c.api.Cancel(ctx, CancelRequest{Immediate: immediate, Reason: strings.TrimSpace(reason)})
	if err != nil {
		return CancelResult{}, c.fail(ctx, OpCancelPlan, err, start)
	}

	c.succeed(ctx, OpCancelPlan, cancelMessage(res), start)
	c.reconcile(ctx, OpCancelPlan)
	return res, nil
}

// ResumePlan withdraws a scheduled cancellation and reconciles.
func (c *Controller) ResumePlan(ctx context.Context) error {
	start := c.now()
	_, release, err := c.beginMutation(ctx, OpResumePlan, start)
	if err != nil {
		return err
	}
	defer release()

	if err := c.api.Resume(ctx); err != nil {
		return c.fail(ctx, OpResumePlan, err, start)
	}

	c.succeed(ctx, OpResumePlan, SuccessMessage(OpResumePlan), start)
	c.reconcile(ctx, OpResumePlan)
	return nil
}

// UpdatePaymentMethod asks for a billing portal URL and navigates to it.
// Payment-method changes do not touch the tracked plan fields, so there is
// no refetch.
func (c *Controller) UpdatePaymentMethod(ctx context.Context) (Redirect, error) {
	start := c.now()
	gen, release, err := c.beginMutation(ctx, OpUpdatePaymentMethod, start)
	if err != nil {
		return Redirect{}, err
	}
	defer release()

	res, err := c.api.UpdatePaymentMethod(ctx)
	if err != nil {
		return Redirect{}, c.fail(ctx, OpUpdatePaymentMethod, err, start)
	}
	url := strings.TrimSpace(res.PortalURL)
	if url == "" {
		return Redirect{}, c.fail(ctx, OpUpdatePaymentMethod, ErrMissingPortalURL, start)
	}
	return c.redirect(ctx, OpUpdatePaymentMethod, gen, url, start)
}

// ClearPlanDetails drops the cached plan, any degraded snapshot and the last
// error. Responses still in flight are discarded when they arrive.
func (c *Controller) ClearPlanDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// SwitchTenant binds the controller to another tenant. The cache is cleared
// before this returns, so nothing fetched for the old tenant can be served.
func (c *Controller) SwitchTenant(slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slug == c.tenant {
		return
	}
	c.logger.Info("switching tenant", zap.String("from", c.tenant), zap.String("to", slug))
	c.tenant = slug
	c.resetLocked()
}

func (c *Controller) Tenant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tenant
}

// Current returns the plan view without touching the network.
func (c *Controller) Current() PlanView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Degraded returns the placeholder snapshot currently served, if any.
func (c *Controller) Degraded() *DegradedSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.degraded == nil {
		return nil
	}
	d := *c.degraded
	d.Snapshot = d.Snapshot.Clone()
	return &d
}

// LastError is the last classified failure, cleared by a successful fetch.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) HasPendingChange() bool { return c.Current().Snapshot.HasPendingChange() }
func (c *Controller) IsActive() bool         { return c.Current().Snapshot.IsActive() }
func (c *Controller) IsCancelled() bool      { return c.Current().Snapshot.IsCancelled() }

func (c *Controller) PendingChangeDescription() (string, bool) {
	return c.Current().Snapshot.PendingChangeDescription()
}

func (c *Controller) viewLocked() PlanView {
	if e, ok := c.cache.Entry(); ok && e.Snapshot != nil {
		return PlanView{Snapshot: e.Snapshot, FetchedAt: e.FetchedAt}
	}
	if c.degraded != nil {
		return PlanView{Snapshot: c.degraded.Snapshot.Clone(), Degraded: true}
	}
	return PlanView{}
}

func (c *Controller) resetLocked() {
	c.gen++
	c.cache.Clear()
	c.degraded = nil
	c.lastErr = nil
}

// beginMutation checks that a live plan is loaded and takes the mutation
// guard. Only one mutating operation runs at a time; a rejected call gets
// ErrMutationInProgress and emits no event.
func (c *Controller) beginMutation(ctx context.Context, op Operation, start time.Time) (uint64, func(), error) {
	if c.cache.Get() == nil {
		return 0, nil, c.fail(ctx, op, ErrPlanNotLoaded, start)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating {
		c.logger.Debug("billing change suppressed, another one is running", zap.String("op", string(op)))
		return 0, nil, ErrMutationInProgress
	}
	c.mutating = true
	release := func() {
		c.mu.Lock()
		c.mutating = false
		c.mu.Unlock()
	}
	return c.gen, release, nil
}

func (c *Controller) redirect(ctx context.Context, op Operation, gen uint64, url string, start time.Time) (Redirect, error) {
	c.mu.Lock()
	stale := gen != c.gen
	c.mu.Unlock()
	if stale {
		c.logger.Info("dropping redirect for stale tenant context", zap.String("op", string(op)))
		return Redirect{}, ErrTenantSwitched
	}

	c.succeed(ctx, op, SuccessMessage(op), start)
	c.navigator.Navigate(ctx, url)
	return Redirect{URL: url}, nil
}

// reconcile refetches after a mutation. Fetches that started before the
// mutation settled may carry the old plan, so they are superseded and the
// in-flight guard is released for the reconciliation fetch.
func (c *Controller) reconcile(ctx context.Context, op Operation) {
	c.mu.Lock()
	c.superseded = c.fetchSeq
	c.fetching = false
	c.mu.Unlock()

	if _, err := c.FetchPlan(ctx, true); err != nil {
		c.logger.Warn("reconciliation fetch failed", zap.String("op", string(op)), zap.Error(err))
	}
}

func (c *Controller) fail(ctx context.Context, op Operation, err error, start time.Time) error {
	berr := &Error{Op: op, Kind: Classify(err), Err: err}
	c.mu.Lock()
	c.lastErr = berr
	tenant := c.tenant
	c.mu.Unlock()

	c.reportFailure(ctx, tenant, berr, start)
	return berr
}

func (c *Controller) reportFailure(ctx context.Context, tenant string, berr *Error, start time.Time) {
	c.metrics.OperationCompleted(berr.Op, berr.Kind, c.now().Sub(start))
	c.logger.Warn("billing operation failed",
		zap.String("op", string(berr.Op)),
		zap.String("kind", string(berr.Kind)),
		zap.String("tenant", tenant),
		zap.Error(berr.Err),
	)

	msg := ErrorMessage(berr.Op, berr.Kind)
	c.notifier.Notify(ctx, Event{
		ID:          uuid.New(),
		Type:        EventError,
		Operation:   berr.Op,
		Kind:        berr.Kind,
		Title:       msg.Title,
		Description: msg.Description,
		Err:         berr,
		TenantSlug:  tenant,
		At:          c.now(),
	})
}

func (c *Controller) succeed(ctx context.Context, op Operation, msg Message, start time.Time) {
	tenant := c.Tenant()
	c.metrics.OperationCompleted(op, "", c.now().Sub(start))
	c.logger.Info("billing operation succeeded", zap.String("op", string(op)), zap.String("tenant", tenant))

	c.notifier.Notify(ctx, Event{
		ID:          uuid.New(),
		Type:        EventSuccess,
		Operation:   op,
		Title:       msg.Title,
		Description: msg.Description,
		TenantSlug:  tenant,
		At:          c.now(),
	})
}

func cancelMessage(res CancelResult) Message {
	msg := SuccessMessage(OpCancelPlan)
	switch {
	case res.Immediate:
		msg.Description = "Your subscription has been cancelled."
	case res.EffectiveDate != nil:
		msg.Description = fmt.Sprintf("Your subscription will end on %s.", res.EffectiveDate.UTC().Format("2006-01-02"))
	}
	return msg
}
