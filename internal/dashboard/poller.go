package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PollerOptions configure the poll loops.
type PollerOptions struct {
	StatusInterval time.Duration
	HealthInterval time.Duration
	EventsInterval time.Duration
	LogTail        int
	EventsWindow   int
	// Filters are applied to the view handed to renderers.
	Filters Filters
}

// Poller drives the status, health and events loops against a gateway.
type Poller struct {
	gw       Gateway
	session  *Session
	pipeline Pipeline
	opts     PollerOptions
	log      zerolog.Logger
	inst     *Instruments

	// Now is the clock used to stamp iterations.
	Now func() time.Time

	mu        sync.Mutex
	renderers []func(View)
	inflight  sync.WaitGroup
}

// NewPoller wires the status pipeline for session. inst may be nil.
func NewPoller(gw Gateway, session *Session, opts PollerOptions, log zerolog.Logger, inst *Instruments) *Poller {
	return &Poller{
		gw:       gw,
		session:  session,
		pipeline: StatusPipeline(gw, session, opts.LogTail, inst),
		opts:     opts,
		log:      log.With().Str("component", "poller").Logger(),
		inst:     inst,
		Now:      time.Now,
	}
}

// OnRender registers fn to receive a fresh view after every iteration.
func (p *Poller) OnRender(fn func(View)) {
	p.mu.Lock()
	p.renderers = append(p.renderers, fn)
	p.mu.Unlock()
}

func (p *Poller) render() {
	p.mu.Lock()
	fns := append([]func(View){}, p.renderers...)
	p.mu.Unlock()
	if len(fns) == 0 {
		return
	}
	v := p.session.View(p.opts.Filters)
	for _, fn := range fns {
		fn(v)
	}
}

// RunStatusOnce runs one status iteration. A failure is recorded on the
// session and returned; the previous snapshot stays untouched.
func (p *Poller) RunStatusOnce(ctx context.Context) error {
	it := &Iteration{StartedAt: p.Now()}
	err := p.pipeline.Run(ctx, it)
	if err != nil {
		p.session.Fail(err)
		p.log.Warn().Err(err).Msg("status iteration failed")
	}
	p.inst.poll(LoopStatus, err)
	p.inst.observeTimeline(p.session.TimelineLen(), 0)
	p.render()
	return err
}

// RunHealthOnce fetches and ingests health. Failures leave the last
// reading in place.
func (p *Poller) RunHealthOnce(ctx context.Context) error {
	h, err := p.gw.Health(ctx)
	p.inst.poll(LoopHealth, err)
	if err != nil {
		p.log.Debug().Err(err).Msg("health fetch failed")
		return err
	}
	p.session.IngestHealth(h)
	p.render()
	return nil
}

// RunEventsOnce fetches gateway events and appends the unseen ones.
func (p *Poller) RunEventsOnce(ctx context.Context) error {
	events, err := p.gw.Events(ctx, p.opts.EventsWindow)
	p.inst.poll(LoopEvents, err)
	if err != nil {
		p.log.Debug().Err(err).Msg("events fetch failed")
		return err
	}
	n := p.session.IngestEvents(events)
	p.inst.observeTimeline(p.session.TimelineLen(), n)
	if n > 0 {
		p.log.Debug().Int("count", n).Msg("events ingested")
	}
	p.render()
	return nil
}

// Run starts all three loops and blocks until ctx is cancelled. Each loop
// fires immediately, then on its interval; every tick runs in its own
// goroutine so a slow gateway never delays the next tick.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info().
		Dur("status_interval", p.opts.StatusInterval).
		Dur("health_interval", p.opts.HealthInterval).
		Dur("events_interval", p.opts.EventsInterval).
		Msg("polling started")

	var loops sync.WaitGroup
	for _, l := range []struct {
		every time.Duration
		run   func(context.Context) error
	}{
		{p.opts.StatusInterval, p.RunStatusOnce},
		{p.opts.HealthInterval, p.RunHealthOnce},
		{p.opts.EventsInterval, p.RunEventsOnce},
	} {
		loops.Add(1)
		go func(every time.Duration, run func(context.Context) error) {
			defer loops.Done()
			p.loop(ctx, every, run)
		}(l.every, l.run)
	}

	loops.Wait()
	p.inflight.Wait()
	p.log.Info().Msg("polling stopped")
	return ctx.Err()
}

func (p *Poller) loop(ctx context.Context, every time.Duration, run func(context.Context) error) {
	if every <= 0 {
		return
	}
	fire := func() {
		p.inflight.Add(1)
		go func() {
			defer p.inflight.Done()
			_ = run(ctx)
		}()
	}

	fire()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fire()
		}
	}
}

// Restart asks the gateway to restart the daemon. Errors are logged and
// otherwise ignored.
func (p *Poller) Restart(ctx context.Context) {
	if err := p.gw.Restart(ctx); err != nil {
		p.log.Debug().Err(err).Msg("restart request failed")
	}
}
