package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/metrics"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/motion"
	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/sensor"
)

const (
	OutcomeForwarded    = "forwarded"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeNoMotionData = "no_motion_data"
	OutcomePushFailed   = "push_failed"
)

// Binding pairs one source endpoint with the destination that
// receives its readings. Duplicate source URLs are allowed: the same
// gateway may feed more than one Tandem stream.
type Binding struct {
	SourceURL string `json:"sourceUrl"`
	TandemURL string `json:"tandemUrl"`
}

// Bind pairs sources and destinations positionally. Extra
// destinations are ignored; too few is an error.
func Bind(sourceURLs, tandemURLs []string) ([]Binding, error) {
	if len(sourceURLs) == 0 {
		return nil, fmt.Errorf("no source urls configured")
	}
	if len(sourceURLs) > len(tandemURLs) {
		return nil, fmt.Errorf("%d source urls configured but only %d tandem urls", len(sourceURLs), len(tandemURLs))
	}

	bindings := make([]Binding, 0, len(sourceURLs))
	for i, s := range sourceURLs {
		bindings = append(bindings, Binding{SourceURL: s, TandemURL: tandemURLs[i]})
	}
	return bindings, nil
}

// Reader fetches one sensor snapshot from a source endpoint.
type Reader interface {
	Read(ctx context.Context, url string) (sensor.Document, error)
}

// Writer pushes one normalized reading to a destination endpoint.
type Writer interface {
	Push(ctx context.Context, url string, reading sensor.Reading) error
}

// Mirror republishes forwarded readings for local subscribers.
type Mirror interface {
	PublishReading(source string, reading sensor.Reading) error
}

type BindingStatus struct {
	Binding
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

type Snapshot struct {
	Cycles        int64           `json:"cycles"`
	LastCycleTime time.Time       `json:"lastCycleTime"`
	LastCycleMs   int64           `json:"lastCycleMs"`
	Bindings      []BindingStatus `json:"bindings"`
}

// Poller drives the read, evaluate, normalize, push pipeline over
// every binding, then sleeps. It is the only owner of the per-source
// previous-motion table.
type Poller struct {
	bindings []Binding
	reader   Reader
	writer   Writer
	mirror   Mirror
	interval time.Duration
	logger   *zap.SugaredLogger
	metrics  *metrics.Metrics

	// last raw motion reading per source URL, keyed by URL rather
	// than list position so reordering sources never crosses state
	prevMotion map[string]json.RawMessage

	mu       sync.Mutex
	snapshot Snapshot
}

func NewPoller(bindings []Binding, reader Reader, writer Writer, mirror Mirror, interval time.Duration, logger *zap.SugaredLogger, m *metrics.Metrics) *Poller {
	return &Poller{
		bindings:   bindings,
		reader:     reader,
		writer:     writer,
		mirror:     mirror,
		interval:   interval,
		logger:     logger,
		metrics:    m,
		prevMotion: make(map[string]json.RawMessage),
	}
}

// Run cycles over the bindings until ctx is cancelled. No failure
// inside a cycle ever stops the loop.
func (p *Poller) Run(ctx context.Context) {
	for {
		p.runCycle(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}

func (p *Poller) runCycle(ctx context.Context) {
	u, _ := uuid.NewV4()
	cycleLogger := p.logger.With("cycle", u.String())
	start := time.Now()

	statuses := make([]BindingStatus, 0, len(p.bindings))
	for _, b := range p.bindings {
		statuses = append(statuses, p.runBinding(ctx, cycleLogger, b))
	}

	p.metrics.Cycles.Inc()
	elapsed := time.Since(start)
	cycleLogger.Infof("cycle complete, attempted %d bindings in %s", len(p.bindings), elapsed)

	p.mu.Lock()
	p.snapshot = Snapshot{
		Cycles:        p.snapshot.Cycles + 1,
		LastCycleTime: start.UTC(),
		LastCycleMs:   elapsed.Milliseconds(),
		Bindings:      statuses,
	}
	p.mu.Unlock()
}

// runBinding attempts one binding. Every failure is reported in the
// returned status, never raised: one bad endpoint must not block the
// rest of the cycle.
func (p *Poller) runBinding(ctx context.Context, logger *zap.SugaredLogger, b Binding) BindingStatus {
	doc, err := p.reader.Read(ctx, b.SourceURL)
	if err != nil {
		p.metrics.FetchFailures.Inc()
		logger.Errorf("fetching from %s: %s", b.SourceURL, err)
		return BindingStatus{Binding: b, Outcome: OutcomeFetchFailed, Detail: err.Error()}
	}

	current, ok := doc.MotionInstant()
	if !ok {
		p.metrics.MissingMotion.Inc()
		logger.Warnf("no motion reading from %s, skipping", b.SourceURL)
		return BindingStatus{Binding: b, Outcome: OutcomeNoMotionData}
	}

	previous, seen := p.prevMotion[b.SourceURL]
	if !seen {
		// a source's first observation never reads as motion
		previous = current
	}

	flag, next := motion.Evaluate(current, previous)
	p.prevMotion[b.SourceURL] = next

	reading := sensor.Normalize(doc, flag)

	if err := p.writer.Push(ctx, b.TandemURL, reading); err != nil {
		p.metrics.PushFailures.Inc()
		logger.Errorf("pushing to %s: %s", b.TandemURL, err)
		return BindingStatus{Binding: b, Outcome: OutcomePushFailed, Detail: err.Error()}
	}

	p.metrics.Forwarded.Inc()

	if p.mirror != nil {
		if err := p.mirror.PublishReading(b.SourceURL, reading); err != nil {
			logger.Errorf("mirroring reading for %s: %s", b.SourceURL, err)
		}
	}

	return BindingStatus{Binding: b, Outcome: OutcomeForwarded}
}

// Snapshot returns the outcome of the most recent cycle for the
// status API.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}
