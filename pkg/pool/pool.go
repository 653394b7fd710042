package pool

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"QRDetect/pkg/qrdetect"
)

// Factory constructs one detector instance. It is called InitialSize times
// during warm-up and again whenever Acquire finds the pool empty.
type Factory func() (qrdetect.Detector, error)

type Config struct {
	InitialSize int
	MaxSize     int
}

// Stats is a snapshot of the pool for the health endpoint.
type Stats struct {
	InitialSize int `json:"initial_size"`
	MaxSize     int `json:"max_size"`
	Available   int `json:"available"`
}

// DetectorPool is a bounded cache of detector instances shared across
// concurrent requests. Acquire never waits on another request's release:
// when the pool is empty it constructs a fresh instance instead. Release
// returns an instance to the pool, or closes it when the pool already
// holds MaxSize instances. The mutex guards only the available slice,
// never a detection call.
type DetectorPool struct {
	mu        sync.Mutex
	available []qrdetect.Detector

	cfg     Config
	factory Factory
	log     *logrus.Logger
}

// New builds the pool and pre-warms InitialSize instances. A construction
// failure during warm-up is returned to the caller; the process cannot
// serve without detectors and must not start degraded.
func New(log *logrus.Logger, cfg Config, factory Factory) (*DetectorPool, error) {
	p := &DetectorPool{
		available: make([]qrdetect.Detector, 0, cfg.MaxSize),
		cfg:       cfg,
		factory:   factory,
		log:       log,
	}

	for i := 0; i < cfg.InitialSize; i++ {
		det, err := factory()
		if err != nil {
			p.closeAll()
			return nil, fmt.Errorf("failed to warm up detector %d/%d: %w", i+1, cfg.InitialSize, err)
		}
		p.available = append(p.available, det)
	}

	return p, nil
}

// Acquire borrows a detector, constructing one on demand when none is
// available. The returned lease owns the instance exclusively until
// Release. On-demand construction failure is fatal, same as a warm-up
// failure: the process does not serve without detectors.
func (p *DetectorPool) Acquire() *Lease {
	p.mu.Lock()
	if n := len(p.available); n > 0 {
		det := p.available[n-1]
		p.available = p.available[:n-1]
		p.mu.Unlock()
		return &Lease{det: det, pool: p}
	}
	p.mu.Unlock()

	det, err := p.factory()
	if err != nil {
		p.log.Fatalf("Cannot create fallback detector: %v", err)
	}
	return &Lease{det: det, pool: p}
}

// Stats returns a point-in-time snapshot of the pool.
func (p *DetectorPool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		InitialSize: p.cfg.InitialSize,
		MaxSize:     p.cfg.MaxSize,
		Available:   len(p.available),
	}
}

// Close drains the pool and releases every cached instance. Callers must
// stop acquiring first; in-flight leases still return via put.
func (p *DetectorPool) Close() {
	p.closeAll()
}

func (p *DetectorPool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, det := range p.available {
		if err := det.Close(); err != nil {
			p.log.Warnf("Error closing pooled detector: %v", err)
		}
	}
	p.available = p.available[:0]
}

func (p *DetectorPool) put(det qrdetect.Detector) {
	p.mu.Lock()
	if len(p.available) < p.cfg.MaxSize {
		p.available = append(p.available, det)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	// Overflow instance, reclaim instead of growing past MaxSize.
	if err := det.Close(); err != nil {
		p.log.Warnf("Error closing overflow detector: %v", err)
	}
}

// Lease is a scoped borrow of one detector. Callers must defer Release
// immediately after Acquire so the instance returns to the pool on every
// exit path, including panics and cancelled requests.
type Lease struct {
	det  qrdetect.Detector
	pool *DetectorPool
	once sync.Once
}

// Detector exposes the borrowed instance.
func (l *Lease) Detector() qrdetect.Detector {
	return l.det
}

// Release hands the instance back. Safe to call more than once; only the
// first call has an effect.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.pool.put(l.det)
	})
}
