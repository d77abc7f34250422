// Package producer drives the write side of the ping-pong protocol: pull
// samples from a Sampler, optionally run them through the FFT pipeline,
// and commit the result for the consumer core.
package producer

import (
	"time"

	"duocore/core"
	"duocore/fft"
)

// Sampler is the external collaborator this package consumes but never
// implements: something that can fill a Q15 buffer with fresh samples.
// A real board wires an ADC driver behind it; no such implementation
// ships in this repository, and tests use a synthetic generator.
type Sampler interface {
	Sample(dst []core.Q15) (int, error)
}

// Mode selects what Run commits into each buffer.
type Mode int

const (
	// ModeRaw commits sampled Q15 values directly, no transform.
	ModeRaw Mode = iota
	// ModeFFT runs each window through the real-FFT pipeline and commits
	// the frequency-domain result instead of the raw samples.
	ModeFFT
)

// Config parameterizes a Producer.
type Config struct {
	Mode Mode
	// FFTSize is the real-FFT length to run in ModeFFT; must be one of
	// fft.SupportedSizes(). Unused in ModeRaw.
	FFTSize uint32
	// AcquireTimeout bounds how long Run waits for a free buffer before
	// treating the wait as a producer-side stall.
	AcquireTimeout time.Duration
}

// DefaultConfig returns sane raw-mode defaults.
func DefaultConfig() Config {
	return Config{Mode: ModeRaw, AcquireTimeout: time.Second}
}

// Producer owns the write side of a core.BufferManager.
type Producer struct {
	bm      *core.BufferManager
	sampler Sampler
	cfg     Config
	rfft    *fft.RFFTInstance
	scratch []core.Q15 // raw samples before transform, only used in ModeFFT
}

// New builds a Producer. In ModeFFT it eagerly initializes the RFFT
// instance so a bad FFTSize fails fast instead of on the first tick.
func New(bm *core.BufferManager, sampler Sampler, cfg Config) (*Producer, error) {
	p := &Producer{bm: bm, sampler: sampler, cfg: cfg}
	if cfg.Mode == ModeFFT {
		inst, status := fft.RFFTInit(cfg.FFTSize)
		if status != fft.StatusOK {
			return nil, status
		}
		p.rfft = inst
		p.scratch = make([]core.Q15, cfg.FFTSize)
	}
	return p, nil
}

// Tick runs one producer cycle: acquire a buffer, fill it (raw or FFT),
// commit. It returns the core.Status the acquire/commit calls surfaced;
// core.StatusTimeout means no buffer was free within AcquireTimeout and
// the sample cycle was skipped.
func (p *Producer) Tick() error {
	h, err := p.bm.AcquireForWrite(p.cfg.AcquireTimeout)
	if err != nil {
		return err
	}

	switch p.cfg.Mode {
	case ModeFFT:
		if err := p.fillFFT(h); err != nil {
			return err
		}
	default:
		if err := p.fillRaw(h); err != nil {
			return err
		}
	}

	return p.bm.Commit(h)
}

func (p *Producer) fillRaw(h core.BufferHandle) error {
	_, err := p.sampler.Sample(core.BytesAsQ15(h.Data))
	return err
}

func (p *Producer) fillFFT(h core.BufferHandle) error {
	if _, err := p.sampler.Sample(p.scratch); err != nil {
		return err
	}
	words := core.BytesAsQ15(h.Data)
	if status := fft.RFFT(p.rfft, p.scratch, words); status != fft.StatusOK {
		return status
	}
	return nil
}

// Run calls Tick in a loop until stop is closed, sleeping period between
// cycles. It is meant to run in its own goroutine (host) or on its own
// TinyGo core (board); callers on a board typically drive Tick directly
// from their own timer/scheduler instead of calling Run.
func (p *Producer) Run(period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := p.Tick(); err != nil {
				core.DebugPrintln("producer tick: " + err.Error())
			}
		}
	}
}
