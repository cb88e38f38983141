package verify

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"mee6-level/internal/config"
	"mee6-level/pkg/experience"
)

// ctxCheckInterval is how many XP values a worker checks between looking at
// its context.
const ctxCheckInterval = 4096

var ErrMismatch = errors.New("level mismatch")

type Service interface {
	// Verify checks every XP value in [start, end) against the linear scan
	// and the level invariants.
	Verify(ctx context.Context, start uint64, end uint64) (*Report, error)
}

type Report struct {
	Checked    uint64
	Mismatches []Mismatch
}

type Mismatch struct {
	XP        uint64
	Reason    string
	Info      experience.LevelInfo
	Reference uint64
}

func (m Mismatch) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("xp", m.XP)
	enc.AddString("reason", m.Reason)
	enc.AddUint64("referenceLevel", m.Reference)
	return enc.AddObject("info", m.Info)
}

type serviceImpl struct {
	log *zap.SugaredLogger
	cfg *config.VerifyConfig

	newInfo func(xp uint64) experience.LevelInfo
}

func NewService(log *zap.SugaredLogger, cfg *config.VerifyConfig) Service {
	return &serviceImpl{
		log:     log,
		cfg:     cfg,
		newInfo: experience.New,
	}
}

func (s *serviceImpl) Verify(ctx context.Context, start uint64, end uint64) (*Report, error) {
	report := &Report{}
	if end <= start {
		return report, nil
	}

	col := &collector{max: s.cfg.MaxMismatches}
	var checked atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for lo := start; gctx.Err() == nil; {
		hi := end
		if end-lo > s.cfg.ChunkSize {
			hi = lo + s.cfg.ChunkSize
		}

		chunkLo, chunkHi := lo, hi
		g.Go(func() error {
			n, err := s.checkChunk(gctx, chunkLo, chunkHi, col)
			checked.Add(n)
			return err
		})

		if hi == end {
			break
		}
		lo = hi
	}

	err := g.Wait()
	report.Checked = checked.Load()
	report.Mismatches = col.sorted()

	switch {
	case len(report.Mismatches) > 0:
		return report, fmt.Errorf("%w: %d found in [%d, %d)", ErrMismatch, len(report.Mismatches), start, end)
	case err != nil:
		return report, fmt.Errorf("verification interrupted: %w", err)
	case ctx.Err() != nil:
		return report, fmt.Errorf("verification interrupted: %w", ctx.Err())
	}

	return report, nil
}

func (s *serviceImpl) checkChunk(ctx context.Context, lo uint64, hi uint64, col *collector) (uint64, error) {
	var checked uint64
	var prev uint64
	for xp := lo; xp < hi; xp++ {
		if checked%ctxCheckInterval == 0 && ctx.Err() != nil {
			return checked, ctx.Err()
		}

		info := s.newInfo(xp)
		checked++

		reference := experience.ScanLevel(xp)
		reason := check(xp, info, reference, prev, xp > lo)
		prev = info.Level()
		if reason == "" {
			continue
		}

		m := Mismatch{XP: xp, Reason: reason, Info: info, Reference: reference}
		s.log.Errorw("level mismatch", "mismatch", m)

		if full := col.add(m); full {
			return checked, ErrMismatch
		}
	}

	s.log.Debugw("checked chunk", "start", lo, "end", hi)
	return checked, nil
}

func check(xp uint64, info experience.LevelInfo, reference uint64, prev uint64, hasPrev bool) string {
	target := float64(xp)

	switch {
	case info.XP() != xp:
		return "xp not preserved"
	case info.Level() != reference:
		return "level differs from linear scan"
	case experience.Threshold(float64(info.Level())) > target:
		return "xp below level threshold"
	case experience.Threshold(float64(info.Level()+1)) <= target:
		return "xp reaches next level threshold"
	case info.Percentage() > experience.MaxPercentage:
		return "percentage out of range"
	case hasPrev && info.Level() < prev:
		return "level decreased"
	}

	return ""
}

type collector struct {
	sync.Mutex

	max        int
	mismatches []Mismatch
}

// add records m and reports whether the collector is full.
func (c *collector) add(m Mismatch) bool {
	c.Lock()
	defer c.Unlock()

	if len(c.mismatches) < c.max {
		c.mismatches = append(c.mismatches, m)
	}

	return len(c.mismatches) >= c.max
}

func (c *collector) sorted() []Mismatch {
	c.Lock()
	defer c.Unlock()

	out := slices.Clone(c.mismatches)
	slices.SortFunc(out, func(a, b Mismatch) int {
		return cmp.Compare(a.XP, b.XP)
	})

	return out
}
