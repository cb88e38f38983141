package experience

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// MaxPercentage is the highest progress a LevelInfo reports. Reaching 100%
// means reaching the next level, which is reported as that level at 0%.
const MaxPercentage = 99

var ErrNegativeXP = errors.New("xp must not be negative")

// LevelInfo is the level and progress for an XP count. Everything is
// calculated by New, so the getters are free.
type LevelInfo struct {
	xp         uint64
	level      uint64
	percentage uint8
}

func New(xp uint64) LevelInfo {
	level := Level(xp)

	return LevelInfo{
		xp:         xp,
		level:      level,
		percentage: percentage(xp, level),
	}
}

// FromInt64 is New for callers that hold XP in a signed integer.
func FromInt64(xp int64) (LevelInfo, error) {
	if xp < 0 {
		return LevelInfo{}, fmt.Errorf("%w: %d", ErrNegativeXP, xp)
	}

	return New(uint64(xp)), nil
}

// XP returns the XP the LevelInfo was created from.
func (l LevelInfo) XP() uint64 {
	return l.xp
}

func (l LevelInfo) Level() uint64 {
	return l.level
}

// Percentage returns the progress from the current level toward the next,
// between 0 and MaxPercentage.
func (l LevelInfo) Percentage() uint8 {
	return l.percentage
}

// NextLevelXP returns the XP at which the next level is reached.
func (l LevelInfo) NextLevelXP() uint64 {
	return XPForLevel(l.level + 1)
}

func (l LevelInfo) XPToNextLevel() uint64 {
	next := l.NextLevelXP()
	// only possible above 2^53, where float64 rounds xp
	if next <= l.xp {
		return 0
	}

	return next - l.xp
}

// Compare orders by XP. Level and percentage only ever grow with XP, so the
// order agrees with theirs too.
func (l LevelInfo) Compare(other LevelInfo) int {
	switch {
	case l.xp < other.xp:
		return -1
	case l.xp > other.xp:
		return 1
	default:
		return 0
	}
}

func (l LevelInfo) Less(other LevelInfo) bool {
	return l.xp < other.xp
}

func (l LevelInfo) String() string {
	return fmt.Sprintf("level %d (%d%%, %d xp)", l.level, l.percentage, l.xp)
}

func (l LevelInfo) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("xp", l.xp)
	enc.AddUint64("level", l.level)
	enc.AddUint8("percentage", l.percentage)
	return nil
}
