package experience

import "go.uber.org/zap/zapcore"

// LevelChange describes what an XP update did to a level.
type LevelChange struct {
	Previous LevelInfo
	Current  LevelInfo
}

func Change(oldXP uint64, newXP uint64) LevelChange {
	return LevelChange{
		Previous: New(oldXP),
		Current:  New(newXP),
	}
}

// LevelsGained is negative when XP was taken away.
func (c LevelChange) LevelsGained() int64 {
	return int64(c.Current.level) - int64(c.Previous.level)
}

func (c LevelChange) LeveledUp() bool {
	return c.Current.level > c.Previous.level
}

func (c LevelChange) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if err := enc.AddObject("previous", c.Previous); err != nil {
		return err
	}
	if err := enc.AddObject("current", c.Current); err != nil {
		return err
	}
	enc.AddInt64("levelsGained", c.LevelsGained())
	return nil
}
