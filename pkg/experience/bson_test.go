package experience

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type playerDocument struct {
	Name  string    `bson:"name"`
	Level LevelInfo `bson:"level"`
}

func TestLevelInfoCodec_RoundTrip(t *testing.T) {
	registry := NewRegistry()

	for _, xp := range []uint64{0, 50, 3255, XPForLevel(40), 1 << 52} {
		in := playerDocument{Name: "Notch", Level: New(xp)}

		data, err := bson.MarshalWithRegistry(registry, in)
		require.NoError(t, err)

		var out playerDocument
		require.NoError(t, bson.UnmarshalWithRegistry(registry, data, &out))
		assert.Equal(t, in, out)
	}
}

func TestLevelInfoCodec_Layout(t *testing.T) {
	data, err := bson.MarshalWithRegistry(NewRegistry(), playerDocument{Level: New(3255)})
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(data, &raw))

	assert.Equal(t, bson.M{
		"xp":         int64(3255),
		"level":      int64(8),
		"percentage": int32(43),
	}, raw["level"])
}

func TestLevelInfoCodec_RecalculatesFromXP(t *testing.T) {
	data, err := bson.Marshal(bson.M{
		"name":  "Notch",
		"level": bson.M{"xp": int32(3255), "level": int64(1), "percentage": int32(99), "extra": "ignored"},
	})
	require.NoError(t, err)

	var out playerDocument
	require.NoError(t, bson.UnmarshalWithRegistry(NewRegistry(), data, &out))
	assert.Equal(t, New(3255), out.Level)
}

func TestLevelInfoCodec_Errors(t *testing.T) {
	registry := NewRegistry()

	t.Run("overflow", func(t *testing.T) {
		_, err := bson.MarshalWithRegistry(registry, playerDocument{Level: New(math.MaxUint64)})
		require.ErrorIs(t, err, ErrXPOverflow)
	})

	t.Run("negative xp", func(t *testing.T) {
		data, err := bson.Marshal(bson.M{"level": bson.M{"xp": int64(-5)}})
		require.NoError(t, err)

		var out playerDocument
		require.ErrorIs(t, bson.UnmarshalWithRegistry(registry, data, &out), ErrNegativeXP)
	})

	t.Run("wrong type", func(t *testing.T) {
		data, err := bson.Marshal(bson.M{"level": "eight"})
		require.NoError(t, err)

		var out playerDocument
		require.Error(t, bson.UnmarshalWithRegistry(registry, data, &out))
	})

	t.Run("null", func(t *testing.T) {
		data, err := bson.Marshal(bson.M{"level": nil})
		require.NoError(t, err)

		out := playerDocument{Level: New(3255)}
		require.NoError(t, bson.UnmarshalWithRegistry(registry, data, &out))
		assert.Equal(t, LevelInfo{}, out.Level)
	})
}
