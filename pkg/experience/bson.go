package experience

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
)

const (
	xpKey         = "xp"
	levelKey      = "level"
	percentageKey = "percentage"
)

var (
	LevelInfoType = reflect.TypeOf(LevelInfo{})

	// ErrXPOverflow is returned when encoding XP that BSON's signed 64-bit
	// integer can't hold.
	ErrXPOverflow = errors.New("xp does not fit in a bson int64")
)

// NewRegistry returns the default bson registry with the LevelInfo codec
// registered.
func NewRegistry() *bsoncodec.Registry {
	return RegisterCodec(bson.NewRegistryBuilder()).Build()
}

func RegisterCodec(rb *bsoncodec.RegistryBuilder) *bsoncodec.RegistryBuilder {
	return rb.
		RegisterTypeEncoder(LevelInfoType, bsoncodec.ValueEncoderFunc(LevelInfoEncodeValue)).
		RegisterTypeDecoder(LevelInfoType, bsoncodec.ValueDecoderFunc(LevelInfoDecodeValue))
}

// LevelInfoEncodeValue writes a LevelInfo as {xp, level, percentage}. Level
// and percentage are stored so they can be queried and sorted on.
func LevelInfoEncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != LevelInfoType {
		return bsoncodec.ValueEncoderError{Name: "levelInfoEncodeValue", Types: []reflect.Type{LevelInfoType}, Received: val}
	}
	info := val.Interface().(LevelInfo)

	if info.xp > math.MaxInt64 {
		return fmt.Errorf("%w: %d", ErrXPOverflow, info.xp)
	}

	dw, err := vw.WriteDocument()
	if err != nil {
		return err
	}

	if err := writeInt64(dw, xpKey, int64(info.xp)); err != nil {
		return err
	}
	if err := writeInt64(dw, levelKey, int64(info.level)); err != nil {
		return err
	}

	pvw, err := dw.WriteDocumentElement(percentageKey)
	if err != nil {
		return err
	}
	if err := pvw.WriteInt32(int32(info.percentage)); err != nil {
		return err
	}

	return dw.WriteDocumentEnd()
}

func writeInt64(dw bsonrw.DocumentWriter, key string, v int64) error {
	vw, err := dw.WriteDocumentElement(key)
	if err != nil {
		return err
	}

	return vw.WriteInt64(v)
}

// LevelInfoDecodeValue reads a document written by LevelInfoEncodeValue. Only
// xp is trusted: level and percentage are recalculated from it.
func LevelInfoDecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != LevelInfoType {
		return bsoncodec.ValueDecoderError{Name: "levelInfoDecodeValue", Types: []reflect.Type{LevelInfoType}, Received: val}
	}

	switch vrType := vr.Type(); vrType {
	case bson.TypeEmbeddedDocument:
	case bson.TypeNull:
		if err := vr.ReadNull(); err != nil {
			return err
		}
		val.Set(reflect.Zero(LevelInfoType))
		return nil
	default:
		return fmt.Errorf("cannot decode %v into a LevelInfo", vrType)
	}

	dr, err := vr.ReadDocument()
	if err != nil {
		return err
	}

	var xp int64
	for {
		key, evr, err := dr.ReadElement()
		if errors.Is(err, bsonrw.ErrEOD) {
			break
		}
		if err != nil {
			return err
		}

		if key != xpKey {
			if err := evr.Skip(); err != nil {
				return err
			}
			continue
		}

		xp, err = readXP(evr)
		if err != nil {
			return err
		}
	}

	info, err := FromInt64(xp)
	if err != nil {
		return err
	}

	val.Set(reflect.ValueOf(info))
	return nil
}

func readXP(vr bsonrw.ValueReader) (int64, error) {
	switch vrType := vr.Type(); vrType {
	case bson.TypeInt64:
		return vr.ReadInt64()
	case bson.TypeInt32:
		v, err := vr.ReadInt32()
		return int64(v), err
	default:
		return 0, fmt.Errorf("cannot decode %v into xp", vrType)
	}
}
