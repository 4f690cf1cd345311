// Package record is the wire format sent to the collector: a CBOR map with
// exactly three text keys, "temp_c" and "hmd" as single-precision floats and
// "time" as unsigned seconds since the epoch.
package record

import (
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/aht20-udp-node/pkg/sensor"
	"github.com/fxamacker/cbor/v2"
)

// MaxSize bounds an encoded record.
const MaxSize = 128

var (
	ErrTooLarge = errors.New("record: encoded size exceeds limit")
	ErrShape    = errors.New("record: not a 3-entry temp_c/hmd/time map")
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// keep float32 on the wire and the struct field order as map order
	encMode, err = cbor.EncOptions{ShortestFloat: cbor.ShortestFloatNone, Sort: cbor.SortNone}.EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(err)
	}
}

type Record struct {
	TempC    float32 `cbor:"temp_c"`
	Humidity float32 `cbor:"hmd"`
	Time     uint64  `cbor:"time"`
}

// New stamps a reading with at. Times before the epoch are clamped to 0.
func New(r sensor.Reading, at time.Time) Record {
	var secs uint64
	if u := at.Unix(); u > 0 {
		secs = uint64(u)
	}
	return Record{TempC: r.TemperatureC, Humidity: r.RelativeHumidity, Time: secs}
}

func (r Record) Reading() sensor.Reading {
	return sensor.Reading{TemperatureC: r.TempC, RelativeHumidity: r.Humidity}
}

func (r Record) Timestamp() time.Time { return time.Unix(int64(r.Time), 0) }

// Encode serializes r, failing if the result would not fit in MaxSize.
func Encode(r Record) ([]byte, error) {
	b, err := encMode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("record: encode: %w", err)
	}
	if len(b) > MaxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(b), MaxSize)
	}
	return b, nil
}

// Decode parses a datagram payload and checks it carries exactly the three
// expected keys.
func Decode(b []byte) (Record, error) {
	if len(b) > MaxSize {
		return Record{}, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(b), MaxSize)
	}
	var fields map[string]cbor.RawMessage
	if err := decMode.Unmarshal(b, &fields); err != nil {
		return Record{}, fmt.Errorf("record: decode: %w", err)
	}
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: %d entries", ErrShape, len(fields))
	}
	for _, k := range []string{"temp_c", "hmd", "time"} {
		if _, ok := fields[k]; !ok {
			return Record{}, fmt.Errorf("%w: missing %q", ErrShape, k)
		}
	}
	var r Record
	if err := decMode.Unmarshal(b, &r); err != nil {
		return Record{}, fmt.Errorf("record: decode: %w", err)
	}
	return r, nil
}
