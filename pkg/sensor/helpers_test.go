package sensor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

// crcTable builds a lookup table for polynomial 0x31 independently of CRC8.
func crcTable() [256]byte {
	var table [256]byte
	for i := range table {
		c := uint32(i) << 8
		for bit := 0; bit < 8; bit++ {
			c <<= 1
			if c&0x10000 != 0 {
				c ^= 0x13100
			}
		}
		table[i] = byte(c >> 8)
	}
	return table
}

func crcByTable(data []byte) byte {
	table := crcTable()
	crc := byte(0xFF)
	for _, b := range data {
		crc = table[crc^b]
	}
	return crc
}

func TestCRC8KnownVectors(t *testing.T) {
	tests := []struct {
		in   []byte
		want byte
	}{
		{[]byte{0xBE, 0xEF}, 0x92},
		{[]byte{0, 0, 0, 0, 0, 0}, 0x6A},
		{[]byte{0x1C, 0x73, 0x33, 0x36, 0x00, 0x00}, 0xF5},
		{[]byte{0x18, 0xFF, 0xFF, 0xF0, 0x00, 0x00}, 0x8B},
		{nil, 0xFF},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, CRC8(tt.in), "% X", tt.in)
	}
}

func TestCRC8MatchesTable(t *testing.T) {
	buf := make([]byte, 6)
	for seed := 0; seed < 512; seed++ {
		for i := range buf {
			buf[i] = byte(seed*31 + i*97 + seed>>3)
		}
		require.Equal(t, crcByTable(buf), CRC8(buf), "% X", buf)
	}
}

func TestDecodeStatus(t *testing.T) {
	tests := []struct {
		in    byte
		want  Status
		ready bool
	}{
		{0x18, Status{Calibrated: true, CRCFlag: true}, true},
		{0x1C, Status{Calibrated: true, CRCFlag: true}, true},
		{0x08, Status{Calibrated: true}, false},
		{0x10, Status{CRCFlag: true}, false},
		{0x98, Status{Calibrated: true, CRCFlag: true, Busy: true}, false},
		{0x00, Status{}, false},
		{0xFF, Status{Calibrated: true, CRCFlag: true, Busy: true}, false},
	}
	for _, tt := range tests {
		got := DecodeStatus(tt.in)
		require.Equal(t, tt.want, got, "0x%02X", tt.in)
		require.Equal(t, tt.ready, IsMeasurementReady(got), "0x%02X", tt.in)
	}
}

func TestDecodeTransferFunction(t *testing.T) {
	r := Decode([]byte{0x1C, 0x00, 0x00, 0x00, 0x00, 0x00})
	require.Equal(t, float32(0), r.RelativeHumidity)
	require.Equal(t, float32(-50), r.TemperatureC)

	r = Decode([]byte{0x1C, 0xFF, 0xFF, 0xF0, 0x00, 0x00})
	require.InDelta(t, 100.0, r.RelativeHumidity, 0.001)

	r = Decode([]byte{0x1C, 0x00, 0x00, 0x0F, 0xFF, 0xFF})
	require.InDelta(t, 150.0, r.TemperatureC, 0.001)
	require.Equal(t, float32(0), r.RelativeHumidity)

	r = Decode([]byte{0x1C, 0x73, 0x33, 0x35, 0xCC, 0xCD})
	require.InDelta(t, 22.5, r.TemperatureC, 0.001)
	require.InDelta(t, 45.0, r.RelativeHumidity, 0.001)
}

func TestDecodeFrameChecksum(t *testing.T) {
	_, err := decodeFrame([]byte{0x1C, 0x73, 0x33, 0x35, 0xCC, 0xCD, 0x2A})
	require.NoError(t, err)

	_, err = decodeFrame([]byte{0x1C, 0x73, 0x33, 0x35, 0xCC, 0xCD, 0x2B})
	require.Error(t, err)
}

func TestReadingEnv(t *testing.T) {
	e := Reading{TemperatureC: 0, RelativeHumidity: 50}.Env()
	require.Equal(t, physic.ZeroCelsius, e.Temperature)
	require.Equal(t, 50*physic.PercentRH, e.Humidity)
}
