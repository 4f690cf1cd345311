package sensor

const (
	statusCalibrated = 1 << 3
	statusCRCFlag    = 1 << 4
	statusBusy       = 1 << 7

	crcPolynomial = 0x31
	crcInit       = 0xFF

	fullScale = 1 << 20
)

// Status is the decoded sensor status byte.
type Status struct {
	Calibrated bool
	CRCFlag    bool
	Busy       bool
}

func DecodeStatus(b byte) Status {
	return Status{
		Calibrated: b&statusCalibrated != 0,
		CRCFlag:    b&statusCRCFlag != 0,
		Busy:       b&statusBusy != 0,
	}
}

// IsMeasurementReady is the readiness gate: calibrated, CRC flag set and not busy.
func IsMeasurementReady(s Status) bool {
	return s.Calibrated && s.CRCFlag && !s.Busy
}

// CRC8 computes the sensor checksum: polynomial 0x31, init 0xFF, MSB first,
// no reflection, no final XOR.
func CRC8(data []byte) byte {
	crc := byte(crcInit)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ crcPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// Decode converts status + 5 payload bytes into a Reading. data must hold at
// least 6 bytes.
func Decode(data []byte) Reading {
	hraw := (uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])) >> 4
	traw := uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5])
	return Reading{
		RelativeHumidity: float32(hraw) * 100 / fullScale,
		TemperatureC:     float32(traw)*200/fullScale - 50,
	}
}

// decodeFrame validates the checksum of a full 7-byte frame and decodes it.
func decodeFrame(frame []byte) (Reading, error) {
	if want := CRC8(frame[:6]); frame[6] != want {
		return Reading{}, &ChecksumError{Got: frame[6], Want: want}
	}
	return Decode(frame), nil
}
