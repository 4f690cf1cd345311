package indicator

import "errors"

// Color is an HSV triple as driven on the status LED.
type Color struct {
	Hue        uint16 `json:"hue"`
	Saturation uint16 `json:"saturation"`
	Value      uint16 `json:"value"`
}

var (
	ColorTransmit   = Color{Hue: 120, Saturation: 255, Value: 32}
	ColorReadSensor = Color{Hue: 300, Saturation: 255, Value: 20}
)

type Indicator interface {
	SetActive(Color) error
	SetIdle() error
	Close() error
}

// Multi drives several indicators as one; every member is called even when
// an earlier one fails.
type Multi []Indicator

func (m Multi) SetActive(c Color) error {
	var errs []error
	for _, ind := range m {
		errs = append(errs, ind.SetActive(c))
	}
	return errors.Join(errs...)
}

func (m Multi) SetIdle() error {
	var errs []error
	for _, ind := range m {
		errs = append(errs, ind.SetIdle())
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, ind := range m {
		errs = append(errs, ind.Close())
	}
	return errors.Join(errs...)
}
