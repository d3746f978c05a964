package isoaudio

import "errors"

// Control path errors. Streaming callbacks never return errors; a contract
// violation there panics.
var (
	// ErrInvalidConfig indicates a configuration value out of range.
	ErrInvalidConfig = errors.New("invalid audio configuration")

	// ErrInvalidDirection indicates an unknown stream direction.
	ErrInvalidDirection = errors.New("invalid stream direction")

	// ErrInvalidChannel indicates a feature unit channel out of range.
	ErrInvalidChannel = errors.New("invalid channel")

	// ErrUnsupportedRate indicates a sample rate the device does not offer.
	ErrUnsupportedRate = errors.New("unsupported sample rate")

	// ErrInvalidAlternate indicates an alternate setting the interface lacks.
	ErrInvalidAlternate = errors.New("invalid alternate setting")

	// ErrOutOfRange indicates a control value outside its advertised range.
	ErrOutOfRange = errors.New("control value out of range")
)
