package pulse

import "errors"

// Error taxonomy for the detector. None of these are fatal: BUFFER_FULL
// deterministically becomes an end-of-packet return rather than a
// propagated failure, FSK_DESYNC is sticky until the tracker resets on the
// next IDLE transition, and UNKNOWN_STATE is a defensive branch that resets
// to IDLE and recovers on its own.
var (
	// ErrBufferFull indicates a pulse buffer reached PDMaxPulses.
	ErrBufferFull = errors.New("pulse: buffer full")
	// ErrFSKDesync indicates the FSK tracker entered its sticky error
	// state after its buffer overflowed mid-detection.
	ErrFSKDesync = errors.New("pulse: fsk tracker desynced")
	// ErrUnknownState indicates the detector's state tag took a value
	// outside its closed enum; the detector recovers by resetting to Idle.
	ErrUnknownState = errors.New("pulse: unknown detector state")
)
