package search

// Mode selects which sub-form of the widget is visible.
type Mode int

const (
	ModeText Mode = iota
	ModeImage
)

func (m Mode) String() string {
	if m == ModeImage {
		return "image"
	}
	return "text"
}

// Status is the lifecycle state of the held image.
type Status int

const (
	StatusEmpty Status = iota
	StatusDecoding
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDecoding:
		return "decoding"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "empty"
	}
}

func (m Mode) MarshalText() ([]byte, error)   { return []byte(m.String()), nil }
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
