package domain

import "fmt"

// ReadmePresence records whether the designated repository has a readme.
// The zero value means the probe has not settled yet.
type ReadmePresence int

const (
	ReadmeUnknown ReadmePresence = iota
	ReadmePresent
	ReadmeAbsent
)

func (p ReadmePresence) String() string {
	switch p {
	case ReadmePresent:
		return "present"
	case ReadmeAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p ReadmePresence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ReadmePresence) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unknown", "":
		*p = ReadmeUnknown
	case "present":
		*p = ReadmePresent
	case "absent":
		*p = ReadmeAbsent
	default:
		return fmt.Errorf("invalid readme presence %q", text)
	}
	return nil
}
