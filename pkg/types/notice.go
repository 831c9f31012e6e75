package types

import "fmt"

// EventID identifies a notice. The values are listed in internal/notice.
type EventID uint16

// Severity is the notice severity.
type Severity uint8

// Severities.
const (
	SeverityDebug Severity = iota + 1
	SeverityInfo
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
}
