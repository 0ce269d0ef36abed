package loc

import "fmt"

// Kind enumerates all supported kinds of location values.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnknown
	KindFileRange
	KindName
	KindCallSite
	KindFused
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnknown:
		return "unknown"
	case KindFileRange:
		return "file"
	case KindName:
		return "name"
	case KindCallSite:
		return "callsite"
	case KindFused:
		return "fused"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}
