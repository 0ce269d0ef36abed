package loc

// ID identifies an interned location within its owning Context.
type ID uint32

// NoID marks the absence of a location.
const NoID ID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id ID) IsValid() bool { return id != NoID }

// StrID identifies an interned string (filename, name, metadata) within
// its owning Context.
type StrID uint32

// NoStrID marks the absence of an interned string.
const NoStrID StrID = 0

// Unset is the sentinel for a line or column that is not known.
// Column zero stays a legal value; "line known, column unknown" is
// encoded as Unset, never as zero.
const Unset = ^uint32(0)
