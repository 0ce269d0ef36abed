package loc

import (
	"fmt"

	"fortio.org/safecast"
)

// stringTable interns filename, name, and metadata text for one Context.
// Callers synchronize through the Context lock; the table itself has no
// locking.
type stringTable struct {
	byID  []string // byID[0] = "" for NoStrID
	index map[string]StrID
}

func newStringTable() *stringTable {
	return &stringTable{
		byID:  []string{""},
		index: map[string]StrID{"": 0},
	}
}

// intern returns the ID for s, inserting it on first sight.
func (t *stringTable) intern(s string) StrID {
	if id, ok := t.index[s]; ok {
		return id
	}
	// Own copy, so interned text never aliases a caller's buffer.
	cpy := string([]byte(s))
	lenByID, err := safecast.Conv[uint32](len(t.byID))
	if err != nil {
		panic(fmt.Errorf("len(strings) overflow: %w", err))
	}
	id := StrID(lenByID)
	t.byID = append(t.byID, cpy)
	t.index[cpy] = id
	return id
}

// lookup returns the string for an ID, or "" and false when invalid.
func (t *stringTable) lookup(id StrID) (string, bool) {
	if int(id) >= len(t.byID) {
		return "", false
	}
	return t.byID[id], true
}
