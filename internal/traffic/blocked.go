package traffic

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// BlockInfo is editor metadata attached to a blocked cell.
type BlockInfo struct {
	Label string `json:"label,omitempty"`
	// Tick is the world tick at which the block was placed.
	Tick uint64 `json:"tick"`
}

// BlockedKey formats ref as "streetId:lane:index".
func BlockedKey(ref CellRef) string {
	return fmt.Sprintf("%s:%d:%d", ref.Street, ref.Lane, ref.Index)
}

// ParseBlockedKey is the inverse of BlockedKey. The street id may itself
// contain colons; lane and index are the last two fields.
func ParseBlockedKey(key string) (CellRef, error) {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return CellRef{}, errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	j := strings.LastIndexByte(key[:i], ':')
	if j <= 0 {
		return CellRef{}, errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	lane, err := strconv.Atoi(key[j+1 : i])
	if err != nil {
		return CellRef{}, errors.Wrapf(ErrInvalidKey, "%q: lane", key)
	}
	index, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return CellRef{}, errors.Wrapf(ErrInvalidKey, "%q: index", key)
	}
	return CellRef{Street: key[:j], Lane: lane, Index: index}, nil
}

func (w *World) resolve(ref CellRef) (*Street, error) {
	s, ok := w.streetByID[ref.Street]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStreet, "%q", ref.Street)
	}
	if !s.Contains(ref.Lane, ref.Index) {
		return nil, errors.Wrapf(ErrOutOfRange, "%s lane %d index %d", ref.Street, ref.Lane, ref.Index)
	}
	return s, nil
}

// SetBlocked places an obstruction on ref. Any vehicle on the cell is
// removed. Blocks may be placed between ticks at any time.
func (w *World) SetBlocked(ref CellRef, info BlockInfo) error {
	s, err := w.resolve(ref)
	if err != nil {
		return errors.Wrap(err, "set blocked")
	}
	if info.Tick == 0 {
		info.Tick = w.tick
	}
	s.set(ref.Lane, ref.Index, Blocked)
	w.blocked[BlockedKey(ref)] = info
	w.refreshDisplay()
	return nil
}

// ClearBlocked removes the obstruction on ref, leaving the cell empty.
func (w *World) ClearBlocked(ref CellRef) error {
	s, err := w.resolve(ref)
	if err != nil {
		return errors.Wrap(err, "clear blocked")
	}
	key := BlockedKey(ref)
	if _, ok := w.blocked[key]; !ok && s.Cell(ref.Lane, ref.Index) != Blocked {
		return errors.Wrapf(ErrNotBlocked, "%s", key)
	}
	s.set(ref.Lane, ref.Index, Empty)
	delete(w.blocked, key)
	w.refreshDisplay()
	return nil
}

// ToggleBlocked blocks ref when it is free of obstructions and clears it
// otherwise. It reports whether the cell is blocked afterwards.
func (w *World) ToggleBlocked(ref CellRef, info BlockInfo) (bool, error) {
	if w.IsBlocked(ref) {
		return false, w.ClearBlocked(ref)
	}
	return true, w.SetBlocked(ref, info)
}

// IsBlocked reports whether ref holds an obstruction.
func (w *World) IsBlocked(ref CellRef) bool {
	s, err := w.resolve(ref)
	if err != nil {
		return false
	}
	return s.Cell(ref.Lane, ref.Index) == Blocked
}

// BlockedCells returns a copy of the blocked-cell registry.
func (w *World) BlockedCells() map[string]BlockInfo {
	out := make(map[string]BlockInfo, len(w.blocked))
	for k, v := range w.blocked {
		out[k] = v
	}
	return out
}

// blockedKeys lists the registry keys in sorted order.
func (w *World) blockedKeys() []string {
	keys := lo.Keys(w.blocked)
	sort.Strings(keys)
	return keys
}
