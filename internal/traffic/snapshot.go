package traffic

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Snapshot is the exchangeable editor state of a world: the blocked-cell
// registry and the parking configuration.
type Snapshot struct {
	Blocked  map[string]BlockInfo `json:"blocked"`
	Parkings []ParkingConfig      `json:"parkings"`
}

// Snapshot captures the blocked cells and parkings of the world.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Blocked:  w.BlockedCells(),
		Parkings: make([]ParkingConfig, 0, len(w.parkings)),
	}
	for _, p := range w.parkings {
		snap.Parkings = append(snap.Parkings, p.Config())
	}
	return snap
}

// ApplySnapshot replaces the blocked cells and parkings with those of snap.
// The snapshot is validated in full first; on error the world is unchanged.
// Streets, connections and vehicles on unaffected cells are left untouched.
func (w *World) ApplySnapshot(snap Snapshot) error {
	type blockedCell struct {
		ref  CellRef
		info BlockInfo
	}
	refs := make(map[string]blockedCell, len(snap.Blocked))
	for key, info := range snap.Blocked {
		ref, err := ParseBlockedKey(key)
		if err != nil {
			return err
		}
		if _, err := w.resolve(ref); err != nil {
			return errors.Wrapf(err, "blocked cell %s", key)
		}
		refs[BlockedKey(ref)] = blockedCell{ref: ref, info: info}
	}
	parkings := make([]*Parking, 0, len(snap.Parkings))
	byID := make(map[string]*Parking, len(snap.Parkings))
	for i, cfg := range snap.Parkings {
		if cfg.ID == "" {
			return errors.Wrapf(ErrInvalidParking, "parking %d: missing id", i)
		}
		if _, dup := byID[cfg.ID]; dup {
			return errors.Wrapf(ErrDuplicateID, "parking %q", cfg.ID)
		}
		p, err := buildParking(cfg, w.Street)
		if err != nil {
			return err
		}
		parkings = append(parkings, p)
		byID[cfg.ID] = p
	}

	for _, key := range w.blockedKeys() {
		if _, keep := refs[key]; keep {
			continue
		}
		ref, _ := ParseBlockedKey(key)
		if s := w.streetByID[ref.Street]; s != nil && s.Contains(ref.Lane, ref.Index) {
			s.set(ref.Lane, ref.Index, Empty)
		}
		delete(w.blocked, key)
	}
	for key, bc := range refs {
		w.streetByID[bc.ref.Street].set(bc.ref.Lane, bc.ref.Index, Blocked)
		w.blocked[key] = bc.info
	}
	w.parkings = parkings
	w.parkingByID = byID
	w.refreshDisplay()
	w.log.WithFields(logrus.Fields{"blocked": len(refs), "parkings": len(parkings)}).Info("snapshot applied")
	return nil
}
