// Package scenario reads and writes complete traffic networks as JSON
// documents: streets, connections, blocked cells and parkings.
package scenario

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"mad-traffic/internal/traffic"
)

// Document is the on-disk form of a traffic network. The embedded snapshot
// contributes the "blocked" and "parkings" fields.
type Document struct {
	Name        string               `json:"name,omitempty"`
	Streets     []traffic.StreetSpec `json:"streets"`
	Connections []ConnectionDoc      `json:"connections"`
	traffic.Snapshot
}

// ConnectionDoc links two streets. Without a lane every lane of From is
// connected to the same lane of To. ToLane defaults to Lane and must equal it
// when given; the indices
// default to the terminal cell of From and the head cell of To.
type ConnectionDoc struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Lane      *int   `json:"lane,omitempty"`
	ToLane    *int   `json:"to_lane,omitempty"`
	FromIndex *int   `json:"from_index,omitempty"`
	ToIndex   *int   `json:"to_index,omitempty"`
}

func (c ConnectionDoc) spec() traffic.ConnectionSpec {
	lane := 0
	if c.Lane != nil {
		lane = *c.Lane
	}
	toLane := lane
	if c.ToLane != nil {
		toLane = *c.ToLane
	}
	spec := traffic.LaneLink(c.From, lane, c.To, toLane)
	if c.FromIndex != nil {
		spec.FromIndex = *c.FromIndex
	}
	if c.ToIndex != nil {
		spec.ToIndex = *c.ToIndex
	}
	return spec
}

// Load decodes a document. Unknown fields are rejected.
func Load(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, errors.Wrap(err, "decode scenario")
	}
	return doc, nil
}

// LoadFile decodes the document stored at path.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "open scenario")
	}
	defer f.Close()
	doc, err := Load(f)
	if err != nil {
		return Document{}, errors.Wrapf(err, "%s", path)
	}
	return doc, nil
}

// Build returns a fresh world holding the document's network.
func Build(doc Document, cfg traffic.Config, opts ...traffic.Option) (*traffic.World, error) {
	w := traffic.NewWorld(cfg, opts...)
	for _, spec := range doc.Streets {
		if _, err := w.AddStreet(spec); err != nil {
			return nil, errors.Wrap(err, "scenario streets")
		}
	}
	for i, c := range doc.Connections {
		var err error
		if c.Lane == nil && c.ToLane == nil && c.FromIndex == nil && c.ToIndex == nil {
			err = w.Connect(c.From, c.To)
		} else {
			_, err = w.AddConnection(c.spec())
		}
		if err != nil {
			return nil, errors.Wrapf(err, "scenario connection %d", i)
		}
	}
	if err := w.ApplySnapshot(doc.Snapshot); err != nil {
		return nil, errors.Wrap(err, "scenario snapshot")
	}
	return w, nil
}

// Save captures the network of w. Every connection is written per lane with
// explicit indices.
func Save(w *traffic.World, name string) Document {
	doc := Document{Name: name, Snapshot: w.Snapshot()}
	for _, s := range w.Streets() {
		doc.Streets = append(doc.Streets, s.Spec())
	}
	for _, c := range w.Connections() {
		spec := c.Spec()
		doc.Connections = append(doc.Connections, ConnectionDoc{
			From:      spec.From,
			To:        spec.To,
			Lane:      intPtr(spec.FromLane),
			ToLane:    intPtr(spec.ToLane),
			FromIndex: intPtr(spec.FromIndex),
			ToIndex:   intPtr(spec.ToIndex),
		})
	}
	return doc
}

// Write encodes doc as indented JSON.
func Write(out io.Writer, doc Document) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "encode scenario")
}

// WriteFile encodes doc into the file at path, replacing it.
func WriteFile(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create scenario")
	}
	if err := Write(f, doc); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close scenario")
}

func intPtr(v int) *int { return &v }
