package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrSaveInFlight is returned when Save is called while a previous save has
// not finished. The builder disables its save control for the duration, so
// hitting this means the caller skipped that guard.
var ErrSaveInFlight = errors.New("canvas: a save is already in flight")

// Saver submits the collected field list. *Client satisfies it; tests
// substitute fakes.
type Saver interface {
	SaveFields(ctx context.Context, fields []FieldSubmission) error
}

type activeField struct {
	id          string
	label       string
	placeholder string
	required    bool
}

// Canvas is the in-memory model behind the drag-and-drop builder. Each
// palette field is either available or active (on the canvas, at one
// position, with editable label/placeholder/required). Mutations are
// synchronous and cheap; nothing is persisted until Save.
type Canvas struct {
	palette []Field
	byID    map[string]Field
	active  []*activeField
	saver   Saver

	mu     sync.Mutex
	saving bool
}

// NewCanvas builds a canvas from the bootstrap payload, restoring the saved
// configuration the way the builder page does on load. Saved entries whose
// id is missing from the palette are skipped.
func NewCanvas(boot *Bootstrap, saver Saver) *Canvas {
	c := &Canvas{
		palette: boot.Fields,
		byID:    make(map[string]Field, len(boot.Fields)),
		saver:   saver,
	}
	for _, f := range boot.Fields {
		c.byID[f.ID] = f
	}
	for _, s := range boot.Saved {
		if _, ok := c.byID[s.ID]; !ok {
			continue
		}
		c.active = append(c.active, &activeField{
			id:          s.ID,
			label:       s.Label,
			placeholder: s.Placeholder,
			required:    s.Required,
		})
	}
	return c
}

func (c *Canvas) find(id string) int {
	for i, f := range c.active {
		if f.id == id {
			return i
		}
	}
	return -1
}

// Add places a palette field at the end of the canvas with its default
// label and placeholder. Adding an unknown or already-active field is a
// no-op; the return value reports whether anything changed.
func (c *Canvas) Add(id string) bool {
	def, ok := c.byID[id]
	if !ok || c.find(id) >= 0 {
		return false
	}
	c.active = append(c.active, &activeField{
		id:          def.ID,
		label:       def.Label,
		placeholder: def.Placeholder,
	})
	return true
}

// Remove takes a field off the canvas, freeing its palette entry for
// re-adding.
func (c *Canvas) Remove(id string) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.active = append(c.active[:i], c.active[i+1:]...)
	return true
}

// Move drags the field to position pos, shifting its neighbours. Positions
// out of range are clamped to the ends.
func (c *Canvas) Move(id string, pos int) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	f := c.active[i]
	rest := make([]*activeField, 0, len(c.active)-1)
	rest = append(rest, c.active[:i]...)
	rest = append(rest, c.active[i+1:]...)

	if pos < 0 {
		pos = 0
	}
	if pos > len(rest) {
		pos = len(rest)
	}
	out := make([]*activeField, 0, len(rest)+1)
	out = append(out, rest[:pos]...)
	out = append(out, f)
	out = append(out, rest[pos:]...)
	c.active = out
	return true
}

func (c *Canvas) SetLabel(id, label string) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.active[i].label = label
	return true
}

func (c *Canvas) SetPlaceholder(id, placeholder string) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.active[i].placeholder = placeholder
	return true
}

func (c *Canvas) SetRequired(id string, required bool) bool {
	i := c.find(id)
	if i < 0 {
		return false
	}
	c.active[i].required = required
	return true
}

// DisplayName is the card-header mirror of a field's label: the trimmed
// label, or an em dash while the label input is empty. Derived only; the
// canonical label is whatever SetLabel stored.
func (c *Canvas) DisplayName(id string) string {
	i := c.find(id)
	if i < 0 {
		return ""
	}
	if name := strings.TrimSpace(c.active[i].label); name != "" {
		return name
	}
	return "—"
}

// Active returns the canvas content in order, with positions stamped.
func (c *Canvas) Active() []SavedField {
	out := make([]SavedField, len(c.active))
	for i, f := range c.active {
		out[i] = SavedField{
			ID:          f.id,
			Label:       f.label,
			Placeholder: f.placeholder,
			Required:    f.required,
			Order:       i,
		}
	}
	return out
}

// Available returns the palette entries not currently on the canvas, in
// palette order.
func (c *Canvas) Available() []Field {
	out := make([]Field, 0, len(c.palette))
	for _, f := range c.palette {
		if c.find(f.ID) < 0 {
			out = append(out, f)
		}
	}
	return out
}

// Save collects the canvas in sequence order and submits it. At most one
// save may be outstanding; a second concurrent call fails fast with
// ErrSaveInFlight. On failure the canvas is left untouched, so the user can
// simply retry.
func (c *Canvas) Save(ctx context.Context) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	c.saving = true
	fields := c.collect()
	c.mu.Unlock()

	err := c.saver.SaveFields(ctx, fields)

	c.mu.Lock()
	c.saving = false
	c.mu.Unlock()
	return err
}

func (c *Canvas) collect() []FieldSubmission {
	out := make([]FieldSubmission, len(c.active))
	for i, f := range c.active {
		required := "0"
		if f.required {
			required = "1"
		}
		out[i] = FieldSubmission{
			ID:          f.id,
			Label:       f.label,
			Placeholder: f.placeholder,
			Required:    required,
			Order:       i,
		}
	}
	return out
}
