package service

import (
	"encoding/json"

	"github.com/ministore/ministore/internal/catalog"
	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/repository"
	"github.com/ministore/ministore/internal/sanitize"
)

// CheckoutService owns the checkout form configuration: it mediates between
// the untrusted client-submitted field list and the trusted persisted
// document. It is stateless; correctness under concurrent saves relies on
// the store's atomic whole-document overwrite.
type CheckoutService struct {
	fields *repository.CheckoutRepo
}

func NewCheckoutService(fields *repository.CheckoutRepo) *CheckoutService {
	return &CheckoutService{fields: fields}
}

// Fields returns the persisted configuration. Entries whose id the current
// catalog no longer knows are dropped on read, so a palette shrink between
// releases never surfaces stale fields.
func (s *CheckoutService) Fields() ([]models.CheckoutField, error) {
	saved, err := s.fields.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.CheckoutField, 0, len(saved))
	for _, f := range saved {
		if _, ok := catalog.Get(f.ID); !ok {
			continue
		}
		f.Order = len(out)
		out = append(out, f)
	}
	return out, nil
}

// Save validates, sanitizes, and persists the submitted field list, then
// returns what was stored. Per-entry problems are tolerated: entries that
// are not objects, carry unknown ids, or repeat an id already seen are
// silently dropped and the save proceeds with the rest. Surviving entries
// are stamped with dense order values 0..k-1 in submission order, and the
// result replaces the stored document in a single write.
//
// Duplicate ids keep the first occurrence; later repeats are discarded.
func (s *CheckoutService) Save(raw []json.RawMessage) ([]models.CheckoutField, error) {
	sanitized := make([]models.CheckoutField, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, entry := range raw {
		var rec models.RawCheckoutField
		if err := json.Unmarshal(entry, &rec); err != nil {
			continue
		}

		id := sanitize.Key(rec.ID)
		if _, ok := catalog.Get(id); !ok {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		sanitized = append(sanitized, models.CheckoutField{
			ID:          id,
			Label:       sanitize.Text(rec.Label),
			Placeholder: sanitize.Text(rec.Placeholder),
			Required:    sanitize.Truthy(rec.Required),
			Order:       len(sanitized),
		})
	}

	if err := s.fields.Save(sanitized); err != nil {
		return nil, err
	}
	return sanitized, nil
}
