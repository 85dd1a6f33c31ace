package repository

import (
	"encoding/json"
	"fmt"

	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/store"
)

// CheckoutFieldsKey is the options key holding the checkout form
// configuration.
const CheckoutFieldsKey = "ms_checkout_fields"

// CheckoutRepo persists the checkout form configuration as a single
// ordered JSON document.
type CheckoutRepo struct {
	store *store.Store
}

func NewCheckoutRepo(s *store.Store) *CheckoutRepo {
	return &CheckoutRepo{store: s}
}

// Load returns the saved configuration, or an empty slice when nothing has
// been saved yet.
func (r *CheckoutRepo) Load() ([]models.CheckoutField, error) {
	raw, err := r.store.GetOption(CheckoutFieldsKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []models.CheckoutField{}, nil
	}
	var fields []models.CheckoutField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("checkout repo: decode saved fields: %w", err)
	}
	return fields, nil
}

// Save replaces the stored configuration with fields. The write is a
// whole-document overwrite; saving an empty slice clears the form.
func (r *CheckoutRepo) Save(fields []models.CheckoutField) error {
	if fields == nil {
		fields = []models.CheckoutField{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("checkout repo: encode fields: %w", err)
	}
	return r.store.SetOption(CheckoutFieldsKey, raw)
}
