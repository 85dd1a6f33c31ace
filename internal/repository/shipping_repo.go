package repository

import (
	"encoding/json"
	"fmt"

	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/store"
)

// ShippingSettingsKey is the options key holding the shipping settings.
const ShippingSettingsKey = "ms_shipping_settings"

type ShippingRepo struct {
	store *store.Store
}

func NewShippingRepo(s *store.Store) *ShippingRepo {
	return &ShippingRepo{store: s}
}

// Load returns the saved settings, or defaults when nothing has been saved.
func (r *ShippingRepo) Load() (models.ShippingSettings, error) {
	settings := models.DefaultShippingSettings()
	raw, err := r.store.GetOption(ShippingSettingsKey)
	if err != nil {
		return settings, err
	}
	if raw == nil {
		return settings, nil
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return models.DefaultShippingSettings(), fmt.Errorf("shipping repo: decode settings: %w", err)
	}
	return settings, nil
}

// Save replaces the stored settings document.
func (r *ShippingRepo) Save(settings models.ShippingSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("shipping repo: encode settings: %w", err)
	}
	return r.store.SetOption(ShippingSettingsKey, raw)
}
