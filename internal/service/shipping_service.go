package service

import (
	"errors"

	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/repository"
	"github.com/ministore/ministore/internal/sanitize"
)

var ErrUnknownShippingMethod = errors.New("unknown shipping method")

type ShippingService struct {
	shipping *repository.ShippingRepo
}

func NewShippingService(shipping *repository.ShippingRepo) *ShippingService {
	return &ShippingService{shipping: shipping}
}

// Settings returns the saved shipping settings with defaults filled in.
func (s *ShippingService) Settings() (models.ShippingSettings, error) {
	settings, err := s.shipping.Load()
	if err != nil {
		return settings, err
	}
	if !models.ValidShippingMethod(settings.Method) {
		settings.Method = models.ShippingFree
	}
	if settings.CODLabel == "" {
		settings.CODLabel = models.DefaultShippingSettings().CODLabel
	}
	return settings, nil
}

// Save sanitizes and persists the shipping settings. Unlike the form
// builder's per-entry tolerance, an unknown method rejects the whole save:
// there is no sensible partial result for a single settings document.
func (s *ShippingService) Save(in models.ShippingSettings) (models.ShippingSettings, error) {
	method := sanitize.Key(in.Method)
	if !models.ValidShippingMethod(method) {
		return models.ShippingSettings{}, ErrUnknownShippingMethod
	}

	settings := models.ShippingSettings{
		Method:        method,
		ChargeSingle:  in.ChargeSingle,
		ChargeDhaka:   in.ChargeDhaka,
		ChargeOutside: in.ChargeOutside,
		CODLabel:      sanitize.Text(in.CODLabel),
	}
	if settings.CODLabel == "" {
		settings.CODLabel = models.DefaultShippingSettings().CODLabel
	}

	if err := s.shipping.Save(settings); err != nil {
		return models.ShippingSettings{}, err
	}
	return settings, nil
}
