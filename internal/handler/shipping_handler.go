package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ministore/ministore/internal/auth"
	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/sanitize"
	"github.com/ministore/ministore/internal/service"
)

const (
	SaveShippingAction = "ms_save_shipping"
	ShippingNonceScope = "ms_shipping_save"
	ShippingNonceField = "ms_shipping_nonce"
)

type ShippingHandler struct {
	svc       *service.ShippingService
	jwtSecret string
}

func NewShippingHandler(svc *service.ShippingService, jwtSecret string) *ShippingHandler {
	return &ShippingHandler{svc: svc, jwtSecret: jwtSecret}
}

// Settings returns the saved shipping settings plus a fresh save nonce.
func (h *ShippingHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings()
	if err != nil {
		log.Printf("Warning: shipping settings load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load shipping settings")
		return
	}
	nonce, err := auth.IssueNonce(h.jwtSecret, ShippingNonceScope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue nonce")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Action     string                  `json:"action"`
		NonceField string                  `json:"nonceField"`
		Nonce      string                  `json:"nonce"`
		Methods    []string                `json:"methods"`
		Settings   models.ShippingSettings `json:"settings"`
	}{
		Action:     SaveShippingAction,
		NonceField: ShippingNonceField,
		Nonce:      nonce,
		Methods:    models.ShippingMethods,
		Settings:   settings,
	})
}

type saveShippingRequest struct {
	Action string `json:"action" validate:"required"`
	Nonce  string `json:"ms_shipping_nonce"`
	Method string `json:"method" validate:"required"`
	// Charges arrive as numbers or numeric strings depending on the
	// client, so they are coerced after decoding.
	ChargeSingle  json.RawMessage `json:"charge_single"`
	ChargeDhaka   json.RawMessage `json:"charge_dhaka"`
	ChargeOutside json.RawMessage `json:"charge_outside"`
	CODLabel      string          `json:"cod_label"`
}

// Save persists the shipping settings behind the same nonce and capability
// gates as the form builder.
func (h *ShippingHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveShippingRequest
	if err := readJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !auth.VerifyNonce(h.jwtSecret, req.Nonce, ShippingNonceScope) {
		writeFail(w, http.StatusForbidden, "Security check failed. Please refresh and try again.")
		return
	}
	if !auth.HasCapability(r.Context(), models.CapabilityManageStore) {
		writeFail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}
	if req.Action != SaveShippingAction {
		writeFail(w, http.StatusBadRequest, "Unknown action.")
		return
	}

	settings, err := h.svc.Save(models.ShippingSettings{
		Method:        req.Method,
		ChargeSingle:  sanitize.Float(req.ChargeSingle),
		ChargeDhaka:   sanitize.Float(req.ChargeDhaka),
		ChargeOutside: sanitize.Float(req.ChargeOutside),
		CODLabel:      req.CODLabel,
	})
	if err != nil {
		if errors.Is(err, service.ErrUnknownShippingMethod) {
			writeFail(w, http.StatusBadRequest, "Invalid shipping method.")
			return
		}
		log.Printf("Warning: shipping settings save failed: %v", err)
		writeFail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	writeSuccess(w, struct {
		Message  string                  `json:"message"`
		Settings models.ShippingSettings `json:"settings"`
	}{
		Message:  "Shipping settings saved successfully.",
		Settings: settings,
	})
}
