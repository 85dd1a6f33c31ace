package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ministore/ministore/internal/auth"
	"github.com/ministore/ministore/internal/catalog"
	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/service"
)

const (
	// SaveFieldsAction is the action identifier the builder UI posts.
	SaveFieldsAction = "ms_save_checkout_fields"

	// BuilderNonceScope is the action scope nonces are issued for.
	BuilderNonceScope = "ms_form_builder_save"

	// BuilderNonceField is the body key carrying the nonce value.
	BuilderNonceField = "ms_form_builder_nonce"
)

// BuilderHandler exposes the checkout form builder endpoints: a bootstrap
// read that seeds the canvas and the guarded save.
type BuilderHandler struct {
	svc       *service.CheckoutService
	jwtSecret string
}

func NewBuilderHandler(svc *service.CheckoutService, jwtSecret string) *BuilderHandler {
	return &BuilderHandler{svc: svc, jwtSecret: jwtSecret}
}

// Bootstrap returns everything the builder page needs on load: the field
// palette, the saved configuration, and a fresh save nonce.
func (h *BuilderHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.Fields()
	if err != nil {
		log.Printf("Warning: builder bootstrap load failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load builder data")
		return
	}
	nonce, err := auth.IssueNonce(h.jwtSecret, BuilderNonceScope)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue nonce")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Action     string                 `json:"action"`
		NonceField string                 `json:"nonceField"`
		Nonce      string                 `json:"nonce"`
		Fields     []catalog.Field        `json:"fields"`
		Saved      []models.CheckoutField `json:"saved"`
	}{
		Action:     SaveFieldsAction,
		NonceField: BuilderNonceField,
		Nonce:      nonce,
		Fields:     catalog.All(),
		Saved:      saved,
	})
}

type saveFieldsRequest struct {
	Action string            `json:"action" validate:"required"`
	Nonce  string            `json:"ms_form_builder_nonce"`
	Fields []json.RawMessage `json:"fields"`
}

// SaveFields validates and persists the submitted field list. The security
// gates run strictly before any field data is touched: a bad nonce or a
// missing capability rejects with 403 and leaves the store unchanged.
func (h *BuilderHandler) SaveFields(w http.ResponseWriter, r *http.Request) {
	var req saveFieldsRequest
	if err := readJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !auth.VerifyNonce(h.jwtSecret, req.Nonce, BuilderNonceScope) {
		writeFail(w, http.StatusForbidden, "Security check failed. Please refresh and try again.")
		return
	}
	if !auth.HasCapability(r.Context(), models.CapabilityManageStore) {
		writeFail(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}
	if req.Action != SaveFieldsAction {
		writeFail(w, http.StatusBadRequest, "Unknown action.")
		return
	}

	saved, err := h.svc.Save(req.Fields)
	if err != nil {
		log.Printf("Warning: checkout fields save failed: %v", err)
		writeFail(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}

	writeSuccess(w, struct {
		Message string                 `json:"message"`
		Fields  []models.CheckoutField `json:"fields"`
	}{
		Message: "Checkout form saved successfully.",
		Fields:  saved,
	})
}
