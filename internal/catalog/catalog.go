// Package catalog holds the palette of checkout field types an administrator
// can place on the form. The set is fixed at build time; saved configurations
// are validated against it so unknown ids never reach the store.
package catalog

// Field describes one available field type. Icon and Kind are presentational
// hints for the builder UI; the allowlist check only cares about ID.
type Field struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Icon        string `json:"icon"`
	Kind        string `json:"type"`
}

var fields = []Field{
	{ID: "name", Label: "Name", Placeholder: "Enter your name", Icon: "dashicons-admin-users", Kind: "text"},
	{ID: "email", Label: "Email", Placeholder: "Enter your email address", Icon: "dashicons-email-alt", Kind: "email"},
	{ID: "phone", Label: "Phone", Placeholder: "Enter your phone number", Icon: "dashicons-phone", Kind: "tel"},
	{ID: "message", Label: "Message", Placeholder: "Enter your message", Icon: "dashicons-format-chat", Kind: "textarea"},
	{ID: "address", Label: "Address", Placeholder: "Enter your full address", Icon: "dashicons-location", Kind: "text"},
	{ID: "district", Label: "District", Placeholder: "Select your district", Icon: "dashicons-building", Kind: "select"},
	{ID: "thana", Label: "Thana", Placeholder: "Select your thana", Icon: "dashicons-flag", Kind: "select"},
	{ID: "tnc", Label: "T&C Checkbox", Placeholder: "", Icon: "dashicons-yes-alt", Kind: "checkbox"},
}

var byID = func() map[string]Field {
	m := make(map[string]Field, len(fields))
	for _, f := range fields {
		m[f.ID] = f
	}
	return m
}()

// All returns every available field in fixed display order.
func All() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Get looks up a field definition by id.
func Get(id string) (Field, bool) {
	f, ok := byID[id]
	return f, ok
}
