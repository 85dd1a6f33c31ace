package models

// Shipping method values accepted by the settings save.
const (
	ShippingFree   = "free"
	ShippingSingle = "single"
	ShippingDouble = "double"
)

// ShippingMethods lists the allowed method values in display order.
var ShippingMethods = []string{ShippingFree, ShippingSingle, ShippingDouble}

// ShippingSettings is the store-wide shipping configuration document.
type ShippingSettings struct {
	Method        string  `json:"method"`
	ChargeSingle  float64 `json:"charge_single"`
	ChargeDhaka   float64 `json:"charge_dhaka"`
	ChargeOutside float64 `json:"charge_outside"`
	CODLabel      string  `json:"cod_label"`
}

// DefaultShippingSettings returns the values used before an administrator
// has saved anything.
func DefaultShippingSettings() ShippingSettings {
	return ShippingSettings{
		Method:   ShippingFree,
		CODLabel: "Cash on Delivery",
	}
}

// ValidShippingMethod reports whether m is one of the allowed methods.
func ValidShippingMethod(m string) bool {
	for _, v := range ShippingMethods {
		if v == m {
			return true
		}
	}
	return false
}
