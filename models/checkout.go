package models

// ShippingInfo holds the shipping form fields. All fields are required
// before the flow may advance past the shipping step.
type ShippingInfo struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// MissingField returns the name of the first empty required field, or
// "" when the form is complete.
func (s ShippingInfo) MissingField() string {
	fields := []struct {
		name  string
		value string
	}{
		{"email", s.Email},
		{"fullName", s.FullName},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"zip", s.Zip},
	}
	for _, f := range fields {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}

// PaymentCredential is the opaque result of the payment form. It is
// held only for the duration of a submission attempt and never stored.
type PaymentCredential struct {
	PaymentToken   string `json:"paymentToken"`
	CardholderName string `json:"cardholderName"`
}
