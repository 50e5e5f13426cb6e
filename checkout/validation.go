package checkout

import (
	"time"

	"github.com/thmoreiracosta/uacl/internal/validate"
)

// PersonalDetails are the contact and address fields collected at step 2.
// All fields are required.
type PersonalDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// CardDetails are the credit-card fields collected at step 3.
type CardDetails struct {
	Number string `json:"cardNumber"`
	Name   string `json:"cardName"`
	Expiry string `json:"expiryDate"`
	CVV    string `json:"cvv"`
}

// FieldErrors maps field names to user-facing messages. Empty means valid.
type FieldErrors map[string]string

// ValidatePersonal returns per-field errors for the personal data step.
func ValidatePersonal(p PersonalDetails) FieldErrors {
	errs := FieldErrors{}

	requireField(errs, "firstName", p.FirstName, "Nome é obrigatório")
	requireField(errs, "lastName", p.LastName, "Sobrenome é obrigatório")
	requireField(errs, "phone", p.Phone, "Telefone é obrigatório")
	requireField(errs, "address", p.Address, "Endereço é obrigatório")
	requireField(errs, "city", p.City, "Cidade é obrigatória")
	requireField(errs, "state", p.State, "Estado é obrigatório")

	if !validate.Required(p.Email) {
		errs["email"] = "Email é obrigatório"
	} else if !validate.Email(p.Email) {
		errs["email"] = "Email inválido"
	}

	if !validate.Required(p.ZipCode) {
		errs["zipCode"] = "CEP é obrigatório"
	} else if !validate.CEP(p.ZipCode) {
		errs["zipCode"] = "CEP inválido"
	}

	return errs
}

// ValidateCard returns per-field errors for credit-card payment data.
func ValidateCard(c CardDetails, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if !validate.Required(c.Number) {
		errs["cardNumber"] = "Número do cartão é obrigatório"
	} else if !validate.CardNumber(c.Number) {
		errs["cardNumber"] = "Número do cartão deve ter 16 dígitos"
	}

	requireField(errs, "cardName", c.Name, "Nome no cartão é obrigatório")

	if !validate.Required(c.Expiry) {
		errs["expiryDate"] = "Data de validade é obrigatória"
	} else if !validate.CardExpiry(c.Expiry, now) {
		errs["expiryDate"] = "Data de validade inválida"
	}

	if !validate.Required(c.CVV) {
		errs["cvv"] = "CVV é obrigatório"
	} else if !validate.CVV(c.CVV) {
		errs["cvv"] = "CVV inválido"
	}

	return errs
}

func requireField(errs FieldErrors, field, value, message string) {
	if !validate.Required(value) {
		errs[field] = message
	}
}
