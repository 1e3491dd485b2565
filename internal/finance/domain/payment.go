package domain

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodBoleto       PaymentMethod = "boleto"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodCheck        PaymentMethod = "check"
)

type PaymentMethodInfo struct {
	Code PaymentMethod `json:"code"`
	Name string        `json:"name"`
}

var paymentMethods = []PaymentMethodInfo{
	{PaymentMethodCash, "Cash"},
	{PaymentMethodBankTransfer, "Bank transfer"},
	{PaymentMethodPix, "Pix"},
	{PaymentMethodBoleto, "Boleto"},
	{PaymentMethodCreditCard, "Credit card"},
	{PaymentMethodDebitCard, "Debit card"},
	{PaymentMethodCheck, "Check"},
}

// PaymentMethods returns a copy of the supported payment method catalogue.
func PaymentMethods() []PaymentMethodInfo {
	out := make([]PaymentMethodInfo, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

// IsValid treats the empty method as "not specified", which is allowed.
func (m PaymentMethod) IsValid() bool {
	if m == "" {
		return true
	}
	for _, pm := range paymentMethods {
		if pm.Code == m {
			return true
		}
	}
	return false
}
