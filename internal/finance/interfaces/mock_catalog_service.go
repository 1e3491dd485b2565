package interfaces

import (
	"github.com/sebuszqo/LedgerManager/internal/finance/application"
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
)

type MockCatalogService struct {
	Methods     []domain.PaymentMethodInfo
	Frequencies []application.FrequencyInfo
	Err         error
}

func (m *MockCatalogService) ListPaymentMethods() ([]domain.PaymentMethodInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Methods, nil
}

func (m *MockCatalogService) ListFrequencies() ([]application.FrequencyInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Frequencies, nil
}
