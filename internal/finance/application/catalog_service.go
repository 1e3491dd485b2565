package application

import (
	"github.com/sebuszqo/LedgerManager/internal/finance/domain"
	"github.com/sebuszqo/LedgerManager/internal/recurrence"
	"strings"
)

// FrequencyInfo describes a recurrence frequency for clients building template forms.
type FrequencyInfo struct {
	Code    recurrence.Frequency `json:"code"`
	Name    string               `json:"name"`
	Example string               `json:"example"`
	Sample  []string             `json:"sample"`
}

// CatalogService serves the fixed reference lists the API exposes.
type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

func (s *CatalogService) ListPaymentMethods() ([]domain.PaymentMethodInfo, error) {
	return domain.PaymentMethods(), nil
}

func (s *CatalogService) ListFrequencies() ([]FrequencyInfo, error) {
	start := recurrence.Date(2024, 1, 31)
	occurrences := 3

	frequencies := recurrence.Frequencies()
	infos := make([]FrequencyInfo, 0, len(frequencies))
	for _, f := range frequencies {
		schedule := recurrence.Schedule{Frequency: f, Interval: 1, StartDate: start, Occurrences: &occurrences}
		info := FrequencyInfo{
			Code:    f,
			Name:    strings.ToUpper(string(f[:1])) + string(f[1:]),
			Example: recurrence.Describe(schedule),
		}
		for _, d := range recurrence.Dates(schedule, recurrence.Window{}) {
			info.Sample = append(info.Sample, d.Format(recurrence.DateLayout))
		}
		infos = append(infos, info)
	}
	return infos, nil
}
