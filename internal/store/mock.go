package store

import "fjacquet/divtax/internal/models"

// MockRateStore is an in-memory RateStore for tests.
type MockRateStore struct {
	Entries map[string][]models.RateRecord

	// Error flags for testing error conditions
	SaveError error

	Loads int
	Saves int
}

// NewMockRateStore returns an empty MockRateStore.
func NewMockRateStore() *MockRateStore {
	return &MockRateStore{Entries: make(map[string][]models.RateRecord)}
}

// Load returns a copy of the stored entry.
func (m *MockRateStore) Load(currency, start, end string) ([]models.RateRecord, bool) {
	m.Loads++
	records, ok := m.Entries[Key(currency, start, end)]
	if !ok {
		return nil, false
	}
	return append([]models.RateRecord{}, records...), true
}

// Save stores a copy of records unless SaveError is set.
func (m *MockRateStore) Save(currency, start, end string, records []models.RateRecord) error {
	m.Saves++
	if m.SaveError != nil {
		return m.SaveError
	}
	if m.Entries == nil {
		m.Entries = make(map[string][]models.RateRecord)
	}
	m.Entries[Key(currency, start, end)] = append([]models.RateRecord{}, records...)
	return nil
}
