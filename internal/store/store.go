package store

import (
	"fmt"
	"sync"
	"time"

	"BuySignal/internal/model"
	"BuySignal/internal/sentiment"
)

// SelectionStore remembers the last submitted questionnaire so scheduled
// evaluations and the form can reuse it.
type SelectionStore struct {
	mu       sync.Mutex
	filePath string
	current  *model.Selection
	updated  time.Time
}

// NewSelectionStore loads a previously saved selection, if any.
func NewSelectionStore(filePath string) (*SelectionStore, error) {
	st, err := loadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	s := &SelectionStore{filePath: filePath}
	if st != nil {
		sel, err := sentiment.ParseSelection(st.Selection)
		if err != nil {
			return nil, fmt.Errorf("stored selection: %w", err)
		}
		s.current = &sel
		s.updated = st.UpdatedAt
	}
	return s, nil
}

// Get returns the stored selection and whether one exists.
func (s *SelectionStore) Get() (model.Selection, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.Selection{}, time.Time{}, false
	}
	return *s.current, s.updated, true
}

// Save replaces the stored selection. Incomplete selections are rejected.
func (s *SelectionStore) Save(sel model.Selection) error {
	for _, ind := range model.Indicators() {
		if !sel.Get(ind).Valid() {
			return fmt.Errorf("%w: %s", sentiment.ErrMissingIndicator, ind)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if err := saveState(s.filePath, &state{Selection: sel.Map(), UpdatedAt: now}); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	s.current = &sel
	s.updated = now
	return nil
}
