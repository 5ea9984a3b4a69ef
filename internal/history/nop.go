package history

import (
	"time"

	"github.com/amishk599/jobmatch/internal/model"
)

// NopStore is used when history is disabled. Nothing is kept.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(model.Session) (int64, error) { return 0, nil }
func (s *NopStore) AttachAdvice(int64, string) error { return nil }
func (s *NopStore) Recent(int) ([]model.Session, error) { return nil, nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }
