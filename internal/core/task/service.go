package task

import (
	"time"

	"github.com/appshelf/appshelf/internal/core/collection"
)

type Service struct {
	store *collection.Store[Task]
	now   func() time.Time
}

func NewService(store *collection.Store[Task]) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Store() *collection.Store[Task] {
	return s.store
}

// Stats counts tasks by status. An empty userID counts every task.
func (s *Service) Stats(userID string) Stats {
	now := s.now()
	tasks := s.store.Filter(func(t *Task) bool {
		return userID == "" || t.UserID == userID
	})

	var st Stats
	for i := range tasks {
		t := &tasks[i]
		st.Total++
		switch t.Status {
		case StatusPending:
			st.Pending++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		}
		if t.Overdue(now) {
			st.Overdue++
		}
	}
	return st
}
