package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStoreIdempotentCreate(t *testing.T) {
	s := NewEventStore()

	first := s.Create("evt-1", "job_created", json.RawMessage(`{"job_id":"j1"}`))
	require.NotNil(t, first)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "evt-1", first.ExternalID)

	dup := s.Create("evt-1", "job_created", json.RawMessage(`{"job_id":"j1"}`))
	assert.Nil(t, dup, "duplicate external id must be a no-op")
	assert.Equal(t, 1, s.Count())
}

func TestEventStoreIdempotencyUnderConcurrentIntake(t *testing.T) {
	s := NewEventStore()

	var wg sync.WaitGroup
	created := make(chan int64, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if e := s.Create("evt-race", "job_created", json.RawMessage(`{}`)); e != nil {
				created <- e.ID
			}
		}()
	}
	wg.Wait()
	close(created)

	var ids []int64
	for id := range created {
		ids = append(ids, id)
	}
	require.Len(t, ids, 1, "exactly one intake must win")
	assert.Equal(t, 1, s.Count())
}

func TestEventStoreProjections(t *testing.T) {
	s := NewEventStore()
	for i := 0; i < 5; i++ {
		eventType := "job_created"
		if i%2 == 1 {
			eventType = "candidate_updated"
		}
		require.NotNil(t, s.Create(fmt.Sprintf("evt-%d", i), eventType, json.RawMessage(`{}`)))
	}

	assert.Nil(t, s.GetByID(99))
	require.NotNil(t, s.GetByID(3))
	assert.Equal(t, "evt-2", s.GetByID(3).ExternalID)

	byType := s.GetByType("job_created", 50)
	require.Len(t, byType, 3)
	assert.Equal(t, []int64{1, 3, 5}, []int64{byType[0].ID, byType[1].ID, byType[2].ID})

	assert.Len(t, s.GetByType("job_created", 2), 2)

	page := s.GetAll(2, 1)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), page[0].ID)
	assert.Equal(t, int64(3), page[1].ID)

	assert.Empty(t, s.GetAll(10, 10))
}
