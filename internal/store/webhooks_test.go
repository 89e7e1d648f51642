package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marminbh/webhook-relay/internal/models"
)

func TestWebhookStoreCreateAndLookup(t *testing.T) {
	s := NewWebhookStore()

	a := s.Create("job_created", "https://a.example.test/hook", "sa")
	b := s.Create("job_created", "https://b.example.test/hook", "sb")
	c := s.Create("candidate_updated", "https://c.example.test/hook", "sc")

	assert.Equal(t, int64(1), a.ID)
	assert.True(t, a.IsActive)

	require.NotNil(t, s.GetByID(b.ID))
	assert.Nil(t, s.GetByID(42))
	assert.Len(t, s.GetAll(), 3)

	active := s.GetByEventType("job_created")
	require.Len(t, active, 2)
	assert.NotContains(t, []int64{active[0].ID, active[1].ID}, c.ID)
}

func TestWebhookStoreGetByEventTypeSkipsInactive(t *testing.T) {
	s := NewWebhookStore()
	a := s.Create("job_created", "https://a.example.test/hook", "sa")
	b := s.Create("job_created", "https://b.example.test/hook", "sb")

	require.NotNil(t, s.ToggleActive(b.ID))

	active := s.GetByEventType("job_created")
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	total, activeCount := s.Count()
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, activeCount)
}

func TestWebhookStorePartialUpdate(t *testing.T) {
	s := NewWebhookStore()
	w := s.Create("job_created", "https://a.example.test/hook", "sa")

	newURL := "https://moved.example.test/hook"
	updated := s.Update(w.ID, models.WebhookUpdate{TargetURL: &newURL})
	require.NotNil(t, updated)
	assert.Equal(t, newURL, updated.TargetURL)
	assert.Equal(t, "job_created", updated.EventType, "unset fields keep their value")
	assert.Equal(t, "sa", updated.Secret)
	assert.False(t, updated.UpdatedAt.Before(w.UpdatedAt))

	assert.Nil(t, s.Update(42, models.WebhookUpdate{TargetURL: &newURL}))
}

func TestWebhookStoreDelete(t *testing.T) {
	s := NewWebhookStore()
	w := s.Create("job_created", "https://a.example.test/hook", "sa")

	assert.True(t, s.Delete(w.ID))
	assert.False(t, s.Delete(w.ID))
	assert.Nil(t, s.GetByID(w.ID))
	assert.Empty(t, s.GetByEventType("job_created"))
}

func TestWebhookStoreReturnsCopies(t *testing.T) {
	s := NewWebhookStore()
	w := s.Create("job_created", "https://a.example.test/hook", "sa")

	got := s.GetByID(w.ID)
	got.TargetURL = "https://mutated.example.test"

	assert.Equal(t, "https://a.example.test/hook", s.GetByID(w.ID).TargetURL)
}
