package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient"
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBackend mimics the server: unique per (user, shoe), scoped deletes
type memBackend struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]row
	shoes  map[uint]domain.Shoe
}

type row struct {
	token  string
	shoeID uint
}

func newMemBackend(shoes ...domain.Shoe) *memBackend {
	b := &memBackend{rows: map[uint]row{}, shoes: map[uint]domain.Shoe{}}
	for _, s := range shoes {
		b.shoes[s.ID] = s
	}
	return b
}

func (b *memBackend) SetReminder(_ context.Context, token string, shoeID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.rows {
		if r.token == token && r.shoeID == shoeID {
			return nil
		}
	}
	b.nextID++
	b.rows[b.nextID] = row{token: token, shoeID: shoeID}
	return nil
}

func (b *memBackend) Reminders(_ context.Context, token string) ([]domain.ReminderView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.ReminderView
	for id, r := range b.rows {
		if r.token == token {
			out = append(out, domain.ReminderView{ReminderID: id, ShoeView: domain.ShoeView{Shoe: b.shoes[r.shoeID]}})
		}
	}
	return out, nil
}

func (b *memBackend) RemoveReminder(_ context.Context, token string, reminderID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if r, ok := b.rows[reminderID]; ok && r.token == token {
		delete(b.rows, reminderID)
	}
	return nil
}

var (
	ann = &apiclient.Identity{ID: 1, Token: "ann"}
	bob = &apiclient.Identity{ID: 2, Token: "bob"}
)

func TestService_RequiresUser(t *testing.T) {
	s := NewService(newMemBackend())
	ctx := context.Background()

	assert.ErrorIs(t, s.Set(ctx, nil, 1), apiclient.ErrNotAuthenticated)
	assert.ErrorIs(t, s.Remove(ctx, nil, 1), apiclient.ErrNotAuthenticated)
	_, err := s.List(ctx, nil)
	assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)
}

func TestService_SetTwiceLeavesOneReminder(t *testing.T) {
	s := NewService(newMemBackend(domain.Shoe{ID: 5}))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, ann, 5))
	require.NoError(t, s.Set(ctx, ann, 5))

	list, err := s.List(ctx, ann)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_ListSoonestFirst(t *testing.T) {
	now := time.Now()
	s := NewService(newMemBackend(
		domain.Shoe{ID: 1, ReleaseDate: now.Add(72 * time.Hour)},
		domain.Shoe{ID: 2, ReleaseDate: now.Add(time.Hour)},
		domain.Shoe{ID: 3, ReleaseDate: now.Add(-time.Hour)},
	))
	ctx := context.Background()
	for _, id := range []uint{1, 2, 3} {
		require.NoError(t, s.Set(ctx, ann, id))
	}

	list, err := s.List(ctx, ann)
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{list[0].ID, list[1].ID, list[2].ID})
}

func TestService_RemoveIsScopedAndIdempotent(t *testing.T) {
	s := NewService(newMemBackend(domain.Shoe{ID: 5}))
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, ann, 5))
	list, err := s.List(ctx, ann)
	require.NoError(t, err)
	reminderID := list[0].ReminderID

	require.NoError(t, s.Remove(ctx, bob, reminderID), "foreign id is a silent no-op")
	list, err = s.List(ctx, ann)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Remove(ctx, ann, reminderID))
	require.NoError(t, s.Remove(ctx, ann, reminderID))
	require.NoError(t, s.Remove(ctx, ann, 12345))
	list, err = s.List(ctx, ann)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_RejectsZeroIDs(t *testing.T) {
	s := NewService(newMemBackend())

	assert.ErrorIs(t, s.Set(context.Background(), ann, 0), apiclient.ErrInvalidInput)
	assert.ErrorIs(t, s.Remove(context.Background(), ann, 0), apiclient.ErrInvalidInput)
}
