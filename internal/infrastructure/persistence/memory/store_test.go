package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

func TestSeededStore_ReferenceDataset(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	// Insertion order is part of the contract.
	assert.Equal(t, "Alice Johnson", users[0].Name)
	assert.Equal(t, "Ethan Hunt", users[4].Name)

	sessions, err := store.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 6)

	reviews, err := store.Reviews().List(ctx)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestUserRepo_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	u, err := user.NewUser(user.NewUserParams{
		ID:    10,
		Name:  "Second Alice",
		Email: "alice@example.com",
	})
	require.NoError(t, err)

	err = store.Users().Create(ctx, u)
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestUserRepo_AddPointsIsVisibleToReaders(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	total, err := store.Users().AddPoints(ctx, 1, shared.PointsPerTaughtSession)
	require.NoError(t, err)
	assert.Equal(t, shared.Points(160), total)

	u, err := store.Users().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, shared.Points(160), u.Points)
}

func TestUserRepo_UpdateKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	u, err := store.Users().GetByID(ctx, 3)
	require.NoError(t, err)
	newName := "Charles Brown"
	require.NoError(t, u.UpdateProfile(user.UpdateProfileParams{Name: &newName}))
	require.NoError(t, store.Users().Update(ctx, u))

	users, err := store.Users().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Charles Brown", users[2].Name)
}

func TestUserRepo_ReturnsClones(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	u, err := store.Users().GetByID(ctx, 1)
	require.NoError(t, err)
	u.Name = "Mutated"

	fresh, err := store.Users().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", fresh.Name)
}

func TestSessionRepo_ListByUserAndStatus(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	aliceSessions, err := store.Sessions().ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, aliceSessions, 4)

	completed, err := store.Sessions().ListByStatus(ctx, session.StatusCompleted)
	require.NoError(t, err)
	assert.Len(t, completed, 2)
}

func TestSessionRepo_NextIDAdvances(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	id, err := store.Sessions().NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	id, err = store.Sessions().NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, id)
}

func TestReviewRepo_RejectsDuplicatePerSessionReviewer(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	dup, err := store.Reviews().GetByID(ctx, 1)
	require.NoError(t, err)
	dup.ID = 99

	err = store.Reviews().Create(ctx, dup)
	assert.ErrorIs(t, err, shared.ErrReviewDuplicate)
}

func TestConversationRepo_FindByParticipantsIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	c1, err := store.Conversations().FindConversationByParticipants(ctx, 1, 2)
	require.NoError(t, err)
	c2, err := store.Conversations().FindConversationByParticipants(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)
}

func TestConversationRepo_UnreadLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSeededStore()

	// Bob's reply is seeded unread for Alice.
	unread, err := store.Conversations().CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	marked, err := store.Conversations().MarkMessagesRead(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	unread, err = store.Conversations().CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
