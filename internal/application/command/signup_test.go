package command

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

// capturePublisher собирает опубликованные события для проверок в тестах.
type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) ofType(t shared.EventType) []shared.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func TestSignUpHandler_RegistersNewUser(t *testing.T) {
	store := memory.NewSeededStore()
	users := store.Users()
	pub := &capturePublisher{}
	handler := NewSignUpHandler(users, users.NextID, pub)

	result, err := handler.Handle(context.Background(), SignUpCommand{
		Name:          "Frank Ocean",
		Email:         "Frank@Example.com",
		Password:      "correct-horse",
		LocationName:  "San Jose, CA",
		SkillsOffered: []string{"painting"},
		SkillsWanted:  []string{"guitar"},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.UserID)

	u, err := users.GetByID(context.Background(), shared.UserID(result.UserID))
	require.NoError(t, err)
	assert.Equal(t, "frank@example.com", u.Email.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct-horse")))

	registered := pub.ofType(shared.EventUserRegistered)
	require.Len(t, registered, 1)
	require.Len(t, result.Events, 1)
}

func TestSignUpHandler_RejectsTakenEmail(t *testing.T) {
	store := memory.NewSeededStore()
	users := store.Users()
	handler := NewSignUpHandler(users, users.NextID, &capturePublisher{})

	_, err := handler.Handle(context.Background(), SignUpCommand{
		Name:     "Alice Impostor",
		Email:    "ALICE@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestSignUpHandler_RejectsShortPassword(t *testing.T) {
	store := memory.NewSeededStore()
	users := store.Users()
	handler := NewSignUpHandler(users, users.NextID, &capturePublisher{})

	_, err := handler.Handle(context.Background(), SignUpCommand{
		Name:     "Frank Ocean",
		Email:    "frank@example.com",
		Password: "short",
	})
	assert.True(t, shared.IsValidation(err))
}

func TestLogInHandler_ChecksCredentials(t *testing.T) {
	store := memory.NewSeededStore()
	users := store.Users()
	signUp := NewSignUpHandler(users, users.NextID, &capturePublisher{})
	logIn := NewLogInHandler(users)

	_, err := signUp.Handle(context.Background(), SignUpCommand{
		Name:     "Frank Ocean",
		Email:    "frank@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	result, err := logIn.Handle(context.Background(), LogInCommand{
		Email:    "frank@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.UserID)
	assert.Equal(t, "Frank Ocean", result.Name)

	_, err = logIn.Handle(context.Background(), LogInCommand{
		Email:    "frank@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, shared.ErrWrongCredentials)

	// Неизвестная почта даёт ту же ошибку, что и неверный пароль.
	_, err = logIn.Handle(context.Background(), LogInCommand{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, shared.ErrWrongCredentials)
}
