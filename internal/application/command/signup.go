// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SIGN UP COMMAND
// Регистрирует нового участника сообщества: проверяет уникальность
// почты, хеширует пароль и публикует событие регистрации.
// ══════════════════════════════════════════════════════════════════════════════

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 8

// SignUpCommand содержит данные для регистрации.
type SignUpCommand struct {
	// Name - отображаемое имя.
	Name string

	// Email - адрес почты (будет нормализован).
	Email string

	// Password - пароль открытым текстом (хешируется bcrypt).
	Password string

	// LocationName - местоположение (опционально).
	LocationName string

	// SkillsOffered - навыки, которые участник готов преподавать.
	SkillsOffered []string

	// SkillsWanted - навыки, которые участник хочет изучить.
	SkillsWanted []string
}

// Validate проверяет корректность команды.
func (c SignUpCommand) Validate() error {
	if c.Name == "" {
		return errors.New("signup: name is required")
	}
	if c.Email == "" {
		return errors.New("signup: email is required")
	}
	if len(c.Password) < MinPasswordLength {
		return fmt.Errorf("signup: password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// SignUpResult содержит результат регистрации.
type SignUpResult struct {
	// UserID - ID нового участника.
	UserID int

	// Events - сгенерированные доменные события.
	Events []shared.Event

	// CreatedAt - время регистрации.
	CreatedAt time.Time
}

// SignUpHandler обрабатывает команду регистрации.
type SignUpHandler struct {
	userRepo       user.Repository
	nextID         func(ctx context.Context) (shared.UserID, error)
	eventPublisher shared.EventPublisher
}

// NewSignUpHandler создаёт новый обработчик регистрации.
// nextID выдаёт следующий свободный ID участника.
func NewSignUpHandler(
	userRepo user.Repository,
	nextID func(ctx context.Context) (shared.UserID, error),
	eventPublisher shared.EventPublisher,
) *SignUpHandler {
	return &SignUpHandler{
		userRepo:       userRepo,
		nextID:         nextID,
		eventPublisher: eventPublisher,
	}
}

// Handle выполняет регистрацию нового участника.
func (h *SignUpHandler) Handle(ctx context.Context, cmd SignUpCommand) (*SignUpResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SignUp", shared.ErrValidation, err.Error(), err)
	}

	email, err := shared.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	taken, err := h.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, shared.WrapError("command", "SignUp", shared.ErrServiceUnavailable, "failed to check email", err)
	}
	if taken {
		return nil, shared.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("command", "SignUp", shared.ErrInvalidInput, "failed to hash password", err)
	}

	id, err := h.nextID(ctx)
	if err != nil {
		return nil, shared.WrapError("command", "SignUp", shared.ErrServiceUnavailable, "failed to allocate id", err)
	}

	offered, err := toSkillList(cmd.SkillsOffered)
	if err != nil {
		return nil, err
	}
	wanted, err := toSkillList(cmd.SkillsWanted)
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(user.NewUserParams{
		ID:            id,
		Name:          cmd.Name,
		Email:         email,
		PasswordHash:  string(hash),
		Location:      user.Location{Name: cmd.LocationName},
		SkillsOffered: offered,
		SkillsWanted:  wanted,
	})
	if err != nil {
		return nil, err
	}

	if err := h.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	event := shared.NewUserRegisteredEvent(u.ID.Int(), u.Email.String(), u.Name)
	_ = h.eventPublisher.Publish(event)

	return &SignUpResult{
		UserID:    u.ID.Int(),
		Events:    []shared.Event{event},
		CreatedAt: u.CreatedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LOG IN COMMAND
// Проверяет учётные данные участника. Ошибка одна и та же для
// неизвестной почты и неверного пароля.
// ══════════════════════════════════════════════════════════════════════════════

// LogInCommand содержит учётные данные.
type LogInCommand struct {
	// Email - адрес почты.
	Email string

	// Password - пароль открытым текстом.
	Password string
}

// LogInResult содержит результат входа.
type LogInResult struct {
	// UserID - ID участника.
	UserID int

	// Name - отображаемое имя.
	Name string
}

// LogInHandler обрабатывает команду входа.
type LogInHandler struct {
	userRepo user.Repository
}

// NewLogInHandler создаёт новый обработчик входа.
func NewLogInHandler(userRepo user.Repository) *LogInHandler {
	return &LogInHandler{userRepo: userRepo}
}

// Handle проверяет учётные данные.
func (h *LogInHandler) Handle(ctx context.Context, cmd LogInCommand) (*LogInResult, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, shared.ErrWrongCredentials
	}

	email, err := shared.NewEmail(cmd.Email)
	if err != nil {
		return nil, shared.ErrWrongCredentials
	}

	u, err := h.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrWrongCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, shared.ErrWrongCredentials
	}

	return &LogInResult{
		UserID: u.ID.Int(),
		Name:   u.Name,
	}, nil
}

// toSkillList конвертирует строки в валидированный список навыков.
func toSkillList(raw []string) (user.SkillList, error) {
	list := make(user.SkillList, 0, len(raw))
	for _, s := range raw {
		id, err := shared.NewSkillID(s)
		if err != nil {
			return nil, err
		}
		list = append(list, id)
	}
	return list, nil
}
