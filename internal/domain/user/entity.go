// Package user содержит доменную модель участника сообщества SkillSwap.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Location представляет местоположение участника.
type Location struct {
	// Name - человекочитаемое название ("Oakland, CA").
	Name string

	// Lat - широта.
	Lat float64

	// Lng - долгота.
	Lng float64
}

// IsZero проверяет, что местоположение не задано.
func (l Location) IsZero() bool {
	return l.Name == "" && l.Lat == 0 && l.Lng == 0
}

// SkillList - упорядоченный список навыков участника.
// Порядок добавления сохраняется: он определяет, какой именно навык
// будет показан как причина подбора при нескольких пересечениях.
type SkillList []shared.SkillID

// Contains проверяет наличие навыка в списке.
func (sl SkillList) Contains(id shared.SkillID) bool {
	for _, s := range sl {
		if s == id {
			return true
		}
	}
	return false
}

// FirstIn возвращает первый навык списка, входящий в other.
// Второе значение false, если пересечения нет.
func (sl SkillList) FirstIn(other SkillList) (shared.SkillID, bool) {
	for _, s := range sl {
		if other.Contains(s) {
			return s, true
		}
	}
	return "", false
}

// Intersect возвращает пересечение с other, сохраняя порядок sl.
func (sl SkillList) Intersect(other SkillList) SkillList {
	out := make(SkillList, 0)
	for _, s := range sl {
		if other.Contains(s) {
			out = append(out, s)
		}
	}
	return out
}

// Clone создаёт копию списка.
func (sl SkillList) Clone() SkillList {
	if sl == nil {
		return nil
	}
	out := make(SkillList, len(sl))
	copy(out, sl)
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User - центральная сущность системы, представляющая участника сообщества.
type User struct {
	// ID - внутренний уникальный идентификатор.
	ID shared.UserID

	// Name - отображаемое имя участника.
	Name string

	// Email - адрес электронной почты (уникальный).
	Email shared.Email

	// PasswordHash - bcrypt-хеш пароля. Пустой для засеянных участников.
	PasswordHash string

	// Location - местоположение участника.
	Location Location

	// Points - очки сообщества, заработанные преподаванием.
	Points shared.Points

	// AvatarRef - ссылка на аватар.
	AvatarRef string

	// Bio - короткое описание о себе.
	Bio string

	// SkillsOffered - навыки, которые участник готов преподавать.
	SkillsOffered SkillList

	// SkillsWanted - навыки, которые участник хочет изучить.
	SkillsWanted SkillList

	// Badges - идентификаторы полученных значков.
	// Заполняется пересчётом из статистики (derived-badges model).
	Badges []string

	// CreatedAt - время регистрации.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewUserParams содержит параметры для создания нового участника.
type NewUserParams struct {
	ID            shared.UserID
	Name          string
	Email         shared.Email
	PasswordHash  string
	Location      Location
	AvatarRef     string
	Bio           string
	SkillsOffered SkillList
	SkillsWanted  SkillList
	InitialPoints shared.Points
}

// NewUser создаёт нового участника с валидацией всех полей.
func NewUser(params NewUserParams) (*User, error) {
	if !params.ID.IsValid() {
		return nil, shared.ErrInvalidUserID
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, shared.NewDomainError("user", "Create", shared.ErrInvalidInput, "name must be 1-100 chars")
	}

	if !params.Email.IsValid() {
		return nil, shared.ErrInvalidEmail
	}

	if !params.InitialPoints.IsValid() {
		return nil, shared.NewDomainError("user", "Create", shared.ErrNegativeValue, "points cannot be negative")
	}

	now := time.Now().UTC()

	return &User{
		ID:            params.ID,
		Name:          name,
		Email:         params.Email.Normalize(),
		PasswordHash:  params.PasswordHash,
		Location:      params.Location,
		Points:        params.InitialPoints,
		AvatarRef:     params.AvatarRef,
		Bio:           strings.TrimSpace(params.Bio),
		SkillsOffered: params.SkillsOffered.Clone(),
		SkillsWanted:  params.SkillsWanted.Clone(),
		Badges:        make([]string, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Offers проверяет, преподаёт ли участник навык.
func (u *User) Offers(id shared.SkillID) bool {
	return u.SkillsOffered.Contains(id)
}

// Wants проверяет, хочет ли участник изучить навык.
func (u *User) Wants(id shared.SkillID) bool {
	return u.SkillsWanted.Contains(id)
}

// AwardPoints начисляет очки и возвращает новый итог.
func (u *User) AwardPoints(amount int) shared.Points {
	u.Points = u.Points.Add(amount)
	u.UpdatedAt = time.Now().UTC()
	return u.Points
}

// UpdateProfileParams - изменяемые поля профиля.
type UpdateProfileParams struct {
	Name          *string
	Bio           *string
	Location      *Location
	AvatarRef     *string
	SkillsOffered *SkillList
	SkillsWanted  *SkillList
}

// UpdateProfile применяет частичное обновление профиля.
// Nil-поля остаются без изменений.
func (u *User) UpdateProfile(params UpdateProfileParams) error {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if len(name) == 0 || len(name) > 100 {
			return shared.NewDomainError("user", "UpdateProfile", shared.ErrInvalidInput, "name must be 1-100 chars")
		}
		u.Name = name
	}

	if params.Bio != nil {
		u.Bio = strings.TrimSpace(*params.Bio)
	}

	if params.Location != nil {
		u.Location = *params.Location
	}

	if params.AvatarRef != nil {
		u.AvatarRef = *params.AvatarRef
	}

	if params.SkillsOffered != nil {
		u.SkillsOffered = params.SkillsOffered.Clone()
	}

	if params.SkillsWanted != nil {
		u.SkillsWanted = params.SkillsWanted.Clone()
	}

	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetBadges заменяет список значков (результат пересчёта).
func (u *User) SetBadges(badgeIDs []string) {
	u.Badges = make([]string, len(badgeIDs))
	copy(u.Badges, badgeIDs)
	u.UpdatedAt = time.Now().UTC()
}

// HasBadge проверяет наличие значка.
func (u *User) HasBadge(badgeID string) bool {
	for _, b := range u.Badges {
		if b == badgeID {
			return true
		}
	}
	return false
}

// String возвращает строковое представление участника для логирования.
func (u *User) String() string {
	return fmt.Sprintf(
		"User{ID: %d, Name: %s, Points: %d, Offers: %d, Wants: %d}",
		u.ID, u.Name, u.Points, len(u.SkillsOffered), len(u.SkillsWanted),
	)
}

// Clone создаёт глубокую копию участника.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.SkillsOffered = u.SkillsOffered.Clone()
	clone.SkillsWanted = u.SkillsWanted.Clone()
	clone.Badges = make([]string, len(u.Badges))
	copy(clone.Badges, u.Badges)
	return &clone
}
