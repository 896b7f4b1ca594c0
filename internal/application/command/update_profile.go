package command

import (
	"context"
	"errors"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Частичное обновление профиля участника: nil-поля не трогаются.
// Смена списков навыков сразу влияет на подбор партнёров и значки.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand содержит изменяемые поля профиля.
type UpdateProfileCommand struct {
	// UserID - участник, чей профиль обновляется.
	UserID int

	// Name - новое имя (nil = без изменений).
	Name *string

	// Bio - новое описание (nil = без изменений).
	Bio *string

	// LocationName - новое местоположение (nil = без изменений).
	LocationName *string

	// AvatarRef - новая ссылка на аватар (nil = без изменений).
	AvatarRef *string

	// SkillsOffered - новый список преподаваемых навыков (nil = без изменений).
	SkillsOffered []string

	// SkillsWanted - новый список изучаемых навыков (nil = без изменений).
	SkillsWanted []string
}

// Validate проверяет корректность команды.
func (c UpdateProfileCommand) Validate() error {
	if c.UserID <= 0 {
		return errors.New("update_profile: user_id must be positive")
	}
	return nil
}

// UpdateProfileResult содержит результат обновления.
type UpdateProfileResult struct {
	// UserID - участник.
	UserID int

	// UpdatedAt - время обновления.
	UpdatedAt time.Time
}

// UpdateProfileHandler обрабатывает команду обновления профиля.
type UpdateProfileHandler struct {
	userRepo  user.Repository
	userCache user.Cache
}

// NewUpdateProfileHandler создаёт новый обработчик обновления профиля.
// userCache может быть nil.
func NewUpdateProfileHandler(userRepo user.Repository, userCache user.Cache) *UpdateProfileHandler {
	return &UpdateProfileHandler{
		userRepo:  userRepo,
		userCache: userCache,
	}
}

// Handle выполняет обновление профиля.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*UpdateProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "UpdateProfile", shared.ErrValidation, err.Error(), err)
	}

	u, err := h.userRepo.GetByID(ctx, shared.UserID(cmd.UserID))
	if err != nil {
		return nil, shared.ErrUserNotFound
	}

	params := user.UpdateProfileParams{
		Name:      cmd.Name,
		Bio:       cmd.Bio,
		AvatarRef: cmd.AvatarRef,
	}

	if cmd.LocationName != nil {
		loc := u.Location
		loc.Name = *cmd.LocationName
		params.Location = &loc
	}

	if cmd.SkillsOffered != nil {
		offered, err := toSkillList(cmd.SkillsOffered)
		if err != nil {
			return nil, err
		}
		params.SkillsOffered = &offered
	}

	if cmd.SkillsWanted != nil {
		wanted, err := toSkillList(cmd.SkillsWanted)
		if err != nil {
			return nil, err
		}
		params.SkillsWanted = &wanted
	}

	if err := u.UpdateProfile(params); err != nil {
		return nil, err
	}

	if err := h.userRepo.Update(ctx, u); err != nil {
		return nil, shared.WrapError("command", "UpdateProfile", shared.ErrServiceUnavailable, "failed to save profile", err)
	}

	if h.userCache != nil {
		_ = h.userCache.Invalidate(ctx, u.ID)
	}

	return &UpdateProfileResult{
		UserID:    u.ID.Int(),
		UpdatedAt: u.UpdatedAt,
	}, nil
}
