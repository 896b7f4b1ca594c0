// Package skill содержит каталог навыков сообщества SkillSwap.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package skill

import (
	"strings"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

// UnknownSkillName - отображаемое имя для неизвестного навыка.
// Неизвестный идентификатор никогда не является ошибкой: карточки
// со ссылкой на удалённый навык всё равно должны отрисовываться.
const UnknownSkillName = "Unknown Skill"

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: SKILL
// ══════════════════════════════════════════════════════════════════════════════

// Skill представляет навык, который можно преподавать или изучать.
type Skill struct {
	// ID - стабильный идентификатор (slug в нижнем регистре).
	ID shared.SkillID

	// DisplayName - отображаемое имя навыка.
	DisplayName string

	// IconKey - ключ иконки для фронтенда.
	IconKey string
}

// IsValid проверяет корректность навыка.
func (s Skill) IsValid() bool {
	return s.ID.IsValid() && strings.TrimSpace(s.DisplayName) != ""
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Catalog - каталог навыков с сохранением порядка добавления.
// Порядок важен: списки навыков пользователя ссылаются на каталог,
// и детерминированный порядок входит в контракт подбора партнёров.
type Catalog struct {
	skills []Skill
	byID   map[shared.SkillID]Skill
}

// NewCatalog создаёт каталог из списка навыков.
// Дубликаты идентификаторов игнорируются (первый побеждает).
func NewCatalog(skills []Skill) *Catalog {
	c := &Catalog{
		skills: make([]Skill, 0, len(skills)),
		byID:   make(map[shared.SkillID]Skill, len(skills)),
	}
	for _, s := range skills {
		if !s.IsValid() {
			continue
		}
		if _, exists := c.byID[s.ID]; exists {
			continue
		}
		c.skills = append(c.skills, s)
		c.byID[s.ID] = s
	}
	return c
}

// Find возвращает навык по идентификатору.
func (c *Catalog) Find(id shared.SkillID) (Skill, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// NameOf возвращает отображаемое имя навыка.
// Для неизвестного идентификатора возвращает UnknownSkillName -
// это определённое поведение, а не ошибка.
func (c *Catalog) NameOf(id shared.SkillID) string {
	if s, ok := c.byID[id]; ok {
		return s.DisplayName
	}
	return UnknownSkillName
}

// All возвращает все навыки в порядке добавления.
func (c *Catalog) All() []Skill {
	out := make([]Skill, len(c.skills))
	copy(out, c.skills)
	return out
}

// Len возвращает количество навыков в каталоге.
func (c *Catalog) Len() int {
	return len(c.skills)
}

// Contains проверяет наличие навыка в каталоге.
func (c *Catalog) Contains(id shared.SkillID) bool {
	_, ok := c.byID[id]
	return ok
}

// ══════════════════════════════════════════════════════════════════════════════
// DEFAULT CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// DefaultCatalog возвращает стартовый каталог сообщества.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Skill{
		{ID: "cooking", DisplayName: "Cooking", IconKey: "chef-hat"},
		{ID: "guitar", DisplayName: "Guitar", IconKey: "guitar"},
		{ID: "coding", DisplayName: "Coding", IconKey: "code"},
		{ID: "spanish", DisplayName: "Spanish", IconKey: "languages"},
		{ID: "yoga", DisplayName: "Yoga", IconKey: "person-standing"},
		{ID: "photography", DisplayName: "Photography", IconKey: "camera"},
		{ID: "gardening", DisplayName: "Gardening", IconKey: "sprout"},
		{ID: "painting", DisplayName: "Painting", IconKey: "palette"},
	})
}
