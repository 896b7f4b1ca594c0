// Package match содержит алгоритм подбора партнёров по обмену навыками.
package match

import (
	"fmt"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCHING RULES
//
// Кандидат V подходит участнику U, если наборы навыков пересекаются
// хотя бы в одну сторону:
//   - V преподаёт то, что U хочет изучить  -> причина "Offers X"
//   - V хочет изучить то, что U преподаёт  -> причина "Wants X"
//
// Правила, которые входят в контракт:
// 1. Сам участник никогда не попадает в свой список кандидатов.
// 2. Направление "Offers" всегда проверяется первым.
// 3. Показывается ровно один навык - первый по порядку хранения
//    в списке кандидата. Порядок слайса детерминирован и значим.
// 4. Результат сохраняет порядок обхода коллекции участников,
//    без ранжирования по релевантности.
// 5. Пустой результат - валидное состояние, а не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// ReasonKind определяет направление совпадения навыков.
type ReasonKind string

const (
	// ReasonOffers - кандидат преподаёт навык, который участник хочет изучить.
	ReasonOffers ReasonKind = "offers"

	// ReasonWants - кандидат хочет изучить навык, который участник преподаёт.
	ReasonWants ReasonKind = "wants"
)

// IsValid проверяет корректность направления.
func (k ReasonKind) IsValid() bool {
	return k == ReasonOffers || k == ReasonWants
}

// Reason представляет причину, по которой кандидат подходит.
type Reason struct {
	// Kind - направление совпадения.
	Kind ReasonKind

	// SkillID - навык, давший совпадение.
	SkillID shared.SkillID

	// Label - готовая строка для отображения ("Offers Guitar").
	Label string
}

// Match представляет подобранного кандидата.
type Match struct {
	// Candidate - подходящий участник.
	Candidate *user.User

	// Reason - причина совпадения.
	Reason Reason

	// OfferedOverlap - все навыки кандидата, которые участник хочет изучить.
	OfferedOverlap user.SkillList

	// WantedOverlap - все навыки кандидата, которые участник преподаёт.
	WantedOverlap user.SkillList
}

// OverlapCount возвращает суммарное количество пересечений.
func (m Match) OverlapCount() int {
	return len(m.OfferedOverlap) + len(m.WantedOverlap)
}

// ══════════════════════════════════════════════════════════════════════════════
// FINDER
// ══════════════════════════════════════════════════════════════════════════════

// Finder подбирает партнёров по пересечению навыков.
type Finder struct {
	catalog *skill.Catalog
}

// NewFinder создаёт новый Finder с каталогом навыков.
func NewFinder(catalog *skill.Catalog) *Finder {
	return &Finder{catalog: catalog}
}

// Find возвращает кандидатов для участника current среди candidates.
// Список candidates обходится в переданном порядке; current исключается
// по ID. Возвращает пустой (не nil) слайс, если совпадений нет.
func (f *Finder) Find(current *user.User, candidates []*user.User) []Match {
	matches := make([]Match, 0)
	if current == nil {
		return matches
	}

	for _, v := range candidates {
		if v == nil || v.ID == current.ID {
			continue
		}

		m, ok := f.evaluate(current, v)
		if !ok {
			continue
		}
		matches = append(matches, m)
	}

	return matches
}

// evaluate проверяет одного кандидата против участника.
func (f *Finder) evaluate(current, v *user.User) (Match, bool) {
	offeredByThem := v.SkillsOffered.Intersect(current.SkillsWanted)
	wantedByThem := v.SkillsWanted.Intersect(current.SkillsOffered)

	var reason Reason
	switch {
	case len(offeredByThem) > 0:
		reason = f.buildReason(ReasonOffers, offeredByThem[0])
	case len(wantedByThem) > 0:
		reason = f.buildReason(ReasonWants, wantedByThem[0])
	default:
		return Match{}, false
	}

	return Match{
		Candidate:      v,
		Reason:         reason,
		OfferedOverlap: offeredByThem,
		WantedOverlap:  wantedByThem,
	}, true
}

// buildReason формирует причину с отображаемым именем навыка.
// Неизвестный навык превращается в "Unknown Skill" средствами каталога.
func (f *Finder) buildReason(kind ReasonKind, id shared.SkillID) Reason {
	verb := "Offers"
	if kind == ReasonWants {
		verb = "Wants"
	}
	return Reason{
		Kind:    kind,
		SkillID: id,
		Label:   fmt.Sprintf("%s %s", verb, f.catalog.NameOf(id)),
	}
}
