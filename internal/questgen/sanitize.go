package questgen

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/healthquest/healthquest/internal/domain"
	"github.com/healthquest/healthquest/internal/utils"
)

// Defaults substituted for missing or invalid generated fields
const (
	DefaultCategory   = domain.QuestCategoryCardio
	DefaultDifficulty = domain.QuestDifficultyEasy
	DefaultUnit       = "minutes"
	DefaultTarget     = 10
	DefaultMinutes    = 30
	DefaultTitle      = "Fitness Challenge"

	MaxTitleLength     = 120
	MaxTextLength      = 1000
	MaxTarget          = 10000
	MaxMinutes         = 240
	MaxRewardXP        = 1000
	MaxRewardGold      = 500
	MaxNarrativeDamage = 500
)

var titleCaser = cases.Title(language.English)

// SanitizeQuest normalizes a generated quest payload in place. Enum fields
// outside the allow-lists fall back to defaults, numbers are clamped to sane
// ranges, and free text is trimmed and bounded.
func SanitizeQuest(p *QuestPayload) {
	p.Title = sanitizeText(p.Title, MaxTitleLength)
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	p.Title = titleCaser.String(p.Title)

	p.Description = sanitizeText(p.Description, MaxTextLength)
	p.Objective = sanitizeText(p.Objective, MaxTextLength)

	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if !domain.ValidQuestCategories[p.Category] {
		p.Category = DefaultCategory
	}

	p.Difficulty = strings.ToLower(strings.TrimSpace(p.Difficulty))
	if !domain.ValidQuestDifficulties[p.Difficulty] {
		p.Difficulty = DefaultDifficulty
	}

	p.Unit = strings.ToLower(strings.TrimSpace(p.Unit))
	if !domain.ValidQuestUnits[p.Unit] {
		p.Unit = DefaultUnit
	}

	if p.Target <= 0 {
		p.Target = DefaultTarget
	}
	p.Target = utils.Clamp(p.Target, 1, MaxTarget)

	if p.EstimatedMinutes <= 0 {
		p.EstimatedMinutes = DefaultMinutes
	}
	p.EstimatedMinutes = utils.Clamp(p.EstimatedMinutes, 1, MaxMinutes)

	p.RewardXP = utils.Clamp(p.RewardXP, 0, MaxRewardXP)
	p.RewardGold = utils.Clamp(p.RewardGold, 0, MaxRewardGold)
}

// SanitizeBattle normalizes a generated battle payload in place. A
// non-positive damage value signals a malformed generation; callers should
// fall back to the deterministic formula when Damage is zero after
// sanitizing.
func SanitizeBattle(p *BattlePayload) {
	p.Narrative = sanitizeText(p.Narrative, MaxTextLength)
	if p.Damage < 0 {
		p.Damage = 0
	}
	p.Damage = utils.Clamp(p.Damage, 0, MaxNarrativeDamage)
}

// sanitizeText trims, scrubs invalid UTF-8 (Postgres rejects it outright),
// and bounds the byte length without cutting through a multibyte rune.
func sanitizeText(s string, max int) string {
	s = strings.ToValidUTF8(strings.TrimSpace(s), "")
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}
