package game

import "github.com/pixil98/tickmud/internal/rng"

// MaxLevel is the highest level a character can reach.
const MaxLevel = 90

// MaxExpGap is the widest level gap, killer above victim, that still awards experience.
const MaxExpGap = 10

// LevelCost returns the experience needed to go from level to level+1.
// penalty is a percentage added on top of the base curve.
func LevelCost(level, penalty int) int {
	if level < 1 {
		level = 1
	}
	base := 1000*level + 100*level*level
	return base * (100 + penalty) / 100
}

// TotalExperienceRequired returns the experience needed to advance from
// fromLevel to toLevel. It is 0 when toLevel is not above fromLevel.
func TotalExperienceRequired(fromLevel, toLevel, penalty int) int {
	fromLevel = max(fromLevel, 1)
	toLevel = min(toLevel, MaxLevel)
	total := 0
	for l := fromLevel; l < toLevel; l++ {
		total += LevelCost(l, penalty)
	}
	return total
}

// RemainingExperienceToLevel returns how much more experience is needed for
// the next level. ok is false at the level cap, where the value does not apply.
func RemainingExperienceToLevel(level, experience, penalty int) (remaining int, ok bool) {
	if level >= MaxLevel {
		return 0, false
	}
	return max(0, TotalExperienceRequired(1, level+1, penalty)-experience), true
}

// alignmentModifiers is indexed [actor][target]:
//
//	          good  neutral  evil
//	good      0.75  1.0      2.0
//	neutral   1.25  1.0      1.25
//	evil      2.0   1.0      0.75
var alignmentModifiers = map[Alignment]map[Alignment]float64{
	AlignmentGood: {
		AlignmentGood:    0.75,
		AlignmentNeutral: 1.0,
		AlignmentEvil:    2.0,
	},
	AlignmentNeutral: {
		AlignmentGood:    1.25,
		AlignmentNeutral: 1.0,
		AlignmentEvil:    1.25,
	},
	AlignmentEvil: {
		AlignmentGood:    2.0,
		AlignmentNeutral: 1.0,
		AlignmentEvil:    0.75,
	},
}

// AlignmentModifier returns the experience multiplier for an actor of one
// alignment killing a target of another.
func AlignmentModifier(actor, target Alignment) float64 {
	if row, ok := alignmentModifiers[actor]; ok {
		if m, ok := row[target]; ok {
			return m
		}
	}
	return 1.0
}

// ExperienceAward computes the experience an actor earns for killing target.
//
// Killing something at or above your level multiplies the base by the level
// gap. Killing something below it divides by the gap, and nothing is earned
// past MaxExpGap.
func ExperienceAward(r rng.Provider, actor, target *Character) int {
	base := target.Level*8 + r.Inclusive(1, 199)
	mod := AlignmentModifier(actor.Alignment, target.Alignment)

	if actor.Level <= target.Level {
		return int(float64(base*max(1, target.Level-actor.Level)) * mod)
	}

	gap := actor.Level - target.Level
	if gap > MaxExpGap {
		return 0
	}
	return int(float64(base) / float64(gap) * mod)
}
