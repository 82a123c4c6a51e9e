package combat

import (
	"math"
	"strings"
)

type bucket struct {
	max   int // inclusive upper bound
	label string
}

// BlockedVerb replaces the damage verb when armor absorbed the hit.
const BlockedVerb = "is blocked by"

var damageVerbs = []bucket{
	{0, "has no effect on"},
	{4, "scratches"},
	{8, "grazes"},
	{12, "hits"},
	{16, "injures"},
	{20, "wounds"},
	{26, "mauls"},
	{32, "decimates"},
	{40, "devastates"},
	{50, "maims"},
	{60, "MUTILATES"},
	{75, "DISEMBOWELS"},
	{90, "DISMEMBERS"},
	{110, "MASSACRES"},
	{140, "MANGLES"},
	{180, "*** DEMOLISHES ***"},
	{250, "*** DEVASTATES ***"},
	{350, "=== OBLITERATES ==="},
	{500, ">>> ANNIHILATES <<<"},
	{700, "<<< ERADICATES >>>"},
	{900, "does GHASTLY things"},
	{1100, "does HORRIBLE things"},
	{math.MaxInt, "does UNSPEAKABLE things"},
}

// DamageVerb returns the 3rd person verb for a damage amount. Every integer
// maps to exactly one bucket; blocked hits always use BlockedVerb.
func DamageVerb(damage int, blocked bool) string {
	if blocked {
		return BlockedVerb
	}
	return lookup(damageVerbs, damage)
}

var conditions = []bucket{
	{0, "is lying in a pool of blood"},
	{10, "is mortally wounded"},
	{20, "is in awful condition"},
	{30, "is bleeding badly"},
	{40, "is covered in blood"},
	{50, "is badly wounded"},
	{60, "has some big nasty wounds"},
	{70, "has quite a few wounds"},
	{80, "has some small wounds"},
	{90, "has a few scratches"},
	{99, "is in good shape"},
	{math.MaxInt, "is in excellent condition"},
}

// Condition describes health as a percentage of max.
func Condition(percent int) string {
	return lookup(conditions, percent)
}

// HealthPercent returns current health as a percentage of max.
func HealthPercent(current, max int) int {
	if max <= 0 {
		return 100
	}
	return current * 100 / max
}

func lookup(table []bucket, v int) string {
	for _, b := range table {
		if v <= b.max {
			return b.label
		}
	}
	return table[len(table)-1].label
}

// verbPhrase makes a verb read correctly before the target's name.
func verbPhrase(verb string) string {
	if strings.HasSuffix(verb, "things") {
		return verb + " to"
	}
	return verb
}
