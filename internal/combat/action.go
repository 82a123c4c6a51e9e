package combat

import (
	"strings"

	"github.com/pixil98/tickmud/internal/game"
)

// Kind separates martial skills from invoked spells.
type Kind int

const (
	// KindSkill is an ordinary attack gated by a proficiency roll.
	KindSkill Kind = iota
	// KindSpell always connects; the caster's concentration is checked at cast time.
	KindSpell
)

// Affect describes an effect a spell leaves on its target.
type Affect struct {
	Duration int
	Flag     game.Flag
	Resist   game.Resistances

	// Periodic effects re-run the spell's damage every game tick.
	Periodic bool

	ToVictim string
	ToRoom   string
	WearsOff string
}

// Action is one combat skill or spell. Actions differ mostly in data; the
// engine switches on Kind and Affect for the few behavioral branches.
type Action struct {
	Name string
	Kind Kind

	// Noun is used in hit messages: "Your <noun> MAULS the orc."
	Noun string

	DamageType     game.DamageType
	HitDice        int
	DamageDice     int
	DamageModifier int
	ManaCost       int

	// SaveForHalf lets the target roll a save to halve the damage.
	SaveForHalf bool

	Affect *Affect
}

// Automatic reports whether the action skips the proficiency roll at exchange time.
func (a *Action) Automatic() bool {
	return a.Kind == KindSpell
}

var (
	HandToHand = &Action{
		Name:       game.SkillHandToHand,
		Kind:       KindSkill,
		Noun:       "punch",
		DamageType: game.DamageBlunt,
	}
	EdgedWeapons = &Action{
		Name:           game.SkillEdged,
		Kind:           KindSkill,
		Noun:           "slash",
		DamageType:     game.DamageSlash,
		DamageModifier: 1,
	}
	BluntWeapons = &Action{
		Name:           game.SkillBlunt,
		Kind:           KindSkill,
		Noun:           "pound",
		DamageType:     game.DamageBlunt,
		DamageModifier: 1,
	}
	PiercingWeapons = &Action{
		Name:           game.SkillPiercing,
		Kind:           KindSkill,
		Noun:           "pierce",
		DamageType:     game.DamagePierce,
		DamageModifier: 1,
	}

	MagicMissile = &Action{
		Name:           "magic missile",
		Kind:           KindSpell,
		Noun:           "magic missile",
		DamageType:     game.DamageMagic,
		HitDice:        2,
		DamageDice:     5,
		DamageModifier: 1,
		ManaCost:       10,
		SaveForHalf:    true,
	}
	ChillTouch = &Action{
		Name:           "chill touch",
		Kind:           KindSpell,
		Noun:           "chilling touch",
		DamageType:     game.DamageNegative,
		HitDice:        3,
		DamageDice:     6,
		DamageModifier: 2,
		ManaCost:       15,
		SaveForHalf:    true,
	}
	Poison = &Action{
		Name:       "poison",
		Kind:       KindSpell,
		Noun:       "poison",
		DamageType: game.DamageAfflictive,
		HitDice:    1,
		DamageDice: 8,
		ManaCost:   20,
		Affect: &Affect{
			Duration: 6,
			Flag:     game.FlagPoisoned,
			Periodic: true,
			ToVictim: "You feel very sick.",
			ToRoom:   "%s looks very ill.",
			WearsOff: "You feel less sick.",
		},
	}
	Blindness = &Action{
		Name:       "blindness",
		Kind:       KindSpell,
		Noun:       "blindness",
		DamageType: game.DamageMaledictive,
		ManaCost:   15,
		Affect: &Affect{
			Duration: 4,
			Flag:     game.FlagBlind,
			ToVictim: "You are blinded!",
			ToRoom:   "%s appears to be blinded.",
			WearsOff: "You can see again.",
		},
	}
)

var actions = map[string]*Action{}

func init() {
	for _, a := range []*Action{
		HandToHand, EdgedWeapons, BluntWeapons, PiercingWeapons,
		MagicMissile, ChillTouch, Poison, Blindness,
	} {
		actions[a.Name] = a
	}
}

// Lookup returns the action with the given name (case-insensitive), or nil.
func Lookup(name string) *Action {
	return actions[strings.ToLower(strings.TrimSpace(name))]
}

// SelectCombatAction picks the skill an actor attacks with: the one bound to
// the wielded weapon's damage type, or hand to hand when unarmed.
func SelectCombatAction(actor *game.Character) *Action {
	w := actor.Wielded()
	if w == nil {
		return HandToHand
	}
	switch w.DamageType {
	case game.DamageSlash:
		return EdgedWeapons
	case game.DamageBlunt:
		return BluntWeapons
	case game.DamagePierce:
		return PiercingWeapons
	default:
		return HandToHand
	}
}
