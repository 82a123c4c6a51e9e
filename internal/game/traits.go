package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/storage"
)

// Alignment is a character's moral leaning.
type Alignment int

const (
	AlignmentNeutral Alignment = iota
	AlignmentGood
	AlignmentEvil
)

var alignmentNames = map[Alignment]string{
	AlignmentNeutral: "neutral",
	AlignmentGood:    "good",
	AlignmentEvil:    "evil",
}

func (a Alignment) String() string {
	if n, ok := alignmentNames[a]; ok {
		return n
	}
	return fmt.Sprintf("alignment(%d)", int(a))
}

func (a Alignment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Alignment) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for k, v := range alignmentNames {
		if strings.EqualFold(v, s) {
			*a = k
			return nil
		}
	}
	if s == "" {
		*a = AlignmentNeutral
		return nil
	}
	return fmt.Errorf("unknown alignment %q", s)
}

// DamageType classifies both weapon damage and spell energy.
type DamageType int

const (
	DamageNone DamageType = iota
	DamagePierce
	DamageBlunt
	DamageSlash
	DamageMagic
	DamageEnergy
	DamageNegative
	DamageAfflictive
	DamageMaledictive
)

var damageTypeNames = map[DamageType]string{
	DamageNone:        "none",
	DamagePierce:      "pierce",
	DamageBlunt:       "blunt",
	DamageSlash:       "slash",
	DamageMagic:       "magic",
	DamageEnergy:      "energy",
	DamageNegative:    "negative",
	DamageAfflictive:  "afflictive",
	DamageMaledictive: "maledictive",
}

func (d DamageType) String() string {
	if n, ok := damageTypeNames[d]; ok {
		return n
	}
	return fmt.Sprintf("damage(%d)", int(d))
}

func (d DamageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DamageType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = DamageNone
		return nil
	}
	for k, v := range damageTypeNames {
		if strings.EqualFold(v, s) {
			*d = k
			return nil
		}
	}
	return fmt.Errorf("unknown damage type %q", s)
}

// SaveType is one of the four save categories a character rolls against.
type SaveType int

const (
	SaveSpell SaveType = iota
	SaveNegative
	SaveAfflictive
	SaveMaledictive
)

// SaveCategory maps a damage type to the save it is resisted with.
func (d DamageType) SaveCategory() SaveType {
	switch d {
	case DamageEnergy, DamageNegative:
		return SaveNegative
	case DamageAfflictive:
		return SaveAfflictive
	case DamageMaledictive:
		return SaveMaledictive
	default:
		return SaveSpell
	}
}

// Saves holds the save values for each category. A d20 roll below the value saves.
type Saves struct {
	Spell       int `json:"spell"`
	Negative    int `json:"negative"`
	Afflictive  int `json:"afflictive"`
	Maledictive int `json:"maledictive"`
}

func (s Saves) For(t SaveType) int {
	switch t {
	case SaveNegative:
		return s.Negative
	case SaveAfflictive:
		return s.Afflictive
	case SaveMaledictive:
		return s.Maledictive
	default:
		return s.Spell
	}
}

// Resistances are percentage chances to absorb a hit, by damage type.
type Resistances struct {
	Pierce int `json:"pierce,omitempty"`
	Blunt  int `json:"blunt,omitempty"`
	Slash  int `json:"slash,omitempty"`
	Magic  int `json:"magic,omitempty"`
}

// For returns the resistance that applies to d. Anything that is not a
// weapon type is resisted as magic.
func (r Resistances) For(d DamageType) int {
	switch d {
	case DamagePierce:
		return r.Pierce
	case DamageSlash:
		return r.Slash
	case DamageBlunt:
		return r.Blunt
	default:
		return r.Magic
	}
}

func (r Resistances) Add(o Resistances) Resistances {
	return Resistances{
		Pierce: r.Pierce + o.Pierce,
		Blunt:  r.Blunt + o.Blunt,
		Slash:  r.Slash + o.Slash,
		Magic:  r.Magic + o.Magic,
	}
}

// Vital is a max/current pair.
type Vital struct {
	Max     int `json:"max"`
	Current int `json:"current"`
}

// Restore adds up to amount, never above Max, and returns what was added.
func (v *Vital) Restore(amount int) int {
	if amount <= 0 || v.Current >= v.Max {
		return 0
	}
	amount = min(amount, v.Max-v.Current)
	v.Current += amount
	return amount
}

// Clamp pulls Current back into [0, Max].
func (v *Vital) Clamp() {
	v.Current = max(0, min(v.Current, v.Max))
}

// Attributes are the five primary stats.
type Attributes struct {
	Str Vital `json:"str"`
	Int Vital `json:"int"`
	Wis Vital `json:"wis"`
	Dex Vital `json:"dex"`
	Con Vital `json:"con"`
}

// Location addresses a room by area and room id.
type Location struct {
	Area storage.Identifier `json:"area"`
	Room storage.Identifier `json:"room"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s/%s", l.Area, l.Room)
}

func (l Location) IsZero() bool {
	return l.Area == "" && l.Room == ""
}

// Flag is a named boolean state on a character or room.
type Flag uint32

const (
	FlagSleeping Flag = 1 << iota
	FlagResting
	FlagGhost
	FlagAutoloot
	FlagAutosac
	FlagBlind
	FlagCharmed
	FlagWander
	FlagChatty
	FlagPoisoned
	FlagIndoors
	FlagNoMobs
	FlagInstanced
)

type flagName struct {
	flag Flag
	name string
}

var flagNames = []flagName{
	{FlagSleeping, "sleeping"},
	{FlagResting, "resting"},
	{FlagGhost, "ghost"},
	{FlagAutoloot, "autoloot"},
	{FlagAutosac, "autosac"},
	{FlagBlind, "blind"},
	{FlagCharmed, "charmed"},
	{FlagWander, "wander"},
	{FlagChatty, "chatty"},
	{FlagPoisoned, "poisoned"},
	{FlagIndoors, "indoors"},
	{FlagNoMobs, "nomobs"},
	{FlagInstanced, "instanced"},
}

// Flags is a set of Flag values, encoded as a list of names in JSON.
type Flags uint32

func (f Flags) Has(flag Flag) bool {
	return f&Flags(flag) != 0
}

func (f *Flags) Set(flag Flag) {
	*f |= Flags(flag)
}

func (f *Flags) Clear(flag Flag) {
	*f &^= Flags(flag)
}

func (f Flags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f Flags) MarshalJSON() ([]byte, error) {
	names := f.Names()
	if names == nil {
		names = []string{}
	}
	return json.Marshal(names)
}

func (f *Flags) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}

	el := errors.NewErrorList()
	*f = 0
	for _, n := range names {
		i := slices.IndexFunc(flagNames, func(fn flagName) bool {
			return strings.EqualFold(fn.name, n)
		})
		if i < 0 {
			el.Add(fmt.Errorf("unknown flag %q", n))
			continue
		}
		f.Set(flagNames[i].flag)
	}
	return el.Err()
}

// Race defines a playable race loaded from asset files.
type Race struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`

	// ExpPenalty scales the experience curve; 0 is the baseline, 25 is a
	// quarter more experience per level.
	ExpPenalty int `json:"exp_penalty"`
}

func (r *Race) Validate() error {
	el := errors.NewErrorList()
	if r.Name == "" {
		el.Add(fmt.Errorf("race name is required"))
	}
	if r.ExpPenalty < 0 {
		el.Add(fmt.Errorf("exp_penalty must not be negative"))
	}
	return el.Err()
}
