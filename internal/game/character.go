package game

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/pixil98/tickmud/internal/storage"
)

// CharacterId identifies a character for the lifetime of the process.
// Players keep a persisted id; mobiles are numbered from MobileIdBase.
type CharacterId uint64

// MobileIdBase separates runtime mobile ids from persisted player ids.
const MobileIdBase CharacterId = 1 << 40

// Skill and spell names shared by the combat and repopulation engines.
const (
	SkillEdged        = "edged weapons"
	SkillBlunt        = "blunt weapons"
	SkillPiercing     = "piercing weapons"
	SkillHandToHand   = "hand to hand"
	SkillParry        = "parry"
	SkillDodge        = "dodge"
	SkillEvasive      = "evasive maneuvers"
	SkillSecondAttack = "second attack"
)

// Effect is a timed modifier attached to a character.
type Effect struct {
	Name string `json:"name"`

	// Caster is a weak reference to whoever created the effect. It may no
	// longer exist in the world.
	Caster CharacterId `json:"caster,omitempty"`

	// Periodic names the action re-run against the bearer every game tick.
	Periodic string `json:"periodic,omitempty"`

	Duration int         `json:"duration"`
	Resist   Resistances `json:"resist,omitempty"`
	Flag     Flag        `json:"flag,omitempty"`

	// WearsOff is sent to the bearer when the effect expires.
	WearsOff string `json:"wears_off,omitempty"`
}

// Metrics are a character's lifetime counters.
type Metrics struct {
	MobKills     int                        `json:"mob_kills"`
	PlayerKills  int                        `json:"player_kills"`
	MobDeaths    int                        `json:"mob_deaths"`
	PlayerDeaths int                        `json:"player_deaths"`
	Explored     map[storage.Identifier]int `json:"explored,omitempty"`
	Awards       []string                   `json:"awards,omitempty"`
	IPs          []string                   `json:"ips,omitempty"`
	LastLogin    time.Time                  `json:"last_login"`
}

// Deaths is the cumulative death count from all causes.
func (m Metrics) Deaths() int {
	return m.MobDeaths + m.PlayerDeaths
}

// HasAward reports whether the named award was already granted.
func (m Metrics) HasAward(name string) bool {
	return slices.Contains(m.Awards, name)
}

// PlayerData is the state only human-controlled characters carry.
type PlayerData struct {
	Title     string             `json:"title,omitempty"`
	Race      storage.Identifier `json:"race,omitempty"`
	Hunger    Vital              `json:"hunger"`
	Thirst    Vital              `json:"thirst"`
	Trains    int                `json:"trains"`
	Practices int                `json:"practices"`
	Learns    int                `json:"learns"`

	Connected bool `json:"-"`
}

// MobileData is the state only NPCs carry.
type MobileData struct {
	Template storage.Identifier `json:"template"`
}

// Character is the base entity shared by players and mobiles. Exactly one of
// Player and Mobile is set.
type Character struct {
	Id        CharacterId `json:"id"`
	Name      string      `json:"name"`
	Aliases   []string    `json:"aliases,omitempty"`
	ShortDesc string      `json:"short_desc,omitempty"`
	LongDesc  string      `json:"long_desc,omitempty"`

	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	Alignment  Alignment `json:"alignment"`
	Currency   int       `json:"currency"`
	Favor      int       `json:"favor,omitempty"`

	Health   Vital `json:"health"`
	Mana     Vital `json:"mana"`
	Movement Vital `json:"movement"`
	Attributes

	HitDice    int   `json:"hit_dice"`
	DamageDice int   `json:"damage_dice"`
	Saves      Saves `json:"saves"`
	Flags      Flags `json:"flags"`

	Location Location `json:"location"`
	Home     Location `json:"home"`

	Inventory []*Item            `json:"inventory,omitempty"`
	Equipment map[WearSlot]*Item `json:"equipment,omitempty"`
	Skills    map[string]int     `json:"skills,omitempty"`
	Spells    map[string]int     `json:"spells,omitempty"`
	Effects   []*Effect          `json:"effects,omitempty"`

	// Fighting is the id of the current opponent, 0 when not engaged.
	Fighting CharacterId `json:"-"`

	Metrics Metrics `json:"metrics"`

	Player *PlayerData `json:"player,omitempty"`
	Mobile *MobileData `json:"mobile,omitempty"`
}

func (c *Character) UnmarshalJSON(b []byte) error {
	type Alias Character
	if err := json.Unmarshal(b, (*Alias)(c)); err != nil {
		return err
	}
	if c.Equipment == nil {
		c.Equipment = map[WearSlot]*Item{}
	}
	if c.Skills == nil {
		c.Skills = map[string]int{}
	}
	if c.Spells == nil {
		c.Spells = map[string]int{}
	}
	return nil
}

// NewPlayer builds a level 1 character with sane starting vitals.
func NewPlayer(id CharacterId, name string, home Location) *Character {
	stat := Vital{Max: 13, Current: 13}
	return &Character{
		Id:       id,
		Name:     name,
		Level:    1,
		Health:   Vital{Max: 20, Current: 20},
		Mana:     Vital{Max: 100, Current: 100},
		Movement: Vital{Max: 100, Current: 100},
		Attributes: Attributes{
			Str: stat, Int: stat, Wis: stat, Dex: stat, Con: stat,
		},
		HitDice:    1,
		DamageDice: 4,
		Saves:      Saves{Spell: 5, Negative: 5, Afflictive: 5, Maledictive: 5},
		Location:   home,
		Home:       home,
		Equipment:  map[WearSlot]*Item{},
		Skills:     map[string]int{SkillHandToHand: 50},
		Spells:     map[string]int{},
		Player: &PlayerData{
			Title:  "the Newbie",
			Hunger: Vital{Max: 48},
			Thirst: Vital{Max: 48},
		},
	}
}

// IsNPC reports whether the character is a mobile.
func (c *Character) IsNPC() bool {
	return c.Mobile != nil
}

func (c *Character) IsFighting() bool {
	return c.Fighting != 0
}

// IsDead reports a health value below zero, the transient death signal.
func (c *Character) IsDead() bool {
	return c.Health.Current < 0
}

// MatchName returns true if name matches the character's name or an alias (case-insensitive).
func (c *Character) MatchName(name string) bool {
	if strings.EqualFold(c.Name, name) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// DisplayName is the name used in third-person messages.
func (c *Character) DisplayName() string {
	if c.ShortDesc != "" {
		return c.ShortDesc
	}
	return c.Name
}

// Proficiency returns the learned skill value, 0 when unknown.
func (c *Character) Proficiency(skill string) int {
	return c.Skills[skill]
}

// Wielded returns the weapon in the wield slot, or nil.
func (c *Character) Wielded() *Item {
	if it := c.Equipment[WearWield]; it != nil && it.Type == ItemTypeWeapon {
		return it
	}
	return nil
}

// WornArmor returns equipped armor pieces ordered by slot.
func (c *Character) WornArmor() []*Item {
	var armor []*Item
	for _, slot := range c.EquippedSlots() {
		if it := c.Equipment[slot]; it.Type == ItemTypeArmor {
			armor = append(armor, it)
		}
	}
	return armor
}

// EquippedSlots returns the occupied wear slots in sorted order.
func (c *Character) EquippedSlots() []WearSlot {
	slots := make([]WearSlot, 0, len(c.Equipment))
	for slot, it := range c.Equipment {
		if it != nil {
			slots = append(slots, slot)
		}
	}
	slices.Sort(slots)
	return slots
}

// Unequip removes the item with instanceId from equipment.
func (c *Character) Unequip(instanceId string) *Item {
	for slot, it := range c.Equipment {
		if it != nil && it.InstanceId == instanceId {
			delete(c.Equipment, slot)
			return it
		}
	}
	return nil
}

// EffectResist sums the resistance bonuses of active effects.
func (c *Character) EffectResist() Resistances {
	var r Resistances
	for _, e := range c.Effects {
		r = r.Add(e.Resist)
	}
	return r
}

// Effect returns the active effect with the given name, or nil.
func (c *Character) Effect(name string) *Effect {
	for _, e := range c.Effects {
		if strings.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}

// AddEffect attaches e and raises its flag.
func (c *Character) AddEffect(e *Effect) {
	c.Effects = append(c.Effects, e)
	if e.Flag != 0 {
		c.Flags.Set(e.Flag)
	}
}

// RemoveEffect detaches e and lowers its flag unless another effect still holds it.
func (c *Character) RemoveEffect(e *Effect) {
	c.Effects = slices.DeleteFunc(slices.Clone(c.Effects), func(o *Effect) bool { return o == e })
	if e.Flag == 0 {
		return
	}
	for _, o := range c.Effects {
		if o.Flag == e.Flag {
			return
		}
	}
	c.Flags.Clear(e.Flag)
}

// Snapshot encodes the persisted parts of c so they can be written
// outside the world lock.
func (c *Character) Snapshot() ([]byte, error) {
	return json.Marshal(c)
}

// SortById orders characters by ascending id.
func SortById(chars []*Character) {
	slices.SortFunc(chars, func(a, b *Character) int {
		return cmp.Compare(a.Id, b.Id)
	})
}
