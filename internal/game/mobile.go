package game

import (
	"fmt"
	"maps"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/storage"
)

// MobileTemplate defines a type of mobile entity loaded from asset files.
// Multiple instances can be spawned from one definition.
// Mobile IDs follow the convention <area>-<name> (e.g., "millbrook-guard").
type MobileTemplate struct {
	// Aliases are keywords players can use to target this mobile (e.g., ["guard", "town"])
	Aliases []string `json:"aliases"`

	// ShortDesc is used in action messages (e.g., "The town guard hits you.")
	ShortDesc string `json:"short_desc"`

	// LongDesc is shown when the mobile is in its default position in a room
	// (e.g., "A burly guard in chain mail keeps watch over the square.")
	LongDesc string `json:"long_desc"`

	Level      int            `json:"level"`
	Alignment  Alignment      `json:"alignment"`
	Currency   int            `json:"currency,omitempty"`
	Health     int            `json:"health"`
	Mana       int            `json:"mana,omitempty"`
	Movement   int            `json:"movement,omitempty"`
	Attributes map[string]int `json:"attributes,omitempty"`
	HitDice    int            `json:"hit_dice,omitempty"`
	DamageDice int            `json:"damage_dice,omitempty"`
	Saves      Saves          `json:"saves,omitempty"`
	Flags      Flags          `json:"flags,omitempty"`
	Spells     map[string]int `json:"spells,omitempty"`

	// Inventory is the mobile's starting inventory
	Inventory []storage.SmartIdentifier[*ItemTemplate] `json:"inventory,omitempty"`
}

// Resolve resolves foreign keys from the dictionary.
func (m *MobileTemplate) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	for i := range m.Inventory {
		el.Add(m.Inventory[i].Resolve(dict.Items))
	}
	return el.Err()
}

// Validate satisfies storage.ValidatingSpec
func (m *MobileTemplate) Validate() error {
	el := errors.NewErrorList()
	if len(m.Aliases) < 1 {
		el.Add(fmt.Errorf("mobile alias is required"))
	}
	if m.ShortDesc == "" {
		el.Add(fmt.Errorf("mobile short description is required"))
	}
	if m.Level < 1 || m.Level > MaxLevel {
		el.Add(fmt.Errorf("mobile level must be between 1 and %d", MaxLevel))
	}
	if m.Health < 1 {
		el.Add(fmt.Errorf("mobile health must be positive"))
	}
	for name := range m.Attributes {
		if _, ok := attributeFields[name]; !ok {
			el.Add(fmt.Errorf("unknown attribute %q", name))
		}
	}
	return el.Err()
}

var attributeFields = map[string]func(*Attributes) *Vital{
	"str": func(a *Attributes) *Vital { return &a.Str },
	"int": func(a *Attributes) *Vital { return &a.Int },
	"wis": func(a *Attributes) *Vital { return &a.Wis },
	"dex": func(a *Attributes) *Vital { return &a.Dex },
	"con": func(a *Attributes) *Vital { return &a.Con },
}

// Spawn builds a fresh mobile instance from the template. Nothing in the
// returned character aliases template memory.
func (m *MobileTemplate) Spawn(id CharacterId, tmplId storage.Identifier) *Character {
	attrs := Attributes{}
	for _, f := range attributeFields {
		*f(&attrs) = Vital{Max: 13, Current: 13}
	}
	for name, v := range m.Attributes {
		if f, ok := attributeFields[name]; ok {
			*f(&attrs) = Vital{Max: v, Current: v}
		}
	}

	c := &Character{
		Id:         id,
		Name:       m.Aliases[0],
		Aliases:    append([]string(nil), m.Aliases...),
		ShortDesc:  m.ShortDesc,
		LongDesc:   m.LongDesc,
		Level:      m.Level,
		Alignment:  m.Alignment,
		Currency:   m.Currency,
		Health:     Vital{Max: m.Health, Current: m.Health},
		Mana:       Vital{Max: m.Mana, Current: m.Mana},
		Movement:   Vital{Max: m.Movement, Current: m.Movement},
		Attributes: attrs,
		HitDice:    m.HitDice,
		DamageDice: m.DamageDice,
		Saves:      m.Saves,
		Flags:      m.Flags,
		Equipment:  map[WearSlot]*Item{},
		Skills:     map[string]int{},
		Spells:     maps.Clone(m.Spells),
		Mobile:     &MobileData{Template: tmplId},
	}
	if c.Spells == nil {
		c.Spells = map[string]int{}
	}
	for _, inv := range m.Inventory {
		if tmpl := inv.Get(); tmpl != nil {
			c.Inventory = append(c.Inventory, tmpl.Spawn(inv.Id()))
		}
	}
	return c
}

// Equip wears it in the first of its wear slots that is free.
func (c *Character) Equip(it *Item) bool {
	for _, slot := range it.Wear {
		if c.Equipment[slot] == nil {
			c.Equipment[slot] = it
			return true
		}
	}
	return false
}
