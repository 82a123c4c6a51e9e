package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/storage"
)

// ItemType defines the category of an item.
type ItemType int

const (
	ItemTypeUnknown ItemType = iota
	ItemTypeOther
	ItemTypeArmor
	ItemTypeWeapon
	ItemTypeContainer
	ItemTypeFood
	ItemTypeDrink
	ItemTypePotion
	ItemTypeLight
	ItemTypeSpring
	ItemTypeCorpse
)

var itemTypeNames = map[string]ItemType{
	"other":     ItemTypeOther,
	"armor":     ItemTypeArmor,
	"weapon":    ItemTypeWeapon,
	"container": ItemTypeContainer,
	"food":      ItemTypeFood,
	"drink":     ItemTypeDrink,
	"potion":    ItemTypePotion,
	"light":     ItemTypeLight,
	"spring":    ItemTypeSpring,
	"corpse":    ItemTypeCorpse,
}

// ParseItemType returns the ItemType for s, or ItemTypeUnknown.
func ParseItemType(s string) ItemType {
	return itemTypeNames[strings.ToLower(s)]
}

// WearSlot names a place an item can be equipped.
type WearSlot string

const (
	WearWield  WearSlot = "wield"
	WearHead   WearSlot = "head"
	WearBody   WearSlot = "body"
	WearArms   WearSlot = "arms"
	WearHands  WearSlot = "hands"
	WearLegs   WearSlot = "legs"
	WearFeet   WearSlot = "feet"
	WearShield WearSlot = "shield"
	WearLight  WearSlot = "light"
)

// RotNever marks an item that never decays.
const RotNever = -1

// ItemTemplate defines a type of item loaded from asset files.
// Item IDs follow the convention <area>-<name> (e.g., "millbrook-sword").
type ItemTemplate struct {
	// Aliases are keywords players can use to target this item (e.g., ["sword", "blade"])
	Aliases []string `json:"aliases"`

	// ShortDesc is used in action messages (e.g., "You pick up a rusty sword.")
	ShortDesc string `json:"short_desc"`

	// LongDesc is shown when the item is on the ground in a room
	LongDesc string `json:"long_desc"`

	TypeStr    string      `json:"type"`
	Wear       []WearSlot  `json:"wear,omitempty"`
	DamageType DamageType  `json:"damage_type,omitempty"`
	Resist     Resistances `json:"resist,omitempty"`
	Durability int         `json:"durability,omitempty"`

	// Rot is the number of game ticks the item lasts, RotNever by default.
	Rot *int `json:"rot,omitempty"`

	Value int `json:"value,omitempty"`
}

// Type returns the parsed ItemType from TypeStr.
func (t *ItemTemplate) Type() ItemType {
	return ParseItemType(t.TypeStr)
}

// Validate satisfies storage.ValidatingSpec
func (t *ItemTemplate) Validate() error {
	el := errors.NewErrorList()
	if len(t.Aliases) < 1 {
		el.Add(fmt.Errorf("item alias is required"))
	}
	if t.ShortDesc == "" {
		el.Add(fmt.Errorf("item short description is required"))
	}
	if t.TypeStr == "" {
		el.Add(fmt.Errorf("item type is required"))
	} else if t.Type() == ItemTypeUnknown {
		el.Add(fmt.Errorf("item type %q is invalid", t.TypeStr))
	}
	if t.Type() == ItemTypeWeapon && t.DamageType == DamageNone {
		el.Add(fmt.Errorf("weapon damage_type is required"))
	}
	if t.Durability < 0 {
		el.Add(fmt.Errorf("durability must not be negative"))
	}
	if t.Rot != nil && *t.Rot < RotNever {
		el.Add(fmt.Errorf("rot must be %d or greater", RotNever))
	}
	return el.Err()
}

// Spawn builds a fresh, independently owned instance of the template.
func (t *ItemTemplate) Spawn(id storage.Identifier) *Item {
	rot := RotNever
	if t.Rot != nil {
		rot = *t.Rot
	}
	return &Item{
		InstanceId: uuid.NewString(),
		TemplateId: id,
		Aliases:    append([]string(nil), t.Aliases...),
		ShortDesc:  t.ShortDesc,
		LongDesc:   t.LongDesc,
		Type:       t.Type(),
		Wear:       append([]WearSlot(nil), t.Wear...),
		DamageType: t.DamageType,
		Resist:     t.Resist,
		Durability: Vital{Max: t.Durability, Current: t.Durability},
		Rot:        rot,
		Value:      t.Value,
	}
}

// Item is a single spawned item. It is owned by exactly one collection:
// a room floor, a character inventory or equipment slot, or a container.
type Item struct {
	InstanceId string             `json:"instance_id"`
	TemplateId storage.Identifier `json:"template_id,omitempty"`

	Aliases   []string `json:"aliases"`
	ShortDesc string   `json:"short_desc"`
	LongDesc  string   `json:"long_desc,omitempty"`

	Type       ItemType    `json:"type"`
	Wear       []WearSlot  `json:"wear,omitempty"`
	DamageType DamageType  `json:"damage_type,omitempty"`
	Resist     Resistances `json:"resist,omitempty"`
	Durability Vital       `json:"durability"`

	// Rot counts game ticks until the item decays. RotNever disables decay
	// and 0 means it expires this tick.
	Rot int `json:"rot"`

	Value    int     `json:"value,omitempty"`
	Currency int     `json:"currency,omitempty"`
	Contents []*Item `json:"contents,omitempty"`
}

// Clone deep copies the item, including its contents, under new instance ids.
func (i *Item) Clone() *Item {
	c := *i
	c.InstanceId = uuid.NewString()
	c.Aliases = append([]string(nil), i.Aliases...)
	c.Wear = append([]WearSlot(nil), i.Wear...)
	c.Contents = nil
	for _, ci := range i.Contents {
		c.Contents = append(c.Contents, ci.Clone())
	}
	return &c
}

// MatchName returns true if name matches any of this item's aliases (case-insensitive).
func (i *Item) MatchName(name string) bool {
	for _, alias := range i.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// Decays reports whether the rot timer is running.
func (i *Item) Decays() bool {
	return i.Rot >= 0
}

// RemoveItem deletes the item with instanceId from items, preserving order.
func RemoveItem(items []*Item, instanceId string) ([]*Item, *Item) {
	for idx, it := range items {
		if it.InstanceId == instanceId {
			return append(items[:idx:idx], items[idx+1:]...), it
		}
	}
	return items, nil
}
