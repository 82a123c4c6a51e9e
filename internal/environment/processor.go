// Package environment runs the per game tick upkeep of every character:
// recovery, hunger and thirst, timed effects, item rot and ambient flavor.
package environment

import (
	"context"
	"fmt"

	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/rng"
)

// PeriodicHandler re-runs a damage-over-time effect against its bearer.
type PeriodicHandler interface {
	PeriodicDamage(ctx context.Context, victim *game.Character, eff *game.Effect)
}

// Processor applies environment rules. All methods expect the world lock
// to be held.
type Processor struct {
	world    *game.World
	msg      game.Messenger
	rng      rng.Provider
	periodic PeriodicHandler

	standardRate   int
	restingFactor  int
	sleepingFactor int
	weatherChance  int
	immortalLevel  int
}

func NewProcessor(w *game.World, msg game.Messenger, r rng.Provider, periodic PeriodicHandler, opts ...ProcessorOpt) *Processor {
	p := &Processor{
		world:          w,
		msg:            msg,
		rng:            r,
		periodic:       periodic,
		standardRate:   DefaultStandardRate,
		restingFactor:  DefaultRestingFactor,
		sleepingFactor: DefaultSleepingFactor,
		weatherChance:  DefaultWeatherChance,
		immortalLevel:  DefaultImmortalLevel,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Tick runs one game tick of upkeep over every character and room.
// Recovery precedes affect decay for each character.
func (p *Processor) Tick(ctx context.Context) {
	chars := append(p.world.Players(), p.world.Mobiles()...)
	for _, c := range chars {
		if !p.world.Contains(c) {
			continue
		}
		p.Recover(c)
		p.DecayAffects(ctx, c)
		if p.world.Contains(c) {
			p.RotItems(c)
		}
	}

	for _, a := range p.world.Areas() {
		for _, r := range a.Rooms() {
			p.DecayRoomItems(r)
		}
	}

	p.Ambient()
}

// Recover restores health, mana and movement. Players below the immortal
// level also grow hungrier and thirstier.
func (p *Processor) Recover(c *game.Character) {
	amount := p.standardRate
	switch {
	case c.Flags.Has(game.FlagSleeping):
		amount *= p.sleepingFactor
	case c.Flags.Has(game.FlagResting):
		amount *= p.restingFactor
	}

	c.Movement.Restore(amount)
	c.Mana.Restore(amount)
	c.Health.Restore(amount)

	if c.Player == nil || c.Level >= p.immortalLevel {
		return
	}
	if accrue(&c.Player.Hunger) {
		p.msg.Send(c.Id, "You are hungry.")
	}
	if accrue(&c.Player.Thirst) {
		p.msg.Send(c.Id, "You are thirsty.")
	}
}

// accrue raises a need counter toward its max and reports whether it is at max.
func accrue(v *game.Vital) bool {
	if v.Max <= 0 {
		return false
	}
	v.Current = min(v.Current+1, v.Max)
	return v.Current >= v.Max
}

// DecayAffects counts every effect down by one tick and fires periodic
// effects that are still running. Effects whose duration went negative are
// removed afterwards.
func (p *Processor) DecayAffects(ctx context.Context, c *game.Character) {
	for _, eff := range c.Effects {
		eff.Duration--
		if eff.Duration < 0 || eff.Caster == 0 || eff.Periodic == "" || p.periodic == nil {
			continue
		}
		p.periodic.PeriodicDamage(ctx, c, eff)
		if !p.world.Contains(c) {
			return
		}
	}

	for _, eff := range c.Effects {
		if eff.Duration >= 0 {
			continue
		}
		c.RemoveEffect(eff)
		if eff.WearsOff != "" {
			p.msg.Send(c.Id, eff.WearsOff)
		}
	}
}

// RotItems ages carried and worn items. An item whose timer reaches 0
// crumbles and is removed.
func (p *Processor) RotItems(c *game.Character) {
	for _, it := range c.Inventory {
		if p.rot(it) {
			c.Inventory, _ = game.RemoveItem(c.Inventory, it.InstanceId)
			p.decayed(c, it)
		}
	}
	for _, slot := range c.EquippedSlots() {
		it := c.Equipment[slot]
		if p.rot(it) {
			c.Unequip(it.InstanceId)
			p.decayed(c, it)
		}
	}
}

// DecayRoomItems ages items lying on the floor. Expired floor items are left
// for the cleanup pass to remove.
func (p *Processor) DecayRoomItems(r *game.Room) {
	for _, it := range r.Items() {
		if it.Rot > 0 {
			it.Rot--
		}
	}
}

// rot counts it down and reports whether it has expired.
func (p *Processor) rot(it *game.Item) bool {
	if !it.Decays() {
		return false
	}
	if it.Rot > 0 {
		it.Rot--
	}
	return it.Rot == 0
}

func (p *Processor) decayed(c *game.Character, it *game.Item) {
	verb := "disintegrates"
	if it.Type == game.ItemTypeSpring {
		verb = "dries up"
	}
	p.msg.Send(c.Id, fmt.Sprintf("%s %s.", display.Capitalize(it.ShortDesc), verb))
	p.msg.SendToRoom(c.Location, []game.CharacterId{c.Id},
		fmt.Sprintf("%s's %s %s.", display.Capitalize(c.DisplayName()), it.ShortDesc, verb))
}
