// Package repop keeps areas converged on their reset population and moves
// wandering mobiles around.
package repop

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/combat"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/rng"
	"github.com/pixil98/tickmud/internal/storage"
)

// Result counts the changes one repopulation pass made.
type Result struct {
	Spawned int
	Removed int
}

func (r *Result) add(o Result) {
	r.Spawned += o.Spawned
	r.Removed += o.Removed
}

// Engine implements repopulation, wandering and cleanup. Methods other than
// Populate expect the world lock to be held.
type Engine struct {
	world   *game.World
	msg     game.Messenger
	rng     rng.Provider
	queue   Submitter
	chatter Chatter

	wanderChance int
}

func NewEngine(w *game.World, msg game.Messenger, r rng.Provider, opts ...EngineOpt) *Engine {
	e := &Engine{
		world:        w,
		msg:          msg,
		rng:          r,
		wanderChance: DefaultWanderChance,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Populate repopulates every area, taking the world lock once per area.
func (e *Engine) Populate(ctx context.Context) error {
	el := errors.NewErrorList()
	var total Result

	var areas []*game.Area
	e.world.Do(func() { areas = e.world.Areas() })

	for _, a := range areas {
		e.world.Do(func() {
			res, err := e.Repopulate(ctx, a)
			total.add(res)
			el.Add(err)
		})
	}

	slog.InfoContext(ctx, "world populated", "areas", len(areas), "spawned", total.Spawned, "removed", total.Removed)
	return el.Err()
}

// Repopulate converges the items and mobiles of area on the counts named by
// its rooms' reset lists. Template ids are processed in sorted order.
func (e *Engine) Repopulate(ctx context.Context, area *game.Area) (Result, error) {
	el := errors.NewErrorList()
	var res Result

	items, mobiles := resetRooms(area)

	for _, id := range sortedKeys(items) {
		r, err := e.convergeItems(area, id, items[id])
		res.add(r)
		el.Add(err)
	}
	for _, id := range sortedKeys(mobiles) {
		r, err := e.convergeMobiles(area, id, mobiles[id])
		res.add(r)
		el.Add(err)
	}

	if res.Spawned > 0 || res.Removed > 0 {
		slog.DebugContext(ctx, "area repopulated", "area", area.Id, "spawned", res.Spawned, "removed", res.Removed)
	}
	return res, el.Err()
}

// target is the wanted count of one template and the rooms that list it.
type target struct {
	count int
	rooms []*game.Room
}

func (t *target) add(r *game.Room) {
	t.count++
	if !slices.Contains(t.rooms, r) {
		t.rooms = append(t.rooms, r)
	}
}

func resetRooms(area *game.Area) (items, mobiles map[storage.Identifier]*target) {
	items = map[storage.Identifier]*target{}
	mobiles = map[storage.Identifier]*target{}

	get := func(m map[storage.Identifier]*target, id storage.Identifier) *target {
		t, ok := m[id]
		if !ok {
			t = &target{}
			m[id] = t
		}
		return t
	}

	for _, r := range area.Rooms() {
		for _, it := range r.Template.Resets.Items {
			get(items, it.Id()).add(r)
		}
		for _, mr := range r.Template.Resets.Mobiles {
			get(mobiles, mr.Mobile.Id()).add(r)
		}
	}
	return items, mobiles
}

func sortedKeys(m map[storage.Identifier]*target) []storage.Identifier {
	keys := make([]storage.Identifier, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (e *Engine) convergeItems(area *game.Area, id storage.Identifier, t *target) (Result, error) {
	var res Result

	current := 0
	for _, r := range area.Rooms() {
		current += r.CountItems(id)
	}

	for range t.count - current {
		room := t.rooms[e.rng.Exclusive(0, len(t.rooms))]
		it, err := e.world.SpawnItem(id)
		if err != nil {
			return res, fmt.Errorf("repopulating %s: %w", area.Id, err)
		}
		room.AddItem(it)
		res.Spawned++
	}

	for range current - t.count {
		var holding []*game.Room
		for _, r := range area.Rooms() {
			if r.CountItems(id) > 0 {
				holding = append(holding, r)
			}
		}
		room := holding[e.rng.Exclusive(0, len(holding))]
		idx := slices.IndexFunc(room.Items(), func(it *game.Item) bool { return it.TemplateId == id })
		room.RemoveItem(room.Items()[idx].InstanceId)
		res.Removed++
	}

	return res, nil
}

func (e *Engine) convergeMobiles(area *game.Area, id storage.Identifier, t *target) (Result, error) {
	var res Result

	current := 0
	for _, r := range area.Rooms() {
		current += r.CountMobiles(id)
	}

	for range t.count - current {
		room := t.rooms[e.rng.Exclusive(0, len(t.rooms))]
		if err := e.spawnMobile(room, id); err != nil {
			return res, fmt.Errorf("repopulating %s: %w", area.Id, err)
		}
		res.Spawned++
	}

	for range current - t.count {
		var holding []*game.Room
		for _, r := range area.Rooms() {
			if removable(r, id) != nil {
				holding = append(holding, r)
			}
		}
		if len(holding) == 0 {
			// Everything left is fighting.
			break
		}
		room := holding[e.rng.Exclusive(0, len(holding))]
		e.world.RemoveCharacter(removable(room, id))
		res.Removed++
	}

	return res, nil
}

// removable returns the first instance of id in r that is not fighting.
func removable(r *game.Room, id storage.Identifier) *game.Character {
	for _, m := range r.Mobiles() {
		if m.Mobile.Template == id && !m.IsFighting() {
			return m
		}
	}
	return nil
}

// spawnMobile creates an instance of id in room wearing the equipment listed
// by room's first reset entry for id.
func (e *Engine) spawnMobile(room *game.Room, id storage.Identifier) error {
	mob, err := e.world.SpawnMobile(id)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(room.Template.Resets.Mobiles, func(mr game.MobileReset) bool { return mr.Mobile.Id() == id })
	if idx >= 0 {
		for _, eq := range room.Template.Resets.Mobiles[idx].Equipment {
			it, err := e.world.SpawnItem(eq.Id())
			if err != nil {
				return err
			}
			if !mob.Equip(it) {
				mob.Inventory = append(mob.Inventory, it)
			}
		}
	}

	AssignSkills(mob)
	return e.world.Place(mob, room.Location())
}

// AssignSkills grants mob the combat skills its level, weapon and dexterity
// call for.
func AssignSkills(mob *game.Character) {
	prof := min(95, 50+mob.Level)
	if mob.Skills == nil {
		mob.Skills = map[string]int{}
	}

	if mob.Wielded() != nil {
		if a := combat.SelectCombatAction(mob); a != combat.HandToHand {
			mob.Skills[a.Name] = prof
			mob.Skills[game.SkillParry] = prof
		}
	}
	mob.Skills[game.SkillHandToHand] = prof
	mob.Skills[game.SkillDodge] = prof

	if mob.Dex.Current >= 16 {
		mob.Skills[game.SkillEvasive] = prof
	}
	if mob.Level >= 20 {
		mob.Skills[game.SkillSecondAttack] = prof
	}
}
