package repop

import (
	"context"
	"fmt"

	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
)

type move struct {
	mob *game.Character
	dir string
	to  *game.Room
}

// WanderPass runs Wander over every room of every area and returns the
// number of mobiles that moved. A mobile moves at most once per pass.
func (e *Engine) WanderPass(ctx context.Context) int {
	moved := map[game.CharacterId]bool{}
	n := 0
	for _, a := range e.world.Areas() {
		for _, r := range a.Rooms() {
			n += e.wander(ctx, r, moved)
		}
	}
	return n
}

// Wander gives each idle wandering mobile in r a chance to walk through a
// random exit. Moves are applied once every mobile in r has been considered.
func (e *Engine) Wander(ctx context.Context, r *game.Room) int {
	return e.wander(ctx, r, map[game.CharacterId]bool{})
}

func (e *Engine) wander(ctx context.Context, r *game.Room, moved map[game.CharacterId]bool) int {
	var moves []move

	for _, mob := range r.Mobiles() {
		if moved[mob.Id] {
			continue
		}
		if !mob.Flags.Has(game.FlagWander) || mob.Flags.Has(game.FlagCharmed) || mob.IsFighting() {
			continue
		}
		if mob.Location != r.Location() {
			continue
		}
		if e.rng.Inclusive(1, 100) > e.wanderChance {
			continue
		}

		dirs := r.ExitDirections()
		if len(dirs) == 0 {
			continue
		}
		dir := dirs[e.rng.Exclusive(0, len(dirs))]
		exit := r.Exits[dir]
		if exit.Area != r.Area {
			continue
		}
		to := e.world.Room(game.Location{Area: exit.Area, Room: exit.Room})
		if to == nil || to.HasFlag(game.FlagNoMobs) {
			continue
		}

		if exit.Door != nil && exit.Door.Closed {
			if exit.Door.Locked {
				continue
			}
			exit.Door.Closed = false
			e.msg.SendToRoom(r.Location(), nil, fmt.Sprintf("%s opens the door to the %s.", display.Capitalize(mob.DisplayName()), dir))
			continue
		}

		moves = append(moves, move{mob: mob, dir: dir, to: to})
	}

	for _, mv := range moves {
		moved[mv.mob.Id] = true
		e.apply(ctx, r, mv)
	}
	return len(moves)
}

func (e *Engine) apply(ctx context.Context, from *game.Room, mv move) {
	if err := e.world.Move(mv.mob, mv.to.Location()); err != nil {
		return
	}
	name := display.Capitalize(mv.mob.DisplayName())
	exclude := []game.CharacterId{mv.mob.Id}
	e.msg.SendToRoom(from.Location(), exclude, fmt.Sprintf("%s leaves %s.", name, mv.dir))
	e.msg.SendToRoom(mv.to.Location(), exclude, fmt.Sprintf("%s has arrived.", name))
	e.greet(ctx, mv.mob, mv.to)
}
