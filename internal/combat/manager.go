package combat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
)

// Manager drives the violence pass over every engaged character.
type Manager struct {
	world  *game.World
	engine *Engine
}

func NewManager(w *game.World, e *Engine) *Manager {
	return &Manager{world: w, engine: e}
}

// StartCombat engages a and b with each other unless either is already in a
// fight. It reports whether a new fight began.
func StartCombat(w *game.World, a, b *game.Character) bool {
	if a == b || a.IsFighting() || b.IsFighting() {
		return false
	}
	w.StartFighting(a, b)
	return true
}

// StopFighting ends c's fight on both sides.
func StopFighting(w *game.World, c *game.Character) {
	w.StopFighting(c)
}

// ViolencePass gives each engaged character one turn, in ascending id order.
// The world lock is taken for each turn separately so command handlers can
// interleave between turns. A panic inside one turn is logged and skipped.
func (m *Manager) ViolencePass(ctx context.Context) int {
	var ids []game.CharacterId
	m.world.Do(func() {
		for _, c := range m.world.Fighters() {
			ids = append(ids, c.Id)
		}
	})

	turns := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return turns
		}
		m.world.Do(func() {
			if m.turn(ctx, id) {
				turns++
			}
		})
	}
	return turns
}

func (m *Manager) turn(ctx context.Context, id game.CharacterId) (took bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "combat exchange panicked", "character", id, "panic", fmt.Sprint(r))
			took = false
		}
	}()

	actor := m.world.Character(id)
	if actor == nil || !actor.IsFighting() {
		return false
	}

	target := m.world.Character(actor.Fighting)
	if !m.validOpponent(actor, target) {
		m.world.StopFighting(actor)
		return false
	}

	// Sleeping and resting combatants are jolted awake.
	if actor.Flags.Has(game.FlagSleeping) || actor.Flags.Has(game.FlagResting) {
		actor.Flags.Clear(game.FlagSleeping)
		actor.Flags.Clear(game.FlagResting)
		m.engine.msg.Send(actor.Id, "You scramble to your feet!")
	}

	action := SelectCombatAction(actor)
	m.engine.ResolveExchange(ctx, actor, target, action)

	if m.validOpponent(actor, target) && actor.Proficiency(game.SkillSecondAttack) > 0 {
		if m.engine.checkProficiency(actor.Proficiency(game.SkillSecondAttack)) {
			m.engine.ResolveExchange(ctx, actor, target, action)
		}
	}
	return true
}

// validOpponent reports whether target is still a legitimate opponent: alive,
// in the world, in the same room and fighting actor back.
func (m *Manager) validOpponent(actor, target *game.Character) bool {
	if target == nil || !m.world.Contains(target) || !m.world.Contains(actor) {
		return false
	}
	if target.IsDead() || actor.IsDead() {
		return false
	}
	return target.Location == actor.Location && target.Fighting == actor.Id
}

// Report describes target's condition for look and consider output.
func Report(target *game.Character) string {
	return fmt.Sprintf("%s %s.", display.Capitalize(target.DisplayName()),
		Condition(HealthPercent(target.Health.Current, target.Health.Max)))
}
