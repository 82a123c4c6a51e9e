package combat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error.
func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// Perform runs a combat command typed by actor. Refusals are sent to the
// actor as plain text; only system failures are returned.
//
//	kill <target>
//	cast <spell> [target]
//	cast '<spell words>' [target]
func (e *Engine) Perform(ctx context.Context, actor *game.Character, input string) error {
	verb, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	args = strings.TrimSpace(args)

	var err error
	switch strings.ToLower(verb) {
	case "kill", "k":
		err = e.Kill(ctx, actor, args)
	case "cast", "c":
		spell, target := splitSpell(args)
		err = e.Cast(ctx, actor, spell, target)
	default:
		err = NewUserError("Huh?")
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		e.msg.Send(actor.Id, userErr.Message)
		return nil
	}
	return err
}

// splitSpell separates a possibly quoted spell name from the target.
func splitSpell(args string) (spell, target string) {
	if rest, ok := strings.CutPrefix(args, "'"); ok {
		spell, target, _ = strings.Cut(rest, "'")
		return strings.TrimSpace(spell), strings.TrimSpace(target)
	}
	spell, target, _ = strings.Cut(args, " ")
	return spell, strings.TrimSpace(target)
}

// Kill starts a fight between actor and the named character in the same room.
func (e *Engine) Kill(ctx context.Context, actor *game.Character, name string) error {
	if actor.IsFighting() {
		return NewUserError("You are already fighting!")
	}
	if actor.Flags.Has(game.FlagGhost) {
		return NewUserError("You can't fight while you are a ghost.")
	}
	if name == "" {
		return NewUserError("Kill whom?")
	}

	target := e.findTarget(actor, name)
	if target == nil {
		return NewUserError("They aren't here.")
	}
	if target.IsFighting() {
		return NewUserError("They are already fighting someone else.")
	}

	e.world.StartFighting(actor, target)
	e.msg.Send(actor.Id, fmt.Sprintf("You attack %s!", target.DisplayName()))
	e.msg.Send(target.Id, fmt.Sprintf("%s attacks you!", display.Capitalize(actor.DisplayName())))
	e.ResolveExchange(ctx, actor, target, SelectCombatAction(actor))
	return nil
}

// Cast invokes a known spell on the named target, or on the current opponent
// when no target is given.
func (e *Engine) Cast(ctx context.Context, actor *game.Character, spell, targetName string) error {
	action := Lookup(spell)
	if action == nil || action.Kind != KindSpell || actor.Spells[action.Name] <= 0 {
		return NewUserError("You don't know that spell.")
	}

	var target *game.Character
	if targetName == "" {
		if !actor.IsFighting() {
			return NewUserError("Cast the spell on whom?")
		}
		target = e.world.Character(actor.Fighting)
	} else {
		target = e.findTarget(actor, targetName)
	}
	if target == nil || target.Location != actor.Location {
		return NewUserError("They aren't here.")
	}

	if actor.Mana.Current < action.ManaCost {
		return NewUserError("You don't have enough mana.")
	}
	if action.Affect != nil && target.Effect(action.Name) != nil {
		return NewUserError("They are already affected.")
	}

	if !e.checkProficiency(actor.Spells[action.Name]) {
		actor.Mana.Current -= action.ManaCost / 2
		e.msg.Send(actor.Id, "You lost your concentration.")
		e.improve(actor, actor.Spells, action.Name)
		return nil
	}
	actor.Mana.Current -= action.ManaCost

	if action.Affect != nil {
		e.applyAffect(actor, target, action)
	} else {
		e.ResolveExchange(ctx, actor, target, action)
	}

	if e.world.Contains(target) && !target.IsDead() && !actor.IsFighting() && !target.IsFighting() {
		e.world.StartFighting(actor, target)
	}
	return nil
}

func (e *Engine) findTarget(actor *game.Character, name string) *game.Character {
	room := e.world.Room(actor.Location)
	if room == nil {
		return nil
	}
	target := room.FindOccupant(name, actor.Id)
	if target == nil || target.Flags.Has(game.FlagGhost) {
		return nil
	}
	return target
}

func (e *Engine) applyAffect(actor, target *game.Character, action *Action) {
	if e.IsSaveSuccessful(target, action) {
		e.msg.Send(actor.Id, fmt.Sprintf("%s resists your %s.", display.Capitalize(target.DisplayName()), action.Noun))
		e.msg.Send(target.Id, fmt.Sprintf("You resist %s's %s.", actor.DisplayName(), action.Noun))
		return
	}

	eff := &game.Effect{
		Name:     action.Name,
		Caster:   actor.Id,
		Duration: action.Affect.Duration,
		Resist:   action.Affect.Resist,
		Flag:     action.Affect.Flag,
		WearsOff: action.Affect.WearsOff,
	}
	if action.Affect.Periodic {
		eff.Periodic = action.Name
	}
	target.AddEffect(eff)

	e.msg.Send(target.Id, action.Affect.ToVictim)
	e.msg.SendToRoom(target.Location, []game.CharacterId{target.Id},
		fmt.Sprintf(action.Affect.ToRoom, display.Capitalize(target.DisplayName())))
}

// PeriodicDamage re-runs the damage of the effect's action against its
// bearer. Deaths route through HandleDeath with the caster as killer when
// the caster is still in the world.
func (e *Engine) PeriodicDamage(ctx context.Context, victim *game.Character, eff *game.Effect) {
	action := Lookup(eff.Periodic)
	if action == nil || !e.world.Contains(victim) || victim.IsDead() {
		return
	}

	caster := e.world.Character(eff.Caster)
	source := caster
	if source == nil {
		source = victim
	}

	damage := e.CalculateDamage(source, victim, action)
	e.msg.Send(victim.Id, fmt.Sprintf("You suffer from the %s.", action.Noun))
	e.msg.SendToRoom(victim.Location, []game.CharacterId{victim.Id},
		fmt.Sprintf("%s shivers and suffers.", display.Capitalize(victim.DisplayName())))

	victim.Health.Current -= damage
	if victim.IsDead() {
		e.HandleDeath(ctx, caster, victim)
	}
}
