package combat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/rng"
)

const (
	DefaultGhostDuration   = 5
	DefaultMobCorpseRot    = 10
	DefaultPlayerCorpseRot = 30
)

// Leveler checks whether a character has enough experience to advance.
type Leveler interface {
	CheckAdvance(ctx context.Context, c *game.Character) bool
}

// Engine resolves combat between characters. All methods expect the world
// lock to be held.
type Engine struct {
	world   *game.World
	msg     game.Messenger
	rng     rng.Provider
	saver   game.CharacterSaver
	leveler Leveler

	ghostDuration   int
	mobCorpseRot    int
	playerCorpseRot int
}

func NewEngine(w *game.World, msg game.Messenger, r rng.Provider, saver game.CharacterSaver, opts ...EngineOpt) *Engine {
	e := &Engine{
		world:           w,
		msg:             msg,
		rng:             r,
		saver:           saver,
		ghostDuration:   DefaultGhostDuration,
		mobCorpseRot:    DefaultMobCorpseRot,
		playerCorpseRot: DefaultPlayerCorpseRot,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ResolveExchange runs one attack of actor against target.
func (e *Engine) ResolveExchange(ctx context.Context, actor, target *game.Character, action *Action) {
	if target.IsDead() || actor.IsDead() || !e.world.Contains(target) {
		return
	}

	if !action.Automatic() {
		prof := actor.Proficiency(action.Name)
		if prof <= 0 {
			e.sendMiss(actor, target, action)
			return
		}
		if !e.checkProficiency(prof) {
			e.sendMiss(actor, target, action)
			e.improve(actor, actor.Skills, action.Name)
			return
		}
	}

	blocked := e.CheckArmorBlock(actor, target, action)

	damage := 0
	if !blocked {
		damage = e.CalculateDamage(actor, target, action)
	}
	e.sendHit(actor, target, action, damage, blocked)

	target.Health.Current -= damage
	if target.IsDead() {
		e.HandleDeath(ctx, actor, target)
	}
}

// IsSaveSuccessful rolls a d20 save for target against action. A natural 1
// always fails.
func (e *Engine) IsSaveSuccessful(target *game.Character, action *Action) bool {
	roll := e.rng.Inclusive(1, 20)
	if roll == 1 {
		return false
	}
	return roll < target.Saves.For(action.DamageType.SaveCategory())
}

// CheckArmorBlock rolls against the target's worn armor for the action's
// damage type. A block wears down one random armor piece and destroys it
// when its durability runs out.
func (e *Engine) CheckArmorBlock(actor, target *game.Character, action *Action) bool {
	if len(target.Equipment) == 0 {
		return false
	}

	armor := target.WornArmor()
	chance := target.EffectResist().For(action.DamageType)
	for _, it := range armor {
		chance += it.Resist.For(action.DamageType)
	}

	if e.rng.Inclusive(1, 100) >= chance {
		return false
	}

	name := display.Capitalize(target.DisplayName())
	if len(armor) == 0 {
		e.msg.SendToRoom(target.Location, nil, fmt.Sprintf("%s's protection absorbs the blow.", name))
		return true
	}

	piece := armor[e.rng.Exclusive(0, len(armor))]
	piece.Durability.Current--
	if piece.Durability.Current <= 0 {
		piece.Durability.Current = 0
		target.Unequip(piece.InstanceId)
		e.msg.SendToRoom(target.Location, nil, fmt.Sprintf("%s's %s is destroyed!", name, piece.ShortDesc))
	} else {
		e.msg.SendToRoom(target.Location, nil, fmt.Sprintf("%s's %s absorbs the blow.", name, piece.ShortDesc))
	}
	return true
}

// CalculateDamage rolls damage for action. Spells bring their own dice;
// skills use the actor's, floored at 1d4.
func (e *Engine) CalculateDamage(actor, target *game.Character, action *Action) int {
	hitDice, damDice := max(1, actor.HitDice), max(4, actor.DamageDice)
	if action.Kind == KindSpell {
		hitDice, damDice = action.HitDice, action.DamageDice
	}

	rolled := 0
	for range hitDice {
		rolled += e.rng.Exclusive(1, damDice)
	}

	adjust := (actor.Level / max(1, target.Level)) * action.DamageModifier

	if action.SaveForHalf && e.IsSaveSuccessful(target, action) {
		return max(0, (rolled+adjust)/2)
	}
	return max(0, rolled+adjust)
}

func (e *Engine) checkProficiency(prof int) bool {
	return e.rng.Inclusive(1, 100) <= prof
}

// improve gives a failed attempt a chance to raise the proficiency by one.
func (e *Engine) improve(c *game.Character, profs map[string]int, name string) {
	prof := profs[name]
	if prof <= 0 || prof >= 100 {
		return
	}
	if e.rng.Inclusive(1, 100) > prof {
		profs[name] = prof + 1
		e.msg.Send(c.Id, fmt.Sprintf("You have become better at %s!", name))
	}
}

func (e *Engine) sendMiss(actor, target *game.Character, action *Action) {
	e.msg.Send(actor.Id, fmt.Sprintf("Your %s misses %s.", action.Noun, target.DisplayName()))
	e.msg.Send(target.Id, fmt.Sprintf("%s's %s misses you.", display.Capitalize(actor.DisplayName()), action.Noun))
	e.msg.SendToRoom(actor.Location, []game.CharacterId{actor.Id, target.Id},
		fmt.Sprintf("%s's %s misses %s.", display.Capitalize(actor.DisplayName()), action.Noun, target.DisplayName()))
}

func (e *Engine) sendHit(actor, target *game.Character, action *Action, damage int, blocked bool) {
	verb := verbPhrase(DamageVerb(damage, blocked))

	toActor := fmt.Sprintf("Your %s %s %s.", action.Noun, verb, target.DisplayName())
	if remaining := target.Health.Current - damage; remaining >= 0 {
		toActor += fmt.Sprintf("\n%s %s.", display.Capitalize(target.DisplayName()),
			Condition(HealthPercent(remaining, target.Health.Max)))
	}
	e.msg.Send(actor.Id, toActor)
	e.msg.Send(target.Id, fmt.Sprintf("%s's %s %s you.", display.Capitalize(actor.DisplayName()), action.Noun, verb))
	e.msg.SendToRoom(actor.Location, []game.CharacterId{actor.Id, target.Id},
		fmt.Sprintf("%s's %s %s %s.", display.Capitalize(actor.DisplayName()), action.Noun, verb, target.DisplayName()))
	if damage > 0 {
		e.msg.PlaySound(target.Id, "combat", "hit")
	}
}

func (e *Engine) save(ctx context.Context, c *game.Character) {
	if c.IsNPC() || e.saver == nil {
		return
	}
	if err := e.saver.SaveCharacter(c); err != nil {
		slog.ErrorContext(ctx, "saving character", "character", c.Name, "error", err)
	}
}
