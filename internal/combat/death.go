package combat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
)

type milestone struct {
	count int
	award string
}

var mobKillMilestones = []milestone{
	{10, "Hunter"},
	{100, "Slayer"},
	{500, "Butcher"},
	{1000, "Exterminator"},
}

var playerKillMilestones = []milestone{
	{1, "First Blood"},
	{10, "Duelist"},
	{50, "Assassin"},
	{100, "Warlord"},
}

// ConstitutionLossEvery is how many deaths cost one point of max constitution.
const ConstitutionLossEvery = 4

// HandleDeath processes a character whose health went negative. It is a
// no-op for characters that are not dead or were already removed, so a
// second call never awards twice.
func (e *Engine) HandleDeath(ctx context.Context, killer, victim *game.Character) {
	if !victim.IsDead() || !e.world.Contains(victim) {
		return
	}
	if killer == victim {
		killer = nil
	}

	e.world.StopFighting(victim)
	if victim.IsNPC() {
		e.mobDeath(ctx, killer, victim)
	} else {
		e.playerDeath(ctx, killer, victim)
	}

	if killer == nil || killer.IsNPC() {
		return
	}
	xp := game.ExperienceAward(e.rng, killer, victim)
	if xp > 0 {
		killer.Experience += xp
		e.msg.Send(killer.Id, fmt.Sprintf("You receive %d experience points.", xp))
	}
	if e.leveler != nil {
		e.leveler.CheckAdvance(ctx, killer)
	}
	e.save(ctx, killer)
}

func (e *Engine) mobDeath(ctx context.Context, killer, victim *game.Character) {
	name := display.Capitalize(victim.DisplayName())
	loc := victim.Location

	e.msg.SendToRoom(loc, nil, fmt.Sprintf("%s is DEAD!!", name))
	if killer != nil {
		e.msg.Send(killer.Id, fmt.Sprintf("You have killed %s!", victim.DisplayName()))
		killer.Metrics.MobKills++
		if !killer.IsNPC() {
			e.grantMilestone(killer, killer.Metrics.MobKills, mobKillMilestones)
		}
	}

	e.world.RemoveCharacter(victim)

	currency := max(0, victim.Currency+e.rng.Inclusive(-1, 1))
	corpse, err := e.makeCorpse(victim, loc, currency, e.mobCorpseRot)
	if err != nil {
		slog.WarnContext(ctx, "no corpse generated", "victim", victim.Id, "error", err)
		return
	}

	// Autoloot and autosac only apply when the killer is standing over the body.
	if killer == nil || killer.Location != loc {
		return
	}
	if killer.Flags.Has(game.FlagAutoloot) {
		e.loot(killer, corpse)
	}
	if killer.Flags.Has(game.FlagAutosac) {
		e.sacrifice(killer, corpse, loc)
	}
}

func (e *Engine) playerDeath(ctx context.Context, killer, victim *game.Character) {
	name := display.Capitalize(victim.DisplayName())
	loc := victim.Location

	e.msg.Send(victim.Id, "You have been KILLED!!")
	e.msg.PlaySound(victim.Id, "combat", "death")
	e.msg.SendToRoom(loc, []game.CharacterId{victim.Id}, fmt.Sprintf("%s is DEAD!!", name))
	if killer != nil {
		e.msg.SendToAll(fmt.Sprintf("%s has been slain by %s!", name, killer.DisplayName()))
		killer.Metrics.PlayerKills++
		if !killer.IsNPC() {
			e.grantMilestone(killer, killer.Metrics.PlayerKills, playerKillMilestones)
		}
	} else {
		e.msg.SendToAll(fmt.Sprintf("%s has died!", name))
	}

	// Damage over time ends with the body it was eating.
	for _, eff := range victim.Effects {
		if eff.Periodic != "" {
			victim.RemoveEffect(eff)
		}
	}

	victim.AddEffect(&game.Effect{
		Name:     "ghost",
		Duration: e.ghostDuration,
		Flag:     game.FlagGhost,
		WearsOff: "You feel solid again.",
	})

	if _, err := e.makeCorpse(victim, loc, victim.Currency, e.playerCorpseRot); err != nil {
		slog.WarnContext(ctx, "no corpse generated", "victim", victim.Id, "error", err)
	}
	victim.Inventory = nil
	victim.Equipment = map[game.WearSlot]*game.Item{}
	victim.Currency = 0

	if err := e.world.Move(victim, victim.Home); err != nil {
		slog.WarnContext(ctx, "relocating dead player", "player", victim.Name, "error", err)
	}

	if killer == nil || killer.IsNPC() {
		victim.Metrics.MobDeaths++
	} else {
		victim.Metrics.PlayerDeaths++
	}
	if victim.Metrics.Deaths()%ConstitutionLossEvery == 0 {
		victim.Con.Max = max(1, victim.Con.Max-1)
		victim.Con.Current = min(victim.Con.Current, victim.Con.Max)
		e.msg.Send(victim.Id, "You feel less healthy.")
	}

	victim.Health.Current = 1
	e.save(ctx, victim)

	if r := e.world.Room(victim.Location); r != nil {
		e.msg.Send(victim.Id, r.Describe(victim.Id))
	}
}

// makeCorpse leaves the victim's belongings on the floor at loc.
func (e *Engine) makeCorpse(victim *game.Character, loc game.Location, currency, rot int) (*game.Item, error) {
	room := e.world.Room(loc)
	if room == nil {
		return nil, fmt.Errorf("corpse of %q at %s: %w", victim.DisplayName(), loc, game.ErrRoomNotFound)
	}

	corpse := &game.Item{
		InstanceId: uuid.NewString(),
		Aliases:    []string{"corpse"},
		ShortDesc:  fmt.Sprintf("the corpse of %s", victim.DisplayName()),
		LongDesc:   fmt.Sprintf("The corpse of %s is lying here.", victim.DisplayName()),
		Type:       game.ItemTypeCorpse,
		Rot:        rot,
		Currency:   currency,
	}
	for _, slot := range victim.EquippedSlots() {
		corpse.Contents = append(corpse.Contents, victim.Equipment[slot].Clone())
	}
	for _, it := range victim.Inventory {
		corpse.Contents = append(corpse.Contents, it.Clone())
	}

	room.AddItem(corpse)
	return corpse, nil
}

func (e *Engine) loot(killer *game.Character, corpse *game.Item) {
	for _, it := range corpse.Contents {
		killer.Inventory = append(killer.Inventory, it)
		e.msg.Send(killer.Id, fmt.Sprintf("You get %s from %s.", it.ShortDesc, corpse.ShortDesc))
	}
	corpse.Contents = nil
	if corpse.Currency > 0 {
		killer.Currency += corpse.Currency
		e.msg.Send(killer.Id, fmt.Sprintf("You get %d coins from %s.", corpse.Currency, corpse.ShortDesc))
		corpse.Currency = 0
	}
}

func (e *Engine) sacrifice(killer *game.Character, corpse *game.Item, loc game.Location) {
	room := e.world.Room(loc)
	if room == nil || room.RemoveItem(corpse.InstanceId) == nil {
		return
	}
	killer.Favor++
	e.msg.Send(killer.Id, "You sacrifice the corpse to the gods and receive one divine favor.")
}

func (e *Engine) grantMilestone(c *game.Character, count int, table []milestone) {
	for _, m := range table {
		if m.count != count || c.Metrics.HasAward(m.award) {
			continue
		}
		c.Metrics.Awards = append(c.Metrics.Awards, m.award)
		e.msg.Send(c.Id, fmt.Sprintf("You have earned the %s award!", m.award))
		e.msg.PlaySound(c.Id, "effects", "award")
	}
}
