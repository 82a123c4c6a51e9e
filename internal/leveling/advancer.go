// Package leveling applies level advances to players once they have earned
// enough experience.
package leveling

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/rng"
)

const (
	// TrainEvery is how often, in levels, training points and a learn session are granted.
	TrainEvery = 5
	// AwardEvery is how often, in levels, a milestone award is granted.
	AwardEvery = 10
)

// TitleGenerator names a character for their new level.
type TitleGenerator interface {
	Title(c *game.Character) string
}

// Gains summarizes what one level advance granted.
type Gains struct {
	Health    int
	Mana      int
	Movement  int
	Trains    int
	Practices int
	Learn     bool
	Award     string
}

// Advancer implements combat.Leveler for players.
type Advancer struct {
	dict   *game.Dictionary
	rng    rng.Provider
	msg    game.Messenger
	saver  game.CharacterSaver
	titles TitleGenerator
}

func NewAdvancer(dict *game.Dictionary, r rng.Provider, msg game.Messenger, saver game.CharacterSaver, titles TitleGenerator) *Advancer {
	if titles == nil {
		titles = RankTitles{}
	}
	return &Advancer{
		dict:   dict,
		rng:    r,
		msg:    msg,
		saver:  saver,
		titles: titles,
	}
}

// CheckAdvance raises c as many levels as its experience allows. It reports
// whether any level was gained and is always false for mobiles and at the
// level cap.
func (a *Advancer) CheckAdvance(ctx context.Context, c *game.Character) bool {
	if c.IsNPC() {
		return false
	}

	penalty := a.dict.ExpPenalty(c)
	advanced := false
	for {
		remaining, ok := game.RemainingExperienceToLevel(c.Level, c.Experience, penalty)
		if !ok || remaining > 0 {
			break
		}
		a.Advance(ctx, c)
		advanced = true
	}

	if advanced && a.saver != nil {
		if err := a.saver.SaveCharacter(c); err != nil {
			slog.ErrorContext(ctx, "saving character after level", "character", c.Name, "error", err)
		}
	}
	return advanced
}

// Advance raises c by exactly one level regardless of experience.
func (a *Advancer) Advance(ctx context.Context, c *game.Character) Gains {
	c.Level++

	g := Gains{
		Health:   a.vitalGain(c.Con.Current),
		Mana:     a.vitalGain(c.Wis.Current),
		Movement: a.vitalGain(c.Dex.Current),
	}
	grow(&c.Health, g.Health)
	grow(&c.Mana, g.Mana)
	grow(&c.Movement, g.Movement)

	g.Practices = max(1, c.Wis.Current/5)
	if c.Level%TrainEvery == 0 {
		g.Trains = max(1, c.Int.Current/4)
		g.Learn = true
	}
	if c.Level%AwardEvery == 0 {
		g.Award = fmt.Sprintf("Level %d", c.Level)
	}

	if c.Player != nil {
		c.Player.Practices += g.Practices
		c.Player.Trains += g.Trains
		if g.Learn {
			c.Player.Learns++
		}
		c.Player.Title = a.titles.Title(c)
	}
	if g.Award != "" && !c.Metrics.HasAward(g.Award) {
		c.Metrics.Awards = append(c.Metrics.Awards, g.Award)
	}

	a.announce(c, g)
	slog.InfoContext(ctx, "character advanced", "character", c.Name, "level", c.Level)
	return g
}

// vitalGain rolls between 10+d(2..8) and the attribute-driven ceiling.
func (a *Advancer) vitalGain(attr int) int {
	lo := 10 + a.rng.Inclusive(2, 8)
	hi := max(attr+7, 19)
	return a.rng.Inclusive(lo, hi)
}

func grow(v *game.Vital, amount int) {
	v.Max += amount
	v.Current += amount
}

func (a *Advancer) announce(c *game.Character, g Gains) {
	a.msg.Send(c.Id, fmt.Sprintf("You raise a level! You are now level %d.", c.Level))
	a.msg.Send(c.Id, fmt.Sprintf("You gain %d health, %d mana and %d movement.", g.Health, g.Mana, g.Movement))
	a.msg.Send(c.Id, fmt.Sprintf("You gain %d practice sessions.", g.Practices))
	if g.Trains > 0 {
		a.msg.Send(c.Id, fmt.Sprintf("You gain %d training sessions.", g.Trains))
	}
	if g.Learn {
		a.msg.Send(c.Id, "You may learn a new skill.")
	}
	if g.Award != "" {
		a.msg.Send(c.Id, fmt.Sprintf("You have earned the %s award!", g.Award))
	}
	a.msg.PlaySound(c.Id, "effects", "level")
}
