package environment

import (
	"fmt"

	"github.com/pixil98/tickmud/internal/game"
)

// celestial messages are keyed by game hour.
var celestial = map[int]string{
	2:  "The moon sets.",
	6:  "The sun rises in the east.",
	19: "The sun slowly disappears in the west.",
	21: "The moon rises in the sky.",
}

var weather = []string{
	"The %s falls steadily around you.",
	"The %s lets up for a moment.",
	"A gust of wind drives the %s sideways.",
	"You hear the %s patter all around.",
}

// Ambient sends time of day and weather flavor to players standing outdoors.
func (p *Processor) Ambient() {
	sky := celestial[p.world.Time.Hour]

	line := ""
	if p.weatherChance > 0 && p.rng.Inclusive(1, 100) <= p.weatherChance {
		line = weather[p.rng.Exclusive(0, len(weather))]
	}

	if sky == "" && line == "" {
		return
	}

	for _, a := range p.world.Areas() {
		if a.Template != nil && a.Template.Instanced {
			continue
		}
		for _, r := range a.Rooms() {
			if !Outdoors(r) || len(r.Players()) == 0 {
				continue
			}
			if sky != "" {
				p.msg.SendToRoom(r.Location(), nil, sky)
			}
			if line != "" {
				p.msg.SendToRoom(r.Location(), nil, fmt.Sprintf(line, r.Template.Terrain.Precipitation()))
			}
		}
	}
}

// Outdoors reports whether weather reaches r.
func Outdoors(r *game.Room) bool {
	if r.HasFlag(game.FlagIndoors) || r.HasFlag(game.FlagInstanced) {
		return false
	}
	return r.Template.Terrain != game.TerrainInside
}
