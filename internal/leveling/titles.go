package leveling

import (
	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
)

// ranks are indexed by level/10.
var ranks = []string{
	"newbie",
	"apprentice",
	"journeyman",
	"adept",
	"veteran",
	"champion",
	"hero",
	"legend",
	"paragon",
	"immortal",
}

// RankTitles is the default TitleGenerator. The title depends only on level.
type RankTitles struct{}

func (RankTitles) Title(c *game.Character) string {
	i := min(max(c.Level, 0)/10, len(ranks)-1)
	return "the " + display.Title(ranks[i])
}
