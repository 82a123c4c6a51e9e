package repop

import (
	"context"
	"log/slog"

	"github.com/pixil98/tickmud/internal/game"
)

// CleanupResult counts what one cleanup pass removed.
type CleanupResult struct {
	Orphans int
	Items   int
	Groups  int
}

// Cleanup removes mobiles listed in a room they are no longer recorded in,
// floor items whose rot timer reached 0 and stale groups.
func (e *Engine) Cleanup(ctx context.Context) CleanupResult {
	var res CleanupResult

	for _, a := range e.world.Areas() {
		for _, r := range a.Rooms() {
			for _, c := range r.Occupants() {
				if c.IsNPC() && !c.IsFighting() && e.world.Evict(r, c) {
					res.Orphans++
				}
			}
			for _, it := range r.Items() {
				if it.Rot == 0 {
					r.RemoveItem(it.InstanceId)
					res.Items++
				}
			}
		}
	}

	for _, g := range e.world.Groups() {
		if len(g.Members) == 0 {
			slog.WarnContext(ctx, "removing empty group", "group", g.Id)
			e.world.RemoveGroup(g.Id)
			res.Groups++
			continue
		}
		owner := e.world.Character(g.Owner)
		if owner == nil || owner.Player == nil || !owner.Player.Connected {
			slog.WarnContext(ctx, "removing group with disconnected owner", "group", g.Id, "owner", g.Owner)
			e.world.RemoveGroup(g.Id)
			res.Groups++
		}
	}

	if res != (CleanupResult{}) {
		slog.DebugContext(ctx, "cleanup complete", "orphans", res.Orphans, "items", res.Items, "groups", res.Groups)
	}
	return res
}
