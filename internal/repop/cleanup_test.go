package repop

import (
	"context"
	"testing"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/game/gametest"
	"github.com/pixil98/go-testutil"
)

func TestEngine_Cleanup_Orphans(t *testing.T) {
	tests := map[string]struct {
		fighting   bool
		relocate   bool
		expOrphans int
		expInWorld bool
	}{
		"in place":        {expInWorld: true},
		"orphaned":        {relocate: true, expOrphans: 1},
		"orphan fighting": {relocate: true, fighting: true, expInWorld: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			guard := gametest.AddMobile(t, f.world, "guard", gate)
			if tt.relocate {
				guard.Location = yard
			}
			if tt.fighting {
				guard.Fighting = 1
			}

			res := f.engine.Cleanup(context.Background())

			testutil.AssertEqual(t, "orphans", res.Orphans, tt.expOrphans)
			testutil.AssertEqual(t, "in world", f.world.Character(guard.Id) != nil, tt.expInWorld)
		})
	}
}

func TestEngine_Cleanup_Items(t *testing.T) {
	f := newFixture(t, nil)
	room := f.world.Room(heath)
	room.AddItem(&game.Item{InstanceId: "a", ShortDesc: "a corpse", Rot: 0})
	room.AddItem(&game.Item{InstanceId: "b", ShortDesc: "a corpse", Rot: 1})
	room.AddItem(&game.Item{InstanceId: "c", ShortDesc: "a rock", Rot: game.RotNever})
	room.AddItem(&game.Item{InstanceId: "d", ShortDesc: "a corpse", Rot: 0})

	res := f.engine.Cleanup(context.Background())

	testutil.AssertEqual(t, "removed", res.Items, 2)
	items := room.Items()
	testutil.AssertEqual(t, "left", len(items), 2)
	testutil.AssertEqual(t, "first left", items[0].InstanceId, "b")
	testutil.AssertEqual(t, "second left", items[1].InstanceId, "c")
}

func TestEngine_Cleanup_Groups(t *testing.T) {
	f := newFixture(t, nil)
	alice := gametest.AddPlayer(t, f.world, 1, "Alice", gate)
	gametest.AddPlayer(t, f.world, 2, "Bob", gate)

	healthy := f.world.CreateGroup(alice.Id)
	empty := f.world.CreateGroup(2)
	empty.Members = nil
	absent := f.world.CreateGroup(99)
	gone := f.world.CreateGroup(2)
	if err := f.world.RemovePlayer(2); err != nil {
		t.Fatalf("removing Bob: %v", err)
	}

	res := f.engine.Cleanup(context.Background())

	testutil.AssertEqual(t, "removed", res.Groups, 3)
	groups := f.world.Groups()
	testutil.AssertEqual(t, "left", len(groups), 1)
	testutil.AssertEqual(t, "healthy kept", groups[0].Id, healthy.Id)
	testutil.AssertEqual(t, "absent gone", f.world.GroupOf(absent.Owner) == nil, true)
	testutil.AssertEqual(t, "departed owner gone", f.world.GroupOf(gone.Owner) == nil, true)
}
