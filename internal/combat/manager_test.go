package combat

import (
	"context"
	"testing"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/go-testutil"
)

func TestManager_ViolencePass(t *testing.T) {
	tests := map[string]struct {
		setup          func(f *fixture)
		rolls          []int
		expTurns       int
		expOrcHealth   int
		expAliceHealth int
		expFighting    bool
	}{
		"mutual pair trades one exchange each": {
			setup: func(f *fixture) {
				f.orc.Skills[game.SkillHandToHand] = 60
				f.world.StartFighting(f.player, f.orc)
			},
			rolls:          []int{10, 3, 10, 2},
			expTurns:       2,
			expOrcHealth:   47,
			expAliceHealth: 98,
			expFighting:    true,
		},
		"second attack": {
			setup: func(f *fixture) {
				f.player.Skills[game.SkillSecondAttack] = 80
				f.world.StartFighting(f.player, f.orc)
			},
			rolls:          []int{10, 3, 10, 10, 2},
			expTurns:       2,
			expOrcHealth:   45,
			expAliceHealth: 100,
			expFighting:    true,
		},
		"second attack fails its roll": {
			setup: func(f *fixture) {
				f.player.Skills[game.SkillSecondAttack] = 80
				f.world.StartFighting(f.player, f.orc)
			},
			rolls:          []int{10, 3, 90},
			expTurns:       2,
			expOrcHealth:   47,
			expAliceHealth: 100,
			expFighting:    true,
		},
		"opponent vanished": {
			setup: func(f *fixture) {
				f.player.Fighting = 999
			},
			expTurns:       0,
			expOrcHealth:   50,
			expAliceHealth: 100,
		},
		"opponent left the room": {
			setup: func(f *fixture) {
				f.world.StartFighting(f.player, f.orc)
				_ = f.world.Move(f.orc, temple)
			},
			expTurns:       0,
			expOrcHealth:   50,
			expAliceHealth: 100,
		},
		"opponent dies mid pass": {
			setup: func(f *fixture) {
				f.orc.Health.Current = 2
				f.world.StartFighting(f.player, f.orc)
			},
			rolls:          []int{10, 3},
			expTurns:       1,
			expOrcHealth:   -1,
			expAliceHealth: 100,
		},
		"nobody fighting": {
			expTurns:       0,
			expOrcHealth:   50,
			expAliceHealth: 100,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			f.seq.Push(tt.rolls...)
			m := NewManager(f.world, f.engine)

			turns := m.ViolencePass(context.Background())

			testutil.AssertEqual(t, "turns", turns, tt.expTurns)
			testutil.AssertEqual(t, "orc health", f.orc.Health.Current, tt.expOrcHealth)
			testutil.AssertEqual(t, "alice health", f.player.Health.Current, tt.expAliceHealth)
			testutil.AssertEqual(t, "fighting", f.player.IsFighting(), tt.expFighting)
		})
	}
}

func TestManager_ViolencePass_WakesSleepers(t *testing.T) {
	f := newFixture(t)
	f.player.Flags.Set(game.FlagSleeping)
	f.world.StartFighting(f.player, f.orc)

	NewManager(f.world, f.engine).ViolencePass(context.Background())

	testutil.AssertEqual(t, "sleeping", f.player.Flags.Has(game.FlagSleeping), false)
	testutil.AssertEqual(t, "message", f.msg.Contains("You scramble to your feet!"), true)
}

func TestManager_ViolencePass_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.world.StartFighting(f.player, f.orc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	testutil.AssertEqual(t, "turns", NewManager(f.world, f.engine).ViolencePass(ctx), 0)
}

func TestStartCombat(t *testing.T) {
	f := newFixture(t)

	testutil.AssertEqual(t, "self", StartCombat(f.world, f.player, f.player), false)
	testutil.AssertEqual(t, "started", StartCombat(f.world, f.player, f.orc), true)
	testutil.AssertEqual(t, "already", StartCombat(f.world, f.player, f.orc), false)

	StopFighting(f.world, f.orc)
	testutil.AssertEqual(t, "player cleared", f.player.IsFighting(), false)
	testutil.AssertEqual(t, "orc cleared", f.orc.IsFighting(), false)
}

func TestReport(t *testing.T) {
	f := newFixture(t)
	f.orc.Health.Current = 25

	testutil.AssertEqual(t, "report", Report(f.orc), "An orc is badly wounded.")
}
