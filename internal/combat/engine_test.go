package combat

import (
	"context"
	"strings"
	"testing"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/game/gametest"
	"github.com/pixil98/tickmud/internal/rng"
	"github.com/pixil98/tickmud/internal/storage"
	"github.com/pixil98/go-testutil"
)

var (
	arena  = game.Location{Area: "pit", Room: "arena"}
	temple = game.Location{Area: "pit", Room: "temple"}
)

type fixture struct {
	world  *game.World
	msg    *gametest.Messenger
	seq    *rng.Sequence
	saver  *gametest.Saver
	engine *Engine
	player *game.Character
	orc    *game.Character
}

// newFixture builds an arena holding a level 10 player (id 1) and a level 10 orc.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := gametest.NewBuilder().
		Room("arena", "pit", &game.RoomTemplate{Name: "The Arena", Description: "Sand and blood."}).
		Room("temple", "pit", &game.RoomTemplate{Name: "The Temple", Description: "A quiet place."}).
		Mobile("orc", &game.MobileTemplate{
			Aliases:   []string{"orc"},
			ShortDesc: "an orc",
			Level:     10,
			Health:    50,
			Currency:  5,
			Saves:     game.Saves{Spell: 10, Negative: 10, Afflictive: 10, Maledictive: 10},
			Inventory: []gametest.ItemRef{gametest.ItemReset("bread")},
		}).
		Item("bread", &game.ItemTemplate{Aliases: []string{"bread"}, ShortDesc: "a loaf of bread", TypeStr: "food"}).
		Item("helm", gametest.Armor("helm", game.WearHead, game.Resistances{Blunt: 30}, 3)).
		Item("sword", gametest.Weapon("sword", game.DamageSlash)).
		Build(t)

	f := &fixture{
		world: w,
		msg:   &gametest.Messenger{},
		seq:   rng.NewSequence(),
		saver: &gametest.Saver{},
	}
	f.engine = NewEngine(w, f.msg, f.seq, f.saver)

	f.player = gametest.AddPlayer(t, w, 1, "Alice", arena)
	f.player.Home = temple
	f.player.Level = 10
	f.player.DamageDice = 8
	f.player.Health = game.Vital{Max: 100, Current: 100}

	f.orc = gametest.AddMobile(t, w, "orc", arena)
	return f
}

func (f *fixture) equip(t *testing.T, c *game.Character, tmpl string) *game.Item {
	t.Helper()
	it, err := f.world.SpawnItem(storage.Identifier(tmpl))
	if err != nil {
		t.Fatalf("spawning %s: %v", tmpl, err)
	}
	if !c.Equip(it) {
		t.Fatalf("could not equip %s", tmpl)
	}
	return it
}

func TestSelectCombatAction(t *testing.T) {
	tests := map[string]struct {
		weapon *game.Item
		exp    *Action
	}{
		"unarmed": {exp: HandToHand},
		"sword":   {weapon: &game.Item{Type: game.ItemTypeWeapon, DamageType: game.DamageSlash}, exp: EdgedWeapons},
		"mace":    {weapon: &game.Item{Type: game.ItemTypeWeapon, DamageType: game.DamageBlunt}, exp: BluntWeapons},
		"dagger":  {weapon: &game.Item{Type: game.ItemTypeWeapon, DamageType: game.DamagePierce}, exp: PiercingWeapons},
		"wand":    {weapon: &game.Item{Type: game.ItemTypeWeapon, DamageType: game.DamageMagic}, exp: HandToHand},
		"not a weapon": {
			weapon: &game.Item{Type: game.ItemTypeLight, DamageType: game.DamageSlash},
			exp:    HandToHand,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := game.NewPlayer(1, "Alice", arena)
			if tt.weapon != nil {
				c.Equipment[game.WearWield] = tt.weapon
			}
			testutil.AssertEqual(t, "action", SelectCombatAction(c).Name, tt.exp.Name)
		})
	}
}

func TestEngine_IsSaveSuccessful(t *testing.T) {
	tests := map[string]struct {
		save int
		roll int
		exp  bool
	}{
		"natural one fails":       {save: 10, roll: 1, exp: false},
		"natural one beats saves": {save: 25, roll: 1, exp: false},
		"below save":              {save: 10, roll: 9, exp: true},
		"equal to save":           {save: 10, roll: 10, exp: false},
		"above save":              {save: 10, roll: 15, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.orc.Saves.Spell = tt.save
			f.seq.Push(tt.roll)

			testutil.AssertEqual(t, "saved", f.engine.IsSaveSuccessful(f.orc, MagicMissile), tt.exp)
			testutil.AssertEqual(t, "calls", len(f.seq.Calls), 1)
			testutil.AssertEqual(t, "call", f.seq.Calls[0], rng.Call{Lo: 1, Hi: 20, Inclusive: true})
		})
	}
}

func TestEngine_CalculateDamage(t *testing.T) {
	saveForHalf := &Action{Name: "test", Kind: KindSkill, DamageType: game.DamageMagic, SaveForHalf: true}

	tests := map[string]struct {
		action *Action
		rolls  []int
		exp    int
	}{
		"basic hit is the raw roll": {action: HandToHand, rolls: []int{5}, exp: 5},
		"weapon modifier at equal level": {
			action: EdgedWeapons, rolls: []int{5}, exp: 6,
		},
		"save for half succeeds": {action: saveForHalf, rolls: []int{5, 2}, exp: 2},
		"save for half fails":    {action: saveForHalf, rolls: []int{5, 1}, exp: 5},
		"spell dice and modifier": {
			action: MagicMissile, rolls: []int{3, 4, 15}, exp: 8,
		},
		"spell half rounds down": {
			action: MagicMissile, rolls: []int{3, 3, 2}, exp: 3,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.seq.Push(tt.rolls...)

			testutil.AssertEqual(t, "damage", f.engine.CalculateDamage(f.player, f.orc, tt.action), tt.exp)
			testutil.AssertEqual(t, "remaining rolls", f.seq.Remaining(), 0)
		})
	}
}

func TestEngine_CalculateDamage_LevelRatioTruncates(t *testing.T) {
	f := newFixture(t)
	f.player.Level = 19
	f.seq.Push(5)

	// 19/10 truncates to 1.
	testutil.AssertEqual(t, "damage", f.engine.CalculateDamage(f.player, f.orc, EdgedWeapons), 6)
}

func TestEngine_CalculateDamage_FloorsDice(t *testing.T) {
	f := newFixture(t)
	f.player.HitDice = 0
	f.player.DamageDice = 0
	f.engine.CalculateDamage(f.player, f.orc, HandToHand)

	testutil.AssertEqual(t, "calls", len(f.seq.Calls), 1)
	testutil.AssertEqual(t, "call", f.seq.Calls[0], rng.Call{Lo: 1, Hi: 4})
}

func TestEngine_ResolveExchange_BasicHit(t *testing.T) {
	f := newFixture(t)
	f.seq.Push(10, 5) // proficiency, damage

	f.engine.ResolveExchange(context.Background(), f.player, f.orc, HandToHand)

	testutil.AssertEqual(t, "health", f.orc.Health.Current, 45)
	testutil.AssertEqual(t, "to actor", strings.Join(f.msg.Sent(1), "|"), "Your punch grazes an orc.\nAn orc has a few scratches.")
	testutil.AssertEqual(t, "to room", strings.Join(f.msg.Of("room"), "|"), "Alice's punch grazes an orc.")
	testutil.AssertEqual(t, "hit sound", strings.Join(f.msg.Of("sound"), "|"), "combat:hit")
}

func TestEngine_ResolveExchange_Miss(t *testing.T) {
	tests := map[string]struct {
		prof       int
		rolls      []int
		expProf    int
		expImprove bool
	}{
		"failed roll improves": {prof: 50, rolls: []int{80, 90}, expProf: 51, expImprove: true},
		"failed roll no gain":  {prof: 50, rolls: []int{80, 20}, expProf: 50},
		"unknown skill":        {prof: 0, expProf: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.player.Skills[game.SkillHandToHand] = tt.prof
			f.seq.Push(tt.rolls...)

			f.engine.ResolveExchange(context.Background(), f.player, f.orc, HandToHand)

			testutil.AssertEqual(t, "health", f.orc.Health.Current, 50)
			testutil.AssertEqual(t, "prof", f.player.Skills[game.SkillHandToHand], tt.expProf)
			testutil.AssertEqual(t, "miss", f.msg.Contains("Your punch misses an orc."), true)
			testutil.AssertEqual(t, "improve", f.msg.Contains("You have become better at hand to hand!"), tt.expImprove)
			testutil.AssertEqual(t, "remaining rolls", f.seq.Remaining(), 0)
		})
	}
}

func TestEngine_ResolveExchange_DeadTarget(t *testing.T) {
	f := newFixture(t)
	f.orc.Health.Current = -1

	f.engine.ResolveExchange(context.Background(), f.player, f.orc, HandToHand)

	testutil.AssertEqual(t, "rolls", len(f.seq.Calls), 0)
	testutil.AssertEqual(t, "messages", len(f.msg.Messages), 0)
}

func TestEngine_ResolveExchange_Blocked(t *testing.T) {
	f := newFixture(t)
	f.orc.Skills[game.SkillHandToHand] = 60
	f.equip(t, f.player, "helm")
	f.seq.Push(10, 5, 0) // proficiency, block roll, armor pick

	f.engine.ResolveExchange(context.Background(), f.orc, f.player, HandToHand)

	testutil.AssertEqual(t, "health", f.player.Health.Current, 100)
	testutil.AssertEqual(t, "to target", strings.Join(f.msg.Sent(1), "|"), "An orc's punch is blocked by you.")
	testutil.AssertEqual(t, "no hit sound", len(f.msg.Of("sound")), 0)
}

func TestEngine_CheckArmorBlock(t *testing.T) {
	tests := map[string]struct {
		durability int
		roll       int
		expBlocked bool
		expDur     int
		expWorn    bool
		expMsg     string
	}{
		"blocked wears down":   {durability: 3, roll: 10, expBlocked: true, expDur: 2, expWorn: true, expMsg: "absorbs the blow"},
		"blocked destroys":     {durability: 1, roll: 10, expBlocked: true, expDur: 0, expWorn: false, expMsg: "is destroyed!"},
		"roll equal to chance": {durability: 3, roll: 30, expBlocked: false, expDur: 3, expWorn: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			helm := f.equip(t, f.player, "helm")
			helm.Durability = game.Vital{Max: 3, Current: tt.durability}
			f.seq.Push(tt.roll, 0)

			blocked := f.engine.CheckArmorBlock(f.orc, f.player, HandToHand)

			testutil.AssertEqual(t, "blocked", blocked, tt.expBlocked)
			testutil.AssertEqual(t, "durability", helm.Durability.Current, tt.expDur)
			testutil.AssertEqual(t, "worn", f.player.Equipment[game.WearHead] != nil, tt.expWorn)
			if tt.expMsg != "" {
				testutil.AssertEqual(t, "message", f.msg.Contains(tt.expMsg), true)
			}
		})
	}
}

func TestEngine_CheckArmorBlock_DurabilityFloor(t *testing.T) {
	f := newFixture(t)
	helm := f.equip(t, f.player, "helm")

	prev := helm.Durability.Current
	for range 3 {
		f.seq.Push(1, 0)
		if !f.engine.CheckArmorBlock(f.orc, f.player, HandToHand) {
			t.Fatalf("expected block")
		}
		if helm.Durability.Current >= prev {
			t.Fatalf("durability did not decrease: %d -> %d", prev, helm.Durability.Current)
		}
		prev = helm.Durability.Current
	}
	testutil.AssertEqual(t, "durability", helm.Durability.Current, 0)
	testutil.AssertEqual(t, "removed", f.player.Equipment[game.WearHead] == nil, true)

	// Nothing left to block with.
	f.seq.Push(1)
	testutil.AssertEqual(t, "blocked", f.engine.CheckArmorBlock(f.orc, f.player, HandToHand), false)
	testutil.AssertEqual(t, "durability", helm.Durability.Current, 0)
}

func TestEngine_CheckArmorBlock_EffectOnly(t *testing.T) {
	f := newFixture(t)
	f.equip(t, f.player, "sword")
	f.player.AddEffect(&game.Effect{Name: "stoneskin", Duration: 3, Resist: game.Resistances{Blunt: 50}})
	f.seq.Push(10)

	testutil.AssertEqual(t, "blocked", f.engine.CheckArmorBlock(f.orc, f.player, HandToHand), true)
	testutil.AssertEqual(t, "message", strings.Join(f.msg.Of("room"), "|"), "Alice's protection absorbs the blow.")
}

func TestEngine_ResolveExchange_ConditionOmittedOnKill(t *testing.T) {
	f := newFixture(t)
	f.orc.Health.Current = 3
	f.seq.Push(10, 5, 0, 20) // proficiency, damage, corpse coins, experience

	f.engine.ResolveExchange(context.Background(), f.player, f.orc, HandToHand)

	for _, s := range f.msg.Sent(1) {
		if strings.Contains(s, "\n") {
			t.Errorf("unexpected condition line in %q", s)
		}
	}
	testutil.AssertEqual(t, "dead", f.world.Contains(f.orc), false)
}
