package ui

import (
	"fmt"
	"path/filepath"

	"github.com/tftbot/tftbot/internal/game"
)

const (
	DefaultConfidence = 0.8
	RoundConfidence   = 0.9
	GoldConfidence    = 0.9
	PopupConfidence   = 0.7
)

// MaxGoldTemplate is the highest gold value with a glyph template. Higher
// values are unmapped.
const MaxGoldTemplate = 6

// MaxStage is the last stage with a "N-" template.
const MaxStage = 6

// Templates is the catalogue of every reference image the bot looks for.
type Templates struct {
	// Client
	InQueue             game.ImageSet
	AcceptMatch         game.ImageRef
	Lobby               game.ImageSet
	FindMatch           game.ImageSet
	Reconnect           game.ImageRef
	KeyFragment         game.ImageSet
	MissionsOK          game.ImageRef
	PlayAgain           game.ImageRef
	QuickPlay           game.ImageRef
	SkipWaitingForStats game.ImageSet
	TabUnselected       game.ImageRef
	SessionExpired      game.ImageRef
	FailedToReconnect   game.ImageRef
	LoginServersDown    game.ImageRef
	MessageOK           game.ImageRef
	MessageExit         game.ImageSet

	// Game
	Loading     game.ImageRef
	FirstRound  game.ImageRef
	Timer       game.ImageRef
	DraftRound  game.ImageSet
	Monsters    game.ImageSet
	Stages      map[int]game.ImageRef
	Death       game.ImageRef
	ExitNow     game.ImageSet
	Settings    game.ImageRef
	Surrender1  game.ImageRef
	Surrender2  game.ImageRef
	TakeAll     game.ImageRef
	BuyXP       game.ImageRef
	Reroll      game.ImageRef
	Gold        map[int]game.ImageRef
	TraitByName map[string]game.ImageRef
}

// Traits known by the catalogue, in file order.
var Traits = []string{
	"bastion", "bruiser", "challenger", "darkin", "deadeye", "demacia", "empress",
	"freljord", "gunner", "invoker", "ionia", "juggernaut", "multicaster", "noxus",
	"piltover", "rogue", "shadow_isles", "shurima", "slayer", "sorcerer",
	"strategist", "targon", "void", "wanderer", "yordle", "zaun",
}

func NewTemplates(assetsDir string) *Templates {
	client := func(rel string) game.ImageRef {
		return ref(assetsDir, rel, DefaultConfidence, game.SurfaceClient)
	}
	inGame := func(rel string) game.ImageRef {
		return ref(assetsDir, rel, DefaultConfidence, game.SurfaceGame)
	}
	round := func(rel string) game.ImageRef {
		return ref(assetsDir, rel, RoundConfidence, game.SurfaceGame)
	}

	t := &Templates{
		InQueue:     game.ImageSet{client("client/in_queue/base.png"), client("client/in_queue/overshadowed.png")},
		AcceptMatch: client("client/in_queue/accept.png"),
		Lobby:       game.ImageSet{client("client/tft_logo/base.png"), client("client/tft_logo/overshadowed.png")},
		FindMatch: game.ImageSet{
			client("client/buttons/find_match_base.png"),
			client("client/buttons/find_match_highlighted.png"),
		},
		Reconnect: client("client/buttons/reconnect.png"),
		KeyFragment: game.ImageSet{
			ref(assetsDir, "client/key_fragment/one.png", PopupConfidence, game.SurfaceClient),
			ref(assetsDir, "client/key_fragment/two.png", PopupConfidence, game.SurfaceClient),
		},
		MissionsOK: client("client/post_game/missions_ok.png"),
		PlayAgain:  client("client/post_game/play_again.png"),
		QuickPlay:  client("client/pre_match/quick_play.png"),
		SkipWaitingForStats: game.ImageSet{
			client("client/post_game/skip_waiting_for_stats_1.png"),
			client("client/post_game/skip_waiting_for_stats_2.png"),
		},
		TabUnselected:     ref(assetsDir, "client/tabs/tft/unselected.png", RoundConfidence, game.SurfaceClient),
		SessionExpired:    client("messages/session_expired.png"),
		FailedToReconnect: client("messages/failed_to_reconnect.png"),
		LoginServersDown:  client("messages/login_servers_down.png"),
		MessageOK:         client("buttons/message_ok.png"),
		MessageExit:       game.ImageSet{client("buttons/message_exit_1.png"), client("buttons/message_exit_2.png")},

		Loading:    inGame("game/loading.png"),
		FirstRound: inGame("round/1-1.png"),
		Timer:      inGame("game/timer_1.png"),
		DraftRound: game.ImageSet{round("round/-4.png"), round("round/draft_active.png")},
		// Only the highlighted icon means the PvE round is being played; the
		// inactive ones are shown for upcoming rounds.
		Monsters: game.ImageSet{
			round("round/krugs_active.png"),
			round("round/wolves_active.png"),
			round("round/birds_active.png"),
			round("round/elder_dragon_active.png"),
		},
		Death: inGame("game/death.png"),
		ExitNow: game.ImageSet{
			inGame("buttons/exit_now_base.png"),
			inGame("buttons/exit_now_highlighted.png"),
			inGame("buttons/exit_now_original.png"),
			inGame("buttons/continue.png"),
		},
		Settings:   inGame("buttons/settings.png"),
		Surrender1: inGame("buttons/surrender_1.png"),
		Surrender2: inGame("buttons/surrender_2.png"),
		TakeAll:    inGame("buttons/take_all.png"),
		BuyXP:      inGame("buttons/xp_buy.png"),
		Reroll:     inGame("buttons/reroll.png"),

		Stages:      make(map[int]game.ImageRef, MaxStage),
		Gold:        make(map[int]game.ImageRef, MaxGoldTemplate+1),
		TraitByName: make(map[string]game.ImageRef, len(Traits)),
	}

	for stage := 1; stage <= MaxStage; stage++ {
		t.Stages[stage] = round(fmt.Sprintf("round/%d-.png", stage))
	}
	for gold := 0; gold <= MaxGoldTemplate; gold++ {
		t.Gold[gold] = ref(assetsDir, fmt.Sprintf("gold/%d.png", gold), GoldConfidence, game.SurfaceGame)
	}
	for _, trait := range Traits {
		t.TraitByName[trait] = inGame("trait/" + trait + ".png")
	}

	return t
}

// GoldTemplate returns the glyph template for an exact gold value. ok is false
// for values without a template.
func (t *Templates) GoldTemplate(value int) (game.ImageRef, bool) {
	r, ok := t.Gold[value]
	return r, ok
}

// WantedTraits resolves configured trait names, skipping unknown ones.
func (t *Templates) WantedTraits(names []string) ([]game.ImageRef, []string) {
	refs := make([]game.ImageRef, 0, len(names))
	var unknown []string
	for _, name := range names {
		r, ok := t.TraitByName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		refs = append(refs, r)
	}
	return refs, unknown
}

func ref(assetsDir, rel string, confidence float64, surface game.Surface) game.ImageRef {
	return game.ImageRef{
		Name:       rel,
		Path:       filepath.Join(assetsDir, filepath.FromSlash(rel)),
		Confidence: confidence,
		Surface:    surface,
	}
}
