package bot

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tftbot/tftbot/internal/config"
	"github.com/tftbot/tftbot/internal/context/contexttest"
	"github.com/tftbot/tftbot/internal/game"
)

type fakeStrategy struct {
	rounds []game.RoundID
	panics bool
}

func (f *fakeStrategy) Name() string { return "fake" }

func (f *fakeStrategy) LoopDecision(minRound game.RoundID) []game.EconomyDecision {
	if f.panics {
		panic("economy exploded")
	}
	f.rounds = append(f.rounds, minRound)
	return []game.EconomyDecision{game.Skip()}
}

type fakeConnectivity struct {
	calls int
}

func (f *fakeConnectivity) WaitOnline(context.Context) error {
	f.calls++
	return nil
}

type fakeClientAPI struct {
	searchState string
	phase       string

	lobbies int
	queues  int
	accepts int
}

func (f *fakeClientAPI) CreateLobby(context.Context) error {
	f.lobbies++
	return nil
}

func (f *fakeClientAPI) StartQueue(context.Context) error {
	f.queues++
	return nil
}

func (f *fakeClientAPI) AcceptReadyCheck(context.Context) error {
	f.accepts++
	return nil
}

func (f *fakeClientAPI) SearchState(context.Context) (string, error) {
	return f.searchState, nil
}

func (f *fakeClientAPI) Phase() string { return f.phase }

type testController struct {
	*Controller
	h            *contexttest.Harness
	strategy     *fakeStrategy
	connectivity *fakeConnectivity
}

func newTestController(t *testing.T, cfg *config.Cfg) testController {
	t.Helper()
	if cfg == nil {
		cfg = &config.Cfg{}
	}
	if cfg.ScreenshotLocation == "" {
		cfg.ScreenshotLocation = t.TempDir()
	}

	h := contexttest.New(cfg)
	h.Ctx.Now = func() time.Time { return time.Date(2024, 5, 1, 13, 14, 15, 0, time.UTC) }

	strategy := &fakeStrategy{}
	connectivity := &fakeConnectivity{}
	c := NewController(h.Ctx, Options{Economy: strategy, Connectivity: connectivity})

	return testController{Controller: c, h: h, strategy: strategy, connectivity: connectivity}
}

func (tc testController) tick(n int) {
	for range n {
		tc.Tick(context.Background())
	}
}

func (tc testController) stopGame() {
	tc.h.Window.SetRunning(tc.h.Ctx.Executables.Game, false)
}

func TestFindingMatchAbortsOnSixtyFirstFailedPoll(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tc.setState(StateFindingMatch)

	tc.tick(findMatchPolls)
	require.Equal(t, StateFindingMatch, tc.State())

	sleeps := tc.h.Sleeper.Sleeps()
	require.Len(t, sleeps, findMatchPolls)
	for _, d := range sleeps {
		assert.GreaterOrEqual(t, d, minQueuePoll)
		assert.LessOrEqual(t, d, maxQueuePoll)
	}

	tc.tick(1)
	assert.Equal(t, StateLobby, tc.State())
}

func TestFindingMatchAcceptsAndKeepsPolling(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tc.setState(StateFindingMatch)

	tc.tick(10)
	tc.h.Screen.ShowFor(tc.h.Ctx.Templates.AcceptMatch.Name, 1)
	tc.tick(1)

	assert.Equal(t, StateFindingMatch, tc.State())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tc.h.Ctx.Templates.AcceptMatch.Name))
	assert.Zero(t, tc.findMatchBudget.Failures())
}

func TestFindingMatchMovesToLoadingWithNewMatch(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tc.setState(StateFindingMatch)
	previous := tc.h.Ctx.CurrentGame.MatchID

	tc.h.Screen.Show(tc.h.Ctx.Templates.Loading.Name)
	tc.tick(1)

	assert.Equal(t, StateLoading, tc.State())
	assert.NotEqual(t, previous, tc.h.Ctx.CurrentGame.MatchID)
}

func TestLoadingFallsBackToInMatch(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateLoading)

	tc.tick(loadingPolls)
	require.Equal(t, StateLoading, tc.State())

	tc.tick(1)
	assert.Equal(t, StateInMatch, tc.State())
}

func TestLoadingToDraftingToInMatch(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateLoading)
	first := tc.h.Ctx.Templates.FirstRound.Name

	tc.h.Screen.Show(first)
	tc.tick(1)
	require.Equal(t, StateDrafting, tc.State())

	tc.tick(1)
	assert.Equal(t, StateDrafting, tc.State())
	assert.Len(t, rightClicks(tc), 4)

	tc.h.Screen.Hide(first)
	tc.tick(1)
	assert.Equal(t, StateInMatch, tc.State())
}

func TestReconnectKeepsMatchOutOfPostGame(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	reconnect := tc.h.Ctx.Templates.Reconnect.Name
	tc.h.Screen.Show(reconnect, tc.h.Ctx.Templates.PlayAgain.Name)
	tc.stopGame()

	tc.tick(1)

	assert.NotEqual(t, StatePostGame, tc.State())
	assert.Equal(t, StateLoading, tc.State())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(reconnect))
	assert.Zero(t, tc.Stats().Games())
}

func TestReconnectResumesRunningMatch(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	matchID := tc.h.Ctx.CurrentGame.MatchID
	tc.h.Screen.Show(tm.Reconnect.Name)
	tc.h.Screen.HideOnClick(tm.Reconnect.Name)
	tc.stopGame()

	tc.tick(1)
	require.Equal(t, StateLoading, tc.State())

	tc.h.Window.SetRunning(tc.h.Ctx.Executables.Game, true)
	tc.h.Screen.Show(tm.Stages[4].Name)
	tc.tick(1)

	assert.Equal(t, StateInMatch, tc.State())
	assert.Equal(t, matchID, tc.h.Ctx.CurrentGame.MatchID)
	assert.Zero(t, tc.Stats().Games())
}

func TestMatchCompleteWhenGameCloses(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tc.stopGame()

	tc.tick(1)

	assert.Equal(t, StatePostGame, tc.State())
	assert.Equal(t, 1, tc.Stats().Games())
}

func TestMatchCompleteOnPostGameScreen(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tc.h.Screen.Show(tc.h.Ctx.Templates.PlayAgain.Name)

	tc.tick(1)

	assert.Equal(t, StatePostGame, tc.State())
}

func TestDeathOverlayIsNotTerminal(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	death := tc.h.Ctx.Templates.Death.Name
	tc.h.Screen.Show(death)
	tc.h.Screen.HideOnClick(death)

	tc.tick(1)

	assert.Equal(t, StateInMatch, tc.State())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(death))
	assert.Contains(t, tc.h.Sleeper.Sleeps(), deathDelay)
}

func TestInMatchEvidencePriority(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.TakeAll.Name, tm.DraftRound[0].Name, tm.Stages[2].Name)
	tc.h.Screen.HideOnClick(tm.TakeAll.Name)

	tc.tick(1)
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.TakeAll.Name))
	assert.Empty(t, rightClicks(tc))
	assert.Empty(t, tc.strategy.rounds)

	tc.tick(1)
	assert.Len(t, rightClicks(tc), 4)
	assert.Empty(t, tc.strategy.rounds)

	tc.h.Screen.Hide(tm.DraftRound[0].Name)
	tc.tick(1)
	require.Len(t, tc.strategy.rounds, 1)
	assert.Equal(t, game.NewRoundID(2, game.RoundUnknown), tc.strategy.rounds[0])
}

func TestFirstStageIgnoresDraftIndicator(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.DraftRound[0].Name, tm.Stages[1].Name)

	tc.tick(1)

	assert.Empty(t, rightClicks(tc))
	require.Len(t, tc.strategy.rounds, 1)
	assert.Equal(t, 1, tc.strategy.rounds[0].Stage)
}

func TestMinimumRoundDefaultsToThirdStage(t *testing.T) {
	tc := newTestController(t, nil)

	assert.Equal(t, game.NewRoundID(unknownStage, game.RoundUnknown), tc.minimumRound())

	tc.h.Screen.Show(tc.h.Ctx.Templates.Stages[5].Name)
	assert.Equal(t, 5, tc.minimumRound().Stage)
}

func TestMinimumRoundReadsRoundIndicators(t *testing.T) {
	tc := newTestController(t, nil)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.Stages[4].Name, tm.Monsters[2].Name)

	minRound := tc.minimumRound()
	assert.Equal(t, game.NewRoundID(4, game.RoundMonster), minRound)
	assert.True(t, minRound.IsMonster())

	tc.h.Screen.Show(tm.DraftRound[1].Name)
	assert.True(t, tc.minimumRound().IsDraft())
}

func TestActiveDraftIconStartsPathing(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.DraftRound[1].Name, tm.Stages[3].Name)

	tc.tick(1)

	assert.Len(t, rightClicks(tc), 4)
	assert.Empty(t, tc.strategy.rounds)
}

func TestMonsterRoundReachesEconomy(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.Stages[2].Name, tm.Monsters[0].Name)

	tc.tick(1)

	require.Len(t, tc.strategy.rounds, 1)
	assert.Equal(t, game.NewRoundID(2, game.RoundMonster), tc.strategy.rounds[0])
}

func TestForfeitEntersSurrenderingPastBoundary(t *testing.T) {
	tc := newTestController(t, &config.Cfg{ForfeitEarly: true})
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.Stages[3].Name)

	tc.tick(1)
	require.Equal(t, StateSurrendering, tc.State())

	before := len(tc.h.Sleeper.Sleeps())
	tc.h.Screen.Show(tm.Surrender1.Name, tm.Surrender2.Name)
	tc.tick(1)

	sleeps := tc.h.Sleeper.Sleeps()
	require.Greater(t, len(sleeps), before)
	grace := sleeps[before]
	assert.GreaterOrEqual(t, grace, 100*time.Second)
	assert.LessOrEqual(t, grace, 150*time.Second)

	assert.Equal(t, StatePostGame, tc.State())
	assert.True(t, tc.h.Ctx.CurrentGame.Surrendered)
	assert.Contains(t, tc.h.Screen.Keys(), game.KeyEscape)

	names := tc.h.Screen.ClickedNames()
	first := indexOf(names, tm.Surrender1.Name)
	final := indexOf(names, tm.Surrender2.Name)
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, final, first)
}

func TestNoForfeitBeforeBoundary(t *testing.T) {
	tc := newTestController(t, &config.Cfg{ForfeitEarly: true})
	tc.setState(StateInMatch)
	tc.h.Screen.Show(tc.h.Ctx.Templates.Stages[2].Name)

	tc.tick(3)

	assert.Equal(t, StateInMatch, tc.State())
}

func TestNoForfeitWithoutFlag(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tc.h.Screen.Show(tc.h.Ctx.Templates.Stages[4].Name)

	tc.tick(1)

	assert.Equal(t, StateInMatch, tc.State())
}

func TestNoForfeitWhileExitNowVisible(t *testing.T) {
	tc := newTestController(t, &config.Cfg{ForfeitEarly: true})
	tc.setState(StateInMatch)
	exit := tc.h.Ctx.Templates.ExitNow[0].Name
	tc.h.Screen.Show(exit)

	tc.tick(1)

	assert.Equal(t, StateInMatch, tc.State())
	assert.Equal(t, int(exitNowTimeout/exitNowDelay), tc.h.Screen.ClickCount(exit))
}

func TestSurrenderAbortsWhenMatchEnds(t *testing.T) {
	tc := newTestController(t, &config.Cfg{ForfeitEarly: true})
	tc.setState(StateSurrendering)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.Surrender1.Name)
	tc.h.Screen.OnClick(tm.Surrender1.Name, tc.stopGame)

	tc.tick(1)

	assert.Equal(t, StatePostGame, tc.State())
	assert.Zero(t, tc.h.Screen.ClickCount(tm.Surrender2.Name))
	assert.False(t, tc.h.Ctx.CurrentGame.Surrendered)
}

func TestSurrenderGivesUpAfterRetries(t *testing.T) {
	tc := newTestController(t, &config.Cfg{ForfeitEarly: true})
	tc.setState(StateInMatch)
	tc.h.Screen.Show(tc.h.Ctx.Templates.Stages[3].Name)

	tc.tick(2)

	assert.Equal(t, StateInMatch, tc.State())
	assert.Equal(t, surrenderAttempts, tc.h.Screen.Queries(tc.h.Ctx.Templates.Surrender1.Name))
	assert.Len(t, tc.h.Screen.Keys(), surrenderAttempts+1)
	assert.True(t, tc.h.Ctx.CurrentGame.SurrenderAttempted)

	tc.tick(1)
	assert.Equal(t, StateInMatch, tc.State())
}

func TestPauseIsInert(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tc.h.Screen.Show(tc.h.Ctx.Templates.TakeAll.Name)
	tc.h.Ctx.TogglePause()

	tc.tick(3)

	assert.Zero(t, tc.h.Screen.TotalQueries())
	assert.Empty(t, tc.h.Screen.Clicks())
	assert.Equal(t, []time.Duration{pauseInterval, pauseInterval, pauseInterval}, tc.h.Sleeper.Sleeps())
	assert.Equal(t, StateInMatch, tc.State())

	tc.h.Ctx.TogglePause()
	tc.tick(1)
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tc.h.Ctx.Templates.TakeAll.Name))
}

func TestPauseToggleWhileMatchesStart(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tc.h.Screen.Show(tc.h.Ctx.Templates.Loading.Name)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 200 {
			tc.TogglePause()
		}
	}()

	for range 200 {
		tc.setState(StateFindingMatch)
		tc.tick(1)
	}
	wg.Wait()

	require.False(t, tc.h.Ctx.Paused())
	tc.setState(StateFindingMatch)
	tc.tick(1)
	assert.Equal(t, StateLoading, tc.State())
}

func TestSessionExpiredRecovery(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StateInMatch)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.SessionExpired.Name, tm.MessageOK.Name)
	tc.h.Screen.OnClick(tm.MessageOK.Name, func() { tc.h.Screen.Hide(tm.SessionExpired.Name, tm.MessageOK.Name) })

	tc.tick(1)
	require.Equal(t, StateClientError, tc.State())

	tc.tick(1)
	assert.Equal(t, StateQueueing, tc.State())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.MessageOK.Name))
	assert.Zero(t, tc.connectivity.calls)
	assert.Equal(t, []string{tc.h.Ctx.Executables.Client}, tc.h.Window.Restarts())
}

func TestConnectionErrorsWaitForNetwork(t *testing.T) {
	for _, kind := range []ClientErrorKind{FailedToReconnect, LoginServersDown} {
		t.Run(kind.String(), func(t *testing.T) {
			tc := newTestController(t, nil)
			tc.setState(StateLobby)
			tm := tc.h.Ctx.Templates
			tc.h.Screen.ShowFor(tc.clientErrorTemplate(kind).Name, 1)
			tc.h.Screen.Show(tm.MessageExit[0].Name)

			tc.tick(2)

			assert.Equal(t, StateQueueing, tc.State())
			assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.MessageExit[0].Name))
			assert.Equal(t, 1, tc.connectivity.calls)
			assert.Len(t, tc.h.Window.Restarts(), 1)
		})
	}
}

func TestClientErrorDetectionOrder(t *testing.T) {
	tc := newTestController(t, nil)
	tm := tc.h.Ctx.Templates

	tc.h.Screen.Show(tm.LoginServersDown.Name, tm.FailedToReconnect.Name)
	kind, found := tc.detectClientError()
	require.True(t, found)
	assert.Equal(t, FailedToReconnect, kind)

	tc.h.Screen.Show(tm.SessionExpired.Name)
	kind, _ = tc.detectClientError()
	assert.Equal(t, SessionExpired, kind)
}

func TestDismissInterruptionsIsIdempotent(t *testing.T) {
	tc := newTestController(t, nil)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.MissionsOK.Name, tm.KeyFragment[0].Name)
	tc.h.Screen.HideOnClick(tm.MissionsOK.Name, tm.KeyFragment[0].Name)

	tc.dismissInterruptions()
	tc.dismissInterruptions()

	assert.Equal(t, 1, tc.h.Screen.Screenshots())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.MissionsOK.Name))
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.KeyFragment[0].Name))
	assert.FileExists(t, filepath.Join(tc.h.Ctx.Cfg.ScreenshotLocation, "131415.png"))
}

func TestDismissInterruptionsWithNothingOnScreen(t *testing.T) {
	tc := newTestController(t, nil)

	tc.dismissInterruptions()

	assert.Empty(t, tc.h.Screen.Clicks())
	assert.Empty(t, tc.h.Sleeper.Sleeps())
	assert.Zero(t, tc.h.Screen.Screenshots())
}

func TestMissionScreenshotFailureDoesNotBlockDismissal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(dir, []byte("file"), 0o644))

	tc := newTestController(t, &config.Cfg{ScreenshotLocation: dir})
	missions := tc.h.Ctx.Templates.MissionsOK.Name
	tc.h.Screen.Show(missions)
	tc.h.Screen.HideOnClick(missions)

	tc.dismissInterruptions()

	assert.Equal(t, 1, tc.h.Screen.ClickCount(missions))
}

func TestQueueingRestartsMissingClient(t *testing.T) {
	tc := newTestController(t, nil)
	tc.h.Window.SetRunning(tc.h.Ctx.Executables.Client, false)

	tc.tick(1)

	assert.Equal(t, StateQueueing, tc.State())
	assert.Equal(t, []string{tc.h.Ctx.Executables.Client}, tc.h.Window.Restarts())
}

func TestQueueingRestartsClientOnUnknownScreen(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()

	tc.tick(unknownPolls)
	assert.Empty(t, tc.h.Window.Restarts())

	tc.tick(1)
	assert.Len(t, tc.h.Window.Restarts(), 1)
	assert.Equal(t, StateQueueing, tc.State())
}

func TestQueueingRestartsClientWhenAPILobbyNeverShows(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	api := &fakeClientAPI{}
	tc.clientAPI = api

	tc.tick(unknownPolls)
	assert.Empty(t, tc.h.Window.Restarts())
	assert.Equal(t, unknownPolls, api.lobbies)

	tc.tick(1)
	assert.Equal(t, []string{tc.h.Ctx.Executables.Client}, tc.h.Window.Restarts())
	assert.Equal(t, StateQueueing, tc.State())
}

func TestRestartClientReportsClientStillMissing(t *testing.T) {
	tc := newTestController(t, nil)
	tc.h.Window.OnRestart(func(exe string) { tc.h.Window.SetRunning(exe, false) })

	err := tc.restartClient()

	require.ErrorIs(t, err, game.ErrClientNotRunning)
	assert.Contains(t, tc.h.Sleeper.Sleeps(), clientStartDelay)
}

func TestFindingMatchKeepsPollingWhileAPISearches(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tc.clientAPI = &fakeClientAPI{searchState: searchSearching}
	tc.setState(StateFindingMatch)

	tc.tick(findMatchPolls + 1)

	assert.Equal(t, StateFindingMatch, tc.State())
	assert.Zero(t, tc.findMatchBudget.Failures())
}

func TestFindingMatchAcceptsThroughAPI(t *testing.T) {
	for _, api := range []*fakeClientAPI{
		{searchState: searchFound},
		{phase: "ReadyCheck"},
	} {
		tc := newTestController(t, nil)
		tc.stopGame()
		tc.clientAPI = api
		tc.setState(StateFindingMatch)

		tc.tick(1)

		assert.Equal(t, 1, api.accepts)
		assert.Equal(t, StateFindingMatch, tc.State())
		assert.Zero(t, tc.findMatchBudget.Failures())
	}
}

func TestFindingMatchFailsWhenAPIIsIdle(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tc.clientAPI = &fakeClientAPI{searchState: "Invalid"}
	tc.setState(StateFindingMatch)

	tc.tick(findMatchPolls + 1)

	assert.Equal(t, StateLobby, tc.State())
}

func TestQueueToFindingMatch(t *testing.T) {
	tc := newTestController(t, nil)
	tc.stopGame()
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.Lobby[0].Name)

	tc.tick(1)
	require.Equal(t, StateLobby, tc.State())

	tc.h.Screen.Show(tm.FindMatch[0].Name)
	tc.h.Screen.OnClick(tm.FindMatch[0].Name, func() { tc.h.Screen.Show(tm.InQueue[0].Name) })
	tc.tick(1)

	assert.Equal(t, StateFindingMatch, tc.State())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.FindMatch[0].Name))
	assert.Contains(t, tc.h.Window.Focused(), game.ClientWindowTitle)
}

func TestPostGameNavigatesBackToQueue(t *testing.T) {
	tc := newTestController(t, nil)
	tc.setState(StatePostGame)
	tm := tc.h.Ctx.Templates
	tc.h.Screen.Show(tm.PlayAgain.Name)
	tc.h.Screen.OnClick(tm.PlayAgain.Name, func() {
		tc.h.Screen.Hide(tm.PlayAgain.Name)
		tc.h.Screen.Show(tm.FindMatch[0].Name)
	})

	tc.tick(1)
	assert.Equal(t, StatePostGame, tc.State())
	assert.Equal(t, 1, tc.h.Screen.ClickCount(tm.PlayAgain.Name))

	tc.tick(1)
	assert.Equal(t, StateQueueing, tc.State())
}

func TestTickRecoversFromPanics(t *testing.T) {
	tc := newTestController(t, nil)
	tc.strategy.panics = true
	tc.setState(StateInMatch)

	require.NotPanics(t, func() { tc.tick(1) })
	assert.Equal(t, StateInMatch, tc.State())
}

func TestRunStopsOnCancel(t *testing.T) {
	tc := newTestController(t, nil)
	tc.h.Ctx.TogglePause()

	ctx, cancel := context.WithCancel(context.Background())
	tc.h.Sleeper.OnSleep(func(time.Duration) { cancel() })

	assert.NoError(t, tc.Run(ctx))
}

func TestFormatPlayTime(t *testing.T) {
	assert.Equal(t, "1 hour 2 minutes 3 seconds", formatPlayTime(time.Hour+2*time.Minute+3*time.Second+400*time.Millisecond))
}

func rightClicks(tc testController) []string {
	var names []string
	for _, c := range tc.h.Screen.Clicks() {
		if c.Button == game.RightButton {
			names = append(names, c.Name)
		}
	}
	return names
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
