package player

import (
	"sync"
	"testing"
	"time"

	"vidarc/model"
	"vidarc/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface records every command the session issues.
type fakeSurface struct {
	mu        sync.Mutex
	loads     []int64
	loadSrcs  []string
	plays     int
	pauses    int
	seeks     []float64
	volumes   []float64
	mutes     []bool
	rates     []float64
	unloads   int
	fsWants   []bool
	pipWants  []bool
}

func (s *fakeSurface) Load(token int64, src string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads = append(s.loads, token)
	s.loadSrcs = append(s.loadSrcs, src)
}

func (s *fakeSurface) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
}

func (s *fakeSurface) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
}

func (s *fakeSurface) Seek(position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks = append(s.seeks, position)
}

func (s *fakeSurface) SetVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append(s.volumes, volume)
}

func (s *fakeSurface) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutes = append(s.mutes, muted)
}

func (s *fakeSurface) SetRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, rate)
}

func (s *fakeSurface) SetFullscreen(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fsWants = append(s.fsWants, on)
}

func (s *fakeSurface) SetPictureInPicture(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipWants = append(s.pipWants, on)
}

func (s *fakeSurface) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unloads++
}

func (s *fakeSurface) lastLoadToken() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.loads) == 0 {
		return 0
	}
	return s.loads[len(s.loads)-1]
}

func (s *fakeSurface) counts() (plays, pauses, unloads int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays, s.pauses, s.unloads
}

func testOptions() Options {
	return Options{ControlsHideAfter: 0, VolumeFloor: 0.05}
}

func newTestManager(t *testing.T, opts Options) (*Manager, repository.CatalogStore) {
	t.Helper()
	catalog := repository.NewCatalog(nil, []*model.Video{
		{ID: "v1", Title: "Test video", VideoURL: "https://cdn.example.com/v1.mp4", DateAdded: "2024-01-01"},
		{ID: "v2", Title: "Other video", VideoURL: "https://cdn.example.com/v2.mp4", DateAdded: "2024-01-02"},
	})
	t.Cleanup(catalog.Close)
	return NewManager(catalog, opts), catalog
}

// settle drives the session through metadata and the autoplay handshake.
func settle(s *Session, surface *fakeSurface, duration float64) {
	token := surface.lastLoadToken()
	s.HandleEvent(Event{Type: EventMetadata, Token: token, Duration: duration})
	s.HandleEvent(Event{Type: EventPlayStarted, Token: token})
}

func TestOpenLoadsAndCountsView(t *testing.T) {
	m, catalog := newTestManager(t, testOptions())
	surface := &fakeSurface{}

	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	assert.Equal(t, StateLoading, session.Snapshot().State)
	assert.Equal(t, []string{"https://cdn.example.com/v1.mp4"}, surface.loadSrcs)

	got, err := catalog.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
}

func TestOpenUnknownVideo(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	_, err := m.Open("missing", &fakeSurface{}, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestViewsIncrementOncePerOpen(t *testing.T) {
	m, catalog := newTestManager(t, testOptions())

	for i := 0; i < 3; i++ {
		surface := &fakeSurface{}
		session, err := m.Open("v1", surface, nil)
		require.NoError(t, err)
		settle(session, surface, 100)
		session.TogglePlay()
		session.Seek(10)
		m.Close(session)
	}

	got, err := catalog.Get("v1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)
}

func TestMetadataTriggersAutoplay(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventMetadata, Token: token, Duration: 300})

	snap := session.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, float64(300), snap.Duration)
	plays, _, _ := surface.counts()
	assert.Equal(t, 1, plays)

	session.HandleEvent(Event{Type: EventPlayStarted, Token: token})
	assert.Equal(t, StatePlaying, session.Snapshot().State)
}

func TestAutoplayRejectionLandsInPaused(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventMetadata, Token: token, Duration: 300})
	session.HandleEvent(Event{Type: EventPlayRejected, Token: token})

	assert.Equal(t, StatePaused, session.Snapshot().State)
}

func TestStaleTokenEventsDiscarded(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventError, Token: token, Message: "network"})
	require.Equal(t, StateErrored, session.Snapshot().State)

	session.Retry()
	newToken := surface.lastLoadToken()
	require.NotEqual(t, token, newToken)

	// A late event from the failed load must not disturb the new one.
	session.HandleEvent(Event{Type: EventMetadata, Token: token, Duration: 50})
	assert.Equal(t, StateLoading, session.Snapshot().State)
	assert.Equal(t, float64(0), session.Snapshot().Duration)

	session.HandleEvent(Event{Type: EventMetadata, Token: newToken, Duration: 80})
	assert.Equal(t, float64(80), session.Snapshot().Duration)
}

func TestTogglePlayLatestIntentWinsWhilePending(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventMetadata, Token: token, Duration: 300})

	// Autoplay is pending. A single toggle means "stay paused".
	session.TogglePlay()
	session.HandleEvent(Event{Type: EventPlayStarted, Token: token})
	assert.Equal(t, StatePaused, session.Snapshot().State)

	// Two rapid toggles cancel out; the next settle plays.
	session.TogglePlay()
	session.TogglePlay()
	session.TogglePlay()
	session.HandleEvent(Event{Type: EventPlayStarted, Token: token})
	assert.Equal(t, StatePlaying, session.Snapshot().State)
}

func TestSeekClampsToDuration(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)

	session.Seek(250)
	assert.Equal(t, float64(100), session.Snapshot().Position)

	session.Seek(-5)
	assert.Equal(t, float64(0), session.Snapshot().Position)
}

func TestSkipSaturatesAtBoundaries(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)
	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventTimeUpdate, Token: token, Position: 5})

	session.Skip(-10)
	assert.Equal(t, float64(0), session.Snapshot().Position)

	session.HandleEvent(Event{Type: EventTimeUpdate, Token: token, Position: 95})
	session.Skip(10)
	assert.Equal(t, float64(100), session.Snapshot().Position)
}

func TestEndedReturnsToStartPaused(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)
	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventTimeUpdate, Token: token, Position: 100})
	session.HandleEvent(Event{Type: EventEnded, Token: token})

	snap := session.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, float64(0), snap.Position)
	assert.Contains(t, surface.seeks, float64(0))
}

func TestErrorPreservesPositionUntilRetry(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)
	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventTimeUpdate, Token: token, Position: 37})
	session.HandleEvent(Event{Type: EventError, Token: token, Message: "decode failure"})

	snap := session.Snapshot()
	assert.Equal(t, StateErrored, snap.State)
	assert.Equal(t, float64(37), snap.Position)
	assert.Equal(t, float64(100), snap.Duration)

	// No control besides retry leaves the errored state.
	session.TogglePlay()
	session.Seek(10)
	assert.Equal(t, StateErrored, session.Snapshot().State)

	session.Retry()
	assert.Equal(t, StateLoading, session.Snapshot().State)
}

func TestVolumeFloorImpliesMute(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)

	session.SetVolume(0.6)
	assert.False(t, session.Snapshot().Muted)

	session.SetVolume(0.01)
	assert.True(t, session.Snapshot().Muted)

	// Unmuting restores the last audible level.
	session.ToggleMute()
	snap := session.Snapshot()
	assert.False(t, snap.Muted)
	assert.Equal(t, 0.6, snap.Volume)
}

func TestSetRateValidatesAgainstFixedSet(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)

	session.SetRate(1.5)
	assert.Equal(t, 1.5, session.Snapshot().Rate)

	session.SetRate(3.0)
	assert.Equal(t, 1.5, session.Snapshot().Rate)
}

func TestFullscreenFlipsOnlyOnConfirmation(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)

	session.ToggleFullscreen()
	assert.False(t, session.Snapshot().Fullscreen)
	assert.Equal(t, []bool{true}, surface.fsWants)

	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventFullscreen, Token: token, Active: true})
	assert.True(t, session.Snapshot().Fullscreen)

	// External exit (Escape key) arrives as an event with no request.
	session.HandleEvent(Event{Type: EventFullscreen, Token: token, Active: false})
	assert.False(t, session.Snapshot().Fullscreen)
}

func TestControlsHideOnlyWhilePlaying(t *testing.T) {
	opts := Options{ControlsHideAfter: 30 * time.Millisecond, VolumeFloor: 0.05}
	m, _ := newTestManager(t, opts)
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)
	defer m.Close(session)

	token := surface.lastLoadToken()
	session.HandleEvent(Event{Type: EventMetadata, Token: token, Duration: 100})

	// Paused: the timer fires but the controls stay visible.
	session.TogglePlay() // cancel the pending autoplay
	session.HandleEvent(Event{Type: EventPlayStarted, Token: token})
	require.Equal(t, StatePaused, session.Snapshot().State)
	time.Sleep(80 * time.Millisecond)
	assert.True(t, session.Snapshot().ControlsVisible)

	// Playing: the controls hide after the idle timeout.
	session.TogglePlay()
	session.HandleEvent(Event{Type: EventPlayStarted, Token: token})
	require.Equal(t, StatePlaying, session.Snapshot().State)
	require.Eventually(t, func() bool {
		return !session.Snapshot().ControlsVisible
	}, time.Second, 10*time.Millisecond)

	// Interaction brings them back.
	session.Interact()
	assert.True(t, session.Snapshot().ControlsVisible)
}

func TestCloseHaltsPlayback(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}
	session, err := m.Open("v1", surface, nil)
	require.NoError(t, err)

	settle(session, surface, 100)
	m.Close(session)

	_, pauses, unloads := surface.counts()
	assert.GreaterOrEqual(t, pauses, 1)
	assert.Equal(t, 1, unloads)
	assert.Equal(t, StateIdle, session.Snapshot().State)

	// Controls after close are no-ops.
	session.TogglePlay()
	session.Seek(10)
	plays, _, _ := surface.counts()
	assert.Equal(t, 1, plays)
}

func TestReopenStartsFresh(t *testing.T) {
	m, _ := newTestManager(t, testOptions())

	first := &fakeSurface{}
	session, err := m.Open("v1", first, nil)
	require.NoError(t, err)
	settle(session, first, 100)
	session.HandleEvent(Event{Type: EventTimeUpdate, Token: first.lastLoadToken(), Position: 60})
	m.Close(session)

	// Reopening on a different record starts fresh at position zero.
	second := &fakeSurface{}
	reopened, err := m.Open("v2", second, nil)
	require.NoError(t, err)
	defer m.Close(reopened)

	snap := reopened.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.Equal(t, float64(0), snap.Position)
	assert.Equal(t, []string{"https://cdn.example.com/v2.mp4"}, second.loadSrcs)
}

func TestSnapshotObserverNotified(t *testing.T) {
	m, _ := newTestManager(t, testOptions())
	surface := &fakeSurface{}

	var mu sync.Mutex
	var states []State
	session, err := m.Open("v1", surface, func(snap Snapshot) {
		mu.Lock()
		states = append(states, snap.State)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer m.Close(session)

	settle(session, surface, 100)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, StateLoading)
	assert.Contains(t, states, StatePlaying)
}
