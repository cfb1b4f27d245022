package playback

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jvautrin/fermata/internal/engine"
)

// mockTransport records transport calls and feeds scripted engine
// events to the service's event loop.
type mockTransport struct {
	mu    sync.Mutex
	calls []string
	loads []string
	seeks []uint64
	gains []float64
	mutes []bool

	events chan engine.Event
	closed bool
}

func newMockTransport() *mockTransport {
	return &mockTransport{events: make(chan engine.Event, 64)}
}

func (m *mockTransport) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockTransport) Play()  { m.record("play") }
func (m *mockTransport) Pause() { m.record("pause") }
func (m *mockTransport) Stop()  { m.record("stop") }

func (m *mockTransport) SeekTo(seconds uint64) {
	m.mu.Lock()
	m.seeks = append(m.seeks, seconds)
	m.mu.Unlock()
	m.record("seek")
}

func (m *mockTransport) Load(path string) {
	m.mu.Lock()
	m.loads = append(m.loads, path)
	m.mu.Unlock()
	m.record("load")
}

func (m *mockTransport) SetVolume(level float64) {
	m.mu.Lock()
	m.gains = append(m.gains, level)
	m.mu.Unlock()
	m.record("volume")
}

func (m *mockTransport) SetMuted(muted bool) {
	m.mu.Lock()
	m.mutes = append(m.mutes, muted)
	m.mu.Unlock()
	m.record("muted")
}

func (m *mockTransport) NextEvent() (engine.Event, bool) {
	ev, ok := <-m.events
	return ev, ok
}

func (m *mockTransport) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
}

func (m *mockTransport) lastLoad() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.loads) == 0 {
		return ""
	}
	return m.loads[len(m.loads)-1]
}

func (m *mockTransport) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loads)
}

func queueOf(titles ...string) []Track {
	tracks := make([]Track, len(titles))
	for i, title := range titles {
		tracks[i] = Track{
			ID:    int64(i + 1),
			Path:  "/music/" + title + ".opus",
			Title: title,
		}
	}
	return tracks
}

func newTestService(t *testing.T, titles ...string) (*Service, *mockTransport) {
	t.Helper()
	mt := newMockTransport()
	s := New(mt, nil)
	t.Cleanup(func() { s.Close() })
	if len(titles) > 0 {
		s.RestoreQueue(queueOf(titles...), 0)
	}
	return s, mt
}

func waitState(t *testing.T, sub *Subscription) StateChange {
	t.Helper()
	select {
	case e := <-sub.StateChanged:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state change")
		return StateChange{}
	}
}

func waitTrack(t *testing.T, sub *Subscription) TrackChange {
	t.Helper()
	select {
	case e := <-sub.TrackChanged:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for track change")
		return TrackChange{}
	}
}

func waitPosition(t *testing.T, sub *Subscription) PositionChange {
	t.Helper()
	select {
	case e := <-sub.PositionChanged:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for position change")
		return PositionChange{}
	}
}

func TestPlayStartsCurrentTrackWhenStopped(t *testing.T) {
	s, mt := newTestService(t, "a", "b")

	s.Play()

	if !s.IsPlaying() {
		t.Errorf("state = %v, expected Playing", s.State())
	}
	if got := mt.lastLoad(); got != "/music/a.opus" {
		t.Errorf("loaded %q, expected /music/a.opus", got)
	}
}

func TestPlayOnEmptyQueueIsNoop(t *testing.T) {
	s, mt := newTestService(t)

	s.Play()

	if !s.IsStopped() {
		t.Errorf("state = %v, expected Stopped", s.State())
	}
	if mt.loadCount() != 0 {
		t.Errorf("expected no loads, got %d", mt.loadCount())
	}
}

func TestPauseAndResume(t *testing.T) {
	s, _ := newTestService(t, "a")
	s.Play()

	s.Pause()
	if !s.IsPaused() {
		t.Fatalf("state = %v, expected Paused", s.State())
	}

	s.Play()
	if !s.IsPlaying() {
		t.Fatalf("state = %v, expected Playing", s.State())
	}
}

func TestToggle(t *testing.T) {
	s, _ := newTestService(t, "a")

	s.Toggle()
	if !s.IsPlaying() {
		t.Fatalf("state = %v after first toggle, expected Playing", s.State())
	}
	s.Toggle()
	if !s.IsPaused() {
		t.Fatalf("state = %v after second toggle, expected Paused", s.State())
	}
}

func TestNextAndJumpTo(t *testing.T) {
	s, mt := newTestService(t, "a", "b", "c")
	s.Play()

	s.Next()
	if got := mt.lastLoad(); got != "/music/b.opus" {
		t.Errorf("loaded %q after Next, expected /music/b.opus", got)
	}

	s.JumpTo(2)
	if got := mt.lastLoad(); got != "/music/c.opus" {
		t.Errorf("loaded %q after JumpTo, expected /music/c.opus", got)
	}

	// Past the end: no further load
	loads := mt.loadCount()
	s.Next()
	if mt.loadCount() != loads {
		t.Error("Next at end of queue should not load")
	}
}

func TestPreviousMovesBackEarlyInTrack(t *testing.T) {
	s, mt := newTestService(t, "a", "b")
	s.Play()
	s.Next()

	s.Previous()
	if got := mt.lastLoad(); got != "/music/a.opus" {
		t.Errorf("loaded %q after Previous, expected /music/a.opus", got)
	}
}

func TestPreviousRestartsDeepIntoTrack(t *testing.T) {
	s, mt := newTestService(t, "a", "b")
	sub := s.Subscribe()
	s.Play()
	s.Next()

	mt.events <- engine.CurrentTimestamp{Gen: 0, Seconds: 30}
	if got := waitPosition(t, sub); got.Position != 30*time.Second {
		t.Fatalf("position = %v, expected 30s", got.Position)
	}

	loads := mt.loadCount()
	s.Previous()

	if mt.loadCount() != loads {
		t.Error("Previous deep into a track should restart, not load")
	}
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if len(mt.seeks) != 1 || mt.seeks[0] != 0 {
		t.Errorf("seeks = %v, expected [0]", mt.seeks)
	}
}

func TestSeekClampsAndResumes(t *testing.T) {
	s, mt := newTestService(t, "a")
	sub := s.Subscribe()
	s.Play()

	mt.events <- engine.TotalTrackDuration{Gen: 0, Seconds: 100}
	waitPosition(t, sub)

	s.Pause()
	s.SeekTo(250 * time.Second)

	if !s.IsPlaying() {
		t.Error("seek should resume playback")
	}
	if got := s.Position(); got != 100*time.Second {
		t.Errorf("position = %v, expected clamp to 100s", got)
	}

	s.Seek(-500 * time.Second)
	if got := s.Position(); got != 0 {
		t.Errorf("position = %v, expected clamp to 0", got)
	}
}

func TestAudioFinishedAdvancesQueue(t *testing.T) {
	s, mt := newTestService(t, "a", "b")
	sub := s.Subscribe()
	s.Play()

	mt.events <- engine.AudioFinished{Gen: 0}

	change := waitTrack(t, sub)
	if change.Current == nil || change.Current.Title != "b" {
		t.Fatalf("advanced to %+v, expected b", change.Current)
	}
	if got := mt.lastLoad(); got != "/music/b.opus" {
		t.Errorf("loaded %q, expected /music/b.opus", got)
	}
}

func TestAudioFinishedAtQueueEndStops(t *testing.T) {
	s, mt := newTestService(t, "a")
	sub := s.Subscribe()
	s.Play()
	if change := waitState(t, sub); change.Current != StatePlaying {
		t.Fatalf("state change to %v, expected Playing", change.Current)
	}

	mt.events <- engine.AudioFinished{Gen: 0}

	change := waitState(t, sub)
	if change.Current != StateStopped {
		t.Fatalf("state change to %v, expected Stopped", change.Current)
	}
	if s.QueueCurrentIndex() != 0 {
		t.Errorf("cursor = %d, expected to stay on last track", s.QueueCurrentIndex())
	}
}

func TestStaleGenerationEventsDropped(t *testing.T) {
	s, mt := newTestService(t, "a")
	sub := s.Subscribe()
	s.Play()

	mt.events <- engine.CurrentTimestamp{Gen: 5, Seconds: 40}
	waitPosition(t, sub)

	// A buffered event from a replaced session must not regress the
	// position.
	mt.events <- engine.CurrentTimestamp{Gen: 3, Seconds: 99}
	mt.events <- engine.CurrentTimestamp{Gen: 5, Seconds: 41}

	got := waitPosition(t, sub)
	if got.Position != 41*time.Second {
		t.Fatalf("position = %v, expected 41s (stale event applied?)", got.Position)
	}
}

func TestLoadFailedReportsErrorAndStops(t *testing.T) {
	s, mt := newTestService(t, "a")
	sub := s.Subscribe()
	s.Play()

	mt.events <- engine.LoadFailed{Gen: 0, Path: "/music/a.opus", Err: errors.New("no such file")}

	select {
	case e := <-sub.Error:
		if e.Operation != "load" || e.Path != "/music/a.opus" {
			t.Errorf("unexpected error event: %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error event")
	}
	if !s.IsStopped() {
		t.Errorf("state = %v, expected Stopped after load failure", s.State())
	}
}

func TestVolumeAndMuteForwarded(t *testing.T) {
	s, mt := newTestService(t)

	s.SetVolume(1.5)
	s.SetVolume(0.3)
	if got := s.Volume(); got != 0.3 {
		t.Errorf("Volume = %v, expected 0.3", got)
	}

	if !s.ToggleMute() {
		t.Error("ToggleMute should return true")
	}
	s.SetMuted(false)

	mt.mu.Lock()
	defer mt.mu.Unlock()
	if len(mt.gains) != 2 || mt.gains[0] != 1.0 || mt.gains[1] != 0.3 {
		t.Errorf("gains = %v, expected [1 0.3]", mt.gains)
	}
	if len(mt.mutes) != 2 || !mt.mutes[0] || mt.mutes[1] {
		t.Errorf("mutes = %v, expected [true false]", mt.mutes)
	}
}

func TestCloseSignalsSubscribers(t *testing.T) {
	mt := newMockTransport()
	s := New(mt, nil)
	sub := s.Subscribe()

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case <-sub.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed")
	}

	// Idempotent
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
