// Package playback is the controller-side facade over the audio engine.
// It owns the playing queue, mirrors transport state for the UI, drains
// engine events on a dedicated goroutine and advances the queue when a
// track finishes. UI code talks only to this package, never to the
// engine directly.
package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jvautrin/fermata/internal/engine"
	"github.com/jvautrin/fermata/internal/playlist"
)

const historySize = 50

// restartThreshold is how far into a track Previous restarts it instead
// of moving to the preceding one.
const restartThreshold = 3 * time.Second

// Transport is the engine surface the service depends on. Satisfied by
// *engine.Engine; tests substitute a recording fake.
type Transport interface {
	Play()
	Pause()
	Stop()
	SeekTo(seconds uint64)
	Load(path string)
	SetVolume(level float64)
	SetMuted(muted bool)
	NextEvent() (engine.Event, bool)
	Close()
}

// Service coordinates the queue and the engine.
type Service struct {
	mu sync.RWMutex

	eng     Transport
	queue   *playlist.Queue
	history *playlist.History
	log     *slog.Logger

	state    State
	position time.Duration
	duration time.Duration
	volume   float64
	muted    bool

	// lastGen tracks the newest engine load generation seen; events
	// from older generations belong to a replaced session and are
	// dropped.
	lastGen uint64

	subsMu sync.Mutex
	subs   []*Subscription

	done   chan struct{}
	closed bool
}

// New creates the service and starts its event loop. The caller still
// owns running the engine goroutine itself.
func New(t Transport, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		eng:     t,
		queue:   playlist.NewQueue(),
		history: playlist.NewHistory(historySize),
		log:     log,
		volume:  1.0,
		done:    make(chan struct{}),
	}
	s.history.Push(nil)
	go s.eventLoop()
	return s
}

// eventLoop drains engine events until the engine closes its event
// queue.
func (s *Service) eventLoop() {
	defer close(s.done)
	for {
		ev, ok := s.eng.NextEvent()
		if !ok {
			return
		}
		s.handleEvent(ev)
	}
}

func (s *Service) handleEvent(ev engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := ev.Generation()
	if gen < s.lastGen {
		return
	}
	s.lastGen = gen

	switch ev := ev.(type) {
	case engine.TotalTrackDuration:
		s.duration = time.Duration(ev.Seconds) * time.Second
		s.emitPositionLocked()

	case engine.CurrentTimestamp:
		s.position = time.Duration(ev.Seconds) * time.Second
		s.emitPositionLocked()

	case engine.AudioFinished:
		s.advanceLocked()

	case engine.LoadFailed:
		s.log.Error("playback: load failed", "path", ev.Path, "err", ev.Err)
		s.setStateLocked(StateStopped)
		s.emit(func(sub *Subscription) {
			sub.sendError(ErrorEvent{Operation: "load", Path: ev.Path, Err: ev.Err})
		})
	}
}

// advanceLocked moves to the next queued track after the current one
// finished, or stops at the end of the queue.
func (s *Service) advanceLocked() {
	prev := fromPlaylistTrack(s.queue.Current())
	prevIndex := s.queue.CurrentIndex()

	next := s.queue.Next()
	if next == nil {
		s.position = 0
		s.setStateLocked(StateStopped)
		return
	}

	s.startTrackLocked(next)
	s.emitTrackChangeLocked(prev, prevIndex)
}

// startTrackLocked loads a track into the engine and resets progress.
func (s *Service) startTrackLocked(t *playlist.Track) {
	s.position = 0
	s.duration = t.Duration
	s.eng.Load(t.Path)
	s.setStateLocked(StatePlaying)
}

func (s *Service) setStateLocked(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	s.emit(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: next})
	})
}

func (s *Service) emitTrackChangeLocked(prev *Track, prevIndex int) {
	cur := fromPlaylistTrack(s.queue.Current())
	index := s.queue.CurrentIndex()
	s.emit(func(sub *Subscription) {
		sub.sendTrack(TrackChange{
			Previous:      prev,
			Current:       cur,
			PreviousIndex: prevIndex,
			Index:         index,
		})
	})
}

func (s *Service) emitQueueChangeLocked() {
	tracks := fromPlaylistTracks(s.queue.Tracks())
	index := s.queue.CurrentIndex()
	s.emit(func(sub *Subscription) {
		sub.sendQueue(QueueChange{Tracks: tracks, Index: index})
	})
}

func (s *Service) emitPositionLocked() {
	e := PositionChange{Position: s.position, Duration: s.duration}
	s.emit(func(sub *Subscription) {
		sub.sendPosition(e)
	})
}

// emit fans an event out to every subscriber. Sends are non-blocking.
func (s *Service) emit(send func(*Subscription)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		send(sub)
	}
}

// Subscribe registers a new event subscriber.
func (s *Service) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback, shuts the engine down and waits for the event
// loop to drain.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.eng.Stop()
	s.eng.Close()
	<-s.done

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.subsMu.Unlock()
	return nil
}
