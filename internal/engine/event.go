package engine

// Event is a fact observed by the engine and reported to the controller.
//
// Every event carries the load generation it belongs to: the counter
// increments on each load or seek, so the controller can discard events
// buffered from a session that has since been replaced.
type Event interface {
	isEvent()
	// Generation returns the load generation the event belongs to.
	Generation() uint64
}

// AudioFinished is emitted exactly once when the active track reaches
// end of stream.
type AudioFinished struct {
	Gen uint64
}

// TotalTrackDuration reports the loaded track's duration in whole
// seconds. Emitted once per successful load.
type TotalTrackDuration struct {
	Gen     uint64
	Seconds uint64
}

// CurrentTimestamp reports the presentation time of the packet just
// read, in whole seconds. Emitted once per packet, whether or not the
// packet is written to the sink.
type CurrentTimestamp struct {
	Gen     uint64
	Seconds uint64
}

// LoadFailed reports that a load or seek attempt was abandoned. The
// engine stays idle with no active session; it is not a crash.
type LoadFailed struct {
	Gen  uint64
	Path string
	Err  error
}

func (AudioFinished) isEvent()      {}
func (TotalTrackDuration) isEvent() {}
func (CurrentTimestamp) isEvent()   {}
func (LoadFailed) isEvent()         {}

func (e AudioFinished) Generation() uint64      { return e.Gen }
func (e TotalTrackDuration) Generation() uint64 { return e.Gen }
func (e CurrentTimestamp) Generation() uint64   { return e.Gen }
func (e LoadFailed) Generation() uint64         { return e.Gen }
