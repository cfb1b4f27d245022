package output

import "sync"

// ringStreamer is a bounded FIFO of sample frames bridging the engine's
// push-style writes to beep's pull-style Stream calls. Writers block
// when the ring is full; the speaker side never blocks, streaming
// silence when the ring runs dry so the mixer keeps the slot alive
// until the sink is closed.
type ringStreamer struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf    [][2]float64
	read   int
	write  int
	count  int
	closed bool
}

func newRingStreamer(capacity int) *ringStreamer {
	r := &ringStreamer{buf: make([][2]float64, capacity)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// push appends frames, blocking while the ring is full. Returns false
// once the ring is closed.
func (r *ringStreamer) push(frames [][2]float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range frames {
		for r.count == len(r.buf) && !r.closed {
			r.cond.Wait()
		}
		if r.closed {
			return false
		}
		r.buf[r.write] = f
		r.write = (r.write + 1) % len(r.buf)
		r.count++
	}
	r.cond.Broadcast()
	return true
}

// Stream implements beep.Streamer.
func (r *ringStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && r.count == 0 {
		return 0, false
	}

	for n < len(samples) && r.count > 0 {
		samples[n] = r.buf[r.read]
		r.read = (r.read + 1) % len(r.buf)
		r.count--
		n++
	}
	if r.count < len(r.buf) {
		r.cond.Broadcast()
	}

	// Pad with silence so the mixer keeps pulling while the decoder
	// refills the ring.
	for n < len(samples) {
		samples[n] = [2]float64{}
		n++
	}
	return n, true
}

// Err implements beep.Streamer.
func (r *ringStreamer) Err() error { return nil }

// waitEmpty blocks until every queued frame has been streamed out.
func (r *ringStreamer) waitEmpty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.count > 0 && !r.closed {
		r.cond.Wait()
	}
}

func (r *ringStreamer) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.cond.Broadcast()
}
