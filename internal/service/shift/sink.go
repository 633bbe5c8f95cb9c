package shift

import (
	"sync"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
)

// SinkFunc adapts a function to shift.LineSink.
type SinkFunc func(line string)

func (f SinkFunc) Emit(line string) { f(line) }

// Discard drops every line.
var Discard shift.LineSink = SinkFunc(func(string) {})

// MultiSink copies each line to every sink in order.
func MultiSink(sinks ...shift.LineSink) shift.LineSink {
	return SinkFunc(func(line string) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(line)
			}
		}
	})
}

// Stream is an unbounded line queue between the worker and a reader.
// Emit never blocks. Lines() is closed after Close once the backlog has
// been delivered, which is the end-of-stream signal. The reader must keep
// draining Lines() until it is closed.
type Stream struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool
	out    chan string
}

func NewStream() *Stream {
	s := &Stream{out: make(chan string)}
	s.cond = sync.NewCond(&s.mu)
	go s.pump()
	return s
}

// Emit enqueues line. Lines emitted after Close are dropped.
func (s *Stream) Emit(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.queue = append(s.queue, line)
	s.cond.Signal()
}

func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cond.Broadcast()
}

func (s *Stream) Lines() <-chan string {
	return s.out
}

func (s *Stream) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		line := s.queue[0]
		s.queue[0] = ""
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.out <- line
	}
}
