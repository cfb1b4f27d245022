package engine

import (
	"sync"
	"testing"
)

func TestQueueOrdering(t *testing.T) {
	q := newQueue[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	if q.Len() != 5 {
		t.Fatalf("Len = %d, want 5", q.Len())
	}
	for i := 0; i < 5; i++ {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop = %d,%v, want %d,true", v, ok, i)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Error("TryPop on empty queue returned ok")
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	q := newQueue[string]()

	var wg sync.WaitGroup
	wg.Add(1)
	var got string
	go func() {
		defer wg.Done()
		got, _ = q.Pop()
	}()

	q.Push("hello")
	wg.Wait()
	if got != "hello" {
		t.Errorf("Pop = %q, want %q", got, "hello")
	}
}

func TestQueueCloseWakesConsumer(t *testing.T) {
	q := newQueue[int]()

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	q.Close()
	if ok := <-done; ok {
		t.Error("Pop returned ok after close on empty queue")
	}
}

func TestQueueItemsRemainPoppableAfterClose(t *testing.T) {
	q := newQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Close()

	if q.Push(3) {
		t.Error("Push succeeded after close")
	}
	for want := 1; want <= 2; want++ {
		v, ok := q.Pop()
		if !ok || v != want {
			t.Fatalf("Pop = %d,%v, want %d,true", v, ok, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop returned ok on drained closed queue")
	}
	if !q.Closed() {
		t.Error("Closed = false after Close")
	}
}
