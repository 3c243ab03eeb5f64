package sim

import (
	"testing"
	"time"
)

func TestClockAdvancesToEarliestWake(t *testing.T) {
	s := NewScheduler()

	var wakes []time.Duration
	s.Spawn("late", func() {
		s.Sleep(250 * time.Nanosecond)
		wakes = append(wakes, s.Now())
	})
	s.Spawn("early", func() {
		s.Sleep(100 * time.Nanosecond)
		wakes = append(wakes, s.Now())
	})

	end := s.Run()

	if len(wakes) != 2 {
		t.Fatalf("expected 2 wakes, got %d", len(wakes))
	}
	if wakes[0] != 100*time.Nanosecond || wakes[1] != 250*time.Nanosecond {
		t.Errorf("wake order wrong: %v", wakes)
	}
	if end != 250*time.Nanosecond {
		t.Errorf("expected run to end at 250ns, got %v", end)
	}
}

func TestTimersAtSameInstantFireInOrderSet(t *testing.T) {
	s := NewScheduler()

	var order []string
	s.Spawn("a", func() {
		s.Sleep(100 * time.Nanosecond)
		order = append(order, "a")
	})
	s.Spawn("b", func() {
		s.Sleep(100 * time.Nanosecond)
		order = append(order, "b")
	})

	s.Run()

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected [a b], got %v", order)
	}
}

func TestSleepDoesNotAdvanceOtherTime(t *testing.T) {
	s := NewScheduler()

	var at time.Duration
	s.Spawn("sleeper", func() {
		s.Sleep(0)
		at = s.Now()
	})
	s.Run()

	if at != 0 {
		t.Errorf("zero sleep advanced the clock to %v", at)
	}
}

func TestEventWaitResumesOnNotify(t *testing.T) {
	s := NewScheduler()
	ev := s.NewEvent()

	var resumedAt time.Duration
	resumed := false
	s.Spawn("waiter", func() {
		ev.Wait()
		resumed = true
		resumedAt = s.Now()
	})
	s.Spawn("notifier", func() {
		s.Sleep(50 * time.Nanosecond)
		ev.Notify()
	})

	s.Run()

	if !resumed {
		t.Fatal("waiter never resumed")
	}
	if resumedAt != 50*time.Nanosecond {
		t.Errorf("waiter resumed at %v, want 50ns", resumedAt)
	}
}

func TestNotifyWithoutWaitersIsLost(t *testing.T) {
	s := NewScheduler()
	ev := s.NewEvent()

	resumed := false
	s.Spawn("notifier", func() {
		ev.Notify()
	})
	s.Spawn("waiter", func() {
		ev.Wait()
		resumed = true
	})

	s.Run()

	if resumed {
		t.Error("waiter resumed from a notify that preceded its wait")
	}
}

func TestRunEndsWhenOnlyParkedTasksRemain(t *testing.T) {
	s := NewScheduler()
	ev := s.NewEvent()

	cleaned := false
	s.Spawn("forever", func() {
		defer func() { cleaned = true }()
		ev.Wait()
	})

	done := make(chan time.Duration, 1)
	go func() { done <- s.Run() }()

	select {
	case end := <-done:
		if end != 0 {
			t.Errorf("expected run to end at 0, got %v", end)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run hung with a permanently parked task")
	}
	if !cleaned {
		t.Error("parked task was not unwound; its defer never ran")
	}
}

func TestStopEndsRunEarly(t *testing.T) {
	s := NewScheduler()

	ticks := 0
	s.Spawn("ticker", func() {
		for {
			s.Sleep(100 * time.Nanosecond)
			ticks++
		}
	})
	s.Spawn("stopper", func() {
		s.Sleep(250 * time.Nanosecond)
		s.Stop()
	})

	end := s.Run()

	if end != 250*time.Nanosecond {
		t.Errorf("expected stop at 250ns, got %v", end)
	}
	if ticks != 2 {
		t.Errorf("expected 2 ticks before stop, got %d", ticks)
	}
}

func TestSignalWakesOnlyOnValueChange(t *testing.T) {
	s := NewScheduler()
	sig := NewSignal(s, false)

	wakes := 0
	s.Spawn("watcher", func() {
		for !sig.Read() {
			sig.WaitChanged()
			wakes++
		}
	})
	s.Spawn("writer", func() {
		s.Sleep(10 * time.Nanosecond)
		sig.Write(false) // no change, must not wake the watcher
		s.Sleep(10 * time.Nanosecond)
		sig.Write(true)
		sig.Write(true) // repeat write, no further change
	})

	s.Run()

	if !sig.Read() {
		t.Fatal("signal value lost")
	}
	if wakes != 1 {
		t.Errorf("expected exactly 1 wake, got %d", wakes)
	}
}

func TestTaskOrderIsSpawnOrderAtStart(t *testing.T) {
	s := NewScheduler()

	var order []string
	s.Spawn("first", func() { order = append(order, "first") })
	s.Spawn("second", func() { order = append(order, "second") })
	s.Run()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected spawn order execution, got %v", order)
	}
}
