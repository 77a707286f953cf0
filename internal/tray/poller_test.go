package tray

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(NewHost(&fakeFetcher{}, nil, nil), 0, nil)
	if p.Interval() != time.Minute {
		t.Errorf("Interval = %v, want 1m", p.Interval())
	}
}

func TestPoller_FetchesImmediately(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{reading: sample(100, "Flat")}}}
	h := NewHost(f, nil, nil)
	p := NewPoller(h, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	waitFor(t, func() bool { return f.Calls() == 1 })
	waitFor(t, func() bool { _, ok := h.Last(); return ok })
}

func TestPoller_Ticks(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{reading: sample(100, "Flat")}}}
	p := NewPoller(NewHost(f, nil, nil), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	waitFor(t, func() bool { return f.Calls() >= 3 })
}

func TestPoller_RequestRefresh(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{reading: sample(100, "Flat")}}}
	p := NewPoller(NewHost(f, nil, nil), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	waitFor(t, func() bool { return f.Calls() == 1 })
	p.RequestRefresh()
	waitFor(t, func() bool { return f.Calls() == 2 })
}

func TestPoller_RequestRefreshNeverBlocks(t *testing.T) {
	p := NewPoller(NewHost(&fakeFetcher{}, nil, nil), time.Hour, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			p.RequestRefresh()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RequestRefresh blocked without a running poller")
	}
	if len(p.requests) != 1 {
		t.Errorf("pending requests = %d, want 1", len(p.requests))
	}
}

func TestPoller_StopsOnCancel(t *testing.T) {
	f := &fakeFetcher{results: []fetchResult{{reading: sample(100, "Flat")}}}
	p := NewPoller(NewHost(f, nil, nil), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(stopped)
	}()

	waitFor(t, func() bool { return f.Calls() == 1 })
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
