// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/playmaker/internal/feed"
)

func TestDefaultRouterConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultRouterConfig()

	if cfg.CloseTimeout != 30*time.Second {
		t.Errorf("CloseTimeout = %v, want %v", cfg.CloseTimeout, 30*time.Second)
	}
	if cfg.RetryMaxRetries != 3 {
		t.Errorf("RetryMaxRetries = %d, want 3", cfg.RetryMaxRetries)
	}
	if cfg.RetryInitialInterval != 100*time.Millisecond {
		t.Errorf("RetryInitialInterval = %v, want 100ms", cfg.RetryInitialInterval)
	}
	if cfg.RetryMultiplier != 2.0 {
		t.Errorf("RetryMultiplier = %f, want 2.0", cfg.RetryMultiplier)
	}
	if cfg.ThrottlePerSecond != 0 {
		t.Errorf("ThrottlePerSecond = %d, want 0", cfg.ThrottlePerSecond)
	}
	if cfg.PoisonQueueTopic != DefaultPoisonTopic {
		t.Errorf("PoisonQueueTopic = %q, want %q", cfg.PoisonQueueTopic, DefaultPoisonTopic)
	}
}

// routerHarness runs a router over an in-process gochannel pub/sub.
type routerHarness struct {
	pubsub *gochannel.GoChannel
	router *Router
	poison <-chan *message.Message
	gen    *fakeGenerator
}

func newRouterHarness(t *testing.T, gen *fakeGenerator) *routerHarness {
	t.Helper()

	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	poison, err := pubsub.Subscribe(ctx, DefaultPoisonTopic)
	if err != nil {
		t.Fatalf("subscribe poison topic: %v", err)
	}

	cfg := DefaultRouterConfig()
	cfg.CloseTimeout = time.Second
	cfg.RetryMaxRetries = 1
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond

	router, err := NewRouter(&cfg, pubsub, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	handler, err := NewFeedHandler(gen, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFeedHandler: %v", err)
	}
	router.AddConsumerHandler("feed-generate", DefaultGenerateTopic, pubsub, handler.Handle)
	if router.Handlers() != 1 {
		t.Fatalf("Handlers() = %d, want 1", router.Handlers())
	}

	done := make(chan error, 1)
	go func() { done <- router.Run(ctx) }()
	t.Cleanup(func() {
		_ = router.Close()
		<-done
	})

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}
	if !router.IsRunning() {
		t.Error("IsRunning() = false after start")
	}

	return &routerHarness{pubsub: pubsub, router: router, poison: poison, gen: gen}
}

func (h *routerHarness) request(t *testing.T, viewerID string) {
	t.Helper()
	req, err := NewRequester(h.pubsub, DefaultGenerateTopic)
	if err != nil {
		t.Fatalf("NewRequester: %v", err)
	}
	if err := req.RequestRegeneration(context.Background(), viewerID, ReasonNewPost); err != nil {
		t.Fatalf("RequestRegeneration(%s): %v", viewerID, err)
	}
}

func waitForCall(t *testing.T, gen *fakeGenerator, viewerID string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case got := <-gen.called:
			if got == viewerID {
				return
			}
		case <-timeout:
			t.Fatalf("generator never called for %s", viewerID)
		}
	}
}

func TestRouter_GeneratesAndAcks(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	gen.errs["ghost"] = fmt.Errorf("%w: ghost", feed.ErrViewerNotFound)
	h := newRouterHarness(t, gen)

	h.request(t, "u1")
	waitForCall(t, gen, "u1")
	h.request(t, "ghost")
	waitForCall(t, gen, "ghost")

	select {
	case msg := <-h.poison:
		t.Fatalf("unexpected poisoned message: %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}

	if n := gen.callCount("ghost"); n != 1 {
		t.Errorf("unknown viewer generated %d times, want 1", n)
	}
}

func TestRouter_RetriesThenPoisons(t *testing.T) {
	t.Parallel()

	gen := newFakeGenerator()
	gen.errs["flaky"] = &feed.PersistError{
		ViewerID: "flaky",
		Path:     "feed/flaky",
		Result:   feed.EmptyResult(),
		Err:      errors.New("write timeout"),
	}
	h := newRouterHarness(t, gen)

	h.request(t, "flaky")

	select {
	case msg := <-h.poison:
		req, err := ParseRegenerationRequest(msg.Payload)
		if err != nil {
			t.Fatalf("poisoned payload unreadable: %v", err)
		}
		if req.ViewerID != "flaky" {
			t.Errorf("poisoned viewer = %q, want flaky", req.ViewerID)
		}
		msg.Ack()
	case <-time.After(5 * time.Second):
		t.Fatal("message never reached the poison topic")
	}

	// One initial attempt plus one retry.
	if n := gen.callCount("flaky"); n != 2 {
		t.Errorf("generator called %d times, want 2", n)
	}
}

func TestNewRouter_NilConfig(t *testing.T) {
	t.Parallel()

	r, err := NewRouter(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	if r.config.RetryMaxRetries != DefaultRouterConfig().RetryMaxRetries {
		t.Error("nil config should use defaults")
	}
	if r.IsRunning() {
		t.Error("router should not be running before Run")
	}
}
