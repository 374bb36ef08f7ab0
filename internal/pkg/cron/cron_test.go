package cron

import (
	"context"
	"errors"
	"testing"
)

func TestRegister_RejectsBadSpecAndDuplicates(t *testing.T) {
	s := New()
	noop := func(context.Context) error { return nil }
	if err := s.Register(Job{Name: "a", Spec: "not a spec", Fn: noop}); err == nil {
		t.Fatalf("bad spec accepted")
	}
	if err := s.Register(Job{Name: "a", Spec: "@every 1h", Fn: noop}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register(Job{Name: "a", Spec: "@every 2h", Fn: noop}); err == nil {
		t.Fatalf("duplicate name accepted")
	}
}

func TestRunSync_RecordsOutcome(t *testing.T) {
	s := New()
	fail := true
	err := s.Register(Job{Name: "sweep", Spec: "@every 6h", Fn: func(context.Context) error {
		if fail {
			return errors.New("bucket unreachable")
		}
		return nil
	}})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := s.RunSync(context.Background(), "sweep")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Status != StatusReject || res.Message != "bucket unreachable" {
		t.Fatalf("result=%+v", res)
	}

	fail = false
	res, err = s.RunSync(context.Background(), "sweep")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Status != StatusFulfill || res.Message != "" {
		t.Fatalf("result=%+v", res)
	}

	if _, err := s.RunSync(context.Background(), "missing"); err == nil {
		t.Fatalf("unknown job ran")
	}
}

func TestList_ShowsNextRunOnceStarted(t *testing.T) {
	s := New()
	if err := s.Register(Job{Name: "b", Spec: "@every 1h", Fn: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.Register(Job{Name: "a", Spec: "@every 1h", Fn: func(context.Context) error { return nil }}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	items := s.List()
	if len(items) != 2 || items[0].Name != "a" || items[1].Name != "b" {
		t.Fatalf("items=%+v", items)
	}
	if items[0].NextDate == nil {
		t.Fatalf("next date not scheduled")
	}
}
