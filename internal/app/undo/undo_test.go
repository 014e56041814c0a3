package undo

import (
	"fmt"
	"testing"
	"time"

	"github.com/questforge/questforge/internal/domain"
)

var t0 = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func push(t *testing.T, l Ledger, stack []domain.UndoAction, id string, at time.Time) []domain.UndoAction {
	t.Helper()
	a, err := l.Action(id, domain.UndoItemPurchase, "buy", domain.PurchaseUndo{ItemID: "x", Price: 10}, at)
	if err != nil {
		t.Fatalf("Action: %v", err)
	}
	return l.Push(stack, a)
}

func TestPush_EvictsOldest(t *testing.T) {
	l := NewLedger(0, 0)
	var stack []domain.UndoAction
	for i := 0; i < 11; i++ {
		stack = push(t, l, stack, fmt.Sprintf("u%d", i), t0)
	}
	if len(stack) != 10 {
		t.Fatalf("len = %d, want 10", len(stack))
	}
	if stack[0].ID != "u1" || stack[9].ID != "u10" {
		t.Errorf("kept %s..%s, want u1..u10", stack[0].ID, stack[9].ID)
	}
}

func TestPop_LIFO(t *testing.T) {
	l := NewLedger(10, 30*time.Second)
	var stack []domain.UndoAction
	stack = push(t, l, stack, "a", t0)
	stack = push(t, l, stack, "b", t0.Add(time.Second))

	stack, top := Pop(stack, t0.Add(2*time.Second))
	if top == nil || top.ID != "b" {
		t.Fatalf("pop = %v, want b", top)
	}
	stack, top = Pop(stack, t0.Add(3*time.Second))
	if top == nil || top.ID != "a" {
		t.Fatalf("pop = %v, want a", top)
	}
	if _, top = Pop(stack, t0.Add(4*time.Second)); top != nil {
		t.Errorf("pop on empty = %v, want nil", top)
	}
}

func TestPop_AfterWindow(t *testing.T) {
	l := NewLedger(10, 30*time.Second)
	stack := push(t, l, nil, "a", t0)
	if _, top := Pop(stack, t0.Add(30*time.Second)); top != nil {
		t.Errorf("pop at expiry = %v, want nil", top)
	}
	if _, top := Pop(stack, t0.Add(29*time.Second)); top == nil {
		t.Error("pop inside window returned nil")
	}
}

func TestSweep_Idempotent(t *testing.T) {
	l := NewLedger(10, 30*time.Second)
	stack := push(t, l, nil, "old", t0)
	stack = push(t, l, stack, "new", t0.Add(20*time.Second))
	now := t0.Add(40 * time.Second)

	stack, n := Sweep(stack, now)
	if n != 1 || len(stack) != 1 || stack[0].ID != "new" {
		t.Fatalf("sweep removed %d, left %v", n, stack)
	}
	if _, n = Sweep(stack, now); n != 0 {
		t.Errorf("second sweep removed %d", n)
	}
}

func TestLatestHasRemove(t *testing.T) {
	l := NewLedger(10, 30*time.Second)
	stack := push(t, l, nil, "a", t0)
	stack = push(t, l, stack, "b", t0)
	if a := Latest(stack, t0); a == nil || a.ID != "b" {
		t.Errorf("Latest = %v, want b", a)
	}
	if !Has(stack, "a", t0) || Has(stack, "a", t0.Add(time.Minute)) {
		t.Error("Has ignores expiry")
	}
	stack = Remove(stack, "b")
	if len(stack) != 1 || stack[0].ID != "a" {
		t.Errorf("Remove left %v", stack)
	}
}

func TestDecode(t *testing.T) {
	l := NewLedger(10, 30*time.Second)
	a, err := l.Action("x", domain.UndoItemPurchase, "buy", domain.PurchaseUndo{ItemID: "streak-freeze", Price: 50}, t0)
	if err != nil {
		t.Fatal(err)
	}
	var p domain.PurchaseUndo
	if err := Decode(a, &p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.ItemID != "streak-freeze" || p.Price != 50 {
		t.Errorf("payload = %+v", p)
	}
}
