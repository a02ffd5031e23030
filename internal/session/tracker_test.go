package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartderm/internal/derm"
)

func TestBegin_SucceedTransitions(t *testing.T) {
	tr := NewTracker()
	id := NewID()
	_, tk := tr.Begin(context.Background(), id, ScreenFoods)
	snap, ok := tr.Snapshot(id)
	if !ok || snap.Screens[ScreenFoods].Phase != PhaseLoading { t.Fatalf("expected loading, got %+v", snap.Screens[ScreenFoods]) }
	if snap.Screens[ScreenCauses].Phase != PhaseIdle { t.Fatalf("untouched screen must be idle") }
	if !tr.Succeed(tk, "data") { t.Fatalf("succeed rejected") }
	snap, _ = tr.Snapshot(id)
	if st := snap.Screens[ScreenFoods]; st.Phase != PhaseSuccess || st.Data != "data" { t.Fatalf("unexpected state %+v", st) }
	if tr.Fail(tk, "late") { t.Fatalf("finished ticket must not be accepted twice") }
}

func TestBegin_LatestTriggerWins(t *testing.T) {
	tr := NewTracker()
	id := NewID()
	ctx1, tk1 := tr.Begin(context.Background(), id, ScreenAnalysis)
	_, tk2 := tr.Begin(context.Background(), id, ScreenAnalysis)
	if !errors.Is(ctx1.Err(), context.Canceled) { t.Fatalf("first request not cancelled") }
	if tr.Current(tk1) || !tr.Current(tk2) { t.Fatalf("current ticket mismatch") }
	if tr.Succeed(tk1, "stale") { t.Fatalf("stale completion accepted") }
	snap, _ := tr.Snapshot(id)
	if snap.Screens[ScreenAnalysis].Phase != PhaseLoading { t.Fatalf("stale completion changed state: %+v", snap.Screens[ScreenAnalysis]) }
	if !tr.Fail(tk2, "boom") { t.Fatalf("current failure rejected") }
	snap, _ = tr.Snapshot(id)
	if st := snap.Screens[ScreenAnalysis]; st.Phase != PhaseFailure || st.Message != "boom" || st.Data != nil { t.Fatalf("unexpected %+v", st) }
}

func TestBegin_ScreensAreIndependent(t *testing.T) {
	tr := NewTracker()
	id := NewID()
	ctxFoods, _ := tr.Begin(context.Background(), id, ScreenFoods)
	_, _ = tr.Begin(context.Background(), id, ScreenQuestions)
	if ctxFoods.Err() != nil { t.Fatalf("other screen must not cancel foods") }
}

func TestSucceedAnalysis_ResetsFollowUps(t *testing.T) {
	tr := NewTracker()
	id := NewID()
	_, foods := tr.Begin(context.Background(), id, ScreenFoods)
	tr.Succeed(foods, "old foods")
	qctx, _ := tr.Begin(context.Background(), id, ScreenQuestions)
	_, an := tr.Begin(context.Background(), id, ScreenAnalysis)
	if !tr.SucceedAnalysis(an, "result", "Eczema") { t.Fatalf("analysis rejected") }
	if qctx.Err() == nil { t.Fatalf("in-flight follow-up not cancelled") }
	snap, _ := tr.Snapshot(id)
	for _, sc := range followUps {
		if snap.Screens[sc].Phase != PhaseIdle { t.Fatalf("%s not reset: %+v", sc, snap.Screens[sc]) }
	}
	if tr.DiseaseName(id) != "Eczema" || snap.DiseaseName != "Eczema" { t.Fatalf("disease not remembered") }
}

func TestCaptureLocation_Once(t *testing.T) {
	tr := NewTracker()
	id := NewID()
	first := derm.Location{Latitude: 1, Longitude: 2}
	if got, fresh := tr.CaptureLocation(id, first); !fresh || got != first { t.Fatalf("first capture: %v %v", got, fresh) }
	if got, fresh := tr.CaptureLocation(id, derm.Location{Latitude: 3}); fresh || got != first { t.Fatalf("second capture overwrote: %v %v", got, fresh) }
	snap, _ := tr.Snapshot(id)
	if snap.Location == nil || *snap.Location != first { t.Fatalf("snapshot location %+v", snap.Location) }
}

func TestTracker_ExpiresIdleSessions(t *testing.T) {
	var mu sync.Mutex
	now := time.Unix(1000, 0)
	clock := func() time.Time { mu.Lock(); defer mu.Unlock(); return now }
	tr := NewTracker(WithTTL(time.Minute), WithClock(clock))
	id := NewID()
	ctx, _ := tr.Begin(context.Background(), id, ScreenFoods)
	if tr.Len() != 1 { t.Fatalf("len=%d", tr.Len()) }
	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	if tr.Len() != 0 { t.Fatalf("session not expired") }
	if ctx.Err() == nil { t.Fatalf("expired session must cancel in-flight requests") }
	if _, ok := tr.Snapshot(id); ok { t.Fatalf("snapshot of expired session") }
}

func TestValidID(t *testing.T) {
	if !ValidID(NewID()) { t.Fatalf("fresh id invalid") }
	if ValidID("not-a-session") { t.Fatalf("garbage accepted") }
}
