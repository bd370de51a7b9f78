package program

import (
	"context"
	"errors"
	"testing"

	"github.com/meltforce/ironcycle/internal/storage"
)

// TestLogLinearOutcome_Success verifies a success log moves the stored
// working weight and records the log row.
func TestLogLinearOutcome_Success(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	out, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, true, "")
	if err != nil {
		t.Fatalf("LogLinearOutcome: %v", err)
	}
	if out.PriorWeight != 135 || out.NewWeight != 140 || !out.IsNewPR {
		t.Errorf("outcome = %+v, want PR 135 -> 140", out)
	}

	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 140 {
		t.Errorf("stored weight = %g, want 140", st.Weight)
	}
	if _, err := store.GetLiftLog(ctx, cycle.ID, 1, 2, "row"); err != nil {
		t.Errorf("log row not recorded: %v", err)
	}
}

// TestLogLinearOutcome_FailureStreakAndDeload verifies the stored state
// deloads by 10% on the third straight failure.
func TestLogLinearOutcome_FailureStreakAndDeload(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	for day := 1; day <= 2; day++ {
		if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, day, false, ""); err != nil {
			t.Fatalf("failure %d: %v", day, err)
		}
	}
	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 135 || st.Failures != 2 || !st.DeloadPending {
		t.Fatalf("state after 2 failures = %g/%d/%v, want 135/2/pending", st.Weight, st.Failures, st.DeloadPending)
	}

	out, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 2, 1, false, "")
	if err != nil {
		t.Fatalf("third failure: %v", err)
	}
	if !out.DeloadApplied {
		t.Fatal("deload not applied on the third failure")
	}
	st, _ = store.GetLinearState(ctx, cycle.ID, "row")
	// 135 * 0.9 = 121.5, half-up to the 5s grid = 120... (121.5/5 = 24.3).
	if st.Weight != 120 {
		t.Errorf("deloaded weight = %g, want 120", st.Weight)
	}
	if st.Failures != 0 {
		t.Errorf("failures = %d, want 0 after deload", st.Failures)
	}
}

// TestClearLinearLog_RestoresState verifies log-then-clear leaves the
// stored state exactly as before, and deletes the log row.
func TestClearLinearLog_RestoresState(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, true, ""); err != nil {
		t.Fatalf("LogLinearOutcome: %v", err)
	}
	if err := svc.ClearLinearLog(ctx, cycle.ID, "row", 1, 2); err != nil {
		t.Fatalf("ClearLinearLog: %v", err)
	}

	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 135 || st.Failures != 0 || st.DeloadPending {
		t.Errorf("state after clear = %g/%d/%v, want 135/0/false", st.Weight, st.Failures, st.DeloadPending)
	}
	if _, err := store.GetLiftLog(ctx, cycle.ID, 1, 2, "row"); err == nil {
		t.Error("log row still present after clear")
	}
}

// TestLogLinearOutcome_RelogReplays verifies success/clear/failure
// reaches the same stored state as a direct failure, and that re-logging
// the same key without clearing replays from the pre-log state.
func TestLogLinearOutcome_RelogReplays(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, true, ""); err != nil {
		t.Fatal(err)
	}
	// Re-log the same (week, day, lift) as a failure without clearing.
	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, false, ""); err != nil {
		t.Fatal(err)
	}

	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 135 || st.Failures != 1 {
		t.Errorf("replayed state = %g/%d, want 135/1 (as if failure was logged directly)", st.Weight, st.Failures)
	}

	lg, err := store.GetLiftLog(ctx, cycle.ID, 1, 2, "row")
	if err != nil {
		t.Fatalf("log row missing: %v", err)
	}
	if !lg.Failed {
		t.Error("log row not overwritten with the failure outcome")
	}
}

// TestClearLinearLog_UnloggedKey verifies clearing a (week, day) that was
// never logged is rejected and leaves both the state and other keys' log
// rows alone.
func TestClearLinearLog_UnloggedKey(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, true, ""); err != nil {
		t.Fatalf("LogLinearOutcome: %v", err)
	}

	err := svc.ClearLinearLog(ctx, cycle.ID, "row", 2, 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("clearing an unlogged key: err = %v, want ErrNotFound", err)
	}

	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 140 {
		t.Errorf("weight = %g after clearing an unlogged key, want 140 (the logged success must survive)", st.Weight)
	}
	if _, err := store.GetLiftLog(ctx, cycle.ID, 1, 2, "row"); err != nil {
		t.Errorf("logged row removed by the failed clear: %v", err)
	}
}

// TestClearLinearLog_NonLatestKey verifies clearing an older key removes
// its row without rolling back the later session's transition.
func TestClearLinearLog_NonLatestKey(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, true, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 2, 1, true, ""); err != nil {
		t.Fatal(err)
	}

	if err := svc.ClearLinearLog(ctx, cycle.ID, "row", 1, 2); err != nil {
		t.Fatalf("ClearLinearLog: %v", err)
	}

	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 145 {
		t.Errorf("weight = %g after clearing the older key, want 145 (later session intact)", st.Weight)
	}
	if _, err := store.GetLiftLog(ctx, cycle.ID, 1, 2, "row"); err == nil {
		t.Error("older log row still present after clear")
	}
	if _, err := store.GetLiftLog(ctx, cycle.ID, 2, 1, "row"); err != nil {
		t.Errorf("later log row removed: %v", err)
	}
}

// TestLogLinearOutcome_RelogOlderKey verifies re-logging a key that is no
// longer the lift's most recent session does not replay: the rollback
// snapshot belongs to the later session, so the new outcome transitions
// from the current state.
func TestLogLinearOutcome_RelogOlderKey(t *testing.T) {
	svc, store, cycle := setup(t)
	ctx := context.Background()

	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, true, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 2, 1, true, ""); err != nil {
		t.Fatal(err)
	}

	// Re-log the older (1, 2) key as a failure.
	if _, err := svc.LogLinearOutcome(ctx, cycle.ID, "row", 1, 2, false, ""); err != nil {
		t.Fatal(err)
	}

	st, _ := store.GetLinearState(ctx, cycle.ID, "row")
	if st.Weight != 145 || st.Failures != 1 {
		t.Errorf("state = %g/%d, want 145/1 (the (2,1) increment must survive)", st.Weight, st.Failures)
	}
	lg, err := store.GetLiftLog(ctx, cycle.ID, 1, 2, "row")
	if err != nil {
		t.Fatalf("re-logged row missing: %v", err)
	}
	if !lg.Failed {
		t.Error("older row not overwritten with the failure outcome")
	}
}

// TestLogLinearOutcome_UnknownLift verifies logging against a lift with
// no linear state is rejected.
func TestLogLinearOutcome_UnknownLift(t *testing.T) {
	svc, _, cycle := setup(t)
	if _, err := svc.LogLinearOutcome(context.Background(), cycle.ID, "press", 1, 2, true, ""); err == nil {
		t.Error("logging an untracked lift succeeded")
	}
}
