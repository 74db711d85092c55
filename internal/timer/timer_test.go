package timer

import (
	"context"
	"encoding/json"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fitz/taskflow/internal/models"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func task(id string, minutes int) models.Task {
	return models.Task{ID: id, Name: "task " + id, EstimatedTime: minutes, Status: models.TaskStatusActive}
}

func TestStartUsesEstimatedTime(t *testing.T) {
	timers := Start(nil, task("a", 25), 0, epoch)
	if len(timers) != 1 {
		t.Fatalf("expected 1 timer, got %d", len(timers))
	}
	if timers[0].Duration != 25*time.Minute {
		t.Errorf("Duration = %v, expected 25m", timers[0].Duration)
	}
	if !timers[0].EndTime.Equal(epoch.Add(25 * time.Minute)) {
		t.Errorf("EndTime = %v", timers[0].EndTime)
	}
	if timers[0].OriginalTask.ID != "a" {
		t.Error("expected task snapshot")
	}
}

func TestStartReplacesExisting(t *testing.T) {
	timers := Start(nil, task("a", 25), 0, epoch)
	timers = Start(timers, task("b", 5), 0, epoch)
	timers = Start(timers, task("a", 25), 10, epoch)

	if len(timers) != 2 {
		t.Fatalf("expected 2 timers, got %d", len(timers))
	}
	got, ok := Find(timers, "a")
	if !ok || got.Duration != 10*time.Minute {
		t.Errorf("expected replaced timer of 10m, got %+v", got)
	}
}

func TestCancel(t *testing.T) {
	timers := Start(nil, task("a", 1), 0, epoch)
	timers = Start(timers, task("b", 1), 0, epoch)
	timers = Start(timers, task("c", 1), 0, epoch)

	timers = Cancel(timers, "b")
	if _, ok := Find(timers, "b"); ok {
		t.Error("expected b cancelled")
	}
	timers = CancelMany(timers, []string{"a", "c", "missing"})
	if len(timers) != 0 {
		t.Errorf("expected no timers, got %d", len(timers))
	}
}

func TestExpireReportsOnce(t *testing.T) {
	timers := Start(nil, task("a", 1), 0, epoch)
	timers = Start(timers, task("b", 10), 0, epoch)

	updated, expired := Expire(timers, epoch.Add(30*time.Second))
	if len(expired) != 0 {
		t.Fatalf("nothing should expire yet, got %d", len(expired))
	}

	updated, expired = Expire(updated, epoch.Add(time.Minute))
	if len(expired) != 1 || expired[0].TaskID != "a" {
		t.Fatalf("expected a to expire, got %+v", expired)
	}
	if len(updated) != 2 {
		t.Error("expired timers must stay in the list")
	}

	_, expired = Expire(updated, epoch.Add(2*time.Minute))
	if len(expired) != 0 {
		t.Errorf("a must not be reported twice, got %+v", expired)
	}
	if timers[0].HasExpired {
		t.Error("Expire must not modify its input")
	}
}

func TestRemaining(t *testing.T) {
	timer := Start(nil, task("a", 10), 0, epoch)[0]

	tests := []struct {
		name     string
		at       time.Time
		minutes  int
		seconds  int
		progress float64
	}{
		{"start", epoch, 10, 0, 0},
		{"quarter", epoch.Add(150 * time.Second), 7, 30, 25},
		{"done", epoch.Add(10 * time.Minute), 0, 0, 100},
		{"overdue", epoch.Add(time.Hour), 0, 0, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Remaining(timer, tc.at)
			if got.Minutes != tc.minutes || got.Seconds != tc.seconds {
				t.Errorf("Remaining() = %dm%ds, expected %dm%ds", got.Minutes, got.Seconds, tc.minutes, tc.seconds)
			}
			if math.Abs(got.Progress-tc.progress) > 1e-9 {
				t.Errorf("Progress = %v, expected %v", got.Progress, tc.progress)
			}
		})
	}

	zero := models.TimerData{TaskID: "z", EndTime: epoch}
	if got := Remaining(zero, epoch); got.Progress != 0 {
		t.Errorf("zero duration progress = %v, expected 0", got.Progress)
	}
}

func TestState(t *testing.T) {
	timers := Start(nil, task("a", 1), 0, epoch)

	if got := State(timers, "missing", epoch); got != models.TimerNone {
		t.Errorf("State() = %v, expected none", got)
	}
	if got := State(timers, "a", epoch); got != models.TimerRunning {
		t.Errorf("State() = %v, expected running", got)
	}
	if got := State(timers, "a", epoch.Add(time.Minute)); got != models.TimerExpired {
		t.Errorf("State() = %v, expected expired", got)
	}
}

func TestTimerJSONUsesMilliseconds(t *testing.T) {
	timer := Start(nil, task("a", 2), 0, epoch)[0]

	data, err := json.Marshal(timer)
	if err != nil {
		t.Fatalf("failed to marshal timer: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if raw["duration"] != float64(120000) {
		t.Errorf("duration = %v, expected 120000", raw["duration"])
	}
	if raw["endTime"] != float64(epoch.Add(2*time.Minute).UnixMilli()) {
		t.Errorf("endTime = %v", raw["endTime"])
	}

	var back models.TimerData
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("failed to decode timer: %v", err)
	}
	if !back.EndTime.Equal(timer.EndTime) || back.Duration != timer.Duration {
		t.Errorf("decoded %+v, expected %+v", back, timer)
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ticks atomic.Int32
	done := make(chan struct{})

	go func() {
		Watch(ctx, time.Millisecond, nil, func(time.Time) {
			if ticks.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	if ticks.Load() < 3 {
		t.Errorf("expected at least 3 ticks, got %d", ticks.Load())
	}
}
