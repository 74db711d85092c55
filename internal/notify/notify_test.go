package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := Log{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	if err := n.TimerExpired(context.Background(), "t1", "write report"); err != nil {
		t.Fatalf("TimerExpired() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"msg":"timer_expired"`, `"task_id":"t1"`, `"task_name":"write report"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	m := Multi{
		Func(func(_ context.Context, id, _ string) error { calls = append(calls, "a:"+id); return nil }),
		Func(func(_ context.Context, id, _ string) error { calls = append(calls, "b:"+id); return boom }),
		Func(func(_ context.Context, id, _ string) error { calls = append(calls, "c:"+id); return nil }),
	}

	err := m.TimerExpired(context.Background(), "t1", "x")
	if !errors.Is(err, boom) {
		t.Errorf("expected joined boom error, got %v", err)
	}
	if len(calls) != 3 {
		t.Errorf("every notifier must be called, got %v", calls)
	}
}

func TestMessage(t *testing.T) {
	if got := Message("reply"); got != `Pause for "reply" is over` {
		t.Errorf("Message() = %q", got)
	}
}

func TestQuoteEscapesBackslashesAndQuotes(t *testing.T) {
	for in, want := range map[string]string{
		`plain`:       `plain`,
		`say "hi"`:    `say \"hi\"`,
		`C:\tmp`:      `C:\\tmp`,
		`trailing \`:  `trailing \\`,
		`\"injected"`: `\\\"injected\"`,
	} {
		if got := quote(in); got != want {
			t.Errorf("quote(%s) = %s, want %s", in, got, want)
		}
	}
}
