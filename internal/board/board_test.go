package board

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, 10, 14, 9, 30, 0, 0, time.UTC)
}

func TestGeneratorIsDeterministicPerSeed(t *testing.T) {
	a := NewGenerator(42, fixedNow).Next()
	b := NewGenerator(42, fixedNow).Next()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different data:\n%+v\n%+v", a, b)
	}
}

func TestGeneratorRanges(t *testing.T) {
	g := NewGenerator(7, fixedNow)
	for i := 0; i < 200; i++ {
		d := g.Next()
		if d.AD.UsersCreatedToday < 0 || d.AD.UsersCreatedToday >= 8 {
			t.Fatalf("users created out of range: %d", d.AD.UsersCreatedToday)
		}
		if d.AD.LockedUsers < 0 || d.AD.LockedUsers >= 10 {
			t.Fatalf("locked users out of range: %d", d.AD.LockedUsers)
		}
		if d.AD.TotalUsers != d.AD.EnabledUsers+d.AD.DisabledUsers {
			t.Fatalf("account totals inconsistent: %+v", d.AD)
		}
		if d.Task.LastRunTime.After(fixedNow()) || !d.Task.NextRunTime.Equal(fixedNow().Add(time.Hour)) {
			t.Fatalf("unexpected run times: %+v", d.Task)
		}
		switch d.Task.State {
		case StateReady, StateRunning, StateDisabled:
		default:
			t.Fatalf("unexpected state %q", d.Task.State)
		}
		if d.Healthy() != (d.Task.LastTaskResult == ResultSuccess) {
			t.Fatal("Healthy disagrees with last result")
		}
		if len(d.Logs) != 5 {
			t.Fatalf("expected 5 log entries, got %d", len(d.Logs))
		}
	}
}

func TestBarLines(t *testing.T) {
	lines := BarLines([]Bar{{"Total", 100}, {"Locked", 1}, {"Zero", 0}}, 10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Total  ██████████ 100") {
		t.Fatalf("unexpected full bar: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Locked █░░░░░░░░░ 1") {
		t.Fatalf("small values should still show one cell: %q", lines[1])
	}
	if strings.Contains(lines[2], "█") {
		t.Fatalf("zero value should be empty: %q", lines[2])
	}
}

func TestCharts(t *testing.T) {
	d := NewGenerator(1, fixedNow).Next()
	if got := d.ActivityChart(); len(got) != 4 || got[1].Label != "Passwords Reset" {
		t.Fatalf("unexpected activity chart: %+v", got)
	}
	if got := d.AccountsChart(); got[0].Value != 2354 {
		t.Fatalf("unexpected accounts chart: %+v", got)
	}
}
