package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/nexa/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_KeepsZeroValues(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	if got := timeouts.Short(); got != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", got)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium() = %v, want default %v", got, timeouts.DefaultMedium)
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Millisecond, Long: time.Hour})
	timeouts.Reset()

	want := timeouts.Config{
		Ping:   timeouts.DefaultPing,
		Short:  timeouts.DefaultShort,
		Medium: timeouts.DefaultMedium,
		Long:   timeouts.DefaultLong,
	}
	if got := timeouts.Current(); got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, zap.NewNop(), "test")
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}
