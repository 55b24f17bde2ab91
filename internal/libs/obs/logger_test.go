package obs

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{"info level", "info", zerolog.InfoLevel},
		{"debug level", "debug", zerolog.DebugLevel},
		{"warn level", "warn", zerolog.WarnLevel},
		{"empty defaults to info", "", zerolog.InfoLevel},
		{"invalid level defaults to info", "invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InitLogger(tt.level)
			if got != tt.expected || zerolog.GlobalLevel() != tt.expected {
				t.Errorf("expected level %v, got %v (global %v)", tt.expected, got, zerolog.GlobalLevel())
			}
		})
	}
}

func TestLogger(t *testing.T) {
	logger := Logger("test-component")

	if logger.GetLevel() == zerolog.Disabled {
		t.Error("logger should not be disabled")
	}
}

func TestObserveReload(t *testing.T) {
	okBefore := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("error"))

	ObserveReload(42, nil)
	if got := testutil.ToFloat64(CatalogProducts); got != 42 {
		t.Errorf("expected catalog gauge 42, got %v", got)
	}

	ObserveReload(0, errors.New("boom"))
	if got := testutil.ToFloat64(CatalogProducts); got != 42 {
		t.Errorf("failed reload should not touch the gauge, got %v", got)
	}

	if got := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("ok")); got != okBefore+1 {
		t.Errorf("expected one ok reload, got %v", got-okBefore)
	}
	if got := testutil.ToFloat64(CatalogReloadsTotal.WithLabelValues("error")); got != errBefore+1 {
		t.Errorf("expected one failed reload, got %v", got-errBefore)
	}
}
