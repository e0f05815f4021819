package core

import (
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{NotSetLevel, "NOTSET"},
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{FatalLevel, "FATAL"},
		{OffLevel, "OFF"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{NotSetLevel, TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel, OffLevel}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1] >= ordered[i] {
			t.Errorf("%v should sort before %v", ordered[i-1], ordered[i])
		}
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"debug", DebugLevel, true},
		{" Warning ", WarnLevel, true},
		{"ALL", TraceLevel, true},
		{"not_set", NotSetLevel, true},
		{"off", OffLevel, true},
		{"verbose", NotSetLevel, false},
	}

	for _, tt := range tests {
		got, ok := LevelFromString(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LevelFromString(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("error")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if l != ErrorLevel {
		t.Errorf("UnmarshalText() = %v, want ERROR", l)
	}

	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText() expected error for unknown level")
	}
}
