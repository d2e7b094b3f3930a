package api

import (
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

func TestStatusStructRoundTrip(t *testing.T) {
	in := &Status{
		Frame:      4,
		Theme:      animator.ThemeDark,
		Usage:      37.5,
		Delay:      animator.Delay(37.5),
		Ticks:      1234,
		PID:        4321,
		InstanceID: "5b0c",
		Mode:       "tray",
		StartedAt:  time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC),
	}

	out := StatusFromStruct(in.ToStruct())
	if !out.StartedAt.Equal(in.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", out.StartedAt, in.StartedAt)
	}
	out.StartedAt = in.StartedAt
	if *out != *in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestStatusWireFields(t *testing.T) {
	s := (&Status{Theme: animator.ThemeDark, Delay: 40 * time.Millisecond}).ToStruct()
	f := s.GetFields()

	if got := f["theme"].GetStringValue(); got != "dark" {
		t.Errorf("theme = %q, want dark", got)
	}
	if !f["dark"].GetBoolValue() {
		t.Error("dark = false, want true")
	}
	if got := f["delay_ms"].GetNumberValue(); got != 40 {
		t.Errorf("delay_ms = %v, want 40", got)
	}
	if _, ok := f["started_at"]; ok {
		t.Error("started_at present for zero time")
	}
}

func TestStatusFromStructMissingFields(t *testing.T) {
	tests := []struct {
		name string
		in   *structpb.Struct
	}{
		{"nil", nil},
		{"empty", &structpb.Struct{}},
		{"bad timestamp", &structpb.Struct{Fields: map[string]*structpb.Value{
			"started_at": structpb.NewStringValue("yesterday"),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StatusFromStruct(tt.in)
			if st.Theme != animator.ThemeLight || st.Frame != 0 || !st.StartedAt.IsZero() {
				t.Errorf("status = %+v, want zero", st)
			}
		})
	}
}
