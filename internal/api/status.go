package api

import (
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/nekotray/nekotray/internal/daemon/animator"
)

// Status is the daemon state reported by GetStatus and streamed by Watch.
type Status struct {
	Frame      int
	Theme      animator.Theme
	Usage      float64
	Delay      time.Duration
	Ticks      uint64
	PID        int
	InstanceID string
	Mode       string
	StartedAt  time.Time
}

// ToStruct encodes s for the wire.
func (s *Status) ToStruct() *structpb.Struct {
	fields := map[string]*structpb.Value{
		"frame":       structpb.NewNumberValue(float64(s.Frame)),
		"theme":       structpb.NewStringValue(s.Theme.String()),
		"dark":        structpb.NewBoolValue(s.Theme.IsDark()),
		"usage":       structpb.NewNumberValue(s.Usage),
		"delay_ms":    structpb.NewNumberValue(float64(s.Delay) / float64(time.Millisecond)),
		"ticks":       structpb.NewNumberValue(float64(s.Ticks)),
		"pid":         structpb.NewNumberValue(float64(s.PID)),
		"instance_id": structpb.NewStringValue(s.InstanceID),
		"mode":        structpb.NewStringValue(s.Mode),
	}
	if ts := timestamppb.New(s.StartedAt); !s.StartedAt.IsZero() && ts.CheckValid() == nil {
		fields["started_at"] = structpb.NewStringValue(ts.AsTime().Format(time.RFC3339Nano))
	}
	return &structpb.Struct{Fields: fields}
}

// StatusFromStruct decodes a status. Missing fields keep their zero value.
func StatusFromStruct(m *structpb.Struct) *Status {
	f := m.GetFields()
	s := &Status{
		Frame:      int(f["frame"].GetNumberValue()),
		Usage:      f["usage"].GetNumberValue(),
		Delay:      time.Duration(math.Round(f["delay_ms"].GetNumberValue() * float64(time.Millisecond))),
		Ticks:      uint64(f["ticks"].GetNumberValue()),
		PID:        int(f["pid"].GetNumberValue()),
		InstanceID: f["instance_id"].GetStringValue(),
		Mode:       f["mode"].GetStringValue(),
	}
	if f["dark"].GetBoolValue() {
		s.Theme = animator.ThemeDark
	}
	if ts := f["started_at"].GetStringValue(); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			s.StartedAt = t
		}
	}
	return s
}
