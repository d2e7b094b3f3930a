package server

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/daemon/animator"
	"github.com/nekotray/nekotray/internal/daemon/hub"
)

// watchBuffer is how many ticks a slow watcher may lag before ticks drop.
const watchBuffer = 16

type controlService struct {
	server *Server
}

func (c *controlService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return c.status(c.latest()).ToStruct(), nil
}

func (c *controlService) SetTheme(ctx context.Context, req *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	cmd := int(req.GetValue())
	if cmd != animator.CommandLight && cmd != animator.CommandDark {
		return nil, status.Errorf(codes.InvalidArgument, "theme command must be %d (light) or %d (dark), got %d",
			animator.CommandLight, animator.CommandDark, cmd)
	}
	if err := c.server.controller.SendCommand(cmd); err != nil {
		return nil, status.Errorf(codes.Unavailable, "daemon is shutting down: %v", err)
	}
	log.Printf("[server] Theme command %d (%s) queued", cmd, animator.ThemeFromCommand(cmd))
	return &emptypb.Empty{}, nil
}

func (c *controlService) Watch(_ *emptypb.Empty, stream api.WatchServer) error {
	id := uuid.New().String()
	ch, err := c.server.controller.Hub().Subscribe(id, watchBuffer)
	if err != nil {
		if errors.Is(err, hub.ErrClosed) {
			return status.Error(codes.Unavailable, "daemon is shutting down")
		}
		return status.Errorf(codes.Internal, "failed to subscribe: %v", err)
	}
	defer func() {
		_ = c.server.controller.Hub().Unsubscribe(id)
	}()

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case snap, ok := <-ch:
			if !ok {
				return nil
			}
			if err := stream.Send(c.status(snap, true).ToStruct()); err != nil {
				return err
			}
		}
	}
}

func (c *controlService) Shutdown(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	log.Println("[server] Shutdown requested")
	if c.server.shutdown != nil {
		go c.server.shutdown()
	}
	return &emptypb.Empty{}, nil
}

func (c *controlService) latest() (hub.Snapshot, bool) {
	return c.server.controller.Hub().Latest()
}

// status builds the wire status from a hub snapshot. Before the first tick it
// reports the animator's starting state.
func (c *controlService) status(snap hub.Snapshot, ok bool) *api.Status {
	st := &api.Status{}
	if ok {
		st.Frame = snap.Frame.Tick.Frame
		st.Theme = snap.Frame.Tick.Theme
		st.Usage = snap.Frame.Usage
		st.Delay = snap.Frame.Delay
		st.Ticks = snap.Ticks
	} else {
		initial := animator.NewState()
		st.Frame = initial.Frame
		st.Theme = initial.Theme
		st.Usage = initial.Usage
		st.Delay = animator.Delay(initial.Usage)
	}

	if info := c.server.daemonInfo(); info != nil {
		st.PID = info.PID
		st.InstanceID = info.InstanceID
		st.Mode = info.Mode
		st.StartedAt = info.StartedAt
	}
	return st
}
