package tui

import "github.com/nekotray/nekotray/internal/api"

// wakeMsg is sent once per animator tick by the local bridge.
type wakeMsg struct{}

// statusMsg carries one status from the daemon's Watch stream.
type statusMsg struct {
	status *api.Status
}

// streamEndedMsg signals the Watch stream closed.
type streamEndedMsg struct {
	err error
}

// errMsg carries a failed theme command.
type errMsg struct {
	err error
}
