package cli

import (
	"fmt"
	"net"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/config"
)

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*grpc.ClientConn, error) {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if !running || info == nil {
		return nil, fmt.Errorf("daemon not running. Start it with 'nekotray daemon start'")
	}

	addr := net.JoinHostPort(info.Host, strconv.Itoa(info.Port))
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	return conn, nil
}

// withClient runs fn with a control client for the running daemon.
func withClient(fn func(*api.ControlClient) error) error {
	conn, err := connectDaemon()
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(api.NewControlClient(conn))
}
