// Package server implements the daemon's local gRPC control API.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"

	"google.golang.org/grpc"

	"github.com/nekotray/nekotray/internal/api"
	"github.com/nekotray/nekotray/internal/daemon/hub"
	"github.com/nekotray/nekotray/internal/models"
)

// Controller is the part of the engine the API drives.
type Controller interface {
	SendCommand(cmd int) error
	Hub() *hub.Hub
}

// Server is the daemon's gRPC server.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	port       int
	controller Controller
	shutdown   func()

	mu   sync.RWMutex
	info *models.DaemonInfo
}

// New creates a new server listening on host:port.
// Pass port 0 for dynamic allocation.
func New(host string, port int, controller Controller, shutdown func()) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	return NewWithListener(listener, controller, shutdown), nil
}

// NewWithListener creates a server on an existing listener.
func NewWithListener(listener net.Listener, controller Controller, shutdown func()) *Server {
	// Get actual port if dynamically allocated
	port := 0
	if addr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}

	srv := &Server{
		grpcServer: grpc.NewServer(),
		listener:   listener,
		port:       port,
		controller: controller,
		shutdown:   shutdown,
	}
	api.RegisterControlServer(srv.grpcServer, &controlService{server: srv})
	return srv
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// SetDaemonInfo records the identity reported by GetStatus.
func (s *Server) SetDaemonInfo(info *models.DaemonInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = info
}

func (s *Server) daemonInfo() *models.DaemonInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	log.Printf("[server] Serving control API on %s", s.listener.Addr())
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the server. Open Watch streams end once the hub is
// closed.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}
