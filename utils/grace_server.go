package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second

	gracefulEnvKey     = "IS_GRACEFUL"
	gracefulEnvValue   = gracefulEnvKey + "=1"
	gracefulListenerFd = 3
)

// GraceServer runs an HTTP server that shuts down cleanly on SIGTERM and
// hands its listener to a freshly exec'd replacement on SIGUSR2.
type GraceServer struct {
	*http.Server

	listener     net.Listener
	isChild      bool
	signalChan   chan os.Signal
	shutdownChan chan struct{}
}

// NewGraceServer wraps handler in a graceful server bound to addr.
func NewGraceServer(addr string, handler http.Handler) *GraceServer {
	return &GraceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		isChild:      os.Getenv(gracefulEnvKey) != "",
		signalChan:   make(chan os.Signal, 1),
		shutdownChan: make(chan struct{}),
	}
}

// ListenAndServe serves until a shutdown signal arrives. A restarted child
// process reuses the inherited listener instead of binding anew.
func (srv *GraceServer) ListenAndServe() error {
	var err error
	if srv.isChild {
		srv.listener, err = net.FileListener(os.NewFile(gracefulListenerFd, ""))
		if err != nil {
			return fmt.Errorf("inherit listener: %w", err)
		}
	} else {
		srv.listener, err = net.Listen("tcp", srv.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
	}

	go srv.handleSignals()
	serveErr := srv.Server.Serve(srv.listener)
	<-srv.shutdownChan
	if serveErr == http.ErrServerClosed {
		return nil
	}
	return serveErr
}

func (srv *GraceServer) handleSignals() {
	signal.Notify(srv.signalChan, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range srv.signalChan {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("received SIGTERM, shutting down HTTP server")
			srv.shutdown()
			return
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			if pid, err := srv.spawnSuccessor(); err != nil {
				Sugar.Errorf("start replacement process failed: %v, continue serving", err)
			} else {
				Sugar.Infof("replacement process started, pid=%d", pid)
				srv.shutdown()
				return
			}
		}
	}
}

func (srv *GraceServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	}
	close(srv.shutdownChan)
}

// spawnSuccessor forks a replacement process inheriting the listener fd.
func (srv *GraceServer) spawnSuccessor() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}

	envs := []string{gracefulEnvValue}
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			envs = append(envs, e)
		}
	}

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   envs,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}

// Serve starts a graceful HTTP server on addr.
func Serve(addr string, handler http.Handler) error {
	return NewGraceServer(addr, handler).ListenAndServe()
}
