package nats

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/inkbook/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StartEmbeddedNATS starts an in-process NATS server with JetStream enabled.
// Streams created by this package use memory storage, so storeDir only holds
// JetStream metadata; an empty value places it in a fresh temp directory that
// is removed on Shutdown.
func StartEmbeddedNATS(storeDir string) (*server.Server, error) {
	tempDir := ""
	if storeDir == "" {
		dir, err := os.MkdirTemp("", "inkbook-nats-*")
		if err != nil {
			return nil, fmt.Errorf("creating nats store dir: %w", err)
		}
		storeDir, tempDir = dir, dir
	}
	logger.Debug("Starting embedded NATS server (store dir %s)", storeDir)

	opts := &server.Options{
		ServerName: "inkbook",
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true, // No network ports - in-process only
		NoSigs:     true,
	}

	cleanup := func() {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		cleanup()
		return nil, err
	}

	// Start server in background goroutine
	logger.Debug("Starting NATS server in background")
	go ns.Start()

	// Wait for server to be ready with timeout
	logger.Debug("Waiting for NATS server to be ready...")
	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("NATS server failed to start within 4s timeout")
		ns.Shutdown()
		cleanup()
		return nil, errors.New("nats server failed to start within timeout")
	}
	if tempDir != "" {
		tempDirs.Store(ns, tempDir)
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// temp store directories created by StartEmbeddedNATS, keyed by server.
var tempDirs sync.Map

// ConnectInProcess creates an in-process connection to the embedded NATS server.
// This connection does not use network ports and communicates directly with the server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	logger.Debug("Connecting to NATS server in-process")
	conn, err := nats.Connect("", nats.InProcessServer(ns), nats.Name("inkbook"))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, err
	}
	logger.Debug("Connected to NATS successfully")
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
// This context is used for all JetStream operations including creating streams,
// consumers, and publishing/subscribing to subjects.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Shutdown gracefully shuts down the NATS connection and server.
// It first drains and closes the connection, then shuts down the server
// with a timeout to allow in-flight operations to complete.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	logger.Debug("Starting NATS shutdown")

	// Close the connection first (drain buffered messages)
	if nc != nil {
		logger.Debug("Draining NATS connection")
		// Drain waits for published messages to be acknowledged
		// and subscriptions to complete before closing
		// Use a timeout for drain to prevent hanging
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				// Drain failed, force close
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			} else {
				logger.Debug("NATS connection drained successfully")
			}
		case <-time.After(2 * time.Second):
			// Drain timed out, force close
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	// Shutdown the server with a grace period
	if ns != nil {
		logger.Debug("Shutting down NATS server")
		ns.Shutdown()

		// WaitForShutdown with timeout to prevent hanging
		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			// Server shut down cleanly
			logger.Debug("NATS server shut down cleanly")
		case <-time.After(5 * time.Second):
			// Shutdown timed out - force stop
			// Note: There's no force-stop API, but at least we don't hang forever
			logger.Error("NATS server shutdown timed out after 5s")
			return errors.New("NATS server shutdown timed out")
		}

		if dir, ok := tempDirs.LoadAndDelete(ns); ok {
			if err := os.RemoveAll(dir.(string)); err != nil {
				logger.Warn("Failed to remove NATS store dir %s: %v", dir, err)
			}
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}
