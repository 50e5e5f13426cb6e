package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/identity/gatewayfakes"
	"github.com/thmoreiracosta/uacl/identity/httpgateway"
	"github.com/thmoreiracosta/uacl/internal/config"
	"github.com/thmoreiracosta/uacl/server"
	"github.com/thmoreiracosta/uacl/server/visitor"
	"github.com/thmoreiracosta/uacl/vault"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	portal, err := server.New(c, visitor.NewInMemoryVisitorRepo(), gatewayFactory(c), logger)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: portal}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// gatewayFactory picks the identity backend: the in-memory fake in DEV,
// the HTTP gateway everywhere else. Both sides of the façade are
// interchangeable for the session store and guards.
func gatewayFactory(c config.Config) server.GatewayFactory {
	if c.GetEnv() == "DEV" {
		return func(v vault.Vault, _ *api.Client) (identity.Gateway, error) {
			return gatewayfakes.NewFakeGateway(v), nil
		}
	}
	return func(v vault.Vault, client *api.Client) (identity.Gateway, error) {
		return httpgateway.New(client, v)
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
