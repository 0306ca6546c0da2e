/*
Package server implements the HTTP roll-as-a-service surface: one route
that parses a dice notation path segment, rolls it, and returns the
resulting DiceRoll as JSON.
*/
package server

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ShutdownGraceDuration bounds how long Run waits for in-flight
	// requests to finish after SIGINT before forcing a shutdown.
	ShutdownGraceDuration = time.Second * 5

	DebugMode    bool
	Port         int
	PrettifyLogs bool
)

// RunServer starts the HTTP server on port and blocks until SIGINT,
// returning a process exit code. debug raises log verbosity to debug level;
// pretty switches zerolog to its console writer.
func RunServer(port int, debug, pretty bool) (int, error) {
	DebugMode, Port, PrettifyLogs = debug, port, pretty

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug mode enabled")
	}

	r := ConfigureRouting()
	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + strconv.Itoa(port),
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server fatal error")
		}
	}()
	log.Info().Str("address", srv.Addr).Msg("server started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	log.Info().Msg("SIGINT received")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownGraceDuration)
	defer cancel()
	srv.Shutdown(ctx)
	log.Info().Msg("shutting down")
	return 0, nil
}

// Run parses standalone-binary flags and starts the server. It's the entry
// point cmd/server/main.go calls; cmd/dice's "server" subcommand calls
// RunServer directly since urfave/cli owns flag parsing there.
func Run() (int, error) {
	var debug, pretty bool
	var port int
	flag.BoolVar(&debug, "debug", false, "run the server in debug mode with higher verbosity")
	flag.BoolVar(&pretty, "pretty", false, "prettify output logs. If false, outputs JSON logs")
	flag.IntVar(&port, "port", 8000, "port to listen on")
	flag.Parse()
	return RunServer(port, debug, pretty)
}
