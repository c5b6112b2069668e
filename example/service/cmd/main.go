package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/DE-labtory/iLogger"
	"github.com/DE-labtory/threshold/test/mock"
	kitlog "github.com/go-kit/kit/log"
)

// Runs a simulated threshold encryption service that deals its own key
// set, for trying the client locally.
func main() {
	host := flag.String("address", "127.0.0.1", "Service address")
	port := flag.Int("port", 8000, "Service port")
	threshold := flag.Int("threshold", 3, "Shares needed to decrypt")
	participants := flag.Int("participants", 5, "Key share holders")
	debug := flag.Bool("debug", false, "Log at debug level")
	flag.Parse()

	if *debug {
		iLogger.SetToDebug()
	}

	address := fmt.Sprintf("%s:%d", *host, *port)

	kitLogger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	kitLogger = kitlog.With(kitLogger, "ts", kitlog.DefaultTimestampUTC)
	httpLogger := kitlog.With(kitLogger, "component", "http")

	service, err := mock.NewDealtService(*threshold, *participants, httpLogger)
	if err != nil {
		iLogger.Fatalf(nil, "[service] dealing key set failed: %s", err)
	}

	iLogger.Infof(nil, "[service] dealt %d-of-%d key set", *threshold, *participants)
	iLogger.Infof(nil, "[service] http server started: %s", address)
	if err := http.ListenAndServe(address, service.Handler()); err != nil {
		iLogger.Errorf(nil, "[service] http server closed: %s", err)
	}
}
