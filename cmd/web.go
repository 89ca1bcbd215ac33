package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gmux "github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrewmarklloyd/tandem-bridge/internal/pkg/bridge"
)

const get = "get"

type WebServer struct {
	httpServer *http.Server
	poller     *bridge.Poller
}

func newWebServer(port string, poller *bridge.Poller) WebServer {
	router := gmux.NewRouter().StrictSlash(true)

	w := WebServer{
		poller: poller,
	}

	router.Handle("/health", http.HandlerFunc(healthHandler)).Methods(get)
	router.Handle("/api/status", http.HandlerFunc(w.statusHandler)).Methods(get)
	router.Handle("/metrics", promhttp.Handler()).Methods(get)

	srv := &http.Server{
		Handler:      router,
		Addr:         "0.0.0.0:" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	w.httpServer = srv
	return w
}

func healthHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"version":"%s"}`, version)
}

func (s WebServer) statusHandler(w http.ResponseWriter, req *http.Request) {
	j, err := json.Marshal(s.poller.Snapshot())
	if err != nil {
		logger.Errorf("Error marshalling status snapshot: %s", err)
		http.Error(w, `{"error":"Error building status"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(j)
}
