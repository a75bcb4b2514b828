package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/cygnuslabs/cygnusone/internal/devserver"
	"github.com/cygnuslabs/cygnusone/internal/logging"
)

func main() {

	addr := flag.String("addr", ":5000", "listen address")
	flag.Parse()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	srv := devserver.New(logger)

	log.Printf("dev API listening on %s (demo account: demo@cygnusone.dev / password)", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatalf("%v", err)
	}

}
