/*
This command provides an executable version of routecond with the default
set of condition types, middleware units and handlers.

For the list of command line options, run:

	routecond -help

For the format of the route definitions, see the documentation of the
routefile package.
*/
package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/zalando/routecond"
	"github.com/zalando/routecond/config"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatalf("Error processing config: %s", err)
	}

	log.Fatal(routecond.Run(cfg.ToOptions()))
}
