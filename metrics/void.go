package metrics

import (
	"net/http"
	"time"
)

// Void discards all the metrics.
type Void struct{}

func (Void) MeasureSince(string, time.Time)              {}
func (Void) IncCounter(string)                           {}
func (Void) IncCounterBy(string, int64)                  {}
func (Void) UpdateGauge(string, float64)                 {}
func (Void) MeasureRouteLookup(time.Time)                {}
func (Void) MeasureMiddleware(string, time.Time)         {}
func (Void) MeasureServe(string, string, int, time.Time) {}
func (Void) IncRoutingFailures()                         {}
func (Void) IncFailure(string)                           {}
func (Void) SetInvalidRoute(string, string)              {}
func (Void) DeleteInvalidRoute(string)                   {}
func (Void) RegisterHandler(string, *http.ServeMux)      {}
