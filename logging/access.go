package logging

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zalando/routecond/net"
	"github.com/zalando/routecond/request"
)

const (
	dateFormat      = "02/Jan/2006:15:04:05 -0700"
	commonLogFormat = `%s - - [%s] "%s %s %s" %d %d`
	// format:
	// remote_host - - [date] "method uri protocol" status response_size "referer" "user_agent"
	combinedLogFormat = commonLogFormat + ` "%s" "%s"`
	// We add the duration in ms, the requested host and the flow id
	accessLogFormat = combinedLogFormat + " %d %s %s\n"

	flowIDHeader = "X-Flow-Id"
)

type accessLogFormatter struct {
	format string
}

// AccessEntry contains the data of a single access log entry.
type AccessEntry struct {

	// The client request.
	Request *request.Request

	// The status code of the response.
	StatusCode int

	// The size of the response in bytes.
	ResponseSize int64

	// The time spent processing the request.
	Duration time.Duration

	// The time that the request was received.
	RequestTime time.Time
}

var accessLog atomic.Pointer[logrus.Logger]

func remoteHost(r *request.Request) string {
	if a := net.RemoteAddr(r); a.IsValid() {
		return a.String()
	}

	return "-"
}

func serverString(r *request.Request, key string) string {
	s, _ := r.ServerValue(key, "").(string)
	return s
}

func (f *accessLogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	keys := []string{
		"host", "timestamp", "method", "uri", "proto",
		"status", "response-size", "referer", "user-agent",
		"duration", "requested-host", "flow-id"}

	values := make([]interface{}, len(keys))
	for i, key := range keys {
		values[i] = e.Data[key]
	}

	return []byte(fmt.Sprintf(f.format, values...)), nil
}

// LogAccess logs an access event in Apache combined log format, with the
// duration, the requested host and the flow id appended.
func LogAccess(entry *AccessEntry) {
	l := accessLog.Load()
	if l == nil || entry == nil {
		return
	}

	ts := entry.RequestTime.Format(dateFormat)

	host := "-"
	method := ""
	uri := ""
	proto := ""
	referer := ""
	userAgent := ""
	requestedHost := ""
	flowID := "-"

	status := entry.StatusCode
	responseSize := entry.ResponseSize
	duration := int64(entry.Duration / time.Millisecond)

	if r := entry.Request; r != nil {
		host = remoteHost(r)
		method = r.Method()
		uri = serverString(r, "REQUEST_URI")
		proto = serverString(r, "SERVER_PROTOCOL")
		referer = r.Header("Referer")
		userAgent = r.Header("User-Agent")
		requestedHost = serverString(r, "HTTP_HOST")
		if id := r.Header(flowIDHeader); id != "" {
			flowID = id
		}
	}

	l.WithFields(logrus.Fields{
		"timestamp":      ts,
		"host":           host,
		"method":         method,
		"uri":            uri,
		"proto":          proto,
		"referer":        referer,
		"user-agent":     userAgent,
		"status":         status,
		"response-size":  responseSize,
		"requested-host": requestedHost,
		"duration":       duration,
		"flow-id":        flowID,
	}).Infoln()
}
