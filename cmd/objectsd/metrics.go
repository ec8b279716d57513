// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diffeo/go-objects/objects"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/negroni"
)

var objectCount = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "diffeo",
		Subsystem: "objects",
		Name:      "object_count",
		Help:      "Number of records currently stored",
	},
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "diffeo",
		Subsystem: "objects",
		Name:      "requests_total",
		Help:      "Count of HTTP requests served",
	},
	[]string{
		"method",
		"status",
	},
)

func init() {
	prometheus.MustRegister(objectCount)
	prometheus.MustRegister(requestCount)
}

// countRequests is a negroni middleware that counts every request by
// method and response status.
func countRequests(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	next(w, r)
	status := 0
	if rw, ok := w.(negroni.ResponseWriter); ok {
		status = rw.Status()
	}
	requestCount.With(prometheus.Labels{
		"method": r.Method,
		"status": strconv.Itoa(status),
	}).Inc()
}

// observe periodically refreshes the stored-record gauge.
func observe(store objects.Store) {
	for range time.Tick(10 * time.Second) {
		records, err := store.List()
		if err != nil {
			continue
		}
		objectCount.Set(float64(len(records)))
	}
}
