// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"time"

	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

// ServeHTTP runs an HTTP server on the specified local address.  This
// serves connections forever.  If reqLogger is not nil, every request
// is logged through it at debug level.
func ServeHTTP(store objects.Store, laddr string, reqLogger *logrus.Logger) {
	r := mux.NewRouter()
	restserver.PopulateRouter(r, store)
	r.Handle("/metrics", promhttp.Handler())

	n := negroni.New(negroni.NewRecovery())
	n.Use(negroni.HandlerFunc(countRequests))
	if reqLogger != nil {
		n.Use(requestLogger{logger: reqLogger})
	}
	n.UseHandler(r)

	go observe(store)

	err := http.ListenAndServe(laddr, n)
	logrus.WithFields(logrus.Fields{
		"err": err,
	}).Fatal("HTTP server stopped")
}

// requestLogger is a negroni middleware that logs one line per
// request.
type requestLogger struct {
	logger *logrus.Logger
}

func (l requestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(w, r)
	fields := logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"duration": time.Since(start),
	}
	if rw, ok := w.(negroni.ResponseWriter); ok {
		fields["status"] = rw.Status()
	}
	l.logger.WithFields(fields).Debug("handled request")
}
