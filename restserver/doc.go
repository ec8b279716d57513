// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restserver publishes an objects Store as a REST service.
// The restdata package documents the endpoints and representations;
// the restclient package provides a matching Go client.
//
// The simplest way to use this is to create a store and serve it:
//
//	store := memstore.New()
//	router := restserver.NewRouter(store)
//	http.ListenAndServe(":8080", router)
package restserver
