// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"net/http"

	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restdata"
	"github.com/gorilla/mux"
)

// NewRouter creates a new HTTP handler that processes all objects
// requests.  All resources are under the URL path root, e.g.
// /objects/1234.  For more control over this setup, create a
// mux.Router and call PopulateRouter instead.
func NewRouter(store objects.Store) http.Handler {
	r := mux.NewRouter()
	PopulateRouter(r, store)
	return r
}

// PopulateRouter adds objects routes to an existing
// github.com/gorilla/mux router object.  This can be used, for
// instance, to place the objects interface under a subpath:
//
//	import "github.com/diffeo/go-objects/memstore"
//	import "github.com/gorilla/mux"
//	r := mux.NewRouter()
//	s := r.PathPrefix("/api").Subrouter()
//	store := memstore.New()
//	restserver.PopulateRouter(s, store)
func PopulateRouter(r *mux.Router, store objects.Store) {
	api := &restAPI{Store: store, Router: r}
	api.PopulateRouter(r)
}

// restAPI holds the persistent state for the objects REST API.
type restAPI struct {
	Store  objects.Store
	Router *mux.Router
}

// PopulateRouter adds all objects URL paths to a router.
func (api *restAPI) PopulateRouter(r *mux.Router) {
	api.PopulateObjects(r)
	r.Path("/").Name("root").Handler(&resourceHandler{
		Representation: restdata.RootData{},
		Context:        api.Context,
		Get:            api.RootDocument,
	})
}

// RootDocument returns the API discovery document.
func (api *restAPI) RootDocument(ctx *context) (interface{}, error) {
	resp := restdata.RootData{}
	err := buildURLs(api.Router).
		URL(&resp.ObjectsURL, "objects").
		Template(&resp.ObjectURL, "object", "id").
		Error
	return resp, err
}
