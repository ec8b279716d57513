// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/diffeo/go-objects/restdata"
	"github.com/gorilla/mux"
)

// errUnmarshal is returned if the put/post contract is violated and
// a handler function is passed the wrong type.
var errUnmarshal = restdata.ErrBadRequest{
	Err: errors.New("Invalid input format"),
}

// context holds all of the information that can be extracted from URL
// parameters.
type context struct {
	// ID holds the object identifier from the URL path, if the
	// route has one.  The router never matches an empty path
	// segment, so when present this is non-empty.
	ID string

	QueryParams url.Values
}

func (api *restAPI) Context(req *http.Request) (*context, error) {
	ctx := &context{QueryParams: req.URL.Query()}
	vars := mux.Vars(req)
	if id, present := vars["id"]; present {
		ctx.ID = id
	}
	return ctx, nil
}
