// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"fmt"

	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restdata"
	"github.com/gorilla/mux"
)

// mapStoreError wraps well-known store errors so that they carry the
// right HTTP status.  A missing object is 404; invalid input is 400;
// anything else is left alone and becomes a 500.
func mapStoreError(err error) error {
	switch err {
	case nil:
		return nil
	case objects.ErrNoName, objects.ErrNoID, objects.ErrEmptyPatch:
		return restdata.ErrBadRequest{Err: err}
	}
	if _, missing := err.(objects.ErrNoSuchObject); missing {
		return restdata.ErrNotFound{Err: err}
	}
	return err
}

func (api *restAPI) fillObject(record objects.Record, result *restdata.Object) {
	result.FromRecord(record)
}

// ObjectList returns every object in the collection, in insertion
// order.
func (api *restAPI) ObjectList(ctx *context) (interface{}, error) {
	records, err := api.Store.List()
	if err != nil {
		return nil, err
	}
	result := make([]restdata.Object, len(records))
	for i, record := range records {
		api.fillObject(record, &result[i])
	}
	return result, nil
}

// ObjectPost creates a new object from an ObjectUpsert body.
func (api *restAPI) ObjectPost(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.ObjectUpsert)
	if !valid {
		return nil, errUnmarshal
	}
	if req.Name == "" {
		// Reject before the request reaches the store
		return nil, restdata.ErrBadRequest{Err: objects.ErrNoName}
	}
	record, err := api.Store.Insert(req.Name, req.Data)
	if err != nil {
		return nil, mapStoreError(err)
	}
	result := restdata.Object{}
	api.fillObject(record, &result)
	var location string
	err = buildURLs(api.Router, "id", record.ID).
		URL(&location, "object").
		Error
	if err != nil {
		return nil, err
	}
	return responseCreated{
		Location: location,
		Body:     result,
	}, nil
}

// ObjectGet retrieves a single existing object.
func (api *restAPI) ObjectGet(ctx *context) (interface{}, error) {
	record, err := api.Store.Get(ctx.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	result := restdata.Object{}
	api.fillObject(record, &result)
	return result, nil
}

// ObjectPut replaces an object's name and payload wholesale.  A body
// without a "data" key resets the payload to null.
func (api *restAPI) ObjectPut(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.ObjectUpsert)
	if !valid {
		return nil, errUnmarshal
	}
	if req.Name == "" {
		return nil, restdata.ErrBadRequest{Err: objects.ErrNoName}
	}
	record, err := api.Store.Replace(ctx.ID, req.Name, req.Data)
	if err != nil {
		return nil, mapStoreError(err)
	}
	result := restdata.Object{}
	api.fillObject(record, &result)
	return result, nil
}

// ObjectPatch updates only the fields supplied in an ObjectPatch
// body.  An empty body is "nothing to update" and fails.
func (api *restAPI) ObjectPatch(ctx *context, in interface{}) (interface{}, error) {
	req, valid := in.(restdata.ObjectPatch)
	if !valid {
		return nil, errUnmarshal
	}
	patch, err := req.ToPatch()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, restdata.ErrBadRequest{Err: objects.ErrEmptyPatch}
	}
	record, err := api.Store.Merge(ctx.ID, patch)
	if err != nil {
		return nil, mapStoreError(err)
	}
	result := restdata.Object{}
	api.fillObject(record, &result)
	return result, nil
}

// ObjectDelete removes an object.  Deleting the same object twice
// fails with a 404 the second time.
func (api *restAPI) ObjectDelete(ctx *context) (interface{}, error) {
	err := api.Store.Delete(ctx.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return restdata.DeletedResponse{
		Message: fmt.Sprintf("Object with id = %v has been deleted.", ctx.ID),
	}, nil
}

// PopulateObjects adds the objects collection routes to a router.
// r should be rooted at the root of the objects URL tree, e.g. "/".
func (api *restAPI) PopulateObjects(r *mux.Router) {
	r.Path("/objects").Name("objects").Handler(&resourceHandler{
		Representation: restdata.ObjectUpsert{},
		Context:        api.Context,
		Get:            api.ObjectList,
		Post:           api.ObjectPost,
	})
	r.Path("/objects/{id}").Name("object").Handler(&resourceHandler{
		Representation:      restdata.ObjectUpsert{},
		PatchRepresentation: restdata.ObjectPatch{},
		Context:             api.Context,
		Get:                 api.ObjectGet,
		Put:                 api.ObjectPut,
		Patch:               api.ObjectPatch,
		Delete:              api.ObjectDelete,
	})
}
