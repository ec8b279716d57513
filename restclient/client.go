// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package restclient provides an objects Store that talks to the
// matching HTTP REST server in the "restserver" package.
//
// The server in github.com/diffeo/go-objects/cmd/objectsd runs a
// compatible REST server.  Call New() with the base URL of that
// service; for instance,
//
//	store, err := restclient.New("http://localhost:8000/")
//
// Application-level failures are returned as ErrorHTTP values.  These
// unwrap to the matching objects package error when the server
// reported one, so for example a Get() of a missing object matches
// objects.ErrNoSuchObject via the errors package.  Transport-level
// failures (the exchange itself could not complete) are returned as
// whatever error the HTTP client produced, and carry no HTTP status.
package restclient

import (
	"net/url"

	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restdata"
)

// New creates a new objects Store that speaks to an external REST
// server.  This fetches the root document from the server, so it
// fails immediately if the server is unreachable.
func New(baseURL string) (objects.Store, error) {
	var (
		err error
		u   *url.URL
		c   *restStore
	)
	u, err = url.Parse(baseURL)
	if err == nil {
		c = &restStore{
			resource: resource{URL: u},
		}
		err = c.Refresh()
	}

	if err != nil {
		return nil, err
	}
	return c, nil
}

type restStore struct {
	resource
	Representation restdata.RootData
}

// Refresh re-fetches the root document, which carries the URL
// templates for all other resources.
func (c *restStore) Refresh() error {
	c.Representation = restdata.RootData{}
	return c.resource.Get(&c.Representation)
}

func (c *restStore) Insert(name string, data objects.DataDict) (objects.Record, error) {
	reqdata := restdata.ObjectUpsert{Name: name, Data: data}
	respdata := restdata.Object{}
	err := c.PostTo(c.Representation.ObjectsURL, map[string]interface{}{}, reqdata, &respdata)
	if err != nil {
		return objects.Record{}, err
	}
	return respdata.ToRecord(), nil
}

func (c *restStore) Get(id string) (objects.Record, error) {
	if id == "" {
		// An empty identifier would not route to the object
		// endpoint at all; reject it without a round trip.
		return objects.Record{}, objects.ErrNoID
	}
	respdata := restdata.Object{}
	err := c.GetFrom(c.Representation.ObjectURL, map[string]interface{}{"id": id}, &respdata)
	if err != nil {
		return objects.Record{}, err
	}
	return respdata.ToRecord(), nil
}

func (c *restStore) List() ([]objects.Record, error) {
	var respdata []restdata.Object
	err := c.GetFrom(c.Representation.ObjectsURL, map[string]interface{}{}, &respdata)
	if err != nil {
		return nil, err
	}
	result := make([]objects.Record, len(respdata))
	for i, object := range respdata {
		result[i] = object.ToRecord()
	}
	return result, nil
}

func (c *restStore) Replace(id, name string, data objects.DataDict) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	reqdata := restdata.ObjectUpsert{Name: name, Data: data}
	respdata := restdata.Object{}
	err := c.PutTo(c.Representation.ObjectURL, map[string]interface{}{"id": id}, reqdata, &respdata)
	if err != nil {
		return objects.Record{}, err
	}
	return respdata.ToRecord(), nil
}

func (c *restStore) Merge(id string, patch objects.Patch) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	reqdata := restdata.FromPatch(patch)
	respdata := restdata.Object{}
	err := c.PatchTo(c.Representation.ObjectURL, map[string]interface{}{"id": id}, reqdata, &respdata)
	if err != nil {
		return objects.Record{}, err
	}
	return respdata.ToRecord(), nil
}

func (c *restStore) Delete(id string) error {
	if id == "" {
		return objects.ErrNoID
	}
	respdata := restdata.DeletedResponse{}
	return c.DeleteAt(c.Representation.ObjectURL, map[string]interface{}{"id": id}, &respdata)
}
