// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package console sequences user intent into store operations and
// keeps a display snapshot of the collection.
//
// A Console wraps any objects Store, though typically it wraps a
// restclient talking to a remote server.  Every operation returns a
// uniform Result rather than an error; nothing this package does
// panics or returns a raw fault.  After every successful mutation the
// console re-fetches the whole collection and replaces its snapshot
// wholesale.  It never patches the snapshot from a mutation's own
// response, so the snapshot only ever reflects state the server
// actually persisted.
package console

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restclient"
	"github.com/diffeo/go-objects/restdata"
	"github.com/ugorji/go/codec"
)

// statusClearDelay is how long a transient status message stays
// visible before the console clears it.
const statusClearDelay = 3 * time.Second

// ErrBusy is reported when a new mutation is submitted while an
// earlier one is still pending.  The caller should disable whatever
// triggered the submission until the pending operation resolves.
var ErrBusy = errors.New("Another operation is still pending")

// ErrPayloadNotObject is reported when the payload text is valid JSON
// but not an object or null.
var ErrPayloadNotObject = errors.New("Payload must be a JSON object or null")

// Result is the uniform outcome of every console operation.
type Result struct {
	// Success reports whether the operation completed and the
	// server accepted it.
	Success bool

	// Record holds the affected record, on successful operations
	// that have one.
	Record *objects.Record

	// Message holds the error description on failure.  It is
	// empty on success; see Console.Status() for the transient
	// success confirmation.
	Message string

	// StatusCode holds the HTTP status of the completed exchange,
	// success or not.  It is zero when no exchange completed:
	// client-side validation failures and transport failures.
	StatusCode int
}

// Console holds the interactive state for one client instance.
type Console struct {
	store objects.Store
	clock clock.Clock

	sem         sync.Mutex
	snapshot    []objects.Record
	status      string
	statusTimer *clock.Timer
	pending     bool
}

// New creates a console over a store.
func New(store objects.Store) *Console {
	return NewWithClock(store, clock.New())
}

// NewWithClock creates a console with an explicit time source for the
// transient status message.  This entry point is intended for tests.
func NewWithClock(store objects.Store, clk clock.Clock) *Console {
	return &Console{store: store, clock: clk}
}

// Snapshot returns the last known state of the collection, in the
// server's insertion order.  The slice is a copy; the caller may keep
// it across later operations.
func (c *Console) Snapshot() []objects.Record {
	c.sem.Lock()
	defer c.sem.Unlock()
	result := make([]objects.Record, len(c.snapshot))
	copy(result, c.snapshot)
	return result
}

// Status returns the current transient status message, or an empty
// string.  Messages clear themselves a few seconds after the
// operation that set them.
func (c *Console) Status() string {
	c.sem.Lock()
	defer c.sem.Unlock()
	return c.status
}

// Refresh re-fetches the collection and replaces the snapshot.
func (c *Console) Refresh() Result {
	records, err := c.store.List()
	if err != nil {
		return c.failure(err)
	}
	c.sem.Lock()
	c.snapshot = records
	c.sem.Unlock()
	return Result{Success: true, StatusCode: 200}
}

// Create validates the payload text, creates a new record, and
// refreshes the snapshot.
func (c *Console) Create(name, payloadText string) Result {
	data, result, ok := c.begin(payloadText)
	if !ok {
		return result
	}
	defer c.finish()

	var payload objects.DataDict
	if data != nil {
		payload = *data
	}
	record, err := c.store.Insert(name, payload)
	if err != nil {
		return c.failure(err)
	}
	return c.mutated(record, 201, fmt.Sprintf("Created %q", record.Name))
}

// Replace validates the payload text and overwrites a record
// wholesale.  An empty payload text resets the stored payload to
// null, matching full-replacement semantics.
func (c *Console) Replace(id, name, payloadText string) Result {
	data, result, ok := c.begin(payloadText)
	if !ok {
		return result
	}
	defer c.finish()

	var payload objects.DataDict
	if data != nil {
		payload = *data
	}
	record, err := c.store.Replace(id, name, payload)
	if err != nil {
		return c.failure(err)
	}
	return c.mutated(record, 200, fmt.Sprintf("Replaced %q", record.Name))
}

// Merge updates only the supplied fields of a record.  name, if
// non-nil, is the new name.  payloadText, if non-nil, is the new
// payload: the text "null" clears the stored payload, while an empty
// text is treated as "no payload field supplied" and is only valid
// when a name is supplied too.
func (c *Console) Merge(id string, name *string, payloadText *string) Result {
	var patch objects.Patch
	patch.Name = name
	if payloadText != nil {
		data, err := ParsePayload(*payloadText)
		if err != nil {
			return Result{Message: err.Error()}
		}
		patch.Data = data
	}

	if result, ok := c.acquire(); !ok {
		return result
	}
	defer c.finish()

	record, err := c.store.Merge(id, patch)
	if err != nil {
		return c.failure(err)
	}
	return c.mutated(record, 200, fmt.Sprintf("Updated %q", record.Name))
}

// Delete removes a record and refreshes the snapshot.
func (c *Console) Delete(id string) Result {
	if result, ok := c.acquire(); !ok {
		return result
	}
	defer c.finish()

	err := c.store.Delete(id)
	if err != nil {
		return c.failure(err)
	}
	result := c.mutated(objects.Record{}, 200, "Deleted object "+id)
	result.Record = nil
	return result
}

// ParsePayload validates a textual payload before submission.  An
// empty (or blank) text means no payload field was supplied and
// returns nil.  The text "null" explicitly clears the payload and
// returns a pointer to a nil dictionary.  Otherwise the text must be
// a JSON object.  Malformed text returns an error without touching
// any committed state, so it never reaches the wire.
func ParsePayload(text string) (*objects.DataDict, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var value interface{}
	decoder := codec.NewDecoder(bytes.NewReader([]byte(text)), restdata.JSONHandle())
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	var data objects.DataDict
	switch typed := value.(type) {
	case nil:
		// explicit null
	case map[string]interface{}:
		data = objects.DataDict(typed)
	default:
		return nil, ErrPayloadNotObject
	}
	return &data, nil
}

// begin parses the payload text and acquires the pending guard,
// in that order: malformed input must fail before it could reach
// the wire.
func (c *Console) begin(payloadText string) (*objects.DataDict, Result, bool) {
	data, err := ParsePayload(payloadText)
	if err != nil {
		return nil, Result{Message: err.Error()}, false
	}
	result, ok := c.acquire()
	return data, result, ok
}

// acquire takes the pending guard.  A second submission while one is
// pending is rejected rather than queued.
func (c *Console) acquire() (Result, bool) {
	c.sem.Lock()
	defer c.sem.Unlock()
	if c.pending {
		return Result{Message: ErrBusy.Error()}, false
	}
	c.pending = true
	return Result{}, true
}

func (c *Console) finish() {
	c.sem.Lock()
	c.pending = false
	c.sem.Unlock()
}

// mutated handles the bookkeeping after a successful mutation:
// re-fetch the collection, set the transient status, and build the
// result.  If the re-fetch itself fails, the whole operation is
// reported as failed and the snapshot is left alone.
func (c *Console) mutated(record objects.Record, status int, confirmation string) Result {
	records, err := c.store.List()
	if err != nil {
		return c.failure(err)
	}

	c.sem.Lock()
	c.snapshot = records
	c.status = confirmation
	if c.statusTimer != nil {
		c.statusTimer.Stop()
	}
	c.statusTimer = c.clock.AfterFunc(statusClearDelay, c.clearStatus)
	c.sem.Unlock()

	return Result{Success: true, Record: &record, StatusCode: status}
}

func (c *Console) clearStatus() {
	c.sem.Lock()
	c.status = ""
	c.sem.Unlock()
}

// failure normalizes an error into a Result.  An application-level
// failure carries the HTTP status the server answered with (or its
// in-process equivalent); a transport failure carries none.  The
// snapshot is never modified on failure.
func (c *Console) failure(err error) Result {
	return Result{Message: err.Error(), StatusCode: statusOf(err)}
}

// statusOf derives the HTTP-equivalent status for an error.  Remote
// errors carry their actual response status.  Errors from in-process
// stores map the way the REST server would map them.  Anything else,
// including transport failures, has no status.
func statusOf(err error) int {
	var httpErr restclient.ErrorHTTP
	if errors.As(err, &httpErr) {
		return httpErr.Response.StatusCode
	}
	switch err {
	case objects.ErrNoName, objects.ErrNoID, objects.ErrEmptyPatch:
		return 400
	}
	var missing objects.ErrNoSuchObject
	if errors.As(err, &missing) {
		return 404
	}
	return 0
}
