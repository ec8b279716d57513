// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// fakeConn is a minimal database/sql driver connection that counts
// transaction operations and can fail its first commits with a
// serialization error, driving withTx through its retry loop without
// a real server.
type fakeConn struct {
	failCommits int
	commits     int
	rollbacks   int
}

func (c *fakeConn) Connect(context.Context) (driver.Conn, error) { return c, nil }
func (c *fakeConn) Driver() driver.Driver                        { return nil }

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) Begin() (driver.Tx, error) { return c, nil }

func (c *fakeConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	return driver.ResultNoRows, nil
}

func (c *fakeConn) Commit() error {
	c.commits++
	if c.commits <= c.failCommits {
		return &pq.Error{Code: "40001"}
	}
	return nil
}

func (c *fakeConn) Rollback() error {
	c.rollbacks++
	return nil
}

// TestWithTxRetries checks the basic serialization-failure retry: a
// commit that fails with code 40001 reruns the callback, and the
// second commit's success is the caller's success.
func TestWithTxRetries(t *testing.T) {
	conn := &fakeConn{failCommits: 1}
	store := &pgStore{db: sql.OpenDB(conn)}
	defer store.db.Close()

	calls := 0
	err := store.withTx(false, func(tx *sql.Tx) error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, conn.commits)
}

// TestWithTxRollsBackAfterRetry checks that a callback failure on a
// retried attempt still rolls that attempt's transaction back, even
// though the prior attempt got as far as a commit.
func TestWithTxRollsBackAfterRetry(t *testing.T) {
	conn := &fakeConn{failCommits: 1}
	store := &pgStore{db: sql.OpenDB(conn)}
	defer store.db.Close()

	boom := errors.New("boom")
	calls := 0
	err := store.withTx(false, func(tx *sql.Tx) error {
		calls++
		if calls == 1 {
			return nil
		}
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, conn.rollbacks)
}
