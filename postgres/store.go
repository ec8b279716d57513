// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package postgres

import (
	"bytes"
	"database/sql"
	"strings"
	"time"

	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restdata"
	"github.com/satori/go.uuid"
	"github.com/ugorji/go/codec"
)

// newID generates a fresh record identifier, a random UUID rendered
// as 32 hex digits.
func newID() string {
	return strings.Replace(uuid.NewV4().String(), "-", "", -1)
}

// marshalData renders a payload as JSON text, mapping a nil payload
// to SQL NULL.
func marshalData(data objects.DataDict) (sql.NullString, error) {
	if data == nil {
		return sql.NullString{}, nil
	}
	var buf bytes.Buffer
	err := codec.NewEncoder(&buf, restdata.JSONHandle()).Encode(data)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: buf.String(), Valid: true}, nil
}

// unmarshalData recovers a payload from its stored JSON text.
func unmarshalData(encoded sql.NullString) (objects.DataDict, error) {
	if !encoded.Valid {
		return nil, nil
	}
	var data objects.DataDict
	reader := strings.NewReader(encoded.String)
	err := codec.NewDecoder(reader, restdata.JSONHandle()).Decode(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (store *pgStore) Insert(name string, data objects.DataDict) (objects.Record, error) {
	if name == "" {
		return objects.Record{}, objects.ErrNoName
	}
	encoded, err := marshalData(data)
	if err != nil {
		return objects.Record{}, err
	}

	now := store.clock.Now()
	record := objects.Record{
		ID:        newID(),
		Name:      name,
		Data:      objects.CopyData(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = store.withTx(false, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO objects(id, name, data, created_at, updated_at) VALUES($1, $2, $3, $4, $5)",
			record.ID, record.Name, encoded, record.CreatedAt, record.UpdatedAt)
		return err
	})
	if err != nil {
		return objects.Record{}, err
	}
	return record, nil
}

func (store *pgStore) Get(id string) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}

	var (
		record objects.Record
		found  bool
	)
	err := store.queryAndScan(
		"SELECT name, data, created_at, updated_at FROM objects WHERE id=$1",
		[]interface{}{id},
		func(rows *sql.Rows) error {
			found = true
			return scanRecord(rows, id, &record)
		})
	if err != nil {
		return objects.Record{}, err
	}
	if !found {
		return objects.Record{}, objects.ErrNoSuchObject{ID: id}
	}
	return record, nil
}

func (store *pgStore) List() ([]objects.Record, error) {
	result := []objects.Record{}
	err := store.queryAndScan(
		"SELECT id, name, data, created_at, updated_at FROM objects ORDER BY seq",
		nil,
		func(rows *sql.Rows) error {
			var (
				id      string
				name    string
				encoded sql.NullString
				created time.Time
				updated time.Time
			)
			err := rows.Scan(&id, &name, &encoded, &created, &updated)
			if err != nil {
				return err
			}
			data, err := unmarshalData(encoded)
			if err != nil {
				return err
			}
			result = append(result, objects.Record{
				ID:        id,
				Name:      name,
				Data:      data,
				CreatedAt: created,
				UpdatedAt: updated,
			})
			return nil
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (store *pgStore) Replace(id, name string, data objects.DataDict) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	if name == "" {
		return objects.Record{}, objects.ErrNoName
	}
	encoded, err := marshalData(data)
	if err != nil {
		return objects.Record{}, err
	}

	var record objects.Record
	err = store.withTx(false, func(tx *sql.Tx) error {
		created, err := lockRecord(tx, id)
		if err != nil {
			return err
		}
		now := store.clock.Now()
		_, err = tx.Exec("UPDATE objects SET name=$2, data=$3, updated_at=$4 WHERE id=$1",
			id, name, encoded, now)
		if err != nil {
			return err
		}
		record = objects.Record{
			ID:        id,
			Name:      name,
			Data:      objects.CopyData(data),
			CreatedAt: created,
			UpdatedAt: now,
		}
		return nil
	})
	if err != nil {
		return objects.Record{}, err
	}
	return record, nil
}

func (store *pgStore) Merge(id string, patch objects.Patch) (objects.Record, error) {
	if id == "" {
		return objects.Record{}, objects.ErrNoID
	}
	if patch.IsEmpty() {
		return objects.Record{}, objects.ErrEmptyPatch
	}
	if patch.Name != nil && *patch.Name == "" {
		return objects.Record{}, objects.ErrNoName
	}

	var record objects.Record
	err := store.withTx(false, func(tx *sql.Tx) error {
		row := tx.QueryRow("SELECT name, data, created_at FROM objects WHERE id=$1 FOR UPDATE", id)
		var (
			name    string
			encoded sql.NullString
			created time.Time
		)
		err := row.Scan(&name, &encoded, &created)
		if err == sql.ErrNoRows {
			return objects.ErrNoSuchObject{ID: id}
		}
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name = *patch.Name
		}
		if patch.Data != nil {
			encoded, err = marshalData(*patch.Data)
			if err != nil {
				return err
			}
		}
		now := store.clock.Now()
		_, err = tx.Exec("UPDATE objects SET name=$2, data=$3, updated_at=$4 WHERE id=$1",
			id, name, encoded, now)
		if err != nil {
			return err
		}

		data, err := unmarshalData(encoded)
		if err != nil {
			return err
		}
		record = objects.Record{
			ID:        id,
			Name:      name,
			Data:      data,
			CreatedAt: created,
			UpdatedAt: now,
		}
		return nil
	})
	if err != nil {
		return objects.Record{}, err
	}
	return record, nil
}

func (store *pgStore) Delete(id string) error {
	if id == "" {
		return objects.ErrNoID
	}

	return store.withTx(false, func(tx *sql.Tx) error {
		result, err := tx.Exec("DELETE FROM objects WHERE id=$1", id)
		if err != nil {
			return err
		}
		count, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if count == 0 {
			return objects.ErrNoSuchObject{ID: id}
		}
		return nil
	})
}

// lockRecord locks a single record for update within a transaction,
// returning its creation time.  Returns ErrNoSuchObject if the record
// does not exist.
func lockRecord(tx *sql.Tx, id string) (time.Time, error) {
	var created time.Time
	row := tx.QueryRow("SELECT created_at FROM objects WHERE id=$1 FOR UPDATE", id)
	err := row.Scan(&created)
	if err == sql.ErrNoRows {
		return time.Time{}, objects.ErrNoSuchObject{ID: id}
	}
	return created, err
}

// scanRecord reads one record row in the Get() column order.
func scanRecord(rows *sql.Rows, id string, record *objects.Record) error {
	var (
		name    string
		encoded sql.NullString
		created time.Time
		updated time.Time
	)
	err := rows.Scan(&name, &encoded, &created, &updated)
	if err != nil {
		return err
	}
	data, err := unmarshalData(encoded)
	if err != nil {
		return err
	}
	*record = objects.Record{
		ID:        id,
		Name:      name,
		Data:      data,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	return nil
}
