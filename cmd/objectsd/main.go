// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package objectsd provides the objects REST API daemon.  It serves a
// small CRUD HTTP API over a collection of free-form records, backed
// by either an in-memory store or PostgreSQL.  An optional YAML
// configuration file can pre-populate the collection at startup.
package main

import (
	"flag"
	"io/ioutil"

	"github.com/diffeo/go-objects/backend"
	"github.com/diffeo/go-objects/cache"
	"github.com/diffeo/go-objects/objects"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// config holds the contents of the optional configuration file.
type config struct {
	// Seed lists records inserted into the store at startup.
	Seed []seedObject `mapstructure:"seed"`
}

// seedObject is one record in the seed catalog.
type seedObject struct {
	Name string                 `mapstructure:"name"`
	Data map[string]interface{} `mapstructure:"data"`
}

func main() {
	var err error

	httpBind := flag.String("http", ":8000",
		"[ip]:port for HTTP REST interface")
	backend := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&backend, "backend", "impl[:address] of the storage backend")
	configFile := flag.String("config", "", "global configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	var cfg config
	if *configFile != "" {
		err = loadConfigYaml(*configFile, &cfg)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Fatal("Could not load YAML configuration")
			return
		}
	}

	store, err := backend.Store()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create objects backend")
		return
	}
	store = cache.New(store)

	err = seedStore(store, cfg.Seed)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not seed object store")
		return
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	ServeHTTP(store, *httpBind, reqLogger)
}

// loadConfigYaml reads a YAML configuration file into a typed config.
// The file is parsed as a free-form map first so that unknown keys
// are tolerated.
func loadConfigYaml(filename string, cfg *config) error {
	bytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	err = yaml.Unmarshal(bytes, &raw)
	if err != nil {
		return err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// seedStore inserts the seed catalog into an empty store.
func seedStore(store objects.Store, seed []seedObject) error {
	for _, object := range seed {
		_, err := store.Insert(object.Name, objects.DataDict(object.Data))
		if err != nil {
			return err
		}
	}
	return nil
}
