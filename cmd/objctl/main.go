// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package objctl provides a command-line client for the objects REST
// API.  It can run the individual CRUD operations, or walk through
// all of them in sequence as a demonstration against a running
// objectsd server.
package main

import (
	"fmt"

	"github.com/diffeo/go-objects/console"
	"github.com/diffeo/go-objects/objects"
	"github.com/diffeo/go-objects/restclient"
	"github.com/urfave/cli"
)

type objctl struct {
	Store objects.Store
}

var ctl objctl

// printRecord writes a one-record summary to standard output.
func printRecord(record objects.Record) {
	fmt.Printf("  ID: %v\n", record.ID)
	fmt.Printf("  Name: %v\n", record.Name)
	if record.Data != nil {
		fmt.Printf("  Data: %v\n", record.Data)
	}
}

// payloadArg parses the --data flag on a command, distinguishing a
// missing flag, an explicit "null", and a JSON object.
func payloadArg(c *cli.Context) (*objects.DataDict, error) {
	if !c.IsSet("data") {
		return nil, nil
	}
	return console.ParsePayload(c.String("data"))
}

var dataFlag = cli.StringFlag{
	Name:  "data",
	Usage: "JSON object with the record payload, or \"null\"",
}

var listObjects = cli.Command{
	Name:  "list",
	Usage: "list all of the objects",
	Action: func(c *cli.Context) error {
		records, err := ctl.Store.List()
		if err != nil {
			return err
		}
		fmt.Printf("Found %v objects.\n", len(records))
		for _, record := range records {
			printRecord(record)
		}
		return nil
	},
}

var getObject = cli.Command{
	Name:      "get",
	Usage:     "fetch one object by ID",
	ArgsUsage: "id",
	Action: func(c *cli.Context) error {
		record, err := ctl.Store.Get(c.Args().First())
		if err != nil {
			return err
		}
		printRecord(record)
		return nil
	},
}

var createObject = cli.Command{
	Name:      "create",
	Usage:     "create a new object",
	ArgsUsage: "name",
	Flags:     []cli.Flag{dataFlag},
	Action: func(c *cli.Context) error {
		data, err := payloadArg(c)
		if err != nil {
			return err
		}
		var payload objects.DataDict
		if data != nil {
			payload = *data
		}
		record, err := ctl.Store.Insert(c.Args().First(), payload)
		if err != nil {
			return err
		}
		fmt.Println("Created:")
		printRecord(record)
		return nil
	},
}

var replaceObject = cli.Command{
	Name:      "replace",
	Usage:     "replace an object wholesale",
	ArgsUsage: "id name",
	Flags:     []cli.Flag{dataFlag},
	Action: func(c *cli.Context) error {
		data, err := payloadArg(c)
		if err != nil {
			return err
		}
		var payload objects.DataDict
		if data != nil {
			payload = *data
		}
		record, err := ctl.Store.Replace(c.Args().Get(0), c.Args().Get(1), payload)
		if err != nil {
			return err
		}
		fmt.Println("Replaced:")
		printRecord(record)
		return nil
	},
}

var patchObject = cli.Command{
	Name:      "patch",
	Usage:     "update some fields of an object",
	ArgsUsage: "id",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "name",
			Usage: "new record name",
		},
		dataFlag,
	},
	Action: func(c *cli.Context) error {
		patch := objects.Patch{}
		if c.IsSet("name") {
			name := c.String("name")
			patch.Name = &name
		}
		data, err := payloadArg(c)
		if err != nil {
			return err
		}
		patch.Data = data
		record, err := ctl.Store.Merge(c.Args().First(), patch)
		if err != nil {
			return err
		}
		fmt.Println("Patched:")
		printRecord(record)
		return nil
	},
}

var deleteObject = cli.Command{
	Name:      "delete",
	Usage:     "delete an object",
	ArgsUsage: "id",
	Action: func(c *cli.Context) error {
		err := ctl.Store.Delete(c.Args().First())
		if err != nil {
			return err
		}
		fmt.Printf("Object with id = %v has been deleted.\n", c.Args().First())
		return nil
	},
}

var runDemo = cli.Command{
	Name:  "demo",
	Usage: "walk through every operation in sequence",
	Action: func(c *cli.Context) error {
		fmt.Println("Step 1: listing existing objects...")
		records, err := ctl.Store.List()
		if err != nil {
			return err
		}
		fmt.Printf("Found %v objects.\n", len(records))

		if len(records) > 0 {
			fmt.Println("\nStep 2: fetching a single object...")
			record, err := ctl.Store.Get(records[0].ID)
			if err != nil {
				return err
			}
			printRecord(record)
		}

		fmt.Println("\nStep 3: creating a new object...")
		created, err := ctl.Store.Insert("My Learning Laptop", objects.DataDict{
			"year":  2024,
			"price": 999.99,
			"color": "Space Gray",
		})
		if err != nil {
			return err
		}
		printRecord(created)

		fmt.Println("\nStep 4: replacing it wholesale...")
		replaced, err := ctl.Store.Replace(created.ID,
			"My Updated Learning Laptop", objects.DataDict{
				"year":  2024,
				"price": 899.99,
				"color": "Midnight Black",
			})
		if err != nil {
			return err
		}
		printRecord(replaced)

		fmt.Println("\nStep 5: patching just the name...")
		name := "Super Learning Laptop Pro"
		patched, err := ctl.Store.Merge(created.ID, objects.Patch{Name: &name})
		if err != nil {
			return err
		}
		printRecord(patched)

		fmt.Println("\nStep 6: deleting it...")
		err = ctl.Store.Delete(created.ID)
		if err != nil {
			return err
		}
		fmt.Println("Demo complete.")
		return nil
	},
}

func main() {
	app := cli.NewApp()
	app.Usage = "command-line client for the objects REST API"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "url",
			Value: "http://localhost:8000/",
			Usage: "base URL of the objects server",
		},
	}
	app.Commands = []cli.Command{
		listObjects,
		getObject,
		createObject,
		replaceObject,
		patchObject,
		deleteObject,
		runDemo,
	}
	app.Before = func(c *cli.Context) (err error) {
		ctl.Store, err = restclient.New(c.GlobalString("url"))
		return
	}
	app.RunAndExitOnError()
}
