package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/avasiljevs/healthsync/internal/client/store"
)

func parseCollection(name string) (store.Collection, bool) {
	for _, c := range store.Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

func collectionNames() string {
	s := ""
	for i, c := range store.Collections {
		if i > 0 {
			s += ", "
		}
		s += string(c)
	}
	return s
}

// Add creates an item in one of the active member's collections:
// `add <collection>`. The item name is prompted interactively.
func (c *CLI) Add(ctx context.Context, args []string) error {
	if !c.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage: add <collection>. Collections:", collectionNames())
		return nil
	}
	coll, ok := parseCollection(args[0])
	if !ok {
		printlnFn("Unknown collection. Collections:", collectionNames())
		return nil
	}

	name, err := getSimpleText(c.reader, "Item name", os.Stdout)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return err
	}

	active, _ := c.core.Store().ActiveMember()
	item, err := c.core.Store().AddItem(active.ID, coll, payload)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Added", item.ID)
	return nil
}

// List shows the active member's items: `list <collection>`, or every
// collection when called without arguments.
func (c *CLI) List(ctx context.Context, args []string) error {
	if !c.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	colls := store.Collections
	if len(args) == 1 {
		coll, ok := parseCollection(args[0])
		if !ok {
			printlnFn("Unknown collection. Collections:", collectionNames())
			return nil
		}
		colls = []store.Collection{coll}
	}

	active, _ := c.core.Store().ActiveMember()
	for _, coll := range colls {
		items, err := c.core.Store().Items(active.ID, coll)
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
		if len(items) == 0 {
			continue
		}
		printlnFn(string(coll) + ":")
		for _, it := range items {
			printlnFn(fmt.Sprintf("  %s  %s", it.ID, string(it.Data)))
		}
	}
	return nil
}
