package cli

import (
	"context"
	"fmt"
	"os"
)

// Members lists the household members, marking the active one.
func (c *CLI) Members(ctx context.Context) error {
	if !c.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	active, _ := c.core.Store().ActiveMember()
	for _, m := range c.core.Store().Members() {
		marker := " "
		if m.ID == active.ID {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s (%s)", marker, m.ID, m.Name, m.Relation))
	}
	return nil
}

// AddMember prompts for the new member's details and adds them to the
// household.
func (c *CLI) AddMember(ctx context.Context) error {
	if !c.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	name, err := getSimpleText(c.reader, "Member name", os.Stdout)
	if err != nil {
		return err
	}
	relation, err := getSimpleText(c.reader, "Relation (self, child, parent, ...)", os.Stdout)
	if err != nil {
		return err
	}
	m := c.core.Store().AddMember(name, relation, "indigo")
	printlnFn("Added member", m.ID)
	return nil
}

// Use switches the active member: `use <member-id>`.
func (c *CLI) Use(ctx context.Context, args []string) error {
	if !c.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage: use <member-id>")
		return nil
	}
	if err := c.core.Store().SetActiveMember(args[0]); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Active member:", args[0])
	return nil
}
