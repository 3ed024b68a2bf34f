// Package dispatch validates and executes commands against a Keyspace,
// producing a tagged reply body per command (see source/wire for the
// tag encoding). A command-name -> {arity, handler} table drives
// dispatch rather than a long conditional chain, per spec.md §9.
package dispatch

import (
	"fmt"

	"kvstored/source/store"
	"kvstored/source/wire"
)

// Handler executes one command, appending its reply value to *out.
// argv[0] is the command name; argv[1:] are its arguments.
type Handler func(ks *store.Keyspace, argv [][]byte, out *[]byte)

// Command is one entry in the dispatch table.
type Command struct {
	Name    string
	Arity   int // required len(argv), including the command name itself
	Handler Handler
}

var table = buildTable()

func buildTable() map[string]Command {
	cmds := []Command{
		{Name: "get", Arity: 2, Handler: cmdGet},
		{Name: "set", Arity: 3, Handler: cmdSet},
		{Name: "del", Arity: 2, Handler: cmdDel},
		{Name: "keys", Arity: 1, Handler: cmdKeys},
		{Name: "zadd", Arity: 4, Handler: cmdZAdd},
		{Name: "zrem", Arity: 3, Handler: cmdZRem},
		{Name: "zscore", Arity: 3, Handler: cmdZScore},
		{Name: "zquery", Arity: 6, Handler: cmdZQuery},
	}
	t := make(map[string]Command, len(cmds))
	for _, c := range cmds {
		t[c.Name] = c
	}
	return t
}

// Execute resolves argv[0] as a command name, enforces arity, and
// invokes the corresponding handler, appending the reply value to *out.
// An empty argv, an unknown command name, or an arity mismatch all
// produce an ERR reply; the connection stays open either way (these are
// Command-class errors per spec.md §7, not Protocol-class ones).
func Execute(ks *store.Keyspace, argv [][]byte, out *[]byte) {
	if len(argv) == 0 {
		*out = wire.AppendErr(*out, "Empty command")
		return
	}
	name := string(argv[0])
	cmd, ok := table[name]
	if !ok {
		*out = wire.AppendErr(*out, "Unknown command")
		return
	}
	if len(argv) != cmd.Arity {
		*out = wire.AppendErr(*out, fmt.Sprintf("Wrong number of arguments for '%s'", name))
		return
	}
	cmd.Handler(ks, argv, out)
}
