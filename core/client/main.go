// Command kvstored-client is the interactive REPL for a running
// kvstored server. Usage: kvstored-client [host] [port].
package main

import (
	"fmt"
	"os"
	"strconv"

	"kvstored/source/client"
)

const (
	defaultHost = "127.0.0.1"
	defaultPort = 1234
)

func main() {
	host, port := defaultHost, defaultPort
	if len(os.Args) > 1 {
		host = os.Args[1]
	}
	if len(os.Args) > 2 {
		p, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid port %q: %v\n", os.Args[2], err)
			os.Exit(1)
		}
		port = p
	}

	addr := host + ":" + strconv.Itoa(port)
	tr, err := client.Dial(addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer tr.Close()

	repl := client.NewREPL(tr, os.Stdin, os.Stdout, os.Stderr)
	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
