// Command mmctl is the ground console for the flight memory manager.
package main

import "github.com/mesh-intelligence/memmgr/internal/cli"

func main() {
	cli.Execute()
}
