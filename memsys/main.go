// Command memsys builds memory system configurations and hands them to a
// simulation engine.
package main

import "github.com/sarchlab/memsys/memsys/cmd"

func main() {
	cmd.Execute()
}
