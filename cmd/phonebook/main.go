// Command phonebook is a console contact manager.
package main

import "github.com/mesh-intelligence/phonebook/internal/cli"

func main() {
	cli.Execute()
}
