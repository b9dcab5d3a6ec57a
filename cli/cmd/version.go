package cmd

import (
	"fmt"
	"strings"

	"github.com/rogeriochaves/rubber/pkg"
)

// Version prints the tool name and version.
type Version struct{}

// Run executes the version command.
func (Version) Run() error {
	_, err := fmt.Printf("%s %s\n", pkg.Name, strings.TrimSpace(pkg.Version))

	return err
}
