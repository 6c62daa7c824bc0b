package cli

import (
	"fmt"

	"github.com/mywio/odyssey-build/pkg/version"
)

// Represents the 'odyssey-build version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(rt *Runtime) error {
	fmt.Fprintln(rt.Stdout, version.String())
	return nil
}
