package opts

import (
	"io"

	"github.com/walteh/pagepatch/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Dir is the base directory targets are resolved against
	Dir string
	// Debug enables debug logging
	Debug bool

	Stdout io.Writer
	Stderr io.Writer

	UserLogger *log.UserLogger
}

// BaseDir returns Dir, falling back to the working directory
func (o *RootOpts) BaseDir() string {
	if o.Dir == "" {
		return "."
	}
	return o.Dir
}
