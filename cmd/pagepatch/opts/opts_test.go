package opts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseDir(t *testing.T) {
	assert.Equal(t, ".", (&RootOpts{}).BaseDir())
	assert.Equal(t, "site", (&RootOpts{Dir: "site"}).BaseDir())
}
