package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	SetVersion("v1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "twstock version v1.2.3")
}
