package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	logger, err := Init("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, Logger)

	_, err = Init("loud")
	assert.Error(t, err)
}
