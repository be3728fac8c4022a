package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownErr(t *testing.T) {
	// A closed reader surfaces io.EOF from FetchMessage; cancellation and
	// closed-pipe errors end the loop the same way.
	assert.True(t, shutdownErr(context.Canceled))
	assert.True(t, shutdownErr(io.EOF))
	assert.True(t, shutdownErr(io.ErrClosedPipe))
	assert.True(t, shutdownErr(fmt.Errorf("fetching message: %w", io.EOF)))

	assert.False(t, shutdownErr(errors.New("broker unreachable")))
	assert.False(t, shutdownErr(context.DeadlineExceeded))
	assert.False(t, shutdownErr(nil))
}
