package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TrailHuang/stint/pkg/types"
)

func TestCompleter(t *testing.T) {
	nop := func([]byte, int) {}
	c := NewCommandCompleter([]types.Command{
		{Name: "show", Handler: nop},
		{Name: "shutdown", Handler: nop},
		{Name: "set", Handler: nop},
		{Name: "set", Handler: nop},
		{Name: "hidden"},
	})

	assert.Equal(t, []string{"show", "shutdown"}, c.Complete("sh"))
	assert.Equal(t, []string{"set", "show", "shutdown"}, c.Complete(""))
	assert.Equal(t, []string{"set"}, c.Complete("set"))
	assert.Nil(t, c.Complete("hid"))
	assert.Nil(t, c.Complete("show x"))
}
