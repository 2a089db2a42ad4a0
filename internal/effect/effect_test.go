package effect

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-starstrip/internal/clock"
	"github.com/coreman2200/funtimes-starstrip/internal/strip"
)

func noop(ctx *Context, buf []strip.HSV) []strip.HSV { return buf }

func TestCatalogValidate(t *testing.T) {
	valid := Catalog{
		{ID: 1, Name: "a", Run: noop},
		{ID: 2, Name: "b", Run: noop},
	}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Catalog{}.Validate(), "empty catalog")
	assert.Error(t, Catalog{{ID: 2, Name: "a", Run: noop}}.Validate(), "ids must start at 1")
	assert.Error(t, Catalog{
		{ID: 1, Name: "a", Run: noop},
		{ID: 3, Name: "b", Run: noop},
	}.Validate(), "ids must be contiguous")
	assert.Error(t, Catalog{{ID: 1, Name: "a"}}.Validate(), "nil run function")
}

func TestCatalogByID(t *testing.T) {
	cat := Catalog{
		{ID: 1, Name: "a", Run: noop},
		{ID: 2, Name: "b", Run: noop},
	}

	d, ok := cat.ByID(2)
	require.True(t, ok)
	assert.Equal(t, "b", d.Name)

	_, ok = cat.ByID(0)
	assert.False(t, ok)
	_, ok = cat.ByID(3)
	assert.False(t, ok)
}

func TestContextDeadline(t *testing.T) {
	clk := clock.NewFake(time.Unix(1000, 0))
	rc := NewContext(nil, clk, rand.New(rand.NewSource(1)))

	assert.False(t, rc.Expired(), "no deadline set")
	_, ok := rc.Deadline()
	assert.False(t, ok)

	rc.SetDeadline(clk.Now().Add(5 * time.Second))
	assert.False(t, rc.Expired())

	clk.Advance(4 * time.Second)
	assert.False(t, rc.Expired())
	clk.Advance(time.Second)
	assert.True(t, rc.Expired())

	rc.ClearDeadline()
	assert.False(t, rc.Expired(), "cleared deadline never expires")
}
