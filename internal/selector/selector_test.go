package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roguenand/dmxld/internal/attribute"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/vec3"
)

func buildRig(t *testing.T) (*rig.Rig, *fixture.Fixture, *fixture.Fixture, *fixture.Fixture) {
	t.Helper()
	ft := fixture.NewType("par", attribute.NewDimmer(false))
	a := fixture.New(ft, 1, 1, vec3.New(0, 0, 0))
	b := fixture.New(ft, 1, 2, vec3.New(0, 0, 0))
	c := fixture.New(ft, 2, 1, vec3.New(0, 0, 0))
	r := rig.New()
	require.NoError(t, r.Add(a))
	require.NoError(t, r.Add(b))
	require.NoError(t, r.Add(c))
	return r, a, b, c
}

func TestAllSelectsEveryFixtureInOrder(t *testing.T) {
	r, a, b, c := buildRig(t)
	assert.Equal(t, []*fixture.Fixture{a, b, c}, All().Select(r))
}

func TestSingleSelectsOneFixtureRegardlessOfRig(t *testing.T) {
	_, a, _, _ := buildRig(t)
	assert.Equal(t, []*fixture.Fixture{a}, Single(a).Select(nil))
}

func TestInUniverseFiltersByUniverse(t *testing.T) {
	r, a, b, c := buildRig(t)
	assert.Equal(t, []*fixture.Fixture{a, b}, InUniverse(1).Select(r))
	assert.Equal(t, []*fixture.Fixture{c}, InUniverse(2).Select(r))
	assert.Empty(t, InUniverse(99).Select(r))
}

func TestFuncAdapter(t *testing.T) {
	r, a, _, _ := buildRig(t)
	sel := Func(func(r *rig.Rig) []*fixture.Fixture { return []*fixture.Fixture{a} })
	assert.Equal(t, []*fixture.Fixture{a}, sel.Select(r))
}
