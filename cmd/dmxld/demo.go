package main

import (
	"fmt"

	"github.com/roguenand/dmxld/internal/attribute"
	"github.com/roguenand/dmxld/internal/clip"
	"github.com/roguenand/dmxld/internal/color"
	"github.com/roguenand/dmxld/internal/config"
	"github.com/roguenand/dmxld/internal/effect"
	"github.com/roguenand/dmxld/internal/fixture"
	"github.com/roguenand/dmxld/internal/rig"
	"github.com/roguenand/dmxld/internal/selector"
	"github.com/roguenand/dmxld/internal/value"
	"github.com/roguenand/dmxld/internal/vec3"
)

// demoShow builds a small rig of RGB+dimmer par fixtures and a
// timeline alternating a solid wash with a rainbow chase, so that
// running this binary with no show-authoring layer wired up still
// produces visible output. Real deployments replace this with their
// own in-memory clip graph; no file format is mandated by the core.
func demoShow(cfg *config.Config) (*rig.Rig, clip.Clip, error) {
	strategy, err := cfg.Engine.Strategy()
	if err != nil {
		return nil, nil, err
	}

	parType := fixture.NewType("par-rgb",
		attribute.NewDimmer(false),
		attribute.NewRGB(strategy),
	)

	r := rig.New()
	const count = 8
	for i := 0; i < count; i++ {
		f := fixture.New(parType, 1, 1+i*4, vec3.New(float64(i), 0, 0), "all")
		if err := r.Add(f); err != nil {
			return nil, nil, fmt.Errorf("fixture %d: %w", i, err)
		}
	}

	all := selector.All()

	wash, err := clip.NewScene(
		clip.WithLayer(all, clip.ConstParams(clip.State{
			"dimmer": value.Scalar(1),
			"color":  value.FromColor(color.RGB(1, 1, 1)),
		})),
		clip.WithFade(2, 2),
		clip.WithDuration(8),
	)
	if err != nil {
		return nil, nil, err
	}

	rainbow := effect.Rainbow(all, 0.2, 1.0, clip.WithDuration(12), clip.WithFade(1, 1))

	show := clip.NewTimeline().
		Add(0, wash).
		Add(8, rainbow)

	return r, show, nil
}
