package calc

import (
	"github.com/roach88/rotasim/internal/effects"
	"github.com/roach88/rotasim/internal/ir"
)

// artsPowerFactor is the stagger bonus per point of originium arts power.
const artsPowerFactor = 0.005

// TagHolder reports the tags active on an entity.
type TagHolder interface {
	HasTag(tag effects.Tag) bool
}

// StaggerContext is the input of a stagger calculation.
type StaggerContext struct {
	SourceStats ir.ActorStats
	Target      TagHolder
}

// OriginiumArtsModifier amplifies stagger against a lifted or knocked down
// target by the source's originium arts power.
func OriginiumArtsModifier(ctx StaggerContext, r *Result) {
	if ctx.Target == nil {
		return
	}
	if !ctx.Target.HasTag(effects.TagLift) && !ctx.Target.HasTag(effects.TagKnockDown) {
		return
	}

	power := ctx.SourceStats.Get(ir.StatOriginiumArtsPower)
	if power <= 0 {
		return
	}
	r.Multiply("Knock Bonus", 1+power*artsPowerFactor)
}

// StaggerPipeline returns the pipeline applied to every stagger change.
func StaggerPipeline() *Pipeline[StaggerContext] {
	return NewPipeline(OriginiumArtsModifier)
}
