// Package reaction resolves interactions between an incoming status effect
// and the effects already active on its target.
package reaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/rotasim/internal/effects"
	"github.com/roach88/rotasim/internal/state"
)

// ErrInvariant is returned when the target holds effects the reaction rules
// cannot reason about: more than one vulnerability group, or more than one
// elemental affliction.
var ErrInvariant = errors.New("reaction invariant violated")

// Result describes what a reaction does to the target.
type Result struct {
	Name string
	// CancelIncoming means the incoming effect is not applied.
	CancelIncoming bool
	RemoveIDs      []string
	SpawnEffects   []*effects.Effect
}

// Target is the read side of an entity's effects.
type Target interface {
	ByTag(tag effects.Tag) []*state.Instance
	Tags() []effects.Tag
}

// matrix[existing][incoming] is the effect produced when incoming lands on a
// target already carrying existing.
var matrix = map[effects.Tag]map[effects.Tag]effects.Tag{
	effects.TagHeat: {
		effects.TagHeat:     effects.TagHeatBurst,
		effects.TagCryo:     effects.TagSolidification,
		effects.TagElectric: effects.TagElectrification,
		effects.TagNature:   effects.TagCorrosion,
	},
	effects.TagCryo: {
		effects.TagHeat:     effects.TagCombustion,
		effects.TagCryo:     effects.TagCryoBurst,
		effects.TagElectric: effects.TagElectrification,
		effects.TagNature:   effects.TagCorrosion,
	},
	effects.TagElectric: {
		effects.TagHeat:     effects.TagCombustion,
		effects.TagCryo:     effects.TagSolidification,
		effects.TagElectric: effects.TagElectricBurst,
		effects.TagNature:   effects.TagCorrosion,
	},
	effects.TagNature: {
		effects.TagHeat:     effects.TagCombustion,
		effects.TagCryo:     effects.TagSolidification,
		effects.TagElectric: effects.TagElectrification,
		effects.TagNature:   effects.TagNatureBurst,
	},
}

// Check returns the reaction incoming triggers on target, or nil when none
// does. It does not modify target.
func Check(target Target, incoming *effects.Effect) (*Result, error) {
	if incoming.HasAnyTag(effects.PhysicalAfflictions...) {
		return checkPhysical(target, incoming)
	}
	if incoming.HasAnyTag(effects.ElementalAfflictions...) {
		return checkElemental(target, incoming)
	}
	return nil, nil
}

func checkPhysical(target Target, incoming *effects.Effect) (*Result, error) {
	vulns := target.ByTag(effects.TagVulnerable)
	if len(vulns) > 1 {
		return nil, fmt.Errorf("%w: %d vulnerable effects on target", ErrInvariant, len(vulns))
	}

	if len(vulns) == 0 {
		return &Result{
			Name:           "Physical Reaction",
			CancelIncoming: true,
			SpawnEffects:   []*effects.Effect{effects.PhysicalVulnerable()},
		}, nil
	}

	switch {
	case incoming.HasTag(effects.TagCrush):
		return &Result{Name: "Physical Crush", RemoveIDs: []string{vulns[0].ID}}, nil
	case incoming.HasTag(effects.TagBreach):
		return &Result{Name: "Physical Breach", RemoveIDs: []string{vulns[0].ID}}, nil
	case incoming.HasTag(effects.TagLift):
		return &Result{Name: "Physical Lift", SpawnEffects: []*effects.Effect{effects.PhysicalVulnerable()}}, nil
	default:
		return &Result{Name: "Physical Knock Down", SpawnEffects: []*effects.Effect{effects.PhysicalVulnerable()}}, nil
	}
}

func checkElemental(target Target, incoming *effects.Effect) (*Result, error) {
	existing, err := singleElement(target.Tags())
	if err != nil {
		return nil, err
	}
	arriving, err := singleElement(incoming.Tags)
	if err != nil {
		return nil, err
	}
	if existing == "" {
		return nil, nil
	}

	produced := effects.MustCatalog(matrix[existing][arriving])
	element := strings.TrimPrefix(string(existing), "ELEMENT_")

	if existing == arriving {
		return &Result{
			Name:         "Arts Burst " + element,
			SpawnEffects: []*effects.Effect{produced},
		}, nil
	}

	held := target.ByTag(existing)
	return &Result{
		Name:           "Arts Reaction " + element,
		CancelIncoming: true,
		RemoveIDs:      []string{held[0].ID},
		SpawnEffects:   []*effects.Effect{produced},
	}, nil
}

// singleElement returns the one elemental affliction among tags, "" when
// there is none.
func singleElement(tags []effects.Tag) (effects.Tag, error) {
	var found []effects.Tag
	for _, el := range effects.ElementalAfflictions {
		for _, t := range tags {
			if t == el {
				found = append(found, el)
				break
			}
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %d elemental afflictions %v", ErrInvariant, len(found), found)
	}
}
