// Package ranking orders scored teams and assigns placement labels from their
// rank position.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/juryboard/internal/domain/model"
)

// Placement labels.
const (
	GrandPrix   = "Гран-при"
	FirstPlace  = "1 место"
	SecondPlace = "2 место"
	ThirdPlace  = "3 место"
	Participant = "Участник"
)

// Policy names accepted by ParsePolicy.
const (
	PolicyThreshold = "threshold"
	PolicyBands     = "bands"
)

// Policy maps a zero-based rank index to a label. total is the number of
// ranked teams.
type Policy interface {
	Name() string
	Place(idx, total int) string
}

type tier struct {
	below int // idx must be < below
	min   int // total must be >= min
	label string
}

// ThresholdPolicy awards each band only when the batch is large enough to
// fill it: the top two get the grand prix once there are at least two teams,
// ranks below 4 get first place once there are at least four, and so on.
type ThresholdPolicy struct{}

var thresholdTiers = []tier{
	{below: 2, min: 2, label: GrandPrix},
	{below: 4, min: 4, label: FirstPlace},
	{below: 6, min: 6, label: SecondPlace},
	{below: 8, min: 8, label: ThirdPlace},
}

// Name implements Policy.
func (ThresholdPolicy) Name() string { return PolicyThreshold }

// Place implements Policy.
func (ThresholdPolicy) Place(idx, total int) string {
	for _, t := range thresholdTiers {
		if idx < t.below && total >= t.min {
			return t.label
		}
	}
	return Participant
}

// BandPolicy uses fixed rank bands regardless of batch size:
// 0–1, 2–4, 5–9, then everyone else.
type BandPolicy struct{}

var bands = []tier{
	{below: 2, label: GrandPrix},
	{below: 5, label: FirstPlace},
	{below: 10, label: SecondPlace},
}

// Name implements Policy.
func (BandPolicy) Name() string { return PolicyBands }

// Place implements Policy.
func (BandPolicy) Place(idx, _ int) string {
	for _, b := range bands {
		if idx < b.below {
			return b.label
		}
	}
	return Participant
}

// ParsePolicy resolves a policy by name. An empty name selects the threshold
// policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyThreshold:
		return ThresholdPolicy{}, nil
	case PolicyBands:
		return BandPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Rank sorts records by total then tie-break, both descending, keeping input
// order for exact ties, and stamps each with its placement label. The input
// slice is not modified.
func Rank(records []model.TeamRecord, p Policy) []model.TeamRecord {
	if p == nil {
		p = ThresholdPolicy{}
	}
	out := make([]model.TeamRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].K1K2 > out[j].K1K2
	})
	for i := range out {
		out[i].Place = p.Place(i, len(out))
	}
	return out
}
