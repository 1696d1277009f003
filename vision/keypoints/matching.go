package keypoints

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/stitching/logging"
	"go.viam.com/stitching/utils"
)

// Match is a correspondence between a keypoint of the first set (A) and one of the second set
// (B). Distance is the squared euclidean distance between their descriptors.
type Match struct {
	A        image.Point
	B        image.Point
	Distance float64
}

type matchOutcome int

const (
	matchAccepted matchOutcome = iota
	// fewer than two keypoints in the second set
	matchTooFewCandidates
	// no keypoint of the second set inside the row band
	matchOutOfBand
	matchAmbiguous
)

// MatchKeypoints matches every keypoint of a to its nearest keypoint of b. Only keypoints of b
// whose row is within cfg.RowBand of the row of the keypoint of a are considered, and a match is
// kept only if the best distance is at most cfg.Ratio times the second best. When several
// keypoints of a claim the same keypoint of b, the closest claim wins. Matches are returned
// sorted by increasing distance. A nil config uses DefaultMatchingConfig and a nil logger uses the
// global one.
func MatchKeypoints(a, b *KeypointSet, cfg *MatchingConfig, logger logging.Logger) ([]Match, error) {
	if cfg == nil {
		cfg = DefaultMatchingConfig()
	}
	if logger == nil {
		logger = logging.Global()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if a.Len() == 0 || b.Len() == 0 {
		return []Match{}, nil
	}
	if err := a.validate(); err != nil {
		return nil, errors.Wrap(err, "first keypoint set")
	}
	if err := b.validate(); err != nil {
		return nil, errors.Wrap(err, "second keypoint set")
	}
	if a.DescriptorLength() != b.DescriptorLength() {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"cannot match descriptors of length %d with descriptors of length %d", a.DescriptorLength(), b.DescriptorLength())
	}

	tentative := make([]Match, a.Len())
	outcomes := make([]matchOutcome, a.Len())
	utils.ParallelForEach(a.Len(), func(i int) {
		tentative[i], outcomes[i] = matchOne(a, b, i, cfg)
	})

	// sort accepted matches by distance, ties keep the order of a
	candidates := make([]Match, 0, a.Len())
	dists := make([]float64, 0, a.Len())
	tally := map[matchOutcome]int{}
	for i, outcome := range outcomes {
		tally[outcome]++
		if outcome == matchAccepted {
			candidates = append(candidates, tentative[i])
			dists = append(dists, tentative[i].Distance)
		}
	}
	inds := make([]int, len(dists))
	floats.ArgsortStable(dists, inds)

	matches := make([]Match, 0, len(candidates))
	claimed := make(map[image.Point]struct{}, len(candidates))
	for _, idx := range inds {
		m := candidates[idx]
		if _, ok := claimed[m.B]; ok {
			continue
		}
		claimed[m.B] = struct{}{}
		matches = append(matches, m)
	}

	logger.Debugw("matched keypoints",
		"first", a.Len(),
		"second", b.Len(),
		"matches", len(matches),
		"duplicates", len(candidates)-len(matches),
		"ambiguous", tally[matchAmbiguous],
		"out_of_band", tally[matchOutOfBand],
		"too_few_candidates", tally[matchTooFewCandidates],
	)
	return matches, nil
}

// matchOne finds the best candidate of b for the i-th keypoint of a.
func matchOne(a, b *KeypointSet, i int, cfg *MatchingConfig) (Match, matchOutcome) {
	if b.Len() < 2 {
		return Match{}, matchTooFewCandidates
	}
	pa := a.Points[i]
	distances := make([]float64, b.Len())
	diff := make([]float64, a.DescriptorLength())
	for j, pb := range b.Points {
		if utils.AbsInt(pb.Y-pa.Y) > cfg.RowBand {
			distances[j] = math.Inf(1)
			continue
		}
		// lengths were checked by the caller
		distances[j], _ = utils.SquaredEuclideanDistance(diff, a.Descriptors[i], b.Descriptors[j])
	}
	best, second := utils.ArgMinTwo(distances)
	bestDist, secondDist := distances[best], distances[second]
	if math.IsInf(bestDist, 1) {
		return Match{}, matchOutOfBand
	}
	if !passesRatioTest(bestDist, secondDist, cfg.Ratio) {
		return Match{}, matchAmbiguous
	}
	return Match{A: pa, B: b.Points[best], Distance: bestDist}, matchAccepted
}

// passesRatioTest reports whether best/second <= ratio. Two identical best candidates (0/0)
// always fail, whatever the ratio; a lone finite candidate (best/+Inf) always passes.
func passesRatioTest(best, second, ratio float64) bool {
	switch {
	case second == 0:
		return false
	case math.IsInf(second, 1):
		return true
	default:
		return best/second <= ratio
	}
}

// GetMatchingKeyPoints splits matches into the matched keypoints of the first and of the second
// set. The i-th points of both slices form the i-th match.
func GetMatchingKeyPoints(matches []Match) (KeyPoints, KeyPoints) {
	matchedKps1 := make(KeyPoints, len(matches))
	matchedKps2 := make(KeyPoints, len(matches))
	for i, match := range matches {
		matchedKps1[i] = match.A
		matchedKps2[i] = match.B
	}
	return matchedKps1, matchedKps2
}
