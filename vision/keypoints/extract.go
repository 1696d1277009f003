package keypoints

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/stitching/logging"
	"go.viam.com/stitching/utils"
)

// ExtractKeypoints selects the pixels whose response is greater than cfg.Threshold times the
// maximum of the response map and describes each one by the flattened Kernel x Kernel window
// of the response around it. The threshold is relative, so scaling the response map by a
// positive constant keeps the same keypoints. Pixels in the top and bottom cfg.BorderRows rows,
// or too close to an edge for a full window, are skipped. Keypoints are returned in row-major
// order. img only provides the expected dimensions. A nil config uses DefaultExtractionConfig and
// a nil logger uses the global one.
func ExtractKeypoints(
	img, response *mat.Dense,
	cfg *ExtractionConfig,
	logger logging.Logger,
) (*KeypointSet, error) {
	if cfg == nil {
		cfg = DefaultExtractionConfig()
	}
	if logger == nil {
		logger = logging.Global()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h, w := img.Dims()
	rh, rw := response.Dims()
	if h != rh || w != rw {
		return nil, errors.Wrapf(ErrShapeMismatch, "image is %dx%d but response map is %dx%d", h, w, rh, rw)
	}
	if h == 0 || w == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "cannot extract keypoints from an empty image")
	}

	maxResponse := mat.Max(response)
	cutoff := cfg.Threshold * maxResponse
	halfK := cfg.Kernel / 2
	rowStart := max(halfK, cfg.BorderRows)
	rowEnd := min(h-halfK, h-cfg.BorderRows)
	colStart, colEnd := halfK, w-halfK

	set := &KeypointSet{
		Points:      KeyPoints{},
		Descriptors: []Descriptor{},
		Kernel:      cfg.Kernel,
	}
	if rowStart >= rowEnd || colStart >= colEnd {
		logger.Debugw("image too small for keypoints", "rows", h, "cols", w, "kernel", cfg.Kernel, "border_rows", cfg.BorderRows)
		return set, nil
	}

	// rows are scanned in parallel and concatenated in order afterwards
	rowPoints := make([]KeyPoints, rowEnd-rowStart)
	rowDescriptors := make([][]Descriptor, rowEnd-rowStart)
	utils.ParallelForEach(rowEnd-rowStart, func(i int) {
		y := rowStart + i
		for x := colStart; x < colEnd; x++ {
			if !(response.At(y, x) > cutoff) {
				continue
			}
			rowPoints[i] = append(rowPoints[i], image.Point{X: x, Y: y})
			rowDescriptors[i] = append(rowDescriptors[i], responseWindow(response, x, y, halfK))
		}
	})
	total := 0
	for _, pts := range rowPoints {
		total += len(pts)
	}
	set.Points = make(KeyPoints, 0, total)
	set.Descriptors = make([]Descriptor, 0, total)
	for i := range rowPoints {
		set.Points = append(set.Points, rowPoints[i]...)
		set.Descriptors = append(set.Descriptors, rowDescriptors[i]...)
	}

	if maxResponse <= 0 {
		logger.Debugw("response map has no positive value, no keypoint can pass the threshold", "max", maxResponse)
	}
	logger.Debugw("extracted keypoints", "count", set.Len(), "cutoff", cutoff, "max", maxResponse)
	return set, nil
}

// responseWindow returns the (2*halfK+1)^2 values of response centered on (x, y), row by row.
func responseWindow(response *mat.Dense, x, y, halfK int) Descriptor {
	side := 2*halfK + 1
	desc := make(Descriptor, 0, side*side)
	for wy := y - halfK; wy <= y+halfK; wy++ {
		for wx := x - halfK; wx <= x+halfK; wx++ {
			desc = append(desc, response.At(wy, wx))
		}
	}
	return desc
}

// DetectKeypoints computes the corner response of img and extracts its keypoints. A nil config
// uses DefaultConfig.
func DetectKeypoints(img *mat.Dense, cfg *Config, logger logging.Logger) (*KeypointSet, *mat.Dense, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	response, err := ComputeCornerResponse(img, cfg.Harris)
	if err != nil {
		return nil, nil, err
	}
	set, err := ExtractKeypoints(img, response, cfg.Extraction, logger)
	if err != nil {
		return nil, nil, err
	}
	return set, response, nil
}
