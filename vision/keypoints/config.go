package keypoints

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/stitching/rimage"
)

const (
	// DefaultHarrisK is the sensitivity constant of the Harris response.
	DefaultHarrisK = 0.04
	// DefaultBorder is the border policy of every filter of the corner response.
	DefaultBorder = "reflect101"
	// DefaultBlockSize is the side of the window the gradient products are summed over.
	DefaultBlockSize = 2
	// DefaultThreshold is the fraction of the maximum response a keypoint must exceed.
	DefaultThreshold = 0.01
	// DefaultKernel is the side of the descriptor window.
	DefaultKernel = 3
	// DefaultBorderRows is the number of rows at the top and at the bottom of an image that never
	// produce keypoints. Tuned by hand; it does not depend on the kernel or block sizes.
	DefaultBorderRows = 10
	// DefaultRowBand is the maximum row difference between two matched keypoints.
	DefaultRowBand = 10
	// DefaultRatio is the maximum best/second-best distance ratio of an accepted match.
	DefaultRatio = 0.5

	// k is conventionally 0.04-0.06; past 0.25 the response of a perfect corner turns negative.
	maxHarrisK = 0.25
)

// HarrisConfig contains the parameters of the corner response. Border names how the filters
// fill in pixels outside of the image: constant (zeros), replicate, reflect or reflect101. An
// empty Border means DefaultBorder.
type HarrisConfig struct {
	K         float64 `json:"k"`
	BlockSize int     `json:"block_size"`
	Border    string  `json:"border,omitempty"`
}

// DefaultHarrisConfig returns k = 0.04, a 2x2 summation window and reflect101 borders.
func DefaultHarrisConfig() *HarrisConfig {
	return &HarrisConfig{K: DefaultHarrisK, BlockSize: DefaultBlockSize, Border: DefaultBorder}
}

// BorderPad returns the border policy named by Border.
func (config *HarrisConfig) BorderPad() (rimage.BorderPad, error) {
	if config.Border == "" {
		return rimage.ParseBorderPad(DefaultBorder)
	}
	return rimage.ParseBorderPad(config.Border)
}

// Validate ensures all parts of the HarrisConfig are valid.
func (config *HarrisConfig) Validate() error {
	var err error
	if config.BlockSize < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "block_size should be >= 1, got %d", config.BlockSize))
	}
	if !(config.K > 0 && config.K < maxHarrisK) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "k should be in (0, %v), got %v", maxHarrisK, config.K))
	}
	if _, borderErr := config.BorderPad(); borderErr != nil {
		err = multierr.Append(err, errors.Wrap(ErrInvalidConfig, borderErr.Error()))
	}
	return err
}

// ExtractionConfig contains the parameters used to pick keypoints out of a response map.
type ExtractionConfig struct {
	Threshold  float64 `json:"threshold"`
	Kernel     int     `json:"kernel"`
	BorderRows int     `json:"border_rows"`
}

// DefaultExtractionConfig returns a 1% relative threshold, 3x3 descriptors and a 10 row border.
func DefaultExtractionConfig() *ExtractionConfig {
	return &ExtractionConfig{Threshold: DefaultThreshold, Kernel: DefaultKernel, BorderRows: DefaultBorderRows}
}

// Validate ensures all parts of the ExtractionConfig are valid.
func (config *ExtractionConfig) Validate() error {
	var err error
	if !(config.Threshold > 0 && config.Threshold <= 1) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "threshold should be in (0, 1], got %v", config.Threshold))
	}
	if config.Kernel < 1 || config.Kernel%2 == 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "kernel should be odd and >= 1, got %d", config.Kernel))
	}
	if config.BorderRows < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "border_rows should be >= 0, got %d", config.BorderRows))
	}
	return err
}

// MatchingConfig contains the parameters for matching descriptors.
type MatchingConfig struct {
	RowBand int     `json:"row_band"`
	Ratio   float64 `json:"ratio"`
}

// DefaultMatchingConfig returns a 10 row band and a 0.5 ratio test.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{RowBand: DefaultRowBand, Ratio: DefaultRatio}
}

// Validate ensures all parts of the MatchingConfig are valid.
func (config *MatchingConfig) Validate() error {
	var err error
	if config.RowBand < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "row_band should be >= 0, got %d", config.RowBand))
	}
	if !(config.Ratio > 0 && config.Ratio <= 1) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidConfig, "ratio should be in (0, 1], got %v", config.Ratio))
	}
	return err
}

// Config contains the parameters of every stage, from the response map to the matches.
type Config struct {
	Harris     *HarrisConfig     `json:"harris"`
	Extraction *ExtractionConfig `json:"extraction"`
	Matching   *MatchingConfig   `json:"matching"`
}

// DefaultConfig returns the default parameters of every stage.
func DefaultConfig() *Config {
	return &Config{
		Harris:     DefaultHarrisConfig(),
		Extraction: DefaultExtractionConfig(),
		Matching:   DefaultMatchingConfig(),
	}
}

// LoadConfiguration loads a Config from a json file. Fields missing from the file keep their
// default value.
func LoadConfiguration(file string) (*Config, error) {
	config := DefaultConfig()
	filePath := filepath.Clean(file)
	configFile, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(configFile.Close)
	jsonParser := json.NewDecoder(configFile)
	jsonParser.DisallowUnknownFields()
	if err := jsonParser.Decode(config); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %q", file)
	}
	if err := config.Validate(file); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate ensures all parts of the Config are valid.
func (config *Config) Validate(path string) error {
	if config.Harris == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "harris")
	}
	if config.Extraction == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "extraction")
	}
	if config.Matching == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "matching")
	}
	err := multierr.Combine(
		config.Harris.Validate(),
		config.Extraction.Validate(),
		config.Matching.Validate(),
	)
	if err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}
