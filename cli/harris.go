package cli

import (
	"encoding/json"
	"fmt"
	"image"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/stitching/logging"
	"go.viam.com/stitching/rimage"
	"go.viam.com/stitching/vision/keypoints"
)

func setupLogger(c *cli.Context) error {
	if c.Bool(generalFlagDebug) {
		logging.ReplaceGlobal(logging.NewDebugLogger("harris"))
	} else {
		logging.ReplaceGlobal(logging.NewLogger("harris"))
	}
	return nil
}

// configFromFlags starts from the configuration file, or the defaults, and applies every flag
// that was set on the command line.
func configFromFlags(c *cli.Context) (*keypoints.Config, error) {
	cfg := keypoints.DefaultConfig()
	if path := c.String(generalFlagConfig); path != "" {
		var err error
		cfg, err = keypoints.LoadConfiguration(path)
		if err != nil {
			return nil, err
		}
		logging.Global().Infow("loaded configuration", "file", path)
	}
	if c.IsSet(harrisFlagK) {
		cfg.Harris.K = c.Float64(harrisFlagK)
	}
	if c.IsSet(harrisFlagBlockSize) {
		cfg.Harris.BlockSize = c.Int(harrisFlagBlockSize)
	}
	if c.IsSet(harrisFlagBorder) {
		cfg.Harris.Border = c.String(harrisFlagBorder)
	}
	if c.IsSet(extractFlagThreshold) {
		cfg.Extraction.Threshold = c.Float64(extractFlagThreshold)
	}
	if c.IsSet(extractFlagKernel) {
		cfg.Extraction.Kernel = c.Int(extractFlagKernel)
	}
	if c.IsSet(extractFlagBorderRows) {
		cfg.Extraction.BorderRows = c.Int(extractFlagBorderRows)
	}
	if c.IsSet(matchFlagRowBand) {
		cfg.Matching.RowBand = c.Int(matchFlagRowBand)
	}
	if c.IsSet(matchFlagRatio) {
		cfg.Matching.Ratio = c.Float64(matchFlagRatio)
	}
	if err := cfg.Validate("command line"); err != nil {
		return nil, err
	}
	return cfg, nil
}

type keypointOutput struct {
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Response float64 `json:"response"`
}

type responseSummary struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	P99  float64 `json:"p99"`
}

type detectOutput struct {
	Image     string           `json:"image"`
	Rows      int              `json:"rows"`
	Cols      int              `json:"cols"`
	Response  responseSummary  `json:"response"`
	Keypoints []keypointOutput `json:"keypoints"`
}

type matchOutput struct {
	First    image.Point `json:"first"`
	Second   image.Point `json:"second"`
	Distance float64     `json:"distance"`
}

type matchResult struct {
	FirstImage      string        `json:"first_image"`
	SecondImage     string        `json:"second_image"`
	FirstKeypoints  int           `json:"first_keypoints"`
	SecondKeypoints int           `json:"second_keypoints"`
	Matches         []matchOutput `json:"matches"`
}

// detect reads an image and returns its keypoints with the response map they come from.
func detect(path string, cfg *keypoints.Config) (*keypoints.KeypointSet, *mat.Dense, error) {
	img, err := rimage.ReadGrayscaleFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	set, response, err := keypoints.DetectKeypoints(img, cfg, logging.Global())
	if err != nil {
		return nil, nil, errors.Wrapf(err, "cannot detect keypoints of %q", path)
	}
	return set, response, nil
}

func summarizeResponse(response *mat.Dense) (responseSummary, error) {
	r, c := response.Dims()
	data := make([]float64, 0, r*c)
	for y := 0; y < r; y++ {
		data = append(data, response.RawRowView(y)...)
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return responseSummary{}, err
	}
	maxVal, err := stats.Max(data)
	if err != nil {
		return responseSummary{}, err
	}
	p99, err := stats.Percentile(data, 99)
	if err != nil {
		return responseSummary{}, err
	}
	return responseSummary{Mean: mean, Max: maxVal, P99: p99}, nil
}

// DetectAction prints the keypoints of one image.
func DetectAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("detect expects exactly one image")
	}
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}
	path := c.Args().First()
	set, response, err := detect(path, cfg)
	if err != nil {
		return err
	}
	summary, err := summarizeResponse(response)
	if err != nil {
		return err
	}
	rows, cols := response.Dims()
	center := set.DescriptorLength() / 2
	out := detectOutput{
		Image:    path,
		Rows:     rows,
		Cols:     cols,
		Response: summary,
		Keypoints: lo.Map(set.Points, func(p image.Point, i int) keypointOutput {
			return keypointOutput{X: p.X, Y: p.Y, Response: set.Descriptors[i][center]}
		}),
	}

	if c.Bool(generalFlagJSON) {
		return printJSON(c.App.Writer, out)
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetTitle(fmt.Sprintf("%s (%dx%d)", path, cols, rows))
	t.AppendHeader(table.Row{"#", "X", "Y", "Response"})
	for i, kp := range out.Keypoints {
		t.AppendRow(table.Row{i, kp.X, kp.Y, kp.Response})
	}
	t.AppendFooter(table.Row{"", "", "keypoints", len(out.Keypoints)})
	t.Render()
	fmt.Fprintf(c.App.Writer, "response mean %g, max %g, p99 %g\n", summary.Mean, summary.Max, summary.P99)
	return nil
}

// MatchAction prints the matches between the keypoints of two images.
func MatchAction(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("match expects exactly two images")
	}
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}
	firstPath, secondPath := c.Args().Get(0), c.Args().Get(1)
	var first, second *keypoints.KeypointSet
	var detections errgroup.Group
	detections.Go(func() error {
		var err error
		first, _, err = detect(firstPath, cfg)
		return err
	})
	detections.Go(func() error {
		var err error
		second, _, err = detect(secondPath, cfg)
		return err
	})
	if err := detections.Wait(); err != nil {
		return err
	}
	matches, err := keypoints.MatchKeypoints(first, second, cfg.Matching, logging.Global())
	if err != nil {
		return err
	}
	out := matchResult{
		FirstImage:      firstPath,
		SecondImage:     secondPath,
		FirstKeypoints:  first.Len(),
		SecondKeypoints: second.Len(),
		Matches: lo.Map(matches, func(m keypoints.Match, _ int) matchOutput {
			return matchOutput{First: m.A, Second: m.B, Distance: m.Distance}
		}),
	}

	if c.Bool(generalFlagJSON) {
		return printJSON(c.App.Writer, out)
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.SetTitle(fmt.Sprintf("%s -> %s", firstPath, secondPath))
	t.AppendHeader(table.Row{"#", "First", "Second", "Distance"})
	for i, m := range out.Matches {
		t.AppendRow(table.Row{i, m.First.String(), m.Second.String(), m.Distance})
	}
	t.AppendFooter(table.Row{"", "", "matches", len(out.Matches)})
	t.Render()
	fmt.Fprintf(c.App.Writer, "matched %d of %d keypoints (%d in the second image)\n",
		len(out.Matches), out.FirstKeypoints, out.SecondKeypoints)
	return nil
}

// ConfigAction prints the configuration the other commands would run with, or its json schema.
func ConfigAction(c *cli.Context) error {
	if c.Bool(configFlagSchema) {
		return printJSON(c.App.Writer, jsonschema.Reflect(&keypoints.Config{}))
	}
	cfg, err := configFromFlags(c)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, cfg)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
