// Package cli contains the harris command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	generalFlagConfig = "config"
	generalFlagDebug  = "debug"
	generalFlagJSON   = "json"

	harrisFlagK         = "k"
	harrisFlagBlockSize = "block-size"
	harrisFlagBorder    = "border"

	extractFlagThreshold  = "threshold"
	extractFlagKernel     = "kernel"
	extractFlagBorderRows = "border-rows"

	matchFlagRowBand = "row-band"
	matchFlagRatio   = "ratio"

	configFlagSchema = "schema"
)

// detectionFlags only override the configuration when set.
func detectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  harrisFlagK,
			Usage: "sensitivity of the corner response, conventionally 0.04 to 0.06",
		},
		&cli.IntFlag{
			Name:  harrisFlagBlockSize,
			Usage: "side of the window the gradient products are summed over",
		},
		&cli.StringFlag{
			Name:  harrisFlagBorder,
			Usage: "how filters fill in pixels outside of the image: constant, replicate, reflect or reflect101",
		},
		&cli.Float64Flag{
			Name:  extractFlagThreshold,
			Usage: "fraction of the maximum response a keypoint must exceed",
		},
		&cli.IntFlag{
			Name:  extractFlagKernel,
			Usage: "side of the descriptor window, must be odd",
		},
		&cli.IntFlag{
			Name:  extractFlagBorderRows,
			Usage: "number of rows at the top and bottom of the image without keypoints",
		},
	}
}

func matchingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  matchFlagRowBand,
			Usage: "maximum row difference between matched keypoints",
		},
		&cli.Float64Flag{
			Name:  matchFlagRatio,
			Usage: "maximum best to second best distance ratio of a match",
		},
	}
}

// NewApp returns the harris CLI writing its results to out and its errors to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "harris",
		Usage:           "detect and match harris corners between images",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  generalFlagJSON,
				Usage: "print results as json instead of a table",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "detect",
				Usage:     "detect the corners of an image",
				ArgsUsage: "<image>",
				Flags:     detectionFlags(),
				Action:    DetectAction,
			},
			{
				Name:      "match",
				Usage:     "match the corners of two images",
				ArgsUsage: "<first image> <second image>",
				Flags:     append(detectionFlags(), matchingFlags()...),
				Action:    MatchAction,
			},
			{
				Name:  "config",
				Usage: "print the configuration after applying the config file and flags",
				Flags: append(append(detectionFlags(), matchingFlags()...), &cli.BoolFlag{
					Name:  configFlagSchema,
					Usage: "print the json schema of the config file instead",
				}),
				Action: ConfigAction,
			},
		},
	}
}
