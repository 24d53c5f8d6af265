package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kass/africa-quiz/pkg/config"
	"github.com/kass/africa-quiz/pkg/geodata"
	"github.com/kass/africa-quiz/pkg/postgis"
	"github.com/kass/africa-quiz/pkg/projection"
	"github.com/kass/africa-quiz/pkg/quiz"
)

var (
	configFile string
	verbose    bool
	samples    int
)

var rootCmd = &cobra.Command{
	Use:   "africa-quiz",
	Short: "Interactive Africa geography quiz with point-in-polygon scoring",
	Long: `An interactive geography quiz: a map of African countries is rendered in
the terminal, the player clicks where a named country is, and the click is
scored against real boundary polygons.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the quiz in an interactive terminal UI",
	RunE:  runPlay,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the boundary dataset and report its statistics",
	RunE:  runValidate,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check the ray caster against PostGIS ST_Contains",
	Long: `Loads the boundary dataset into a PostGIS instance and compares the
in-process hit test with ST_Contains for random canvas points. Useful when
changing the containment code; requires a running PostGIS.`,
	RunE: runVerify,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	verifyCmd.Flags().IntVarP(&samples, "samples", "n", 10000, "Number of random points to compare")

	rootCmd.AddCommand(playCmd, validateCmd, verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger installs the global zap logger. The TUI owns the terminal, so
// logging stays off unless asked for.
func initLogger() error {
	if !verbose {
		zap.ReplaceGlobals(zap.NewNop())
		return nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// newRNG builds the engine's random source. Seed 0 means time-based.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BE9FD"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
)

// styled applies a style only when stdout is a terminal.
func styled(style lipgloss.Style, text string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return text
	}
	return style.Render(text)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	shapes, err := geodata.Load(cfg.Quiz.DataFile)
	if err != nil {
		return err
	}

	box, err := projection.ComputeBoundingBox(shapes)
	if err != nil {
		return err
	}

	fmt.Println(styled(headerStyle, "Dataset: "+cfg.Quiz.DataFile))
	fmt.Printf("Shapes: %d\n", len(shapes))
	fmt.Printf("Bounding box: lon [%.3f, %.3f], lat [%.3f, %.3f]\n",
		box.BottomLeft.Lon, box.TopRight.Lon, box.BottomLeft.Lat, box.TopRight.Lat)
	fmt.Println()

	totalVertices := 0
	for _, shape := range shapes {
		vertices := 0
		for _, ring := range shape.Rings {
			vertices += len(ring)
		}
		totalVertices += vertices
		fmt.Printf("  %-30s %2d ring(s), %5d vertices\n", shape.Name, len(shape.Rings), vertices)
	}

	fmt.Println()
	fmt.Printf("Total vertices: %d\n", totalVertices)
	fmt.Println(styled(okStyle, "Dataset OK"))
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	shapes, err := geodata.Load(cfg.Quiz.DataFile)
	if err != nil {
		return err
	}

	box, err := projection.ComputeBoundingBox(shapes)
	if err != nil {
		return err
	}

	projector, err := projection.New(box, cfg.Quiz.CanvasWidth, cfg.Quiz.CanvasHeight)
	if err != nil {
		return err
	}

	engine, err := quiz.New(shapes, projector, newRNG(cfg.Quiz.Seed))
	if err != nil {
		return err
	}

	checker, err := postgis.NewChecker(
		cfg.PostGIS.Host,
		cfg.PostGIS.User,
		cfg.PostGIS.Password,
		cfg.PostGIS.Database,
		cfg.PostGIS.Port,
	)
	if err != nil {
		return err
	}
	defer checker.Close()

	fmt.Println(styled(headerStyle, "Loading boundaries into PostGIS..."))
	if err := checker.InitSchema(); err != nil {
		return err
	}
	if err := checker.LoadShapes(shapes); err != nil {
		return err
	}

	count, err := checker.Count()
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d countries\n", count)
	fmt.Printf("Comparing %d random canvas points...\n", samples)

	rng := newRNG(cfg.Quiz.Seed)
	mismatches := 0
	start := time.Now()

	for i := 0; i < samples; i++ {
		x := rng.Intn(cfg.Quiz.CanvasWidth)
		y := rng.Intn(cfg.Quiz.CanvasHeight)

		result, err := engine.HandleClick(x, y)
		if err != nil {
			return err
		}

		lon, lat := projector.PixelToGeo(x, y)
		pgName, pgHit, err := checker.ContainsPoint(lon, lat)
		if err != nil {
			return err
		}

		if pgHit == result.Ocean() || result.Country != pgName {
			mismatches++
			if verbose {
				zap.L().Warn("hit-test mismatch",
					zap.Int("x", x), zap.Int("y", y),
					zap.String("raycast", result.Country),
					zap.String("postgis", pgName),
				)
			}
		}
	}

	elapsed := time.Since(start)
	fmt.Printf("Compared %d points in %v\n", samples, elapsed)

	if mismatches == 0 {
		fmt.Println(styled(okStyle, "No mismatches"))
		return nil
	}

	// Points exactly on shared borders may legitimately disagree: the ray
	// caster uses a half-open edge rule, ST_Contains excludes the boundary.
	fmt.Println(styled(warnStyle, fmt.Sprintf("%d mismatches (%.3f%%)", mismatches,
		float64(mismatches)/float64(samples)*100)))
	return nil
}
