package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geochart/internal/config"
	"geochart/internal/graphics"
	"geochart/internal/logging"
	"geochart/internal/tui"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Render flags
	outPath      string
	renderWidth  int
	renderHeight int

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geochart",
	Short: "geochart - choropleth maps and radar charts in the terminal",
	Long: `geochart draws choropleth maps and radar charts described by a YAML
config. Charts can be explored in the terminal, rendered to PNG or dumped
as their serialized config.

Run without arguments to open the viewer.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Set(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runView,
}

// viewCmd opens the terminal viewer
var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Explore the configured chart in the terminal",
	Long: `Opens the interactive viewer. A geo file argument (GeoJSON, WKT, CSV or
KML) replaces the configured geo data and is reloaded whenever it changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

// renderCmd writes a PNG
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the configured chart to a PNG file",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

// dumpCmd prints the serialized chart
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the serialized config of the configured chart as JSON",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "geochart.yaml", "Config file")

	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output PNG file (required)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "Image width (default: chart.width)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "Image height (default: chart.height)")
	renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := viewerModel(cfg, args)
	if err != nil {
		return err
	}
	defer m.Close()

	logging.L().Debug("starting viewer", zap.String("chart", cfg.Chart.Type))
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	return nil
}

// viewerModel picks the viewer for the configured chart. A file argument
// wins over the configured geo data.
func viewerModel(cfg *config.Config, args []string) (tui.Model, error) {
	if cfg.IsRadar() {
		c, err := buildRadar(cfg)
		if err != nil {
			return tui.Model{}, err
		}
		return tui.NewRadar(c), nil
	}
	geoPath := cfg.Map.GeoData
	if len(args) > 0 {
		geoPath = args[0]
	}
	mapCfg := *cfg
	mapCfg.Map.GeoData = ""
	geo, err := buildMap(&mapCfg)
	if err != nil {
		return tui.Model{}, err
	}
	if geoPath == "" {
		return tui.New(geo), nil
	}
	return tui.NewWithPath(geo, geoPath), nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, h := cfg.Chart.Width, cfg.Chart.Height
	if renderWidth > 0 {
		w = renderWidth
	}
	if renderHeight > 0 {
		h = renderHeight
	}
	c, err := buildChart(cfg)
	if err != nil {
		return err
	}
	c.Draw(graphics.Rect{Width: float64(w), Height: float64(h)})

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()
	if err := graphics.RasterizePNG(f, c.Layer(), w, h, cfg.Chart.Background); err != nil {
		return fmt.Errorf("failed to render %s: %w", outPath, err)
	}
	logging.L().Info("rendered chart", zap.String("out", outPath), zap.Int("width", w), zap.Int("height", h))
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := buildChart(cfg)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(c.Serialize(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
