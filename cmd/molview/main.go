package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/molview/internal/config"
	"github.com/san-kum/molview/internal/density"
	"github.com/san-kum/molview/internal/export"
	"github.com/san-kum/molview/internal/logging"
	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/parse"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/viewer"
	"github.com/san-kum/molview/internal/viz"
)

var (
	// Config selection
	preset     string
	configFile string
	debug      bool
	logFile    string
	// Overrides
	positive   float64
	negative   float64
	offsetStep float64
	theme      string
	labels     bool
	frameRate  int
	// Output
	output     string
	width      int
	height     int
	withValues bool
	// Density sweep
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	histPath   string
	histBins   int
)

var errNothingLoaded = errors.New("no molecules could be loaded")

func main() {
	rootCmd := &cobra.Command{
		Use:          "molview",
		Short:        "molecule viewer for MOL, SDF, XYZ and CUBE files",
		SilenceUsage: true,
		RunE:         runView,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&preset, "preset", "default", "configuration preset")
	pf.StringVar(&configFile, "config", "", "YAML config file (overrides the preset)")
	pf.BoolVar(&debug, "debug", false, "debug logging")
	pf.Float64Var(&positive, "positive", density.DefaultThreshold, "positive density threshold")
	pf.Float64Var(&negative, "negative", density.DefaultThreshold, "negative density threshold (magnitude)")
	pf.Float64Var(&offsetStep, "offset", parse.DefaultOffsetStep, "x spacing between files")

	viewCmd := &cobra.Command{
		Use:   "view [files...]",
		Short: "interactive terminal viewer (demo molecules without files)",
		RunE:  runView,
	}
	for _, c := range []*cobra.Command{rootCmd, viewCmd} {
		c.Flags().StringVar(&theme, "theme", "", "colour theme")
		c.Flags().BoolVar(&labels, "labels", false, "show labels on loaded molecules")
		c.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frames per second")
		c.Flags().StringVar(&logFile, "log", "", "write logs to this file")
	}

	infoCmd := &cobra.Command{
		Use:   "info [files...]",
		Short: "summarise molecules and density grids",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInfo,
	}

	densityCmd := &cobra.Command{
		Use:   "density [file]",
		Short: "plot cloud size against threshold for a CUBE file",
		Args:  cobra.ExactArgs(1),
		RunE:  runDensity,
	}
	densityCmd.Flags().Float64Var(&sweepFrom, "from", 1e-4, "smallest threshold")
	densityCmd.Flags().Float64Var(&sweepTo, "to", 1, "largest threshold")
	densityCmd.Flags().IntVar(&sweepSteps, "steps", 40, "thresholds in the sweep")
	densityCmd.Flags().StringVar(&histPath, "hist", "", "write a value histogram image (png, svg or pdf)")
	densityCmd.Flags().IntVar(&histBins, "bins", 50, "histogram bins")

	renderCmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "render a snapshot to PNG or SVG",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&output, "output", "o", "molecule.png", "output file (.png or .svg)")
	renderCmd.Flags().IntVar(&width, "width", 800, "image width")
	renderCmd.Flags().IntVar(&height, "height", 600, "image height")
	renderCmd.Flags().BoolVar(&labels, "labels", false, "draw labels")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [files...]",
		Short: "export parsed molecules to JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runExportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportJSONCmd.Flags().BoolVar(&withValues, "values", false, "include grid values")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}

	rootCmd.AddCommand(viewCmd, infoCmd, densityCmd, renderCmd, exportJSONCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig applies preset, then config file, then changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("positive") {
		cfg.Density.Positive = positive
	}
	if flags.Changed("negative") {
		cfg.Density.Negative = negative
	}
	if flags.Changed("offset") {
		cfg.Layout.OffsetStep = offsetStep
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.View.Theme = theme
	}
	if flags.Lookup("labels") != nil && flags.Changed("labels") {
		cfg.View.Labels = labels
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	if debug {
		cfg.View.Debug = true
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// load parses paths and reports failed files on stderr. It fails only
// when nothing at all could be read.
func load(ctx context.Context, cfg *config.Config, paths []string) (parse.Batch, error) {
	b := parse.LoadFiles(ctx, paths, parse.LoadOptions{OffsetStep: cfg.Layout.OffsetStep})
	for _, err := range b.Errors() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if len(b.Molecules()) == 0 {
		return b, errNothingLoaded
	}
	return b, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to a file or nowhere
	log := logging.Nop()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = logging.NewWithWriters("molview", cfg.View.Debug, f, f)
	}

	v, err := viewer.New(viewer.Options{Config: cfg, Logger: log})
	if err != nil {
		return err
	}
	if len(args) == 0 {
		v.AddMolecules(molecule.Demo()...)
	}
	return viz.Run(viz.Options{
		Viewer: v,
		Paths:  args,
		Theme:  cfg.View.Theme,
		FPS:    cfg.View.FPS,
		Logger: log,
	})
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	b, err := load(ctx, cfg, args)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tMOLECULE\tATOMS\tBONDS\tELEMENTS\tCENTROID")
	for _, f := range b.Files {
		for _, m := range f.Molecules {
			c := m.Centroid()
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.3f %.3f %.3f\n",
				filepath.Base(f.Path), m.Name, len(m.Atoms), len(m.Bonds),
				strings.Join(m.Elements(), " "), c[0], c[1], c[2])
		}
	}
	w.Flush()

	for _, f := range b.Files {
		if f.Grid == nil {
			continue
		}
		g := f.Grid
		s := density.Stats(g)
		pos, neg := density.Count(g, cfg.Thresholds())
		fmt.Printf("\n%s grid %dx%dx%d, voxel %.4g %.4g %.4g\n", filepath.Base(f.Path), g.Nx, g.Ny, g.Nz, g.VoxelSize[0], g.VoxelSize[1], g.VoxelSize[2])
		fmt.Printf("  min %.4g  max %.4g  mean %.4g\n", s.Min, s.Max, s.Mean)
		fmt.Printf("  above noise: %d positive, %d negative\n", s.Positive, s.Negative)
		fmt.Printf("  cloud at +%g/-%g: %d positive, %d negative\n", cfg.Density.Positive, cfg.Density.Negative, pos, neg)
	}
	return nil
}

func runDensity(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	b, err := load(ctx, cfg, args)
	if err != nil {
		return err
	}
	var g *molecule.Grid
	for _, f := range b.Files {
		if f.Grid != nil {
			g = f.Grid
		}
	}
	if g == nil {
		return fmt.Errorf("%s has no density grid", args[0])
	}

	sweep := density.Sweep(g, density.LogThresholds(sweepFrom, sweepTo, sweepSteps))
	pos := make([]float64, len(sweep))
	neg := make([]float64, len(sweep))
	for i, p := range sweep {
		pos[i], neg[i] = float64(p.Positive), float64(p.Negative)
	}
	graph := asciigraph.PlotMany([][]float64{pos, neg},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption(fmt.Sprintf("cloud points vs threshold %g..%g (red +, blue -)", sweepFrom, sweepTo)),
	)
	fmt.Println(graph)
	fmt.Println()

	if histPath != "" {
		if err := density.WriteHistogram(g, histBins, histPath); err != nil {
			return err
		}
		fmt.Printf("histogram written to %s\n", histPath)
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("bad image size %dx%d", width, height)
	}
	ext := strings.ToLower(filepath.Ext(output))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unsupported output %q: want .png or .svg", output)
	}
	bg, err := scene.ParseColor(cfg.View.Background)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	b, err := load(ctx, cfg, args)
	if err != nil {
		return err
	}

	log := logging.New("molview", cfg.View.Debug)
	v, err := viewer.New(viewer.Options{Config: cfg, Width: float64(width), Height: float64(height), Logger: log})
	if err != nil {
		return err
	}
	defer v.Close()
	v.SurfaceReady()
	v.Accept(b)

	snap := export.Capture(v.Frame(time.Now()), v.Camera, width, height, bg)
	if ext == ".svg" {
		err = export.SaveSVG(output, snap)
	} else {
		err = export.SavePNG(output, snap)
	}
	if err != nil {
		return err
	}
	log.Infof("wrote %s (%d shapes, %d density points)", output, len(snap.Shapes), len(snap.Dots))
	return nil
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	b, err := load(ctx, cfg, args)
	if err != nil {
		return err
	}
	var g *molecule.Grid
	for _, f := range b.Files {
		if f.Grid != nil {
			g = f.Grid
		}
	}
	doc := export.NewDocument(b.Molecules(), g, withValues, b.Errors())
	if output == "" {
		return export.WriteJSON(os.Stdout, doc)
	}
	return export.ExportJSON(output, doc)
}
