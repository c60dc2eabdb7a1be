// Command ekaki replays a scripted list of strokes on a canvas and writes
// the result as PNG.
//
// Usage:
//
//	ekaki -config strokes.toml -output out.png
//
// Without a config file a short demo script is used.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/ekaki"
	"github.com/gogpu/ekaki/internal/config"
	"github.com/gogpu/ekaki/paint"
	"github.com/gogpu/ekaki/undo"
	"github.com/gogpu/ekaki/view"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		output     = flag.String("output", "", "output file (overrides config)")
		viewOutput = flag.String("view-output", "", "also write the rendered view to this file")
		software   = flag.Bool("software", false, "skip the GPU renderer")
		verbose    = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Parse()

	if *verbose {
		ekaki.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := demoConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *viewOutput != "" {
		cfg.ViewOutput = *viewOutput
	}
	cfg.Software = cfg.Software || *software

	if err := run(cfg); err != nil {
		log.Fatalf("ekaki: %v", err)
	}
	log.Printf("Canvas saved to %s (%dx%d)\n", cfg.Output, cfg.Canvas.Width, cfg.Canvas.Height)
}

func run(cfg *config.Config) error {
	canvas := ekaki.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height)
	bottom := ekaki.NewRGBA8Layer(cfg.Canvas.Width, cfg.Canvas.Height)
	bottom.Fill(color(cfg.Background))
	top := ekaki.NewRGBA8Layer(cfg.Canvas.Width, cfg.Canvas.Height)
	canvas.PushLayer(bottom)
	canvas.PushLayer(top)
	canvas.SetActiveLayer(top)

	pen := paint.NewPen()
	pen.Radius = cfg.Pen.Radius
	pen.Color = color(cfg.Pen.Color)
	eraser := paint.NewEraser()
	eraser.Radius = cfg.Eraser.Radius
	tools := paint.NewToolBox(pen)
	tools.Eraser = eraser

	opts := []view.Option{
		view.WithUndo(undo.NewManager(cfg.Undo.Capacity, cfg.Undo.MaxEntries)),
		view.WithToolProvider(tools),
	}
	if cfg.Software {
		opts = append(opts, view.WithSoftwareOnly())
	}
	v := view.New(image.Pt(cfg.View.Width, cfg.View.Height), canvas, opts...)
	defer v.Close()
	v.Invalidate(true)

	for i, s := range cfg.Steps {
		if err := replay(v, s); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}

	if err := writePNG(cfg.Output, v.Flatten()); err != nil {
		return err
	}
	if cfg.ViewOutput != "" {
		if err := writePNG(cfg.ViewOutput, v.Surface().Image()); err != nil {
			return err
		}
	}
	if cfg.Thumbnail.Path != "" {
		if err := writePNG(cfg.Thumbnail.Path, v.Thumbnail(cfg.Thumbnail.MaxSide)); err != nil {
			return err
		}
	}
	return nil
}

func replay(v *view.CanvasView, s config.Step) error {
	switch s.Action {
	case config.ActionStroke:
		pressure := s.Pressure
		if pressure == 0 {
			pressure = 1
		}
		if _, ok := v.Canvas().ActiveLayer(); !ok && s.Tool != config.ToolMove {
			return ekaki.ErrNoActiveLayer
		}
		p := s.Points[0]
		if !v.PointerDown(desc(s.Tool), p[0], p[1], pressure) {
			return fmt.Errorf("stroke not started at %v", p)
		}
		for _, p := range s.Points[1:] {
			v.PointerMove(p[0], p[1], pressure)
		}
		v.PointerUp()
	case config.ActionUndo:
		if !v.Undo() {
			ekaki.Logger().Warn("ekaki: nothing to undo")
		}
	case config.ActionRedo:
		if !v.Redo() {
			ekaki.Logger().Warn("ekaki: nothing to redo")
		}
	case config.ActionWheel:
		p := s.Points[0]
		v.Wheel(p[0], p[1], s.Delta)
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

func desc(tool string) string {
	switch tool {
	case config.ToolEraser:
		return paint.DescEraser
	case config.ToolMove:
		return paint.DescMiddle
	default:
		return paint.DescPrimary
	}
}

func color(c []float64) ekaki.Color {
	if len(c) == 3 {
		return ekaki.RGB(c[0], c[1], c[2])
	}
	return ekaki.RGBA(c[0], c[1], c[2], c[3])
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// demoConfig draws a few strokes, erases part of one and undoes the last.
func demoConfig() *config.Config {
	cfg := config.Default()
	cx, cy := float64(cfg.View.Width)/2, float64(cfg.View.Height)/2
	cfg.Steps = []config.Step{
		{Action: config.ActionStroke, Tool: config.ToolPen, Points: [][2]float64{
			{cx - 200, cy - 100}, {cx - 100, cy - 120}, {cx, cy - 100}, {cx + 100, cy - 120}, {cx + 200, cy - 100},
		}},
		{Action: config.ActionStroke, Tool: config.ToolPen, Points: [][2]float64{
			{cx - 150, cy + 100}, {cx, cy}, {cx + 150, cy + 100},
		}},
		{Action: config.ActionStroke, Tool: config.ToolEraser, Points: [][2]float64{
			{cx - 20, cy - 130}, {cx + 20, cy - 70},
		}},
		{Action: config.ActionStroke, Tool: config.ToolPen, Points: [][2]float64{
			{cx - 200, cy + 150}, {cx + 200, cy + 150},
		}},
		{Action: config.ActionUndo},
		{Action: config.ActionWheel, Points: [][2]float64{{cx, cy}}, Delta: -1},
	}
	return cfg
}
