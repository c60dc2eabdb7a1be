// Package config loads the TOML configuration of the ekaki command.
//
// Example file:
//
//	output = "out.png"
//
//	[canvas]
//	width = 320
//	height = 240
//
//	[pen]
//	radius = 4
//	color = [1, 0, 0, 1]
//
//	[[step]]
//	action = "stroke"
//	tool = "pen"
//	points = [[10, 10], [200, 120]]
//
//	[[step]]
//	action = "undo"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Step actions.
const (
	ActionStroke = "stroke"
	ActionUndo   = "undo"
	ActionRedo   = "redo"
	ActionWheel  = "wheel"
)

// Tool names accepted by a stroke step.
const (
	ToolPen    = "pen"
	ToolEraser = "eraser"
	ToolMove   = "move"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Size is a width and height in pixels.
type Size struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Undo configures the undo log.
type Undo struct {
	// Capacity is the arena size in bytes.
	Capacity   int `toml:"capacity"`
	MaxEntries int `toml:"max_entries"`
}

// Brush configures a painting tool. Color is RGBA in [0, 1]; alpha may be
// omitted.
type Brush struct {
	Radius float64   `toml:"radius"`
	Color  []float64 `toml:"color,omitempty"`
}

// Thumbnail configures the optional scaled-down export.
type Thumbnail struct {
	Path    string `toml:"path"`
	MaxSide int    `toml:"max_side"`
}

// Step is one scripted input event, in view pixels.
type Step struct {
	Action   string       `toml:"action"`
	Tool     string       `toml:"tool,omitempty"`
	Points   [][2]float64 `toml:"points,omitempty"`
	Pressure float64      `toml:"pressure,omitempty"`
	// Delta is the wheel direction: negative zooms in.
	Delta float64 `toml:"delta,omitempty"`
}

// Config is the command configuration.
type Config struct {
	Canvas     Size      `toml:"canvas"`
	View       Size      `toml:"view"`
	Background []float64 `toml:"background"`
	Software   bool      `toml:"software"`
	Undo       Undo      `toml:"undo"`
	Pen        Brush     `toml:"pen"`
	Eraser     Brush     `toml:"eraser"`
	Output     string    `toml:"output"`
	ViewOutput string    `toml:"view_output,omitempty"`
	Thumbnail  Thumbnail `toml:"thumbnail"`
	Steps      []Step    `toml:"step"`
}

// Default returns the configuration used for missing fields.
func Default() *Config {
	return &Config{
		Canvas:     Size{Width: 640, Height: 480},
		View:       Size{Width: 800, Height: 600},
		Background: []float64{1, 1, 1, 1},
		Undo:       Undo{Capacity: 64 << 20, MaxEntries: 100},
		Pen:        Brush{Radius: 3, Color: []float64{0, 0, 0, 1}},
		Eraser:     Brush{Radius: 10},
		Output:     "ekaki.png",
		Thumbnail:  Thumbnail{MaxSide: 128},
	}
}

// Parse decodes data over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return data, nil
}

// Validate checks sizes, colors and steps.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("%w: view size %dx%d", ErrInvalid, c.View.Width, c.View.Height)
	}
	if err := validColor("background", c.Background); err != nil {
		return err
	}
	if err := validColor("pen.color", c.Pen.Color); err != nil {
		return err
	}
	if c.Pen.Radius <= 0 || c.Eraser.Radius <= 0 {
		return fmt.Errorf("%w: brush radius must be positive", ErrInvalid)
	}
	if c.Undo.Capacity < 0 || c.Undo.MaxEntries < 0 {
		return fmt.Errorf("%w: negative undo limits", ErrInvalid)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalid)
	}

	for i, s := range c.Steps {
		switch s.Action {
		case ActionStroke:
			switch s.Tool {
			case "", ToolPen, ToolEraser, ToolMove:
			default:
				return fmt.Errorf("%w: step %d: unknown tool %q", ErrInvalid, i, s.Tool)
			}
			if len(s.Points) == 0 {
				return fmt.Errorf("%w: step %d: stroke without points", ErrInvalid, i)
			}
		case ActionWheel:
			if len(s.Points) != 1 {
				return fmt.Errorf("%w: step %d: wheel needs exactly one point", ErrInvalid, i)
			}
		case ActionUndo, ActionRedo:
		default:
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalid, i, s.Action)
		}
	}
	return nil
}

func validColor(name string, c []float64) error {
	if len(c) != 3 && len(c) != 4 {
		return fmt.Errorf("%w: %s needs 3 or 4 components, got %d", ErrInvalid, name, len(c))
	}
	for _, v := range c {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s component %v outside [0, 1]", ErrInvalid, name, v)
		}
	}
	return nil
}
