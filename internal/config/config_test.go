package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
output = "out.png"
background = [0.5, 0.5, 0.5]

[canvas]
width = 320
height = 240

[pen]
radius = 4
color = [1, 0, 0, 1]

[[step]]
action = "stroke"
tool = "eraser"
points = [[10, 10], [200, 120]]
pressure = 0.5

[[step]]
action = "undo"
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.Canvas != (Size{Width: 320, Height: 240}) {
		t.Errorf("Canvas = %+v, want 320x240", c.Canvas)
	}
	if c.View != Default().View {
		t.Errorf("View = %+v, want default %+v", c.View, Default().View)
	}
	if c.Output != "out.png" {
		t.Errorf("Output = %q, want %q", c.Output, "out.png")
	}
	if c.Pen.Radius != 4 || len(c.Pen.Color) != 4 || c.Pen.Color[0] != 1 {
		t.Errorf("Pen = %+v", c.Pen)
	}
	if c.Eraser.Radius != 10 {
		t.Errorf("Eraser.Radius = %v, want default 10", c.Eraser.Radius)
	}
	if len(c.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(c.Steps))
	}
	s := c.Steps[0]
	if s.Action != ActionStroke || s.Tool != ToolEraser || len(s.Points) != 2 || s.Points[1] != [2]float64{200, 120} || s.Pressure != 0.5 {
		t.Errorf("Steps[0] = %+v", s)
	}
	if c.Steps[1].Action != ActionUndo {
		t.Errorf("Steps[1].Action = %q, want %q", c.Steps[1].Action, ActionUndo)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"zero canvas", "[canvas]\nwidth = 0", true},
		{"short color", "background = [1, 1]", true},
		{"color range", "background = [1, 1, 2]", true},
		{"bad radius", "[pen]\nradius = 0", true},
		{"unknown tool", "[[step]]\naction = \"stroke\"\ntool = \"brush\"\npoints = [[1, 1]]", true},
		{"empty stroke", "[[step]]\naction = \"stroke\"", true},
		{"wheel points", "[[step]]\naction = \"wheel\"\npoints = [[1, 1], [2, 2]]", true},
		{"unknown action", "[[step]]\naction = \"jump\"", true},
		{"unknown key", "colour = 1", false},
		{"syntax", "output = ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err = %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ekaki.toml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Canvas.Width != 320 {
		t.Errorf("Canvas.Width = %d, want 320", c.Canvas.Width)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) succeeded")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	data, err := c.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "[[step]]") {
		t.Errorf("Marshal() output lacks steps:\n%s", data)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()): %v", err)
	}
	if len(back.Steps) != len(c.Steps) || back.Canvas != c.Canvas {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}
