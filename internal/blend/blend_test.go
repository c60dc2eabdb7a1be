package blend

import "testing"

type px [4]byte

func apply(mode Mode, base, top px) px {
	r, g, b, a := GetFunc(mode)(base[0], base[1], base[2], base[3], top[0], top[1], top[2], top[3])
	return px{r, g, b, a}
}

func TestModes(t *testing.T) {
	white := px{255, 255, 255, 255}
	red := px{255, 0, 0, 255}
	clear := px{}

	tests := []struct {
		name      string
		mode      Mode
		base, top px
		want      px
	}{
		{"alpha opaque top", AlphaBlend, white, red, red},
		{"alpha transparent top", AlphaBlend, white, px{255, 0, 0, 0}, white},
		{"alpha transparent base", AlphaBlend, px{10, 20, 30, 0}, px{1, 2, 3, 4}, px{1, 2, 3, 4}},
		{"erase full", Erase, white, px{0, 0, 0, 255}, clear},
		{"erase equal", Erase, px{9, 9, 9, 100}, px{0, 0, 0, 100}, clear},
		{"erase partial", Erase, px{9, 8, 7, 200}, px{0, 0, 0, 50}, px{9, 8, 7, 150}},
		{"erase nothing", Erase, px{9, 8, 7, 200}, px{1, 1, 1, 0}, px{9, 8, 7, 200}},
		{"mask on ink", Mask, white, red, red},
		{"mask off ink", Mask, px{255, 255, 255, 0}, red, clear},
		{"direct base", DirectBase, white, red, white},
		{"direct top", DirectTop, white, red, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apply(tt.mode, tt.base, tt.top); got != tt.want {
				t.Errorf("%v(%v, %v) = %v, want %v", tt.mode, tt.base, tt.top, got, tt.want)
			}
		})
	}
}

func TestAlphaBlendHalf(t *testing.T) {
	got := apply(AlphaBlend, px{0, 0, 255, 255}, px{255, 0, 0, 128})
	// Result is opaque and roughly half red, half blue.
	if got[3] < 254 {
		t.Errorf("alpha = %d, want >= 254", got[3])
	}
	if got[0] < 126 || got[0] > 129 {
		t.Errorf("red = %d, want ~128", got[0])
	}
	if got[2] < 125 || got[2] > 128 {
		t.Errorf("blue = %d, want ~127", got[2])
	}
}

func TestAlphaBlendKeepsOpaqueBase(t *testing.T) {
	for ta := 1; ta <= 255; ta++ {
		for _, base := range []px{{255, 255, 255, 255}, {0, 0, 0, 255}, {12, 200, 99, 255}} {
			got := apply(AlphaBlend, base, px{40, 80, 160, byte(ta)})
			if got[3] != 255 {
				t.Fatalf("AlphaBlend(%v, ta=%d) alpha = %d, want 255", base, ta, got[3])
			}
		}
	}
}

func TestAlphaBlendRounds(t *testing.T) {
	// White under black at alpha 43: 255 * 212 / 255 = 212 exactly, and
	// alpha must not drop below the base.
	got := apply(AlphaBlend, px{255, 255, 255, 255}, px{0, 0, 0, 43})
	if got != (px{212, 212, 212, 255}) {
		t.Errorf("AlphaBlend = %v, want [212 212 212 255]", got)
	}

	// Two nearly transparent pixels give alpha 1.996, not 1.
	got = apply(AlphaBlend, px{0, 0, 0, 1}, px{255, 0, 0, 1})
	if got[3] != 2 {
		t.Errorf("alpha = %d, want 2", got[3])
	}
}

func TestRow(t *testing.T) {
	base := []byte{255, 255, 255, 255, 0, 0, 0, 0, 1, 2, 3, 4}
	top := []byte{255, 0, 0, 255, 0, 255, 0, 255, 0, 0, 0, 0}
	dst := make([]byte, len(base))

	Row(AlphaBlend, dst, base, top)
	want := []byte{255, 0, 0, 255, 0, 255, 0, 255, 1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("Row(AlphaBlend) = %v, want %v", dst, want)
		}
	}

	Row(DirectTop, dst, base, top)
	for i := range top {
		if dst[i] != top[i] {
			t.Fatalf("Row(DirectTop) = %v, want %v", dst, top)
		}
	}
}

func TestRowInPlace(t *testing.T) {
	dst := []byte{10, 20, 30, 200}
	Row(Erase, dst, dst, []byte{0, 0, 0, 50})
	if got := (px{dst[0], dst[1], dst[2], dst[3]}); got != (px{10, 20, 30, 150}) {
		t.Errorf("Row(Erase) in place = %v, want [10 20 30 150]", got)
	}
}

func TestRowShortest(t *testing.T) {
	dst := make([]byte, 8)
	Row(DirectTop, dst, make([]byte, 8), []byte{1, 2, 3, 4, 5})
	if dst[4] != 0 {
		t.Errorf("Row wrote past the shortest slice: %v", dst)
	}
}

func TestModeString(t *testing.T) {
	if got := Erase.String(); got != "Erase" {
		t.Errorf("Erase.String() = %q, want %q", got, "Erase")
	}
	if got := Mode(99).String(); got != "Unknown" {
		t.Errorf("Mode(99).String() = %q, want %q", got, "Unknown")
	}
}
