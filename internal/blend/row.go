package blend

// Row blends a row of packed pixels: dst[i] = mode(base[i], top[i]).
//
// The number of pixels processed is the shortest of the three slices divided
// by four. dst may alias base or top.
func Row(mode Mode, dst, base, top []byte) {
	n := min(len(dst), len(base), len(top)) &^ 3
	if n == 0 {
		return
	}

	switch mode {
	case DirectTop:
		copy(dst[:n], top[:n])
		return
	case DirectBase:
		copy(dst[:n], base[:n])
		return
	}

	fn := GetFunc(mode)
	for i := 0; i < n; i += 4 {
		b := base[i : i+4 : i+4]
		t := top[i : i+4 : i+4]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(b[0], b[1], b[2], b[3], t[0], t[1], t[2], t[3])
	}
}

// Pixel blends a single packed pixel in place: dst = mode(dst, top).
func Pixel(mode Mode, dst, top []byte) {
	fn := GetFunc(mode)
	dst[0], dst[1], dst[2], dst[3] = fn(dst[0], dst[1], dst[2], dst[3], top[0], top[1], top[2], top[3])
}
