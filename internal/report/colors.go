package report

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Extremos da escala contínua "Blues". O tom mais claro não é branco puro
// para a menor barra continuar visível sobre o fundo.
var (
	bluesLow, _  = colorful.Hex("#c6dbef")
	bluesHigh, _ = colorful.Hex("#08306b")

	lineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)

// blues interpola a cor de v entre lo e hi.
func blues(lo, hi, v int) color.Color {
	t := 1.0
	if hi > lo {
		t = float64(v-lo) / float64(hi-lo)
	}
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return bluesLow.BlendLab(bluesHigh, t).Clamped()
}
