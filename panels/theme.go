package panels

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"sort"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
)

// Theme is the complete styling of a report. It is passed by value to every
// panel builder; nothing is configured process-wide.
type Theme struct {
	Background      color.Color
	PanelBackground color.Color
	Grid            color.Color
	Text            color.Color

	Active       color.Color
	Failed       color.Color
	Tx           color.Color
	Rx           color.Color
	UDPIn        color.Color
	UDPErrors    color.Color
	SndbufErrors color.Color
	CPUUser      color.Color
	CPUSystem    color.Color
	CPUSoftIRQ   color.Color
	CPUIdle      color.Color
	RSS          color.Color
	NetRx        color.Color
	NetTx        color.Color
	RxPackets    color.Color
	TxPackets    color.Color

	// Alpha values applied on top of the palette.
	FillAlpha  uint8
	GridAlpha  uint8
	StackAlpha uint8

	Sans font.Font
	Bold font.Font
	Mono font.Font

	FigureTitleSize vg.Length
	TitleSize       vg.Length
	LabelSize       vg.Length
	TickSize        vg.Length
	LegendSize      vg.Length
	AnnotationSize  vg.Length
	SummarySize     vg.Length

	LineWidth vg.Length
}

// DefaultTheme returns the dark navy benchmark palette.
func DefaultTheme() Theme {
	return Theme{
		Background:      mustHex("#1A1A2E"),
		PanelBackground: mustHex("#16213E"),
		Grid:            mustHex("#3D3D5C"),
		Text:            mustHex("#E0E0E0"),

		Active:       mustHex("#00D4AA"),
		Failed:       mustHex("#FF4B6E"),
		Tx:           mustHex("#FFB347"),
		Rx:           mustHex("#7B68EE"),
		UDPIn:        mustHex("#4FC3F7"),
		UDPErrors:    mustHex("#FF4B6E"),
		SndbufErrors: mustHex("#FF9800"),
		CPUUser:      mustHex("#00D4AA"),
		CPUSystem:    mustHex("#FFB347"),
		CPUSoftIRQ:   mustHex("#FF6B9D"),
		CPUIdle:      mustHex("#2D2D3F"),
		RSS:          mustHex("#E040FB"),
		NetRx:        mustHex("#4FC3F7"),
		NetTx:        mustHex("#FFB347"),
		RxPackets:    mustHex("#7B68EE"),
		TxPackets:    mustHex("#FF6B9D"),

		FillAlpha:  77,
		GridAlpha:  77,
		StackAlpha: 204,

		Sans: font.Font{Typeface: "Liberation", Variant: "Sans"},
		Bold: font.Font{Typeface: "Liberation", Variant: "Sans", Weight: xfont.WeightBold},
		Mono: font.Font{Typeface: "Liberation", Variant: "Mono"},

		FigureTitleSize: vg.Points(18),
		TitleSize:       vg.Points(13),
		LabelSize:       vg.Points(11),
		TickSize:        vg.Points(10),
		LegendSize:      vg.Points(9),
		AnnotationSize:  vg.Points(9),
		SummarySize:     vg.Points(10),

		LineWidth: vg.Points(1.5),
	}
}

func (t *Theme) palette() map[string]*color.Color {
	return map[string]*color.Color{
		"bg":          &t.Background,
		"panel_bg":    &t.PanelBackground,
		"grid":        &t.Grid,
		"text":        &t.Text,
		"active":      &t.Active,
		"failed":      &t.Failed,
		"tx_pixels":   &t.Tx,
		"rx_dgram":    &t.Rx,
		"udp_in":      &t.UDPIn,
		"udp_errors":  &t.UDPErrors,
		"sndbuf":      &t.SndbufErrors,
		"cpu_user":    &t.CPUUser,
		"cpu_system":  &t.CPUSystem,
		"cpu_softirq": &t.CPUSoftIRQ,
		"cpu_idle":    &t.CPUIdle,
		"rss":         &t.RSS,
		"net_rx":      &t.NetRx,
		"net_tx":      &t.NetTx,
		"rx_pkts":     &t.RxPackets,
		"tx_pkts":     &t.TxPackets,
	}
}

// PaletteKeys returns the names accepted by Apply, sorted.
func PaletteKeys() []string {
	var t Theme
	keys := make([]string, 0, len(t.palette()))
	for k := range t.palette() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply replaces palette entries with the given hex colors. Unknown names
// and malformed colors are errors and leave the theme unchanged.
func (t *Theme) Apply(overrides map[string]string) error {
	next := *t
	pal := next.palette()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dst, ok := pal[name]
		if !ok {
			return fmt.Errorf("unknown theme color %q", name)
		}
		c, err := ParseHexColor(overrides[name])
		if err != nil {
			return fmt.Errorf("theme color %q: %w", name, err)
		}
		*dst = c
	}

	*t = next
	return nil
}

// ParseHexColor parses #RRGGBB or #RRGGBBAA.
func ParseHexColor(s string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	c := color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func withAlpha(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(uint16(n.A) * uint16(a) / 0xff)
	return n
}

func (t Theme) sans(size vg.Length) font.Font {
	return font.From(t.Sans, size)
}

func (t Theme) bold(size vg.Length) font.Font {
	return font.From(t.Bold, size)
}
