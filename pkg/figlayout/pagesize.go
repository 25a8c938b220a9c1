package figlayout

import "strings"

// PageSize is a named page format in millimeters.
type PageSize struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Page size presets. The journal presets carry standard single, one-and-a-half
// and double column widths; their heights are upper bounds to be trimmed by
// autofit rather than hard formats.
var (
	PresetA4          = PageSize{Name: "a4", WidthMM: 210, HeightMM: 297}
	PresetLetter      = PageSize{Name: "letter", WidthMM: 215.9, HeightMM: 279.4}
	PresetJournal1Col = PageSize{Name: "journal-1col", WidthMM: 85, HeightMM: 297}
	PresetJournal15   = PageSize{Name: "journal-1.5col", WidthMM: 114, HeightMM: 297}
	PresetJournal2Col = PageSize{Name: "journal-2col", WidthMM: 178, HeightMM: 297}
)

// Presets returns all page size presets in display order.
func Presets() []PageSize {
	return []PageSize{
		PresetA4,
		PresetLetter,
		PresetJournal1Col,
		PresetJournal15,
		PresetJournal2Col,
	}
}

// PresetByName looks up a preset by its name, case-insensitively.
func PresetByName(name string) (PageSize, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return PageSize{}, false
}
