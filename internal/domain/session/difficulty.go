package session

// Preset is a difficulty option consumed at game start. The mapping is
// configuration data, not core logic; the server config may override it.
type Preset struct {
	Label       string `json:"label" yaml:"label"`
	InitialCash int    `json:"initial_cash" yaml:"initial_cash"`
	TotalDays   int    `json:"total_days" yaml:"total_days"`
}

// DefaultPresets returns the original three difficulty modes.
func DefaultPresets() []Preset {
	return []Preset{
		{Label: "经典", InitialCash: 2000, TotalDays: 40},
		{Label: "困难", InitialCash: 5000, TotalDays: 40},
		{Label: "休闲", InitialCash: 3000, TotalDays: 60},
	}
}

// FindPreset looks up a preset by label.
func FindPreset(presets []Preset, label string) (Preset, bool) {
	for _, p := range presets {
		if p.Label == label {
			return p, true
		}
	}
	return Preset{}, false
}
