package config

import "sort"

func preset(order, adaptivity, stepsize, errFilter int, placements ...float64) *Config {
	cfg := DefaultConfig()
	cfg.Controller = ControllerConfig{
		Order:           order,
		AdaptivityExtra: adaptivity,
		StepsizeFilter:  stepsize,
		ErrorFilter:     errFilter,
		PolePlacements:  placements,
	}
	return cfg
}

var Presets = map[string]*Config{
	"deadbeat3":       preset(3, 1, 1, 0, 0, 0, 0),
	"pi-deadbeat":     preset(2, 1, 0, 0, 0, 0),
	"pi-smooth":       preset(2, 1, 0, 0, 0.5, 0.5),
	"stepsize-filter": preset(2, 1, 1, 0, 0),
	"error-filter":    preset(3, 1, 0, 1, 0, 0, 0),
	"free-pole":       preset(2, 1, 0, 0, 0),
}

// GetPreset returns a copy of the named preset, nil when unknown.
func GetPreset(name string) *Config {
	if name == "default" {
		return DefaultConfig()
	}
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets)+1)
	names = append(names, "default")
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
