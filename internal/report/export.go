package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepctl/internal/controller"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("report: unknown format %q", s)
	}
}

type ExportData struct {
	ID         string               `json:"id" yaml:"id"`
	Structure  controller.Structure `json:"structure" yaml:"structure"`
	Unknowns   []string             `json:"unknowns" yaml:"unknowns"`
	Families   []FamilyData         `json:"families" yaml:"families"`
	Branches   int                  `json:"branches" yaml:"branches"`
	Parameters []ParameterData      `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Stability  *StabilityData       `json:"stability,omitempty" yaml:"stability,omitempty"`
}

type FamilyData struct {
	Name      string   `json:"name" yaml:"name"`
	Equations []string `json:"equations" yaml:"equations"`
}

type ParameterData struct {
	Name  string   `json:"name" yaml:"name"`
	Kind  string   `json:"kind" yaml:"kind"`
	Value string   `json:"value" yaml:"value"`
	Float *float64 `json:"float,omitempty" yaml:"float,omitempty"`
}

type StabilityData struct {
	Location     string       `json:"location" yaml:"location"`
	Outside      int          `json:"outside" yaml:"outside"`
	Radius       float64      `json:"spectral_radius" yaml:"spectral_radius"`
	Coefficients []float64    `json:"coefficients" yaml:"coefficients"`
	Zeros        [][2]float64 `json:"zeros" yaml:"zeros"`
}

// NewExportData flattens a design into its exported form under a fresh ID.
// Parameters and stability describe the first solution branch.
func NewExportData(d *controller.Design) ExportData {
	data := ExportData{
		ID:        uuid.NewString(),
		Structure: d.Structure,
		Branches:  len(d.Solution.Branches),
	}
	for _, p := range d.Unknowns {
		data.Unknowns = append(data.Unknowns, p.Name())
	}
	for _, f := range d.Families {
		fd := FamilyData{Name: f.Name, Equations: make([]string, len(f.Equations))}
		for i, eq := range f.Equations {
			fd.Equations[i] = eq.Format(d.Registry)
		}
		data.Families = append(data.Families, fd)
	}

	if first, ok := d.Solution.First(); ok {
		for _, p := range d.Parameters {
			v := first.Get(p)
			pd := ParameterData{Name: p.Name(), Kind: v.Kind().String(), Value: v.Format(d.Registry)}
			if f, ok := v.Float(); ok {
				pd.Float = &f
			}
			data.Parameters = append(data.Parameters, pd)
		}
	}

	if v, ok := Classify(d.Solution, d.Parameters, d.Structure.Order); ok {
		sd := &StabilityData{
			Location:     v.Location(),
			Outside:      v.Outside,
			Radius:       v.Radius,
			Coefficients: v.Coefficients,
			Zeros:        make([][2]float64, len(v.Zeros)),
		}
		for i, z := range v.Zeros {
			sd.Zeros[i] = [2]float64{real(z), imag(z)}
		}
		data.Stability = sd
	}
	return data
}

// Export writes d to w as JSON or YAML.
func Export(w io.Writer, d *controller.Design, format Format) error {
	data := NewExportData(d)
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("report: cannot export as %q", format)
	}
}

// ExportFile writes d to path.
func ExportFile(path string, d *controller.Design, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return Export(file, d, format)
}
