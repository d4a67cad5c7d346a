package prefabs

import (
	"fmt"
	"image/color"
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	return LoadSpecFrom[T](defaultSource, filename)
}

// LoadSpecFrom decodes filename read through src.
func LoadSpecFrom[T any](src *Source, filename string) (T, error) {
	var zero T
	data, err := src.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// BrainSpec is an enemy archetype: its body and its state machine table.
// States and conditions are declared once by name and referenced from the
// table, so a name used on several edges shares one template.
type BrainSpec struct {
	Name       string                  `yaml:"name"`
	Body       BodySpec                `yaml:"body"`
	States     map[string]TemplateSpec `yaml:"states"`
	Conditions map[string]TemplateSpec `yaml:"conditions"`
	Table      []TableEntrySpec        `yaml:"table"`
}

type BodySpec struct {
	Radius          float64    `yaml:"radius"`
	MaxHealth       float64    `yaml:"max_health"`
	DestroyOnDeath  *bool      `yaml:"destroy_on_death"`
	ExplosionRadius *float64   `yaml:"explosion_radius"`
	ExplosionDamage *float64   `yaml:"explosion_damage"`
	Color           *YAMLColor `yaml:"color"`
}

const (
	defaultBodyRadius      = 0.5
	defaultMaxHealth       = 50
	defaultExplosionRadius = 4
	defaultExplosionDamage = 35
)

// WithDefaults fills unset fields and clamps the rest into range.
func (b BodySpec) WithDefaults() BodySpec {
	if b.Radius <= 0 {
		b.Radius = defaultBodyRadius
	}
	if b.MaxHealth == 0 {
		b.MaxHealth = defaultMaxHealth
	}
	b.MaxHealth = max(1, b.MaxHealth)
	if b.DestroyOnDeath == nil {
		v := true
		b.DestroyOnDeath = &v
	}
	b.ExplosionRadius = nonNegative(b.ExplosionRadius, defaultExplosionRadius)
	b.ExplosionDamage = nonNegative(b.ExplosionDamage, defaultExplosionDamage)
	return b
}

func nonNegative(v *float64, fallback float64) *float64 {
	out := fallback
	if v != nil {
		out = max(0, *v)
	}
	return &out
}

type TemplateSpec struct {
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
}

type TableEntrySpec struct {
	State string     `yaml:"state"`
	Exits []ExitSpec `yaml:"exits"`
}

type ExitSpec struct {
	Condition string `yaml:"condition"`
	Next      string `yaml:"next"`
}

func LoadBrainSpec(filename string) (BrainSpec, error) {
	return defaultSource.BrainSpec(filename)
}

// BrainSpec loads a brain, naming it after its file when the spec has no name.
func (s *Source) BrainSpec(filename string) (BrainSpec, error) {
	spec, err := LoadSpecFrom[BrainSpec](s, filename)
	if err != nil {
		return spec, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(path.Base(s.trimDir(filename)), ".yaml")
	}
	return spec, nil
}

type PlayerSpec struct {
	Name      string     `yaml:"name"`
	Tag       string     `yaml:"tag"`
	Radius    float64    `yaml:"radius"`
	MaxHealth float64    `yaml:"max_health"`
	MoveSpeed float64    `yaml:"move_speed"`
	Color     *YAMLColor `yaml:"color"`
}

func LoadPlayerSpec(filename string) (*PlayerSpec, error) {
	return defaultSource.PlayerSpec(filename)
}

func (s *Source) PlayerSpec(filename string) (*PlayerSpec, error) {
	spec, err := LoadSpecFrom[PlayerSpec](s, filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// DecodeParams overlays raw YAML params onto defaults. Keys missing from raw
// keep their default value.
func DecodeParams[T any](raw map[string]any, defaults T) (T, error) {
	out := defaults
	if len(raw) == 0 {
		return out, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return defaults, err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return defaults, err
	}
	return out, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the decoded color, or fallback when none was set.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
