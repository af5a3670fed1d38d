package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsdfbenchmark/go-bbm/pkg/bsdf"
	"github.com/bsdfbenchmark/go-bbm/pkg/core"
	"github.com/bsdfbenchmark/go-bbm/pkg/ndf"
)

func TestParseMaterial_Lambertian(t *testing.T) {
	input := `
type: lambertian
albedo: [0.5, 0.6, 0.7]
`
	model, err := ParseMaterial(strings.NewReader(input), "yaml")
	if err != nil {
		t.Fatalf("ParseMaterial failed: %v", err)
	}

	l, ok := model.(*bsdf.Lambertian)
	if !ok {
		t.Fatalf("Expected a lambertian, got %T", model)
	}
	want := bsdf.Spectrum{X: 0.5, Y: 0.6, Z: 0.7}
	if l.Albedo != want {
		t.Errorf("Albedo mismatch: got %v, expected %v", l.Albedo, want)
	}
}

func TestParseMaterial_Microfacet(t *testing.T) {
	input := `
type: microfacet
masking-shadowing: height-correlated
normalization: walter
ndf:
  type: ggx
  roughness: 0.3
  sample-visible: false
fresnel:
  type: schlick
  r0: [0.9, 0.8, 0.7]
`
	model, err := ParseMaterial(strings.NewReader(input), "yaml")
	if err != nil {
		t.Fatalf("ParseMaterial failed: %v", err)
	}

	m, ok := model.(*bsdf.Microfacet)
	if !ok {
		t.Fatalf("Expected a microfacet, got %T", model)
	}

	g, ok := m.NDF.(*ndf.GGX)
	if !ok {
		t.Fatalf("Expected a GGX distribution, got %T", m.NDF)
	}
	if g.Roughness != 0.3 || g.SampleVisible {
		t.Errorf("Unexpected GGX parameters: %+v", g)
	}

	if _, ok := m.Shadowing.(bsdf.HeightCorrelated); !ok {
		t.Errorf("Expected height-correlated shadowing, got %T", m.Shadowing)
	}
	if m.Normalization != bsdf.Walter {
		t.Errorf("Normalization mismatch: got %v, expected %v", m.Normalization, bsdf.Walter)
	}

	f, ok := m.Fresnel.(*bsdf.Schlick)
	if !ok {
		t.Fatalf("Expected a schlick fresnel, got %T", m.Fresnel)
	}
	if f.R0 != (bsdf.Spectrum{X: 0.9, Y: 0.8, Z: 0.7}) {
		t.Errorf("R0 mismatch: got %v", f.R0)
	}
}

func TestParseMaterial_MicrofacetDefaults(t *testing.T) {
	input := `
type: microfacet
ndf:
  type: phong
  sharpness: 30
fresnel:
  type: schlick
  r0: [1, 1, 1]
`
	model, err := ParseMaterial(strings.NewReader(input), "yaml")
	if err != nil {
		t.Fatalf("ParseMaterial failed: %v", err)
	}

	m := model.(*bsdf.Microfacet)
	if _, ok := m.Shadowing.(bsdf.Uncorrelated); !ok {
		t.Errorf("Expected uncorrelated shadowing by default, got %T", m.Shadowing)
	}
	if m.Normalization != bsdf.Unnormalized {
		t.Errorf("Expected unnormalized by default, got %v", m.Normalization)
	}
	if _, ok := m.NDF.(*ndf.Phong); !ok {
		t.Errorf("Expected a phong distribution, got %T", m.NDF)
	}
}

func TestParseMaterial_AggregateTOML(t *testing.T) {
	input := `
type = "aggregate"

[[models]]
type = "lambertian"
albedo = [0.6, 0.5, 0.4]

[[models]]
type = "microfacet"
masking-shadowing = "height-correlated"
normalization = "walter"

[models.ndf]
type = "ggx"
roughness = 0.25

[models.fresnel]
type = "schlick"
r0 = [0.95, 0.93, 0.88]
`
	model, err := ParseMaterial(strings.NewReader(input), "toml")
	if err != nil {
		t.Fatalf("ParseMaterial failed: %v", err)
	}

	a, ok := model.(*bsdf.Aggregate)
	if !ok {
		t.Fatalf("Expected an aggregate, got %T", model)
	}
	if len(a.Models) != 2 {
		t.Fatalf("Expected two models, got %d", len(a.Models))
	}
	if _, ok := a.Models[0].(*bsdf.Lambertian); !ok {
		t.Errorf("Expected a lambertian first, got %T", a.Models[0])
	}
	if _, ok := a.Models[1].(*bsdf.Microfacet); !ok {
		t.Errorf("Expected a microfacet second, got %T", a.Models[1])
	}

	// the loaded aggregate must sample like any hand-built one
	out := core.SphericalDirection(0.4, 0)
	sample := a.Sample(out, core.Vec2{X: 0.3, Y: 0.7}, bsdf.All, bsdf.Radiance, true)
	if sample.Flag == bsdf.None || sample.Pdf <= 0 {
		t.Errorf("Loaded aggregate failed to sample: %+v", sample)
	}
}

func TestParseMaterial_ScaledAndSampler(t *testing.T) {
	input := `
type: ndf-sampler
samples-theta: 45
model:
  type: scaled
  albedo: [0.5, 0.5, 0.5]
  model:
    type: lambertian
    albedo: [1, 1, 1]
`
	model, err := ParseMaterial(strings.NewReader(input), "yaml")
	if err != nil {
		t.Fatalf("ParseMaterial failed: %v", err)
	}

	s, ok := model.(*bsdf.NDFSampler)
	if !ok {
		t.Fatalf("Expected an ndf-sampler, got %T", model)
	}
	scaled, ok := s.Model.(*bsdf.Scaled)
	if !ok {
		t.Fatalf("Expected a scaled model inside, got %T", s.Model)
	}
	if _, ok := scaled.Model.(*bsdf.Lambertian); !ok {
		t.Errorf("Expected a lambertian inside the scale, got %T", scaled.Model)
	}

	in := core.SphericalDirection(0.3, 0)
	out := core.SphericalDirection(0.5, 1)
	want := bsdf.Spectrum{X: 0.5 / 3.14159265358979, Y: 0.5 / 3.14159265358979, Z: 0.5 / 3.14159265358979}
	got := s.Eval(in, out, bsdf.All, bsdf.Radiance, true)
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("Eval mismatch: got %v, expected %v", got, want)
	}
}

func TestParseMaterial_UnknownTypes(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"model type", "type: glass\n"},
		{"ndf type", "type: microfacet\nndf:\n  type: beckmann\nfresnel:\n  type: schlick\n  r0: [1, 1, 1]\n"},
		{"fresnel type", "type: microfacet\nndf:\n  type: ggx\n  roughness: 0.5\nfresnel:\n  type: exact\n"},
		{"shadowing", "type: microfacet\nmasking-shadowing: vcavity\nndf:\n  type: ggx\n  roughness: 0.5\nfresnel:\n  type: schlick\n  r0: [1, 1, 1]\n"},
		{"normalization", "type: microfacet\nnormalization: torrance\nndf:\n  type: ggx\n  roughness: 0.5\nfresnel:\n  type: schlick\n  r0: [1, 1, 1]\n"},
	}

	for _, tc := range cases {
		_, err := ParseMaterial(strings.NewReader(tc.input), "yaml")
		if !errors.Is(err, ErrUnknownType) {
			t.Errorf("%s: expected ErrUnknownType, got %v", tc.name, err)
		}
	}
}

func TestParseMaterial_Validation(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing type", "albedo: [1, 1, 1]\n"},
		{"lambertian without albedo", "type: lambertian\n"},
		{"microfacet without ndf", "type: microfacet\nfresnel:\n  type: schlick\n  r0: [1, 1, 1]\n"},
		{"scaled without model", "type: scaled\nalbedo: [1, 1, 1]\n"},
		{"sampler without model", "type: ndf-sampler\n"},
		{"aggregate with one model", "type: aggregate\nmodels:\n  - type: lambertian\n    albedo: [1, 1, 1]\n"},
		{"malformed yaml", "type: [\n"},
	}

	for _, tc := range cases {
		if _, err := ParseMaterial(strings.NewReader(tc.input), "yaml"); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}

	if _, err := ParseMaterial(strings.NewReader("type = 'lambertian'"), "json"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestLoadMaterial(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "diffuse.yaml")
	if err := os.WriteFile(yamlPath, []byte("type: lambertian\nalbedo: [0.8, 0.7, 0.6]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tomlPath := filepath.Join(dir, "diffuse.toml")
	if err := os.WriteFile(tomlPath, []byte("type = \"lambertian\"\nalbedo = [0.8, 0.7, 0.6]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, tomlPath} {
		model, err := LoadMaterial(path)
		if err != nil {
			t.Fatalf("LoadMaterial(%s) failed: %v", path, err)
		}
		l, ok := model.(*bsdf.Lambertian)
		if !ok || l.Albedo != (bsdf.Spectrum{X: 0.8, Y: 0.7, Z: 0.6}) {
			t.Errorf("LoadMaterial(%s): unexpected model %+v", path, model)
		}
	}

	if _, err := LoadMaterial(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	jsonPath := filepath.Join(dir, "diffuse.json")
	if err := os.WriteFile(jsonPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMaterial(jsonPath); err == nil {
		t.Error("Expected an error for an unsupported extension")
	}
}
