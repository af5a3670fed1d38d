package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bsdfbenchmark/go-bbm/pkg/bsdf"
	"github.com/bsdfbenchmark/go-bbm/pkg/ndf"
)

// ErrUnknownType reports a material, NDF, or Fresnel type tag that no
// builder recognizes.
var ErrUnknownType = errors.New("unknown material type")

// materialSpec is the on-disk shape of a material description. One
// struct covers all model types; buildModel dispatches on Type and
// validates the fields that type needs.
type materialSpec struct {
	Type string `yaml:"type" toml:"type"`

	// lambertian and scaled
	Albedo *[3]float64 `yaml:"albedo" toml:"albedo"`

	// microfacet
	NDF           *ndfSpec     `yaml:"ndf" toml:"ndf"`
	Fresnel       *fresnelSpec `yaml:"fresnel" toml:"fresnel"`
	Shadowing     string       `yaml:"masking-shadowing" toml:"masking-shadowing"`
	Normalization string       `yaml:"normalization" toml:"normalization"`

	// scaled and ndf-sampler wrap a single child
	Model *materialSpec `yaml:"model" toml:"model"`

	// aggregate
	Models []materialSpec `yaml:"models" toml:"models"`

	// ndf-sampler table resolution; zero selects the defaults
	SamplesTheta int `yaml:"samples-theta" toml:"samples-theta"`
	SamplesPhi   int `yaml:"samples-phi" toml:"samples-phi"`
}

type ndfSpec struct {
	Type          string  `yaml:"type" toml:"type"`
	Roughness     float64 `yaml:"roughness" toml:"roughness"`
	Sharpness     float64 `yaml:"sharpness" toml:"sharpness"`
	SampleVisible *bool   `yaml:"sample-visible" toml:"sample-visible"`
}

type fresnelSpec struct {
	Type string     `yaml:"type" toml:"type"`
	R0   [3]float64 `yaml:"r0" toml:"r0"`
}

// LoadMaterial loads a material description file. The format is chosen
// by extension: .yaml/.yml or .toml.
func LoadMaterial(filename string) (bsdf.Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open material file: %v", err)
	}
	defer file.Close()

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		return ParseMaterial(file, "yaml")
	case ".toml":
		return ParseMaterial(file, "toml")
	default:
		return nil, fmt.Errorf("unsupported material format %q", ext)
	}
}

// ParseMaterial parses a material description from a reader in the
// given format ("yaml" or "toml").
func ParseMaterial(reader io.Reader, format string) (bsdf.Model, error) {
	var spec materialSpec

	switch format {
	case "yaml":
		if err := yaml.NewDecoder(reader).Decode(&spec); err != nil {
			return nil, fmt.Errorf("error parsing yaml material: %v", err)
		}
	case "toml":
		if err := toml.NewDecoder(reader).Decode(&spec); err != nil {
			return nil, fmt.Errorf("error parsing toml material: %v", err)
		}
	default:
		return nil, fmt.Errorf("unsupported material format %q", format)
	}

	return buildModel(&spec)
}

func buildModel(spec *materialSpec) (bsdf.Model, error) {
	switch spec.Type {
	case "lambertian":
		if spec.Albedo == nil {
			return nil, fmt.Errorf("lambertian material requires an albedo")
		}
		return bsdf.NewLambertian(spectrum(*spec.Albedo)), nil

	case "microfacet":
		return buildMicrofacet(spec)

	case "scaled":
		if spec.Model == nil || spec.Albedo == nil {
			return nil, fmt.Errorf("scaled material requires a model and an albedo")
		}
		inner, err := buildModel(spec.Model)
		if err != nil {
			return nil, err
		}
		return bsdf.NewScaled(inner, spectrum(*spec.Albedo)), nil

	case "aggregate":
		if len(spec.Models) < 2 {
			return nil, fmt.Errorf("aggregate material requires at least two models, got %d", len(spec.Models))
		}
		models := make([]bsdf.Model, len(spec.Models))
		for i := range spec.Models {
			model, err := buildModel(&spec.Models[i])
			if err != nil {
				return nil, fmt.Errorf("aggregate model %d: %v", i, err)
			}
			models[i] = model
		}
		return bsdf.NewAggregate(models...), nil

	case "ndf-sampler":
		if spec.Model == nil {
			return nil, fmt.Errorf("ndf-sampler material requires a model")
		}
		inner, err := buildModel(spec.Model)
		if err != nil {
			return nil, err
		}
		samplesTheta := spec.SamplesTheta
		if samplesTheta == 0 {
			samplesTheta = ndf.DefaultSamplesTheta
		}
		samplesPhi := spec.SamplesPhi
		if samplesPhi == 0 {
			samplesPhi = ndf.DefaultSamplesPhi
		}
		if samplesTheta < 0 || samplesPhi < 0 {
			return nil, fmt.Errorf("ndf-sampler table resolution must be positive, got %d x %d", samplesTheta, samplesPhi)
		}
		return bsdf.NewNDFSamplerSized(inner, samplesTheta, samplesPhi), nil

	case "":
		return nil, fmt.Errorf("material requires a type")

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)
	}
}

func buildMicrofacet(spec *materialSpec) (bsdf.Model, error) {
	if spec.NDF == nil || spec.Fresnel == nil {
		return nil, fmt.Errorf("microfacet material requires an ndf and a fresnel")
	}

	distribution, err := buildNDF(spec.NDF)
	if err != nil {
		return nil, err
	}

	fresnel, err := buildFresnel(spec.Fresnel)
	if err != nil {
		return nil, err
	}

	var shadowing bsdf.MaskingShadowing
	switch spec.Shadowing {
	case "", "uncorrelated":
		shadowing = bsdf.Uncorrelated{}
	case "height-correlated":
		shadowing = bsdf.HeightCorrelated{}
	default:
		return nil, fmt.Errorf("%w: masking-shadowing %q", ErrUnknownType, spec.Shadowing)
	}

	var normalization float64
	switch spec.Normalization {
	case "", "unnormalized":
		normalization = bsdf.Unnormalized
	case "walter":
		normalization = bsdf.Walter
	case "cook":
		normalization = bsdf.Cook
	default:
		return nil, fmt.Errorf("%w: normalization %q", ErrUnknownType, spec.Normalization)
	}

	return bsdf.NewMicrofacet(distribution, shadowing, fresnel, normalization), nil
}

func buildNDF(spec *ndfSpec) (ndf.NDF, error) {
	switch spec.Type {
	case "ggx":
		g := ndf.NewGGX(spec.Roughness)
		if spec.SampleVisible != nil {
			g.SampleVisible = *spec.SampleVisible
		}
		return g, nil
	case "phong":
		return ndf.NewPhong(spec.Sharpness), nil
	default:
		return nil, fmt.Errorf("%w: ndf %q", ErrUnknownType, spec.Type)
	}
}

func buildFresnel(spec *fresnelSpec) (bsdf.Fresnel, error) {
	switch spec.Type {
	case "schlick":
		return bsdf.NewSchlick(spectrum(spec.R0)), nil
	default:
		return nil, fmt.Errorf("%w: fresnel %q", ErrUnknownType, spec.Type)
	}
}

func spectrum(rgb [3]float64) bsdf.Spectrum {
	return bsdf.Spectrum{X: rgb[0], Y: rgb[1], Z: rgb[2]}
}
