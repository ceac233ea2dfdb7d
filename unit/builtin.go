package unit

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/unitgrid/dimension"
)

//go:embed builtin.yaml
var builtinYAML []byte

// ErrCatalog indicates a malformed builtin or user-supplied catalog.
var ErrCatalog = errors.New("unit: bad unit catalog")

// catalogDoc mirrors the YAML catalog schema.
type catalogDoc struct {
	Units       []catalogUnit       `yaml:"units"`
	Conversions []catalogConversion `yaml:"conversions"`
}

type catalogUnit struct {
	Symbol string  `yaml:"symbol"`
	Axis   string  `yaml:"axis"`
	Factor float64 `yaml:"factor"`
	Offset float64 `yaml:"offset"`
	Before bool    `yaml:"before"`
}

type catalogConversion struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Factor float64 `yaml:"factor"`
	Offset float64 `yaml:"offset"`
	Before bool    `yaml:"before"`
}

// axisByName maps catalog axis names to dimension axes.
var axisByName = map[string]dimension.Axis{
	"length":      dimension.Length,
	"mass":        dimension.Mass,
	"time":        dimension.Time,
	"temperature": dimension.Temperature,
	"currency":    dimension.Currency,
	"storage":     dimension.Storage,
}

// loadBuiltin populates r from the embedded catalog.
func loadBuiltin(r *Registry) error {
	return LoadCatalog(r, builtinYAML)
}

// LoadCatalog registers every unit and conversion of a YAML catalog
// document into r, in document order (first unit per axis becomes the
// canonical unit). Exposed so callers can layer additional catalogs —
// e.g. currency tables with externally supplied rates — on top of the
// builtin one.
func LoadCatalog(r *Registry, doc []byte) error {
	var cat catalogDoc
	if err := yaml.Unmarshal(doc, &cat); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	for _, cu := range cat.Units {
		axis, ok := axisByName[cu.Axis]
		if !ok {
			return fmt.Errorf("%w: unit %q has unknown axis %q", ErrCatalog, cu.Symbol, cu.Axis)
		}
		def := Def{
			Symbol:       cu.Symbol,
			Dim:          dimension.Base(axis),
			Factor:       cu.Factor,
			Offset:       cu.Offset,
			OffsetBefore: cu.Before,
		}
		if err := r.Register(def); err != nil {
			return fmt.Errorf("%w: %v", ErrCatalog, err)
		}
	}
	for _, cc := range cat.Conversions {
		edge := Edge{
			From:         cc.From,
			To:           cc.To,
			Factor:       cc.Factor,
			Offset:       cc.Offset,
			OffsetBefore: cc.Before,
		}
		if err := r.RegisterConversion(edge); err != nil {
			return fmt.Errorf("%w: %v", ErrCatalog, err)
		}
	}
	return nil
}
