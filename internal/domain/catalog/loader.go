package catalog

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/universus/internal/domain/model"
)

type sportEntry struct {
	Name       string             `koanf:"name"`
	Type       string             `koanf:"type"`
	TeamSize   int                `koanf:"team_size"`
	Icon       string             `koanf:"icon"`
	Weights    map[string]float64 `koanf:"weights"`
	Format     *formatEntry       `koanf:"format"`
	Commentary []string           `koanf:"commentary"`
}

type formatEntry struct {
	Unit    string `koanf:"unit"`
	Default int    `koanf:"default"`
	Options []int  `koanf:"options"`
}

type catalogFile struct {
	Sports        []sportEntry       `koanf:"sports"`
	WeightClasses map[string]float64 `koanf:"weight_classes"`
}

// Load reads a YAML catalog file and returns the options that apply it.
// The file lists sports and, optionally, extra weight class modifiers:
//
//	sports:
//	  - name: Boxing
//	    type: duel
//	    weights: {power: 0.4, defense: 0.25, stamina: 0.25, accuracy: 0.1}
//	weight_classes:
//	  Super-Heavy: 1.09
func Load(path string) ([]Option, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	var cf catalogFile
	if err := k.UnmarshalWithConf("", &cf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	var opts []Option
	if len(cf.Sports) > 0 {
		sports := make([]model.Sport, 0, len(cf.Sports))
		for _, e := range cf.Sports {
			s, err := e.toSport()
			if err != nil {
				return nil, err
			}
			sports = append(sports, s)
		}
		opts = append(opts, WithSports(sports))
	}
	for name, mod := range cf.WeightClasses {
		opts = append(opts, WithWeightClass(model.WeightClass(name), mod))
	}
	return opts, nil
}

func (e sportEntry) toSport() (model.Sport, error) {
	w, err := model.WeightsFromMap(e.Weights)
	if err != nil {
		return model.Sport{}, fmt.Errorf("sport %s: %w", e.Name, err)
	}
	s := model.Sport{
		Name:       e.Name,
		Type:       model.ContestType(e.Type),
		TeamSize:   e.TeamSize,
		Icon:       e.Icon,
		Weights:    w,
		Commentary: e.Commentary,
	}
	if e.Format != nil {
		s.Format = &model.Format{Unit: e.Format.Unit, Default: e.Format.Default, Options: e.Format.Options}
	}
	return s, nil
}
