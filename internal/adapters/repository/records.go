package repository

import (
	"encoding/json"
	"fmt"

	"github.com/okian/universus/internal/domain/catalog"
	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/domain/random"
)

// repair normalizes decoded records in place. Map keys are authoritative
// for names.
func repair(roster map[string]model.Participant, origin model.Origin, src random.Source) {
	for name, p := range roster {
		p.Name = name
		roster[name] = catalog.Repair(p, origin, src)
	}
}

func decodeRecord(name string, raw []byte) (model.Participant, error) {
	var p model.Participant
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Participant{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}
	return p, nil
}

func copyRoster(in map[string]model.Participant) map[string]model.Participant {
	out := make(map[string]model.Participant, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
