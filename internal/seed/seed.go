// Package seed ships the demo calendar: the October 2025 event set, the
// authored conflict catalog with its resolution options, pattern insights
// and smart suggestions. The fixtures are embedded YAML so the data reads
// the way it is authored.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/marcusyeo/TimeButler/internal/models"
)

//go:embed demo.yaml
var demoYAML []byte

type Data struct {
	Events      []models.Event      `yaml:"events"`
	Conflicts   []models.Conflict   `yaml:"conflicts"`
	Patterns    []models.Pattern    `yaml:"patterns"`
	Suggestions []models.Suggestion `yaml:"suggestions"`
}

// Load decodes the embedded fixtures. Every seed event must validate and
// every catalog conflict must reference seeded events.
func Load() (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(demoYAML, &d); err != nil {
		return nil, fmt.Errorf("seed: decode fixtures: %w", err)
	}
	ids := make(map[string]struct{}, len(d.Events))
	for i := range d.Events {
		if d.Events[i].CreatedBy == "" {
			d.Events[i].CreatedBy = models.OriginSeed
		}
		if err := d.Events[i].Validate(); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if _, dup := ids[d.Events[i].ID]; dup {
			return nil, fmt.Errorf("seed: event %s: %w", d.Events[i].ID, models.ErrDuplicateID)
		}
		ids[d.Events[i].ID] = struct{}{}
	}
	for i := range d.Conflicts {
		d.Conflicts[i].Source = models.SourceCatalog
		if len(d.Conflicts[i].Events) < 2 {
			return nil, fmt.Errorf("seed: conflict %s lists fewer than two events", d.Conflicts[i].ID)
		}
		for _, id := range d.Conflicts[i].Events {
			if _, ok := ids[id]; !ok {
				return nil, fmt.Errorf("seed: conflict %s references unknown event %s", d.Conflicts[i].ID, id)
			}
		}
	}
	return &d, nil
}
