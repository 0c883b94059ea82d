package advice

import (
	_ "embed"
	"fmt"

	"github.com/dmitrijs2005/nudger/internal/models"
	"gopkg.in/yaml.v3"
)

// TemplatesPerBranch is the number of candidate responses per branch.
const TemplatesPerBranch = 3

//go:embed personas.yaml
var personasYAML []byte

// PersonaSpec is one response style: how it is shown and what it says.
type PersonaSpec struct {
	Name        models.Persona      `yaml:"name"`
	DisplayName string              `yaml:"display_name"`
	Description string              `yaml:"description"`
	Templates   map[Branch][]string `yaml:"templates"`
}

// Catalog indexes persona specs by name.
type Catalog struct {
	personas map[models.Persona]*PersonaSpec
}

type catalogFile struct {
	Personas []*PersonaSpec `yaml:"personas"`
}

// ParseCatalog decodes a persona catalog and checks that every persona
// defines exactly TemplatesPerBranch templates for each branch.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode persona catalog: %w", err)
	}

	c := &Catalog{personas: make(map[models.Persona]*PersonaSpec, len(f.Personas))}
	for _, p := range f.Personas {
		if p.Name == "" {
			return nil, fmt.Errorf("persona without a name")
		}
		if _, dup := c.personas[p.Name]; dup {
			return nil, fmt.Errorf("persona %s defined twice", p.Name)
		}
		for _, b := range Branches {
			if n := len(p.Templates[b]); n != TemplatesPerBranch {
				return nil, fmt.Errorf("persona %s: branch %s has %d templates, want %d", p.Name, b, n, TemplatesPerBranch)
			}
		}
		c.personas[p.Name] = p
	}
	return c, nil
}

// DefaultCatalog returns the built-in personas.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var defaultCatalog = mustParseCatalog(personasYAML)

func mustParseCatalog(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the spec of persona p.
func (c *Catalog) Lookup(p models.Persona) (*PersonaSpec, bool) {
	spec, ok := c.personas[p]
	return spec, ok
}
