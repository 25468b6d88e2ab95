package assessment

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mygreenscore/greenscore/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Template is one quick-add entry: a pre-filled line item users can
// append to the form with a single click.
type Template struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Quantity float64     `yaml:"quantity"`
	Unit     domain.Unit `yaml:"unit"`
}

// Item returns the line item this template expands to.
func (t Template) Item() domain.LineItem {
	return domain.LineItem{ItemName: t.Name, Quantity: t.Quantity, Unit: t.Unit}
}

// TemplateCategory groups templates under a display label.
type TemplateCategory struct {
	ID        string     `yaml:"id"`
	Label     string     `yaml:"label"`
	Templates []Template `yaml:"templates"`
}

// Catalog is the immutable quick-add template table. It is parsed once
// at startup and shared read-only by every form instance.
type Catalog struct {
	Categories []TemplateCategory `yaml:"categories"`

	byID map[string]Template
}

// DefaultCatalog parses the catalog shipped with the binary. It panics
// on a malformed embedded file since that is a build defect, not a
// runtime condition.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("assessment: embedded catalog is invalid: %v", err))
	}
	return c
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c.byID = make(map[string]Template)
	for _, cat := range c.Categories {
		for _, tpl := range cat.Templates {
			if tpl.ID == "" || tpl.Name == "" {
				return nil, fmt.Errorf("catalog category %q has a template without id or name", cat.ID)
			}
			if tpl.Quantity <= 0 {
				return nil, fmt.Errorf("catalog template %q has non-positive quantity", tpl.ID)
			}
			if !domain.ValidUnit(tpl.Unit) {
				return nil, fmt.Errorf("catalog template %q has unsupported unit %q", tpl.ID, tpl.Unit)
			}
			if _, dup := c.byID[tpl.ID]; dup {
				return nil, fmt.Errorf("catalog template id %q is duplicated", tpl.ID)
			}
			c.byID[tpl.ID] = tpl
		}
	}
	return &c, nil
}

// Lookup finds a template by id.
func (c *Catalog) Lookup(id string) (Template, bool) {
	tpl, ok := c.byID[id]
	return tpl, ok
}
