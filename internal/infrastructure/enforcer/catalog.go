package enforcer

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/clara-api/internal/domain/language"
)

//go:embed messages.yaml
var defaultCatalogYAML []byte

// messageSet plantillas de un idioma.
type messageSet struct {
	Switched        string `yaml:"switched"`
	UpgradeRequired string `yaml:"upgrade_required"`
	Unavailable     string `yaml:"unavailable"`
	NotFound        string `yaml:"not_found"`
}

// Catalog mensajes por código de idioma.
type Catalog struct {
	sets map[language.Code]messageSet
}

// DefaultCatalog carga el catálogo embebido.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// ParseCatalog decodifica el YAML rechazando claves desconocidas y exige
// las cuatro plantillas para cada idioma soportado.
func ParseCatalog(raw []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var parsed map[string]messageSet
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("catálogo de mensajes: %w", err)
	}

	c := &Catalog{sets: make(map[language.Code]messageSet, len(parsed))}
	for k, set := range parsed {
		code, err := language.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("catálogo de mensajes: clave %q: %w", k, err)
		}
		c.sets[code] = set
	}
	for _, code := range language.Supported() {
		set, ok := c.sets[code]
		if !ok {
			return nil, fmt.Errorf("catálogo de mensajes: falta el idioma %s", code)
		}
		if set.Switched == "" || set.UpgradeRequired == "" || set.Unavailable == "" || set.NotFound == "" {
			return nil, fmt.Errorf("catálogo de mensajes: plantillas incompletas para %s", code)
		}
	}
	return c, nil
}

func (c *Catalog) render(in language.Code, pick func(messageSet) string, langName string) string {
	set, ok := c.sets[in]
	if !ok {
		set = c.sets[language.ES]
	}
	return strings.ReplaceAll(pick(set), "{language}", langName)
}
