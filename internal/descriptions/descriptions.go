// Package descriptions holds the reference text shown next to each selected
// project. The table comes from a YAML file mapping project numbers to
// descriptions, or from the built-in defaults when no file is configured.
package descriptions

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lookup resolves a project number to its description.
type Lookup interface {
	Describe(project string) (string, bool)
}

// Table is a static project description lookup.
type Table map[string]string

var _ Lookup = Table(nil)

func (t Table) Describe(project string) (string, bool) {
	d, ok := t[strings.TrimSpace(project)]
	if !ok || strings.TrimSpace(d) == "" {
		return "", false
	}
	return d, true
}

// Defaults returns the descriptions of the Kenya country programme projects.
func Defaults() Table {
	return Table{
		"13229": "Business from Waste for Women in Kenya (Nairobi & Mombasa) – phase II",
		"12274": "Creative Industries program Kenya",
		"12254": "Promoting Peace through livelihood opportunities for rural communities in Kenya",
		"13247": "WICE",
		"13331": "Youth Employment and TVET in Kenya (TAMK)",
		"12253": "Development and Inclusive peace for all in Kenya (DIPAK)",
		"13216": "Provision of equitable access to safe & secure, inclusive, quality learning- ECW",
		"13323": "ECHO-HIP - Promoting access to quality inclusive education in protective learning",
		"13363": "PROSPECTS 2.0 - Enhanced environment for socioeconomic inclusion of Refugees",
		"13326": "Flooding Emergency Response for El Nino affected Communities in Marsabit and Samburu",
		"13364": "Emergency Response and Peacebuilding Program for Kalobeyei Refugee Settlement",
		"13270": "Dummy project for Kalobeyei settlement 2023 Annual Reporting (which included projects such as 13241, 13288, 13194, 13195, 13271)",
		"13248": "Resilience Programme to improve access to safe and adequate water",
	}
}

// Load reads a YAML description file. An empty path returns Defaults.
func Load(path string) (Table, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descriptions: read %q: %w", path, err)
	}
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("descriptions: parse %q: %w", path, err)
	}

	t := make(Table, len(raw))
	for k, v := range raw {
		t[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return t, nil
}
