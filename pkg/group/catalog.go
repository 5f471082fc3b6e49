package group

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// catalogVersion is the newest catalog layout this package understands.
const catalogVersion = 1

// Catalog holds the executable-name lists behind the name-based groups.
// Lists are data and are expected to change independently of the code.
type Catalog struct {
	Version          int                 `yaml:"version"`
	Vendor           []string            `yaml:"vendor"`
	DevelopmentTools []string            `yaml:"developmentTools"`
	SystemServices   []string            `yaml:"systemServices"`
	BackgroundTasks  []string            `yaml:"backgroundTasks"`
	Idle             []string            `yaml:"idle"`
	Companies        map[string][]string `yaml:"companies"`

	companyOrder []string
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if c.Version < 1 || c.Version > catalogVersion {
		return nil, fmt.Errorf("unsupported catalog version %d", c.Version)
	}
	c.Vendor = compact(c.Vendor)
	c.DevelopmentTools = compact(c.DevelopmentTools)
	c.SystemServices = compact(c.SystemServices)
	c.BackgroundTasks = compact(c.BackgroundTasks)
	c.Idle = compact(c.Idle)
	for company, patterns := range c.Companies {
		c.Companies[company] = compact(patterns)
		c.companyOrder = append(c.companyOrder, company)
	}
	sort.Strings(c.companyOrder)
	return &c, nil
}

func compact(patterns []string) []string {
	out := patterns[:0]
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(name string, patterns []string) bool {
	if name == "" {
		return false
	}
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// IsVendor reports whether name belongs to the OS publisher's own programs.
func (c *Catalog) IsVendor(name string) bool { return matchesAny(name, c.Vendor) }

// IsDevelopmentTool reports whether name is an editor, compiler, or similar.
func (c *Catalog) IsDevelopmentTool(name string) bool { return matchesAny(name, c.DevelopmentTools) }

// IsSystemService reports whether name is a known system daemon.
func (c *Catalog) IsSystemService(name string) bool { return matchesAny(name, c.SystemServices) }

// IsBackgroundTask reports whether name is a known indexer, updater, or helper.
func (c *Catalog) IsBackgroundTask(name string) bool { return matchesAny(name, c.BackgroundTasks) }

// IsIdle reports whether name is the kernel idle pseudo-process.
func (c *Catalog) IsIdle(name string) bool {
	for _, p := range c.Idle {
		if strings.EqualFold(name, p) {
			return true
		}
	}
	return false
}

// Company returns the publisher for name, or "" when no list matches.
// Companies are tried in name order so the result is stable.
func (c *Catalog) Company(name string) string {
	for _, company := range c.companyOrder {
		if matchesAny(name, c.Companies[company]) {
			return company
		}
	}
	return ""
}
