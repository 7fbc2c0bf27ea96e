package universe

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Category is a named ticker list inside a market
type Category struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Tickers []string `yaml:"tickers" json:"tickers"`
}

// Market groups categories sharing currency and ticker suffix
type Market struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Currency   string     `yaml:"currency" json:"currency"`
	Suffix     string     `yaml:"suffix" json:"suffix"`
	Categories []Category `yaml:"categories" json:"categories"`
}

// Universe is the configured set of markets
// ⭐ SSOT: 종목 유니버스 정의는 여기서만
type Universe struct {
	Markets []Market `yaml:"markets" json:"markets"`
}

// ValidationError describes an invalid universe file or selection
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the embedded universe
func Default() (*Universe, error) {
	return Parse(defaultYAML)
}

// Load reads a YAML universe file. An empty path means the embedded default.
// KnownFields(true): 오타/미사용 필드 즉시 실패
func Load(path string) (*Universe, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML
func Parse(data []byte) (*Universe, error) {
	var u Universe
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("failed to parse universe: %w", err)
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (u *Universe) validate() error {
	if len(u.Markets) == 0 {
		return ValidationError{"markets", "at least one market required"}
	}

	seen := make(map[string]bool)
	for i, m := range u.Markets {
		field := fmt.Sprintf("markets[%d]", i)
		if m.ID == "" {
			return ValidationError{field + ".id", "required"}
		}
		key := strings.ToUpper(m.ID)
		if seen[key] {
			return ValidationError{field + ".id", fmt.Sprintf("duplicate market %q", m.ID)}
		}
		seen[key] = true

		cats := make(map[string]bool)
		for j, c := range m.Categories {
			cfield := fmt.Sprintf("%s.categories[%d]", field, j)
			if c.ID == "" {
				return ValidationError{cfield + ".id", "required"}
			}
			if cats[strings.ToLower(c.ID)] {
				return ValidationError{cfield + ".id", fmt.Sprintf("duplicate category %q", c.ID)}
			}
			cats[strings.ToLower(c.ID)] = true
			if len(c.Tickers) == 0 {
				return ValidationError{cfield + ".tickers", "must not be empty"}
			}
		}
	}
	return nil
}

// Market finds a market by id (case-insensitive)
func (u *Universe) Market(id string) (*Market, bool) {
	for i := range u.Markets {
		if strings.EqualFold(u.Markets[i].ID, strings.TrimSpace(id)) {
			return &u.Markets[i], true
		}
	}
	return nil, false
}

// Build returns the ordered, deduplicated tickers for one run.
// A non-empty custom list replaces the configured categories entirely.
// No categories selects every category of the market.
func (u *Universe) Build(marketID string, categories []string, custom []string) ([]string, error) {
	m, ok := u.Market(marketID)
	if !ok {
		return nil, ValidationError{"market", fmt.Sprintf("unknown market %q", marketID)}
	}

	if len(custom) > 0 {
		tickers := m.qualifyAll(custom)
		if len(tickers) == 0 {
			return nil, ValidationError{"tickers", "no valid tickers in custom list"}
		}
		return tickers, nil
	}

	selected := m.Categories
	if len(categories) > 0 {
		selected = make([]Category, 0, len(categories))
		for _, id := range categories {
			c, ok := m.category(id)
			if !ok {
				return nil, ValidationError{"category", fmt.Sprintf("unknown category %q in market %s", id, m.ID)}
			}
			selected = append(selected, c)
		}
	}

	var raw []string
	for _, c := range selected {
		raw = append(raw, c.Tickers...)
	}
	return m.qualifyAll(raw), nil
}

func (m *Market) category(id string) (Category, bool) {
	for _, c := range m.Categories {
		if strings.EqualFold(c.ID, strings.TrimSpace(id)) {
			return c, true
		}
	}
	return Category{}, false
}

// Qualify upper-cases a ticker and appends the market suffix when the
// ticker has no exchange qualifier of its own.
func (m *Market) Qualify(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" || m.Suffix == "" || strings.Contains(t, ".") {
		return t
	}
	return t + strings.ToUpper(m.Suffix)
}

func (m *Market) qualifyAll(tickers []string) []string {
	out := make([]string, 0, len(tickers))
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		q := m.Qualify(t)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// ParseTickers splits free text on commas, semicolons and whitespace
func ParseTickers(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
