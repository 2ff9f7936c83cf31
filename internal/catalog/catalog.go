// Package catalog provides the static option lists the booking wizard offers:
// artists, placements, sizes, budget tiers and time slots.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mark3labs/inkbook/internal/booking"
	"github.com/mark3labs/inkbook/internal/logger"
	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultCatalog []byte

// Artist is a bookable artist.
type Artist struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Style string `yaml:"style,omitempty"`
	Bio   string `yaml:"bio,omitempty"`
}

// Option is one entry in a placement, size or budget list.
type Option struct {
	ID     string `yaml:"id"`
	Label  string `yaml:"label"`
	Detail string `yaml:"detail,omitempty"`
}

// TimeSlot is a bookable start time. Availability is supplied externally.
type TimeSlot struct {
	Time      string `yaml:"time"`
	Available bool   `yaml:"available"`
}

// Catalog is the full set of options presented by the wizard.
type Catalog struct {
	Studio            string     `yaml:"studio"`
	Artists           []Artist   `yaml:"artists"`
	Placements        []Option   `yaml:"placements"`
	Sizes             []Option   `yaml:"sizes"`
	Budgets           []Option   `yaml:"budgets"`
	TimeSlots         []TimeSlot `yaml:"time_slots"`
	BookingWindowDays int        `yaml:"booking_window_days"`
}

var slotTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	logger.Debug("Loaded catalog from %s (%d artists, %d slots)", path, len(c.Artists), len(c.TimeSlots))
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	// Artist IDs are optional in the file and derived from the name.
	for i := range c.Artists {
		if c.Artists[i].ID == "" {
			c.Artists[i].ID = slug.Make(c.Artists[i].Name)
		}
	}
	if c.BookingWindowDays <= 0 {
		c.BookingWindowDays = 30
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every list is present and IDs are unique.
func (c *Catalog) Validate() error {
	if len(c.Artists) == 0 {
		return fmt.Errorf("catalog has no artists")
	}
	seen := make(map[string]bool)
	for _, a := range c.Artists {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("artist entries need a name")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate artist id: %s", a.ID)
		}
		seen[a.ID] = true
	}

	lists := []struct {
		name    string
		options []Option
	}{
		{"placements", c.Placements},
		{"sizes", c.Sizes},
		{"budgets", c.Budgets},
	}
	for _, l := range lists {
		if err := validateOptions(l.name, l.options); err != nil {
			return err
		}
	}

	if len(c.TimeSlots) == 0 {
		return fmt.Errorf("catalog has no time slots")
	}
	slots := make(map[string]bool)
	for _, s := range c.TimeSlots {
		if !slotTimePattern.MatchString(s.Time) {
			return fmt.Errorf("invalid time slot %q (want HH:MM)", s.Time)
		}
		if slots[s.Time] {
			return fmt.Errorf("duplicate time slot: %s", s.Time)
		}
		slots[s.Time] = true
	}
	return nil
}

func validateOptions(name string, options []Option) error {
	if len(options) == 0 {
		return fmt.Errorf("catalog has no %s", name)
	}
	seen := make(map[string]bool)
	for _, o := range options {
		if o.ID == "" || o.Label == "" {
			return fmt.Errorf("%s entries need an id and a label", name)
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate %s id: %s", strings.TrimSuffix(name, "s"), o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

// Options returns the selectable options for a field as generic entries.
// Artists map Name to Label and Style to Detail; time slots use the time as
// both ID and label. Fields without a catalog return nil.
func (c *Catalog) Options(field booking.Field) []Option {
	switch field {
	case booking.FieldArtist:
		out := make([]Option, 0, len(c.Artists))
		for _, a := range c.Artists {
			out = append(out, Option{ID: a.ID, Label: a.Name, Detail: a.Style})
		}
		return out
	case booking.FieldPlacement:
		return c.Placements
	case booking.FieldSize:
		return c.Sizes
	case booking.FieldBudget:
		return c.Budgets
	case booking.FieldTime:
		out := make([]Option, 0, len(c.TimeSlots))
		for _, s := range c.TimeSlots {
			detail := ""
			if !s.Available {
				detail = "booked"
			}
			out = append(out, Option{ID: s.Time, Label: s.Time, Detail: detail})
		}
		return out
	}
	return nil
}

// Lookup finds the option with the given ID for a field.
func (c *Catalog) Lookup(field booking.Field, id string) (Option, bool) {
	for _, o := range c.Options(field) {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Label returns the display label for an option ID, or the ID itself when
// the option is unknown.
func (c *Catalog) Label(field booking.Field, id string) string {
	if o, ok := c.Lookup(field, id); ok {
		return o.Label
	}
	return id
}

// Slot returns the time slot with the given start time.
func (c *Catalog) Slot(t string) (TimeSlot, bool) {
	for _, s := range c.TimeSlots {
		if s.Time == t {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// Artist returns the artist with the given ID.
func (c *Catalog) Artist(id string) (Artist, bool) {
	for _, a := range c.Artists {
		if a.ID == id {
			return a, true
		}
	}
	return Artist{}, false
}

// Marshal encodes the catalog back to YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	return data, nil
}
