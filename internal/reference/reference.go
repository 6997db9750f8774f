package reference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hackgods/clinic-calendar/internal/appointment"
)

// Entity is a patient or doctor the front desk can pick from.
type Entity struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

type TypeInfo struct {
	Value           appointment.Type `json:"value" yaml:"value" validate:"required"`
	Label           string           `json:"label" yaml:"label" validate:"required"`
	DefaultDuration int              `json:"defaultDuration" yaml:"defaultDuration" validate:"min=15,max=240"`
}

// Catalog is the reference data shown next to the calendar. Appointments
// only ever store the ids; nothing checks that an id is listed here.
type Catalog struct {
	Patients []Entity   `json:"patients" yaml:"patients" validate:"min=1,dive"`
	Doctors  []Entity   `json:"doctors" yaml:"doctors" validate:"min=1,dive"`
	Types    []TypeInfo `json:"types,omitempty" yaml:"types,omitempty" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Default() Catalog {
	return Catalog{
		Patients: []Entity{
			{ID: "p1", Name: "John Smith"},
			{ID: "p2", Name: "Sarah Johnson"},
			{ID: "p3", Name: "Michael Brown"},
			{ID: "p4", Name: "Emily Davis"},
			{ID: "p5", Name: "Robert Wilson"},
			{ID: "p6", Name: "Lisa Anderson"},
		},
		Doctors: []Entity{
			{ID: "d1", Name: "Dr. Emma Carter"},
			{ID: "d2", Name: "Dr. James Lee"},
			{ID: "d3", Name: "Dr. Olivia Martinez"},
		},
		Types: DefaultTypes(),
	}
}

func DefaultTypes() []TypeInfo {
	return []TypeInfo{
		{Value: appointment.TypeConsultation, Label: "Consultation", DefaultDuration: 30},
		{Value: appointment.TypeFollowUp, Label: "Follow-up", DefaultDuration: 30},
		{Value: appointment.TypeEmergency, Label: "Emergency", DefaultDuration: 60},
		{Value: appointment.TypeRoutine, Label: "Routine Check", DefaultDuration: 30},
		{Value: appointment.TypeProcedure, Label: "Procedure", DefaultDuration: 60},
	}
}

// LoadFile reads a clinicEntities.json style document, or its YAML
// equivalent when the file ends in .yaml or .yml. A file without a types
// list gets the default appointment types.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read reference data: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	}
	return Parse(data)
}

func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode reference data: %w", err)
	}
	return c.normalize()
}

func ParseYAML(data []byte) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("decode reference data: %w", err)
	}
	return c.normalize()
}

func (c Catalog) normalize() (Catalog, error) {
	if len(c.Types) == 0 {
		c.Types = DefaultTypes()
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid reference data: %w", err)
	}
	if err := uniqueIDs("patient", c.Patients); err != nil {
		return err
	}
	if err := uniqueIDs("doctor", c.Doctors); err != nil {
		return err
	}
	for _, t := range c.Types {
		if !t.Value.IsValid() {
			return fmt.Errorf("invalid reference data: unknown appointment type %q", t.Value)
		}
	}
	return nil
}

func uniqueIDs(kind string, entities []Entity) error {
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("invalid reference data: duplicate %s id %q", kind, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Name looks up an entity name by id, returning "" when unknown.
func Name(entities []Entity, id string) string {
	for _, e := range entities {
		if e.ID == id {
			return e.Name
		}
	}
	return ""
}
