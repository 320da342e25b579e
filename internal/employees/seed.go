// Package employees manages the fixed AI employee roster. The roster ships
// with the binary: personas are seeded into the database at startup and can
// be edited afterwards, but the API exposes no create or delete operations.
package employees

import (
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/briefhub-dev/briefhub/internal/models"
)

//go:embed personas.yaml
var personasYAML []byte

type personaFile struct {
	Employees []Persona `yaml:"employees"`
}

type Persona struct {
	Name         string `yaml:"name"`
	Role         string `yaml:"role"`
	Email        string `yaml:"email"`
	SystemPrompt string `yaml:"system_prompt"`
	Model        string `yaml:"model"`
}

// LoadRoster parses the embedded persona definitions
func LoadRoster() ([]Persona, error) {
	var file personaFile
	if err := yaml.Unmarshal(personasYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse embedded personas: %w", err)
	}
	if len(file.Employees) == 0 {
		return nil, fmt.Errorf("embedded persona roster is empty")
	}
	for _, p := range file.Employees {
		if p.Name == "" || p.SystemPrompt == "" {
			return nil, fmt.Errorf("persona %q is missing a name or system prompt", p.Name)
		}
	}
	return file.Employees, nil
}

// Seed inserts any roster personas missing from the database. Existing rows
// are left untouched so admin edits survive restarts.
func Seed(db *gorm.DB, log zerolog.Logger) error {
	roster, err := LoadRoster()
	if err != nil {
		return err
	}

	for _, p := range roster {
		var existing models.Employee
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to look up employee %q: %w", p.Name, err)
		}

		employee := models.Employee{
			Name:         p.Name,
			Role:         p.Role,
			Email:        p.Email,
			SystemPrompt: p.SystemPrompt,
			Model:        p.Model,
			IsActive:     true,
		}
		if err := db.Create(&employee).Error; err != nil {
			return fmt.Errorf("failed to seed employee %q: %w", p.Name, err)
		}

		log.Info().Str("employee", p.Name).Str("role", p.Role).Msg("Seeded AI employee")
	}

	return nil
}
