package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type personasFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadPersonas reads the personas.yml roster. Token fields may reference
// environment variables with ${VAR} so secrets stay out of the file.
func LoadPersonas(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}

	var file personasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse personas file: %w", err)
	}

	if len(file.Personas) == 0 {
		return nil, fmt.Errorf("no personas defined in %s", path)
	}

	seen := make(map[string]bool)
	for i := range file.Personas {
		p := &file.Personas[i]
		if p.Name == "" {
			return nil, fmt.Errorf("persona %d has no name", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate persona name: %s", p.Name)
		}
		seen[p.Name] = true

		p.TelegramToken = os.ExpandEnv(p.TelegramToken)
		p.DiscordToken = os.ExpandEnv(p.DiscordToken)

		if p.TelegramToken == "" && p.DiscordToken == "" {
			return nil, fmt.Errorf("persona %s has no transport token", p.Name)
		}
	}

	return file.Personas, nil
}
