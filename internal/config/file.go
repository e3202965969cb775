package config

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the on-disk YAML configuration of tool runs.
// All fields are optional; zero values leave Options untouched.
type Profile struct {
	Dir            string            `yaml:"dir"`
	Env            map[string]string `yaml:"env"`
	ShellPatterns  []string          `yaml:"shell_patterns"`
	ShellRedirect  *bool             `yaml:"shell_redirect"`
	ShellLang      string            `yaml:"shell_lang"` // exported as LANG in shell mode
	ReadBufferSize int               `yaml:"read_buffer_size"`
	Synchronous    string            `yaml:"synchronous"` // auto, true or false
}

// LoadFile reads and validates a profile.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	profile := &Profile{}
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	if _, err := ParseSyncMode(profile.Synchronous); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}

	if profile.ReadBufferSize < 0 {
		return nil, fmt.Errorf("parsing profile %s: read_buffer_size must not be negative", path)
	}

	return profile, nil
}

// Apply copies the profile settings onto o. headless resolves
// "synchronous: auto".
func (p *Profile) Apply(o *Options, headless bool) {
	if p.Dir != "" {
		o.Dir = p.Dir
	}

	if len(p.Env) > 0 {
		if o.Env == nil {
			o.Env = make(map[string]string, len(p.Env))
		}

		maps.Copy(o.Env, p.Env)
	}

	if p.ShellPatterns != nil {
		o.ShellPatterns = p.ShellPatterns
	}

	if p.ShellRedirect != nil {
		redirect := *p.ShellRedirect
		o.ShellRedirect = &redirect
	}

	if p.ShellLang != "" {
		if o.Env == nil {
			o.Env = make(map[string]string, 1)
		}

		o.Env["LANG"] = p.ShellLang
		o.ShellLang = true
	}

	if p.ReadBufferSize > 0 {
		o.ReadBufferSize = p.ReadBufferSize
	}

	if p.Synchronous != "" {
		// LoadFile already rejected invalid modes.
		mode, _ := ParseSyncMode(p.Synchronous)
		o.SynchronousExecution = mode.Resolve(headless)
	}
}
