package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/weft-dev/weft/internal/config"
	"github.com/weft-dev/weft/pkg/vdom"
)

// loadProject resolves the config, data file, and template file, applying
// command-line overrides on top of weft.json.
func loadProject(configDir, dataPath, templatePath string) (*config.Config, map[string]any, string, error) {
	var cfg *config.Config
	var err error
	if configDir != "" {
		cfg, err = config.Load(configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, "", fmt.Errorf("invalid config: %w", err)
	}

	if dataPath == "" {
		dataPath = cfg.DataPath()
	}
	if templatePath == "" {
		templatePath = cfg.TemplatePath()
	}

	data, err := loadData(dataPath)
	if err != nil {
		return nil, nil, "", err
	}

	tpl, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read template: %w", err)
	}

	return cfg, data, string(tpl), nil
}

// loadData reads a YAML document into the top-level data object.
func loadData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	data := map[string]any{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse data: %w", err)
	}
	return data, nil
}

// buildTree turns a template file into a renderable tree: one paragraph
// per non-empty line, so each line with markers becomes its own region.
func buildTree(template string) *vdom.VNode {
	var children []any
	for _, line := range strings.Split(template, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		children = append(children, vdom.El("p", vdom.Text(line)))
	}
	return vdom.El("main", children...)
}
