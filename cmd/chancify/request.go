package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/chancify/chancify/internal/predict"
	"github.com/chancify/chancify/internal/profile"
)

// Request is the on-disk prediction request: a student, a college, and
// optional prediction settings.
type Request struct {
	Student profile.StudentProfile `json:"student" yaml:"student"`
	College profile.College        `json:"college" yaml:"college"`
	Options *requestOptions        `json:"options,omitempty" yaml:"options,omitempty"`
}

type requestOptions struct {
	ModelName  string `json:"model_name" yaml:"model_name"`
	UseFormula *bool  `json:"use_formula" yaml:"use_formula"`
}

// PredictOptions converts file options onto the defaults.
func (r Request) PredictOptions() predict.Options {
	opts := predict.DefaultOptions()
	if r.Options == nil {
		return opts
	}
	if r.Options.ModelName != "" {
		opts.ModelName = r.Options.ModelName
	}
	if r.Options.UseFormula != nil {
		opts.UseFormula = *r.Options.UseFormula
	}
	return opts
}

// loadRequest reads a request from a YAML or JSON file, detected by
// extension.
func loadRequest(path string) (Request, error) {
	var req Request

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return req, fmt.Errorf("parse request %s: %w", path, err)
		}
	}

	if req.College.Name == "" {
		return req, fmt.Errorf("request %s: college name is required", path)
	}
	return req, nil
}

// jsonOutput reports whether output should be machine-readable: forced by
// flag, or stdout is not a terminal.
func jsonOutput(forced bool) bool {
	if forced {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
