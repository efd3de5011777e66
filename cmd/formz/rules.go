package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/formz"
	"gopkg.in/yaml.v3"
)

// ruleSet describes a form: its name and the rules of each field.
type ruleSet struct {
	Form   string      `yaml:"form" validate:"required"`
	Fields []fieldRule `yaml:"fields" validate:"required,min=1,dive"`
}

type fieldRule struct {
	Name     string `yaml:"name" validate:"required"`
	Rule     string `yaml:"rule"`
	Message  string `yaml:"message"`
	Initial  any    `yaml:"initial"`
	Disabled bool   `yaml:"disabled"`
}

var validate = validator.New()

func loadRules(path string) (*ruleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	var rs ruleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rules %s: %w", path, err)
	}
	if err := validate.Struct(rs); err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return &rs, nil
}

// build registers rs's form and fields in reg.
func (rs *ruleSet) build(reg *formz.Registry, opts ...formz.FormOption) *formz.Form {
	form := reg.Form(rs.Form, opts...)
	for _, fr := range rs.Fields {
		var fieldOpts []formz.FieldOption
		switch {
		case fr.Rule != "" && fr.Message != "":
			fieldOpts = append(fieldOpts, formz.WithValidator(formz.RuleMessage(fr.Rule, fr.Message)))
		case fr.Rule != "":
			fieldOpts = append(fieldOpts, formz.WithValidator(formz.Rule(fr.Rule)))
		}
		if fr.Initial != nil {
			fieldOpts = append(fieldOpts, formz.WithInitialValue(fr.Initial))
		}
		f := reg.Field(form, fr.Name, fieldOpts...)
		f.SetDisabled(fr.Disabled)
	}
	return form
}

// codecFor picks a codec from the file extension. YAML accepts JSON too.
func codecFor(path string) formz.Codec {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return formz.JSONCodec{}
	}
	return formz.YAMLCodec{}
}

func loadValues(form *formz.Form, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read values: %w", err)
	}
	if err := form.Load(codecFor(path), data); err != nil {
		return fmt.Errorf("failed to load values %s: %w", path, err)
	}
	return nil
}

// report writes one line per active field error and returns how many there
// were. Disabled fields are skipped.
func report(w io.Writer, form *formz.Form) int {
	n := 0
	for _, name := range form.FieldNames() {
		f, ok := form.Field(name)
		if !ok || f.Disabled() {
			continue
		}
		if msg := f.RawError(); msg != "" {
			fmt.Fprintf(w, "%s: %s\n", name, msg)
			n++
		}
	}
	return n
}
