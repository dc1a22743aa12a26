package domain

import (
	"encoding/json"
	"fmt"
)

// FieldType enumerates the form field kinds the relay can render.
type FieldType string

const (
	FieldString           FieldType = "String"
	FieldPhone            FieldType = "Phone"
	FieldEmail            FieldType = "Email"
	FieldRichText         FieldType = "RichText"
	FieldNumber           FieldType = "Number"
	FieldDate             FieldType = "Date"
	FieldBoolean          FieldType = "Boolean"
	FieldScore            FieldType = "Score"
	FieldValueSelect      FieldType = "ValueSelect"
	FieldMultiValueSelect FieldType = "MultiValueSelect"
)

func (t FieldType) Supported() bool {
	switch t {
	case FieldString, FieldPhone, FieldEmail, FieldRichText, FieldNumber,
		FieldDate, FieldBoolean, FieldScore, FieldValueSelect, FieldMultiValueSelect:
		return true
	default:
		return false
	}
}

type SelectableValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Field struct {
	Path              string            `json:"path"`
	Type              FieldType         `json:"type"`
	Title             string            `json:"title"`
	HumanReadablePath string            `json:"humanReadablePath"`
	IsRequired        bool              `json:"isRequired"`
	SelectableValues  []SelectableValue `json:"selectableValues"`
}

// Label is the text shown next to the field.
func (f Field) Label() string {
	switch {
	case f.Title != "":
		return f.Title
	case f.HumanReadablePath != "":
		return f.HumanReadablePath
	default:
		return "Field"
	}
}

type FieldConfig struct {
	Field      Field `json:"field"`
	IsRequired bool  `json:"isRequired"`
}

type Section struct {
	Title  string        `json:"title"`
	Fields []FieldConfig `json:"fields"`
}

// FormDefinition is the typed view of a cached definition document.
type FormDefinition struct {
	ID         string
	Title      string
	IsArchived bool
	Sections   []Section
}

type formDocument struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	IsArchived     bool       `json:"isArchived"`
	Sections       []Section  `json:"sections"`
	FormDefinition *formInner `json:"formDefinition"`
}

type formInner struct {
	Sections []Section `json:"sections"`
}

// ParseFormDefinition accepts both the nested formDefinition.sections shape
// and a document carrying sections at the top level.
func ParseFormDefinition(raw []byte) (*FormDefinition, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidFormDefinition)
	}
	var doc formDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormDefinition, err)
	}
	sections := doc.Sections
	if doc.FormDefinition != nil {
		sections = doc.FormDefinition.Sections
	}
	return &FormDefinition{
		ID:         doc.ID,
		Title:      doc.Title,
		IsArchived: doc.IsArchived,
		Sections:   sections,
	}, nil
}

// FieldTypes maps each field path to its type.
func (d *FormDefinition) FieldTypes() map[string]FieldType {
	types := make(map[string]FieldType)
	if d == nil {
		return types
	}
	for _, section := range d.Sections {
		for _, cfg := range section.Fields {
			if cfg.Field.Path == "" {
				continue
			}
			types[cfg.Field.Path] = cfg.Field.Type
		}
	}
	return types
}
