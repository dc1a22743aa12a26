package slackui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	catalog "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
	"github.com/smallbiznis/feedbackrelay/internal/providers/ashby"
)

// ActionState is the current value of one element in a view's state.
type ActionState struct {
	Type            string   `json:"type"`
	Value           *string  `json:"value"`
	SelectedDate    *string  `json:"selected_date"`
	SelectedOption  *Option  `json:"selected_option"`
	SelectedOptions []Option `json:"selected_options"`
}

// StateValues is view.state.values keyed by block id, then action id.
type StateValues map[string]map[string]ActionState

type fieldState struct {
	path   string
	action ActionState
}

// fields returns the form field inputs ordered by block id.
func (s StateValues) fields() []fieldState {
	blockIDs := make([]string, 0, len(s))
	for blockID := range s {
		if strings.HasPrefix(blockID, FieldBlockPrefix) {
			blockIDs = append(blockIDs, blockID)
		}
	}
	sort.Strings(blockIDs)

	out := make([]fieldState, 0, len(blockIDs))
	for _, blockID := range blockIDs {
		actions := s[blockID]
		if len(actions) == 0 {
			continue
		}
		actionIDs := make([]string, 0, len(actions))
		for id := range actions {
			actionIDs = append(actionIDs, id)
		}
		sort.Strings(actionIDs)
		out = append(out, fieldState{
			path:   strings.TrimPrefix(blockID, FieldBlockPrefix),
			action: actions[actionIDs[0]],
		})
	}
	return out
}

// DraftValues extracts the in-progress values keyed by field path.
func (s StateValues) DraftValues() map[string]any {
	values := make(map[string]any)
	for _, f := range s.fields() {
		a := f.action
		switch a.Type {
		case "plain_text_input", "email_text_input", "number_input":
			values[f.path] = optional(a.Value)
		case "datepicker":
			values[f.path] = optional(a.SelectedDate)
		case "checkboxes":
			values[f.path] = len(a.SelectedOptions) > 0
		case "static_select":
			if a.SelectedOption != nil {
				values[f.path] = a.SelectedOption.Value
			}
		case "multi_static_select":
			values[f.path] = optionValues(a.SelectedOptions)
		}
	}
	return values
}

// FieldSubmissions converts the state into the tracking system's submission
// format, using the form's field types where the element alone is ambiguous.
func (s StateValues) FieldSubmissions(types map[string]catalog.FieldType) ([]ashby.FieldSubmission, error) {
	var out []ashby.FieldSubmission
	for _, f := range s.fields() {
		a := f.action
		var value any
		switch a.Type {
		case "plain_text_input":
			if a.Value != nil {
				value = *a.Value
				if *a.Value != "" && types[f.path] == catalog.FieldRichText {
					value = map[string]any{"type": "PlainText", "value": *a.Value}
				}
			}
		case "email_text_input":
			value = optional(a.Value)
		case "number_input":
			if a.Value != nil && *a.Value != "" {
				n, err := strconv.Atoi(strings.TrimSpace(*a.Value))
				if err != nil {
					return nil, fmt.Errorf("field %s: invalid number %q", f.path, *a.Value)
				}
				value = n
			}
		case "datepicker":
			value = optional(a.SelectedDate)
		case "checkboxes":
			value = len(a.SelectedOptions) > 0
		case "static_select":
			if a.SelectedOption != nil {
				if types[f.path] == catalog.FieldScore {
					n, err := strconv.Atoi(a.SelectedOption.Value)
					if err != nil {
						return nil, fmt.Errorf("field %s: invalid score %q", f.path, a.SelectedOption.Value)
					}
					value = map[string]any{"score": n}
				} else {
					value = a.SelectedOption.Value
				}
			}
		case "multi_static_select":
			value = optionValues(a.SelectedOptions)
		}
		if value == nil {
			continue
		}
		out = append(out, ashby.FieldSubmission{Path: f.path, Value: value})
	}
	return out, nil
}

// optional returns nil for an absent value so it is stored as JSON null.
func optional(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionValues(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Value)
	}
	return out
}
