package slackui

import (
	"strconv"

	catalog "github.com/smallbiznis/feedbackrelay/internal/catalog/domain"
)

var scoreLabels = []string{"Strong No Hire", "No Hire", "Hire", "Strong Hire"}

// inputBlock builds the input for one form field. The second return is false
// for field types the modal cannot render.
func inputBlock(cfg catalog.FieldConfig, draft any) (InputBlock, bool) {
	field := cfg.Field
	block := InputBlock{
		Type:     "input",
		BlockID:  FieldBlockPrefix + field.Path,
		Label:    PlainText(field.Label()),
		Optional: !cfg.IsRequired,
	}
	el := Element{ActionID: field.Path}

	switch field.Type {
	case catalog.FieldString, catalog.FieldPhone:
		el.Type = "plain_text_input"
		if truthy(draft) {
			el.InitialValue = stringify(draft)
		}
	case catalog.FieldEmail:
		el.Type = "email_text_input"
		if truthy(draft) {
			el.InitialValue = stringify(draft)
		}
	case catalog.FieldRichText:
		el.Type = "plain_text_input"
		el.Multiline = true
		el.DispatchActionConfig = &DispatchActionConfig{TriggerActionsOn: []string{"on_enter_pressed"}}
		block.DispatchAction = true
		if truthy(draft) {
			value := draft
			if m, ok := draft.(map[string]any); ok {
				value = m["value"]
			}
			if truthy(value) {
				el.InitialValue = stringify(value)
			}
		}
	case catalog.FieldNumber:
		el.Type = "number_input"
		decimals := false
		el.IsDecimalAllowed = &decimals
		if truthy(draft) {
			el.InitialValue = stringify(draft)
		}
	case catalog.FieldDate:
		el.Type = "datepicker"
		if s, ok := draft.(string); ok && s != "" {
			el.InitialDate = s
		}
	case catalog.FieldBoolean:
		el.Type = "checkboxes"
		only := Option{Text: PlainText(field.Label()), Value: "true"}
		el.Options = []Option{only}
		if truthy(draft) {
			el.InitialOptions = []Option{only}
		}
	case catalog.FieldScore:
		el.Type = "static_select"
		for i, label := range scoreLabels {
			v := strconv.Itoa(i + 1)
			el.Options = append(el.Options, Option{Text: PlainText(v + " - " + label), Value: v})
		}
		score := draft
		if m, ok := draft.(map[string]any); ok {
			score = m["score"]
		}
		if truthy(score) {
			el.InitialOption = findOption(el.Options, stringify(score))
		}
	case catalog.FieldValueSelect:
		el.Type = "static_select"
		el.Options = selectOptions(field.SelectableValues)
		if s, ok := draft.(string); ok && s != "" {
			el.InitialOption = findOption(el.Options, s)
		}
	case catalog.FieldMultiValueSelect:
		el.Type = "multi_static_select"
		el.Options = selectOptions(field.SelectableValues)
		if selected := stringSet(draft); len(selected) > 0 {
			for _, opt := range el.Options {
				if _, ok := selected[opt.Value]; ok {
					el.InitialOptions = append(el.InitialOptions, opt)
				}
			}
		}
	default:
		return InputBlock{}, false
	}

	block.Element = el
	return block, true
}

func selectOptions(values []catalog.SelectableValue) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Text: PlainText(v.Label), Value: v.Value})
	}
	return out
}

func findOption(options []Option, value string) *Option {
	for i := range options {
		if options[i].Value == value {
			opt := options[i]
			return &opt
		}
	}
	return nil
}

func stringSet(v any) map[string]struct{} {
	out := make(map[string]struct{})
	switch x := v.(type) {
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok {
				out[s] = struct{}{}
			}
		}
	case []string:
		for _, s := range x {
			out[s] = struct{}{}
		}
	}
	return out
}
