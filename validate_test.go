package formz

import "testing"

func TestRule(t *testing.T) {
	for _, tc := range []struct {
		name  string
		tag   string
		value any
		want  string
	}{
		{"required missing", "required", "", "required"},
		{"required nil", "required", nil, "required"},
		{"required present", "required", "x", ""},
		{"email invalid", "required,email", "nope", "must satisfy email"},
		{"email valid", "required,email", "a@b.com", ""},
		{"min too short", "min=8", "short", "must satisfy min=8"},
		{"min long enough", "min=8", "long enough", ""},
		{"omitempty skips", "omitempty,email", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rule(tc.tag)(tc.value, nil); got != tc.want {
				t.Errorf("Rule(%q)(%v) = %q, want %q", tc.tag, tc.value, got, tc.want)
			}
		})
	}
}

func TestRuleMessage(t *testing.T) {
	v := RuleMessage("required,email", "enter a valid email")

	if got := v("nope", nil); got != "enter a valid email" {
		t.Errorf("expected custom message, got %q", got)
	}
	if got := v("a@b.com", nil); got != "" {
		t.Errorf("expected no diagnostic, got %q", got)
	}
}

func TestChain(t *testing.T) {
	matches := func(other string) Validator {
		return func(v any, values map[string]any) string {
			if v != values[other] {
				return "must match " + other
			}
			return ""
		}
	}
	v := Chain(nil, Rule("required"), matches("password"))
	values := map[string]any{"password": "secret"}

	if got := v("", values); got != "required" {
		t.Errorf("expected first failing validator to win, got %q", got)
	}
	if got := v("other", values); got != "must match password" {
		t.Errorf("expected cross-field diagnostic, got %q", got)
	}
	if got := v("secret", values); got != "" {
		t.Errorf("expected no diagnostic, got %q", got)
	}
}

func TestRule_CrossFieldThroughForm(t *testing.T) {
	reg := newTestRegistry(t)
	form := reg.Form("signup", WithDebounce(0))
	password := reg.Field(form, "password", WithInitialValue("secret"))
	confirm := reg.Field(form, "confirm", WithValidator(func(v any, values map[string]any) string {
		if v != values["password"] {
			return "passwords differ"
		}
		return ""
	}))

	confirm.OnChange("secret")
	if got := confirm.RawError(); got != "" {
		t.Errorf("expected match, got %q", got)
	}

	password.OnChange("changed")
	confirm.TriggerValidation()
	if got := confirm.RawError(); got != "passwords differ" {
		t.Errorf("expected mismatch after password change, got %q", got)
	}
}
