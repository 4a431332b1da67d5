package types

// Property is the effective value of a configuration key and where it came from
type Property struct {
	Key       string
	Value     string // plaintext, decrypted when Encrypted
	Raw       string // value as read from the source
	Source    string // e.g., "env", "file:config/application.yaml"
	Encrypted bool
	Sensitive bool
}

// Display returns the value to show to humans
func (p Property) Display(reveal bool) string {
	if p.Sensitive && !reveal {
		return Mask(p.Value)
	}
	return p.Value
}

// Mask hides a sensitive value entirely
func Mask(value string) string {
	if value == "" {
		return ""
	}
	return "****"
}
