package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+447700900123", "+1 (415) 555-0123", "447700900123"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Fatalf("%q should be valid", phone)
		}
	}

	invalid := []string{"", "abc", "+0123456", "+12345", "123456789012345678"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Fatalf("%q should be invalid", phone)
		}
	}
}
