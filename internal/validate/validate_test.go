package validate

import (
	"testing"
	"time"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"john@x.com", true},
		{"ana.silva@empresa.com.br", true},
		{"first_last-99@mail-srv.io", true},
		{"no-at-sign.com", false},
		{"user@domain", false},
		{"@missing.local", false},
		{"", false},
	}

	for _, tc := range cases {
		err := Email(tc.input)
		if tc.ok && err != nil {
			t.Fatalf("Email(%q): unexpected rejection: %v", tc.input, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("Email(%q): expected rejection", tc.input)
		}
	}
}

func TestFullName(t *testing.T) {
	if err := FullName("Ana"); err == nil {
		t.Fatal("single token should be rejected")
	}
	if err := FullName("Ana Silva"); err != nil {
		t.Fatalf("two tokens should be accepted: %v", err)
	}
	if err := FullName("  Ana   Maria  Silva "); err != nil {
		t.Fatalf("extra whitespace should not matter: %v", err)
	}
}

func TestBirthDate(t *testing.T) {
	fixed := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	if err := BirthDate("31/02/2020"); err == nil {
		t.Fatal("impossible calendar date should be rejected")
	}
	if err := BirthDate("15/06/1990"); err != nil {
		t.Fatalf("ordinary date should be accepted: %v", err)
	}
	if err := BirthDate("01/01/2030"); err == nil {
		t.Fatal("future date should be rejected")
	}
	if err := BirthDate("not-a-date"); err == nil {
		t.Fatal("unparsable input should be rejected")
	}
}

func TestBirthDateAgeBoundary(t *testing.T) {
	birth := time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)

	// 120 years at 365.25 days per year is exactly 43830 days.
	now = func() time.Time { return birth.Add(43830 * 24 * time.Hour) }
	if err := BirthDate("01/03/1900"); err != nil {
		t.Fatalf("age of exactly 120 should be accepted: %v", err)
	}

	now = func() time.Time { return birth.Add(43830*24*time.Hour + time.Hour) }
	if err := BirthDate("01/03/1900"); err == nil {
		t.Fatal("age above 120 should be rejected")
	}

	now = time.Now
}

func TestPhone(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"123456789", false},
		{"1234567890", true},
		{"12345678901", true},
		{"123456789012", false},
		{"(11) 91234-5678", true},
		{"+55 11 1234-5678", false}, // 12 digits once the country code counts
		{"phone", false},
	}

	for _, tc := range cases {
		err := Phone(tc.input)
		if tc.ok && err != nil {
			t.Fatalf("Phone(%q): unexpected rejection: %v", tc.input, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("Phone(%q): expected rejection", tc.input)
		}
	}
}
