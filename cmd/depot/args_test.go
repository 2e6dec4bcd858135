package main

import "testing"

func TestValidateArgsGoldenPath(t *testing.T) {
	name, goods, code := validateArgs([]string{"warehouse-a", "apple", "10", "pear", "5"})
	if code != exitOK {
		t.Fatalf("exitCode = %d, want %d", code, exitOK)
	}
	if name != "warehouse-a" {
		t.Errorf("name = %q", name)
	}
	if goods["apple"] != 10 || goods["pear"] != 5 {
		t.Errorf("goods = %+v", goods)
	}
}

func TestValidateArgsNameOnly(t *testing.T) {
	name, goods, code := validateArgs([]string{"warehouse-a"})
	if code != exitOK {
		t.Fatalf("exitCode = %d, want %d", code, exitOK)
	}
	if name != "warehouse-a" || len(goods) != 0 {
		t.Errorf("name=%q goods=%+v", name, goods)
	}
}

func TestValidateArgsBadCount(t *testing.T) {
	cases := [][]string{
		{},
		{"warehouse-a", "apple"},
		{"warehouse-a", "apple", "10", "pear"},
	}
	for _, args := range cases {
		_, _, code := validateArgs(args)
		if code != exitBadArgCount {
			t.Errorf("validateArgs(%v) = %d, want %d", args, code, exitBadArgCount)
		}
	}
}

func TestValidateArgsInvalidName(t *testing.T) {
	cases := [][]string{
		{"", "apple", "10"},
		{"bad name", "apple", "10"},
		{"warehouse-a", "bad:good", "10"},
		{"warehouse-a", "", "10"},
	}
	for _, args := range cases {
		_, _, code := validateArgs(args)
		if code != exitInvalidName {
			t.Errorf("validateArgs(%v) = %d, want %d", args, code, exitInvalidName)
		}
	}
}

func TestValidateArgsInvalidQuantity(t *testing.T) {
	cases := [][]string{
		{"warehouse-a", "apple", "-1"},
		{"warehouse-a", "apple", "3a"},
		{"warehouse-a", "apple", ""},
		{"warehouse-a", "apple", "1.5"},
	}
	for _, args := range cases {
		_, _, code := validateArgs(args)
		if code != exitInvalidQuantity {
			t.Errorf("validateArgs(%v) = %d, want %d", args, code, exitInvalidQuantity)
		}
	}
}

func TestValidateArgsInterleavesNameAndQuantityPerPair(t *testing.T) {
	// The first pair's bad quantity must be reported before the second
	// pair's bad name is ever inspected.
	_, _, code := validateArgs([]string{"warehouse-a", "apple", "-5", "bad name", "3"})
	if code != exitInvalidQuantity {
		t.Errorf("exitCode = %d, want %d (first pair's quantity fails before second pair's name is checked)", code, exitInvalidQuantity)
	}
}

func TestValidateArgsZeroQuantityIsValid(t *testing.T) {
	_, goods, code := validateArgs([]string{"warehouse-a", "apple", "0"})
	if code != exitOK {
		t.Fatalf("exitCode = %d, want %d", code, exitOK)
	}
	if goods["apple"] != 0 {
		t.Errorf("goods = %+v", goods)
	}
}

func TestValidateArgsDuplicateGoodAccumulates(t *testing.T) {
	_, goods, code := validateArgs([]string{"warehouse-a", "apple", "4", "apple", "6"})
	if code != exitOK {
		t.Fatalf("exitCode = %d, want %d", code, exitOK)
	}
	if goods["apple"] != 10 {
		t.Errorf("apple = %d, want 10", goods["apple"])
	}
}

func TestParseNonNegativeQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"3a", 0, false},
		{"1.5", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseNonNegativeQuantity(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("parseNonNegativeQuantity(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsValidName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"warehouse-a", true},
		{"", false},
		{"has space", false},
		{"has:colon", false},
		{"has\nnewline", false},
	}
	for _, tc := range cases {
		if got := isValidName(tc.in); got != tc.want {
			t.Errorf("isValidName(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
