package utils

import (
	"reflect"
	"testing"
)

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		{"x", 5, 5},
		{" 42", 7, 7}, // no trimming
		{"999999999999999999999999", -1, -1},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt("", 10, 1, 50); got != 10 {
		t.Fatalf("default: %d", got)
	}
	if got := ClampInt("0", 10, 1, 50); got != 1 {
		t.Fatalf("low clamp: %d", got)
	}
	if got := ClampInt("500", 10, 1, 50); got != 50 {
		t.Fatalf("high clamp: %d", got)
	}
}

func TestParseID(t *testing.T) {
	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := ParseID(bad); err != ErrBadID {
			t.Fatalf("ParseID(%q) err = %v; want ErrBadID", bad, err)
		}
	}
	if id, err := ParseID(" 17 "); err != nil || id != 17 {
		t.Fatalf("ParseID = %d, %v", id, err)
	}
	if id, err := ParseOptionalID(""); err != nil || id != 0 {
		t.Fatalf("ParseOptionalID(\"\") = %d, %v", id, err)
	}
	if _, err := ParseOptionalID("x"); err == nil {
		t.Fatalf("ParseOptionalID(x) should fail")
	}
}

func TestParseChatID(t *testing.T) {
	if id, err := ParseChatID("-100200"); err != nil || id != -100200 {
		t.Fatalf("ParseChatID = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "", "chat"} {
		if _, err := ParseChatID(bad); err == nil {
			t.Fatalf("ParseChatID(%q) should fail", bad)
		}
	}
}

func TestParseIDs(t *testing.T) {
	got, err := ParseIDs([]string{"1,2", " 3 ", "", "4,"})
	if err != nil || !reflect.DeepEqual(got, []int64{1, 2, 3, 4}) {
		t.Fatalf("ParseIDs = %v, %v", got, err)
	}
	if _, err := ParseIDs([]string{"1,x"}); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if got, err := ParseIDs(nil); err != nil || got != nil {
		t.Fatalf("ParseIDs(nil) = %v, %v", got, err)
	}
}

func TestParseOptionalBool(t *testing.T) {
	if b, err := ParseOptionalBool(""); b != nil || err != nil {
		t.Fatalf("empty should be nil")
	}
	if b, err := ParseOptionalBool("true"); err != nil || b == nil || !*b {
		t.Fatalf("true parse failed")
	}
	if _, err := ParseOptionalBool("maybe"); err == nil {
		t.Fatalf("expected parse error")
	}
}
