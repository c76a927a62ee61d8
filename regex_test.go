package refsm

import (
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"simple literal", "hello", false},
		{"digit", `\d`, false},
		{"word", `\w+`, false},
		{"alternation", "foo|bar", false},
		{"repetition", "a+", false},
		{"char class", "[a-c]+", false},
		{"invalid", "(", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("Compile(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
				return
			}
			if !tt.wantErr && re == nil {
				t.Error("Compile() returned nil")
			}
		})
	}
}

func TestMustCompilePanicsOnInvalidPattern(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCompile() did not panic on invalid pattern")
		}
	}()
	MustCompile("(")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"simple match", "hello", "hello world", true},
		{"no match", "hello", "goodbye world", false},
		{"digit match", `\d`, "age 42", true},
		{"digit no match", `\d`, "no digits here", false},
		{"alternation first", "foo|bar", "a foo walks in", true},
		{"alternation second", "foo|bar", "a bar walks in", true},
		{"alternation neither", "foo|bar", "a baz walks in", false},
		{"star zero", "a*b", "b", true},
		{"star many", "a*b", "aaaab", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got := re.Match([]byte(tt.input)); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFullMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"exact literal", "hello", "hello", true},
		{"literal with suffix rejected", "hello", "hello world", false},
		{"char class full", "[a-c]+", "abcba", true},
		{"char class with outlier", "[a-c]+", "abcd", false},
		{"star alternation empty", "a*|b*", "", true},
		{"star alternation mixed rejected", "a*|b*", "ab", false},
		{"concat star", "a*b", "aaaab", true},
		{"concat star wrong tail", "a*b", "aaaaba", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.FullMatchString(tt.input); got != tt.want {
				t.Errorf("FullMatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got := re.FullMatch([]byte(tt.input)); got != tt.want {
				t.Errorf("FullMatch(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFullMatchFallsBackWhenClassicalConstructionRefused(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.MaxDFAStates = 1
	re, err := CompileWithConfig("[a-c]+", cfg)
	if err != nil {
		t.Fatalf("CompileWithConfig failed: %v", err)
	}
	if re.classical != nil {
		t.Fatal("expected classical DFA construction to be refused under a 1-state budget")
	}
	if !re.FullMatchString("abc") {
		t.Error("FullMatchString(\"abc\") = false, want true via PikeVM fallback")
	}
	if re.FullMatchString("abcd") {
		t.Error("FullMatchString(\"abcd\") = true, want false via PikeVM fallback")
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    string
	}{
		{"digits", `\d+`, "age: 42", "42"},
		{"leftmost", `\d+`, "1 and 22", "1"},
		{"no match", `\d+`, "no digits", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.FindString(tt.input); got != tt.want {
				t.Errorf("FindString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindIndex(t *testing.T) {
	re := MustCompile(`\d+`)
	loc := re.FindStringIndex("age: 42 and 7")
	if loc == nil || loc[0] != 5 || loc[1] != 7 {
		t.Errorf("FindStringIndex = %v, want [5 7]", loc)
	}
	if re.FindStringIndex("no digits") != nil {
		t.Error("expected nil index for non-matching input")
	}
}

func TestFindAll(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.FindAllString("1 22 333", -1)
	want := []string{"1", "22", "333"}
	if len(got) != len(want) {
		t.Fatalf("FindAllString = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindAllString[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := re.FindAllString("1 22 333", 2); len(got) != 2 {
		t.Errorf("FindAllString with n=2 returned %d matches, want 2", len(got))
	}
	if got := re.FindAllString("no digits", -1); got != nil {
		t.Errorf("FindAllString on non-matching input = %v, want nil", got)
	}
}

func TestFindSubmatch(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.(\w+)`)
	got := re.FindStringSubmatch("contact user@example.com please")
	want := []string{"user@example.com", "user", "example", "com"}
	if len(got) != len(want) {
		t.Fatalf("FindStringSubmatch = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindStringSubmatch[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if re.FindStringSubmatch("no email here") != nil {
		t.Error("expected nil submatch slice for non-matching input")
	}
}

func TestFindSubmatchIndex(t *testing.T) {
	re := MustCompile(`(\d+)-(\d+)`)
	idx := re.FindStringSubmatchIndex("range 10-20 here")
	if len(idx) != 6 {
		t.Fatalf("FindStringSubmatchIndex returned %d ints, want 6", len(idx))
	}
	if idx[0] != 6 || idx[1] != 11 {
		t.Errorf("group 0 = [%d %d], want [6 11]", idx[0], idx[1])
	}
}

func TestNumSubexpAndSubexpNames(t *testing.T) {
	re := MustCompile(`(?P<year>\d+)-(\d+)`)
	if got := re.NumSubexp(); got != 3 {
		t.Errorf("NumSubexp() = %d, want 3", got)
	}
	names := re.SubexpNames()
	if len(names) != 3 || names[1] != "year" {
		t.Errorf("SubexpNames() = %v, want [\"\" \"year\" \"\"]", names)
	}
}

func TestString(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.String(); got != `\d+` {
		t.Errorf("String() = %q, want %q", got, `\d+`)
	}
}
