package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "山田太郎", "山田太郎"},
		{"surrounding spaces", "  山田太郎  ", "山田太郎"},
		{"internal run", "会議室   A", "会議室 A"},
		{"tabs and newlines", "ノート\tPC\n", "ノート PC"},
		{"control characters", "iPad\x00\x1f", "iPad"},
		{"only whitespace", "   \t ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeKana(t *testing.T) {
	if got := NormalizeKana(" やまだ Taro "); got != "やまだ taro" {
		t.Errorf("NormalizeKana = %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail(" Yamada@Example.COM "); got != "yamada@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
