package browser

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://cafe.example.com", "https://cafe.example.com", false},
		{"http://cafe.example.com/menu", "http://cafe.example.com/menu", false},
		{"  cafe.example.com ", "https://cafe.example.com", false},
		{"", "", true},
		{"javascript://alert(1)", "", true},
		{"file:///etc/passwd", "", true},
		{"ftp://cafe.example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsafeURL) {
					t.Errorf("Normalize(%q) err = %v, want ErrUnsafeURL", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"darwin", "open", []string{"https://x.io"}},
		{"linux", "xdg-open", []string{"https://x.io"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://x.io"}},
	}
	for _, tt := range tests {
		name, args, err := command(tt.goos, "https://x.io")
		if err != nil {
			t.Fatalf("command(%s) error: %v", tt.goos, err)
		}
		if name != tt.wantName || !reflect.DeepEqual(args, tt.wantArgs) {
			t.Errorf("command(%s) = %s %v", tt.goos, name, args)
		}
	}
	if _, _, err := command("plan9", "https://x.io"); err == nil {
		t.Error("expected unsupported OS error")
	}
}

func TestOpen(t *testing.T) {
	var gotArgs []string
	orig := start
	start = func(_ string, args ...string) error { gotArgs = args; return nil }
	t.Cleanup(func() { start = orig })

	if err := Open("file:///etc/passwd"); !errors.Is(err, ErrUnsafeURL) {
		t.Errorf("err = %v, want ErrUnsafeURL", err)
	}
	if gotArgs != nil {
		t.Fatal("unsafe URL reached the opener")
	}

	if err := Open("cafe.example.com"); err != nil {
		t.Skipf("no opener on this OS: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "https://cafe.example.com" {
		t.Errorf("args = %v", gotArgs)
	}
}
