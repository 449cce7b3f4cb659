// Package browser opens merchant websites in the system browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsafeURL is returned for anything but an absolute http(s) URL.
var ErrUnsafeURL = errors.New("browser: only http and https links can be opened")

// start runs the opener. Swapped out in tests.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Normalize turns a profile website into an absolute URL. Merchants often
// type "cafe.example.com", which is taken as https.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnsafeURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrUnsafeURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnsafeURL
	}
	return u.String(), nil
}

// command returns the opener for goos.
func command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}

// Open opens the website in the user's default browser.
func Open(raw string) error {
	target, err := Normalize(raw)
	if err != nil {
		return err
	}
	name, args, err := command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return start(name, args...)
}
