package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Jar is a cookie jar that can round-trip its gateway cookies through a state
// file, the CLI's stand-in for a browser's cookie store. With no path set it
// behaves like a plain in-memory jar.
type Jar struct {
	jar  *cookiejar.Jar
	base *url.URL
	path string
}

type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func newJar(base *url.URL) (*Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Jar{jar: jar, base: base}, nil
}

func (j *Jar) load() error {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse cookie file: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Expires: sc.Expires, Path: "/"})
	}
	j.jar.SetCookies(j.base, cookies)
	return nil
}

func (j *Jar) save() error {
	if j.path == "" {
		return nil
	}

	current := j.jar.Cookies(j.base)
	stored := make([]storedCookie, 0, len(current))
	for _, c := range current {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	// Credentials live in here, keep it owner-only.
	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

func (j *Jar) clear() error {
	expired := make([]*http.Cookie, 0)
	for _, c := range j.jar.Cookies(j.base) {
		expired = append(expired, &http.Cookie{Name: c.Name, Value: "", MaxAge: -1, Path: "/"})
	}
	j.jar.SetCookies(j.base, expired)

	if j.path == "" {
		return nil
	}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}
