package service

import (
	"fmt"
	"log"
	"strconv"

	"pixelia/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Preferences & window size
// ─────────────────────────────────────────────────────────────
//
// Preferences are stored as plain strings under their pixelia_ keys, the
// same encoding the dashboard has always used ("true"/"false", "en").

// Languages the dashboard ships string tables for.
var Languages = []Language{
	{Code: "en", Label: "English", Flag: "🇺🇸"},
	{Code: "pt", Label: "Português", Flag: "🇧🇷"},
	{Code: "es", Label: "Español", Flag: "🇪🇸"},
	{Code: "fr", Label: "Français", Flag: "🇫🇷"},
	{Code: "de", Label: "Deutsch", Flag: "🇩🇪"},
}

type Language struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Flag  string `json:"flag"`
}

const defaultLanguage = "en"

// Preferences is the dashboard settings view.
type Preferences struct {
	DarkMode      bool   `json:"darkMode"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

const (
	keyWindowWidth      = "pixelia_window_width"
	keyWindowHeight     = "pixelia_window_height"
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
	minWindowWidth      = 360
	minWindowHeight     = 480
)

// SettingsService persists preferences and the window size.
type SettingsService struct {
	kv storage.KV
}

func NewSettingsService(kv storage.KV) *SettingsService {
	return &SettingsService{kv: kv}
}

func (s *SettingsService) Preferences() Preferences {
	return Preferences{
		DarkMode:      s.flag(storage.KeyDarkMode, false),
		Notifications: s.flag(storage.KeyNotifications, true),
		Language:      s.Language(),
	}
}

func (s *SettingsService) SetDarkMode(on bool) error {
	return s.kv.Set(storage.KeyDarkMode, strconv.FormatBool(on))
}

func (s *SettingsService) SetNotifications(on bool) error {
	return s.kv.Set(storage.KeyNotifications, strconv.FormatBool(on))
}

// Language returns the saved language, falling back to English for
// anything without a string table.
func (s *SettingsService) Language() string {
	code, err := s.kv.Get(storage.KeyLanguage)
	if err != nil || !knownLanguage(code) {
		return defaultLanguage
	}
	return code
}

func (s *SettingsService) SetLanguage(code string) error {
	if !knownLanguage(code) {
		return fmt.Errorf("unsupported language %q", code)
	}
	return s.kv.Set(storage.KeyLanguage, code)
}

func knownLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// flag reads a boolean preference. Only the exact opposite of the default
// flips it, matching how the values were always compared.
func (s *SettingsService) flag(key string, def bool) bool {
	v, err := s.kv.Get(key)
	if err != nil {
		return def
	}
	if def {
		return v != "false"
	}
	return v == "true"
}

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *SettingsService) LoadWindowSize() WindowSize {
	w := s.number(keyWindowWidth, defaultWindowWidth)
	h := s.number(keyWindowHeight, defaultWindowHeight)
	if w < minWindowWidth {
		w = defaultWindowWidth
	}
	if h < minWindowHeight {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsService) SaveWindowSize(width, height int) error {
	if err := s.kv.Set(keyWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.kv.Set(keyWindowHeight, strconv.Itoa(height))
}

func (s *SettingsService) number(key string, def int) int {
	v, err := s.kv.Get(key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[settings] ignoring %s=%q", key, v)
		return def
	}
	return n
}
