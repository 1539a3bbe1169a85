// Package churn computes line-level change volume between revisions,
// filtered by language-based file-extension classes.
package churn

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language is a closed set of source-language groupings used to filter
// which file extensions count toward churn.
type Language int

// Supported language groupings.
const (
	LanguageC Language = iota
	LanguageCPP
	LanguageGo
	LanguageRust
	LanguagePython
	LanguageJava
)

// Extensions returns the file extensions belonging to the language,
// without leading dots.
func (l Language) Extensions() []string {
	switch l {
	case LanguageC:
		return []string{"c", "h"}
	case LanguageCPP:
		return []string{"cpp", "cxx", "hpp", "hxx"}
	case LanguageGo:
		return []string{"go"}
	case LanguageRust:
		return []string{"rs"}
	case LanguagePython:
		return []string{"py"}
	case LanguageJava:
		return []string{"java"}
	default:
		return nil
	}
}

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LanguageC:
		return "c"
	case LanguageCPP:
		return "cpp"
	case LanguageGo:
		return "go"
	case LanguageRust:
		return "rust"
	case LanguagePython:
		return "python"
	case LanguageJava:
		return "java"
	default:
		return "unknown"
	}
}

// Config selects which file extensions contribute to churn counts.
// The zero set means "include everything": until a language is enabled,
// every file counts.
type Config struct {
	enabled map[Language]struct{}
}

// NewConfig creates a config that includes everything.
func NewConfig() *Config {
	return &Config{enabled: make(map[Language]struct{})}
}

// NewCLanguageConfig creates a config limited to C files.
func NewCLanguageConfig() *Config {
	cfg := NewConfig()
	cfg.EnableLanguage(LanguageC)

	return cfg
}

// NewCStyleLanguagesConfig creates a config limited to C and C++ files.
func NewCStyleLanguagesConfig() *Config {
	cfg := NewConfig()
	cfg.EnableLanguage(LanguageC)
	cfg.EnableLanguage(LanguageCPP)

	return cfg
}

// NewGoLanguageConfig creates a config limited to Go files.
func NewGoLanguageConfig() *Config {
	cfg := NewConfig()
	cfg.EnableLanguage(LanguageGo)

	return cfg
}

// EnableLanguage adds a language grouping to the enabled set.
func (c *Config) EnableLanguage(lang Language) {
	c.enabled[lang] = struct{}{}
}

// IncludeEverything reports whether all files count regardless of extension.
func (c *Config) IncludeEverything() bool {
	return len(c.enabled) == 0
}

// IsLanguageEnabled reports whether the language grouping is enabled.
func (c *Config) IsLanguageEnabled(lang Language) bool {
	_, ok := c.enabled[lang]

	return ok
}

// EnabledLanguages returns the enabled language groupings in enum order.
func (c *Config) EnabledLanguages() []Language {
	langs := make([]Language, 0, len(c.enabled))
	for lang := range c.enabled {
		langs = append(langs, lang)
	}

	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })

	return langs
}

// IsEnabled reports whether a file extension (without dot) is enabled.
func (c *Config) IsEnabled(extension string) bool {
	for lang := range c.enabled {
		for _, ext := range lang.Extensions() {
			if ext == extension {
				return true
			}
		}
	}

	return false
}

// Matches reports whether a file path counts toward churn under this config.
func (c *Config) Matches(path string) bool {
	if c.IncludeEverything() {
		return true
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")

	return c.IsEnabled(ext)
}

// ExtensionsRepr returns all enabled extensions sorted, each wrapped in the
// given prefix and suffix. Useful for building pathspecs like "*.c".
func (c *Config) ExtensionsRepr(prefix, suffix string) []string {
	var exts []string
	for lang := range c.enabled {
		exts = append(exts, lang.Extensions()...)
	}

	sort.Strings(exts)

	for i, ext := range exts {
		exts[i] = prefix + ext + suffix
	}

	return exts
}
