// Package config resolves dbdeck settings from layered sources. Later
// layers win: built-in defaults, the user file ~/.dbdeck/config.yaml, the
// nearest project file .dbdeck/config.yaml, DBDECK_* environment variables
// and finally command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	KeyDatabaseDriver = "database.driver"
	KeyDatabaseURL    = "database.url"
	KeyDatabaseSchema = "database.schema"

	KeyProjectRef = "project.ref"

	KeyAPIURL   = "api.url"
	KeyAPIToken = "api.token"

	KeyNotificationsLimit    = "notifications.limit"
	KeyNotificationsStatus   = "notifications.status"
	KeyNotificationsPriority = "notifications.priority"

	KeyImpersonateRole = "role.impersonate"
	KeyOutputFormat    = "output.format"
	KeyTheme           = "theme"
	KeyDebug           = "debug"
	KeyReleasesURL     = "update.releases_url"
)

const (
	// DefaultNotificationsLimit is the page size used by the notification feed.
	DefaultNotificationsLimit = 10
	// DefaultSchema is the schema browsed when none is configured.
	DefaultSchema = "public"

	envPrefix      = "DBDECK"
	dirName        = ".dbdeck"
	configFileName = "config.yaml"
)

var defaults = map[string]any{
	KeyDatabaseDriver:        "postgres",
	KeyDatabaseURL:           "",
	KeyDatabaseSchema:        DefaultSchema,
	KeyProjectRef:            "default",
	KeyAPIURL:                "",
	KeyAPIToken:              "",
	KeyNotificationsLimit:    DefaultNotificationsLimit,
	KeyNotificationsStatus:   "",
	KeyNotificationsPriority: "",
	KeyImpersonateRole:       "",
	KeyOutputFormat:          "rich",
	KeyTheme:                 "tokyonight",
	KeyDebug:                 false,
	KeyReleasesURL:           "",
}

type paths struct {
	workingDir string
	project    string
	user       string
}

// Option overrides where Initialize looks for files.
type Option func(*paths)

// WithWorkingDir starts project config discovery at dir.
func WithWorkingDir(dir string) Option {
	return func(p *paths) { p.workingDir = dir }
}

// WithProjectConfig skips discovery and uses path as the project file.
func WithProjectConfig(path string) Option {
	return func(p *paths) { p.project = path }
}

// WithUserConfig replaces ~/.dbdeck/config.yaml.
func WithUserConfig(path string) Option {
	return func(p *paths) { p.user = path }
}

// store is one resolved configuration.
type store struct {
	v     *viper.Viper
	files []string
}

var (
	mu      sync.RWMutex
	once    sync.Once
	active  *store
	loadErr error

	userPathOverride string
)

// Initialize loads the configuration once. Later calls return the first
// result and ignore their options.
func Initialize(opts ...Option) error {
	once.Do(func() {
		var p paths
		for _, opt := range opts {
			opt(&p)
		}
		st, err := load(p)
		mu.Lock()
		active, loadErr = st, err
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

func load(p paths) (*store, error) {
	if err := p.resolve(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	st := &store{v: v}
	layers := []struct{ name, path string }{
		{"user", p.user},
		{"project", p.project},
	}
	for _, layer := range layers {
		merged, err := mergeFile(v, layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		if merged {
			st.files = append(st.files, layer.path)
		}
	}
	return st, nil
}

func (p *paths) resolve() error {
	if strings.TrimSpace(p.workingDir) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		p.workingDir = wd
	}
	if strings.TrimSpace(p.user) == "" {
		user, err := userConfigPath()
		if err != nil {
			return err
		}
		p.user = user
	}
	if strings.TrimSpace(p.project) == "" {
		project, err := discoverProjectConfig(p.workingDir)
		if err != nil {
			return err
		}
		p.project = project
	}
	return nil
}

// mergeFile merges a YAML file into v. Missing and empty files are skipped.
func mergeFile(v *viper.Viper, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	//nolint:gosec // G304: user and project config files are read on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return false, nil
	}
	if err := v.MergeConfig(strings.NewReader(string(data))); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func userConfigPath() (string, error) {
	if userPathOverride != "" {
		return userPathOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, dirName, configFileName), nil
}

// discoverProjectConfig returns the closest .dbdeck/config.yaml at or above
// dir, or "" when there is none.
func discoverProjectConfig(dir string) (string, error) {
	for dir != "" {
		candidate := filepath.Join(dir, dirName, configFileName)
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", fmt.Errorf("config path %s is a directory", candidate)
			}
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// ApplyOverrides sets keys above every other layer, typically from flags.
func ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	if err := Initialize(); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	if active == nil {
		return fmt.Errorf("configuration not initialized")
	}
	for key, value := range overrides {
		active.v.Set(key, value)
	}
	return nil
}

func lookup[T any](key string, get func(*viper.Viper, string) T) T {
	var zero T
	if Initialize() != nil {
		return zero
	}
	mu.RLock()
	defer mu.RUnlock()
	if active == nil {
		return zero
	}
	return get(active.v, key)
}

// GetString returns key as a string, or "" when configuration failed to load.
func GetString(key string) string { return lookup(key, (*viper.Viper).GetString) }

// GetBool returns key as a bool.
func GetBool(key string) bool { return lookup(key, (*viper.Viper).GetBool) }

// GetInt returns key as an int.
func GetInt(key string) int { return lookup(key, (*viper.Viper).GetInt) }

// Files lists the config files that were merged, lowest precedence first.
func Files() []string {
	if Initialize() != nil {
		return nil
	}
	mu.RLock()
	defer mu.RUnlock()
	if active == nil {
		return nil
	}
	return append([]string(nil), active.files...)
}

// SaveTheme writes the theme into the project config when one exists above
// the working directory, else into the user config. Other keys in the file
// are preserved; only the user config directory is ever created.
func SaveTheme(name string) error {
	path, err := themeTarget()
	if err != nil {
		return fmt.Errorf("find config path: %w", err)
	}

	file := viper.New()
	file.SetConfigType("yaml")
	file.SetConfigFile(path)
	_ = file.ReadInConfig()
	file.Set(KeyTheme, name)

	//nolint:gosec // G301: user config directory needs standard permissions
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	mu.Lock()
	if active != nil {
		active.v.Set(KeyTheme, name)
	}
	mu.Unlock()
	return nil
}

func themeTarget() (string, error) {
	if wd, err := os.Getwd(); err == nil {
		if project, err := discoverProjectConfig(wd); err == nil && project != "" {
			return project, nil
		}
	}
	return userConfigPath()
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	active, loadErr = nil, nil
	once = sync.Once{}
	userPathOverride = ""
}

func setUserConfigPathOverride(path string) {
	userPathOverride = path
}

// ResetForTesting loads a configuration isolated in a temp dir and returns
// the cleanup that clears it again.
func ResetForTesting(t interface{ TempDir() string }) func() {
	reset()
	tmp := t.TempDir()
	_ = Initialize(WithWorkingDir(tmp), WithUserConfig(filepath.Join(tmp, "user.yaml")))
	return reset
}
