package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"leitor/internal/domain"
	"leitor/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var configTemplate = `# config.yaml

# Site
# Which MangasProject site to read from
#
# Default: "mangalivre"
#
# Options: "mangalivre", "leitornet"
#
site: "mangalivre"

# Base URL
# Overrides the base url of the site, e.g. for a mirror
#
# Optional
#
#baseURL: ""

# User Agent
# Sent with every request
#
# Optional
#
#userAgent: ""

# Cloudflare Bypass
# Use a browser-like TLS setup for requests
#
# Default: false
#
cloudflareBypass: false

# Request timeout in seconds
#
# Default: 60
#
requestTimeout: 60

# Page limits
# The listings never signal their end, so they are capped
#
# Default: 10, 5 and 100
#
popularPageLimit: 10
latestPageLimit: 5
chapterPageLimit: 100

# Preference Path
# File that keeps the preferred image format per site
# If not defined, preferences.db next to the config file is used
#
# Optional
#
#preferencePath: ""

# Download Location
# Needs to be filled out correctly to download or monitor, e.g. "/data/downloads/manga"
#
# Default: ""
#
downloadLocation: ""

# Naming Template
# This can be used to change how the downloaded chapter will be named
# The default will result something like this: One Piece Cap. 001 - Romance Dawn
#
# Default: {series:<.>} Cap. {num:3}{title: - <.>}
#
namingTemplate: "{series:<.>} Cap. {num:3}{title: - <.>}"

# Check interval in minutes
#
# Default: 15
#
checkInterval: 15

# Monitored Series
# Here you can define which series you want to monitor
#
monitoredSeries:
  # Custom name you can give the entry to easily distinguish between them
  #
  One Piece:
    # Site the series should be downloaded from
    #
    site: "mangalivre"

    # URL of the series on the site, relative or absolute
    #
    url: "/manga/one-piece/13"

    # Scanlator to prefer when a chapter has several releases
    #
    # Optional
    #
    scanlator: ""

# leitor logs file
# If not defined, logs to stderr
# Make sure to use forward slashes and include the filename with extension. e.g. "logs/leitor.log", "C:/leitor/logs/leitor.log"
#
# Optional
#
#logPath: ""

# Log level
#
# Default: "DEBUG"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel: "DEBUG"

# Log Max Size
#
# Default: 50
#
# Max log size in megabytes
#
#logMaxSize: 50

# Log Max Backups
#
# Default: 3
#
# Max amount of old log files
#
#logMaxBackups: 3
`

func (c *AppConfig) writeConfig(configPath string, configFile string) error {
	cfgPath := filepath.Join(configPath, configFile)

	// check if configPath exists, if not create it
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(configPath, os.ModePerm)
		if err != nil {
			log.Println(err)
			return err
		}
	}

	// check if config exists, if not create it
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {

		f, err := os.Create(cfgPath)
		if err != nil { // perm 0666
			// handle failed create
			log.Printf("error creating file: %q", err)
			return err
		}
		defer f.Close()

		if _, err = f.WriteString(configTemplate); err != nil {
			log.Printf("error writing contents to file: %v %q", configPath, err)
			return err
		}

		return f.Sync()
	}

	return nil
}

type Config interface {
	UpdateConfig() error
	DynamicReload(log logger.Logger)
}

type AppConfig struct {
	Config *domain.Config
	m      *sync.Mutex
}

func New(configPath string, version string) *AppConfig {
	c := &AppConfig{
		m: new(sync.Mutex),
	}
	c.defaults()
	c.Config = &domain.Config{
		Version:    version,
		ConfigPath: configPath,
	}

	c.load(configPath)
	c.loadFromEnv()

	if c.Config.PreferencePath == "" {
		c.Config.PreferencePath = filepath.Join(c.configDir(), "preferences.db")
	}

	return c
}

// configDir is the directory of the config file in use, or the user config
// directory when no file was found.
func (c *AppConfig) configDir() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return filepath.Dir(used)
	}

	if c.Config.ConfigPath != "" {
		return c.Config.ConfigPath
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "leitor")
	}

	return "."
}

// ValidateDownloadLocation is checked by the commands that write chapters.
func (c *AppConfig) ValidateDownloadLocation() error {
	if c.Config.DownloadLocation == "" {
		return errors.New("downloadLocation can't be empty, please provide a valid path to the directory you want your downloads to go to")
	}

	return nil
}

func (c *AppConfig) defaults() {
	viper.SetDefault("site", "mangalivre")
	viper.SetDefault("baseURL", "")
	viper.SetDefault("userAgent", "")
	viper.SetDefault("cloudflareBypass", false)
	viper.SetDefault("requestTimeout", 60)
	viper.SetDefault("popularPageLimit", 10)
	viper.SetDefault("latestPageLimit", 5)
	viper.SetDefault("chapterPageLimit", 100)
	viper.SetDefault("preferencePath", "")
	viper.SetDefault("downloadLocation", "")
	viper.SetDefault("namingTemplate", "{series:<.>} Cap. {num:3}{title: - <.>}")
	viper.SetDefault("checkInterval", 15)
	viper.SetDefault("monitoredSeries", make(map[string]*domain.MonitoredSeries))
	viper.SetDefault("logPath", "")
	viper.SetDefault("logLevel", "DEBUG")
	viper.SetDefault("logMaxSize", 50)
	viper.SetDefault("logMaxBackups", 3)
}

const envPrefix = "LEITOR__"

// envSetters maps the variables below envPrefix onto the config.
func (c *AppConfig) envSetters() map[string]func(string) {
	str := func(dst *string) func(string) {
		return func(v string) { *dst = v }
	}
	positive := func(dst *int) func(string) {
		return func(v string) {
			if i, _ := strconv.ParseInt(v, 10, 32); i > 0 {
				*dst = int(i)
			}
		}
	}

	return map[string]func(string){
		"SITE":       str(&c.Config.Site),
		"BASE_URL":   str(&c.Config.BaseURL),
		"USER_AGENT": str(&c.Config.UserAgent),
		"CLOUDFLARE_BYPASS": func(v string) {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Config.CloudflareBypass = b
			}
		},
		"REQUEST_TIMEOUT":    positive(&c.Config.RequestTimeout),
		"POPULAR_PAGE_LIMIT": positive(&c.Config.PopularPageLimit),
		"LATEST_PAGE_LIMIT":  positive(&c.Config.LatestPageLimit),
		"CHAPTER_PAGE_LIMIT": positive(&c.Config.ChapterPageLimit),
		"PREFERENCE_PATH":    str(&c.Config.PreferencePath),
		"DOWNLOAD_LOCATION":  str(&c.Config.DownloadLocation),
		"NAMING_TEMPLATE":    str(&c.Config.NamingTemplate),
		"CHECK_INTERVAL":     positive(&c.Config.CheckInterval),
		"LOG_LEVEL":          str(&c.Config.LogLevel),
		"LOG_PATH":           str(&c.Config.LogPath),
		"LOG_MAX_SIZE":       positive(&c.Config.LogMaxSize),
		"LOG_MAX_BACKUPS":    positive(&c.Config.LogMaxBackups),
	}
}

func (c *AppConfig) loadFromEnv() {
	setters := c.envSetters()

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || value == "" || !strings.HasPrefix(key, envPrefix) {
			continue
		}

		if set, ok := setters[strings.TrimPrefix(key, envPrefix)]; ok {
			set(value)
		}
	}
}

func (c *AppConfig) load(configPath string) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		// clean trailing slash from configPath
		configPath = path.Clean(configPath)

		// check if path and file exists
		// if not, create path and file
		if err := c.writeConfig(configPath, "config.yaml"); err != nil {
			log.Printf("write error: %q", err)
		}

		viper.SetConfigFile(path.Join(configPath, "config.yaml"))
	} else {
		viper.SetConfigName("config")

		// Search config in directories
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/leitor")
		viper.AddConfigPath("$HOME/.leitor")
	}

	// read config
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config read error: %q", err)
	}

	if err := viper.Unmarshal(c.Config); err != nil {
		log.Fatalf("Could not unmarshal config file: %v: err %q", viper.ConfigFileUsed(), err)
	}
}

func (c *AppConfig) DynamicReload(log logger.Logger) {
	viper.WatchConfig()

	viper.OnConfigChange(func(_ fsnotify.Event) {
		c.m.Lock()
		defer c.m.Unlock()

		logLevel := viper.GetString("logLevel")
		c.Config.LogLevel = logLevel
		log.SetLogLevel(c.Config.LogLevel)

		logPath := viper.GetString("logPath")
		c.Config.LogPath = logPath

		var monitored map[string]*domain.MonitoredSeries
		if err := viper.UnmarshalKey("monitoredSeries", &monitored); err != nil {
			log.Error().Err(err).Msg("could not reload monitored series")
		} else {
			c.Config.MonitoredSeries = monitored
		}

		log.Debug().Msg("config file reloaded!")
	})
}

// Monitored returns a copy of the monitored series, safe to use while the
// config reloads.
func (c *AppConfig) Monitored() map[string]domain.MonitoredSeries {
	c.m.Lock()
	defer c.m.Unlock()

	monitored := make(map[string]domain.MonitoredSeries, len(c.Config.MonitoredSeries))
	for name, series := range c.Config.MonitoredSeries {
		if series != nil {
			monitored[name] = *series
		}
	}

	return monitored
}

func (c *AppConfig) UpdateConfig() error {
	filePath := viper.ConfigFileUsed()
	if c.Config.ConfigPath != "" {
		filePath = path.Join(c.Config.ConfigPath, "config.yaml")
	}

	if filePath == "" {
		return nil
	}

	f, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("could not read config filePath: %s: %w", filePath, err)
	}

	lines := strings.Split(string(f), "\n")
	lines = c.processLines(lines)

	output := strings.Join(lines, "\n")
	if err := os.WriteFile(filePath, []byte(output), 0o644); err != nil {
		return fmt.Errorf("could not write config file: %s: %w", filePath, err)
	}

	return nil
}

// managedKey is a config line UpdateConfig keeps in sync with the loaded
// config. An empty value comments the line out.
type managedKey struct {
	name  string
	value string
	doc   []string
}

func (c *AppConfig) managedKeys() []managedKey {
	return []managedKey{
		{
			name:  "logLevel",
			value: c.Config.LogLevel,
			doc:   []string{"# Log level", "#", `# Default: "DEBUG"`, "#", `# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"`, "#"},
		},
		{
			name:  "logPath",
			value: c.Config.LogPath,
			doc:   []string{"# Log Path", "#", "# Optional", "#"},
		},
	}
}

func (k managedKey) line() string {
	if k.value == "" {
		return fmt.Sprintf(`#%s: ""`, k.name)
	}
	return fmt.Sprintf(`%s: "%s"`, k.name, k.value)
}

func (c *AppConfig) processLines(lines []string) []string {
	for _, key := range c.managedKeys() {
		found := false

		for i, line := range lines {
			if strings.Contains(line, key.name+":") {
				lines[i] = key.line()
				found = true
				break
			}
		}

		// append keys missing from the file at the bottom
		if !found {
			lines = append(lines, key.doc...)
			lines = append(lines, key.line())
		}
	}

	return lines
}
