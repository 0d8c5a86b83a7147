package domain

type Config struct {
	Version          string
	ConfigPath       string
	Site             string                      `yaml:"site"`
	BaseURL          string                      `yaml:"baseURL"`
	UserAgent        string                      `yaml:"userAgent"`
	CloudflareBypass bool                        `yaml:"cloudflareBypass"`
	RequestTimeout   int                         `yaml:"requestTimeout"` // in seconds
	PopularPageLimit int                         `yaml:"popularPageLimit"`
	LatestPageLimit  int                         `yaml:"latestPageLimit"`
	ChapterPageLimit int                         `yaml:"chapterPageLimit"`
	PreferencePath   string                      `yaml:"preferencePath"`
	DownloadLocation string                      `yaml:"downloadLocation"`
	NamingTemplate   string                      `yaml:"namingTemplate"`
	CheckInterval    int                         `yaml:"checkInterval"`
	MonitoredSeries  map[string]*MonitoredSeries `yaml:"monitoredSeries"`
	LogPath          string                      `yaml:"logPath"`
	LogLevel         string                      `yaml:"logLevel"`
	LogMaxSize       int                         `yaml:"logMaxSize"` // in megabytes
	LogMaxBackups    int                         `yaml:"logMaxBackups"`
}

type MonitoredSeries struct {
	Site      string `yaml:"site"`
	URL       string `yaml:"url"`
	Scanlator string `yaml:"scanlator"`
}
