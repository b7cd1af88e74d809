package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Company struct {
	Name       string `yaml:"name"`
	BoardToken string `yaml:"board_token"`
	ATS        string `yaml:"ats"` // greenhouse | lever
}

type CustomURL struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type SourceConfig struct {
	Enabled        bool    `yaml:"enabled"`
	BaseURL        string  `yaml:"base_url"`
	RateLimitDelay float64 `yaml:"rate_limit_delay_seconds"`
}

type Config struct {
	Crawler struct {
		RequestDelay    float64 `yaml:"request_delay_seconds"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
		MaxRetries      int     `yaml:"max_retries"`
		RespectRobots   bool    `yaml:"respect_robots_txt"`
		UserAgent       string  `yaml:"user_agent"`
	} `yaml:"crawler"`

	Search struct {
		Keywords   string `yaml:"keywords"`
		Location   string `yaml:"location"`
		DatePosted string `yaml:"date_posted"`
		MaxPages   int    `yaml:"max_pages"`
	} `yaml:"search"`

	Filter struct {
		Backend           string   `yaml:"backend"` // keyword | openai
		MinRelevanceScore float64  `yaml:"min_relevance_score"`
		Keywords          []string `yaml:"keywords"`
		ExcludedKeywords  []string `yaml:"excluded_keywords"`
	} `yaml:"filter"`

	OpenAI struct {
		Model string `yaml:"model"`
	} `yaml:"openai"`

	Sources struct {
		SearchPage SourceConfig `yaml:"search_page"`
		VendorFeed SourceConfig `yaml:"vendor_feed"`
		RSSFeed    SourceConfig `yaml:"rss_feed"`
		ATS        struct {
			SourceConfig `yaml:",inline"`
			Companies    []Company   `yaml:"companies"`
			CustomURLs   []CustomURL `yaml:"custom_urls"`
		} `yaml:"ats"`
	} `yaml:"sources"`

	Output struct {
		Dir      string `yaml:"dir"`
		CSV      bool   `yaml:"csv"`
		Markdown bool   `yaml:"markdown"`
		SiteJSON bool   `yaml:"site_json"`
	} `yaml:"output"`

	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Timeout returns the per-request timeout with a sane floor.
func (c Config) Timeout() time.Duration {
	if c.Crawler.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Crawler.TimeoutSeconds) * time.Second
}

// SourceDelay returns the inter-request delay for one source, never below
// the global request delay.
func (c Config) SourceDelay(src SourceConfig) time.Duration {
	d := src.RateLimitDelay
	if d < c.Crawler.RequestDelay {
		d = c.Crawler.RequestDelay
	}
	if d <= 0 {
		d = 1
	}
	return time.Duration(d * float64(time.Second))
}
