package config

import "time"

// Commit backends accepted by commit.backend.
const (
	BackendExec  = "exec"
	BackendGoGit = "go-git"
)

// Config is the tagtrack configuration.
//
// Fields:
//   - APIURL: Base URL of the REST API; "/repos/{owner}/{repo}/..." is appended
//   - ArchiveURL: Base URL of release archives
//   - UserAgent: User-Agent header sent with every request
//   - Fetch: Retry and transport settings
//   - Branches: Version values treated as branch tracking
//   - Commit: Commit backend and author
//   - Source: Path the config was loaded from, empty for built-in defaults
type Config struct {
	APIURL     string    `yaml:"api_url"`
	ArchiveURL string    `yaml:"archive_url"`
	UserAgent  string    `yaml:"user_agent"`
	Fetch      FetchCfg  `yaml:"fetch"`
	Branches   []string  `yaml:"branches"`
	Commit     CommitCfg `yaml:"commit"`

	Source string `yaml:"-"`
}

// FetchCfg configures the HTTP client.
//
// Fields:
//   - Timeout: Per-attempt request timeout
//   - MaxAttempts: Total attempts per request when rate limited
//   - RateLimitWait: Wait between rate-limited attempts
//   - BreakerThreshold: Consecutive host failures that open the circuit; 0 disables it
type FetchCfg struct {
	Timeout          time.Duration `yaml:"timeout"`
	MaxAttempts      int           `yaml:"max_attempts"`
	RateLimitWait    time.Duration `yaml:"rate_limit_wait"`
	BreakerThreshold int           `yaml:"breaker_threshold"`
}

// CommitCfg configures how registry changes are committed.
type CommitCfg struct {
	Backend     string `yaml:"backend"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}
