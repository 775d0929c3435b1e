package rewrite

import "time"

// Config holds the batching, retry and humanization limits of a Rewriter.
type Config struct {
	LongBatchSize  int `yaml:"long_batch_size"`
	ShortBatchSize int `yaml:"short_batch_size"`
	LongMaxTokens  int `yaml:"long_max_tokens"`
	ShortMaxTokens int `yaml:"short_max_tokens"`

	// RetryRounds is how many times ids missing from a batch response are
	// re-requested. Each round asks for every missing id in chunks of
	// RetryBatchSize with at least RetryMinTokens.
	RetryRounds    int `yaml:"retry_rounds"`
	RetryBatchSize int `yaml:"retry_batch_size"`
	RetryMinTokens int `yaml:"retry_min_tokens"`

	// HumanizeBudget caps humanizer calls per run.
	HumanizeBudget  int           `yaml:"humanize_budget"`
	HumanizeTimeout time.Duration `yaml:"humanize_timeout"`
}

// DefaultConfig returns the production limits.
func DefaultConfig() Config {
	return Config{
		LongBatchSize:   30,
		ShortBatchSize:  120,
		LongMaxTokens:   14000,
		ShortMaxTokens:  6000,
		RetryRounds:     4,
		RetryBatchSize:  25,
		RetryMinTokens:  12000,
		HumanizeBudget:  80,
		HumanizeTimeout: 30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig. A zero Config is
// replaced entirely; otherwise zero retry rounds and zero humanize budget
// are kept as explicit choices.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c == (Config{}) {
		return d
	}
	if c.LongBatchSize <= 0 {
		c.LongBatchSize = d.LongBatchSize
	}
	if c.ShortBatchSize <= 0 {
		c.ShortBatchSize = d.ShortBatchSize
	}
	if c.LongMaxTokens <= 0 {
		c.LongMaxTokens = d.LongMaxTokens
	}
	if c.ShortMaxTokens <= 0 {
		c.ShortMaxTokens = d.ShortMaxTokens
	}
	if c.RetryRounds < 0 {
		c.RetryRounds = 0
	}
	if c.RetryBatchSize <= 0 {
		c.RetryBatchSize = d.RetryBatchSize
	}
	if c.RetryMinTokens <= 0 {
		c.RetryMinTokens = d.RetryMinTokens
	}
	if c.HumanizeBudget < 0 {
		c.HumanizeBudget = 0
	}
	if c.HumanizeTimeout <= 0 {
		c.HumanizeTimeout = d.HumanizeTimeout
	}
	return c
}
