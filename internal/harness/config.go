package harness

import "github.com/kelseyhightower/envconfig"

type Config struct {
	FailPercent  int   `envconfig:"FAIL_PERCENT" default:"0"`
	Seed         int64 `envconfig:"SEED" default:"1"`
	BufferLength int   `envconfig:"BUFFER_LENGTH" default:"1024"`
	Verbose      bool  `envconfig:"VERBOSE" default:"false"`
}

func GetConfig() *Config {
	cfg := new(Config)
	if err := envconfig.Process("QTEST", cfg); err != nil {
		panic(err)
	}

	return cfg
}
