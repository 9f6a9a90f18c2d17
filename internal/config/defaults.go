package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/gitstreak.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration used when no file and no
// embedded default can be read.
func Default() Config {
	return Config{
		Game: GameConfig{
			TickInterval: 150 * time.Millisecond,
		},
		Dataset: DatasetConfig{
			Source: "medium",
		},
		GitHub: GitHubConfig{
			Endpoint: "https://api.github.com/graphql",
			Timeout:  15 * time.Second,
		},
		Storage: StorageConfig{
			DBPath: "~/.gitstreak/datasets.db",
		},
		Server: ServerConfig{
			SSHAddress:  ":23235",
			HostKey:     "~/.gitstreak/ssh_host_ed25519",
			IdleTimeout: 10 * time.Minute,
			HTTPAddress: ":8080",
		},
	}
}
