package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DataDir  string // SLAG_DATA_DIR (default "./slag-data")
	HTTPAddr string // SLAG_HTTP_ADDR (default ":8080")
	BaseURL  string // SLAG_BASE_URL (default "http://localhost:8080")
	NATSURL  string // SLAG_NATS_URL (optional, empty = no events)

	// Snapshot backup settings
	SnapshotInterval   time.Duration // SLAG_SNAPSHOT_INTERVAL (default 3m; 0 = disabled)
	SnapshotS3Bucket   string        // SLAG_SNAPSHOT_S3_BUCKET (enables S3 when set)
	SnapshotS3Endpoint string        // SLAG_SNAPSHOT_S3_ENDPOINT (custom endpoint for MinIO)
	SnapshotS3Region   string        // SLAG_SNAPSHOT_S3_REGION (default "us-east-1")
	SnapshotS3Key      string        // SLAG_SNAPSHOT_S3_KEY (default "slag/snapshot.json")
	SnapshotGitRepo    string        // SLAG_SNAPSHOT_GIT_REPO (enables git when set; path to clone)
	SnapshotGitFile    string        // SLAG_SNAPSHOT_GIT_FILE (default "snapshot.json")
	SnapshotGitBranch  string        // SLAG_SNAPSHOT_GIT_BRANCH (default "main")
}

// fileConfig mirrors Config with TOML tags. SLAG_CONFIG names the file;
// environment variables override anything it sets.
type fileConfig struct {
	DataDir  string `toml:"data_dir"`
	HTTPAddr string `toml:"http_addr"`
	BaseURL  string `toml:"base_url"`
	NATSURL  string `toml:"nats_url"`

	Snapshot struct {
		Interval   string `toml:"interval"`
		S3Bucket   string `toml:"s3_bucket"`
		S3Endpoint string `toml:"s3_endpoint"`
		S3Region   string `toml:"s3_region"`
		S3Key      string `toml:"s3_key"`
		GitRepo    string `toml:"git_repo"`
		GitFile    string `toml:"git_file"`
		GitBranch  string `toml:"git_branch"`
	} `toml:"snapshot"`
}

func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("SLAG_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("SLAG_CONFIG %s: %w", path, err)
		}
	}

	c := &Config{
		DataDir:            pick("SLAG_DATA_DIR", file.DataDir, "./slag-data"),
		HTTPAddr:           pick("SLAG_HTTP_ADDR", file.HTTPAddr, ":8080"),
		BaseURL:            pick("SLAG_BASE_URL", file.BaseURL, "http://localhost:8080"),
		NATSURL:            pick("SLAG_NATS_URL", file.NATSURL, ""),
		SnapshotS3Bucket:   pick("SLAG_SNAPSHOT_S3_BUCKET", file.Snapshot.S3Bucket, ""),
		SnapshotS3Endpoint: pick("SLAG_SNAPSHOT_S3_ENDPOINT", file.Snapshot.S3Endpoint, ""),
		SnapshotS3Region:   pick("SLAG_SNAPSHOT_S3_REGION", file.Snapshot.S3Region, "us-east-1"),
		SnapshotS3Key:      pick("SLAG_SNAPSHOT_S3_KEY", file.Snapshot.S3Key, "slag/snapshot.json"),
		SnapshotGitRepo:    pick("SLAG_SNAPSHOT_GIT_REPO", file.Snapshot.GitRepo, ""),
		SnapshotGitFile:    pick("SLAG_SNAPSHOT_GIT_FILE", file.Snapshot.GitFile, "snapshot.json"),
		SnapshotGitBranch:  pick("SLAG_SNAPSHOT_GIT_BRANCH", file.Snapshot.GitBranch, "main"),
	}

	intervalStr := pick("SLAG_SNAPSHOT_INTERVAL", file.Snapshot.Interval, "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("SLAG_SNAPSHOT_INTERVAL: %w", err)
		}
		c.SnapshotInterval = d
	}

	return c, nil
}

// pick returns the environment value if set, then the config file value,
// then the fallback.
func pick(envKey, fileVal, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return fallback
}
