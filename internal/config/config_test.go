package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// slagEnvVars lists all env vars that must be cleared between tests.
var slagEnvVars = []string{
	"SLAG_CONFIG", "SLAG_DATA_DIR", "SLAG_HTTP_ADDR", "SLAG_BASE_URL", "SLAG_NATS_URL",
	"SLAG_SNAPSHOT_INTERVAL", "SLAG_SNAPSHOT_S3_BUCKET", "SLAG_SNAPSHOT_S3_ENDPOINT",
	"SLAG_SNAPSHOT_S3_REGION", "SLAG_SNAPSHOT_S3_KEY", "SLAG_SNAPSHOT_GIT_REPO",
	"SLAG_SNAPSHOT_GIT_FILE", "SLAG_SNAPSHOT_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range slagEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantDataDir  string
		wantHTTPAddr string
		wantBaseURL  string
		wantNATSURL  string
	}{
		{
			name:         "Defaults",
			env:          map[string]string{},
			wantDataDir:  "./slag-data",
			wantHTTPAddr: ":8080",
			wantBaseURL:  "http://localhost:8080",
		},
		{
			name: "CustomValues",
			env: map[string]string{
				"SLAG_DATA_DIR":  "/var/lib/slag",
				"SLAG_HTTP_ADDR": ":3000",
				"SLAG_BASE_URL":  "https://comments.example.com",
				"SLAG_NATS_URL":  "nats://localhost:4222",
			},
			wantDataDir:  "/var/lib/slag",
			wantHTTPAddr: ":3000",
			wantBaseURL:  "https://comments.example.com",
			wantNATSURL:  "nats://localhost:4222",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DataDir != tc.wantDataDir {
				t.Errorf("DataDir = %q, want %q", cfg.DataDir, tc.wantDataDir)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.BaseURL != tc.wantBaseURL {
				t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, tc.wantBaseURL)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoadSnapshotDefaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotInterval != 3*time.Minute {
		t.Errorf("SnapshotInterval = %v, want 3m", cfg.SnapshotInterval)
	}
	if cfg.SnapshotS3Region != "us-east-1" {
		t.Errorf("SnapshotS3Region = %q, want %q", cfg.SnapshotS3Region, "us-east-1")
	}
	if cfg.SnapshotS3Key != "slag/snapshot.json" {
		t.Errorf("SnapshotS3Key = %q, want %q", cfg.SnapshotS3Key, "slag/snapshot.json")
	}
	if cfg.SnapshotGitFile != "snapshot.json" {
		t.Errorf("SnapshotGitFile = %q, want %q", cfg.SnapshotGitFile, "snapshot.json")
	}
	if cfg.SnapshotGitBranch != "main" {
		t.Errorf("SnapshotGitBranch = %q, want %q", cfg.SnapshotGitBranch, "main")
	}
}

func TestLoadSnapshotCustom(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("SLAG_SNAPSHOT_INTERVAL", "10m")
	t.Setenv("SLAG_SNAPSHOT_S3_BUCKET", "my-bucket")
	t.Setenv("SLAG_SNAPSHOT_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("SLAG_SNAPSHOT_S3_REGION", "eu-west-1")
	t.Setenv("SLAG_SNAPSHOT_S3_KEY", "custom/snap.json")
	t.Setenv("SLAG_SNAPSHOT_GIT_REPO", "/tmp/repo")
	t.Setenv("SLAG_SNAPSHOT_GIT_FILE", "custom.json")
	t.Setenv("SLAG_SNAPSHOT_GIT_BRANCH", "backup")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotInterval != 10*time.Minute {
		t.Errorf("SnapshotInterval = %v, want 10m", cfg.SnapshotInterval)
	}
	if cfg.SnapshotS3Bucket != "my-bucket" {
		t.Errorf("SnapshotS3Bucket = %q", cfg.SnapshotS3Bucket)
	}
	if cfg.SnapshotS3Endpoint != "http://minio:9000" {
		t.Errorf("SnapshotS3Endpoint = %q", cfg.SnapshotS3Endpoint)
	}
	if cfg.SnapshotS3Region != "eu-west-1" {
		t.Errorf("SnapshotS3Region = %q", cfg.SnapshotS3Region)
	}
	if cfg.SnapshotS3Key != "custom/snap.json" {
		t.Errorf("SnapshotS3Key = %q", cfg.SnapshotS3Key)
	}
	if cfg.SnapshotGitRepo != "/tmp/repo" {
		t.Errorf("SnapshotGitRepo = %q", cfg.SnapshotGitRepo)
	}
	if cfg.SnapshotGitFile != "custom.json" {
		t.Errorf("SnapshotGitFile = %q", cfg.SnapshotGitFile)
	}
	if cfg.SnapshotGitBranch != "backup" {
		t.Errorf("SnapshotGitBranch = %q", cfg.SnapshotGitBranch)
	}
}

func TestLoadSnapshotInvalidInterval(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("SLAG_SNAPSHOT_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid SLAG_SNAPSHOT_INTERVAL")
	}
}

func TestLoadSnapshotDisabled(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("SLAG_SNAPSHOT_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapshotInterval != 0 {
		t.Errorf("SnapshotInterval = %v, want 0 (disabled)", cfg.SnapshotInterval)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearAllEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "slag.toml")
	content := `
data_dir = "/srv/slag"
http_addr = ":9999"
base_url = "https://c.example.com"

[snapshot]
interval = "15m"
s3_bucket = "file-bucket"
git_branch = "snapshots"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SLAG_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataDir != "/srv/slag" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "/srv/slag")
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":9999")
	}
	if cfg.SnapshotInterval != 15*time.Minute {
		t.Errorf("SnapshotInterval = %v, want 15m", cfg.SnapshotInterval)
	}
	if cfg.SnapshotS3Bucket != "file-bucket" {
		t.Errorf("SnapshotS3Bucket = %q, want %q", cfg.SnapshotS3Bucket, "file-bucket")
	}
	if cfg.SnapshotGitBranch != "snapshots" {
		t.Errorf("SnapshotGitBranch = %q, want %q", cfg.SnapshotGitBranch, "snapshots")
	}
	// Unset keys keep their defaults.
	if cfg.SnapshotS3Key != "slag/snapshot.json" {
		t.Errorf("SnapshotS3Key = %q, want default", cfg.SnapshotS3Key)
	}
}

func TestLoadConfigFile_EnvWins(t *testing.T) {
	clearAllEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "slag.toml")
	if err := os.WriteFile(path, []byte(`http_addr = ":9999"`), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SLAG_CONFIG", path)
	t.Setenv("SLAG_HTTP_ADDR", ":4444")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":4444" {
		t.Errorf("HTTPAddr = %q, want env override %q", cfg.HTTPAddr, ":4444")
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("SLAG_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing SLAG_CONFIG file")
	}
}

func TestPick(t *testing.T) {
	for _, tc := range []struct {
		name     string
		key      string
		envVal   string
		fileVal  string
		fallback string
		want     string
	}{
		{"EmptyUsesDefault", "TEST_PICK_EMPTY", "", "", "default-val", "default-val"},
		{"FileBeatsDefault", "TEST_PICK_FILE", "", "from-file", "default-val", "from-file"},
		{"EnvBeatsFile", "TEST_PICK_ENV", "from-env", "from-file", "default-val", "from-env"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envVal)
			got := pick(tc.key, tc.fileVal, tc.fallback)
			if got != tc.want {
				t.Errorf("pick(%q, %q, %q) = %q, want %q", tc.key, tc.fileVal, tc.fallback, got, tc.want)
			}
		})
	}
}
