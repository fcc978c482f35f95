package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
		{
			name:      "invalid duration value",
			filePath:  "testdata/bad_duration.yaml",
			wantErr:   true,
			errString: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout.Std())
				assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout.Std())
				assert.Equal(t, "slicer-service", cfg.App.Name)
				assert.Equal(t, 4, cfg.Slicer.Concurrency)
				assert.Equal(t, 200*time.Millisecond, cfg.Slicer.ProgressPollInterval.Std())
				assert.Equal(t, int64(52428800), cfg.Slicer.MaxUploadBytes)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Slicer: SlicerConfig{
				Concurrency:          4,
				ProgressPollInterval: Duration(200 * time.Millisecond),
				MaxUploadBytes:       1024,
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "negative concurrency",
			mutate:    func(c *Config) { c.Slicer.Concurrency = -1 },
			wantErr:   true,
			errString: "concurrency must not be negative",
		},
		{
			name:      "zero poll interval",
			mutate:    func(c *Config) { c.Slicer.ProgressPollInterval = 0 },
			wantErr:   true,
			errString: "progress_poll_interval must be greater than 0",
		},
		{
			name:      "zero upload limit",
			mutate:    func(c *Config) { c.Slicer.MaxUploadBytes = 0 },
			wantErr:   true,
			errString: "max_upload_bytes must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
