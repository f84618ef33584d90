package logger

import "github.com/zihao-lin/photoframe/internal/config"

// OptionsFromConfig converts the loaded log section into InitOptions.
func OptionsFromConfig(cfg config.LogConfig) InitOptions {
	return InitOptions{
		Level:       cfg.Level,
		Format:      cfg.Format,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Caller:      cfg.Caller,
		Output: OutputOptions{
			ToStdout: cfg.Output.ToStdout,
			ToFile:   cfg.Output.ToFile,
			FilePath: cfg.Output.FilePath,
		},
		Rotation: RotationOptions{
			MaxSizeMB:  cfg.Rotation.MaxSizeMB,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAgeDays: cfg.Rotation.MaxAgeDays,
			Compress:   cfg.Rotation.Compress,
		},
	}
}
