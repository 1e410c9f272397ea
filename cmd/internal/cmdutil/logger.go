package cmdutil

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type loggerConfig struct {
	level   string
	logFile string
}

var loggerConfigInst = loggerConfig{
	level:   zerolog.InfoLevel.String(),
	logFile: "sync.log",
}

func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&loggerConfigInst.level,
		"level",
		loggerConfigInst.level,
		"what level to log at - maps to zerolog.Level",
	)
	cmd.PersistentFlags().StringVar(
		&loggerConfigInst.logFile,
		"log-file",
		loggerConfigInst.logFile,
		"file to mirror log output to, truncated each run; empty disables",
	)
}

func Logger() (zerolog.Logger, error) {
	writer := zerolog.MultiLevelWriter(zerolog.NewConsoleWriter())
	if loggerConfigInst.logFile != "" {
		f, err := os.Create(loggerConfigInst.logFile)
		if err != nil {
			return zerolog.New(writer), err
		}
		writer = zerolog.MultiLevelWriter(zerolog.NewConsoleWriter(), f)
	}
	logger := zerolog.New(writer).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(loggerConfigInst.level)
	if err != nil {
		return logger, err
	}
	return logger.Level(lvl), nil
}
