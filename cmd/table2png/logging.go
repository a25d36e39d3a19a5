package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type logParams struct {
	level  string
	format string
}

func newLogParams() *logParams {
	return &logParams{level: "info", format: "text"}
}

func (p *logParams) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&p.level, "log-level", "l", p.level, "set log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&p.format, "log-format", p.format, "set log format: text, json or json-pretty")
}

func getLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel, nil
	case "", "info":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.DebugLevel, fmt.Errorf("invalid log level: %v", level)
	}
}

func getFormatter(format string) logrus.Formatter {
	switch format {
	case "text":
		return &logrus.TextFormatter{DisableTimestamp: true}
	case "json-pretty":
		return &logrus.JSONFormatter{PrettyPrint: true}
	default:
		return &logrus.JSONFormatter{}
	}
}

// newLogger builds the command logger writing to out.
func (p *logParams) newLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := getLevel(p.level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(getFormatter(p.format))
	return logger, nil
}
