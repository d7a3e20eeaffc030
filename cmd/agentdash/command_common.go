package main

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"text/tabwriter"
	"time"

	"agentdash/internal/client"
	"agentdash/internal/types"
)

const (
	version          = "dev"
	createdAtLayout  = time.RFC3339
	commandTimeout   = 10 * time.Second
	defaultListLimit = 100
)

func printThreads(output io.Writer, threads []*types.Thread) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tICON\tNAME\tCREATED")
	for _, thread := range threads {
		if thread == nil {
			continue
		}
		created := "-"
		if !thread.CreatedAt.IsZero() {
			created = thread.CreatedAt.Format(createdAtLayout)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", thread.ThreadID, thread.Icon(), thread.DisplayName(), created)
	}
	_ = writer.Flush()
}

func printSettings(output io.Writer, settings []client.SettingEntry) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "KEY\tVALUE")
	for _, setting := range settings {
		value := string(setting.Value)
		if value == "" {
			value = "null"
		}
		fmt.Fprintf(writer, "%s\t%s\n", setting.Key, value)
	}
	_ = writer.Flush()
}

func printFeedback(output io.Writer, rows []*types.Feedback) {
	writer := tabwriter.NewWriter(output, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTHREAD\tMESSAGE\tRATING\tTEXT\tCREATED")
	for _, row := range rows {
		if row == nil {
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%g\t%s\t%s\n",
			row.FeedbackID, dashIfEmpty(row.ThreadID), dashIfEmpty(row.MessageID),
			row.Rating, dashIfEmpty(row.FeedbackText), row.CreatedAt.Format(createdAtLayout))
	}
	_ = writer.Flush()
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

// openAppendLog opens path for appending, creating its directory.
func openAppendLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var modified string
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
			case "vcs.modified":
				modified = setting.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	exe, err := os.Executable()
	if err == nil {
		file, err := os.Open(exe)
		if err == nil {
			defer file.Close()
			hasher := sha256.New()
			if _, err := io.Copy(hasher, file); err == nil {
				sum := hasher.Sum(nil)
				return fmt.Sprintf("bin-%x", sum[:6])
			}
		}
	}

	return version
}
