package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"papersum/internal/domain"
	"papersum/internal/server"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

func summarizeAction(c *cli.Context) error {
	rawURL := strings.TrimSpace(c.String("url"))
	pdfPath := strings.TrimSpace(c.String("pdf"))
	format := strings.ToLower(strings.TrimSpace(c.String("format")))

	if (rawURL == "") == (pdfPath == "") {
		return errors.New("exactly one of --url or --pdf is required")
	}
	if format != formatText && format != formatYAML && format != formatJSON {
		return fmt.Errorf("unsupported format: %q", format)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	log := newLogger(os.Stderr, cfg.LogLevel)
	acq, orch := newPipeline(cfg, log)
	ctx := c.Context

	var doc domain.Document
	if rawURL != "" {
		doc, err = acq.AcquireURL(ctx, rawURL)
	} else {
		var data []byte
		if data, err = os.ReadFile(pdfPath); err != nil {
			return fmt.Errorf("read PDF: %w", err)
		}
		doc, err = acq.AcquireFile(ctx, filepath.Base(pdfPath), data)
	}
	if err != nil {
		return fmt.Errorf("failed to load document:\n%w", err)
	}

	set, err := orch.SummarizeAll(ctx, doc)
	if err != nil {
		return err
	}

	return writeReport(c.App.Writer, format, server.NewReport(doc, set))
}

func writeReport(w io.Writer, format string, report server.Report) error {
	switch format {
	case formatYAML:
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case formatJSON:
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		return writeText(w, report)
	}
}

func writeText(w io.Writer, report server.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Source: %s\n", report.Source)
	if report.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", report.Title)
	}
	fmt.Fprintf(&b, "Pages: %d\n", report.Pages)
	if report.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", report.Language)
	}

	for _, summary := range report.Summaries {
		fmt.Fprintf(&b, "\n## %s\n\n", summary.Title)
		if summary.Error != "" {
			b.WriteString(summary.Error)
		} else {
			b.WriteString(summary.Text)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}
