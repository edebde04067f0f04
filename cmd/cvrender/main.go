// Command cvrender renders a CV submission file to HTML or PDF without the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/internal/cv"
	"github.com/folio-studio/portfolio-api/internal/cv/render"
	"github.com/folio-studio/portfolio-api/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		logger.Errorf("cvrender: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("cvrender", flag.ContinueOnError)
	in := fs.String("in", "-", "CV JSON file, - for stdin")
	out := fs.String("out", "-", "output file, - for stdout")
	format := fs.String("format", "pdf", "html or pdf")
	chrome := fs.String("chrome", os.Getenv("CHROME_PATH"), "Chrome executable")
	timeout := fs.Duration("timeout", 60*time.Second, "render timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}
	var sub cv.Submission
	if err := json.NewDecoder(src).Decode(&sub); err != nil {
		return fmt.Errorf("decode %s: %w", *in, err)
	}
	doc := cv.Normalize(sub)
	html := render.HTML(&doc)

	var body []byte
	switch *format {
	case "html":
		body = []byte(html)
	case "pdf":
		r := render.NewChromeRenderer(config.RenderConfig{ChromePath: *chrome, Timeout: *timeout, MaxConcurrent: 1})
		pdf, err := r.PDF(context.Background(), html)
		if err != nil {
			return err
		}
		body = pdf
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	if *out == "-" {
		_, err := stdout.Write(body)
		return err
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		return err
	}
	logger.Infof("wrote %d bytes to %s", len(body), *out)
	return nil
}
