package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joelkehle/homeassess/internal/homeassess"
	"github.com/joelkehle/homeassess/internal/intake"
	"github.com/joelkehle/homeassess/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to a saved assessment JSON")
	format := flag.String("format", "md", "Output format: md, pdf, xlsx or email")
	outputPath := flag.String("output", "", "Output path (md and email default to stdout, pdf and xlsx to the generated filename)")
	clientName := flag.String("client", "", "Client name")
	clientAddress := flag.String("address", "", "Client address")
	date := flag.String("date", "", "Assessment date (YYYY-MM-DD, default today)")
	assessor := flag.String("assessor", "", "Assessor name")
	org := flag.String("org", "", "Organization name")
	program := flag.String("program", "", "Program type (OAHMP, CIL, AAA, CDBG, OTHER)")
	caseNumber := flag.String("case", "", "Case number")
	budget := flag.Float64("budget", 0, "Program budget cap (default 5000)")
	chromePath := flag.String("chrome-path", os.Getenv("CHROME_PATH"), "Chromium binary for pdf output")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}
	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	// Accept either a bare assessment or a saved complete-pipeline response.
	var out homeassess.AssessmentOutput
	var envelope struct {
		Data *struct {
			Assessment *homeassess.AssessmentOutput `json:"assessment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(in, &envelope); err == nil && envelope.Data != nil && envelope.Data.Assessment != nil {
		out = *envelope.Data.Assessment
	} else if err := json.Unmarshal(in, &out); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}

	meta := report.Meta{
		ClientName:       *clientName,
		ClientAddress:    *clientAddress,
		AssessorName:     *assessor,
		OrganizationName: *org,
		ProgramType:      intake.ProgramType(strings.ToUpper(*program)),
		CaseNumber:       *caseNumber,
		BudgetCap:        *budget,
	}
	if *date != "" {
		d, err := time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("parse -date: %v", err)
		}
		meta.AssessmentDate = d
	}
	meta = meta.WithDefaults(time.Now())

	data, ext, err := render(context.Background(), *format, out, meta, *chromePath)
	if err != nil {
		log.Fatalf("render %s: %v", *format, err)
	}

	path := *outputPath
	if path == "" && (ext == "pdf" || ext == "xlsx") {
		path = report.Filename(*clientName, meta.AssessmentDate, ext)
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
	} else {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		log.Fatalf("write output: %v", err)
	}
	if path != "" {
		log.Printf("wrote %s (%d bytes)", path, len(data))
	}
}

func render(ctx context.Context, format string, out homeassess.AssessmentOutput, meta report.Meta, chromePath string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "md", "markdown":
		return []byte(report.BuildMarkdown(out, meta)), "md", nil
	case "pdf":
		pdf, err := report.NewChromiumPDFRenderer(chromePath).Render(ctx, "Home Safety Assessment - "+meta.ClientName, report.BuildMarkdown(out, meta))
		return pdf, "pdf", err
	case "xlsx":
		b, err := report.BuildWorkbook(out, meta)
		return b, "xlsx", err
	case "email":
		e := report.BuildEmail(out, meta)
		return []byte(fmt.Sprintf("Subject: %s\n\n%s\n", e.Subject, e.Body)), "txt", nil
	}
	return nil, "", fmt.Errorf("unknown format %q", format)
}
