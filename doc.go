// Package json2pdf turns JSON and JSONL records into batched, paginated PDF
// documents rendered by headless Chrome.
//
// # Quick Start
//
//	conv, err := json2pdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	proc, err := json2pdf.NewProcessor(conv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := proc.Process(ctx, json2pdf.Source{Path: "records.jsonl"}, json2pdf.Job{
//	    OutputDir: "out",
//	    Fields:    []string{"question", "answer"},
//	    BatchSize: 1500,
//	    Separator: json2pdf.DefaultSeparator,
//	})
//
// Process writes out/records_20250307090504_batch1.pdf and so on, and
// returns the number of documents.
//
// # Pipeline
//
//  1. Load: a JSON array file, or JSONL where invalid lines are skipped
//     with a warning (LoadRecords).
//  2. Repair (optional): rebuild a malformed source line by line and keep
//     the result in memory or write it to disk depending on size (Repair).
//  3. Partition into consecutive batches of Job.BatchSize records.
//  4. Project each batch to Markdown: one panel per record, a heading per
//     selected field, the separator after each record.
//  5. Render: Goldmark HTML, stylesheet injection, PDF via go-rod.
//
// # Styling
//
// The base stylesheet is chosen with WithStyle ("default", "compact", or a
// CSS file path). Per-run overrides go in Input.Style, and Input.CSS is
// appended last:
//
//	proc, err := json2pdf.NewProcessor(conv, json2pdf.WithRenderInput(json2pdf.Input{
//	    Style:  &json2pdf.Style{AccentColor: "#cc3300", KeepTogether: json2pdf.KeepAvoid},
//	    Page:   &json2pdf.PageSettings{Size: "letter", Orientation: "portrait", Margin: 1},
//	    Footer: &json2pdf.Footer{ShowPageNumber: true},
//	}))
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package json2pdf
