package json2pdf_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json2pdf "github.com/Adoubf/json2pdf"
)

// Example renders one batch of markup to HTML. Leave HTMLOnly unset for a
// PDF (requires Chrome).
func Example() {
	conv, err := json2pdf.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), json2pdf.Input{
		Markup:   "### title:\n\nHello\n\n----\n",
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), "<h3") {
		fmt.Println("HTML generated")
	}
	// Output: HTML generated
}

// htmlRenderer stands in for a Converter so the example runs without Chrome.
type htmlRenderer struct {
	conv *json2pdf.Converter
}

func (r htmlRenderer) RenderToFile(ctx context.Context, in json2pdf.Input, path string) (*json2pdf.ConvertResult, error) {
	in.HTMLOnly = true
	return r.conv.RenderToFile(ctx, in, path)
}

// ExampleProcessor_Process writes one document per batch of two records.
func ExampleProcessor_Process() {
	dir, err := os.MkdirTemp("", "json2pdf-example-")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "people.jsonl")
	data := `{"name": "Ada", "role": "engineer"}
{"name": "Grace", "role": "admiral"}
{"name": "Linus"}
`
	if err := os.WriteFile(src, []byte(data), 0o600); err != nil {
		fmt.Println("error:", err)
		return
	}

	conv, err := json2pdf.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	proc, err := json2pdf.NewProcessor(htmlRenderer{conv}, json2pdf.WithPrefix("people"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	n, err := proc.Process(context.Background(), json2pdf.Source{Path: src}, json2pdf.Job{
		OutputDir: filepath.Join(dir, "out"),
		Fields:    []string{"name", "role"},
		BatchSize: 2,
		Separator: json2pdf.DefaultSeparator,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("documents:", n)
	// Output: documents: 2
}

// ExampleRepair loads a JSONL file saved with a .json extension.
func ExampleRepair() {
	dir, err := os.MkdirTemp("", "json2pdf-example-")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "export.json")
	if err := os.WriteFile(src, []byte("{\"id\": 1}\n{\"id\": 2}\n"), 0o600); err != nil {
		fmt.Println("error:", err)
		return
	}

	outcome, err := json2pdf.Repair(src, json2pdf.RepairOptions{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(len(outcome.Records), outcome.Repaired, outcome.WroteFile)
	// Output: 2 true false
}
