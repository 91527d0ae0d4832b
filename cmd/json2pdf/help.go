package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: json2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Render JSON/JSONL records into batched PDF documents")
	fmt.Fprintln(w, "  repair     Rebuild a malformed record file line by line")
	fmt.Fprintln(w, "  fields     List the field names of the first record")
	fmt.Fprintln(w, "  doctor     Check Chrome and environment")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'json2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: json2pdf convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render records into one PDF per batch, named PREFIX_TIMESTAMP_batchN.pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .json array or .jsonl file (optional if config has input.path)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Records:")
	fmt.Fprintln(w, "  -f, --fields <a,b>        Fields to render, in order (required)")
	fmt.Fprintln(w, "  -b, --batch-size <n>      Records per document (default 1500)")
	fmt.Fprintln(w, "  -t, --separator <s>       Text after each record (default \"----\", \"\" = none)")
	fmt.Fprintln(w, "      --value-format <s>    Values as: text, markdown")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default ./output/pdfs)")
	fmt.Fprintln(w, "      --prefix <s>          Artifact name prefix (default \"records\")")
	fmt.Fprintln(w, "      --timestamp <fmt>     Timestamp format (default YYYYMMDDHHmmss)")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "      --html                Also write each batch's HTML")
	fmt.Fprintln(w, "      --timeout <d>         Per-batch render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Repair:")
	fmt.Fprintln(w, "      --repair              Repair malformed input before converting")
	fmt.Fprintln(w, "      --repair-output <p>   Write repaired records to this path")
	fmt.Fprintln(w, "      --threshold-mb <f>    Largest file repaired in memory (default 10)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-position <s> Position: left, center, right")
	fmt.Fprintln(w, "      --footer-text <s>     Custom footer text")
	fmt.Fprintln(w, "      --footer-date <s>     Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "      --footer-page-number  Show page numbers")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Built-in style (default, compact) or .css path")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file appended last")
	fmt.Fprintln(w, "      --font-family <s>     Body font family")
	fmt.Fprintln(w, "      --font-size <f>       Body font size in px (6-48)")
	fmt.Fprintln(w, "      --line-height <f>     Body line height (1-3)")
	fmt.Fprintln(w, "      --accent-color <hex>  Record border color")
	fmt.Fprintln(w, "      --justify <s>         Paragraphs: justify, left")
	fmt.Fprintln(w, "      --keep-together <s>   Records across pages: avoid, auto")
	fmt.Fprintln(w, "      --highlight-theme <s> Code highlight theme (markdown values)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory searched for named styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-level <s>       debug, info, warn, error")
	fmt.Fprintln(w, "      --log-file <path>     Also write JSON logs to a file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  JSON2PDF_CONFIG, JSON2PDF_FIELDS, JSON2PDF_TIMEOUT, JSON2PDF_OUTPUT_DIR,")
	fmt.Fprintln(w, "  JSON2PDF_BATCH_SIZE, JSON2PDF_SEPARATOR, JSON2PDF_PREFIX, JSON2PDF_STYLE,")
	fmt.Fprintln(w, "  JSON2PDF_PAGE_SIZE, JSON2PDF_VALUE_FORMAT, JSON2PDF_THRESHOLD_MB,")
	fmt.Fprintln(w, "  JSON2PDF_LOG_LEVEL, JSON2PDF_LOG_FILE")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printRepairUsage prints usage for the repair command.
func printRepairUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: json2pdf repair <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Load input, rebuilding it one JSON object per line if it is malformed.")
	fmt.Fprintln(w, "The input file is never modified.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Write the records as a JSON array here")
	fmt.Fprintln(w, "      --threshold-mb <f>    Largest file kept in memory without --output (default 10)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printFieldsUsage prints usage for the fields command.
func printFieldsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: json2pdf fields <input> [--comma]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List the field names of the first record, in source order.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --comma               Print one comma list, ready for --fields")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: json2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, sandbox, temp directory and built-in styles.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "repair":
		printRepairUsage(env.Stdout)
	case "fields":
		printFieldsUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: json2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: json2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
