package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Adoubf/json2pdf/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments; empty takes none
}

// completionMeta holds completion hints that a FlagSet cannot express.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
// Flag names, types and descriptions come from the FlagSets.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"footer-position": {Values: []string{"left", "center", "right"}},
	"value-format":    {Values: []string{"text", "markdown"}},
	"justify":         {Values: []string{"justify", "left"}},
	"keep-together":   {Values: []string{"avoid", "auto"}},
	"log-level":       {Values: []string{"debug", "info", "warn", "error"}},
	"style":           {Values: assets.StyleNames()},

	// File flags with glob patterns
	"config":        {FileGlob: "*.yaml,*.yml"},
	"css":           {FileGlob: "*.css"},
	"repair-output": {FileGlob: "*.json,*.jsonl"},
	"log-file":      {FileGlob: "*.log,*.jsonl"},

	// Directory flags
	"asset-path": {IsDir: true},
}

// dirFlags lists flags completed as directories on a given command.
// repair reuses --output for a file, so only convert's is a directory.
var dirFlags = map[string]map[string]bool{
	"convert": {"output": true},
}

const recordFilePattern = "*.json,*.jsonl"

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(cmd string, fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}
		if dirFlags[cmd][f.Name] {
			fd.Type = flagDir
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	convertFS := flag.NewFlagSet("convert", flag.ContinueOnError)
	registerConvertFlags(convertFS, &convertFlags{})
	repairFS := flag.NewFlagSet("repair", flag.ContinueOnError)
	registerRepairFlags(repairFS, &repairCmdFlags{})
	fieldsFS := flag.NewFlagSet("fields", flag.ContinueOnError)
	registerFieldsFlags(fieldsFS, &fieldsCmdFlags{})

	repairDefs := extractFlagsFromFlagSet("repair", repairFS)
	for i := range repairDefs {
		if repairDefs[i].Long == "output" {
			repairDefs[i].Type = flagFile
			repairDefs[i].FileGlob = "*.json"
		}
	}

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Render records into batched PDF documents",
			Flags:       extractFlagsFromFlagSet("convert", convertFS),
			FilePattern: recordFilePattern,
		},
		{
			Name:        "repair",
			Desc:        "Rebuild a malformed record file line by line",
			Flags:       repairDefs,
			FilePattern: recordFilePattern,
		},
		{
			Name:        "fields",
			Desc:        "List the field names of the first record",
			Flags:       extractFlagsFromFlagSet("fields", fieldsFS),
			FilePattern: recordFilePattern,
		},
		{
			Name:  "doctor",
			Desc:  "Check Chrome and environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}},
		},
		{Name: "completion", Desc: "Generate a shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell name", ErrUsage)
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: json2pdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(json2pdf completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(json2pdf completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    json2pdf completion fish > ~/.config/fish/completions/json2pdf.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    json2pdf completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// Shell generators
// ---------------------------------------------------------------------------

// commandNames returns the names of cmds in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// globList splits "a,b" patterns for shells that take one glob per word.
func globList(pattern string) []string {
	return strings.Split(pattern, ",")
}

// quoteSingle quotes s for a single-quoted shell string.
func quoteSingle(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# bash completion for json2pdf\n")
	b.WriteString("_json2pdf() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W '%s' -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		var words []string
		var valueCases strings.Builder
		for _, f := range c.Flags {
			opts := "--" + f.Long
			words = append(words, "--"+f.Long)
			if f.Short != "" {
				words = append(words, "-"+f.Short)
				opts += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&valueCases, "        %s) COMPREPLY=($(compgen -W '%s' -- \"$cur\")); return ;;\n",
					opts, strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&valueCases, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", opts)
			case flagDir:
				fmt.Fprintf(&valueCases, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", opts)
			case flagString, flagInt, flagFloat:
				fmt.Fprintf(&valueCases, "        %s) return ;;\n", opts)
			}
		}
		if valueCases.Len() > 0 {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(valueCases.String())
			b.WriteString("        esac\n")
		}
		if c.Name == "help" {
			fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W '%s' -- \"$cur\"))\n", strings.Join(commandNames(cmds), " "))
		} else if c.Name == "completion" {
			b.WriteString("        COMPREPLY=($(compgen -W 'bash zsh fish powershell' -- \"$cur\"))\n")
		} else if len(words) > 0 || c.FilePattern != "" {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W '%s' -- \"$cur\"))\n", strings.Join(words, " "))
			if c.FilePattern != "" {
				b.WriteString("        else\n")
				b.WriteString("            COMPREPLY=($(compgen -f -- \"$cur\"))\n")
			}
			b.WriteString("        fi\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -o filenames -F _json2pdf json2pdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshArg returns the _arguments entries for one flag.
func zshArg(f flagDef) []string {
	desc := strings.NewReplacer("[", "(", "]", ")", "'", "").Replace(f.Desc)

	var action string
	switch f.Type {
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = `:file:_files -g "(` + strings.Join(globList(f.FileGlob), "|") + `)"`
	case flagDir:
		action = ":directory:_files -/"
	case flagString, flagInt, flagFloat:
		action = ":" + f.Long + ":"
	}

	specs := []string{"'--" + f.Long + "[" + desc + "]" + action + "'"}
	if f.Short != "" {
		specs = append(specs, "'-"+f.Short+"["+desc+"]"+action+"'")
	}
	return specs
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef json2pdf\n\n")
	b.WriteString("_json2pdf() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, quoteSingle(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		switch c.Name {
		case "help":
			b.WriteString("        _describe 'command' commands\n")
		case "completion":
			b.WriteString("        _values 'shell' bash zsh fish powershell\n")
		default:
			b.WriteString("        _arguments \\\n")
			for _, f := range c.Flags {
				for _, arg := range zshArg(f) {
					fmt.Fprintf(&b, "            %s \\\n", arg)
				}
			}
			if c.FilePattern != "" {
				fmt.Fprintf(&b, "            '*:input:_files -g \"(%s)\"'\n", strings.Join(globList(c.FilePattern), "|"))
			} else {
				b.WriteString("            '*: :'\n")
			}
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _json2pdf json2pdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for json2pdf\n")
	b.WriteString("complete -c json2pdf -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c json2pdf -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, quoteFish(c.Desc))
	}
	b.WriteString("complete -c json2pdf -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	fmt.Fprintf(&b, "complete -c json2pdf -n '__fish_seen_subcommand_from help' -a '%s'\n", strings.Join(commandNames(cmds), " "))

	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c json2pdf -n '%s' -F\n", cond)
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c json2pdf -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt, flagFloat:
				line += " -x"
			}
			line += " -d '" + quoteFish(f.Desc) + "'"
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// quoteFish escapes s for a single-quoted fish string.
func quoteFish(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for json2pdf\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName json2pdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, strings.ReplaceAll(c.Desc, "'", "''"))
	}
	b.WriteString("    }\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		var names []string
		for _, f := range c.Flags {
			names = append(names, "'--"+f.Long+"'")
			if f.Short != "" {
				names = append(names, "'-"+f.Short+"'")
			}
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(names, ", "))
	}
	b.WriteString("    }\n")
	b.WriteString("    $values = @{\n")
	seen := map[string]bool{}
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			quoted := make([]string, len(f.Values))
			for i, v := range f.Values {
				quoted[i] = "'" + v + "'"
			}
			fmt.Fprintf(&b, "        '--%s' = @(%s)\n", f.Long, strings.Join(quoted, ", "))
		}
	}
	b.WriteString("    }\n\n")
	b.WriteString("    if ($words.Count -le 1 -or ($words.Count -eq 2 -and $wordToComplete)) {\n")
	b.WriteString("        $commands.Keys | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $words[1]\n")
	b.WriteString("    $prev = if ($wordToComplete) { $words[-2] } else { $words[-1] }\n")
	b.WriteString("    if ($values.ContainsKey($prev)) {\n")
	b.WriteString("        $values[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n")
	b.WriteString("    if ($wordToComplete -like '-*' -and $flags.ContainsKey($cmd)) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}
