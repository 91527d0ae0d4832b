package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	json2pdf "github.com/Adoubf/json2pdf"
	"github.com/Adoubf/json2pdf/internal/assets"
	"github.com/Adoubf/json2pdf/internal/config"
	"github.com/Adoubf/json2pdf/internal/pipeline"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo   `json:"chrome"`
	Renderer rendererInfo `json:"renderer"`
	Env      envInfo      `json:"environment"`
	System   systemInfo `json:"system"`
	Styles   styleInfo  `json:"styles"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// rendererInfo holds the settings convert would launch Chrome with.
type rendererInfo struct {
	BrowserBin        string `json:"browser_bin,omitempty"`
	Sandbox           bool   `json:"sandbox"`
	SandboxDisabledBy string `json:"sandbox_disabled_by,omitempty"`
	PageTimeout       string `json:"page_timeout"`
	TimeoutSource     string `json:"timeout_source"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// styleInfo lists what the renderer can style with.
type styleInfo struct {
	BuiltIn         []string `json:"built_in"`
	HighlightThemes int      `json:"highlight_themes"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		switch arg {
		case "--json":
			jsonOutput = true
		case "-h", "--help":
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		default:
			fmt.Fprintf(env.Stderr, "unknown doctor argument: %s\n", arg)
			return ExitUsage
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	launch := json2pdf.BrowserLaunchSettings()
	checkRenderer(result, launch, loadEnvConfig())
	checkChrome(result, launch.BrowserBin)
	checkEnvironment(result)
	checkSystem(result)
	checkStyles(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkRenderer records the browser binary, sandbox mode and page timeout
// that convert would use with the same environment and JSON2PDF_CONFIG.
func checkRenderer(result *doctorResult, launch json2pdf.LaunchSettings, envCfg *envConfig) {
	result.Renderer.BrowserBin = launch.BrowserBin
	result.Renderer.Sandbox = !launch.NoSandbox()
	result.Renderer.SandboxDisabledBy = launch.NoSandboxReason

	timeout, source := json2pdf.DefaultTimeout, "default"
	cfg, err := loadConfig("", envCfg)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Config unusable: %v", err))
		cfg = config.DefaultConfig()
	}
	switch {
	case envCfg.Timeout > 0:
		timeout, source = envCfg.Timeout, "JSON2PDF_TIMEOUT"
	case cfg.TimeoutDuration() > 0:
		timeout, source = cfg.TimeoutDuration(), "config"
	}
	result.Renderer.PageTimeout = timeout.String()
	result.Renderer.TimeoutSource = source
}

// checkChrome detects Chrome/Chromium installation. A non-empty bin is the
// binary the renderer was told to use.
func checkChrome(result *doctorResult, bin string) {
	chromePath := bin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	// #nosec G204 -- path comes from ROD_BROWSER_BIN or rod's own lookup
	out, err := exec.Command(chromePath, "--version").Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Renderer.Sandbox {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but Chrome would launch with its sandbox. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("JSON2PDF_CONTAINER") == "1" {
		return true, "JSON2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for batch HTML is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "json2pdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// checkStyles verifies the embedded stylesheets and highlight themes load.
func checkStyles(result *doctorResult) {
	result.Styles.BuiltIn = assets.StyleNames()
	result.Styles.HighlightThemes = len(pipeline.HighlightThemes())

	if _, err := assets.LoadStyle(assets.DefaultStyleName); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Default style unavailable: %v", err))
	}
	if _, err := pipeline.HighlightCSS(""); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Default highlight theme unavailable: %v", err))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "json2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Renderer")
	if r.Renderer.BrowserBin != "" {
		fmt.Fprintf(w, "  [OK] Browser: %s (ROD_BROWSER_BIN)\n", r.Renderer.BrowserBin)
	} else {
		fmt.Fprintln(w, "  [OK] Browser: rod lookup or download")
	}
	if r.Renderer.Sandbox {
		fmt.Fprintln(w, "  [OK] Sandbox: enabled")
	} else {
		fmt.Fprintf(w, "  [OK] Sandbox: disabled, --no-sandbox (%s)\n", r.Renderer.SandboxDisabledBy)
	}
	fmt.Fprintf(w, "  [OK] Page timeout: %s (%s)\n", r.Renderer.PageTimeout, r.Renderer.TimeoutSource)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Styles")
	fmt.Fprintf(w, "  [OK] Built-in: %s\n", strings.Join(r.Styles.BuiltIn, ", "))
	fmt.Fprintf(w, "  [OK] Highlight themes: %d\n", r.Styles.HighlightThemes)
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
