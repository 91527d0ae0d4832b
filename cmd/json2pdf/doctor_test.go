package main

// Notes:
// - The full runDoctorCmd path depends on whether Chrome is installed, so
//   its assertions only check shape and the status/exit code agreement.
// - Container detection reads process environment; those tests use
//   t.Setenv and do not run in parallel.

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	json2pdf "github.com/Adoubf/json2pdf"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Command surface
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(&fakeRenderer{})
	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout.String())
	}
	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s", result.Env.OS, result.Env.Arch)
	}
	if len(result.Styles.BuiltIn) == 0 {
		t.Error("built-in styles should be listed")
	}
	if result.Styles.HighlightThemes == 0 {
		t.Error("highlight themes should be counted")
	}

	wantCode := ExitSuccess
	if result.Status == "errors" {
		wantCode = ExitGeneral
	}
	if code != wantCode {
		t.Errorf("exit code %d does not match status %q", code, result.Status)
	}
}

func TestRunDoctorCmd_Args(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"help", []string{"--help"}, ExitSuccess, "json2pdf doctor", ""},
		{"unknown argument", []string{"--fix"}, ExitUsage, "", "unknown doctor argument: --fix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(&fakeRenderer{})
			if code := runDoctorCmd(tt.args, env); code != tt.wantCode {
				t.Errorf("runDoctorCmd() = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable report
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result doctorResult
		want   []string
		absent []string
	}{
		{
			name: "ready",
			result: doctorResult{
				Status: "ready",
				Chrome:   chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 120"},
				Renderer: rendererInfo{Sandbox: true, PageTimeout: "30s", TimeoutSource: "default"},
				Env:      envInfo{OS: "linux", Arch: "amd64"},
				System: systemInfo{TempWritable: true},
				Styles: styleInfo{BuiltIn: []string{"default", "compact"}, HighlightThemes: 42},
			},
			want: []string{
				"[OK] Found at /usr/bin/chromium",
				"[OK] Version: Chromium 120",
				"Browser: rod lookup or download",
				"Sandbox: enabled",
				"Page timeout: 30s (default)",
				"Platform: linux/amd64",
				"Built-in: default, compact",
				"Highlight themes: 42",
				"Status: Ready to convert",
			},
			absent: []string{"Warnings:", "Errors:"},
		},
		{
			name: "container warnings",
			result: doctorResult{
				Status:   "warnings",
				Chrome:   chromeInfo{Found: true, Path: "/chrome"},
				Renderer: rendererInfo{BrowserBin: "/chrome", SandboxDisabledBy: "ROD_BROWSER_BIN", PageTimeout: "1m30s", TimeoutSource: "config"},
				Env:      envInfo{OS: "linux", Arch: "arm64", Container: true, ContainerHint: "/.dockerenv", CI: true},
				System:   systemInfo{TempWritable: true},
				Warnings: []string{"set ROD_NO_SANDBOX=1"},
			},
			want: []string{
				"Browser: /chrome (ROD_BROWSER_BIN)",
				"Sandbox: disabled, --no-sandbox (ROD_BROWSER_BIN)",
				"Page timeout: 1m30s (config)",
				"Container: detected (/.dockerenv)",
				"CI: detected",
				"[WARN] set ROD_NO_SANDBOX=1",
				"Status: Ready with warnings",
			},
		},
		{
			name: "errors",
			result: doctorResult{
				Status: "errors",
				Env:    envInfo{OS: "darwin", Arch: "arm64"},
				Errors: []string{"Chrome/Chromium not found"},
			},
			want: []string{
				"[ERROR] Not found",
				"Temp directory: not writable",
				"[ERROR] Chrome/Chromium not found",
				"Status: Not ready",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printDoctorResult(&buf, &tt.result)
			out := buf.String()

			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q\n%s", s, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q", s)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container signals from the environment
// ---------------------------------------------------------------------------

func TestIsContainer_EnvSignals(t *testing.T) {
	tests := []struct {
		name     string
		key, val string
		wantHint string
	}{
		{"explicit override", "JSON2PDF_CONTAINER", "1", "JSON2PDF_CONTAINER=1"},
		{"podman", "container", "podman", "container=podman"},
		{"kubernetes", "KUBERNETES_SERVICE_HOST", "10.0.0.1", "KUBERNETES_SERVICE_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JSON2PDF_CONTAINER", "")
			t.Setenv("container", "")
			t.Setenv("KUBERNETES_SERVICE_HOST", "")
			t.Setenv(tt.key, tt.val)

			ok, hint := isContainer()
			if !ok {
				t.Fatal("container should be detected")
			}
			// /.dockerenv outranks the later signals on Docker hosts
			if hint != tt.wantHint && hint != "/.dockerenv" {
				t.Errorf("hint = %q, want %q", hint, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCheckRenderer - Launch settings as convert would use them
// ---------------------------------------------------------------------------

func TestCheckRenderer(t *testing.T) {
	cfgDir := t.TempDir()
	cfgPath := writeFile(t, cfgDir, "cfg.yaml", "timeout: 90s\n")
	badCfgPath := writeFile(t, cfgDir, "bad.yaml", "timeout: soon\n")

	tests := []struct {
		name        string
		launch      json2pdf.LaunchSettings
		env         map[string]string
		wantSandbox bool
		wantTimeout string
		wantSource  string
		wantWarning string
	}{
		{
			name:        "defaults",
			wantSandbox: true,
			wantTimeout: "30s",
			wantSource:  "default",
		},
		{
			name:        "sandbox disabled",
			launch:      json2pdf.LaunchSettings{NoSandboxReason: "ROD_NO_SANDBOX=1"},
			wantTimeout: "30s",
			wantSource:  "default",
		},
		{
			name:        "timeout from config",
			env:         map[string]string{"JSON2PDF_CONFIG": cfgPath},
			wantSandbox: true,
			wantTimeout: "1m30s",
			wantSource:  "config",
		},
		{
			name:        "env beats config",
			env:         map[string]string{"JSON2PDF_CONFIG": cfgPath, "JSON2PDF_TIMEOUT": "2m"},
			wantSandbox: true,
			wantTimeout: "2m0s",
			wantSource:  "JSON2PDF_TIMEOUT",
		},
		{
			name:        "unusable config falls back",
			env:         map[string]string{"JSON2PDF_CONFIG": badCfgPath},
			wantSandbox: true,
			wantTimeout: "30s",
			wantSource:  "default",
			wantWarning: "Config unusable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JSON2PDF_CONFIG", tt.env["JSON2PDF_CONFIG"])
			t.Setenv("JSON2PDF_TIMEOUT", tt.env["JSON2PDF_TIMEOUT"])

			result := &doctorResult{}
			checkRenderer(result, tt.launch, loadEnvConfig())

			r := result.Renderer
			if r.Sandbox != tt.wantSandbox {
				t.Errorf("Sandbox = %v, want %v", r.Sandbox, tt.wantSandbox)
			}
			if r.SandboxDisabledBy != tt.launch.NoSandboxReason {
				t.Errorf("SandboxDisabledBy = %q, want %q", r.SandboxDisabledBy, tt.launch.NoSandboxReason)
			}
			if r.PageTimeout != tt.wantTimeout || r.TimeoutSource != tt.wantSource {
				t.Errorf("timeout = %s (%s), want %s (%s)", r.PageTimeout, r.TimeoutSource, tt.wantTimeout, tt.wantSource)
			}
			warnings := strings.Join(result.Warnings, "\n")
			if tt.wantWarning == "" && warnings != "" {
				t.Errorf("unexpected warnings: %s", warnings)
			}
			if !strings.Contains(warnings, tt.wantWarning) {
				t.Errorf("warnings = %q, want %q", warnings, tt.wantWarning)
			}
		})
	}
}

func TestCheckEnvironment_SandboxWarningFollowsRenderer(t *testing.T) {
	t.Setenv("CI", "true")

	tests := []struct {
		name        string
		sandbox     bool
		wantWarning bool
	}{
		{"sandbox on in CI", true, true},
		{"sandbox already off", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &doctorResult{Renderer: rendererInfo{Sandbox: tt.sandbox}}
			checkEnvironment(result)

			got := strings.Contains(strings.Join(result.Warnings, "\n"), "ROD_NO_SANDBOX=1")
			if got != tt.wantWarning {
				t.Errorf("sandbox warning = %v, want %v (%v)", got, tt.wantWarning, result.Warnings)
			}
		})
	}
}
