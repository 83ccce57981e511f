package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeManifestProject(t *testing.T, nsSource string) string {
	t.Helper()
	dir := t.TempDir()

	manifest := `
project "example" {
	output_path = "build/"
	namespace "n" {
		source = "n.til"
	}
}
`
	if err := os.WriteFile(filepath.Join(dir, "project.hcl"), []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "n.til"), []byte(nsSource), 0644); err != nil {
		t.Fatalf("failed to write namespace source: %v", err)
	}
	return filepath.Join(dir, "project.hcl")
}

func TestCheckCmd_ValidProject(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type Byte = Bits(8);
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v (stderr: %s)", err, stderr.String())
	}
	if stdout.Len() == 0 {
		t.Error("expected a success message on stdout")
	}
}

func TestCheckCmd_ParseErrorFails(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type Byte = ;
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err == nil {
		t.Error("expected a parse error")
	}
	if stderr.Len() == 0 {
		t.Error("expected the parse error to be printed to stderr")
	}
}

func TestCheckCmd_EvalErrorFails(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type Alias = Unknown;
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err == nil {
		t.Error("expected an evaluation error for an unresolved type reference")
	}
}

func TestCheckCmd_MissingManifestFails(t *testing.T) {
	cmd := newCheckCmd()
	cmd.SetArgs([]string{"/nonexistent/project.hcl"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for a missing manifest file")
	}
}

func TestCheckCmd_DumpIR(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type Byte = Bits(8);
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath, "--dump-ir"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Byte")) {
		t.Errorf("expected dumped YAML to mention the declared type, got: %s", stdout.String())
	}
}

func TestCheckCmd_DumpIR_SynthesizesDeclaredStreamTypes(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 4, direction: Forward);
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath, "--dump-ir"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got: %v (stderr: %s)", err, stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("n::S: 1 physical stream(s)")) {
		t.Errorf("expected a physical-synthesis summary line for S, got: %s", stdout.String())
	}
}

func TestCheckCmd_StrictWithoutComplexityFails(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type Byte = Bits(8);
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath, "--strict"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err == nil {
		t.Error("expected --strict without --complexity to fail")
	}
}

func TestCheckCmd_StrictComplexityCeilingRejectsExcess(t *testing.T) {
	manifestPath := writeManifestProject(t, `
namespace n {
	type S = Stream(data: Bits(8), dimensionality: 1, synchronicity: Sync, complexity: 6, direction: Forward);
}
`)

	cmd := newCheckCmd()
	cmd.SetArgs([]string{manifestPath, "--strict", "--complexity", "4"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	if err := cmd.Execute(); err == nil {
		t.Error("expected the stream's complexity 6 to exceed the ceiling of 4")
	}
}
