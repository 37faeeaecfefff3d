package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.vsv")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRunCheckSummaryOnce(t *testing.T) {
	path := writeProgram(t, `fn main -> int32 { if (1 == 1) { 1i32 } else { 2i32 } };`)

	var stdout, stderr bytes.Buffer
	if code := runCheck(checkOptions{filePath: path}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d:\n%s", code, stderr.String())
	}
	if n := strings.Count(stderr.String(), "Finished with 1 warning."); n != 1 {
		t.Errorf("expected the summary once, got %d times:\n%s", n, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout without --report, got %q", stdout.String())
	}
}

func TestRunCheckErrorsAndReport(t *testing.T) {
	path := writeProgram(t, `fn main { y };`)
	var stdout, stderr bytes.Buffer
	if code := runCheck(checkOptions{filePath: path, report: true}, &stdout, &stderr); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if n := strings.Count(stderr.String(), "Failed with 1 error."); n != 1 {
		t.Errorf("expected the failure summary once, got %d times:\n%s", n, stderr.String())
	}

	path = writeProgram(t, `fn pick(c: bool) -> int32 { if (c) { 1i32 } else { 2i32 } };`)
	stdout.Reset()
	stderr.Reset()
	if code := runCheck(checkOptions{filePath: path, report: true}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Function: main::pick") {
		t.Errorf("expected the branch report on stdout, got %q", stdout.String())
	}
}
