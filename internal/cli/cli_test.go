// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/shots"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { shots.SetLogger(nil) })

	var out, errOut bytes.Buffer
	cmd := NewRootCmd(viper.New())
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", ""))
	err := cmd.Execute()
	return out.String(), err
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRenderWritesEveryNthFrame(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "render", "--dir", dir, "--subdir", "sketch",
		"--width", "32", "--height", "24", "--frames", "25", "--every", "10")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	got := listDir(t, filepath.Join(dir, "dist", "sketch"))
	want := []string{"screenshot1.png", "screenshot2.png", "screenshot3.png"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", got, want)
	}
	if w, h := pngSize(t, filepath.Join(dir, "dist", "sketch", "screenshot1.png")); w != 32 || h != 24 {
		t.Errorf("screenshot1 size = %dx%d, want 32x24", w, h)
	}
	if !strings.Contains(out, "25 frames rendered, 3 captured, 3 saved, 0 failed") {
		t.Errorf("summary = %q", out)
	}
}

func TestRenderResizeAt(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "render", "--dir", dir,
		"--width", "16", "--height", "16", "--frames", "6", "--every", "2",
		"--resize-at", "3", "--resize-width", "40", "--resize-height", "20")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}

	root := filepath.Join(dir, "dist")
	tests := []struct {
		file string
		w, h int
	}{
		{"screenshot1.png", 16, 16}, // frame 0
		{"screenshot2.png", 16, 16}, // frame 2
		{"screenshot3.png", 40, 20}, // frame 4, after resize
	}
	for _, tt := range tests {
		if w, h := pngSize(t, filepath.Join(root, tt.file)); w != tt.w || h != tt.h {
			t.Errorf("%s size = %dx%d, want %dx%d", tt.file, w, h, tt.w, tt.h)
		}
	}
}

func TestRenderUniqueSubdir(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, "render", "--dir", dir, "--subdir", "runs", "--unique",
		"--width", "8", "--height", "8", "--frames", "1", "--format", "bmp"); err != nil {
		t.Fatalf("render error = %v", err)
	}

	runs := listDir(t, filepath.Join(dir, "dist", "runs"))
	if len(runs) != 1 {
		t.Fatalf("run dirs = %v, want 1", runs)
	}
	if _, err := uuid.Parse(runs[0]); err != nil {
		t.Errorf("run dir %q is not a uuid: %v", runs[0], err)
	}
	files := listDir(t, filepath.Join(dir, "dist", "runs", runs[0]))
	if len(files) != 1 || files[0] != "screenshot1.bmp" {
		t.Errorf("files = %v, want [screenshot1.bmp]", files)
	}
}

func TestRenderConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "shots.yaml")
	data := "output:\n  prefix: frame\n  subdir: fromfile\nrender:\n  width: 12\n  height: 10\n  frames: 3\n  every: 1\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "--config", cfgPath, "render", "--dir", dir); err != nil {
		t.Fatalf("render error = %v", err)
	}
	got := listDir(t, filepath.Join(dir, "dist", "fromfile"))
	if strings.Join(got, ",") != "frame1.png,frame2.png,frame3.png" {
		t.Errorf("files = %v", got)
	}
}

func TestRenderEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOTS_OUTPUT_FORMAT", "tiff")
	if _, err := runCLI(t, "render", "--dir", dir, "--width", "8", "--height", "8", "--frames", "1"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if got := listDir(t, filepath.Join(dir, "dist")); len(got) != 1 || got[0] != "screenshot1.tiff" {
		t.Errorf("files = %v, want [screenshot1.tiff]", got)
	}
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "escaping subdir", args: []string{"--subdir", "../out"}},
		{name: "unknown format", args: []string{"--format", "gif"}},
		{name: "write behind too deep", args: []string{"--pool-size", "2", "--write-behind", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := append([]string{"render", "--dir", dir, "--frames", "1"}, tt.args...)
			if _, err := runCLI(t, args...); err == nil {
				t.Error("render error = nil, want validation error")
			}
			if _, err := os.Stat(filepath.Join(dir, "dist")); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("dist created despite invalid config: %v", err)
			}
		})
	}
}

// fakeScreen is a fixed-size solid desktop.
type fakeScreen struct{ w, h int }

func (s fakeScreen) Size() (int, int) { return s.w, s.h }

func (s fakeScreen) ReadPixels(dst []byte, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	copy(dst, img.Pix)
	return nil
}

func TestDisplayCapturesFrames(t *testing.T) {
	orig := openDisplay
	t.Cleanup(func() { openDisplay = orig })
	openDisplay = func(index int) (screen, error) {
		if index != 1 {
			return nil, errors.New("unexpected display index")
		}
		return fakeScreen{w: 10, h: 6}, nil
	}

	dir := t.TempDir()
	out, err := runCLI(t, "display", "--dir", dir, "--display", "1", "--frames", "3", "--interval", "1ms")
	if err != nil {
		t.Fatalf("display error = %v", err)
	}
	got := listDir(t, filepath.Join(dir, "dist"))
	if strings.Join(got, ",") != "screenshot1.png,screenshot2.png,screenshot3.png" {
		t.Errorf("files = %v", got)
	}
	if !strings.Contains(out, "3 saved") {
		t.Errorf("summary = %q", out)
	}
}

func TestDisplayOpenError(t *testing.T) {
	orig := openDisplay
	t.Cleanup(func() { openDisplay = orig })
	boom := errors.New("no screen")
	openDisplay = func(int) (screen, error) { return nil, boom }

	if _, err := runCLI(t, "display", "--dir", t.TempDir()); !errors.Is(err, boom) {
		t.Errorf("display error = %v, want %v", err, boom)
	}
}

func TestSummaryThousandsSeparator(t *testing.T) {
	var buf bytes.Buffer
	summary{Frames: 12345, Dir: "dist", Stats: shots.Stats{Captured: 1200, Saved: 1200}}.print(&buf)
	if !strings.Contains(buf.String(), "12,345 frames rendered, 1,200 captured") {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("log output = %q", buf.String())
	}

	buf.Reset()
	newLogger(&buf, "bogus", "text").Info("fallback")
	if !strings.Contains(buf.String(), "msg=fallback") {
		t.Errorf("log output = %q", buf.String())
	}
}
