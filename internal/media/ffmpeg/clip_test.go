package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"

	"github.com/modelcycles/yongent/internal/config"
)

func TestNewCLIDefaults(t *testing.T) {
	cli := NewCLI(config.Clip{})
	if cli.binary != "ffmpeg" {
		t.Fatalf("expected default binary, got %q", cli.binary)
	}
	if cli.seconds != 60 || cli.fadeSeconds != 5 || cli.bitrate != "192k" {
		t.Fatalf("unexpected defaults: %+v", cli)
	}
}

func TestNewCLIRejectsFadeLongerThanClip(t *testing.T) {
	cli := NewCLI(config.Clip{Seconds: 30, FadeSeconds: 45})
	if cli.fadeSeconds != 5 {
		t.Fatalf("expected fade reset to default, got %d", cli.fadeSeconds)
	}
}

func TestMakeClipArgs(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI(config.Clip{Seconds: 60, FadeSeconds: 5, Bitrate: "192k"})
	if err := cli.MakeClip(context.Background(), "/music/in.mp3", "/music/out(60s).mp3"); err != nil {
		t.Fatalf("MakeClip returned error: %v", err)
	}

	wantPairs := map[string]string{
		"-t":       "60",
		"-af":      "afade=t=out:st=55:d=5",
		"-b:a":     "192k",
		"-codec:a": "libmp3lame",
		"-i":       "/music/in.mp3",
	}
	for flag, want := range wantPairs {
		idx := findArg(capturedArgs, flag)
		if idx == -1 || idx+1 >= len(capturedArgs) {
			t.Fatalf("missing %s flag in args %v", flag, capturedArgs)
		}
		if capturedArgs[idx+1] != want {
			t.Fatalf("flag %s = %q, want %q", flag, capturedArgs[idx+1], want)
		}
	}
	if capturedArgs[len(capturedArgs)-1] != "/music/out(60s).mp3" {
		t.Fatalf("expected output path last, got %v", capturedArgs)
	}
	if findArg(capturedArgs, "-y") == -1 {
		t.Fatalf("expected overwrite flag in args %v", capturedArgs)
	}
}

func TestMakeClipNoFade(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := &CLI{binary: "ffmpeg", seconds: 60, fadeSeconds: 0, bitrate: "192k"}
	if err := cli.MakeClip(context.Background(), "in.mp3", "out.mp3"); err != nil {
		t.Fatalf("MakeClip returned error: %v", err)
	}
	if findArg(capturedArgs, "-af") != -1 {
		t.Fatalf("expected no fade filter in args %v", capturedArgs)
	}
}

func TestMakeClipValidatesPaths(t *testing.T) {
	cli := NewCLI(config.Clip{})
	if err := cli.MakeClip(context.Background(), "", "out.mp3"); err == nil {
		t.Fatal("expected error for empty input")
	}
	if err := cli.MakeClip(context.Background(), "in.mp3", ""); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestMakeClipFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=failure")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI(config.Clip{})
	if err := cli.MakeClip(context.Background(), "in.mp3", "out.mp3"); err == nil {
		t.Fatal("expected clip failure error")
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "out.mp3: Invalid argument")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func findArg(args []string, target string) int {
	for i, arg := range args {
		if arg == target {
			return i
		}
	}
	return -1
}
