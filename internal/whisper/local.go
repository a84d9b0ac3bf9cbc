package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// LocalEngine runs the whisper-cli binary (whisper.cpp) that ships next to
// the polyglot executable. Model loading and caching are the binary's own
// concern; this wrapper only spawns one inference run per invocation.
type LocalEngine struct {
	Executable string
	Logger     *zap.Logger
}

func NewLocalEngine(logger *zap.Logger, override string) (*LocalEngine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path := strings.TrimSpace(override); path != "" {
		if err := ensureExecutable(path); err != nil {
			return nil, fmt.Errorf("configured whisper engine is not executable: %w", err)
		}
		return &LocalEngine{Executable: path, Logger: logger}, nil
	}

	selfExe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve polyglot executable path: %w", err)
	}

	engineExe, err := resolveEnginePath(selfExe)
	if err != nil {
		return nil, err
	}

	return &LocalEngine{Executable: engineExe, Logger: logger}, nil
}

func resolveEnginePath(selfExecutable string) (string, error) {
	for _, candidate := range enginePathCandidates(selfExecutable) {
		if err := ensureExecutable(candidate); err == nil {
			return candidate, nil
		}
	}

	if found, err := exec.LookPath(engineBinaryName()); err == nil {
		return found, nil
	}

	return "", fmt.Errorf("whisper engine not found near %s and not on PATH; install whisper-cli or set POLYGLOT_WHISPER_PATH", selfExecutable)
}

func enginePathCandidates(selfExecutable string) []string {
	binDir := filepath.Dir(selfExecutable)
	engineName := engineBinaryName()

	return []string{
		filepath.Join(binDir, engineName),
		filepath.Join(binDir, "..", "libexec", "polyglot", engineName),
		filepath.Join(binDir, "resources", "bin", engineName),
	}
}

func (e *LocalEngine) Transcribe(ctx context.Context, req TranscriptionRequest) (Transcription, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return Transcription{}, errors.New("audio path is required")
	}
	if strings.TrimSpace(req.ModelPath) == "" {
		return Transcription{}, errors.New("model path is required")
	}

	if err := ensureExecutable(e.Executable); err != nil {
		return Transcription{}, fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	outBase := filepath.Join(os.TempDir(), fmt.Sprintf("polyglot-%d", time.Now().UnixNano()))
	jsonOut := outBase + ".json"
	defer os.Remove(jsonOut)

	args := []string{"-m", req.ModelPath, "-f", req.AudioPath, "-oj", "-of", outBase}
	lang := strings.TrimSpace(req.Language)
	if lang != "" && lang != "auto" {
		args = append(args, "-l", lang)
	}

	cmd := exec.CommandContext(ctx, e.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	e.Logger.Debug("running whisper engine", zap.String("engine", e.Executable), zap.Strings("args", args))
	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if isMissingSharedLibraryError(errText) {
			return Transcription{}, fmt.Errorf("whisper engine at %s is missing required shared libraries (%s); reinstall the application or rebuild whisper-cli with BUILD_SHARED_LIBS=OFF", e.Executable, errText)
		}
		return Transcription{}, fmt.Errorf("whisper transcribe failed: %w (%s)", err, errText)
	}

	content, err := os.ReadFile(jsonOut)
	if err != nil {
		return Transcription{}, fmt.Errorf("read whisper output: %w", err)
	}

	return parseEngineOutput(content)
}

// whisper-cli -oj output: detected language under result.language and one
// transcription entry per segment with millisecond offsets.
type engineOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseEngineOutput(content []byte) (Transcription, error) {
	var parsed engineOutput
	if err := json.Unmarshal(content, &parsed); err != nil {
		return Transcription{}, fmt.Errorf("parse whisper output: %w", err)
	}

	tr := Transcription{
		Language: strings.TrimSpace(parsed.Result.Language),
		Segments: make([]Segment, 0, len(parsed.Transcription)),
	}
	if tr.Language == "" {
		tr.Language = "unknown"
	}

	var full strings.Builder
	for _, seg := range parsed.Transcription {
		full.WriteString(seg.Text)
		tr.Segments = append(tr.Segments, Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	tr.Text = strings.TrimSpace(full.String())

	return tr, nil
}

func engineBinaryName() string {
	if runtime.GOOS == "windows" {
		return "whisper-cli.exe"
	}
	return "whisper-cli"
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func isMissingSharedLibraryError(stderr string) bool {
	value := strings.ToLower(strings.TrimSpace(stderr))
	if value == "" {
		return false
	}

	patterns := []string{
		"error while loading shared libraries",
		"cannot open shared object file",
		"dyld: library not loaded",
		"image not found",
	}

	for _, pattern := range patterns {
		if strings.Contains(value, pattern) {
			return true
		}
	}

	return false
}
