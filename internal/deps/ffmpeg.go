package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpegForWhisper reports the FFmpeg binary whisper will use to decode
// captured audio.
//
// Bundled whisper distributions ship an ffmpeg binary next to the whisper
// executable and prefer it over PATH. This helper mirrors that lookup order
// so Greenroom status output matches what transcription actually runs.
func CheckFFmpegForWhisper(whisperCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by whisper for audio decoding",
	}

	whisperBinary := strings.TrimSpace(whisperCommand)
	if whisperBinary != "" {
		if resolved, err := exec.LookPath(whisperBinary); err == nil {
			if candidate, ok := ffmpegSidecarCandidate(resolved); ok {
				if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
					result.Command = candidate
					result.Available = true
					return result
				}
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func ffmpegSidecarCandidate(whisperPath string) (string, bool) {
	if whisperPath == "" {
		return "", false
	}
	dir := filepath.Dir(whisperPath)
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
