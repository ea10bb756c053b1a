package main

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

const maxImageBytes = 8 << 20

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"}

type backgroundLoadedMsg struct {
	path string
	ref  string
}

type backgroundFailedMsg struct {
	path string
	err  error
}

// readImageCmd reads path off the update loop and reports back with a message.
func readImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ref, err := imageDataURI(path)
		if err != nil {
			return backgroundFailedMsg{path: path, err: err}
		}
		return backgroundLoadedMsg{path: path, ref: ref}
	}
}

// imageDataURI embeds the file at path as a base64 data URI.
func imageDataURI(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxImageBytes {
		return "", fmt.Errorf("%s is %s, limit is %s", path,
			humanize.Bytes(uint64(info.Size())), humanize.Bytes(maxImageBytes))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// describeBackground is the one-line label for a backdrop reference.
func describeBackground(ref string) string {
	if ref == "" {
		return "none"
	}
	if !strings.HasPrefix(ref, "data:") {
		return ref
	}
	header, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return "embedded image"
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mime == "" {
		mime = "image"
	}
	size := base64.StdEncoding.DecodedLen(len(payload))
	return fmt.Sprintf("embedded %s, %s", mime, humanize.Bytes(uint64(size)))
}
