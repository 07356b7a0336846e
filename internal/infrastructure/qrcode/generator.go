// Package qrcode renders booking verification payloads into scannable PNG
// artifacts served from the public static directory.
package qrcode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	qrc "github.com/skip2/go-qrcode"
)

const imageSize = 300

type Generator struct {
	dir     string
	baseURL string
}

// NewGenerator writes images under dir and reports URLs rooted at baseURL
// (e.g. http://host/public/qrcodes).
func NewGenerator(dir, baseURL string) *Generator {
	return &Generator{dir: dir, baseURL: baseURL}
}

// Generate encodes payload into a PNG named after the ticket id and returns
// its public URL. No retries; the caller decides whether failure matters.
func (g *Generator) Generate(ticketId uuid.UUID, payload string) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create qrcode dir: %w", err)
	}

	filename := ticketId.String() + ".png"
	path := filepath.Join(g.dir, filename)

	if err := qrc.WriteFile(payload, qrc.Medium, imageSize, path); err != nil {
		return "", fmt.Errorf("failed to write qr code: %w", err)
	}

	return g.baseURL + "/" + filename, nil
}
