package qrcode_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exhibitions/internal/infrastructure/qrcode"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	gen := qrcode.NewGenerator(dir, "http://localhost:8080/public/qrcodes")

	ticketId := uuid.New()
	url, err := gen.Generate(ticketId, `{"ticket_id":"`+ticketId.String()+`"}`)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/public/qrcodes/"+ticketId.String()+".png", url)

	path := filepath.Join(dir, ticketId.String()+".png")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// PNG magic bytes
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, content[:4])
}

func TestGenerateCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "qrcodes")
	gen := qrcode.NewGenerator(dir, "http://localhost:8080/public/qrcodes")

	_, err := gen.Generate(uuid.New(), "payload")
	require.NoError(t, err)

	_, err = os.Stat(dir)
	require.NoError(t, err)
}
