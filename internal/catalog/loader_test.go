package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gzipLines compresses lines into a catalog payload.
func gzipLines(t *testing.T, lines []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

// createTestCatalogFile creates a gzipped catalog file.
func createTestCatalogFile(t *testing.T, filename string, lines []string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(filePath, gzipLines(t, lines), 0o644))

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "menu.gz", []string{
		"# name,price",
		"Coke,5",
		"",
		"  Salt, Vinegar Chips , 4.50 ",
		"Sparkling Water,5.00",
	})

	products, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Coke", products[0].Name)
	assert.True(t, decimal.NewFromInt(5).Equal(products[0].Price))
	assert.Equal(t, "Salt, Vinegar Chips", products[1].Name)
	assert.True(t, decimal.RequireFromString("4.5").Equal(products[1].Price))
	assert.Equal(t, "Sparkling Water", products[2].Name)
	assert.NotEqual(t, products[0].ID, products[2].ID)
}

func TestFileLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		errorMsg string
	}{
		{name: "Missing price", lines: []string{"Coke"}, errorMsg: "line 1: expected"},
		{name: "Invalid price", lines: []string{"Coke,5", "KitKat,four"}, errorMsg: "line 2: invalid price"},
		{name: "Negative price", lines: []string{"Coke,-5"}, errorMsg: "must not be negative"},
		{name: "Missing name", lines: []string{",5"}, errorMsg: "name is required"},
		{name: "Only comments", lines: []string{"# nothing here"}, errorMsg: "catalog is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())
			filePath := createTestCatalogFile(t, "bad.gz", tt.lines)

			products, err := loader.Load(context.Background(), filePath)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
			assert.Nil(t, products)
		})
	}
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	products, err := loader.Load(context.Background(), "/nonexistent/menu.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog file")
	assert.Nil(t, products)
}

func TestFileLoader_Load_NotGzip(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("Coke,5\n"), 0o644))

	products, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
	assert.Nil(t, products)
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestCatalogFile(t, "menu.gz", []string{"Coke,5"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, err := loader.Load(ctx, filePath)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, products)
}
