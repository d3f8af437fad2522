//go:build ignore

package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog writes a gzipped "name,price" catalog for local runs
// and for uploading to the S3 catalog bucket.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []struct {
		name  string
		price string
	}{
		{"Stone Wood", "8.50"},
		{"Corona", "9.00"},
		{"Coke", "5.00"},
		{"Sprite", "5.00"},
		{"Sparkling Water", "4.50"},
		{"KitKat", "4.00"},
		{"M&Ms", "4.50"},
		{"Salted Peanuts", "6.00"},
		{"Redrock Chips", "5.50"},
	}

	filePath := filepath.Join(dataDir, "menu.gz")
	file, err := os.Create(filePath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	fmt.Fprintln(gzipWriter, "# name,price")
	for _, p := range products {
		if _, err := fmt.Fprintf(gzipWriter, "%s,%s\n", p.name, p.price); err != nil {
			log.Fatalf("Failed to write product: %v", err)
		}
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
	fmt.Println("Run the API with CATALOG_FILE=" + filePath)
}
