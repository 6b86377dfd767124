package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	original := strings.Repeat("This Agreement shall be governed by the laws of the State. ", 50)

	for _, algorithm := range []CompressionAlgorithm{CompressionGzip, CompressionBrotli} {
		compressed, err := CompressData([]byte(original), algorithm)
		if err != nil {
			t.Fatalf("%s: compress failed: %v", algorithm, err)
		}
		if len(compressed) >= len(original) {
			t.Errorf("%s: repetitive text did not shrink (%d >= %d)", algorithm, len(compressed), len(original))
		}

		decompressed, err := DecompressData(compressed, algorithm)
		if err != nil {
			t.Fatalf("%s: decompress failed: %v", algorithm, err)
		}
		if !bytes.Equal(decompressed, []byte(original)) {
			t.Fatalf("%s: round trip mismatch", algorithm)
		}
	}
}

func TestCompressNonePassthrough(t *testing.T) {
	data := []byte("short text")

	compressed, err := CompressData(data, CompressionNone)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if !bytes.Equal(compressed, data) {
		t.Fatal("none algorithm modified data")
	}
}

func TestCompressUnknownAlgorithm(t *testing.T) {
	if _, err := CompressData([]byte("x"), CompressionAlgorithm("zstd")); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if _, err := DecompressData([]byte("x"), CompressionAlgorithm("zstd")); err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
}

func TestGetBestCompressionThreshold(t *testing.T) {
	small := make([]byte, minCompressSize-1)
	large := make([]byte, minCompressSize)

	if got := GetBestCompression(small); got != CompressionNone {
		t.Errorf("small payload: expected none, got %s", got)
	}
	if got := GetBestCompression(large); got != CompressionBrotli {
		t.Errorf("large payload: expected brotli, got %s", got)
	}
}

func TestCompressTextRoundTrip(t *testing.T) {
	original := strings.Repeat("section original text ", 100)

	compressed, algorithm, err := CompressText(original)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if algorithm != CompressionBrotli {
		t.Fatalf("expected brotli for large text, got %s", algorithm)
	}

	decompressed, err := DecompressText(compressed, algorithm)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if decompressed != original {
		t.Fatal("round trip mismatch")
	}
}

func TestCompressTextSmallSkipsCompression(t *testing.T) {
	compressed, algorithm, err := CompressText("tiny")
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if algorithm != CompressionNone {
		t.Fatalf("expected none for tiny text, got %s", algorithm)
	}
	if string(compressed) != "tiny" {
		t.Fatalf("tiny text modified: %q", compressed)
	}
}
