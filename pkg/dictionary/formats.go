package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents the files the encoder reads and writes
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatKeys               // Binary key corpus
	FormatChunk              // Chunked binary word list with ranks
	FormatText               // One key per line
	FormatDict               // Trained dictionary
)

// FormatInfo contains metadata about a file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatKeys: {
		Format:      FormatKeys,
		Description: "Binary Key Corpus",
		Extensions:  []string{".bin"},
		MinSize:     4, // key count header
	},
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Word List",
		Extensions:  []string{".bin"},
		MinSize:     4,
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Key Corpus",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatDict: {
		Format:      FormatDict,
		Description: "Encoder Dictionary",
		Extensions:  []string{".dict"},
		MinSize:     8,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	switch expectedFormat {
	case FormatKeys, FormatChunk:
		return validateBinaryFormat(filename)
	case FormatText:
		return validateTextFormat(filename)
	case FormatDict:
		return validateDictFormat(filename)
	}
	return nil
}

// validateBinaryFormat checks the key count header of binary files
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if count < 0 {
		return fmt.Errorf("invalid key count in %s: %d (negative)", filename, count)
	}

	log.Debugf("Binary file %s validated: %d keys", filename, count)
	return nil
}

func validateTextFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, 1024)
	if _, err = file.Read(buffer); err != nil {
		return fmt.Errorf("failed to read from text file %s: %w", filename, err)
	}

	log.Debugf("Text file %s validated", filename)
	return nil
}

// validateDictFormat decodes only the version field of a dictionary file
func validateDictFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var head struct {
		Version int `msgpack:"v"`
	}
	if err := msgpack.NewDecoder(bufio.NewReader(file)).Decode(&head); err != nil {
		return fmt.Errorf("failed to decode dictionary header from %s: %w", filename, err)
	}
	if head.Version != fileVersion {
		return fmt.Errorf("%w: %d in %s", ErrBadVersion, head.Version, filename)
	}
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	basename := strings.ToLower(filepath.Base(filename))

	if strings.HasPrefix(basename, "dict_") && ext == ".bin" {
		if err := ValidateFileFormat(filename, FormatChunk); err == nil {
			return FormatChunk, nil
		}
	}

	candidates := map[string]FileFormat{".bin": FormatKeys, ".txt": FormatText, ".dict": FormatDict}
	if format, ok := candidates[ext]; ok {
		if err := ValidateFileFormat(filename, format); err == nil {
			return format, nil
		}
	}

	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].Format < formats[j].Format })
	return formats
}
