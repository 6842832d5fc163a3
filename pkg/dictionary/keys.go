package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID  int
	Filename string
	KeyCount int
}

// LoadKeys reads a key corpus, detecting its format from the file.
func LoadKeys(path string) ([]string, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file %s: %w", path, err)
	}
	defer file.Close()
	reader := bufio.NewReader(file)

	var keys []string
	switch format {
	case FormatText:
		keys, err = ReadTextKeys(reader)
	case FormatKeys:
		keys, err = ReadBinaryKeys(reader)
	case FormatChunk:
		keys, err = readChunk(reader)
	default:
		return nil, fmt.Errorf("file %s holds a %s, not keys", path, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keys from %s: %w", path, err)
	}
	log.Debugf("Loaded %d keys from %s (%s)", len(keys), path, format)
	return keys, nil
}

// ReadTextKeys reads one key per line. Empty lines are skipped and a
// trailing carriage return is dropped.
func ReadTextKeys(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), math.MaxUint16+2)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}
	return keys, scanner.Err()
}

// ReadBinaryKeys reads an int32 key count followed by uint16-length-prefixed keys.
func ReadBinaryKeys(r io.Reader) ([]string, error) {
	return readRecords(r, false)
}

func readChunk(r io.Reader) ([]string, error) {
	return readRecords(r, true)
}

func readRecords(r io.Reader, ranked bool) ([]string, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if total < 0 {
		return nil, fmt.Errorf("invalid key count %d", total)
	}

	keys := make([]string, 0, min(int(total), 1<<20))
	for len(keys) < int(total) {
		var keyLen uint16
		if err := binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read key length: %w", err)
		}

		keyBytes := make([]byte, keyLen)
		if _, err := io.ReadFull(r, keyBytes); err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}

		if ranked {
			var rank uint16
			if err := binary.Read(r, binary.LittleEndian, &rank); err != nil {
				return nil, fmt.Errorf("failed to read rank: %w", err)
			}
		}
		keys = append(keys, string(keyBytes))
	}
	if len(keys) < int(total) {
		log.Warnf("Key file ended after %d of %d keys", len(keys), total)
	}
	return keys, nil
}

// WriteBinaryKeys writes keys in the format read by ReadBinaryKeys.
func WriteBinaryKeys(w io.Writer, keys []string) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if len(k) > math.MaxUint16 {
			return fmt.Errorf("key of %d bytes exceeds the record limit", len(k))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(k))); err != nil {
			return err
		}
		if _, err := bw.WriteString(k); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteChunk writes keys as a ranked word-list chunk, ranking them by position.
func WriteChunk(w io.Writer, keys []string) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(keys))); err != nil {
		return err
	}
	for i, k := range keys {
		if len(k) > math.MaxUint16 {
			return fmt.Errorf("key of %d bytes exceeds the record limit", len(k))
		}
		rank := uint16(min(i+1, math.MaxUint16))
		for _, v := range []any{uint16(len(k)), []byte(k), rank} {
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// AvailableChunks scans dir for dict_NNNN.bin chunk files, sorted by ID.
func AvailableChunks(dir string) ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		count, err := chunkKeyCount(file)
		if err != nil {
			log.Warnf("Failed to get key count for chunk %s: %v", file, err)
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file, KeyCount: count})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

func chunkKeyCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var count int32
	if err := binary.Read(file, binary.LittleEndian, &count); err != nil {
		return 0, err
	}
	return int(count), nil
}

// LoadChunkDir reads the keys of every chunk in dir, in chunk order.
func LoadChunkDir(dir string) ([]string, error) {
	chunks, err := AvailableChunks(dir)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunk files found in %s", dir)
	}

	var keys []string
	for _, chunk := range chunks {
		chunkKeys, err := LoadKeys(chunk.Filename)
		if err != nil {
			return nil, err
		}
		keys = append(keys, chunkKeys...)
	}
	log.Debugf("Loaded %d keys from %d chunks", len(keys), len(chunks))
	return keys, nil
}

// SampleKeys shuffles a copy of keys with seed and keeps every
// (100/percent)-th one. A percent outside (0, 100) keeps all keys.
func SampleKeys(keys []string, percent int, seed int64) []string {
	out := append([]string(nil), keys...)
	if percent <= 0 || percent >= 100 {
		return out
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	step := 100 / percent
	sample := make([]string, 0, len(out)/step+1)
	for i := 0; i < len(out); i += step {
		sample = append(sample, out[i])
	}
	return sample
}
