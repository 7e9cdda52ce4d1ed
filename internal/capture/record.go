package capture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muurk/haierac/internal/protocol"
)

// maxLineSize bounds a single capture line. Frames are tiny; this leaves
// room for JSON metadata.
const maxLineSize = 1 << 20

// Record is one frame read from a capture
type Record struct {
	Line      int       // 1-based line number in the source
	Source    string    // File name, or "stdin"
	Timestamp time.Time // Zero when the line carried none
	Direction string    // "inbound"/"outbound" as recorded, may be empty
	Data      []byte
}

// Label identifies the record in logs and listings, e.g. "capture.jsonl:12"
func (r Record) Label() string {
	return fmt.Sprintf("%s:%d", r.Source, r.Line)
}

// jsonLine is the JSONL shape written by packet recorders: one object per frame
type jsonLine struct {
	Timestamp  string `json:"timestamp"`
	MessageNum int    `json:"message_num"`
	Direction  string `json:"direction"`
	PayloadHex string `json:"payload_hex"`
}

// Load reads capture records from r. Each non-blank line is either a hex
// dump of one frame or a JSON object with a payload_hex field. Lines
// starting with '#' are comments.
func Load(r io.Reader, source string) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var records []Record
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, lineNum, err)
		}
		rec.Line = lineNum
		rec.Source = source
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	return records, nil
}

// LoadFile reads capture records from a file. "-" reads stdin.
func LoadFile(path string) ([]Record, error) {
	if path == "-" {
		return Load(os.Stdin, "stdin")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	return Load(f, path)
}

func parseLine(line []byte) (Record, error) {
	if line[0] != '{' {
		data, err := protocol.HexToBytes(string(line))
		if err != nil {
			return Record{}, err
		}
		return Record{Data: data}, nil
	}

	var jl jsonLine
	if err := json.Unmarshal(line, &jl); err != nil {
		return Record{}, fmt.Errorf("invalid JSON record: %w", err)
	}
	if strings.TrimSpace(jl.PayloadHex) == "" {
		return Record{}, fmt.Errorf("JSON record has no payload_hex")
	}

	data, err := protocol.HexToBytes(jl.PayloadHex)
	if err != nil {
		return Record{}, fmt.Errorf("payload_hex: %w", err)
	}

	rec := Record{Direction: jl.Direction, Data: data}
	if jl.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339Nano, jl.Timestamp)
		if err != nil {
			return Record{}, fmt.Errorf("invalid timestamp %q: %w", jl.Timestamp, err)
		}
		rec.Timestamp = ts
	}
	return rec, nil
}
