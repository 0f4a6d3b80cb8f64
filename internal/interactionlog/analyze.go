package interactionlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
)

// maxLineSize bounds the memory used for one record. Longer lines are
// counted as malformed.
const maxLineSize = 10 * 1024 * 1024

// ErrLogNotFound is returned by AnalyzeFile when the log file does not exist.
var ErrLogNotFound = errors.New("log file not found")

// Analysis is the summary of one log file.
type Analysis struct {
	Path              string   `json:"path"               yaml:"path"`
	TotalInteractions int      `json:"total_interactions" yaml:"total_interactions"`
	Users             []int64  `json:"users"              yaml:"users"`
	PersonasUsed      []string `json:"personas_used"      yaml:"personas_used"`
	SessionStarts     int      `json:"session_starts"     yaml:"session_starts"`
	MalformedLines    int      `json:"malformed_lines"    yaml:"malformed_lines"`
}

type recordEnvelope struct {
	EventType string `json:"event_type"`
	UserID    int64  `json:"user_id"`
	Persona   string `json:"persona"`
}

// AnalyzeFile counts the interaction records in path and collects the distinct
// users and personas seen. Session start lines are tallied separately, and
// lines that are not valid records are skipped and counted as malformed.
func AnalyzeFile(path string) (Analysis, error) {
	out := Analysis{Path: path, Users: []int64{}, PersonasUsed: []string{}}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return out, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	defer f.Close()

	users := map[int64]struct{}{}
	personas := map[string]struct{}{}

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, tooLong, readErr := readLine(r, maxLineSize)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return out, fmt.Errorf("failed to read log file %s: %w", path, readErr)
		}
		if tooLong {
			out.MalformedLines++
		} else if len(line) > 0 {
			out.count(line, users, personas)
		}
		if readErr != nil {
			break
		}
	}

	for u := range users {
		out.Users = append(out.Users, u)
	}
	sort.Slice(out.Users, func(i, j int) bool { return out.Users[i] < out.Users[j] })
	for p := range personas {
		out.PersonasUsed = append(out.PersonasUsed, p)
	}
	sort.Strings(out.PersonasUsed)

	return out, nil
}

func (a *Analysis) count(line []byte, users map[int64]struct{}, personas map[string]struct{}) {
	var rec recordEnvelope
	if err := json.Unmarshal(line, &rec); err != nil {
		a.MalformedLines++
		return
	}
	switch rec.EventType {
	case EventInteraction:
		a.TotalInteractions++
		users[rec.UserID] = struct{}{}
		personas[rec.Persona] = struct{}{}
	case EventSessionStart:
		a.SessionStarts++
	default:
		a.MalformedLines++
	}
}

// readLine returns the next line without its line ending. A line longer than
// limit is drained from r and reported as tooLong with no content. err is
// io.EOF once the final line has been returned.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return bytes.TrimRight(line, "\r\n"), tooLong, err
	}
}
