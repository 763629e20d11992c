package git

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// readHeadReflog parses <gitDir>/logs/HEAD, returning entries oldest-first
// (the order they appear on disk). go-git v5 does not expose a public
// reflog-reading API, so this reads the plain-text reflog format git itself
// writes: "<old> <new> <name> <email> <ts> <tz>\t<message>".
func readHeadReflog(gitDir string) ([]ReflogEntry, error) {
	path := filepath.Join(gitDir, "logs", "HEAD")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &IOError{Op: "read-reflog", Path: path, Err: err}
	}
	defer f.Close()

	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		entry, ok := parseReflogLine(scanner.Text())
		if ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "scan-reflog", Path: path, Err: err}
	}
	return entries, nil
}

func parseReflogLine(line string) (ReflogEntry, bool) {
	tabIdx := strings.IndexByte(line, '\t')
	if tabIdx < 0 {
		return ReflogEntry{}, false
	}
	header, message := line[:tabIdx], line[tabIdx+1:]
	fields := strings.SplitN(header, " ", 4)
	if len(fields) < 4 {
		return ReflogEntry{}, false
	}
	oldOID, newOID, identity := fields[0], fields[1], fields[2]+" "+fields[3]

	nameEnd := strings.Index(identity, " <")
	committer := identity
	var ts time.Time
	if nameEnd >= 0 {
		committer = identity[:nameEnd]
		rest := identity[nameEnd:]
		if emailEnd := strings.Index(rest, "> "); emailEnd >= 0 {
			tsFields := strings.Fields(rest[emailEnd+2:])
			if len(tsFields) > 0 {
				if sec, err := strconv.ParseInt(tsFields[0], 10, 64); err == nil {
					ts = time.Unix(sec, 0)
				}
			}
		}
	}

	return ReflogEntry{
		OldOID:    oldOID,
		NewOID:    newOID,
		Committer: committer,
		Message:   message,
		Time:      ts,
	}, true
}

// newestFirst returns entries in reverse (most recent operation first),
// matching the iteration order the reflog-based merge-target search uses.
func newestFirst(entries []ReflogEntry) []ReflogEntry {
	out := make([]ReflogEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
