// Package ledger holds the append-only sale and return transaction logs.
// Each log is an independent file of JSON documents, one per line, that is
// never truncated or compacted.
package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"goodhealth/m/domain"
)

// Log is one append-only transaction log file.
type Log struct {
	path string
}

// New constructs a Log writing to path. The file is created on first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Append writes one entry to the end of the log. The log is deliberately
// independent of the inventory store; a failure here must surface on its own
// rather than roll anything back.
func (l *Log) Append(entry domain.TransactionEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageWrite, err)
	}
	return nil
}

// Entries reads the whole log back in append order. A log that does not
// exist yet is simply empty.
func (l *Log) Entries() ([]domain.TransactionEntry, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return []domain.TransactionEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStorage, err)
	}
	defer f.Close()

	entries := []domain.TransactionEntry{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry domain.TransactionEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStorage, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptStorage, err)
	}
	return entries, nil
}
