package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keyhunt/keyhunt/internal/engine"
	"github.com/keyhunt/keyhunt/internal/types"
)

// FileName is the run history file kept next to the ledgers.
const FileName = "keyhunt_audit.jsonl"

// RunRecord summarizes one hunt. Keys are stored masked.
type RunRecord struct {
	Timestamp    time.Time             `json:"timestamp"`
	RunID        string                `json:"run_id"`
	Query        string                `json:"query"`
	Providers    []string              `json:"providers"`
	Pages        int                   `json:"pages"`
	ItemsSeen    int                   `json:"items_seen"`
	ItemsSkipped int                   `json:"items_skipped"`
	FilesScanned int                   `json:"files_scanned"`
	KeysChecked  int                   `json:"keys_checked"`
	Verdicts     map[types.Verdict]int `json:"verdicts,omitempty"`
	Found        bool                  `json:"found"`
	Key          string                `json:"key,omitempty"`
	URL          string                `json:"url,omitempty"`
	Exhausted    bool                  `json:"exhausted"`
	Error        string                `json:"error,omitempty"`
	Duration     string                `json:"duration"`
}

type AuditLog struct {
	logPath string
}

// NewAuditLog returns a log stored in dir.
func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{logPath: filepath.Join(dir, FileName)}
}

// Path returns the backing file.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns every record, newest first. Reading stops at the first
// malformed line.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record RunRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = fmt.Sprintf("run_%d", time.Now().Unix())
	}
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create audit dir: %w", err)
	}

	// Owner-only; records carry URLs of leaked keys
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// CreateRunRecord builds a record from a driver summary. runErr may be nil.
func CreateRunRecord(query string, providers []string, sum engine.Summary, runErr error) RunRecord {
	rec := RunRecord{
		Timestamp:    time.Now(),
		Query:        query,
		Providers:    providers,
		Pages:        sum.Pages,
		ItemsSeen:    sum.ItemsSeen,
		ItemsSkipped: sum.ItemsSkipped,
		FilesScanned: sum.FilesScanned,
		KeysChecked:  sum.KeysChecked,
		Verdicts:     sum.Verdicts,
		Exhausted:    sum.Exhausted,
		Duration:     sum.Duration.String(),
	}
	if sum.Finding != nil {
		rec.Found = true
		rec.Key = engine.Mask(sum.Finding.Key)
		rec.URL = sum.Finding.URL
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	return rec
}
