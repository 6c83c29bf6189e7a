package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/msalah0e/cardstudio/internal/graph"
)

// Entry is one journaled store event.
type Entry struct {
	Seq   int         `json:"seq"`
	At    time.Time   `json:"at"`
	Event graph.Event `json:"event"`
}

// Journal appends store events to a writer as JSON lines.
type Journal struct {
	enc *json.Encoder
	seq int
	now func() time.Time
}

// NewJournal writes entries to w.
func NewJournal(w io.Writer) *Journal {
	return &Journal{enc: json.NewEncoder(w), now: time.Now}
}

// Record writes one event.
func (j *Journal) Record(e graph.Event) error {
	j.seq++
	return j.enc.Encode(Entry{Seq: j.seq, At: j.now().UTC(), Event: e})
}

// ReadJournal returns the most recent n entries, most recent first. n <= 0
// returns all of them. Lines that do not decode are skipped.
func ReadJournal(r io.Reader, n int) ([]Entry, error) {
	var all []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		all = append(all, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// Return last n
	if n > 0 && len(all) > n {
		all = all[len(all)-n:]
	}

	// Reverse for most-recent-first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// Summary aggregates journal entries.
type Summary struct {
	Total  int
	ByKind map[graph.EventKind]int
	Cards  int
}

// Summarize counts entries by event kind and distinct cards touched.
func Summarize(entries []Entry) Summary {
	s := Summary{ByKind: make(map[graph.EventKind]int)}
	cards := make(map[string]bool)
	for _, e := range entries {
		s.Total++
		s.ByKind[e.Event.Kind]++
		if e.Event.CardID != "" {
			cards[e.Event.CardID] = true
		}
	}
	s.Cards = len(cards)
	return s
}
