// Package archive keeps the permanent record of resolved turns: one
// zstd-compressed JSONL file per turn, plus a small meta.json sidecar.
package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"stellardominion.net/internal/sim/resolve"
)

type TurnMeta struct {
	GameID    string `json:"game_id"`
	Turn      string `json:"turn"`
	Ships     int    `json:"ships"`
	File      string `json:"file"`
	CreatedAt string `json:"created_at"`
}

// TurnArchive appends TurnResults under `baseDir/<gameID>/turn_<Y.W>.jsonl.zst`.
// Re-running a turn appends a further frame to the same file; the reader
// handles concatenated frames.
type TurnArchive struct {
	baseDir string
	gameID  string

	mu      sync.Mutex
	curTurn string
	ships   int
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func New(baseDir, gameID string) *TurnArchive {
	return &TurnArchive{baseDir: baseDir, gameID: gameID}
}

func (a *TurnArchive) dir() string {
	return filepath.Join(a.baseDir, a.gameID)
}

func (a *TurnArchive) pathForTurn(turn string) string {
	return filepath.Join(a.dir(), fmt.Sprintf("turn_%s.jsonl.zst", turn))
}

// Append records one resolved turn, rotating the output file when the turn
// changes.
func (a *TurnArchive) Append(res *resolve.TurnResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	turn := fmt.Sprintf("%d.%d", res.Year, res.Week)
	if turn != a.curTurn {
		if err := a.rotateLocked(turn); err != nil {
			return err
		}
	}

	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if _, err := a.w.Write(b); err != nil {
		return err
	}
	if err := a.w.WriteByte('\n'); err != nil {
		return err
	}
	a.ships += len(res.Ships)
	return a.w.Flush()
}

func (a *TurnArchive) rotateLocked(turn string) error {
	if err := a.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(a.dir(), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(a.pathForTurn(turn), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	a.curTurn = turn
	a.ships = 0
	a.f = f
	a.enc = enc
	a.w = bufio.NewWriter(enc)
	return nil
}

func (a *TurnArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked()
}

func (a *TurnArchive) closeLocked() error {
	if a.f == nil {
		return nil
	}
	var firstErr error
	if err := a.w.Flush(); err != nil {
		firstErr = err
	}
	if err := a.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	a.writeMeta()
	a.f = nil
	a.enc = nil
	a.w = nil
	a.curTurn = ""
	return firstErr
}

func (a *TurnArchive) writeMeta() {
	meta := TurnMeta{
		GameID:    a.gameID,
		Turn:      a.curTurn,
		Ships:     a.ships,
		File:      filepath.Base(a.pathForTurn(a.curTurn)),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		path := filepath.Join(a.dir(), fmt.Sprintf("turn_%s.meta.json", a.curTurn))
		_ = os.WriteFile(path, b, 0o644)
	}
}

// ReadTurns decodes every TurnResult line from an archive file, across any
// number of appended zstd frames.
func ReadTurns(path string) ([]resolve.TurnResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []resolve.TurnResult
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var res resolve.TurnResult
		if err := json.Unmarshal(line, &res); err != nil {
			return nil, fmt.Errorf("archive line: %w", err)
		}
		out = append(out, res)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
