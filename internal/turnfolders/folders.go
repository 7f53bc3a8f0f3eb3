// Package turnfolders manages the on-disk filing tree for a game:
//
//	<base>/incoming/<turn>/<email>/orders_<ship>.yaml        submitted orders
//	<base>/incoming/<turn>/<email>/orders_<ship>.yaml.receipt acceptance receipt
//	<base>/incoming/<turn>/<email>/rejected_<ship>.yaml       failed validation
//	<base>/incoming/<turn>/<email>/rejected_<ship>.reason     why
//	<base>/processed/<turn>/<account>/ship_<ship>.txt         turn reports
//	<base>/processed/<turn>/<account>/prefect_<prefect>.txt
//
// Processed output is keyed by the player's account number, which doubles as
// the shared secret for report pickup.
package turnfolders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type Tree struct {
	base   string
	gameID string
}

func New(base, gameID string) *Tree {
	return &Tree{base: base, gameID: gameID}
}

func (t *Tree) incomingDir(turn, email string) string {
	return filepath.Join(t.base, "incoming", turn, email)
}

func (t *Tree) processedDir(turn, account string) string {
	return filepath.Join(t.base, "processed", turn, account)
}

// StoreIncoming files a raw orders submission under the sender's folder.
func (t *Tree) StoreIncoming(turn, email string, shipID int64, content []byte) (string, error) {
	dir := t.incomingDir(turn, email)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("orders_%d.yaml", shipID))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type Receipt struct {
	Status     string
	OrderCount int
	Warnings   []string
}

// StoreReceipt writes the confirmation file next to an accepted submission.
func (t *Tree) StoreReceipt(turn, email string, shipID int64, r Receipt) (string, error) {
	dir := t.incomingDir(turn, email)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	status := r.Status
	if status == "" {
		status = "accepted"
	}
	lines := []string{
		"Stellar Dominion - Order Receipt",
		"================================",
		fmt.Sprintf("Game:      %s", t.gameID),
		fmt.Sprintf("Turn:      %s", turn),
		fmt.Sprintf("Ship:      %d", shipID),
		fmt.Sprintf("Email:     %s", email),
		fmt.Sprintf("Received:  %s", time.Now().Format("2006-01-02 15:04:05")),
		fmt.Sprintf("Status:    %s", status),
		fmt.Sprintf("Orders:    %d valid", r.OrderCount),
	}
	if len(r.Warnings) > 0 {
		lines = append(lines, "Warnings:")
		for _, w := range r.Warnings {
			lines = append(lines, "  - "+w)
		}
	}
	path := filepath.Join(dir, fmt.Sprintf("orders_%d.yaml.receipt", shipID))
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// StoreRejected keeps the failed submission and writes the reasons beside it.
func (t *Tree) StoreRejected(turn, email string, shipID int64, content []byte, reasons []string) error {
	dir := t.incomingDir(turn, email)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(
		filepath.Join(dir, fmt.Sprintf("rejected_%d.yaml", shipID)), content, 0o644); err != nil {
		return err
	}
	lines := []string{
		"Stellar Dominion - Order Rejection",
		"===================================",
		fmt.Sprintf("Game:      %s", t.gameID),
		fmt.Sprintf("Turn:      %s", turn),
		fmt.Sprintf("Ship:      %d", shipID),
		fmt.Sprintf("Email:     %s", email),
		fmt.Sprintf("Rejected:  %s", time.Now().Format("2006-01-02 15:04:05")),
		"",
		"Reasons:",
	}
	for _, r := range reasons {
		lines = append(lines, "  - "+r)
	}
	return os.WriteFile(
		filepath.Join(dir, fmt.Sprintf("rejected_%d.reason", shipID)),
		[]byte(strings.Join(lines, "\n")), 0o644)
}

type IncomingOrder struct {
	Email  string
	ShipID string
	Path   string
	Status string // pending, received, rejected
}

// ListIncoming enumerates every submission filed for a turn.
func (t *Tree) ListIncoming(turn string) ([]IncomingOrder, error) {
	turnDir := filepath.Join(t.base, "incoming", turn)
	emails, err := os.ReadDir(turnDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []IncomingOrder
	for _, e := range emails {
		if !e.IsDir() {
			continue
		}
		emailDir := filepath.Join(turnDir, e.Name())
		files, err := os.ReadDir(emailDir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			name := f.Name()
			switch {
			case strings.HasPrefix(name, "orders_") && strings.HasSuffix(name, ".yaml"):
				shipID := strings.TrimSuffix(strings.TrimPrefix(name, "orders_"), ".yaml")
				status := "pending"
				if _, err := os.Stat(filepath.Join(emailDir, name+".receipt")); err == nil {
					status = "received"
				}
				out = append(out, IncomingOrder{
					Email: e.Name(), ShipID: shipID,
					Path: filepath.Join(emailDir, name), Status: status,
				})
			case strings.HasPrefix(name, "rejected_") && strings.HasSuffix(name, ".yaml"):
				shipID := strings.TrimSuffix(strings.TrimPrefix(name, "rejected_"), ".yaml")
				out = append(out, IncomingOrder{
					Email: e.Name(), ShipID: shipID,
					Path: filepath.Join(emailDir, name), Status: "rejected",
				})
			}
		}
	}
	return out, nil
}

// StoreShipReport files a resolved ship report under the owner's account.
func (t *Tree) StoreShipReport(turn, account string, shipID int64, text string) (string, error) {
	dir := t.processedDir(turn, account)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("ship_%d.txt", shipID))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (t *Tree) StorePrefectReport(turn, account string, prefectID int64, text string) (string, error) {
	dir := t.processedDir(turn, account)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("prefect_%d.txt", prefectID))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// PlayerReports lists every report filed for an account in a turn.
func (t *Tree) PlayerReports(turn, account string) ([]string, error) {
	dir := t.processedDir(turn, account)
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".txt") {
			out = append(out, filepath.Join(dir, f.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// ListProcessed groups every report filed for a turn by account number.
func (t *Tree) ListProcessed(turn string) (map[string][]string, error) {
	turnDir := filepath.Join(t.base, "processed", turn)
	accounts, err := os.ReadDir(turnDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := map[string][]string{}
	for _, a := range accounts {
		if !a.IsDir() {
			continue
		}
		reports, err := t.PlayerReports(turn, a.Name())
		if err != nil {
			return nil, err
		}
		if len(reports) > 0 {
			out[a.Name()] = reports
		}
	}
	return out, nil
}
