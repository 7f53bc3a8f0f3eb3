package orders

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"stellardominion.net/internal/grid"
)

// Submission is one parsed orders file for a single ship. Invalid orders are
// reported in Errors and excluded from Orders; whether that rejects the whole
// batch is the caller's policy.
type Submission struct {
	Game    string
	Account string
	ShipID  int64
	Orders  []Order
	Errors  []string
}

// ParseOne validates a single command + raw parameter payload. The payload may
// be a YAML mapping, a scalar, or a whitespace-delimited string; all forms
// normalize to the same typed Params.
func ParseOne(cmdStr string, raw any) (Kind, Params, error) {
	kind := Kind(strings.ToUpper(strings.TrimSpace(cmdStr)))
	if !Known(kind) {
		return kind, nil, fmt.Errorf("unknown command: %s", kind)
	}

	switch commandShapes[kind] {
	case shapeNone:
		return kind, NoParams{}, nil

	case shapeInteger:
		v, ok := asInt(raw)
		if !ok {
			return kind, nil, fmt.Errorf("%s: expected integer, got '%v'", kind, raw)
		}
		if v < 0 {
			return kind, nil, fmt.Errorf("%s: value must be >= 0", kind)
		}
		return kind, WaitParams{TU: int(v)}, nil

	case shapeCoordinate:
		s, ok := raw.(string)
		if !ok {
			return kind, nil, fmt.Errorf("%s: expected coordinate string", kind)
		}
		c, ok := grid.Parse(s)
		if !ok {
			return kind, nil, fmt.Errorf("%s: invalid coordinate '%s'", kind, s)
		}
		return kind, MoveParams{Target: c}, nil

	case shapeBodyID, shapeBaseID, shapeSystemID:
		v, ok := asInt(raw)
		if !ok || v <= 0 {
			return kind, nil, fmt.Errorf("%s: expected numeric ID, got '%v'", kind, raw)
		}
		switch commandShapes[kind] {
		case shapeBodyID:
			return kind, BodyParams{BodyID: v}, nil
		case shapeBaseID:
			return kind, BaseParams{BaseID: v}, nil
		default:
			return kind, SystemParams{SystemID: v}, nil
		}

	case shapeTrade:
		return parseTrade(kind, raw)

	case shapeLand:
		return parseLand(kind, raw)

	case shapeMessage:
		return parseMessage(kind, raw)

	case shapeMakeOfficer:
		return parseMakeOfficer(kind, raw)

	case shapeRenameIDName:
		return parseRename(kind, raw)

	case shapeRenameOfficer:
		return parseRenameOfficer(kind, raw)

	case shapeChangeFaction:
		return parseChangeFaction(kind, raw)

	case shapeModerator:
		text := ""
		switch v := raw.(type) {
		case map[string]any:
			text = strings.TrimSpace(asString(firstOf(v, "text", "message")))
		case string:
			text = strings.TrimSpace(v)
		}
		if text == "" {
			return kind, nil, fmt.Errorf("%s: request text cannot be empty", kind)
		}
		return kind, ModeratorParams{Text: text}, nil
	}

	return kind, nil, fmt.Errorf("unknown parameter type for %s", kind)
}

func parseTrade(kind Kind, raw any) (Kind, Params, error) {
	var base, item, qty int64
	switch v := raw.(type) {
	case map[string]any:
		base, _ = asInt(firstOf(v, "base", "base_id"))
		item, _ = asInt(firstOf(v, "item", "item_id"))
		qty, _ = asInt(firstOf(v, "qty", "quantity"))
	case string:
		parts := strings.Fields(v)
		if len(parts) != 3 {
			return kind, nil, fmt.Errorf("%s: expected 'base_id item_id quantity', got '%s'", kind, v)
		}
		var ok bool
		if base, ok = asInt(parts[0]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric values, got '%s'", kind, v)
		}
		if item, ok = asInt(parts[1]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric values, got '%s'", kind, v)
		}
		if qty, ok = asInt(parts[2]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric values, got '%s'", kind, v)
		}
	default:
		return kind, nil, fmt.Errorf("%s: expected trade parameters (base_id item_id quantity)", kind)
	}
	if base <= 0 || item <= 0 || qty <= 0 {
		return kind, nil, fmt.Errorf("%s: base, item, and qty must be positive integers", kind)
	}
	return kind, TradeParams{BaseID: base, ItemID: item, Quantity: int(qty)}, nil
}

func parseLand(kind Kind, raw any) (Kind, Params, error) {
	var body, x, y int64
	x, y = 1, 1
	switch v := raw.(type) {
	case map[string]any:
		body, _ = asInt(firstOf(v, "body", "body_id"))
		if xv, ok := asInt(v["x"]); ok {
			x = xv
		}
		if yv, ok := asInt(v["y"]); ok {
			y = yv
		}
	case string:
		parts := strings.Fields(v)
		switch len(parts) {
		case 1:
			var ok bool
			if body, ok = asInt(parts[0]); !ok {
				return kind, nil, fmt.Errorf("%s: expected numeric body_id, got '%s'", kind, v)
			}
		case 3:
			var ok bool
			if body, ok = asInt(parts[0]); !ok {
				return kind, nil, fmt.Errorf("%s: expected 'body_id x y', got '%s'", kind, v)
			}
			if x, ok = asInt(parts[1]); !ok {
				return kind, nil, fmt.Errorf("%s: expected 'body_id x y', got '%s'", kind, v)
			}
			if y, ok = asInt(parts[2]); !ok {
				return kind, nil, fmt.Errorf("%s: expected 'body_id x y', got '%s'", kind, v)
			}
		default:
			return kind, nil, fmt.Errorf("%s: expected 'body_id x y', got '%s'", kind, v)
		}
	default:
		// Bare scalar body id lands at the default (1,1).
		var ok bool
		if body, ok = asInt(raw); !ok {
			return kind, nil, fmt.Errorf("%s: expected land parameters (body_id x y)", kind)
		}
	}
	if body <= 0 {
		return kind, nil, fmt.Errorf("%s: body_id must be a positive integer", kind)
	}
	if x < 1 || x > 31 || y < 1 || y > 31 {
		return kind, nil, fmt.Errorf("%s: coordinates must be 1-31, got (%d,%d)", kind, x, y)
	}
	return kind, LandParams{BodyID: body, X: int(x), Y: int(y)}, nil
}

func parseMessage(kind Kind, raw any) (Kind, Params, error) {
	var target int64
	var text string
	switch v := raw.(type) {
	case map[string]any:
		target, _ = asInt(firstOf(v, "target", "target_id"))
		text = strings.TrimSpace(asString(firstOf(v, "text", "message")))
	case string:
		parts := strings.SplitN(strings.TrimSpace(v), " ", 2)
		if len(parts) < 2 {
			return kind, nil, fmt.Errorf("%s: expected 'target_id message_text'", kind)
		}
		var ok bool
		if target, ok = asInt(parts[0]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric target_id, got '%s'", kind, parts[0])
		}
		text = strings.TrimSpace(parts[1])
	default:
		return kind, nil, fmt.Errorf("%s: expected message parameters (target_id text)", kind)
	}
	if target <= 0 {
		return kind, nil, fmt.Errorf("%s: target_id must be a positive integer", kind)
	}
	if text == "" {
		return kind, nil, fmt.Errorf("%s: message text cannot be empty", kind)
	}
	return kind, MessageParams{TargetID: target, Text: text}, nil
}

func parseMakeOfficer(kind Kind, raw any) (Kind, Params, error) {
	var ship, crewType int64
	var name string
	switch v := raw.(type) {
	case map[string]any:
		ship, _ = asInt(firstOf(v, "ship", "ship_id"))
		crewType, _ = asInt(firstOf(v, "crew_type", "crew_type_id"))
		name = strings.TrimSpace(asString(v["name"]))
	case string:
		parts := strings.Fields(v)
		if len(parts) < 2 {
			return kind, nil, fmt.Errorf("%s: expected 'ship_id crew_type_id [name]'", kind)
		}
		var ok bool
		if ship, ok = asInt(parts[0]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric values for ship_id and crew_type_id", kind)
		}
		if crewType, ok = asInt(parts[1]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric values for ship_id and crew_type_id", kind)
		}
		if len(parts) > 2 {
			name = strings.Join(parts[2:], " ")
		}
	default:
		return kind, nil, fmt.Errorf("%s: expected parameters (ship_id crew_type_id [name])", kind)
	}
	if ship <= 0 || crewType <= 0 {
		return kind, nil, fmt.Errorf("%s: ship_id and crew_type_id must be positive integers", kind)
	}
	return kind, MakeOfficerParams{ShipID: ship, CrewTypeID: crewType, Name: name}, nil
}

func parseRename(kind Kind, raw any) (Kind, Params, error) {
	var id int64
	var name string
	switch v := raw.(type) {
	case map[string]any:
		id, _ = asInt(firstOf(v, "id", "target"))
		name = strings.TrimSpace(asString(v["name"]))
	case string:
		parts := strings.SplitN(strings.TrimSpace(v), " ", 2)
		if len(parts) < 2 {
			return kind, nil, fmt.Errorf("%s: expected 'id new_name'", kind)
		}
		var ok bool
		if id, ok = asInt(parts[0]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric id, got '%s'", kind, parts[0])
		}
		name = strings.TrimSpace(parts[1])
	default:
		return kind, nil, fmt.Errorf("%s: expected parameters (id new_name)", kind)
	}
	if id <= 0 {
		return kind, nil, fmt.Errorf("%s: id must be a positive integer", kind)
	}
	if name == "" {
		return kind, nil, fmt.Errorf("%s: name cannot be empty", kind)
	}
	return kind, RenameParams{ID: id, Name: name}, nil
}

func parseRenameOfficer(kind Kind, raw any) (Kind, Params, error) {
	var ship, num int64
	var name string
	switch v := raw.(type) {
	case map[string]any:
		ship, _ = asInt(firstOf(v, "ship", "ship_id"))
		num, _ = asInt(firstOf(v, "crew_number", "number"))
		name = strings.TrimSpace(asString(v["name"]))
	case string:
		parts := strings.SplitN(strings.TrimSpace(v), " ", 3)
		if len(parts) < 3 {
			return kind, nil, fmt.Errorf("%s: expected 'ship_id crew_number new_name'", kind)
		}
		var ok bool
		if ship, ok = asInt(parts[0]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric ship_id and crew_number", kind)
		}
		if num, ok = asInt(parts[1]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric ship_id and crew_number", kind)
		}
		name = strings.TrimSpace(parts[2])
	default:
		return kind, nil, fmt.Errorf("%s: expected parameters (ship_id crew_number new_name)", kind)
	}
	if ship <= 0 || num <= 0 {
		return kind, nil, fmt.Errorf("%s: ship_id and crew_number must be positive integers", kind)
	}
	if name == "" {
		return kind, nil, fmt.Errorf("%s: name cannot be empty", kind)
	}
	return kind, RenameOfficerParams{ShipID: ship, CrewNumber: int(num), Name: name}, nil
}

func parseChangeFaction(kind Kind, raw any) (Kind, Params, error) {
	var faction int64 = -1
	var reason string
	switch v := raw.(type) {
	case map[string]any:
		if fv, ok := asInt(firstOf(v, "faction", "faction_id")); ok {
			faction = fv
		}
		reason = strings.TrimSpace(asString(v["reason"]))
	case string:
		parts := strings.SplitN(strings.TrimSpace(v), " ", 2)
		if len(parts) < 1 || parts[0] == "" {
			return kind, nil, fmt.Errorf("%s: expected 'faction_id [reason]'", kind)
		}
		var ok bool
		if faction, ok = asInt(parts[0]); !ok {
			return kind, nil, fmt.Errorf("%s: expected numeric faction_id", kind)
		}
		if len(parts) > 1 {
			reason = strings.TrimSpace(parts[1])
		}
	default:
		return kind, nil, fmt.Errorf("%s: expected parameters (faction_id [reason])", kind)
	}
	if faction < 0 {
		return kind, nil, fmt.Errorf("%s: faction_id must be a non-negative integer", kind)
	}
	return kind, ChangeFactionParams{FactionID: faction, Reason: reason}, nil
}

// ParseYAML parses an orders file of the form:
//
//	game: HANF231
//	account: "35846634"
//	ship: 2547876
//	orders:
//	  - WAIT: 50
//	  - MOVE: M13
//	  - LOCATIONSCAN: {}
//	  - DOCK 45687590
func ParseYAML(content []byte) (Submission, error) {
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return Submission{}, fmt.Errorf("yaml parse error: %w", err)
	}
	if data == nil {
		return Submission{}, fmt.Errorf("orders must be a YAML mapping")
	}

	sub := Submission{
		Game:    asString(data["game"]),
		Account: asString(data["account"]),
	}
	sub.ShipID, _ = asInt(data["ship"])

	rawOrders, ok := data["orders"].([]any)
	if !ok {
		if data["orders"] != nil {
			sub.Errors = append(sub.Errors, "'orders' must be a list")
		}
		return sub, nil
	}

	for i, item := range rawOrders {
		seq := len(sub.Orders) + 1
		switch v := item.(type) {
		case map[string]any:
			for cmd, params := range v {
				// YAML `{}` arrives as an empty map; treat as no params.
				if m, ok := params.(map[string]any); ok && len(m) == 0 {
					params = nil
				}
				kind, p, err := ParseOne(cmd, params)
				if err != nil {
					sub.Errors = append(sub.Errors, fmt.Sprintf("order %d: %v", i+1, err))
					continue
				}
				sub.Orders = append(sub.Orders, Order{Sequence: seq, Kind: kind, Params: p})
			}
		case string:
			kind, p, err := parseLine(v)
			if err != nil {
				sub.Errors = append(sub.Errors, fmt.Sprintf("order %d: %v", i+1, err))
				continue
			}
			sub.Orders = append(sub.Orders, Order{Sequence: seq, Kind: kind, Params: p})
		default:
			sub.Errors = append(sub.Errors, fmt.Sprintf("order %d: unrecognized entry", i+1))
		}
	}
	return sub, nil
}

// ParseText parses the line-oriented format:
//
//	GAME HANF231
//	ACCOUNT 35846634
//	SHIP 2547876
//	MOVE M13
//	LOCATIONSCAN
func ParseText(content []byte) Submission {
	var sub Submission
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		head := strings.ToUpper(parts[0])
		rest := ""
		if len(parts) > 1 {
			rest = strings.TrimSpace(parts[1])
		}
		switch head {
		case "GAME":
			sub.Game = rest
			continue
		case "ACCOUNT":
			sub.Account = rest
			continue
		case "SHIP":
			sub.ShipID, _ = asInt(rest)
			continue
		}
		kind, p, err := parseLine(line)
		if err != nil {
			sub.Errors = append(sub.Errors, fmt.Sprintf("line '%s': %v", line, err))
			continue
		}
		sub.Orders = append(sub.Orders, Order{Sequence: len(sub.Orders) + 1, Kind: kind, Params: p})
	}
	return sub
}

// Parse auto-detects the submission format: YAML mappings first, then the
// line-oriented text format.
func Parse(content []byte) Submission {
	sub, err := ParseYAML(content)
	if err == nil && (len(sub.Orders) > 0 || sub.ShipID != 0) {
		return sub
	}
	return ParseText(content)
}

// ParseLine parses one canonical command line, the form orders are stored in
// for carry-over between turns.
func ParseLine(line string) (Kind, Params, error) {
	return parseLine(line)
}

func parseLine(line string) (Kind, Params, error) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	var raw any
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		raw = strings.TrimSpace(parts[1])
	}
	return ParseOne(parts[0], raw)
}

func asInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case uint64:
		return int64(t), true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
