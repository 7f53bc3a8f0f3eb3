package setup

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registration is a parsed sign-up form.
type Registration struct {
	Game        string `yaml:"game"`
	PlayerName  string `yaml:"player_name"`
	Email       string `yaml:"email"`
	PrefectName string `yaml:"prefect_name"`
	ShipName    string `yaml:"ship_name"`
	Starbase    int64  `yaml:"starbase"`
}

// ParseRegistration accepts either a YAML mapping or the line-oriented text
// form:
//
//	GAME HANF231
//	PLAYER_NAME Alice Smith
//	EMAIL alice@example.com
//	PREFECT_NAME Li Chen
//	SHIP_NAME Boethius
//	STARBASE 45687590
func ParseRegistration(content []byte) (Registration, error) {
	var reg Registration
	if err := yaml.Unmarshal(content, &reg); err == nil && reg.Game != "" {
		return reg, nil
	}
	return parseTextRegistration(content)
}

func parseTextRegistration(content []byte) (Registration, error) {
	var reg Registration
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		value := ""
		if len(parts) > 1 {
			value = strings.TrimSpace(parts[1])
		}
		switch strings.ToUpper(parts[0]) {
		case "GAME":
			reg.Game = value
		case "PLAYER_NAME":
			reg.PlayerName = value
		case "EMAIL":
			reg.Email = value
		case "PREFECT_NAME":
			reg.PrefectName = value
		case "SHIP_NAME":
			reg.ShipName = value
		case "STARBASE":
			id, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return reg, fmt.Errorf("starbase must be a base id: %q", value)
			}
			reg.Starbase = id
		default:
			return reg, fmt.Errorf("unknown field: %s", parts[0])
		}
	}
	return reg, nil
}

// Validate reports every missing or malformed field.
func (r Registration) Validate() []string {
	var errs []string
	if r.Game == "" {
		errs = append(errs, "missing required field: game")
	}
	if r.PlayerName == "" {
		errs = append(errs, "missing required field: player_name")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		errs = append(errs, "missing or invalid field: email")
	}
	if r.PrefectName == "" {
		errs = append(errs, "missing required field: prefect_name")
	}
	if r.ShipName == "" {
		errs = append(errs, "missing required field: ship_name")
	}
	return errs
}
