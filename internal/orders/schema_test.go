package orders

import "testing"

func TestCheckSchema_ValidSubmission(t *testing.T) {
	content := []byte(`
game: HANF231
account: "35846634"
ship: 2547876
orders:
  - WAIT: 50
  - MOVE: M13
  - LOCATIONSCAN: {}
  - "UNDOCK"
`)
	if err := CheckSchema(content); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
}

func TestCheckSchema_Rejections(t *testing.T) {
	cases := map[string]string{
		"missing ship":     "game: X\naccount: \"1\"\norders: []\n",
		"orders not list":  "game: X\naccount: \"1\"\nship: 5\norders: UNDOCK\n",
		"empty game":       "game: \"\"\naccount: \"1\"\nship: 5\norders: []\n",
		"multi-key order":  "game: X\naccount: \"1\"\nship: 5\norders:\n  - MOVE: M13\n    WAIT: 5\n",
		"non-integer ship": "game: X\naccount: \"1\"\nship: fred\norders: []\n",
	}
	for name, content := range cases {
		if err := CheckSchema([]byte(content)); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}
