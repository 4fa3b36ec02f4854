package strength

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		password string
		score    int
		level    Level
		feedback []string
	}{
		{"", 20, VeryWeak, []string{msgLength, msgLower, msgUpper, msgNumber, msgSymbol}},
		{"Str0ng!Passw0rd", 100, VeryStrong, []string{}},
		{"Xk9!mQ2#", 100, VeryStrong, []string{}},
		{"aaaaaaaa", 40, Weak, []string{msgUpper, msgNumber, msgSymbol, msgRepeat}},
		{"password123", 55, Medium, []string{msgUpper, msgSymbol, msgPatterns}},
		{"QWERTYuiop12", 80, Strong, []string{msgSymbol, msgPatterns}},
		{"ABCDEFGH", 40, Weak, []string{msgLower, msgNumber, msgSymbol, msgPatterns}},
		{"12345678901", 40, Weak, []string{msgLower, msgUpper, msgSymbol, msgPatterns}},
		{"zzz", 25, Weak, []string{msgLength, msgUpper, msgNumber, msgSymbol, msgRepeat}},
		{"aa\naa", 35, Weak, []string{msgLength, msgUpper, msgNumber, msgSymbol}},
		{"ééééé", 10, VeryWeak, []string{msgLength, msgLower, msgUpper, msgNumber, msgSymbol, msgRepeat}},
	}

	for _, tc := range cases {
		res := Evaluate(tc.password)
		if res.Score != tc.score {
			t.Errorf("Evaluate(%q).Score: %d, want: %d", tc.password, res.Score, tc.score)
		}
		if res.Level != tc.level {
			t.Errorf("Evaluate(%q).Level: %s, want: %s", tc.password, res.Level, tc.level)
		}
		if !reflect.DeepEqual(res.Feedback, tc.feedback) {
			t.Errorf("Evaluate(%q).Feedback: %v, want: %v", tc.password, res.Feedback, tc.feedback)
		}
		if res.Color != tc.level.Color() {
			t.Errorf("Evaluate(%q).Color: %s, want: %s", tc.password, res.Color, tc.level.Color())
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	for _, pwd := range []string{"", "hunter2", "Str0ng!Passw0rd", "aaaaaaaa"} {
		first := Evaluate(pwd)
		second := Evaluate(pwd)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Evaluate(%q) should be deterministic: %+v != %+v", pwd, first, second)
		}
	}
}

func TestEvaluate_Bounded(t *testing.T) {
	for _, pwd := range []string{"", "a", "Aa1!", "Very$trongPassphrase42", "x!Y@z#W$v%U^9"} {
		if s := Evaluate(pwd).Score; s < 0 || s > MaxScore {
			t.Errorf("Evaluate(%q).Score should be within [0, %d], got %d", pwd, MaxScore, s)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score int
		want  Level
	}{
		{100, VeryStrong},
		{85, VeryStrong},
		{84, Strong},
		{70, Strong},
		{69, Medium},
		{50, Medium},
		{49, Weak},
		{25, Weak},
		{24, VeryWeak},
		{0, VeryWeak},
	}

	for _, tc := range cases {
		if got := LevelFor(tc.score); got != tc.want {
			t.Errorf("LevelFor(%d): %s, want: %s", tc.score, got, tc.want)
		}
	}
}

func TestLevel_VerdictAndJSON(t *testing.T) {
	if v := VeryStrong.Verdict(); v != "very strong" {
		t.Errorf("Verdict: %s, want: very strong", v)
	}

	b, err := json.Marshal(Evaluate("aaaaaaaa"))
	if err != nil {
		t.Fatalf("Should not fail marshalling: %s", err)
	}

	var out map[string]interface{}
	if err = json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Should not fail unmarshalling: %s", err)
	}
	if out["level"] != "Weak" {
		t.Errorf("level should be serialized as its name, got %v", out["level"])
	}
}
