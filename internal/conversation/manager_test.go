package conversation

import (
	"strings"
	"testing"

	"github.com/ninegak/Project-Aira/internal/emotion"
)

// seedTurns installs history turns with explicit token counts, bypassing the
// estimator so budget tests are exact.
func seedTurns(m *Manager, counts ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	for i, c := range counts {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		m.turns = append(m.turns, Turn{Role: role, Content: "x", TokenCount: c})
	}
}

func TestPruneKeepsEverythingThatFits(t *testing.T) {
	m := NewManager(strings.Repeat("s", 80), 1536) // 80/4 = 20 system tokens
	seedTurns(m, 100, 100, 100, 100)

	m.mu.Lock()
	m.pruneToFit(50)
	m.mu.Unlock()

	if got := m.HistoryLen(); got != 4 {
		t.Fatalf("expected all 4 turns retained, got %d", got)
	}
}

func TestPruneUnderPressure(t *testing.T) {
	m := NewManager(strings.Repeat("s", 80), 1536)
	seedTurns(m, 800, 800, 800)

	m.mu.Lock()
	m.pruneToFit(50)
	m.mu.Unlock()

	// available = 1536-20-50-50 = 1416: only the newest 800 fits.
	if got := m.HistoryLen(); got != 1 {
		t.Fatalf("expected only the most recent turn retained, got %d", got)
	}
}

func TestBudgetInvariantHolds(t *testing.T) {
	cases := []struct {
		name    string
		history []int
		newMsg  int
	}{
		{"empty", nil, 10},
		{"small", []int{30, 40}, 25},
		{"oversized turns", []int{900, 900, 900, 900}, 200},
		{"message larger than budget", []int{100}, 5000},
	}
	for _, tc := range cases {
		m := NewManager(strings.Repeat("s", 80), 1536)
		seedTurns(m, tc.history...)

		m.mu.Lock()
		m.pruneToFit(tc.newMsg)
		m.mu.Unlock()

		total := m.HistoryTokens() + 20 + tc.newMsg + safetyBuffer
		if m.HistoryLen() > 0 && total > 1536 {
			t.Errorf("%s: budget invariant violated: %d > 1536", tc.name, total)
		}
	}
}

func TestExactFitFavorsRetention(t *testing.T) {
	// available = 1536-20-50-50 = 1416; history sums to exactly 1416.
	m := NewManager(strings.Repeat("s", 80), 1536)
	seedTurns(m, 416, 1000)

	m.mu.Lock()
	m.pruneToFit(50)
	m.mu.Unlock()

	if got := m.HistoryLen(); got != 2 {
		t.Fatalf("exact fit should retain both turns, got %d", got)
	}
}

func TestBuildPromptShape(t *testing.T) {
	m := NewManager("be helpful", 1536)
	m.RecordTurn(RoleUser, "hi")
	m.RecordTurn(RoleAssistant, "hello there")

	p := m.BuildPrompt("how are you?")

	wantOrder := []string{
		"<|im_start|>system\nbe helpful\n<|im_end|>\n",
		"<|im_start|>user\nhi\n<|im_end|>\n",
		"<|im_start|>assistant\nhello there\n<|im_end|>\n",
		"<|im_start|>user\nhow are you?\n<|im_end|>\n",
		"<|im_start|>assistant\n",
	}
	pos := 0
	for _, frag := range wantOrder {
		idx := strings.Index(p[pos:], frag)
		if idx < 0 {
			t.Fatalf("prompt missing or misordered fragment %q\nprompt: %q", frag, p)
		}
		pos += idx + len(frag)
	}
	if pos != len(p) {
		t.Fatalf("prompt has trailing content after assistant marker: %q", p[pos:])
	}
}

func TestBuildPromptEmptyHistory(t *testing.T) {
	m := NewManager("be helpful", 1536)
	p := m.BuildPrompt("")

	if !strings.HasPrefix(p, "<|im_start|>system\nbe helpful\n<|im_end|>\n") {
		t.Fatalf("prompt should start with system section: %q", p)
	}
	if !strings.HasSuffix(p, "<|im_start|>assistant\n") {
		t.Fatalf("prompt should end with open assistant marker: %q", p)
	}
}

func TestEmotionAdvisoryInjection(t *testing.T) {
	m := NewManager("be helpful", 1536)
	m.SetEmotionalContext(&emotion.Context{Fatigue: 0.9, Engagement: 0.5, Stress: 0.5, PositiveAffect: 0.2})

	p := m.BuildPrompt("hi")
	if !strings.Contains(p, "[User's Current State]") {
		t.Fatalf("expected advisory header in prompt: %q", p)
	}
	if !strings.Contains(p, "fatigued") {
		t.Fatalf("expected dominant-emotion advisory in prompt: %q", p)
	}

	m.SetEmotionalContext(nil)
	p = m.BuildPrompt("hi")
	if strings.Contains(p, "[User's Current State]") {
		t.Fatal("advisory should disappear when context is cleared")
	}
}

func TestEmotionOverheadCharged(t *testing.T) {
	m := NewManager(strings.Repeat("s", 80), 1536)
	seedTurns(m, 1400)

	// Without emotion the 1400-token turn fits (available 1416).
	m.mu.Lock()
	m.pruneToFit(50)
	kept := len(m.turns)
	m.mu.Unlock()
	if kept != 1 {
		t.Fatalf("expected turn retained without advisory, got %d", kept)
	}

	// With an advisory charged against the budget it no longer fits.
	m.SetEmotionalContext(&emotion.Context{Fatigue: 0.9})
	m.mu.Lock()
	m.pruneToFit(50)
	kept = len(m.turns)
	m.mu.Unlock()
	if kept != 0 {
		t.Fatalf("expected turn pruned once advisory overhead applies, got %d", kept)
	}
}

func TestEstimateTokensMonotonic(t *testing.T) {
	prev := -1
	for _, s := range []string{"", "hi", "hello there", strings.Repeat("a", 100), strings.Repeat("a", 1000)} {
		got := EstimateTokens(s)
		if got < prev {
			t.Fatalf("estimator not monotonic in length: %d after %d", got, prev)
		}
		prev = got
	}
}

func TestClearHistoryKeepsSystemPrompt(t *testing.T) {
	m := NewManager("be helpful", 1536)
	m.RecordTurn(RoleUser, "hi")
	m.ClearHistory()

	if m.HistoryLen() != 0 {
		t.Fatal("history should be empty after clear")
	}
	if !strings.Contains(m.BuildPrompt("x"), "be helpful") {
		t.Fatal("system prompt should survive a history clear")
	}
}
