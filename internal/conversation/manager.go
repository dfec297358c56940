package conversation

import (
	"log"
	"strings"
	"sync"

	"github.com/ninegak/Project-Aira/internal/emotion"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation history. Immutable once recorded;
// removed only by pruning or an explicit reset.
type Turn struct {
	Role       Role
	Content    string
	TokenCount int
}

// safetyBuffer reserves headroom below the context budget so estimation error
// cannot push the prompt over the model's window.
const safetyBuffer = 50

// Manager owns turn history, token accounting, pruning, and prompt assembly.
type Manager struct {
	mu                 sync.Mutex
	turns              []Turn
	systemPrompt       string
	systemPromptTokens int
	maxContextTokens   int
	emotional          *emotion.Context
}

func NewManager(systemPrompt string, maxContextTokens int) *Manager {
	return &Manager{
		systemPrompt:       systemPrompt,
		systemPromptTokens: len(systemPrompt) / 4,
		maxContextTokens:   maxContextTokens,
	}
}

// EstimateTokens approximates the token cost of a string: 4 chars per token
// for English plus a small allowance for formatting tokens. It is a budget
// heuristic, used consistently for history and pending messages, and never
// mixed with exact tokenizer counts.
func EstimateTokens(text string) int {
	return len(text)/4 + 10
}

// SetEmotionalContext replaces the affect snapshot injected into the system
// prompt. Pass nil to clear it.
func (m *Manager) SetEmotionalContext(c *emotion.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emotional = c
}

// EmotionalContext returns the currently injected affect snapshot, if any.
func (m *Manager) EmotionalContext() *emotion.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emotional == nil {
		return nil
	}
	c := *m.emotional
	return &c
}

// systemSection renders the system prompt with the optional emotion advisory
// appended. Callers must hold m.mu.
func (m *Manager) systemSection() string {
	if m.emotional == nil {
		return m.systemPrompt
	}
	return m.systemPrompt + "\n\n[User's Current State]\n" + emotion.Advisory(*m.emotional)
}

// emotionOverheadTokens is the advisory's token cost, charged against the
// budget whenever an emotional context is present. Callers must hold m.mu.
func (m *Manager) emotionOverheadTokens() int {
	if m.emotional == nil {
		return 0
	}
	return EstimateTokens(emotion.Advisory(*m.emotional))
}

// BuildPrompt prunes history to fit the new message, then renders the full
// ChatML prompt: system section, retained history, the new user turn, and an
// open assistant marker.
func (m *Manager) BuildPrompt(userMessage string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneToFit(EstimateTokens(userMessage))

	var b strings.Builder
	b.Grow(2048)
	writeTurn(&b, RoleSystem, m.systemSection())
	for _, t := range m.turns {
		writeTurn(&b, t.Role, t.Content)
	}
	writeTurn(&b, RoleUser, userMessage)
	b.WriteString("<|im_start|>")
	b.WriteString(string(RoleAssistant))
	b.WriteString("\n")
	return b.String()
}

func writeTurn(b *strings.Builder, role Role, content string) {
	b.WriteString("<|im_start|>")
	b.WriteString(string(role))
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n<|im_end|>\n")
}

// pruneToFit drops the oldest turns until the budget invariant holds:
//
//	history + system + emotion overhead + new message + safety buffer <= max
//
// Pruning is a sliding window over whole turns; it never truncates a turn.
// Callers must hold m.mu.
func (m *Manager) pruneToFit(newMessageTokens int) {
	systemTokens := m.systemPromptTokens + m.emotionOverheadTokens()

	available := m.maxContextTokens - systemTokens - newMessageTokens - safetyBuffer
	if available < 0 {
		available = 0
	}

	currentTokens := 0
	keepFrom := len(m.turns)
	for i := len(m.turns) - 1; i >= 0; i-- {
		if currentTokens+m.turns[i].TokenCount > available {
			keepFrom = i + 1
			break
		}
		currentTokens += m.turns[i].TokenCount
		keepFrom = i
	}

	if keepFrom > 0 {
		log.Printf("[conversation] pruned %d old turns to fit context window", keepFrom)
		m.turns = append([]Turn(nil), m.turns[keepFrom:]...)
	}
}

// RecordTurn appends a turn with a freshly computed token estimate.
func (m *Manager) RecordTurn(role Role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, Turn{
		Role:       role,
		Content:    content,
		TokenCount: EstimateTokens(content),
	})
}

// ClearHistory removes all turns but keeps the system prompt.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	log.Printf("[conversation] history cleared")
}

// HistoryLen returns the number of retained turns.
func (m *Manager) HistoryLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.turns)
}

// HistoryTokens returns the total estimated token cost of retained turns.
func (m *Manager) HistoryTokens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, t := range m.turns {
		total += t.TokenCount
	}
	return total
}
